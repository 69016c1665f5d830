package httperrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sir_venger/docgate/internal/models"
)

// errInternal видит клиент вместо неклассифицированной ошибки.
var errInternal = errors.New("internal error")

type errorBody struct {
	Error string `json:"error"`
}

// Write пишет JSON {error} с кодом по классу ошибки. Клиенту уходит только текст
// sentinel-ошибки: внутренние пути и детали остаются в логах.
func Write(w http.ResponseWriter, err error) {
	status, public := Classify(err)
	WriteJSON(w, status, errorBody{Error: public.Error()})
}

// Classify сопоставляет ошибку HTTP-статусу и публичной ошибке.
func Classify(err error) (int, error) {
	switch {
	case errors.Is(err, models.ErrNoFile):
		return http.StatusBadRequest, models.ErrNoFile
	case errors.Is(err, models.ErrTooManyFiles):
		return http.StatusBadRequest, models.ErrTooManyFiles
	case errors.Is(err, models.ErrInvalidName):
		return http.StatusBadRequest, models.ErrInvalidName
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, models.ErrTooLarge
	case errors.Is(err, models.ErrConverterBusy):
		return http.StatusServiceUnavailable, models.ErrConverterBusy
	case errors.Is(err, models.ErrConversionFailed):
		return http.StatusInternalServerError, models.ErrConversionFailed
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// WriteJSON сериализует payload с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
