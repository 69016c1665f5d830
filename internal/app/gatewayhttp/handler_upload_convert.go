package gatewayhttp

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/sir_venger/docgate/internal/models"
	"github.com/sir_venger/docgate/pkg/httperrors"
)

const (
	formFieldFile = "file"
	// multipartMemory: сколько формы держим в памяти, остальное net/http сбрасывает во временные файлы.
	multipartMemory = 8 << 20
	successMessage  = "Conversion successful"
)

// uploadConvertResp: тело ответа при успешной конвертации.
type uploadConvertResp struct {
	Message      string `json:"message"`
	DownloadURL  string `json:"downloadUrl"`
	DownloadPath string `json:"downloadPath"`
}

// postUploadConvert принимает файл и полностью делегирует staging и конвертацию сервису.
func (s *Server) postUploadConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.HTTP.MaxUploadBytes)

	file, header, err := singleFormFile(r)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer file.Close()

	res, err := s.Converter.UploadConvert(r.Context(), file, header.Filename)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("file_name", header.Filename).Msg("upload-convert failed")
		httperrors.Write(w, err)
		return
	}

	downloadPath := "/download/" + res.Locator
	httperrors.WriteJSON(w, http.StatusOK, uploadConvertResp{
		Message:      successMessage,
		DownloadURL:  s.publicBaseURL(r) + downloadPath,
		DownloadPath: downloadPath,
	})
}

// singleFormFile разбирает форму и требует ровно один файл в поле file.
func singleFormFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("%w: %w", models.ErrTooLarge, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", models.ErrNoFile, err)
	}

	headers := r.MultipartForm.File[formFieldFile]
	switch {
	case len(headers) == 0:
		return nil, nil, models.ErrNoFile
	case len(headers) > 1:
		return nil, nil, models.ErrTooManyFiles
	}

	f, err := headers[0].Open()
	if err != nil {
		return nil, nil, err
	}
	return f, headers[0], nil
}

// publicBaseURL: адрес шлюза из конфига, а если он не задан, восстановленный из запроса.
// X-Forwarded-Proto учитывается только при http.trust_proxy.
func (s *Server) publicBaseURL(r *http.Request) string {
	if base := strings.TrimRight(s.Cfg.PublicBaseURL, "/"); base != "" {
		return base
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if s.Cfg.HTTP.TrustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	return scheme + "://" + r.Host
}
