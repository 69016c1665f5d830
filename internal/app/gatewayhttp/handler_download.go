package gatewayhttp

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/sir_venger/docgate/internal/models"
	"github.com/sir_venger/docgate/pkg/httperrors"
)

// getDownload отдаёт результат конвертации как attachment. Поддерживает Range и HEAD.
func (s *Server) getDownload(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "filename")
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	f, info, err := s.Converter.OpenResult(r.Context(), name)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer f.Close()

	contentType, err := sniff(f)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// pathParam достаёт параметр chi и раскодирует его, если роутинг шёл по RawPath:
// иначе %2F и %5C проскочили бы проверку locator'а в закодированном виде.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}

	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrInvalidName, err)
	}
	return decoded, nil
}

// sniff определяет Content-Type по содержимому и возвращает файл в начало.
func sniff(f io.ReadSeeker) (string, error) {
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mt.String(), nil
}
