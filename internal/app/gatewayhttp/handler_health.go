package gatewayhttp

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/sir_venger/docgate/pkg/httperrors"
)

// healthStats: payload ответа /health.
type healthStats struct {
	OK           bool   `json:"ok"`
	UploadsFiles int    `json:"uploads_files"`
	UploadsBytes int64  `json:"uploads_bytes"`
	Staging      int    `json:"staging_files"`
	ResultsFiles int    `json:"results_files"`
	ResultsBytes int64  `json:"results_bytes"`
	TotalHuman   string `json:"total_human"`
}

// health возвращает агрегированную статистику по зонам shared storage.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	u, err := s.Store.Usage()
	if err != nil {
		s.Log.Error().Err(err).Msg("storage usage")
		httperrors.WriteJSON(w, http.StatusServiceUnavailable, healthStats{OK: false})
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, healthStats{
		OK:           true,
		UploadsFiles: u.Uploads.Files,
		UploadsBytes: u.Uploads.Bytes,
		Staging:      u.Uploads.Staging,
		ResultsFiles: u.Results.Files,
		ResultsBytes: u.Results.Bytes,
		TotalHuman:   humanize.IBytes(uint64(u.TotalBytes())),
	})
}
