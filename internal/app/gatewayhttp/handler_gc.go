package gatewayhttp

import (
	"net/http"

	"github.com/sir_venger/docgate/internal/storage"
	"github.com/sir_venger/docgate/pkg/httperrors"
)

// SweepPolicy переводит настройки janitor'а из конфига в политику хранилища.
func (s *Server) SweepPolicy() storage.SweepPolicy {
	return storage.SweepPolicy{
		UploadTTL: s.Cfg.Janitor.UploadTTL,
		ResultTTL: s.Cfg.Janitor.ResultTTL,
	}
}

// gcOnce вручную запускает проход janitor'а.
func (s *Server) gcOnce(w http.ResponseWriter, _ *http.Request) {
	rep, err := s.Store.Sweep(s.SweepPolicy())
	if err != nil {
		s.Log.Error().Err(err).Msg("manual sweep")
		httperrors.Write(w, err)
		return
	}

	s.Log.Info().Int("removed", rep.Removed).Int64("freed", rep.Freed).Msg("manual sweep")
	w.WriteHeader(http.StatusNoContent)
}
