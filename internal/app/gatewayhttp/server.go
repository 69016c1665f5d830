package gatewayhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/sir_venger/docgate/internal/config"
	"github.com/sir_venger/docgate/internal/logging"
	"github.com/sir_venger/docgate/internal/storage"
	"github.com/sir_venger/docgate/internal/usecase/convertsvc"
	"github.com/sir_venger/docgate/pkg/converterclient"
)

type Server struct {
	Converter convertsvc.Service
	Store     *storage.Store
	Cfg       *config.Config
	Log       zerolog.Logger
}

// NewServer конструктор: поднимает shared storage на диске и клиента конвертера по конфигу.
func NewServer(cfg *config.Config, log zerolog.Logger) (http.Handler, *Server, error) {
	store, err := storage.New(afero.NewOsFs(), cfg.Storage.Root)
	if err != nil {
		return nil, nil, err
	}

	if cfg.PublicBaseURL == "" {
		log.Warn().
			Bool("trust_proxy", cfg.HTTP.TrustProxy).
			Msg("public_base_url is not set, downloadUrl is built from the request Host header")
	}

	srv := &Server{
		Converter: buildConvertService(cfg, store, log),
		Store:     store,
		Cfg:       cfg,
		Log:       log,
	}

	return srv.Routes(), srv, nil
}

func buildConvertService(cfg *config.Config, store *storage.Store, log zerolog.Logger) convertsvc.Service {
	return convertsvc.New(convertsvc.Deps{
		Storage:     store,
		Converter:   converterclient.New(cfg.Converter.BaseURL),
		Log:         log,
		TargetExt:   cfg.Converter.TargetExt,
		Timeout:     cfg.Converter.Timeout,
		MaxInFlight: cfg.Converter.MaxInFlight,
		KeepSources: cfg.Storage.KeepSources,
	})
}

// Routes собирает роутер с middleware: логирование, recover, CORS для браузерного клиента.
func (s *Server) Routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RealIP)
	rtr.Use(logging.Middleware(s.Log)...)
	rtr.Use(middleware.Recoverer)
	rtr.Use(s.cors().Handler)

	rtr.Post("/upload-convert", s.postUploadConvert)
	rtr.Get("/download/{filename}", s.getDownload)
	rtr.Head("/download/{filename}", s.getDownload)
	rtr.Get("/health", s.health)
	rtr.Post("/admin/gc", s.gcOnce)

	return rtr
}

func (s *Server) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: s.Cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
	})
}
