// Package logging собирает zerolog-логгер шлюза и HTTP-middleware для access-логов.
package logging

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const serviceName = "docgate"

// Config: параметры логгера.
type Config struct {
	Level  string
	Format string // json или console
	Output io.Writer
}

// New создаёт логгер с полями service и timestamp.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Middleware кладёт логгер в контекст запроса, проставляет request id и пишет access-строку.
func Middleware(log zerolog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		hlog.NewHandler(log),
		hlog.RequestIDHandler("request_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			ev := hlog.FromRequest(r).Info()
			if status >= http.StatusInternalServerError {
				ev = hlog.FromRequest(r).Warn()
			}
			ev.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", d).
				Msg("request")
		}),
	}
}
