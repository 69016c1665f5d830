package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "docgate", line["service"])
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "warn", line["level"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
}

func TestMiddleware_AccessLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})

	r := chi.NewRouter()
	r.Use(Middleware(log)...)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, ok := hlog.IDFromRequest(r)
		assert.True(t, ok)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "/ping", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.NotEmpty(t, line["request_id"])
}
