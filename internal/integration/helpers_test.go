package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sir_venger/docgate/internal/app/gatewayhttp"
	"github.com/sir_venger/docgate/internal/config"
	"github.com/sir_venger/docgate/pkg/converterproto"
)

type uploadResponse struct {
	Message      string `json:"message"`
	DownloadURL  string `json:"downloadUrl"`
	DownloadPath string `json:"downloadPath"`
	Error        string `json:"error"`
}

// fakeConverter имитирует внешний сервис: читает исходник из shared storage и пишет результат.
type fakeConverter struct {
	root string
	// respond переопределяет поведение; при nil конвертация успешна.
	respond respondFunc

	requests chan converterproto.ConvertRequest
}

func (f *fakeConverter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != converterproto.ConvertPath || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req converterproto.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	select {
	case f.requests <- req:
	default:
	}

	if f.respond != nil {
		f.respond(w, req)
		return
	}

	src, err := os.ReadFile(req.FilePath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// «конвертация»: префикс + исходные байты, под именем из uuid, как у настоящего воркера
	out := filepath.Join(f.root, "results", uuid.NewString()+".pdf")
	if err := os.WriteFile(out, append([]byte("%PDF-1.4\n"), src...), 0o644); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(converterproto.ConvertResponse{ResultPath: out})
}

type env struct {
	root      string
	gateway   *httptest.Server
	converter *fakeConverter
}

type respondFunc func(w http.ResponseWriter, req converterproto.ConvertRequest)

func newEnv(t *testing.T, respond respondFunc, mutate ...func(*config.Config)) *env {
	t.Helper()

	root := t.TempDir()
	conv := &fakeConverter{root: root, respond: respond, requests: make(chan converterproto.ConvertRequest, 16)}
	convSrv := httptest.NewServer(conv)
	t.Cleanup(convSrv.Close)

	cfg := config.Default()
	cfg.ListenAddr = ":0"
	cfg.Converter.BaseURL = convSrv.URL
	cfg.Converter.Timeout = 2 * time.Second
	cfg.Storage.Root = root
	for _, m := range mutate {
		m(cfg)
	}

	h, _, err := gatewayhttp.NewServer(cfg, zerolog.Nop())
	require.NoError(t, err)
	gw := httptest.NewServer(h)
	t.Cleanup(gw.Close)

	return &env{root: root, gateway: gw, converter: conv}
}

func (e *env) uploads(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.root, "uploads"))
	require.NoError(t, err)
	var names []string
	for _, en := range entries {
		names = append(names, en.Name())
	}
	return names
}

func uploadFile(t *testing.T, url, field, filename string, data []byte) (int, uploadResponse) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		w, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/upload-convert", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out uploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func download(t *testing.T, url string) (int, []byte, http.Header) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b, resp.Header
}
