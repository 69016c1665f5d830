package converterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sir_venger/docgate/pkg/converterproto"
)

// maxResponseBytes ограничивает чтение ответа конвертера: там только короткий JSON.
const maxResponseBytes = 1 << 20

// ErrBadResponse: конвертер ответил, но ответ нельзя использовать.
var ErrBadResponse = errors.New("bad converter response")

type Client interface {
	// Convert Синхронно попросить конвертер преобразовать файл, один вызов без ретраев
	Convert(ctx context.Context, req converterproto.ConvertRequest) (converterproto.ConvertResponse, error)
}

type httpClient struct {
	c       *http.Client
	baseURL string
}

// New создаёт HTTP-клиент конвертера. Таймаут задаётся контекстом вызова, а не клиентом.
func New(baseURL string) Client {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

// NewWithHTTPClient позволяет подставить свой http.Client (транспорт, тесты).
func NewWithHTTPClient(baseURL string, c *http.Client) Client {
	return &httpClient{
		c:       c,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Convert отправляет {filePath, outputFileName} и возвращает resultPath.
func (h *httpClient) Convert(ctx context.Context, req converterproto.ConvertRequest) (converterproto.ConvertResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return converterproto.ConvertResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+converterproto.ConvertPath, bytes.NewReader(body))
	if err != nil {
		return converterproto.ConvertResponse{}, err
	}
	httpReq.Header.Set("Content-Type", converterproto.ContentTypeJSON)
	httpReq.Header.Set("Accept", converterproto.ContentTypeJSON)

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return converterproto.ConvertResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return converterproto.ConvertResponse{}, fmt.Errorf("%w: converter POST failed: %s", ErrBadResponse, resp.Status)
	}

	var out converterproto.ConvertResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return converterproto.ConvertResponse{}, fmt.Errorf("%w: decode body: %v", ErrBadResponse, err)
	}
	if strings.TrimSpace(out.ResultPath) == "" {
		return converterproto.ConvertResponse{}, fmt.Errorf("%w: empty resultPath", ErrBadResponse)
	}

	return out, nil
}
