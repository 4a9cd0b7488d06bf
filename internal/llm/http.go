package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Response is the raw outcome of a provider HTTP call. A non-2xx status is
// not an error at this layer: the adapter owns classification, because only
// it knows what the provider's error bodies mean.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status/100 == 2
}

// SendJSON posts a JSON body to the given URL and returns whatever came back.
// It errors only when no response was obtained at all: encoding, request
// construction, or transport failures.
func SendJSON(ctx context.Context, client *http.Client, url string, body any, headers map[string]string, logger *slog.Logger) (*Response, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}

	rid := uuid.New().String()
	start := time.Now()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Info("llm.http.request", "req_id", rid, "url", url, "bytes", len(payload))

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("llm.http.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	logger.Info("llm.http.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
