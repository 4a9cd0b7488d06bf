package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitewise-labs/ramsgen/internal/llm"
)

// Complete implements llm.Completer over text-only chat/completions.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", req.Temperature,
		"json_mode", req.JSONMode,
		"prompt_len", len(req.Prompt),
	)

	messages := []map[string]any{}
	if req.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]any{"role": "user", "content": req.Prompt})

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": req.Temperature,
		"messages":    messages,
	}
	if req.JSONMode {
		body["response_format"] = map[string]any{"type": "json_object"}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	resp, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("llm.complete.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &llm.ServiceError{Kind: llm.KindUnknown, Message: err.Error()}
	}
	if !resp.OK() {
		svcErr := classify(resp.Status, resp.Body)
		c.logger.Error("llm.complete.api_error",
			"req_id", rid, "kind", svcErr.Kind.String(), "status", resp.Status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", svcErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body, &cc); err != nil {
		c.logger.Error("llm.complete.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(resp.Body),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.complete.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in openai response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("llm.complete.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// classify turns an API error response into a typed ServiceError. The generic
// status mapping lives in llm.KindForStatus; the one OpenAI-specific
// refinement here is recognizing a JSON-mode rejection (400 whose message
// mentions response_format) so the orchestrator only ever branches on Kind.
func classify(status int, body []byte) *llm.ServiceError {
	msg := apiErrorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("non-2xx status: %d", status)
	}

	kind := llm.KindForStatus(status)
	if status == 400 && strings.Contains(msg, "response_format") {
		kind = llm.KindModeUnsupported
	}
	return &llm.ServiceError{Kind: kind, Status: status, Message: msg}
}

func apiErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Message
}
