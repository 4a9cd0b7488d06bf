package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies generation-service failures so callers can branch on a
// stable signal rather than scraping error message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthorized
	KindRateLimited
	KindModeUnsupported
	KindInvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindModeUnsupported:
		return "mode_unsupported"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// ServiceError is the typed failure returned by generation-service adapters.
type ServiceError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation service %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("generation service %s: %s", e.Kind, e.Message)
}

// KindOf extracts the ErrorKind from an error chain, KindUnknown otherwise.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// KindForStatus maps an HTTP status onto the provider-neutral part of the
// classification. Provider adapters refine it where the body carries more
// signal, such as a JSON-mode rejection.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindUnauthorized
	case status == 429:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// CompletionRequest is a single-shot request to the generation service.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	// JSONMode asks for strict machine-parseable output. Some models reject
	// it; adapters report that as KindModeUnsupported.
	JSONMode bool
}

// Completer is the interface the orchestrator depends on. Implementations
// return the raw text of the model's reply.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
