package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/knowledge"
	"github.com/sitewise-labs/ramsgen/internal/llm"
	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// maxSnippets bounds the knowledge context per request.
const maxSnippets = 10

// ScopeSummary is the loosely-typed convenience extraction over a scope
// document. It is always usable, possibly sparse.
type ScopeSummary struct {
	WorkDescription    string   `json:"workDescription"`
	Location           string   `json:"location"`
	Equipment          []string `json:"equipment"`
	Materials          []string `json:"materials"`
	IdentifiedHazards  []string `json:"identifiedHazards"`
	Duration           string   `json:"duration"`
	AccessRequirements string   `json:"accessRequirements"`
}

func emptyScopeSummary(reason string) ScopeSummary {
	return ScopeSummary{
		WorkDescription:   reason,
		Equipment:         []string{},
		Materials:         []string{},
		IdentifiedHazards: []string{},
	}
}

// Orchestrator drives the generation service. The Completer is injected at
// startup; its credential is checked at construction time, not per call.
type Orchestrator struct {
	completer   llm.Completer
	store       knowledge.Store
	temperature float32
	logger      *slog.Logger
}

// NewOrchestrator wires the orchestrator. store may be nil, in which case the
// standard-guidelines placeholder is used as knowledge context.
func NewOrchestrator(completer llm.Completer, store knowledge.Store, temperature float32, logger *slog.Logger) *Orchestrator {
	if temperature <= 0 {
		temperature = 0.7
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		completer:   completer,
		store:       store,
		temperature: temperature,
		logger:      logger,
	}
}

// GenerateFromScope is the primary generation path. It fails loudly: any
// service error beyond the single JSON-mode fallback, and any unparseable
// response, propagate to the caller rather than producing a document a user
// could mistake for a real RAMS.
func (o *Orchestrator) GenerateFromScope(ctx context.Context, scopeText, organizationID string, details *JobDetails) (rams.Content, error) {
	rid := uuid.New().String()
	start := time.Now()

	o.logger.Info("generate.rams.start",
		"req_id", rid,
		"organization_id", organizationID,
		"scope_len", len(scopeText),
		"has_details", details != nil,
	)

	knowledgeContext := ""
	if o.store != nil {
		snippets, err := o.store.ListActiveSnippets(ctx, organizationID, maxSnippets)
		if err != nil {
			o.logger.Error("generate.rams.knowledge_failed", "req_id", rid, "error", err)
			// The store already tagged the chain with ErrDatabase.
			return nil, common.NewAppError("GENERATION_FAILED", "could not load knowledge context", err)
		}
		knowledgeContext = BuildKnowledgeContext(snippets)
		o.logger.Info("generate.rams.knowledge_loaded", "req_id", rid, "snippets", len(snippets))
	}

	prompt := BuildRamsPrompt(scopeText, details, knowledgeContext)

	text, err := o.completeWithFallback(ctx, rid, ramsSystemPrompt, prompt, o.temperature)
	if err != nil {
		o.logger.Error("generate.rams.failed",
			"req_id", rid, "kind", llm.KindOf(err).String(), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewAppError("GENERATION_FAILED", "the AI could not produce this RAMS document",
			fmt.Errorf("%w: %w", common.ErrGeneration, err))
	}

	var content rams.Content
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		o.logger.Error("generate.rams.malformed_response",
			"req_id", rid, "error", err, "content_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewAppError("GENERATION_FAILED", "the AI returned an unreadable document",
			fmt.Errorf("%w: %w", common.ErrGeneration, err))
	}

	// Advisory contract check; the normalizer is total over drifted shapes.
	if err := ValidateRamsShape(map[string]any(content)); err != nil {
		o.logger.Warn("generate.rams.shape_drift", "req_id", rid, "error", err)
	}

	o.logger.Info("generate.rams.ok",
		"req_id", rid,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// ExtractScopeData is the best-effort convenience extraction. It never
// propagates an error: downstream forms are editable, so a sparse summary is
// preferable to a failure.
func (o *Orchestrator) ExtractScopeData(ctx context.Context, text string) ScopeSummary {
	rid := uuid.New().String()
	start := time.Now()

	o.logger.Info("generate.scope.start", "req_id", rid, "text_len", len(text))

	reply, err := o.completeWithFallback(ctx, rid, "", BuildScopePrompt(text), 0.5)
	if err != nil {
		o.logger.Warn("generate.scope.degraded",
			"req_id", rid, "kind", llm.KindOf(err).String(), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return emptyScopeSummary("Unable to extract (AI Error)")
	}

	var summary ScopeSummary
	if err := json.Unmarshal([]byte(reply), &summary); err != nil {
		o.logger.Warn("generate.scope.malformed_response", "req_id", rid, "error", err)
		return emptyScopeSummary("Unable to extract")
	}
	if summary.Equipment == nil {
		summary.Equipment = []string{}
	}
	if summary.Materials == nil {
		summary.Materials = []string{}
	}
	if summary.IdentifiedHazards == nil {
		summary.IdentifiedHazards = []string{}
	}

	o.logger.Info("generate.scope.ok", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
	return summary
}

// completeWithFallback requests strict JSON output; when the service rejects
// that mode specifically, it retries once without it and strips any Markdown
// fences from the reply. Any other error, or a second failure, propagates.
func (o *Orchestrator) completeWithFallback(ctx context.Context, rid, system, prompt string, temperature float32) (string, error) {
	text, err := o.completer.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		Temperature: temperature,
		JSONMode:    true,
	})
	if err == nil {
		return llm.StripCodeFences(text), nil
	}
	if llm.KindOf(err) != llm.KindModeUnsupported {
		return "", err
	}

	o.logger.Warn("generate.json_mode_unsupported", "req_id", rid, "hint", "retrying without strict output mode")

	text, err = o.completer.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		Temperature: temperature,
		JSONMode:    false,
	})
	if err != nil {
		return "", err
	}
	return llm.StripCodeFences(text), nil
}
