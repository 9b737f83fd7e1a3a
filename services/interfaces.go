// services/interfaces.go
package services

import (
	"context"
	"time"

	"github.com/geosignal/visibility-workflows/internal/models"
)

// EngineAdapter is implemented by each AI search engine integration.
//
// Check never returns a Go error: provider failures are folded into the
// result record (Available/Error fields) at the adapter boundary, so a
// single engine's failure can never abort the rest of a run.
type EngineAdapter interface {
	Check(ctx context.Context, prompt string, targetURL string) *models.EngineCheckResult

	GetEngineName() string

	// IsConfigured reports whether the engine has the credentials it needs.
	// Unconfigured engines are omitted from runs entirely.
	IsConfigured() bool

	// CheckTimeout bounds one Check call, fallback sources included.
	CheckTimeout() time.Duration

	// Pause is the fixed rate-limit pause inserted after each Check call.
	// Upstream providers throttle or ban bursty callers.
	Pause() time.Duration
}

// CostService tracks the spend of provider calls. Scoring correctness does
// not depend on it; a nil sink disables tracking.
type CostService interface {
	CalculateCost(provider, model string, inputTokens, outputTokens int, webSearch bool) float64
}

// VisibilityService drives the full multi-prompt, multi-engine visibility
// run and is the sole public entry point of the scoring engine.
type VisibilityService interface {
	CheckAIVisibility(ctx context.Context, targetURL string, prompts []models.Prompt) (*models.VisibilityResult, error)

	// CheckPrompt runs every configured engine for a single prompt.
	CheckPrompt(ctx context.Context, targetURL string, prompt models.Prompt) (*models.PromptCheckResult, error)

	// BuildResult scores the collected prompt results and assembles the
	// final run output. Pure with respect to service state.
	BuildResult(targetURL string, promptResults []*models.PromptCheckResult) *models.VisibilityResult
}
