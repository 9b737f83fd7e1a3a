// services/visibility_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/internal/scoring"
)

// visibilityService runs prompts against every configured engine adapter,
// strictly sequentially. Engines are rate-limited upstream; concurrency here
// would trade correctness for nothing.
type visibilityService struct {
	adapters []EngineAdapter
}

// NewVisibilityService builds the standard adapter set from config and drops
// any engine without credentials.
func NewVisibilityService(cfg *config.Config, costService CostService) VisibilityService {
	candidates := []EngineAdapter{
		NewGoogleAIOverviewAdapter(cfg, costService),
		NewPerplexityAdapter(cfg, costService),
		NewChatGPTAdapter(cfg, costService),
	}

	adapters := make([]EngineAdapter, 0, len(candidates))
	for _, adapter := range candidates {
		if !adapter.IsConfigured() {
			fmt.Printf("[VisibilityService] Engine %s not configured, skipping\n", adapter.GetEngineName())
			continue
		}
		adapters = append(adapters, adapter)
	}

	fmt.Printf("[VisibilityService] Initialized with %d of %d engines\n", len(adapters), len(candidates))
	return &visibilityService{adapters: adapters}
}

// NewVisibilityServiceFromAdapters wires an explicit adapter set. Unconfigured
// adapters are dropped the same way NewVisibilityService drops them.
func NewVisibilityServiceFromAdapters(adapters []EngineAdapter) VisibilityService {
	kept := make([]EngineAdapter, 0, len(adapters))
	for _, adapter := range adapters {
		if adapter.IsConfigured() {
			kept = append(kept, adapter)
		}
	}
	return &visibilityService{adapters: kept}
}

// CheckAIVisibility runs all prompts against all configured engines and
// scores the outcome. Adapter failures are absorbed into their check records;
// the only error returned is context cancellation.
func (s *visibilityService) CheckAIVisibility(ctx context.Context, targetURL string, prompts []models.Prompt) (*models.VisibilityResult, error) {
	fmt.Printf("[VisibilityService] Starting visibility run: url=%s prompts=%d engines=%d\n",
		targetURL, len(prompts), len(s.adapters))

	promptResults := make([]*models.PromptCheckResult, 0, len(prompts))
	for i, prompt := range prompts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fmt.Printf("[VisibilityService] Prompt %d/%d: %s\n", i+1, len(prompts), prompt.Text)
		promptResult, err := s.CheckPrompt(ctx, targetURL, prompt)
		if err != nil {
			return nil, err
		}
		promptResults = append(promptResults, promptResult)
	}

	result := s.BuildResult(targetURL, promptResults)
	fmt.Printf("[VisibilityService] ✅ Run complete: score=%d checks=%d cited=%d cost=$%.4f\n",
		result.Visibility.Score, result.Summary.TotalChecks, result.Summary.CitedCount, result.Summary.TotalCost)
	return result, nil
}

// CheckPrompt runs one prompt through every configured engine in order, with
// the engine's rate-limit pause after each call.
func (s *visibilityService) CheckPrompt(ctx context.Context, targetURL string, prompt models.Prompt) (*models.PromptCheckResult, error) {
	checks := make(map[string]*models.EngineCheckResult, len(s.adapters))

	for _, adapter := range s.adapters {
		checkCtx, cancel := context.WithTimeout(ctx, adapter.CheckTimeout())
		result := adapter.Check(checkCtx, prompt.Text, targetURL)
		cancel()

		checks[adapter.GetEngineName()] = result

		if err := pause(ctx, adapter.Pause()); err != nil {
			return nil, err
		}
	}

	return &models.PromptCheckResult{
		Prompt:    prompt,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	}, nil
}

// BuildResult scores the collected checks and assembles the run output.
func (s *visibilityService) BuildResult(targetURL string, promptResults []*models.PromptCheckResult) *models.VisibilityResult {
	flattened := s.flatten(promptResults)

	summary := &models.RunSummary{
		PromptsChecked: len(promptResults),
		Engines:        make(map[string]models.EngineBreakdown),
	}
	if len(promptResults) > 0 {
		summary.EnginesChecked = len(promptResults[0].Checks)
	}

	for _, check := range flattened {
		summary.TotalChecks++
		breakdown := summary.Engines[check.Engine]
		breakdown.Checks++
		if check.Cited {
			summary.CitedCount++
			breakdown.Cited++
		}
		summary.Engines[check.Engine] = breakdown
		summary.TotalCost += check.Cost
	}

	summary.UniqueDomains, summary.TopDomains = scoring.DomainStats(flattened)

	return &models.VisibilityResult{
		RunID:         uuid.New(),
		URL:           targetURL,
		Visibility:    scoring.Compute(flattened),
		PromptResults: promptResults,
		Summary:       summary,
		Timestamp:     time.Now().UTC(),
	}
}

// flatten walks prompt results in prompt order and, inside each prompt, in
// the service's adapter order so the output is deterministic. Results from
// engines unknown to the adapter list (pre-recorded inputs) are appended in
// a fixed engine-key order.
func (s *visibilityService) flatten(promptResults []*models.PromptCheckResult) []*models.EngineCheckResult {
	order := make([]string, 0, len(s.adapters)+3)
	seen := make(map[string]bool)
	for _, adapter := range s.adapters {
		order = append(order, adapter.GetEngineName())
		seen[adapter.GetEngineName()] = true
	}
	for _, engine := range []string{models.EngineGoogleAIOverview, models.EnginePerplexity, models.EngineChatGPT} {
		if !seen[engine] {
			order = append(order, engine)
		}
	}

	var flattened []*models.EngineCheckResult
	for _, promptResult := range promptResults {
		for _, engine := range order {
			if check, ok := promptResult.Checks[engine]; ok {
				flattened = append(flattened, check)
			}
		}
	}
	return flattened
}

// pause sleeps for the adapter's rate-limit interval, bailing out early if
// the run context is cancelled.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
