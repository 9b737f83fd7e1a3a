// workflows/visibility_processor.go
package workflows

import (
	"context"
	"fmt"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/services"
)

type VisibilityProcessor struct {
	visibilityService services.VisibilityService
	client            inngestgo.Client
	cfg               *config.Config
}

func NewVisibilityProcessor(visibilityService services.VisibilityService, cfg *config.Config) *VisibilityProcessor {
	return &VisibilityProcessor{
		visibilityService: visibilityService,
		cfg:               cfg,
	}
}

func (p *VisibilityProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// VisibilityCheckEvent is the input event for a visibility run.
type VisibilityCheckEvent struct {
	URL     string          `json:"url"`
	Prompts []models.Prompt `json:"prompts"`
}

// CheckVisibility runs every prompt against the configured AI engines and
// scores the target URL's visibility. Each prompt is its own step so a
// retried function does not re-spend provider calls on prompts that already
// completed.
func (p *VisibilityProcessor) CheckVisibility() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "check-ai-visibility",
			Name:    "Check AI Visibility - Citation Scan and Scoring",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger("visibility.check", nil),
		func(ctx context.Context, input inngestgo.Input[VisibilityCheckEvent]) (any, error) {
			targetURL := input.Event.Data.URL
			prompts := input.Event.Data.Prompts
			fmt.Printf("[CheckVisibility] Starting visibility run for %s with %d prompts\n", targetURL, len(prompts))

			promptResults := make([]*models.PromptCheckResult, 0, len(prompts))
			for i, prompt := range prompts {
				prompt := prompt
				promptResult, err := step.Run(ctx, fmt.Sprintf("check-prompt-%d", i+1), func(ctx context.Context) (*models.PromptCheckResult, error) {
					fmt.Printf("[CheckVisibility] Checking prompt %d/%d: %s\n", i+1, len(prompts), prompt.Text)
					return p.visibilityService.CheckPrompt(ctx, targetURL, prompt)
				})
				if err != nil {
					return nil, fmt.Errorf("prompt %d failed: %w", i+1, err)
				}
				promptResults = append(promptResults, promptResult)
			}

			result, err := step.Run(ctx, "build-visibility-result", func(ctx context.Context) (*models.VisibilityResult, error) {
				fmt.Printf("[CheckVisibility] Scoring %d prompt results\n", len(promptResults))
				return p.visibilityService.BuildResult(targetURL, promptResults), nil
			})
			if err != nil {
				return nil, fmt.Errorf("scoring step failed: %w", err)
			}

			fmt.Printf("[CheckVisibility] ✅ Run %s complete: score=%d\n", result.RunID, result.Visibility.Score)
			return result, nil
		},
	)

	if err != nil {
		panic(fmt.Errorf("failed to create visibility check function: %w", err))
	}

	return fn
}
