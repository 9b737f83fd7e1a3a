// services/google_adapter.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
)

// aiOverviewContent is the provider-independent shape both Google sources
// reduce their responses to.
type aiOverviewContent struct {
	Text          string
	ReferenceURLs []string
}

// aiOverviewSource is one candidate upstream for Google AI Overview data.
// FetchOverview returns (nil, nil) when the provider answered but Google
// produced no AI Overview - callers must not conflate that with an error.
type aiOverviewSource interface {
	Name() string
	Configured() bool
	FetchOverview(ctx context.Context, query string) (*aiOverviewContent, error)
}

// googleAIOverviewAdapter checks whether the target URL is cited inside
// Google's AI Overview block. Sources are tried in order until one returns
// content, so adding a further fallback provider is a one-line change.
type googleAIOverviewAdapter struct {
	sources     []aiOverviewSource
	costService CostService
}

func NewGoogleAIOverviewAdapter(cfg *config.Config, costService CostService) EngineAdapter {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &googleAIOverviewAdapter{
		sources:     []aiOverviewSource{newSerpAPIClient(cfg), newDataForSEOClient(cfg)},
		costService: costService,
	}
}

func (a *googleAIOverviewAdapter) GetEngineName() string {
	return models.EngineGoogleAIOverview
}

func (a *googleAIOverviewAdapter) IsConfigured() bool {
	for _, src := range a.sources {
		if src.Configured() {
			return true
		}
	}
	return false
}

func (a *googleAIOverviewAdapter) CheckTimeout() time.Duration {
	// Room for the fallback source plus a page-token follow-up.
	return 30 * time.Second
}

func (a *googleAIOverviewAdapter) Pause() time.Duration {
	return 2 * time.Second
}

func (a *googleAIOverviewAdapter) Check(ctx context.Context, prompt string, targetURL string) *models.EngineCheckResult {
	if !a.IsConfigured() {
		return unavailableResult(models.EngineGoogleAIOverview)
	}

	var lastErr error
	sawNoOverview := false

	for _, src := range a.sources {
		if !src.Configured() {
			continue
		}

		content, err := src.FetchOverview(ctx, prompt)
		if err != nil {
			fmt.Printf("[GoogleAIOverview] ⚠️ Source %s failed, trying next: %v\n", src.Name(), err)
			lastErr = err
			continue
		}
		if content == nil {
			sawNoOverview = true
			continue
		}

		result := buildCheckResult(models.EngineGoogleAIOverview, targetURL, content.Text, content.ReferenceURLs)
		result.HasAIOverview = boolPtr(true)
		if a.costService != nil {
			result.Cost = a.costService.CalculateCost(src.Name(), "", 0, 0, true)
		}
		fmt.Printf("[GoogleAIOverview] ✅ Check complete via %s: cited=%t match=%s citations=%d\n",
			src.Name(), result.Cited, result.MatchType, result.TotalCitations)
		return result
	}

	if sawNoOverview {
		// Google was reachable but did not trigger an AI Overview for this
		// query. Not an error and not a citation miss either.
		result := unavailableResult(models.EngineGoogleAIOverview)
		result.Available = true
		result.HasAIOverview = boolPtr(false)
		fmt.Printf("[GoogleAIOverview] No AI Overview triggered for this prompt\n")
		return result
	}

	return errorResult(models.EngineGoogleAIOverview, lastErr)
}
