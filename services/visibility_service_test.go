package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/internal/testutil"
)

func TestCheckAIVisibilityNoEnginesConfigured(t *testing.T) {
	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{
		&testutil.MockEngineAdapter{Engine: models.EngineChatGPT, Configured: false},
	})

	result, err := svc.CheckAIVisibility(context.Background(), "https://college.edu", testutil.SamplePrompts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Visibility.Score != 0 || result.Visibility.TotalChecks != 0 {
		t.Errorf("expected zero score and zero checks, got %+v", result.Visibility)
	}
	if result.Summary.PromptsChecked != 2 {
		t.Errorf("expected 2 prompts recorded, got %d", result.Summary.PromptsChecked)
	}
	if result.Summary.EnginesChecked != 0 {
		t.Errorf("expected 0 engines checked, got %d", result.Summary.EnginesChecked)
	}
	if len(result.Visibility.Insights) == 0 {
		t.Error("expected an insight explaining the empty run")
	}
}

func TestCheckAIVisibilityCitedInHalfOfChecks(t *testing.T) {
	google := &testutil.MockEngineAdapter{
		Engine:     models.EngineGoogleAIOverview,
		Configured: true,
		Results: []*models.EngineCheckResult{
			testutil.CitedResult(models.EngineGoogleAIOverview, "exact", 1),
			testutil.UncitedResult(models.EngineGoogleAIOverview, false),
		},
	}
	perplexity := &testutil.MockEngineAdapter{
		Engine:     models.EnginePerplexity,
		Configured: true,
		Results: []*models.EngineCheckResult{
			testutil.UncitedResult(models.EnginePerplexity, false),
			testutil.CitedResult(models.EnginePerplexity, "exact", 1),
		},
	}

	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{google, perplexity})
	result, err := svc.CheckAIVisibility(context.Background(), "https://college.edu", testutil.SamplePrompts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.TotalChecks != 4 || result.Summary.CitedCount != 2 {
		t.Fatalf("expected 4 checks with 2 cited, got %d/%d", result.Summary.TotalChecks, result.Summary.CitedCount)
	}
	if result.Visibility.CitationRate != 50 {
		t.Errorf("expected citation rate 50, got %f", result.Visibility.CitationRate)
	}
	if result.Visibility.AveragePosition == nil || *result.Visibility.AveragePosition != 1.0 {
		t.Errorf("expected average position 1.0, got %v", result.Visibility.AveragePosition)
	}
	if result.Summary.EnginesChecked != 2 {
		t.Errorf("expected 2 engines checked, got %d", result.Summary.EnginesChecked)
	}
	if google.CheckCalls != 2 || perplexity.CheckCalls != 2 {
		t.Errorf("expected each engine called once per prompt, got %d/%d", google.CheckCalls, perplexity.CheckCalls)
	}
}

func TestCheckAIVisibilityPreservesPromptOrder(t *testing.T) {
	adapter := &testutil.MockEngineAdapter{Engine: models.EngineChatGPT, Configured: true}
	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{adapter})

	prompts := testutil.SamplePrompts()
	result, err := svc.CheckAIVisibility(context.Background(), "https://college.edu", prompts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.PromptResults) != len(prompts) {
		t.Fatalf("expected %d prompt results, got %d", len(prompts), len(result.PromptResults))
	}
	for i, promptResult := range result.PromptResults {
		if promptResult.Prompt.Text != prompts[i].Text {
			t.Errorf("prompt %d out of order: got %q want %q", i, promptResult.Prompt.Text, prompts[i].Text)
		}
	}
	for i, seen := range adapter.SeenPrompts {
		if seen != prompts[i].Text {
			t.Errorf("engine saw prompt %d as %q, want %q", i, seen, prompts[i].Text)
		}
	}
}

func TestCheckPromptOmitsUnconfiguredEngines(t *testing.T) {
	configured := &testutil.MockEngineAdapter{Engine: models.EnginePerplexity, Configured: true}
	unconfigured := &testutil.MockEngineAdapter{Engine: models.EngineChatGPT, Configured: false}

	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{configured, unconfigured})
	promptResult, err := svc.CheckPrompt(context.Background(), "https://college.edu", models.Prompt{Text: "a prompt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := promptResult.Checks[models.EnginePerplexity]; !ok {
		t.Error("configured engine missing from checks")
	}
	if _, ok := promptResult.Checks[models.EngineChatGPT]; ok {
		t.Error("unconfigured engine must be omitted from checks, not recorded")
	}
	if unconfigured.CheckCalls != 0 {
		t.Errorf("unconfigured engine must never be called, got %d calls", unconfigured.CheckCalls)
	}
}

func TestCheckAIVisibilityErroredChecksExcludedFromScoring(t *testing.T) {
	failing := &testutil.MockEngineAdapter{
		Engine:     models.EnginePerplexity,
		Configured: true,
		Results: []*models.EngineCheckResult{
			{Engine: models.EnginePerplexity, Available: true, MatchType: "none", Citations: []models.Citation{}, Error: "upstream 500"},
		},
	}
	cited := &testutil.MockEngineAdapter{
		Engine:     models.EngineGoogleAIOverview,
		Configured: true,
		Results: []*models.EngineCheckResult{
			testutil.CitedResult(models.EngineGoogleAIOverview, "exact", 1),
		},
	}

	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{cited, failing})
	result, err := svc.CheckAIVisibility(context.Background(), "https://college.edu",
		[]models.Prompt{{Text: "a prompt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the clean check scores; the errored one is kept in the raw
	// results but excluded from the rates.
	if result.Visibility.TotalChecks != 1 {
		t.Errorf("expected 1 valid check scored, got %d", result.Visibility.TotalChecks)
	}
	if result.Visibility.CitationRate != 100 {
		t.Errorf("expected citation rate 100, got %f", result.Visibility.CitationRate)
	}
	if result.Summary.TotalChecks != 2 {
		t.Errorf("run summary counts every recorded check, got %d", result.Summary.TotalChecks)
	}
}

func TestCheckAIVisibilityContextCancellation(t *testing.T) {
	adapter := &testutil.MockEngineAdapter{Engine: models.EngineChatGPT, Configured: true}
	svc := NewVisibilityServiceFromAdapters([]EngineAdapter{adapter})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CheckAIVisibility(ctx, "https://college.edu", testutil.SamplePrompts())
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestBuildResultAccumulatesCostAndDomains(t *testing.T) {
	cited := testutil.CitedResult(models.EngineGoogleAIOverview, "exact", 1)
	cited.Cost = 0.015
	cited.Citations = []models.Citation{
		{URL: "https://college.edu/nursing", MatchClass: "exact"},
		{URL: "https://otherschool.edu/programs", MatchClass: "none"},
	}
	uncited := testutil.UncitedResult(models.EnginePerplexity, true)
	uncited.Cost = 0.008
	uncited.Citations = []models.Citation{
		{URL: "https://otherschool.edu/rankings", MatchClass: "none"},
	}

	svc := NewVisibilityServiceFromAdapters(nil).(*visibilityService)
	result := svc.BuildResult("https://college.edu", []*models.PromptCheckResult{
		{
			Prompt: models.Prompt{Text: "a prompt"},
			Checks: map[string]*models.EngineCheckResult{
				models.EngineGoogleAIOverview: cited,
				models.EnginePerplexity:       uncited,
			},
		},
	})

	if math.Abs(result.Summary.TotalCost-0.023) > 1e-9 {
		t.Errorf("expected total cost 0.023, got %f", result.Summary.TotalCost)
	}
	if result.Summary.UniqueDomains != 2 {
		t.Errorf("expected 2 unique domains, got %d", result.Summary.UniqueDomains)
	}
	breakdown := result.Summary.Engines[models.EngineGoogleAIOverview]
	if breakdown.Checks != 1 || breakdown.Cited != 1 {
		t.Errorf("unexpected google breakdown: %+v", breakdown)
	}
	if result.RunID == uuid.Nil {
		t.Error("expected a populated run ID")
	}
}
