package testutil

import (
	"context"
	"time"

	"github.com/geosignal/visibility-workflows/internal/models"
)

// MockEngineAdapter is a configurable engine adapter for service tests.
// Results are returned in order, one per Check call; the last result repeats
// once the script runs out.
type MockEngineAdapter struct {
	Engine     string
	Configured bool
	Results    []*models.EngineCheckResult
	PauseFor   time.Duration

	CheckCalls  int
	SeenPrompts []string
	SeenTargets []string
}

func (m *MockEngineAdapter) Check(ctx context.Context, prompt string, targetURL string) *models.EngineCheckResult {
	m.CheckCalls++
	m.SeenPrompts = append(m.SeenPrompts, prompt)
	m.SeenTargets = append(m.SeenTargets, targetURL)

	if len(m.Results) == 0 {
		return &models.EngineCheckResult{Engine: m.Engine, Available: true, MatchType: "none", Citations: []models.Citation{}}
	}
	idx := m.CheckCalls - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	return m.Results[idx]
}

func (m *MockEngineAdapter) GetEngineName() string {
	return m.Engine
}

func (m *MockEngineAdapter) IsConfigured() bool {
	return m.Configured
}

func (m *MockEngineAdapter) CheckTimeout() time.Duration {
	return time.Second
}

func (m *MockEngineAdapter) Pause() time.Duration {
	return m.PauseFor
}

// MockCostService records cost calls and returns a fixed per-call cost.
type MockCostService struct {
	PerCall float64
	Calls   int
}

func (m *MockCostService) CalculateCost(provider, model string, inputTokens, outputTokens int, webSearch bool) float64 {
	m.Calls++
	return m.PerCall
}

// CitedResult builds a check result for an engine that cited the target.
func CitedResult(engine, matchType string, position int) *models.EngineCheckResult {
	return &models.EngineCheckResult{
		Engine:         engine,
		Available:      true,
		Cited:          true,
		CitedExact:     matchType == "exact",
		CitedPartial:   matchType == "partial",
		MatchType:      matchType,
		Position:       &position,
		TotalCitations: position,
		Citations:      []models.Citation{},
	}
}

// UncitedResult builds a check result for an engine that answered without
// citing the target.
func UncitedResult(engine string, domainMentioned bool) *models.EngineCheckResult {
	return &models.EngineCheckResult{
		Engine:          engine,
		Available:       true,
		MatchType:       "none",
		DomainMentioned: domainMentioned,
		Citations:       []models.Citation{},
	}
}
