package services

import (
	"math"
	"testing"
)

func TestCalculateCostTokenPricing(t *testing.T) {
	svc := NewCostService()

	// 1M input + 1M output tokens of gpt-4o
	cost := svc.CalculateCost("openai", "gpt-4o", 1_000_000, 1_000_000, false)
	if math.Abs(cost-12.50) > 1e-9 {
		t.Errorf("expected 12.50, got %f", cost)
	}
}

func TestCalculateCostSearchPricing(t *testing.T) {
	svc := NewCostService()

	tests := []struct {
		name     string
		provider string
		expected float64
	}{
		{"serpapi search", "serpapi", 0.015},
		{"dataforseo search", "dataforseo", 0.006},
		{"perplexity search", "perplexity", 0.008},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := svc.CalculateCost(tt.provider, "", 0, 0, true)
			if math.Abs(cost-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, cost)
			}
		})
	}
}

func TestCalculateCostUnknownModelDefaults(t *testing.T) {
	svc := NewCostService()

	got := svc.CalculateCost("openai", "gpt-experimental", 1_000_000, 0, false)
	want := svc.CalculateCost("openai", "gpt-4o", 1_000_000, 0, false)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("unknown model should fall back to gpt-4o pricing: got %f want %f", got, want)
	}
}

func TestCalculateCostCombined(t *testing.T) {
	svc := NewCostService()

	cost := svc.CalculateCost("perplexity", "sonar", 100_000, 100_000, true)
	// 0.1 + 0.1 token cost plus 0.008 search cost
	if math.Abs(cost-0.208) > 1e-9 {
		t.Errorf("expected 0.208, got %f", cost)
	}
}
