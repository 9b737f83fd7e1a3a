// services/cost_service.go
package services

import "strings"

type costService struct{}

func NewCostService() CostService {
	return &costService{}
}

// Cost per 1M tokens
var costPerToken = map[string]struct{ input, output float64 }{
	"gpt-4o":      {input: 2.50, output: 10.00},
	"gpt-4o-mini": {input: 0.15, output: 0.60},
	"sonar":       {input: 1.00, output: 1.00}, // Perplexity Sonar pricing (estimated)
}

// Cost per 1000 searches
var costPerSearch = map[string]float64{
	"serpapi":    15.00,
	"dataforseo": 6.00,
	"perplexity": 8.00,
	"openai":     35.00,
}

func (s *costService) CalculateCost(provider string, model string, inputTokens int, outputTokens int, webSearch bool) float64 {
	var totalCost float64

	if model != "" {
		modelCosts, exists := costPerToken[model]
		if !exists {
			// Default to GPT-4o costs if model not found
			modelCosts = costPerToken["gpt-4o"]
		}
		totalCost += (float64(inputTokens) / 1_000_000.0) * modelCosts.input
		totalCost += (float64(outputTokens) / 1_000_000.0) * modelCosts.output
	}

	if webSearch {
		if searchCost, exists := costPerSearch[s.getProviderKey(provider)]; exists {
			totalCost += searchCost / 1000.0
		}
	}

	return totalCost
}

func (s *costService) getProviderKey(provider string) string {
	provider = strings.ToLower(provider)
	if strings.Contains(provider, "serpapi") {
		return "serpapi"
	}
	if strings.Contains(provider, "dataforseo") {
		return "dataforseo"
	}
	if strings.Contains(provider, "perplexity") || strings.Contains(provider, "sonar") {
		return "perplexity"
	}
	if strings.Contains(provider, "openai") || strings.Contains(provider, "gpt") || strings.Contains(provider, "chatgpt") {
		return "openai"
	}
	return "serpapi" // default
}
