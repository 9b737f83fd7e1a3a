// services/perplexity_adapter.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
)

// perplexityAdapter checks the target URL against Perplexity's answer and
// its structured citations list via the chat completions API.
type perplexityAdapter struct {
	apiKey      string
	model       string
	baseURL     string
	costService CostService
	httpClient  *http.Client
}

func NewPerplexityAdapter(cfg *config.Config, costService CostService) EngineAdapter {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &perplexityAdapter{
		apiKey:      cfg.PerplexityAPIKey,
		model:       "sonar",
		baseURL:     "https://api.perplexity.ai",
		costService: costService,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *perplexityAdapter) GetEngineName() string {
	return models.EnginePerplexity
}

func (a *perplexityAdapter) IsConfigured() bool {
	return a.apiKey != ""
}

func (a *perplexityAdapter) CheckTimeout() time.Duration {
	return 15 * time.Second
}

func (a *perplexityAdapter) Pause() time.Duration {
	return time.Second
}

// Perplexity API request/response structures

type perplexityRequest struct {
	Model                  string              `json:"model"`
	Messages               []perplexityMessage `json:"messages"`
	ReturnCitations        bool                `json:"return_citations"`
	ReturnRelatedQuestions bool                `json:"return_related_questions"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
	Usage     struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (a *perplexityAdapter) Check(ctx context.Context, prompt string, targetURL string) *models.EngineCheckResult {
	if !a.IsConfigured() {
		return unavailableResult(models.EnginePerplexity)
	}

	pr, err := a.runQuery(ctx, prompt)
	if err != nil {
		fmt.Printf("[Perplexity] ⚠️ Check failed: %v\n", err)
		return errorResult(models.EnginePerplexity, err)
	}
	if len(pr.Choices) == 0 {
		return errorResult(models.EnginePerplexity, fmt.Errorf("no response choices returned"))
	}

	answer := pr.Choices[0].Message.Content
	result := buildCheckResult(models.EnginePerplexity, targetURL, answer, pr.Citations)
	if a.costService != nil {
		result.Cost = a.costService.CalculateCost("perplexity", a.model, pr.Usage.PromptTokens, pr.Usage.CompletionTokens, true)
	}

	fmt.Printf("[Perplexity] ✅ Check complete: cited=%t match=%s citations=%d\n",
		result.Cited, result.MatchType, result.TotalCitations)
	return result
}

func (a *perplexityAdapter) runQuery(ctx context.Context, prompt string) (*perplexityResponse, error) {
	payload := perplexityRequest{
		Model: a.model,
		Messages: []perplexityMessage{
			{Role: "user", Content: prompt},
		},
		ReturnCitations:        true,
		ReturnRelatedQuestions: false,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Perplexity API returned status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var pr perplexityResponse
	if err := json.Unmarshal(bodyBytes, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &pr, nil
}
