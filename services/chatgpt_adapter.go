// services/chatgpt_adapter.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"mvdan.cc/xurls/v2"
)

const chatGPTSystemPrompt = "You are a research assistant. Answer the question concisely and " +
	"always finish with a Sources section listing the full https:// URLs of the web pages " +
	"that support your answer, one per line."

// chatGPTAdapter checks the target URL against a ChatGPT answer. The API
// returns no structured citations, so source URLs are scanned out of the
// free-text response before running the shared classification pipeline.
type chatGPTAdapter struct {
	client      *openai.Client
	model       openai.ChatModel
	configured  bool
	costService CostService
	urlRe       *regexp.Regexp
}

func NewChatGPTAdapter(cfg *config.Config, costService CostService) EngineAdapter {
	if cfg == nil {
		cfg = &config.Config{}
	}

	var client openai.Client
	if cfg.OpenAIAPIKey != "" {
		client = openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	}

	return &chatGPTAdapter{
		client:      &client,
		model:       openai.ChatModelGPT4o,
		configured:  cfg.OpenAIAPIKey != "",
		costService: costService,
		urlRe:       xurls.Strict(),
	}
}

func (a *chatGPTAdapter) GetEngineName() string {
	return models.EngineChatGPT
}

func (a *chatGPTAdapter) IsConfigured() bool {
	return a.configured
}

func (a *chatGPTAdapter) CheckTimeout() time.Duration {
	return 15 * time.Second
}

func (a *chatGPTAdapter) Pause() time.Duration {
	return time.Second
}

func (a *chatGPTAdapter) Check(ctx context.Context, prompt string, targetURL string) *models.EngineCheckResult {
	if !a.configured {
		return unavailableResult(models.EngineChatGPT)
	}

	chatResponse, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(chatGPTSystemPrompt),
			openai.UserMessage(prompt),
		},
		Model: a.model,
	})
	if err != nil {
		fmt.Printf("[ChatGPT] ⚠️ Check failed: %v\n", err)
		return errorResult(models.EngineChatGPT, err)
	}
	if len(chatResponse.Choices) == 0 {
		return errorResult(models.EngineChatGPT, fmt.Errorf("no response choices returned"))
	}

	content := chatResponse.Choices[0].Message.Content

	// Only URLs with a scheme count; relative fragments in prose are noise.
	rawCitations := a.urlRe.FindAllString(content, -1)

	result := buildCheckResult(models.EngineChatGPT, targetURL, content, rawCitations)
	if a.costService != nil {
		result.Cost = a.costService.CalculateCost("openai", string(a.model),
			int(chatResponse.Usage.PromptTokens), int(chatResponse.Usage.CompletionTokens), false)
	}

	fmt.Printf("[ChatGPT] ✅ Check complete: cited=%t match=%s citations=%d\n",
		result.Cited, result.MatchType, result.TotalCitations)
	return result
}
