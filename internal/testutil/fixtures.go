package testutil

import (
	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
)

// SampleConfig returns a test configuration with every engine configured
func SampleConfig() *config.Config {
	return &config.Config{
		Port:               "8000",
		Environment:        "development",
		SerpAPIKey:         "test-serpapi-key",
		DataForSEOLogin:    "test-login",
		DataForSEOPassword: "test-password",
		PerplexityAPIKey:   "test-perplexity-key",
		OpenAIAPIKey:       "test-openai-key",
	}
}

// SamplePrompts returns test prompts
func SamplePrompts() []models.Prompt {
	return []models.Prompt{
		{Text: "what is the best online college for nursing", Intent: models.IntentInformational, Type: models.PromptTypeBest},
		{Text: "how much does an online nursing degree cost", Intent: models.IntentTransactional, Type: models.PromptTypeCost},
	}
}

// SampleSerpAPIResponse returns a mock SerpApi response whose AI Overview
// cites college.edu first
func SampleSerpAPIResponse() string {
	return `{
		"ai_overview": {
			"text_blocks": [
				{"type": "paragraph", "snippet": "College.edu offers one of the most respected online nursing programs."},
				{"type": "list", "title": "Top programs", "list": [
					{"type": "paragraph", "snippet": "College.edu - accredited BSN"},
					{"type": "paragraph", "snippet": "Otherschool.edu - flexible schedule"}
				]}
			],
			"references": [
				{"title": "Online Nursing Programs", "link": "https://college.edu/nursing", "source": "college.edu", "index": 1},
				{"title": "Nursing Degrees", "link": "https://otherschool.edu/programs", "source": "otherschool.edu", "index": 2}
			]
		}
	}`
}

// SampleSerpAPINoOverview returns a mock SerpApi response where Google did
// not trigger an AI Overview
func SampleSerpAPINoOverview() string {
	return `{"search_metadata": {"status": "Success"}}`
}

// SampleSerpAPIStubResponse returns a mock SerpApi response carrying only a
// page_token, requiring a follow-up request
func SampleSerpAPIStubResponse() string {
	return `{"ai_overview": {"page_token": "test-page-token"}}`
}

// SampleDataForSEOResponse returns a mock DataForSEO live SERP response with
// an ai_overview item citing college.edu
func SampleDataForSEOResponse() string {
	return `{
		"status_code": 20000,
		"status_message": "Ok.",
		"tasks": [{
			"status_code": 20000,
			"status_message": "Ok.",
			"result": [{
				"items": [
					{"type": "organic"},
					{
						"type": "ai_overview",
						"expanded_element": [{
							"type": "ai_overview_element",
							"title": "Online nursing programs",
							"text": "College.edu runs a well regarded online nursing program.",
							"links": [
								{"type": "link_element", "url": "https://college.edu/nursing", "domain": "college.edu"}
							]
						}]
					}
				]
			}]
		}]
	}`
}

// SamplePerplexityResponse returns a mock Perplexity chat completion that
// cites otherschool.edu but not the target
func SamplePerplexityResponse() string {
	return `{
		"choices": [{
			"message": {
				"role": "assistant",
				"content": "The strongest online nursing programs are run by Otherschool and State University."
			}
		}],
		"citations": [
			"https://otherschool.edu/programs",
			"https://stateuniversity.edu/nursing"
		],
		"usage": {"prompt_tokens": 20, "completion_tokens": 80}
	}`
}

// SampleChatCompletionResponse returns a mock OpenAI chat completion whose
// free-text answer embeds source URLs
func SampleChatCompletionResponse() string {
	return `{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {
				"role": "assistant",
				"content": "College.edu is frequently recommended for online nursing degrees.\n\nSources:\nhttps://college.edu/nursing\nhttps://rankings.example.com/nursing"
			}
		}],
		"usage": {"prompt_tokens": 30, "completion_tokens": 60, "total_tokens": 90}
	}`
}
