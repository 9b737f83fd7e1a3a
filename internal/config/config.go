// internal/config/config.go
package config

import (
	"os"
)

// Config holds all service configuration. Engine credentials are optional:
// an engine with no credential is skipped silently, it is not an error.
type Config struct {
	Port              string
	Environment       string
	InngestEventKey   string
	InngestSigningKey string

	// Google AI Overview primary source (SerpApi)
	SerpAPIKey string

	// Google AI Overview secondary source (DataForSEO, Basic-Auth)
	DataForSEOLogin    string
	DataForSEOPassword string

	// Perplexity API
	PerplexityAPIKey string

	// ChatGPT citation checks (OpenAI API)
	OpenAIAPIKey string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8000"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		InngestEventKey:   os.Getenv("INNGEST_EVENT_KEY"),
		InngestSigningKey: os.Getenv("INNGEST_SIGNING_KEY"),

		SerpAPIKey:         os.Getenv("SERPAPI_API_KEY"),
		DataForSEOLogin:    os.Getenv("DATAFORSEO_LOGIN"),
		DataForSEOPassword: os.Getenv("DATAFORSEO_PASSWORD"),
		PerplexityAPIKey:   os.Getenv("PERPLEXITY_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
