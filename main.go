// main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/inngest/inngestgo"
	"github.com/joho/godotenv"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/services"
	"github.com/geosignal/visibility-workflows/workflows"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)

	if cfg.SerpAPIKey == "" && (cfg.DataForSEOLogin == "" || cfg.DataForSEOPassword == "") {
		log.Printf("WARNING: No Google AI Overview source configured (SerpApi or DataForSEO)")
	}
	if cfg.PerplexityAPIKey == "" {
		log.Printf("WARNING: Perplexity API key not loaded")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARNING: OpenAI API key not loaded")
	}

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Printf("Running in development mode - signing key verification disabled")
	}

	// Initialize services
	costService := services.NewCostService()
	visibilityService := services.NewVisibilityService(cfg, costService)
	log.Printf("Visibility service initialized")

	// Create Inngest client
	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "visibility-workflows",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatalf("Failed to create Inngest client: %v", err)
	}

	// Initialize and register workflows
	log.Printf("Initializing VisibilityProcessor workflow...")
	visibilityProcessor := workflows.NewVisibilityProcessor(visibilityService, cfg)
	visibilityProcessor.SetClient(client)
	visibilityProcessor.CheckVisibility()

	log.Printf("All processors initialized and functions registered")

	h := client.Serve()
	mux := http.NewServeMux()
	mux.Handle("/api/inngest", h)

	// Root endpoint for ALB health check
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"service":"visibility-workflows","status":"running"}`))
	})

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("/test/trigger-visibility", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var payload workflows.VisibilityCheckEvent
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URL == "" {
			payload = workflows.VisibilityCheckEvent{
				URL: "https://example.com",
				Prompts: []models.Prompt{
					{Text: "what is example.com used for", Intent: models.IntentInformational, Type: models.PromptTypeWhat},
				},
			}
		}

		evt := inngestgo.Event{
			Name: "visibility.check",
			Data: map[string]interface{}{"url": payload.URL, "prompts": payload.Prompts},
		}
		result, err := client.Send(r.Context(), evt)
		if err != nil {
			log.Printf("Failed to send test event: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"Failed to send event: %v"}`, err)))
			return
		}
		log.Printf("Test event sent successfully: %+v", result)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{"status":"success","message":"Visibility check queued for %s","event_ids":["%s"]}`, payload.URL, result)))
	})

	port := cfg.Port
	log.Printf("Starting Visibility Workflows service on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
