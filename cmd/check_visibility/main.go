package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/services"
)

func main() {
	targetURL := flag.String("url", "", "target URL to score")
	promptsArg := flag.String("prompts", "", "comma-separated prompts to run")
	flag.Parse()

	fmt.Println("🧪 AI Visibility Check")

	if *targetURL == "" {
		fmt.Println("Usage: check_visibility -url https://example.com -prompts \"prompt one,prompt two\"")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️  No .env file found, using environment variables")
	} else {
		fmt.Println("✅ Loaded .env file")
	}

	var prompts []models.Prompt
	for _, text := range strings.Split(*promptsArg, ",") {
		text = strings.TrimSpace(text)
		if text != "" {
			prompts = append(prompts, models.Prompt{Text: text})
		}
	}
	if len(prompts) == 0 {
		fmt.Println("No prompts given, nothing to check")
		os.Exit(1)
	}

	cfg := config.Load()
	costService := services.NewCostService()
	visibilityService := services.NewVisibilityService(cfg, costService)

	fmt.Printf("\n📋 Checking %s against %d prompts\n\n", *targetURL, len(prompts))

	result, err := visibilityService.CheckAIVisibility(context.Background(), *targetURL, prompts)
	if err != nil {
		fmt.Printf("❌ Visibility check failed: %v\n", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("❌ Failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))

	fmt.Printf("\n✅ Score: %d/100 (cited in %d of %d checks, cost $%.4f)\n",
		result.Visibility.Score, result.Summary.CitedCount, result.Summary.TotalChecks, result.Summary.TotalCost)
}
