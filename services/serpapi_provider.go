// services/serpapi_provider.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/geosignal/visibility-workflows/internal/config"
	"golang.org/x/time/rate"
)

// serpAPIClient is the primary Google AI Overview source. SerpApi is a
// synchronous GET API; when Google defers the overview, the first response
// carries only a page_token and the full block must be fetched with a
// follow-up request.
type serpAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newSerpAPIClient(cfg *config.Config) *serpAPIClient {
	return &serpAPIClient{
		apiKey:  cfg.SerpAPIKey,
		baseURL: "https://serpapi.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *serpAPIClient) Name() string {
	return "serpapi"
}

func (c *serpAPIClient) Configured() bool {
	return c.apiKey != ""
}

// SerpApi response structures

type serpAPIResponse struct {
	AIOverview *serpAPIOverview `json:"ai_overview"`
	Error      string           `json:"error,omitempty"`
}

type serpAPIOverview struct {
	TextBlocks []serpAPITextBlock `json:"text_blocks"`
	Text       string             `json:"text,omitempty"` // older flat field
	References []serpAPIReference `json:"references"`
	PageToken  string             `json:"page_token,omitempty"`
}

type serpAPITextBlock struct {
	Type    string             `json:"type"`
	Snippet string             `json:"snippet,omitempty"`
	Title   string             `json:"title,omitempty"`
	List    []serpAPITextBlock `json:"list,omitempty"`
}

type serpAPIReference struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	Index  int    `json:"index"`
}

// FetchOverview returns the flattened AI Overview text and reference URLs
// for one query. (nil, nil) means SerpApi answered but Google produced no
// AI Overview for this query - a distinct outcome from a request failure.
func (c *serpAPIClient) FetchOverview(ctx context.Context, query string) (*aiOverviewContent, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("gl", "us")
	params.Set("hl", "en")

	sr, err := c.get(ctx, "/search.json?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if sr.AIOverview == nil {
		fmt.Printf("[SerpAPI] No AI Overview returned for this query\n")
		return nil, nil
	}

	overview := sr.AIOverview
	if len(overview.TextBlocks) == 0 && overview.Text == "" && overview.PageToken != "" {
		// Stub response: the overview is behind a second request.
		fmt.Printf("[SerpAPI] AI Overview stub received, following page_token\n")
		overview, err = c.fetchWithPageToken(ctx, overview.PageToken)
		if err != nil {
			return nil, err
		}
		if overview == nil {
			return nil, nil
		}
	}

	text := flattenSerpAPIOverview(overview)
	refs := make([]string, 0, len(overview.References))
	for _, ref := range overview.References {
		if ref.Link != "" {
			refs = append(refs, ref.Link)
		}
	}

	if text == "" && len(refs) == 0 {
		return nil, nil
	}

	fmt.Printf("[SerpAPI] AI Overview extracted: %d characters, %d references\n", len(text), len(refs))
	return &aiOverviewContent{Text: text, ReferenceURLs: refs}, nil
}

func (c *serpAPIClient) fetchWithPageToken(ctx context.Context, pageToken string) (*serpAPIOverview, error) {
	params := url.Values{}
	params.Set("engine", "google_ai_overview")
	params.Set("page_token", pageToken)
	params.Set("api_key", c.apiKey)

	sr, err := c.get(ctx, "/search.json?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return sr.AIOverview, nil
}

func (c *serpAPIClient) get(ctx context.Context, path string) (*serpAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpApi returned status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var sr serpAPIResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("SerpApi error: %s", sr.Error)
	}

	return &sr, nil
}

func flattenSerpAPIOverview(overview *serpAPIOverview) string {
	if overview == nil {
		return ""
	}
	if len(overview.TextBlocks) == 0 {
		return overview.Text
	}

	var parts []string
	for _, block := range overview.TextBlocks {
		if extracted := flattenSerpAPITextBlock(block); extracted != "" {
			parts = append(parts, extracted)
		}
	}
	return strings.Join(parts, "\n\n")
}

func flattenSerpAPITextBlock(block serpAPITextBlock) string {
	switch block.Type {
	case "paragraph":
		return block.Snippet
	case "list":
		var listParts []string
		if block.Title != "" {
			listParts = append(listParts, block.Title)
		}
		for _, item := range block.List {
			if nested := flattenSerpAPITextBlock(item); nested != "" {
				listParts = append(listParts, "- "+nested)
			}
		}
		return strings.Join(listParts, "\n")
	default:
		return block.Snippet
	}
}
