// services/dataforseo_provider.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geosignal/visibility-workflows/internal/config"
)

// DataForSEO docs (Google organic SERP, live/advanced):
// - https://docs.dataforseo.com/v3/serp/google/organic/live/advanced/
// AI Overview blocks arrive as an "ai_overview" item whose expanded_element
// entries carry the text and link sub-arrays.

// dataForSEOClient is the secondary Google AI Overview source, used when
// SerpApi is unconfigured or fails.
type dataForSEOClient struct {
	login      string
	password   string
	baseURL    string
	httpClient *http.Client
}

func newDataForSEOClient(cfg *config.Config) *dataForSEOClient {
	return &dataForSEOClient{
		login:    strings.TrimSpace(cfg.DataForSEOLogin),
		password: strings.TrimSpace(cfg.DataForSEOPassword),
		baseURL:  "https://api.dataforseo.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *dataForSEOClient) Name() string {
	return "dataforseo"
}

func (c *dataForSEOClient) Configured() bool {
	return c.login != "" && c.password != ""
}

// DataForSEO request/response structures

type dataForSEOTask struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
}

type dataForSEOResponse struct {
	StatusCode    int                  `json:"status_code"`
	StatusMessage string               `json:"status_message"`
	Tasks         []dataForSEOTaskItem `json:"tasks"`
}

type dataForSEOTaskItem struct {
	StatusCode    int                `json:"status_code"`
	StatusMessage string             `json:"status_message"`
	Result        []dataForSEOResult `json:"result"`
}

type dataForSEOResult struct {
	Items []dataForSEOItem `json:"items"`
}

type dataForSEOItem struct {
	Type            string              `json:"type"`
	Text            string              `json:"text,omitempty"`
	ExpandedElement []dataForSEOElement `json:"expanded_element,omitempty"`
}

type dataForSEOElement struct {
	Type  string           `json:"type"`
	Title string           `json:"title,omitempty"`
	Text  string           `json:"text,omitempty"`
	Links []dataForSEOLink `json:"links,omitempty"`
}

type dataForSEOLink struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url"`
	Domain string `json:"domain,omitempty"`
}

// FetchOverview posts a live SERP task and walks the result items for an
// ai_overview block. (nil, nil) means the SERP came back without one.
func (c *dataForSEOClient) FetchOverview(ctx context.Context, query string) (*aiOverviewContent, error) {
	payload := []dataForSEOTask{
		{
			Keyword:      query,
			LocationCode: 2840, // United States
			LanguageCode: "en",
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v3/serp/google/organic/live/advanced", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

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
		return nil, fmt.Errorf("DataForSEO returned status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var dr dataForSEOResponse
	if err := json.Unmarshal(bodyBytes, &dr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if dr.StatusCode != 20000 {
		return nil, fmt.Errorf("DataForSEO error %d: %s", dr.StatusCode, dr.StatusMessage)
	}

	for _, task := range dr.Tasks {
		for _, result := range task.Result {
			for _, item := range result.Items {
				if item.Type != "ai_overview" {
					continue
				}
				content := extractDataForSEOOverview(item)
				if content == nil {
					continue
				}
				fmt.Printf("[DataForSEO] AI Overview extracted: %d characters, %d references\n",
					len(content.Text), len(content.ReferenceURLs))
				return content, nil
			}
		}
	}

	fmt.Printf("[DataForSEO] No AI Overview item in SERP for this query\n")
	return nil, nil
}

func extractDataForSEOOverview(item dataForSEOItem) *aiOverviewContent {
	var parts []string
	var refs []string

	if item.Text != "" {
		parts = append(parts, item.Text)
	}
	for _, element := range item.ExpandedElement {
		if element.Type != "ai_overview_element" {
			continue
		}
		if element.Title != "" {
			parts = append(parts, element.Title)
		}
		if element.Text != "" {
			parts = append(parts, element.Text)
		}
		for _, link := range element.Links {
			if link.URL != "" {
				refs = append(refs, link.URL)
			}
		}
	}

	text := strings.Join(parts, "\n\n")
	if text == "" && len(refs) == 0 {
		return nil
	}
	return &aiOverviewContent{Text: text, ReferenceURLs: refs}
}
