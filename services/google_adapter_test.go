package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geosignal/visibility-workflows/internal/config"
	"github.com/geosignal/visibility-workflows/internal/testutil"
)

func newTestSerpAPIClient(baseURL string) *serpAPIClient {
	c := newSerpAPIClient(&config.Config{SerpAPIKey: "test-serpapi-key"})
	c.baseURL = baseURL
	return c
}

func newTestDataForSEOClient(baseURL string) *dataForSEOClient {
	c := newDataForSEOClient(&config.Config{DataForSEOLogin: "test-login", DataForSEOPassword: "test-password"})
	c.baseURL = baseURL
	return c
}

func TestGoogleAdapterCitesTargetViaSerpAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("expected engine=google, got %s", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-serpapi-key" {
			t.Errorf("expected api key in query, got %s", got)
		}
		w.Write([]byte(testutil.SampleSerpAPIResponse()))
	}))
	defer srv.Close()

	adapter := &googleAIOverviewAdapter{sources: []aiOverviewSource{newTestSerpAPIClient(srv.URL)}}
	result := adapter.Check(context.Background(), "what is the best online college for nursing", "https://college.edu/nursing")

	if !result.Available || result.Error != "" {
		t.Fatalf("expected clean available result, got %+v", result)
	}
	if result.HasAIOverview == nil || !*result.HasAIOverview {
		t.Error("expected has_ai_overview true")
	}
	if !result.CitedExact || result.Position == nil || *result.Position != 1 {
		t.Errorf("expected exact citation at position 1, got %+v", result)
	}
	if !result.DomainMentioned {
		t.Error("expected domain mention in overview text")
	}
	if result.TotalCitations != 2 {
		t.Errorf("expected 2 citations, got %d", result.TotalCitations)
	}
}

func TestGoogleAdapterNoOverviewIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testutil.SampleSerpAPINoOverview()))
	}))
	defer srv.Close()

	adapter := &googleAIOverviewAdapter{sources: []aiOverviewSource{newTestSerpAPIClient(srv.URL)}}
	result := adapter.Check(context.Background(), "query without overview", "https://college.edu")

	if !result.Available {
		t.Error("engine was reachable, result must stay available")
	}
	if result.Error != "" {
		t.Errorf("no-overview must not be an error, got %q", result.Error)
	}
	if result.HasAIOverview == nil || *result.HasAIOverview {
		t.Error("expected has_ai_overview false")
	}
	if result.Cited {
		t.Error("no overview means nothing cited")
	}
}

func TestGoogleAdapterUnconfigured(t *testing.T) {
	adapter := NewGoogleAIOverviewAdapter(&config.Config{}, nil)

	if adapter.IsConfigured() {
		t.Fatal("adapter must be unconfigured without any source credentials")
	}

	result := adapter.Check(context.Background(), "query", "https://college.edu")
	if result.Available {
		t.Error("unconfigured engine must report available=false")
	}
	if result.Error != "" {
		t.Errorf("missing credentials is not an error, got %q", result.Error)
	}
}

func TestGoogleAdapterFallsBackToDataForSEO(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := r.BasicAuth()
		if !ok || login != "test-login" || password != "test-password" {
			t.Errorf("expected basic auth credentials, got %s/%s", login, password)
		}
		w.Write([]byte(testutil.SampleDataForSEOResponse()))
	}))
	defer secondary.Close()

	adapter := &googleAIOverviewAdapter{sources: []aiOverviewSource{
		newTestSerpAPIClient(primary.URL),
		newTestDataForSEOClient(secondary.URL),
	}}
	result := adapter.Check(context.Background(), "best online nursing program", "https://college.edu/nursing")

	if !result.Available || result.Error != "" {
		t.Fatalf("expected fallback source to produce a clean result, got %+v", result)
	}
	if !result.CitedExact {
		t.Errorf("expected exact citation from fallback source, got %+v", result)
	}
}

func TestGoogleAdapterAllSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := &googleAIOverviewAdapter{sources: []aiOverviewSource{newTestSerpAPIClient(srv.URL)}}
	result := adapter.Check(context.Background(), "query", "https://college.edu")

	if !result.Available {
		t.Error("upstream failure keeps the record available for debugging")
	}
	if result.Error == "" {
		t.Error("expected the upstream failure recorded in the error field")
	}
	if result.Cited {
		t.Error("failed check must not count as cited")
	}
}

func TestSerpAPIClientFollowsPageToken(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		engine := r.URL.Query().Get("engine")
		calls = append(calls, engine)
		if engine == "google_ai_overview" {
			if got := r.URL.Query().Get("page_token"); got != "test-page-token" {
				t.Errorf("expected page_token forwarded, got %s", got)
			}
			w.Write([]byte(testutil.SampleSerpAPIResponse()))
			return
		}
		w.Write([]byte(testutil.SampleSerpAPIStubResponse()))
	}))
	defer srv.Close()

	client := newTestSerpAPIClient(srv.URL)
	content, err := client.FetchOverview(context.Background(), "best online nursing program")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content == nil {
		t.Fatal("expected overview content after the follow-up request")
	}
	if len(calls) != 2 || calls[0] != "google" || calls[1] != "google_ai_overview" {
		t.Errorf("expected google then google_ai_overview calls, got %v", calls)
	}
	if len(content.ReferenceURLs) != 2 {
		t.Errorf("expected 2 reference URLs, got %d", len(content.ReferenceURLs))
	}
}
