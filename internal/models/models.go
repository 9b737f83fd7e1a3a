// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Engine keys used in PromptCheckResult.Checks and in summaries.
const (
	EngineGoogleAIOverview = "googleAIOverview"
	EnginePerplexity       = "perplexity"
	EngineChatGPT          = "chatgpt"
)

// Prompt intents, assigned by the keyword expansion service.
const (
	IntentInformational = "informational"
	IntentNavigational  = "navigational"
	IntentComparison    = "comparison"
	IntentTransactional = "transactional"
)

// Prompt types, assigned by the keyword expansion service.
const (
	PromptTypeWhat       = "what"
	PromptTypeHow        = "how"
	PromptTypeBest       = "best"
	PromptTypeCost       = "cost"
	PromptTypeWorth      = "worth"
	PromptTypeComparison = "comparison"
)

// Prompt is one search question to run against every configured engine.
// Intent and Type are opaque labels here; the scoring engine never branches
// on them.
type Prompt struct {
	Text   string `json:"text"`
	Intent string `json:"intent,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Citation is one deduplicated source URL surfaced by an engine, classified
// against the target URL.
type Citation struct {
	URL        string `json:"url"`
	MatchClass string `json:"match_class"` // "exact", "partial" or "none"
}

// EngineCheckResult is the per-engine, per-prompt record.
//
// Invariants: Cited == CitedExact || CitedPartial; CitedExact and
// CitedPartial are mutually exclusive (partial only counts when no exact
// match exists); Position is nil iff !Cited.
type EngineCheckResult struct {
	Engine          string     `json:"engine"`
	Available       bool       `json:"available"`
	Cited           bool       `json:"cited"`
	CitedExact      bool       `json:"cited_exact"`
	CitedPartial    bool       `json:"cited_partial"`
	MatchType       string     `json:"match_type"`
	Position        *int       `json:"position"` // 1-based rank of the best-matching citation
	DomainMentioned bool       `json:"domain_mentioned"`
	TotalCitations  int        `json:"total_citations"`
	Citations       []Citation `json:"citations"`
	HasAIOverview   *bool      `json:"has_ai_overview,omitempty"` // Google AI Overview only
	ResponsePreview string     `json:"response_preview,omitempty"`
	Cost            float64    `json:"cost,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// PromptCheckResult groups the engine checks for one prompt. An engine key
// is present in Checks only if that engine was configured for the run.
type PromptCheckResult struct {
	Prompt    Prompt                        `json:"prompt"`
	Checks    map[string]*EngineCheckResult `json:"checks"`
	Timestamp time.Time                     `json:"timestamp"`
}

// VisibilitySummary is the scored view over all checks of one run. It is
// recomputed fresh on every scoring call and has no persisted identity.
type VisibilitySummary struct {
	Score             int      `json:"score"`               // 0-100 composite
	CitationRate      float64  `json:"citation_rate"`       // 0-100, partial citations count half
	AveragePosition   *float64 `json:"average_position"`    // nil when nothing was cited
	DomainMentionRate float64  `json:"domain_mention_rate"` // 0-100
	TotalChecks       int      `json:"total_checks"`
	CitedCount        int      `json:"cited_count"`
	Insights          []string `json:"insights"`
}

// EngineBreakdown carries per-engine counts for the run summary.
type EngineBreakdown struct {
	Checks int `json:"checks"`
	Cited  int `json:"cited"`
}

// DomainCount is one cited registrable domain and how often it appeared.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// RunSummary merges prompt/engine counts with citation domain stats and the
// accumulated provider cost for one orchestration run.
type RunSummary struct {
	PromptsChecked int                        `json:"prompts_checked"`
	EnginesChecked int                        `json:"engines_checked"`
	TotalChecks    int                        `json:"total_checks"`
	CitedCount     int                        `json:"cited_count"`
	Engines        map[string]EngineBreakdown `json:"engines"`
	UniqueDomains  int                        `json:"unique_domains"`
	TopDomains     []DomainCount              `json:"top_domains,omitempty"`
	TotalCost      float64                    `json:"total_cost"`
}

// VisibilityResult is the top-level output of one run. Immutable after
// construction; its lifetime is the duration of one analysis request.
type VisibilityResult struct {
	RunID         uuid.UUID            `json:"run_id"`
	URL           string               `json:"url"`
	Visibility    *VisibilitySummary   `json:"visibility"`
	PromptResults []*PromptCheckResult `json:"prompt_results"`
	Summary       *RunSummary          `json:"summary"`
	Timestamp     time.Time            `json:"timestamp"`
}
