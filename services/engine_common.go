// services/engine_common.go
package services

import (
	"strings"

	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/internal/urlmatch"
)

// Response text beyond this many bytes is dropped from the stored preview.
// Domain-mention checks always run on the full text first.
const responsePreviewLimit = 500

// buildCheckResult runs the citation pipeline shared by all engine adapters:
// dedupe raw citation URLs by normalized form (first occurrence wins),
// classify each against the target URL, resolve position preferring the
// lowest-indexed exact match over the lowest-indexed partial match, and
// check for a plain-text mention of the target hostname in the full
// response body.
func buildCheckResult(engine, targetURL, responseText string, rawCitations []string) *models.EngineCheckResult {
	result := &models.EngineCheckResult{
		Engine:    engine,
		Available: true,
		MatchType: urlmatch.MatchNone,
		Citations: []models.Citation{},
	}

	seen := make(map[string]bool, len(rawCitations))
	exactPos, partialPos := 0, 0
	for _, raw := range rawCitations {
		key := urlmatch.Normalize(raw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		class, _ := urlmatch.Classify(targetURL, raw)
		result.Citations = append(result.Citations, models.Citation{URL: raw, MatchClass: class})

		rank := len(result.Citations)
		switch class {
		case urlmatch.MatchExact:
			if exactPos == 0 {
				exactPos = rank
			}
		case urlmatch.MatchPartial:
			if partialPos == 0 {
				partialPos = rank
			}
		}
	}
	result.TotalCitations = len(result.Citations)

	// Exact always wins regardless of position.
	switch {
	case exactPos > 0:
		result.Cited = true
		result.CitedExact = true
		result.MatchType = urlmatch.MatchExact
		result.Position = intPtr(exactPos)
	case partialPos > 0:
		result.Cited = true
		result.CitedPartial = true
		result.MatchType = urlmatch.MatchPartial
		result.Position = intPtr(partialPos)
	}

	if host := urlmatch.Hostname(targetURL); host != "" {
		result.DomainMentioned = strings.Contains(strings.ToLower(responseText), host)
	}
	result.ResponsePreview = truncate(responseText, responsePreviewLimit)

	return result
}

// unavailableResult marks an engine that has no credentials configured.
// Not an error: the engine is simply omitted from scoring.
func unavailableResult(engine string) *models.EngineCheckResult {
	return &models.EngineCheckResult{
		Engine:    engine,
		Available: false,
		MatchType: urlmatch.MatchNone,
		Citations: []models.Citation{},
	}
}

// errorResult records an upstream failure. The engine stays Available so the
// record is kept for debugging, but the scorer filters it out.
func errorResult(engine string, err error) *models.EngineCheckResult {
	return &models.EngineCheckResult{
		Engine:    engine,
		Available: true,
		MatchType: urlmatch.MatchNone,
		Citations: []models.Citation{},
		Error:     err.Error(),
	}
}

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
