// internal/scoring/scoring.go
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/geosignal/visibility-workflows/internal/models"
	"github.com/geosignal/visibility-workflows/internal/urlmatch"
)

// Scoring weights. Citation presence is the dominant signal, a plain-text
// domain mention is a weaker secondary signal, and top-of-list ranking earns
// a capped bonus.
const (
	citationWeight = 0.6
	mentionWeight  = 0.2

	positionBonusTop3 = 20.0
	positionBonusTop5 = 10.0

	maxTopDomains = 5
)

// Compute reduces the flattened list of engine check results for one run
// into a VisibilitySummary. It is a pure function: calling it twice on the
// same input yields identical output.
//
// Only results with Available and no error participate. Exact citations
// contribute weight 1, partial citations weight 0.5; a legacy result that is
// cited without an exact/partial distinction counts as weight 1.
func Compute(results []*models.EngineCheckResult) *models.VisibilitySummary {
	valid := filterValid(results)
	if len(valid) == 0 {
		return &models.VisibilitySummary{
			Score:    0,
			Insights: []string{"No valid results available - no engines were configured or every check failed"},
		}
	}

	var weightedSum float64
	citedCount := 0
	mentionCount := 0
	var positions []int

	for _, r := range valid {
		switch {
		case r.CitedExact:
			weightedSum += urlmatch.WeightExact
			citedCount++
		case r.CitedPartial:
			weightedSum += urlmatch.WeightPartial
			citedCount++
		case r.Cited:
			// Legacy record without the exact/partial split: full credit.
			weightedSum += urlmatch.WeightExact
			citedCount++
		}

		if r.DomainMentioned {
			mentionCount++
		}
		if r.Position != nil {
			positions = append(positions, *r.Position)
		}
	}

	n := float64(len(valid))
	citationRate := weightedSum / n * 100
	domainMentionRate := float64(mentionCount) / n * 100

	var averagePosition *float64
	if len(positions) > 0 {
		sum := 0
		for _, p := range positions {
			sum += p
		}
		avg := math.Round(float64(sum)/float64(len(positions))*10) / 10
		averagePosition = &avg
	}

	bonus := 0.0
	if averagePosition != nil {
		if *averagePosition <= 3 {
			bonus = positionBonusTop3
		} else if *averagePosition <= 5 {
			bonus = positionBonusTop5
		}
	}

	score := citationRate*citationWeight + domainMentionRate*mentionWeight + bonus
	if score > 100 {
		score = 100
	}

	summary := &models.VisibilitySummary{
		Score:             int(math.Round(score)),
		CitationRate:      math.Round(citationRate),
		AveragePosition:   averagePosition,
		DomainMentionRate: math.Round(domainMentionRate),
		TotalChecks:       len(valid),
		CitedCount:        citedCount,
	}
	summary.Insights = insights(summary, valid)
	return summary
}

// DomainStats aggregates the registrable domains cited across a run: the
// number of unique domains and the most frequently cited ones, most common
// first with ties broken alphabetically.
func DomainStats(results []*models.EngineCheckResult) (int, []models.DomainCount) {
	counts := make(map[string]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, c := range r.Citations {
			if domain := urlmatch.RegistrableDomain(c.URL); domain != "" {
				counts[domain]++
			}
		}
	}
	if len(counts) == 0 {
		return 0, nil
	}

	top := make([]models.DomainCount, 0, len(counts))
	for domain, count := range counts {
		top = append(top, models.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Domain < top[j].Domain
	})

	unique := len(top)
	if len(top) > maxTopDomains {
		top = top[:maxTopDomains]
	}
	return unique, top
}

func filterValid(results []*models.EngineCheckResult) []*models.EngineCheckResult {
	valid := make([]*models.EngineCheckResult, 0, len(results))
	for _, r := range results {
		if r == nil || !r.Available || r.Error != "" {
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

func insights(summary *models.VisibilitySummary, valid []*models.EngineCheckResult) []string {
	out := []string{
		fmt.Sprintf("Cited in %.0f%% of AI answers (%d of %d checks)",
			summary.CitationRate, summary.CitedCount, summary.TotalChecks),
		fmt.Sprintf("Domain mentioned in %.0f%% of AI answers", summary.DomainMentionRate),
	}

	if summary.AveragePosition != nil {
		out = append(out, fmt.Sprintf("Average citation position: %.1f", *summary.AveragePosition))
	}

	if engine, cited := strongestEngine(valid); cited > 0 {
		out = append(out, fmt.Sprintf("Strongest engine: %s (%d citations)", engine, cited))
	}

	return out
}

func strongestEngine(valid []*models.EngineCheckResult) (string, int) {
	counts := make(map[string]int)
	for _, r := range valid {
		if r.Cited {
			counts[r.Engine]++
		}
	}

	best, bestCount := "", 0
	for engine, count := range counts {
		if count > bestCount || (count == bestCount && engine < best) {
			best, bestCount = engine, count
		}
	}
	return best, bestCount
}
