// internal/urlmatch/urlmatch.go
package urlmatch

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Match classes for a cited URL measured against the target URL.
const (
	MatchExact   = "exact"
	MatchPartial = "partial"
	MatchNone    = "none"
)

// Citation weights per match class.
const (
	WeightExact   = 1.0
	WeightPartial = 0.5
	WeightNone    = 0.0
)

// Normalize canonicalizes a URL for comparison and deduplication: lower-case,
// scheme stripped, one trailing slash stripped. Never fails; malformed input
// is handled with best-effort string manipulation because a single bad URL
// must not abort a multi-prompt run.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	return s
}

// Hostname extracts the lower-cased hostname with any leading "www." removed.
// On parse failure it falls back to the segment before the first "/" of the
// normalized string.
func Hostname(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	host := ""
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		host = u.Hostname()
	} else {
		// No scheme or unparseable: take everything up to the first slash.
		host = Normalize(s)
		if idx := strings.Index(host, "/"); idx >= 0 {
			host = host[:idx]
		}
		if idx := strings.Index(host, ":"); idx >= 0 {
			host = host[:idx]
		}
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host
}

// RegistrableDomain reduces a URL to its eTLD+1 ("blog.example.co.uk" ->
// "example.co.uk") for per-domain citation stats. Falls back to the bare
// hostname when the public suffix list has no answer.
func RegistrableDomain(raw string) string {
	host := Hostname(raw)
	if host == "" {
		return ""
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return base
}

// Classify compares a cited URL against the target URL and returns the match
// class with its citation weight. Normalized string equality is an exact
// match; a hostname-only match is partial credit for "the site was surfaced
// even if not the exact page".
func Classify(targetURL, citedURL string) (string, float64) {
	target := Normalize(targetURL)
	cited := Normalize(citedURL)
	if target == "" || cited == "" {
		return MatchNone, WeightNone
	}

	if target == cited {
		return MatchExact, WeightExact
	}

	targetHost := Hostname(targetURL)
	citedHost := Hostname(citedURL)
	if targetHost != "" && targetHost == citedHost {
		return MatchPartial, WeightPartial
	}

	return MatchNone, WeightNone
}
