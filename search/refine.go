package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/docquery/core"
)

// RefineConfig holds the heuristics applied on top of ranked hits. The
// keyword list is corpus-specific tuning, exposed as configuration.
type RefineConfig struct {
	// Keywords narrows hits to those mentioning a keyword the query also
	// mentions. Matching is case-insensitive substring containment.
	Keywords []string
}

// DefaultRefineConfig returns the default refinement configuration.
func DefaultRefineConfig() RefineConfig {
	return RefineConfig{
		Keywords: []string{
			"experience",
			"years",
			"requirement",
			"qualification",
			"responsibilit",
			"skills",
		},
	}
}

var (
	pageRefPattern = regexp.MustCompile(`(?i)\bpage\s+(\d+)\b`)

	// Numeric phrasings like "5 years", "5+ years", or "3-5".
	yearsPattern = regexp.MustCompile(`(?i)\b\d+\s*\+?\s*years?\b`)
	rangePattern = regexp.MustCompile(`\b\d+\s*[-–]\s*\d+\b`)
)

// Refine narrows ranked hits using cues in the query. Each narrowing step
// applies only when it leaves at least one hit, so refinement can reorder
// nothing but never empty a non-empty result.
//
// Steps, in order:
//  1. An explicit "page N" reference restricts to hits from that page.
//  2. Domain keywords and numeric patterns shared between the query and a
//     hit's text restrict to the hits sharing them.
func Refine(query string, hits []core.RetrievalHit, config RefineConfig) []core.RetrievalHit {
	if len(hits) == 0 {
		return hits
	}

	if page, ok := pageReference(query); ok {
		var onPage []core.RetrievalHit
		for _, hit := range hits {
			if hit.Metadata.Page == page {
				onPage = append(onPage, hit)
			}
		}
		if len(onPage) > 0 {
			hits = onPage
		}
	}

	cues := queryCues(query, config.Keywords)
	if len(cues) > 0 {
		var matched []core.RetrievalHit
		for _, hit := range hits {
			lowered := strings.ToLower(hit.Text)
			for _, cue := range cues {
				if strings.Contains(lowered, cue) {
					matched = append(matched, hit)
					break
				}
			}
		}
		if len(matched) > 0 {
			hits = matched
		}
	}

	return hits
}

// pageReference extracts an explicit page number from the query.
func pageReference(query string) (int, bool) {
	match := pageRefPattern.FindStringSubmatch(query)
	if match == nil {
		return 0, false
	}
	page, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return page, true
}

// queryCues collects the domain keywords and numeric phrases present in
// the query.
func queryCues(query string, keywords []string) []string {
	lowered := strings.ToLower(query)

	var cues []string
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			cues = append(cues, keyword)
		}
	}
	for _, match := range yearsPattern.FindAllString(lowered, -1) {
		cues = append(cues, strings.TrimSpace(match))
	}
	for _, match := range rangePattern.FindAllString(lowered, -1) {
		cues = append(cues, strings.TrimSpace(match))
	}
	return cues
}
