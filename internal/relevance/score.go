package relevance

import "strings"

// The two scoring functions below look similar but carry independently
// tuned weight vectors: structured articles expose a clean title field,
// free text does not, and the partial-hit weights are not interchangeable.

const (
	structuredExactWeight   = 0.7
	structuredPartialWeight = 0.4
	structuredDomainWeight  = 0.3

	freeTextExactWeight   = 0.7
	freeTextPartialWeight = 0.4
	freeTextDomainWeight  = 0.2
)

var transferKeywords = []string{
	"transfer", "signing", "signed", "deal", "bid", "linked",
	"move", "medical", "fee", "loan", "contract", "rumour",
}

// ScoreStructured rates how strongly a structured article (title plus
// summary) pertains to the target name. Result is clamped to [0, 1].
func ScoreStructured(title, summary, target string) float64 {
	score := 0.0
	haystack := Normalize(title + " " + summary)
	normalizedTarget := Normalize(target)

	switch {
	case normalizedTarget == "" || haystack == "":
	case containsWord(haystack, normalizedTarget):
		score += structuredExactWeight
	case matchesAnyToken(haystack, normalizedTarget):
		score += structuredPartialWeight
	}

	if hasTransferKeyword(haystack) {
		score += structuredDomainWeight
	}

	return clamp01(score)
}

// ScoreFreeText rates a raw text blob against the target name.
func ScoreFreeText(text, target string) float64 {
	score := 0.0
	haystack := Normalize(text)
	normalizedTarget := Normalize(target)

	switch {
	case normalizedTarget == "" || haystack == "":
	case strings.Contains(haystack, normalizedTarget):
		score += freeTextExactWeight
	case matchesAnyToken(haystack, normalizedTarget):
		score += freeTextPartialWeight
	}

	if hasTransferKeyword(haystack) {
		score += freeTextDomainWeight
	}

	return clamp01(score)
}

// matchesAnyToken accepts a partial hit when any token of the target
// (surname included) appears as a word in the haystack.
func matchesAnyToken(haystack, target string) bool {
	for _, token := range strings.Fields(target) {
		if len(token) < 3 {
			continue
		}
		if containsWord(haystack, token) {
			return true
		}
	}
	return false
}

func hasTransferKeyword(haystack string) bool {
	for _, keyword := range transferKeywords {
		if containsWord(haystack, keyword) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
