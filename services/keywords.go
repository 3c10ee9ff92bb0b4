package services

import "strings"

// extractKeywords pulls up to max lowercase words longer than minLen from free
// text. It is deliberately deterministic: the same input always yields the
// same keywords, so fallback tags are stable across retries.
func extractKeywords(text string, minLen, max int) []string {
	words := strings.Fields(strings.ToLower(text))
	keywords := make([]string, 0, max)
	for _, w := range words {
		if len(w) > minLen {
			keywords = append(keywords, w)
			if len(keywords) == max {
				break
			}
		}
	}
	return keywords
}
