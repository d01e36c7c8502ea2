package search

import "strings"

// QueryTokens splits a query into lowercase tokens usable for lexical
// matching. Question marks and commas are stripped and tokens of two
// characters or fewer are dropped, so filler words never drive a match.
func QueryTokens(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ReplaceAll(word, "?", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if len(cleaned) > 2 {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// LexicalOverlap sums the occurrence counts of the tokens in the text,
// case-insensitively, so a text repeating one matched term outscores a
// text matching several terms once.
func LexicalOverlap(text string, tokens []string) int {
	lowered := strings.ToLower(text)
	count := 0
	for _, token := range tokens {
		count += strings.Count(lowered, token)
	}
	return count
}
