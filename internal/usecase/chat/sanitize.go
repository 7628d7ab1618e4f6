package chat

import "strings"

// stripQuotes removes single quotes so LLM output can be embedded in
// downstream lookups and rendered safely
func stripQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "'", ""))
}

// estimateTokens approximates a token count as one token per four runes
func estimateTokens(s string) int {
	n := len([]rune(s))
	return (n + 3) / 4
}
