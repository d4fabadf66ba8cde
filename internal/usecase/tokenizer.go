package usecase

import "strings"

// Tokenize splits OCR output into candidate ingredient tokens.
// Commas become separators, whitespace runs collapse, and every token is
// trimmed and lower-cased. Order is preserved and empty tokens never appear.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, normalizeToken(f))
	}
	return tokens
}

// normalizeToken lowercases and trims a raw name or token
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
