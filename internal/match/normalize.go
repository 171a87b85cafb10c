package match

import (
	"strings"
	"unicode"
)

// Trailing tokens dropped before comparison, so "Acme Plumbing Co"
// and "ACME Plumbing, Inc." score as the same business.
var businessSuffixes = map[string]bool{
	"co":          true,
	"company":     true,
	"corp":        true,
	"corporation": true,
	"inc":         true,
	"llc":         true,
	"ltd":         true,
}

// Normalize lowercases, trims, strips punctuation, collapses runs of
// whitespace and removes trailing business suffixes.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	for len(words) > 1 && businessSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
