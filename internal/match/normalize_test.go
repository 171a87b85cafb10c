package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases and trims", "  Jane Doe  ", "jane doe"},
		{"strips punctuation", "O'Brien & Sons!", "obrien sons"},
		{"drops business suffix", "Acme Plumbing Co", "acme plumbing"},
		{"drops punctuated suffix", "ACME Plumbing, Inc.", "acme plumbing"},
		{"drops stacked suffixes", "Acme Plumbing Co LLC", "acme plumbing"},
		{"keeps suffix-only name", "Co", "co"},
		{"collapses whitespace", "Acme   Plumbing\tHeating", "acme plumbing heating"},
		{"empty input", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.in))
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical after normalization", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("ACME Plumbing Co", "Acme Plumbing"))
	})

	t.Run("close names score high", func(t *testing.T) {
		score := Similarity("Jane Doe", "Jane Does")
		assert.Greater(t, score, 0.85)
		assert.Less(t, score, 1.0)
	})

	t.Run("unrelated names score low", func(t *testing.T) {
		assert.Less(t, Similarity("Zzqxv Unrelated", "Jane Doe"), 0.4)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, Similarity("Jane Doe", "John Doe"), Similarity("John Doe", "Jane Doe"))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("", ""))
	})
}
