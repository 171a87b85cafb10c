package match

import (
	"context"
	"errors"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/fieldline/lead-relay/internal/entity"
)

const (
	// DefaultThreshold is the acceptance score used when callers have no
	// configured value. Higher is stricter.
	DefaultThreshold = 0.8

	// candidateLimit caps the fuzzy candidate fetch.
	candidateLimit = 1000
)

// ErrNoMatch is a normal, reportable outcome: the payment needs manual
// reconciliation. It is not an upstream failure.
var ErrNoMatch = errors.New("no matching lead found")

// CandidateSource is the slice of the lead repository the matcher needs.
type CandidateSource interface {
	FindByName(ctx context.Context, name string) ([]*entity.Lead, error)
	List(ctx context.Context, limit int) ([]*entity.Lead, error)
}

// Similarity scores two names in [0,1] (1 = identical) using
// Levenshtein distance over the normalized forms.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}

	distance := levenshtein.DistanceForStrings([]rune(na), []rune(nb), levenshtein.DefaultOptions)
	return 1 - float64(distance)/float64(longest)
}

// FindMatch resolves a free-text customer name to a stored lead.
//
// An exact case-insensitive store query short-circuits the fuzzy path
// entirely; the first hit in the store's native order wins. Otherwise
// every candidate is scored and the best one is returned when its score
// reaches threshold (>=, so a score exactly at the threshold is
// accepted). Ties at the winning score resolve to the lowest record id.
func FindMatch(ctx context.Context, targetName string, leads CandidateSource, threshold float64) (*entity.Lead, error) {
	normalized := Normalize(targetName)
	if normalized == "" {
		return nil, ErrNoMatch
	}

	hits, err := leads.FindByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits[0], nil
	}

	candidates, err := leads.List(ctx, candidateLimit)
	if err != nil {
		return nil, err
	}

	var best *entity.Lead
	bestScore := -1.0
	for _, candidate := range candidates {
		score := Similarity(targetName, candidate.Name)
		switch {
		case score > bestScore:
			best, bestScore = candidate, score
		case score == bestScore && best != nil && candidate.ID < best.ID:
			best = candidate
		}
	}

	if best == nil || bestScore < threshold {
		return nil, ErrNoMatch
	}
	return best, nil
}
