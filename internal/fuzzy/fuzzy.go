// Package fuzzy ranks items by approximate text similarity to a query.
package fuzzy

import (
	"slices"
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the minimum similarity an item needs to be kept.
const DefaultThreshold = 0.6

// Scorer rates how well query matches text, from 0 (unrelated) to 1 (exact).
// Implementations must be deterministic for fixed inputs.
type Scorer interface {
	Score(query, text string) float64
}

// Levenshtein scores by normalized edit distance between the query and the
// best-aligned run of words in the text. Substring hits score 1.
type Levenshtein struct {
	params *levenshtein.Params
}

func NewLevenshtein() *Levenshtein {
	return &Levenshtein{params: levenshtein.NewParams()}
}

func (l *Levenshtein) Score(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(text)
	if q == "" || t == "" {
		return 0
	}
	if strings.Contains(t, q) {
		return 1
	}

	words := strings.Fields(t)
	width := len(strings.Fields(q))
	if width > len(words) {
		return levenshtein.Similarity(q, t, l.params)
	}

	best := 0.0
	for i := 0; i+width <= len(words); i++ {
		window := strings.Join(words[i:i+width], " ")
		if s := levenshtein.Similarity(q, window, l.params); s > best {
			best = s
		}
	}
	return best
}

// Searcher keeps items scoring at or above Threshold on any key and orders
// them by descending score. Equal scores keep their input order.
type Searcher struct {
	Scorer    Scorer
	Threshold float64
}

func NewSearcher() *Searcher {
	return &Searcher{Scorer: NewLevenshtein(), Threshold: DefaultThreshold}
}

type ranked[T any] struct {
	item  T
	score float64
}

// Search is a function rather than a method so it can be generic over T.
func Search[T any](s *Searcher, query string, items []T, keys func(T) []string) []T {
	hits := make([]ranked[T], 0, len(items))
	for _, it := range items {
		best := 0.0
		for _, k := range keys(it) {
			if sc := s.Scorer.Score(query, k); sc > best {
				best = sc
			}
		}
		if best >= s.Threshold {
			hits = append(hits, ranked[T]{item: it, score: best})
		}
	}

	slices.SortStableFunc(hits, func(a, b ranked[T]) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}
