// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank normalizes queries and orders search candidates by
// title similarity.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// DefaultThreshold is the minimum similarity score a candidate must
// exceed to survive ranking.
const DefaultThreshold = 0.4

// punctReplacer turns common title punctuation into word boundaries
// rather than deleting it, so "BERT: Pre-training" and "BERT
// Pre training" normalize identically.
var punctReplacer = strings.NewReplacer("-", " ", ":", " ", ",", " ", ".", " ")

// Normalize lowercases s, replaces hyphen, colon, comma and period
// with a space, collapses whitespace runs, and trims. It is
// idempotent: Normalize(Normalize(s)) == Normalize(s). The same
// normalization must be applied to both sides of a similarity
// comparison.
func Normalize(s string) string {
	s = punctReplacer.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Scorer computes a similarity score in [0,1] for two normalized
// strings. Implementations must be symmetric, return 1.0 for
// identical inputs, and score less-similar strings monotonically
// lower.
type Scorer func(a, b string) float64

// DiceCoefficient scores two strings by bigram overlap
// (Sorensen-Dice). Identical inputs score 1, including the
// empty-versus-empty case; strings shorter than two runes only
// match exactly.
func DiceCoefficient(a, b string) float64 {
	if a == b {
		return 1
	}
	ab := bigrams(a)
	bb := bigrams(b)
	if len(ab) == 0 || len(bb) == 0 {
		return 0
	}

	total := 0
	overlap := 0
	for bg, na := range ab {
		total += na
		if nb, ok := bb[bg]; ok {
			if na < nb {
				overlap += na
			} else {
				overlap += nb
			}
		}
	}
	for _, nb := range bb {
		total += nb
	}
	return 2 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	out := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}

// Rank scores each candidate's normalized title against the
// normalized query, drops candidates scoring at or below threshold,
// and returns the remainder in descending score order. Ties keep the
// original (server) order. The input slice is not modified; score is
// nil selects DiceCoefficient, threshold <= 0 selects
// DefaultThreshold.
func Rank(candidates []types.PaperMeta, rawQuery string, threshold float64, score Scorer) []types.PaperMeta {
	if score == nil {
		score = DiceCoefficient
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	q := Normalize(rawQuery)

	var ranked []types.PaperMeta
	for _, c := range candidates {
		s := score(q, Normalize(c.Title))
		if s <= threshold {
			continue
		}
		c.Score = s
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
