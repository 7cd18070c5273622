// Package match decides whether two deceased-person names refer to the same
// estate case. Names come from OCR output and hand-typed spreadsheets, so the
// comparison is fuzzy: a bounded similarity score against a tunable threshold.
package match

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultThreshold is the chosen operating point. Lower values match
// different cases together; higher values miss the same case under OCR noise.
const DefaultThreshold = 0.85

type Matcher struct {
	// Threshold is the minimum similarity in [0,1] for a pair to count as
	// the same case.
	Threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold}
}

// Match reports whether a and b name the same case. Either name normalizing
// to the empty string short-circuits to false regardless of score.
func (m *Matcher) Match(a, b string) bool {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return similarity(na, nb) >= m.Threshold
}

// Similarity exposes the underlying score for the normalized pair, in [0,1].
func (m *Matcher) Similarity(a, b string) float64 {
	return similarity(normalizeName(a), normalizeName(b))
}

// normalizeName strips everything that is not a letter or whitespace, trims,
// and casefolds.
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}

// similarity is the better of two bounded metrics: the Sørensen–Dice bigram
// coefficient and Levenshtein distance normalized by the longer string.
// Both are symmetric, so the decision is too.
func similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	dice := diceCoefficient(a, b)
	lev := levenshteinSimilarity(a, b)
	if dice > lev {
		return dice
	}
	return lev
}

// diceCoefficient computes 2*|bigrams(a) ∩ bigrams(b)| / (|bigrams(a)| +
// |bigrams(b)|) over whitespace-stripped runes.
func diceCoefficient(a, b string) float64 {
	ra := []rune(strings.Join(strings.Fields(a), ""))
	rb := []rune(strings.Join(strings.Fields(b), ""))
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		g := string(rb[i : i+2])
		if bigrams[g] > 0 {
			bigrams[g]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)+len(rb)-2)
}

func levenshteinSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
