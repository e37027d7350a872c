package foodname

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/pmezard/go-difflib/difflib"
)

// Blend weights of Similarity. Calibrated empirically; re-tune together with
// the acceptance thresholds in config.
const (
	sequenceWeight = 0.6
	bigramWeight   = 0.4
)

// SequenceRatio is the character-level sequence matcher ratio 2*M/T
func SequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(runeStrings(a), runeStrings(b))
	return m.Ratio()
}

// BigramJaccard is the Jaccard index of the character-bigram sets of a and b.
// Strings of at most one character contribute themselves as the only element.
func BigramJaccard(a, b string) float64 {
	A := bigrams(a)
	B := bigrams(b)
	inter := 0
	for k := range A {
		if _, ok := B[k]; ok {
			inter++
		}
	}
	union := len(A) + len(B) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Similarity blends the sequence ratio and the bigram Jaccard index into a
// score in [0,1]. Either input empty scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	score := sequenceWeight*SequenceRatio(a, b) + bigramWeight*BigramJaccard(a, b)
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// Scored is a candidate string with its similarity to a query
type Scored struct {
	Value string
	Score float64
}

// Closest ranks candidates by Similarity to query, keeping those scoring at
// least cutoff, at most limit of them, duplicates removed. Ties keep the
// candidates' original order.
func Closest(query string, candidates []string, cutoff float64, limit int) []Scored {
	if query == "" || limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	var ranked []Scored
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if s := Similarity(query, c); s >= cutoff {
			ranked = append(ranked, Scored{Value: c, Score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func bigrams(s string) map[string]int {
	if len([]rune(s)) <= 1 {
		return map[string]int{s: 1}
	}
	return edlib.Shingle(s, 2)
}

func runeStrings(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
