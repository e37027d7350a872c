package usda

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// Score weights. Query coverage dominates because FDC descriptions carry
// many qualifiers the user never typed.
const (
	queryCoverageWeight = 0.60
	hitCoverageWeight   = 0.20
	jaccardWeight       = 0.20
	substringBonus      = 10.0
	fuzzyEditDistance   = 1
	fuzzyMinTokenLength = 4
)

// generic reference data is preferred over branded products
var dataTypeBonus = map[string]float64{
	"Foundation":     6,
	"SR Legacy":      5,
	"Survey (FNDDS)": 4,
	"Branded":        0,
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "with": true, "without": true, "for": true,
	"ns": true, "nfs": true, "as": true, "to": true,
}

// BestMatch picks the hit whose description best covers query. Ties keep
// the API's own relevance order, so a query sharing no tokens with any
// description resolves to the first hit.
func BestMatch(query string, foods []Food) (Food, float64, bool) {
	if len(foods) == 0 {
		return Food{}, 0, false
	}

	queryTokens := tokenize(query)
	best, bestScore := 0, -1.0
	for i, f := range foods {
		sc := matchScore(query, queryTokens, f)
		if sc > bestScore {
			best, bestScore = i, sc
		}
	}
	return foods[best], bestScore, true
}

func matchScore(query string, queryTokens []string, food Food) float64 {
	bonus := dataTypeBonus[food.DataType]
	hitTokens := tokenize(food.Description)
	if len(queryTokens) == 0 || len(hitTokens) == 0 {
		return bonus
	}

	queryMatched := countMatched(queryTokens, hitTokens)
	hitMatched := countMatched(hitTokens, queryTokens)
	union := len(unique(queryTokens, hitTokens))

	score := (float64(queryMatched)/float64(len(queryTokens))*queryCoverageWeight +
		float64(hitMatched)/float64(len(hitTokens))*hitCoverageWeight +
		float64(queryMatched)/float64(union)*jaccardWeight) * 100

	q := strings.ToLower(strings.TrimSpace(query))
	d := strings.ToLower(food.Description)
	if len(q) > 3 && strings.Contains(d, q) {
		score += substringBonus
	}
	return score + bonus
}

// tokenize lowercases s, splits on anything that is not a letter or digit
// and drops stop words, single characters and pure numbers
func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 1 || stopWords[w] || isNumeric(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// countMatched counts the distinct tokens of a that appear in b, exactly or
// within one edit for longer tokens
func countMatched(a, b []string) int {
	seen := make(map[string]bool, len(a))
	n := 0
	for _, t := range a {
		if seen[t] {
			continue
		}
		seen[t] = true
		for _, u := range b {
			if t == u || fuzzyTokenMatch(t, u) {
				n++
				break
			}
		}
	}
	return n
}

func fuzzyTokenMatch(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < fuzzyMinTokenLength || len(rb) < fuzzyMinTokenLength {
		return false
	}
	diff := len(ra) - len(rb)
	if diff < 0 {
		diff = -diff
	}
	if diff > fuzzyEditDistance {
		return false
	}
	return edlib.LevenshteinDistance(a, b) <= fuzzyEditDistance
}

func unique(a, b []string) map[string]struct{} {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	return set
}
