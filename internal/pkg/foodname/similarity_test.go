package foodname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"鮭", "鮭"},
		{"鮭", "鯖"},
		{"焼き鮭", "鮭焼き"},
		{"salmon", "salomon"},
		{"a", "abcdef"},
		{"chicken breast", "chicken"},
		{"ご飯", "白ご飯"},
		{"x", "y"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, s, 1.0, "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"a", "鮭", "chicken", "白ごはん"} {
		assert.Equal(t, 1.0, Similarity(s, s), s)
	}
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarity_Blend(t *testing.T) {
	// "ab" vs "abc": ratio = 2*2/5 = 0.8, bigrams {ab} vs {ab, bc} = 0.5
	assert.InDelta(t, 0.6*0.8+0.4*0.5, Similarity("ab", "abc"), 1e-9)

	// Single characters compare as one-element sets
	assert.InDelta(t, 0.0, Similarity("x", "y"), 1e-9)
}

func TestBigramJaccard(t *testing.T) {
	assert.InDelta(t, 1.0, BigramJaccard("abab", "ab"+"ab"), 1e-9)
	assert.InDelta(t, 1.0, BigramJaccard("a", "a"), 1e-9)
	assert.InDelta(t, 0.0, BigramJaccard("a", "ab"), 1e-9)
}

func TestClosest(t *testing.T) {
	candidates := []string{"鶏胸肉", "鶏もも肉", "豚ロース", "鶏胸肉", "牛乳"}

	got := Closest("鶏胸", candidates, 0.5, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "鶏胸肉", got[0].Value)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	seen := map[string]bool{}
	for _, s := range got {
		assert.False(t, seen[s.Value], "duplicate %q", s.Value)
		seen[s.Value] = true
	}

	assert.Empty(t, Closest("", candidates, 0.1, 3))
	assert.Empty(t, Closest("zzz", candidates, 0.6, 3))
	assert.Len(t, Closest("鶏", candidates, 0.0, 2), 2)
}
