package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torimo/backend/internal/domain"
)

func TestSearch_Ranking(t *testing.T) {
	ds := testDataset(
		entry("鮭フレーク", 1, 1, 1, 1),
		entry("焼き鮭", 1, 1, 1, 1),
		entry("ご飯", 1, 1, 1, 1),
		entry("鮭", 133, 22.3, 4.1, 0.1),
		entry("紅鮭", 1, 1, 1, 1),
		entry("鮭おにぎり", 1, 1, 1, 1),
	)
	svc := newTestNutritionService(t, ds, nil, nil, nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "exact, then prefix, then infix by position",
			query: "鮭",
			want:  []string{"鮭", "鮭フレーク", "鮭おにぎり", "紅鮭", "焼き鮭"},
		},
		{
			name:  "prefix only",
			query: "鮭フ",
			want:  []string{"鮭フレーク"},
		},
		{
			name:  "spaces ignored",
			query: " ご 飯 ",
			want:  []string{"ご飯"},
		},
		{
			name:  "no match",
			query: "パン",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range svc.Search(tt.query, 0) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_ResultCarriesNutrition(t *testing.T) {
	svc := newTestNutritionService(t, testDataset(entry("鮭", 133, 22.3, 4.1, 0.1)), nil, nil, nil)

	got := svc.Search("鮭", 0)
	require.Len(t, got, 1)
	assert.Equal(t, domain.FoodSearchResult{
		Name:   "鮭",
		Per:    domain.BasisPer100g,
		Macros: domain.Macros{Calories: 133, ProteinG: 22.3, FatG: 4.1, CarbsG: 0.1},
	}, got[0])
}

func TestSearch_Limit(t *testing.T) {
	var entries []domain.CanonicalFoodEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, entry(fmt.Sprintf("rice%02d", i), 1, 1, 1, 1))
	}
	svc := newTestNutritionService(t, testDataset(entries...), nil, nil, nil)

	assert.Len(t, svc.Search("rice", 0), DefaultSearchLimit)
	got := svc.Search("rice", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "rice00", got[0].Name)
	assert.Equal(t, "rice01", got[1].Name)

	assert.Empty(t, svc.Search("  ", 0))
	assert.Empty(t, newTestNutritionService(t, testDataset(), nil, nil, nil).Search("rice", 0))
}

func TestAutocomplete_Stages(t *testing.T) {
	ds := testDataset(
		entry("Salmon Roe", 1, 1, 1, 1),
		entry("salmon", 1, 1, 1, 1),
		entry("salam", 1, 1, 1, 1),
		entry("ご飯", 1, 1, 1, 1),
	)
	svc := newTestNutritionService(t, ds, []string{"鮭"}, nil, nil)

	got := svc.Autocomplete("salm", 0)

	// alias first, then dataset names, then the fuzzy-only hit; "salmon"
	// appears once although every stage can produce it
	require.NotEmpty(t, got)
	assert.Equal(t, "salmon", got[0])
	assert.Contains(t, got, "Salmon Roe")
	assert.Equal(t, "salam", got[len(got)-1])
	seen := map[string]bool{}
	for _, name := range got {
		assert.False(t, seen[name], "duplicate %q", name)
		seen[name] = true
	}
	assert.NotContains(t, got, "ご飯")
}

func TestAutocomplete_Limits(t *testing.T) {
	var entries []domain.CanonicalFoodEntry
	for i := 0; i < 12; i++ {
		entries = append(entries, entry(fmt.Sprintf("bread%02d", i), 1, 1, 1, 1))
	}
	svc := newTestNutritionService(t, testDataset(entries...), nil, nil, nil)

	assert.Len(t, svc.Autocomplete("bread", 0), DefaultAutocompleteLimit)
	assert.Equal(t, []string{"bread00"}, svc.Autocomplete("bread", 1))
	assert.Empty(t, svc.Autocomplete(" ", 0))
}

func TestAutocomplete_AliasesStopAtLimit(t *testing.T) {
	svc := newTestNutritionService(t, testDataset(entry("salmon", 1, 1, 1, 1)), []string{"鮭"}, nil, nil)

	assert.Equal(t, []string{"salmon"}, svc.Autocomplete("salmon", 1))
}

func TestAliasResolver_AliasesContaining(t *testing.T) {
	table := NewAliasBuilder(nil).Build([]string{"鮭", "鯖"})
	r := NewAliasResolver(staticAliases{table: table}, 0, nil)

	assert.Equal(t, []string{"サバ"}, r.AliasesContaining("サバ", 5))
	assert.Len(t, r.AliasesContaining("さ", 1), 1)
	assert.Empty(t, r.AliasesContaining("", 5))
	assert.Empty(t, NewAliasResolver(nil, 0, nil).AliasesContaining("サバ", 5))
}
