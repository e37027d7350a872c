package usecase

import (
	"strings"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// offlineFood is one entry of the embedded last-resort table
type offlineFood struct {
	names  []string
	record domain.NutrientRecord
}

func per100g(kcal, protein, fat, carbs float64) domain.NutrientRecord {
	return domain.NutrientRecord{
		Per:    domain.BasisPer100g,
		Macros: domain.Macros{Calories: kcal, ProteinG: protein, FatG: fat, CarbsG: carbs},
	}
}

// perPiece builds a count-based record whose nutrients describe one unit of
// the given weight; the 100g baseline is derived from it.
func perPiece(grams, kcal, protein, fat, carbs float64) domain.NutrientRecord {
	unit := domain.Macros{Calories: kcal, ProteinG: protein, FatG: fat, CarbsG: carbs}
	return domain.NutrientRecord{
		Per:     domain.BasisPer100g,
		Macros:  roundMacros(unit.Scale(100/grams), 1),
		PerUnit: &domain.PerUnit{Grams: grams, Nutrients: &unit},
	}
}

var offlineFoods = []offlineFood{
	{[]string{"ご飯", "白米", "rice"}, per100g(168, 2.5, 0.3, 37.0)},
	{[]string{"鶏胸肉", "chicken breast"}, per100g(165, 31.0, 3.6, 0)},
	{[]string{"卵", "egg"}, perPiece(50, 78, 6.3, 5.3, 0.6)},
	{[]string{"バナナ", "banana"}, per100g(93, 1.1, 0.3, 24.1)},
	{[]string{"りんご", "apple"}, per100g(54, 0.2, 0.1, 14.6)},
	{[]string{"オートミール", "oatmeal"}, per100g(380, 13.7, 5.7, 69.1)},
	{[]string{"牛乳", "milk"}, domain.NutrientRecord{
		Per:    domain.BasisPer100ml,
		Macros: domain.Macros{Calories: 67, ProteinG: 3.3, FatG: 3.8, CarbsG: 4.8},
	}},
	{[]string{"ブロッコリー", "broccoli"}, per100g(33, 4.3, 0.5, 5.2)},
	{[]string{"サーモン", "salmon"}, per100g(208, 20.0, 13.0, 0)},
	{[]string{"食パン", "bread slice"}, perPiece(30, 79, 2.5, 1.3, 14.9)},
	{[]string{"サラダ", "salad"}, per100g(20, 1.5, 0.2, 3.5)},
	{[]string{"みそ汁", "味噌汁", "miso soup"}, per100g(35, 2.1, 1.5, 3.4)},
	{[]string{"鶏肉ステーキ", "チキンステーキ", "chicken steak"}, per100g(180, 27.0, 7.0, 0)},
	{[]string{"豚ひき肉", "豚挽肉", "豚ミンチ"}, per100g(250, 17.0, 20.0, 0)},
}

// offlineHeuristics map loose spellings onto a table entry when no name
// matches exactly. Checked in order.
var offlineHeuristics = []struct {
	match  func(name string) bool
	target string
}{
	{func(n string) bool { return containsAny(n, "ごはん", "ご飯", "ライス") }, "ご飯"},
	{func(n string) bool { return strings.Contains(n, "鶏") && strings.Contains(n, "胸") }, "鶏胸肉"},
	{func(n string) bool { return strings.Contains(n, "卵") }, "卵"},
	{func(n string) bool { return strings.Contains(n, "バナナ") }, "バナナ"},
	{func(n string) bool { return strings.Contains(n, "サラダ") }, "サラダ"},
	{func(n string) bool {
		return strings.Contains(n, "豚") && containsAny(n, "ひき肉", "挽肉", "ミンチ")
	}, "豚ひき肉"},
}

type offlineHit struct {
	name   string
	record domain.NutrientRecord
}

// offlineTable indexes offlineFoods by NormalizeKey of every listed name
type offlineTable map[string]offlineHit

func newOfflineTable() offlineTable {
	t := make(offlineTable)
	for _, f := range offlineFoods {
		for _, n := range f.names {
			t[foodname.NormalizeKey(n)] = offlineHit{name: n, record: f.record}
		}
	}
	return t
}

func (t offlineTable) lookup(name string) (string, domain.NutrientRecord, bool) {
	if hit, ok := t[foodname.NormalizeKey(name)]; ok {
		return hit.name, hit.record, true
	}
	for _, h := range offlineHeuristics {
		if h.match(name) {
			hit, ok := t[foodname.NormalizeKey(h.target)]
			return hit.name, hit.record, ok
		}
	}
	return "", domain.NutrientRecord{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
