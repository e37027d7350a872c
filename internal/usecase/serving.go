package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

const defaultServingGrams = 100.0

// weightUnits convert directly to grams (ml counted as water)
var weightUnits = map[string]float64{
	"g": 1, "gram": 1, "grams": 1, "グラム": 1,
	"kg": 1000, "キログラム": 1000,
	"ml": 1, "ミリリットル": 1,
	"l": 1000, "リットル": 1000,
}

// containerUnits are approximate weights of one generic container
var containerUnits = map[string]float64{
	"cup": 240, "cups": 240, "カップ": 240,
	"bowl": 150, "bowls": 150, "杯": 150, "茶碗": 150,
}

var countUnits = map[string]bool{
	"個": true, "piece": true, "pieces": true,
	"枚": true, "slice": true, "slices": true,
	"本": true, "串": true,
}

// itemBaseWeights are rough weights of one piece, used for count units when
// the record has no per-unit weight. Keyed by the canonical NormalizeKey.
var itemBaseWeights = func() map[string]float64 {
	raw := map[string]float64{
		"卵": 50, "egg": 50,
		"バナナ": 100, "banana": 100,
		"食パン": 30, "bread slice": 30,
		"焼き鳥": 80,
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[foodname.NormalizeKey(foodname.Canonicalize(k))] = v
	}
	return out
}()

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(foodname.NFKC(unit)))
}

// IsWeightUnit reports whether unit is a weight or volume unit
func IsWeightUnit(unit string) bool {
	_, ok := weightUnits[normalizeUnit(unit)]
	return ok
}

// ServingGrams converts a quantity and unit into grams of food. A missing
// quantity next to a unit counts as one.
func ServingGrams(name string, rec domain.NutrientRecord, qty *float64, unit string) float64 {
	u := normalizeUnit(unit)
	if qty == nil && u == "" {
		if rec.HasCountBasis() {
			return rec.PerUnit.Grams
		}
		return defaultServingGrams
	}

	q := 1.0
	if qty != nil {
		q = *qty
	}

	if f, ok := weightUnits[u]; ok {
		return q * f
	}
	if f, ok := containerUnits[u]; ok {
		return q * f
	}
	// a bare count ("卵 2") reads as pieces when the food has a unit weight
	if countUnits[u] || (u == "" && rec.HasCountBasis()) {
		if rec.HasCountBasis() {
			return q * rec.PerUnit.Grams
		}
		if w, ok := itemBaseWeights[foodname.NormalizeKey(foodname.Canonicalize(name))]; ok {
			return q * w
		}
		return q * defaultServingGrams
	}
	if qty != nil {
		return *qty
	}
	return defaultServingGrams
}

// Serving is a scaled portion of a food
type Serving struct {
	Grams  float64
	Label  string
	Macros domain.Macros
}

// ScaleServing computes the macros of the requested portion. A per-unit
// snapshot is multiplied by the quantity unless the unit is a weight unit;
// every other case scales the 100g baseline by grams/100. Values are
// rounded to one decimal.
func ScaleServing(name string, rec domain.NutrientRecord, qty *float64, unit string) Serving {
	grams := ServingGrams(name, rec, qty, unit)
	u := normalizeUnit(unit)

	q := 1.0
	if qty != nil {
		q = *qty
	}

	weight := IsWeightUnit(u)
	s := Serving{Grams: roundTo(grams, 1)}

	switch {
	case rec.HasUnitSnapshot() && !weight:
		s.Macros = rec.PerUnit.Nutrients.Scale(q)
		s.Label = unitLabel(q, unit, rec.PerUnit.Label)
	case rec.HasCountBasis() && (u == "" || countUnits[u]):
		s.Macros = rec.Macros.Scale(grams / 100)
		s.Label = unitLabel(q, unit, rec.PerUnit.Label)
	default:
		s.Macros = rec.Macros.Scale(grams / 100)
		s.Label = strconv.FormatFloat(math.Round(grams), 'f', 0, 64) + "g"
	}
	s.Macros = roundMacros(s.Macros, 1)
	return s
}

// unitLabel renders "2個", "2 slice" or "2 unit"
func unitLabel(q float64, unit, fallback string) string {
	qs := strconv.FormatFloat(q, 'f', -1, 64)
	label := strings.TrimSpace(unit)
	if label == "" {
		label = fallback
	}
	if label == "" {
		return qs + " unit"
	}
	if c := label[0]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return qs + " " + label
	}
	return qs + label
}

func roundMacros(m domain.Macros, places int) domain.Macros {
	return domain.Macros{
		Calories: roundTo(m.Calories, places),
		ProteinG: roundTo(m.ProteinG, places),
		FatG:     roundTo(m.FatG, places),
		CarbsG:   roundTo(m.CarbsG, places),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
