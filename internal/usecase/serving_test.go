package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torimo/backend/internal/domain"
)

var (
	plainRice = domain.NutrientRecord{
		Per:    domain.BasisPer100g,
		Macros: domain.Macros{Calories: 168, ProteinG: 2.5, FatG: 0.3, CarbsG: 37},
	}
	eggByPiece = domain.NutrientRecord{
		Per:    domain.BasisPer100g,
		Macros: domain.Macros{Calories: 156, ProteinG: 12.6, FatG: 10.6, CarbsG: 1.2},
		PerUnit: &domain.PerUnit{
			Grams:     50,
			Nutrients: &domain.Macros{Calories: 78, ProteinG: 6.3, FatG: 5.3, CarbsG: 0.6},
		},
	}
	sliceWithoutSnapshot = domain.NutrientRecord{
		Per:     domain.BasisPer100g,
		Macros:  domain.Macros{Calories: 260, ProteinG: 9, FatG: 4, CarbsG: 46},
		PerUnit: &domain.PerUnit{Grams: 30, Label: "slice"},
	}
)

func TestServingGrams(t *testing.T) {
	tests := []struct {
		name string
		food string
		rec  domain.NutrientRecord
		qty  *float64
		unit string
		want float64
	}{
		{"defaults to 100g", "ご飯", plainRice, nil, "", 100},
		{"defaults to one unit", "卵", eggByPiece, nil, "", 50},
		{"grams", "ご飯", plainRice, domain.Quantity(150), "g", 150},
		{"kilograms", "ご飯", plainRice, domain.Quantity(1.5), "kg", 1500},
		{"full width unit", "牛乳", plainRice, domain.Quantity(200), "ｍｌ", 200},
		{"litre script variant", "牛乳", plainRice, domain.Quantity(1), "リットル", 1000},
		{"cup", "ご飯", plainRice, domain.Quantity(2), "cups", 480},
		{"bowl", "ご飯", plainRice, domain.Quantity(1), "茶碗", 150},
		{"count with unit weight", "卵", eggByPiece, domain.Quantity(2), "個", 100},
		{"count from item weight table", "バナナ", plainRice, domain.Quantity(2), "本", 200},
		{"count from item weight table ascii", "Bread Slice", plainRice, domain.Quantity(2), "slices", 60},
		{"count without any weight", "りんご", plainRice, domain.Quantity(3), "個", 300},
		{"bare count with unit weight", "卵", eggByPiece, domain.Quantity(3), "", 150},
		{"bare number is grams", "ご飯", plainRice, domain.Quantity(180), "", 180},
		{"unknown unit with quantity", "ご飯", plainRice, domain.Quantity(12), "oz", 12},
		{"unknown unit without quantity", "ご飯", plainRice, nil, "oz", 100},
		{"unit without quantity counts one", "ご飯", plainRice, nil, "cup", 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ServingGrams(tt.food, tt.rec, tt.qty, tt.unit), 1e-9)
		})
	}
}

func TestScaleServing_PerUnitSnapshot(t *testing.T) {
	s := ScaleServing("卵", eggByPiece, domain.Quantity(1), "個")

	assert.Equal(t, 78.0, s.Macros.Calories)
	assert.Equal(t, 6.3, s.Macros.ProteinG)
	assert.Equal(t, "1個", s.Label)
	assert.Equal(t, 50.0, s.Grams)

	two := ScaleServing("卵", eggByPiece, domain.Quantity(2), "")
	assert.Equal(t, 156.0, two.Macros.Calories)
	assert.Equal(t, "2 unit", two.Label)
}

func TestScaleServing_WeightUnitBypassesSnapshot(t *testing.T) {
	s := ScaleServing("卵", eggByPiece, domain.Quantity(60), "g")

	assert.InDelta(t, 93.6, s.Macros.Calories, 1e-9)
	assert.Equal(t, "60g", s.Label)
}

func TestScaleServing_CountBasisWithoutSnapshot(t *testing.T) {
	s := ScaleServing("食パン", sliceWithoutSnapshot, domain.Quantity(2), "")

	assert.InDelta(t, 60.0, s.Grams, 1e-9)
	assert.InDelta(t, 156.0, s.Macros.Calories, 1e-9)
	assert.Equal(t, "2 slice", s.Label)
}

func TestScaleServing_Grams(t *testing.T) {
	s := ScaleServing("ご飯", plainRice, domain.Quantity(150), "g")

	assert.InDelta(t, 252.0, s.Macros.Calories, 1e-9)
	assert.InDelta(t, 3.8, s.Macros.ProteinG, 1e-9)
	assert.InDelta(t, 55.5, s.Macros.CarbsG, 1e-9)
	assert.Equal(t, "150g", s.Label)
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "1.5本", unitLabel(1.5, "本", ""))
	assert.Equal(t, "2 piece", unitLabel(2, "", "piece"))
	assert.Equal(t, "3枚", unitLabel(3, "", "枚"))
	assert.Equal(t, "1 unit", unitLabel(1, "", ""))
}
