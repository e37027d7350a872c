package usda

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torimo/backend/internal/domain"
)

func TestMapToRecord(t *testing.T) {
	tests := []struct {
		name string
		food Food
		want domain.Macros
	}{
		{
			name: "complete food data",
			food: Food{
				FdcID:       12345,
				Description: "Milk, whole",
				Nutrients: []FoodNutrient{
					{NutrientID: NutrientIDEnergy, NutrientName: "Energy", Value: 61, UnitName: "KCAL"},
					{NutrientID: NutrientIDProtein, NutrientName: "Protein", Value: 3.3, UnitName: "G"},
					{NutrientID: NutrientIDCarbohydrate, NutrientName: "Carbohydrate, by difference", Value: 4.8, UnitName: "G"},
					{NutrientID: NutrientIDTotalFat, NutrientName: "Total lipid (fat)", Value: 3.3, UnitName: "G"},
				},
			},
			want: domain.Macros{Calories: 61, ProteinG: 3.3, FatG: 3.3, CarbsG: 4.8},
		},
		{
			name: "missing some nutrients",
			food: Food{
				Description: "Apple",
				Nutrients: []FoodNutrient{
					{NutrientID: NutrientIDEnergy, Value: 52},
					{NutrientID: NutrientIDCarbohydrate, Value: 14},
				},
			},
			want: domain.Macros{Calories: 52, CarbsG: 14},
		},
		{
			name: "energy in kJ is ignored",
			food: Food{
				Nutrients: []FoodNutrient{
					{NutrientID: NutrientIDEnergy, Value: 255, UnitName: "kJ"},
					{NutrientID: NutrientIDEnergy, Value: 61, UnitName: "KCAL"},
				},
			},
			want: domain.Macros{Calories: 61},
		},
		{
			name: "atwater energy fallback",
			food: Food{
				Nutrients: []FoodNutrient{
					{NutrientID: NutrientIDEnergyAtwaterGeneral, Value: 97, UnitName: "KCAL"},
					{NutrientID: NutrientIDProtein, Value: 20.4},
				},
			},
			want: domain.Macros{Calories: 97, ProteinG: 20.4},
		},
		{
			name: "nutrient names without IDs",
			food: Food{
				Nutrients: []FoodNutrient{
					{NutrientName: "Energy", Value: 130},
					{NutrientName: "Protein", Value: 2.7},
					{NutrientName: "Total lipid (fat)", Value: 0.3},
					{NutrientName: "Carbohydrate, by difference", Value: 28.2},
				},
			},
			want: domain.Macros{Calories: 130, ProteinG: 2.7, FatG: 0.3, CarbsG: 28.2},
		},
		{
			name: "no nutrients",
			food: Food{Description: "Unknown"},
			want: domain.Macros{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := MapToRecord(tt.food)
			assert.Equal(t, domain.BasisPer100g, rec.Per)
			assert.Equal(t, domain.SourceFDC, rec.Source)
			assert.Equal(t, tt.want, rec.Macros)
		})
	}
}

func TestFindNutrientValue(t *testing.T) {
	nutrients := []FoodNutrient{
		{NutrientID: NutrientIDEnergy, Value: 100},
		{NutrientID: NutrientIDProtein, Value: 10},
	}

	v, ok := FindNutrientValue(nutrients, NutrientIDProtein)
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)

	v, ok = FindNutrientValue(nutrients, NutrientIDTotalFat)
	assert.False(t, ok)
	assert.Zero(t, v)

	_, ok = FindNutrientValue(nil, NutrientIDEnergy)
	assert.False(t, ok)
}
