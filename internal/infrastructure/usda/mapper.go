package usda

import (
	"strings"

	"github.com/torimo/backend/internal/domain"
)

// FoodData Central nutrient IDs for the tracked macronutrients
const (
	NutrientIDEnergy       = 1008 // kcal
	NutrientIDProtein      = 1003 // g
	NutrientIDTotalFat     = 1004 // g
	NutrientIDCarbohydrate = 1005 // g

	// Foundation foods often report energy only through the Atwater factors
	NutrientIDEnergyAtwaterGeneral  = 2047
	NutrientIDEnergyAtwaterSpecific = 2048
)

// nutrient names used when a hit carries no nutrient IDs
var nutrientNames = map[string]int{
	"energy":                      NutrientIDEnergy,
	"protein":                     NutrientIDProtein,
	"total lipid (fat)":           NutrientIDTotalFat,
	"carbohydrate, by difference": NutrientIDCarbohydrate,
}

// MapToRecord converts a search hit to a per-100g nutrient record
func MapToRecord(food Food) domain.NutrientRecord {
	return domain.NutrientRecord{
		Per:    domain.BasisPer100g,
		Macros: extractMacros(food.Nutrients),
		Source: domain.SourceFDC,
	}
}

func extractMacros(nutrients []FoodNutrient) domain.Macros {
	var m domain.Macros
	energySet := false
	for _, n := range nutrients {
		id := n.NutrientID
		if id == 0 {
			id = nutrientNames[strings.ToLower(strings.TrimSpace(n.NutrientName))]
		}
		switch id {
		case NutrientIDEnergy:
			// FDC reports energy twice for some foods; only kcal is wanted
			if n.UnitName == "" || strings.EqualFold(n.UnitName, "kcal") {
				m.Calories = n.Value
				energySet = true
			}
		case NutrientIDProtein:
			m.ProteinG = n.Value
		case NutrientIDTotalFat:
			m.FatG = n.Value
		case NutrientIDCarbohydrate:
			m.CarbsG = n.Value
		}
	}
	if !energySet {
		for _, id := range []int{NutrientIDEnergyAtwaterGeneral, NutrientIDEnergyAtwaterSpecific} {
			if v, ok := FindNutrientValue(nutrients, id); ok {
				m.Calories = v
				break
			}
		}
	}
	return m
}

// FindNutrientValue finds a nutrient value by ID
func FindNutrientValue(nutrients []FoodNutrient, nutrientID int) (float64, bool) {
	for _, n := range nutrients {
		if n.NutrientID == nutrientID {
			return n.Value, true
		}
	}
	return 0, false
}
