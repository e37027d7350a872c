package domain

// Basis is the reference quantity the base macros are expressed against
type Basis string

const (
	BasisPer100g  Basis = "100g"
	BasisPer100ml Basis = "100ml"
)

// Source tags attached to resolved records by the resolution cascade
const (
	SourceDataset = "dataset"
	SourceAlias   = "alias"
	SourceFDC     = "fdc"
	SourceOffline = "offline-db"
)

// Macros contains the four tracked macronutrients
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// Scale returns the macros multiplied by factor
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		ProteinG: m.ProteinG * factor,
		FatG:     m.FatG * factor,
		CarbsG:   m.CarbsG * factor,
	}
}

// Add returns the element-wise sum of m and o
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		ProteinG: m.ProteinG + o.ProteinG,
		FatG:     m.FatG + o.FatG,
		CarbsG:   m.CarbsG + o.CarbsG,
	}
}

// PerUnit describes one discrete serving unit (one egg, one slice).
// Nutrients is the per-unit snapshot when the source recorded one.
type PerUnit struct {
	Grams     float64 `json:"grams"`
	Label     string  `json:"label,omitempty"`
	Nutrients *Macros `json:"nutrients,omitempty"`
}

// NutrientRecord is the nutrition baseline of a food.
// A nil PerUnit means the record only carries a weight basis; a non-nil
// PerUnit adds a count basis on top of it.
type NutrientRecord struct {
	Per     Basis    `json:"per"`
	Macros  Macros   `json:"macros"`
	Source  string   `json:"source,omitempty"`
	PerUnit *PerUnit `json:"per_unit,omitempty"`
}

// HasCountBasis reports whether the record knows the weight of one unit
func (r NutrientRecord) HasCountBasis() bool {
	return r.PerUnit != nil && r.PerUnit.Grams > 0
}

// HasUnitSnapshot reports whether the record carries per-unit nutrient values
func (r NutrientRecord) HasUnitSnapshot() bool {
	return r.PerUnit != nil && r.PerUnit.Nutrients != nil
}

// Clone returns a deep copy so callers can retag a record without touching shared caches
func (r NutrientRecord) Clone() NutrientRecord {
	out := r
	if r.PerUnit != nil {
		pu := *r.PerUnit
		if r.PerUnit.Nutrients != nil {
			n := *r.PerUnit.Nutrients
			pu.Nutrients = &n
		}
		out.PerUnit = &pu
	}
	return out
}

// CanonicalFoodEntry is one row of the loaded dataset keyed by its canonical name
type CanonicalFoodEntry struct {
	Name   string         `json:"name"`
	Record NutrientRecord `json:"record"`
}

// FoodSearchResult is one dataset entry matched by a name search
type FoodSearchResult struct {
	Name string `json:"name"`
	Per  Basis  `json:"per"`
	Macros
}

// Dataset is the loader output: entries in load order plus a parallel
// NormalizeKey index used for searching.
type Dataset struct {
	Entries []CanonicalFoodEntry
	Index   []string
}

// Len returns the number of entries
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// Resolution is a successful outcome of the nutrition resolution cascade
type Resolution struct {
	Query       string         `json:"query"`
	MatchedName string         `json:"matchedName"`
	Record      NutrientRecord `json:"record"`
	// Origin is the provenance tag the dataset loader attached, if any
	Origin string `json:"origin,omitempty"`
}
