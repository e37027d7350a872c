package domain

import "encoding/json"

// ParsedItem is one food mention extracted from free text
type ParsedItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Quantity returns a pointer to q, for building ParsedItem literals
func Quantity(q float64) *float64 {
	return &q
}

// AnalyzeRequest is a meal analysis request: either free text or pre-parsed items
type AnalyzeRequest struct {
	Text  string       `json:"text"`
	Items []ParsedItem `json:"items,omitempty"`
}

// AnalyzedItem is the per-item result of a meal analysis
type AnalyzedItem struct {
	Name        string   `json:"name"`
	Found       bool     `json:"found"`
	Grams       float64  `json:"grams,omitempty"`
	Per         string   `json:"per,omitempty"`
	Calories    float64  `json:"calories"`
	ProteinG    float64  `json:"protein_g"`
	FatG        float64  `json:"fat_g"`
	CarbsG      float64  `json:"carbs_g"`
	Source      string   `json:"source,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AnalyzeResult holds analyzed items and their summed macros
type AnalyzeResult struct {
	Items  []AnalyzedItem `json:"items"`
	Totals Macros         `json:"totals"`
}

// MarshalJSON renders an unmatched item as name, found and suggestions only,
// with suggestions present even when empty
func (a AnalyzedItem) MarshalJSON() ([]byte, error) {
	type plain AnalyzedItem
	if a.Found {
		return json.Marshal(plain(a))
	}
	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return json.Marshal(struct {
		Name        string   `json:"name"`
		Found       bool     `json:"found"`
		Suggestions []string `json:"suggestions"`
	}{a.Name, false, suggestions})
}
