package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzedItem_MarshalJSON(t *testing.T) {
	found, err := json.Marshal(AnalyzedItem{
		Name: "ご飯", Found: true, Grams: 150, Per: "150g",
		Calories: 234, ProteinG: 3.8, FatG: 0.5, CarbsG: 55.7, Source: SourceDataset,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ご飯","found":true,"grams":150,"per":"150g","calories":234,"protein_g":3.8,"fat_g":0.5,"carbs_g":55.7,"source":"dataset"}`, string(found))

	missing, err := json.Marshal(AnalyzedItem{Name: "謎", Calories: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"謎","found":false,"suggestions":[]}`, string(missing))

	withHints, err := json.Marshal([]AnalyzedItem{{Name: "焼きとり", Suggestions: []string{"焼き鳥"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"焼きとり","found":false,"suggestions":["焼き鳥"]}]`, string(withHints))
}
