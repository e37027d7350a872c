package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Header spellings accepted for each logical column of the generic schema.
// Matching is case-insensitive on trimmed header cells; the first column
// with a non-empty value wins.
var (
	nameHeaders         = []string{"name", "food", "食品名", "食 品 名"}
	perHeaders          = []string{"per", "basis"}
	perUnitGramsHeaders = []string{"per_unit_grams", "unit_grams", "grams_per_unit"}
	unitLabelHeaders    = []string{"count_unit", "unit_label", "serving_unit"}
	caloriesHeaders     = []string{"calories", "kcal", "エネルギー(kcal)"}
	proteinHeaders      = []string{"protein", "タンパク質(g)", "たんぱく質"}
	fatHeaders          = []string{"fat", "脂質(g)", "脂質"}
	carbsHeaders        = []string{"carbs", "carbohydrates", "炭水化物(g)", "炭水化物"}
)

var errGenericHeader = errors.New("no name column in header")

// genericRow is one data row of the generic named-column schema
type genericRow struct {
	name         string
	per          string
	perUnitGrams *float64
	unitLabel    string
	macros       [4]float64
}

func (r genericRow) hasPerUnit() bool {
	return r.perUnitGrams != nil || r.unitLabel != ""
}

type headerIndex map[string]int

func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func (h headerIndex) has(aliases []string) bool {
	for _, a := range aliases {
		if _, ok := h[strings.ToLower(a)]; ok {
			return true
		}
	}
	return false
}

func (h headerIndex) value(record []string, aliases []string) string {
	for _, a := range aliases {
		i, ok := h[strings.ToLower(a)]
		if !ok || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

// parseGeneric reads the generic named-column schema. Rows without a name
// are skipped; malformed numeric cells read as zero.
func parseGeneric(content string) ([]genericRow, error) {
	reader := csv.NewReader(strings.NewReader(strings.Join(nonEmptyLines(content), "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := newHeaderIndex(header)
	if !cols.has(nameHeaders) {
		return nil, errGenericHeader
	}

	var rows []genericRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// a broken quote only costs the row
			continue
		}

		name := cols.value(record, nameHeaders)
		if name == "" {
			continue
		}
		row := genericRow{
			name:      name,
			per:       strings.ToLower(cols.value(record, perHeaders)),
			unitLabel: cols.value(record, unitLabelHeaders),
			macros: [4]float64{
				parsePlainNumber(cols.value(record, caloriesHeaders)),
				parsePlainNumber(cols.value(record, proteinHeaders)),
				parsePlainNumber(cols.value(record, fatHeaders)),
				parsePlainNumber(cols.value(record, carbsHeaders)),
			},
		}
		if raw := cols.value(record, perUnitGramsHeaders); raw != "" {
			if g, err := strconv.ParseFloat(raw, 64); err == nil && isFinite(g) && g > 0 {
				row.perUnitGrams = &g
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parsePlainNumber reads a nutrient amount. Unreadable, non-finite and
// negative amounts are zero.
func parsePlainNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
