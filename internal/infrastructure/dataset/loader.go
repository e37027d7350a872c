package dataset

import (
	"math"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// Provenance tags attached to loaded records
const (
	SourceStandardTable = "jp-standard"
	SourceSimpleCSV     = "simple-csv"
	SourceCustomCSV     = "custom-csv"
)

// Loader parses nutrition source files into a Dataset
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a dataset loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("dataset")}
}

// Load reads the primary file (either schema) and then merges the override
// file (generic schema) on top of it. Any failure degrades to fewer or no
// entries; Load never returns nil.
func (l *Loader) Load(primaryPath, overridePath string) *domain.Dataset {
	m := newMerger()

	if primaryPath != "" {
		l.loadPrimary(m, primaryPath)
	}
	if overridePath != "" && filepath.Clean(overridePath) != filepath.Clean(primaryPath) {
		l.loadGeneric(m, overridePath, SourceCustomCSV)
	}

	ds := m.dataset()
	l.logger.Info("dataset loaded",
		zap.String("primary", primaryPath),
		zap.String("override", overridePath),
		zap.Int("entries", ds.Len()),
	)
	return ds
}

func (l *Loader) loadPrimary(m *merger, path string) {
	content, encoding, err := readText(path)
	if err != nil {
		l.logger.Warn("primary dataset unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	if encoding != "utf-8" {
		l.logger.Debug("decoded with fallback encoding", zap.String("path", path), zap.String("encoding", encoding))
	}

	if !isCodedSchema(content) {
		l.mergeGeneric(m, path, content, SourceSimpleCSV)
		return
	}

	rows, err := parseCoded(content)
	if err != nil {
		l.logger.Warn("coded dataset unreadable", zap.String("path", path), zap.Error(err))
		return
	}
	for _, r := range rows {
		m.addBase(r.name, domain.NutrientRecord{
			Per:    domain.BasisPer100g,
			Macros: macrosOf(r.macros),
			Source: SourceStandardTable,
		})
	}
}

func (l *Loader) loadGeneric(m *merger, path, sourceTag string) {
	content, _, err := readText(path)
	if err != nil {
		l.logger.Debug("override dataset unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	l.mergeGeneric(m, path, content, sourceTag)
}

func (l *Loader) mergeGeneric(m *merger, path, content, sourceTag string) {
	rows, err := parseGeneric(content)
	if err != nil {
		l.logger.Warn("generic dataset unreadable", zap.String("path", path), zap.Error(err))
		return
	}
	for _, r := range rows {
		m.addGeneric(r, sourceTag)
	}
}

// merger accumulates entries in first-seen order. Base macros are fixed by
// the first row that establishes them; later rows may only add per-unit
// data or a missing source tag.
type merger struct {
	entries []domain.CanonicalFoodEntry
	byName  map[string]int
}

func newMerger() *merger {
	return &merger{byName: make(map[string]int)}
}

func (m *merger) lookup(name string) *domain.NutrientRecord {
	if i, ok := m.byName[name]; ok {
		return &m.entries[i].Record
	}
	return nil
}

func (m *merger) addBase(name string, rec domain.NutrientRecord) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if existing := m.lookup(name); existing != nil {
		if existing.Source == "" {
			existing.Source = rec.Source
		}
		return
	}
	m.byName[name] = len(m.entries)
	m.entries = append(m.entries, domain.CanonicalFoodEntry{Name: name, Record: rec})
}

func (m *merger) addGeneric(r genericRow, sourceTag string) {
	name := strings.TrimSpace(r.name)
	if name == "" {
		return
	}
	nutrients := macrosOf(r.macros)
	existing := m.lookup(name)

	if !r.hasPerUnit() {
		per := domain.BasisPer100g
		if r.per == string(domain.BasisPer100ml) {
			per = domain.BasisPer100ml
		}
		m.addBase(name, domain.NutrientRecord{Per: per, Macros: nutrients, Source: sourceTag})
		return
	}

	var grams float64
	switch {
	case r.perUnitGrams != nil:
		grams = *r.perUnitGrams
	case existing != nil:
		if g, ok := derivePerUnitGrams(*existing, nutrients); ok {
			grams = g
		}
	}
	if grams <= 0 {
		grams = 100
	}

	unit := &domain.PerUnit{Grams: grams, Label: r.unitLabel, Nutrients: &nutrients}

	if existing == nil {
		scale := 100 / grams
		m.addBase(name, domain.NutrientRecord{
			Per:     domain.BasisPer100g,
			Macros:  roundMacros(nutrients.Scale(scale), 4),
			Source:  sourceTag,
			PerUnit: unit,
		})
		return
	}

	if existing.Source == "" {
		existing.Source = sourceTag
	}
	if existing.PerUnit != nil && unit.Label == "" {
		unit.Label = existing.PerUnit.Label
	}
	existing.PerUnit = unit
}

func (m *merger) dataset() *domain.Dataset {
	ds := &domain.Dataset{
		Entries: m.entries,
		Index:   make([]string, len(m.entries)),
	}
	for i, e := range m.entries {
		ds.Index[i] = foodname.NormalizeKey(e.Name)
	}
	return ds
}

// derivePerUnitGrams estimates the weight of one unit from the average ratio
// of per-unit to per-100g values. Only a 100g baseline qualifies.
func derivePerUnitGrams(base domain.NutrientRecord, unit domain.Macros) (float64, bool) {
	if base.Per != domain.BasisPer100g {
		return 0, false
	}
	pairs := [][2]float64{
		{base.Macros.Calories, unit.Calories},
		{base.Macros.ProteinG, unit.ProteinG},
		{base.Macros.FatG, unit.FatG},
		{base.Macros.CarbsG, unit.CarbsG},
	}
	var sum float64
	var n int
	for _, p := range pairs {
		if p[0] != 0 && p[1] != 0 {
			sum += p[1] / p[0]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	ratio := math.Max(sum/float64(n), 0.01)
	return roundTo(ratio*100, 1), true
}

func macrosOf(v [4]float64) domain.Macros {
	return domain.Macros{Calories: v[0], ProteinG: v[1], FatG: v[2], CarbsG: v[3]}
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
