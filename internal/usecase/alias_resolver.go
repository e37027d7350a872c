package usecase

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// DefaultAliasThreshold is the minimum composite similarity for a fuzzy alias hit
const DefaultAliasThreshold = 0.68

// AliasTableSource supplies the current alias table
type AliasTableSource interface {
	Table() *domain.AliasTable
}

type aliasKeyEntry struct {
	key       string
	canonical string
}

// aliasIndex is the alias table keyed by AliasKey, in table order
type aliasIndex struct {
	table   *domain.AliasTable
	exact   map[string]string
	ordered []aliasKeyEntry
}

func newAliasIndex(table *domain.AliasTable) *aliasIndex {
	idx := &aliasIndex{table: table, exact: make(map[string]string, table.Len())}
	for _, alias := range table.Aliases() {
		key := foodname.AliasKey(alias)
		if key == "" {
			continue
		}
		if _, dup := idx.exact[key]; dup {
			continue
		}
		canonical, _ := table.Lookup(alias)
		idx.exact[key] = canonical
		idx.ordered = append(idx.ordered, aliasKeyEntry{key: key, canonical: canonical})
	}
	return idx
}

// AliasResolver maps raw names onto canonical names through the alias table
type AliasResolver struct {
	source    AliasTableSource
	threshold float64
	logger    *zap.Logger

	mu    sync.Mutex
	index *aliasIndex
}

// NewAliasResolver creates an alias resolver. A zero threshold selects
// DefaultAliasThreshold.
func NewAliasResolver(source AliasTableSource, threshold float64, logger *zap.Logger) *AliasResolver {
	if threshold <= 0 {
		threshold = DefaultAliasThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AliasResolver{source: source, threshold: threshold, logger: logger.Named("alias_resolver")}
}

// currentIndex returns the key index for the source's current table,
// rebuilding it when the table was reloaded.
func (r *AliasResolver) currentIndex() *aliasIndex {
	if r.source == nil {
		return nil
	}
	table := r.source.Table()
	if table == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil || r.index.table != table {
		r.index = newAliasIndex(table)
		r.logger.Debug("alias index built", zap.Int("keys", len(r.index.ordered)))
	}
	return r.index
}

// Resolve returns the canonical name for name: exact key match first, then
// containment in either direction, then the most similar key scoring at
// least the threshold.
func (r *AliasResolver) Resolve(name string) (string, bool) {
	key := foodname.AliasKey(name)
	if key == "" {
		return "", false
	}
	idx := r.currentIndex()
	if idx == nil || len(idx.ordered) == 0 {
		return "", false
	}

	if canonical, ok := idx.exact[key]; ok {
		return canonical, true
	}

	for _, e := range idx.ordered {
		if strings.Contains(key, e.key) || strings.Contains(e.key, key) {
			return e.canonical, true
		}
	}

	best, bestScore := "", 0.0
	for _, e := range idx.ordered {
		if sc := foodname.Similarity(key, e.key); sc > bestScore {
			best, bestScore = e.canonical, sc
		}
	}
	if best != "" && bestScore >= r.threshold {
		return best, true
	}
	return "", false
}

// AliasesContaining returns up to limit aliases, in table order, whose
// NormalizeKey contains key.
func (r *AliasResolver) AliasesContaining(key string, limit int) []string {
	if key == "" || limit <= 0 {
		return nil
	}
	idx := r.currentIndex()
	if idx == nil {
		return nil
	}
	var out []string
	for _, alias := range idx.table.Aliases() {
		if strings.Contains(foodname.NormalizeKey(alias), key) {
			out = append(out, alias)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
