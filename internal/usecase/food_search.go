package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// Default result sizes of the food lookup endpoints
const (
	DefaultSearchLimit       = 20
	DefaultAutocompleteLimit = 8
	autocompleteCutoff       = 0.6
)

// Match priorities of a substring search, best first
const (
	matchExact = iota
	matchPrefix
	matchInfix
)

type searchHit struct {
	priority int
	pos      int
	length   int
	idx      int
}

// Search returns dataset entries whose key contains the query key. Exact
// matches rank first, then prefixes, then the rest; ties go to the earlier
// match position, the shorter name and finally dataset order.
func (s *NutritionService) Search(query string, limit int) []domain.FoodSearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	key := foodname.NormalizeKey(query)
	ds := s.dataset()
	if key == "" || ds.Len() == 0 {
		return nil
	}

	var hits []searchHit
	for i, k := range ds.Index {
		at := strings.Index(k, key)
		if at < 0 {
			continue
		}
		hit := searchHit{
			priority: matchInfix,
			pos:      utf8.RuneCountInString(k[:at]),
			length:   utf8.RuneCountInString(k),
			idx:      i,
		}
		switch {
		case k == key:
			hit.priority = matchExact
		case at == 0:
			hit.priority = matchPrefix
		}
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		if a.length != b.length {
			return a.length < b.length
		}
		return a.idx < b.idx
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.FoodSearchResult, len(hits))
	for i, h := range hits {
		e := ds.Entries[h.idx]
		out[i] = domain.FoodSearchResult{Name: e.Name, Per: e.Record.Per, Macros: e.Record.Macros}
	}
	s.logger.Debug("food search", zap.String("query", query), zap.Int("hits", len(out)))
	return out
}

// Autocomplete suggests names for a partial query: alias table entries
// containing it first, then dataset names containing it, then fuzzy
// matches from the dataset index. Each name appears once.
func (s *NutritionService) Autocomplete(query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultAutocompleteLimit
	}
	key := foodname.NormalizeKey(foodname.Canonicalize(query))
	if key == "" {
		return nil
	}

	names := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	add := func(name string) bool {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return len(names) >= limit
	}

	if s.aliases != nil {
		for _, alias := range s.aliases.AliasesContaining(key, limit) {
			if add(alias) {
				return names
			}
		}
	}

	ds := s.dataset()
	for i, k := range ds.Index {
		if strings.Contains(k, key) && add(ds.Entries[i].Name) {
			return names
		}
	}

	for _, sc := range foodname.Closest(key, ds.Index, autocompleteCutoff, limit) {
		if add(sc.Value) {
			break
		}
	}
	return names
}
