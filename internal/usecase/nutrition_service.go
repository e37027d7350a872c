package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// Calibration constants of the resolution cascade
const (
	DefaultDatasetThreshold = 0.70
	DefaultSuggestionCutoff = 0.6
	DefaultSuggestionLimit  = 3
	DefaultAPITimeout       = 6 * time.Second
	DefaultCacheTTL         = 720 * time.Hour
)

// DatasetSource supplies the current dataset
type DatasetSource interface {
	Dataset() *domain.Dataset
}

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	DatasetThreshold float64
	SuggestionCutoff float64
	SuggestionLimit  int
	APITimeout       time.Duration
	CacheTTL         time.Duration
}

func (c NutritionServiceConfig) withDefaults() NutritionServiceConfig {
	if c.DatasetThreshold <= 0 {
		c.DatasetThreshold = DefaultDatasetThreshold
	}
	if c.SuggestionCutoff <= 0 {
		c.SuggestionCutoff = DefaultSuggestionCutoff
	}
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = DefaultSuggestionLimit
	}
	if c.APITimeout <= 0 {
		c.APITimeout = DefaultAPITimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// NutritionService resolves food names to nutrition records. Local lookups
// (dataset, alias table) always run before the external API; the embedded
// offline table is the last resort.
type NutritionService struct {
	datasets DatasetSource
	aliases  *AliasResolver
	api      domain.NutritionAPI
	cache    domain.CacheRepository
	offline  offlineTable
	config   NutritionServiceConfig
	logger   *zap.Logger

	inflight singleflight.Group
}

// NewNutritionService creates a nutrition service. aliases, api and cache
// may be nil, which skips the corresponding step.
func NewNutritionService(
	datasets DatasetSource,
	aliases *AliasResolver,
	api domain.NutritionAPI,
	cache domain.CacheRepository,
	config NutritionServiceConfig,
	logger *zap.Logger,
) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NutritionService{
		datasets: datasets,
		aliases:  aliases,
		api:      api,
		cache:    cache,
		offline:  newOfflineTable(),
		config:   config.withDefaults(),
		logger:   logger.Named("nutrition"),
	}
}

// Resolve runs the cascade for name. When nothing matches, including a name
// that canonicalizes to nothing, it returns a *domain.NotFoundError carrying
// up to SuggestionLimit dataset names.
func (s *NutritionService) Resolve(ctx context.Context, name string) (*domain.Resolution, error) {
	canonical := foodname.Canonicalize(name)
	if canonical == "" {
		return nil, &domain.NotFoundError{Name: name}
	}

	ds := s.dataset()

	if entry, ok := s.lookupDataset(ds, canonical); ok {
		return resolution(name, entry.Name, entry.Record, domain.SourceDataset), nil
	}

	if s.aliases != nil {
		if target, ok := s.aliases.Resolve(canonical); ok {
			if entry, ok := findByCanonicalName(ds, target); ok {
				return resolution(name, entry.Name, entry.Record, domain.SourceAlias), nil
			}
		}
	}

	if s.api != nil {
		if rec, ok := s.lookupAPI(ctx, canonical); ok {
			return resolution(name, canonical, *rec, domain.SourceFDC), nil
		}
	}

	if matched, rec, ok := s.offline.lookup(canonical); ok {
		return resolution(name, matched, rec, domain.SourceOffline), nil
	}

	s.logger.Debug("food not resolved", zap.String("name", name), zap.String("canonical", canonical))
	return nil, &domain.NotFoundError{Name: name, Suggestions: s.Suggest(name)}
}

// Suggest returns dataset index keys nearest to name, best first
func (s *NutritionService) Suggest(name string) []string {
	ds := s.dataset()
	if ds.Len() == 0 {
		return nil
	}
	key := foodname.NormalizeKey(foodname.Canonicalize(name))
	if key == "" {
		return nil
	}
	scored := foodname.Closest(key, ds.Index, s.config.SuggestionCutoff, s.config.SuggestionLimit)
	out := make([]string, len(scored))
	for i, sc := range scored {
		out[i] = sc.Value
	}
	return out
}

func (s *NutritionService) dataset() *domain.Dataset {
	if s.datasets == nil {
		return &domain.Dataset{}
	}
	if ds := s.datasets.Dataset(); ds != nil {
		return ds
	}
	return &domain.Dataset{}
}

// lookupDataset tries an exact key match, then containment in either
// direction, then the best composite similarity above the threshold.
func (s *NutritionService) lookupDataset(ds *domain.Dataset, canonical string) (domain.CanonicalFoodEntry, bool) {
	key := foodname.NormalizeKey(canonical)
	if key == "" || ds.Len() == 0 {
		return domain.CanonicalFoodEntry{}, false
	}

	for i, k := range ds.Index {
		if k == key {
			return ds.Entries[i], true
		}
	}
	for i, k := range ds.Index {
		if k != "" && (strings.Contains(key, k) || strings.Contains(k, key)) {
			return ds.Entries[i], true
		}
	}

	best, bestScore := -1, 0.0
	for i, k := range ds.Index {
		if sc := foodname.Similarity(key, k); sc > bestScore {
			best, bestScore = i, sc
		}
	}
	if best >= 0 && bestScore >= s.config.DatasetThreshold {
		return ds.Entries[best], true
	}
	return domain.CanonicalFoodEntry{}, false
}

func findByCanonicalName(ds *domain.Dataset, name string) (domain.CanonicalFoodEntry, bool) {
	want := foodname.NormalizeKey(foodname.Canonicalize(name))
	for _, e := range ds.Entries {
		if foodname.NormalizeKey(foodname.Canonicalize(e.Name)) == want {
			return e, true
		}
	}
	return domain.CanonicalFoodEntry{}, false
}

// lookupAPI queries the external API under a fixed timeout. Identical
// concurrent lookups share one request. Every failure reads as not found.
func (s *NutritionService) lookupAPI(ctx context.Context, canonical string) (*domain.NutrientRecord, bool) {
	cacheKey := "fdc:" + foodname.NormalizeKey(canonical)

	if rec, ok := s.getFromCache(ctx, cacheKey); ok {
		return rec, true
	}

	v, err, _ := s.inflight.Do(cacheKey, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.APITimeout)
		defer cancel()
		return s.api.LookupFood(callCtx, canonical)
	})
	if err != nil {
		if errors.Is(err, domain.ErrFoodNotFound) {
			s.logger.Debug("api has no match", zap.String("name", canonical))
		} else {
			s.logger.Warn("api lookup failed", zap.String("name", canonical), zap.Error(err))
		}
		return nil, false
	}
	rec, _ := v.(*domain.NutrientRecord)
	if rec == nil {
		return nil, false
	}

	s.setInCache(ctx, cacheKey, rec)
	return rec, true
}

func (s *NutritionService) getFromCache(ctx context.Context, key string) (*domain.NutrientRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var rec domain.NutrientRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Debug("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &rec, true
}

// setInCache stores a record; failures are logged and ignored
func (s *NutritionService) setInCache(ctx context.Context, key string, rec *domain.NutrientRecord) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL); err != nil {
		s.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// resolution retags a copy of rec with the cascade step that found it and
// keeps the loader's provenance as Origin.
func resolution(query, matched string, rec domain.NutrientRecord, source string) *domain.Resolution {
	out := rec.Clone()
	origin := out.Source
	out.Source = source
	return &domain.Resolution{
		Query:       query,
		MatchedName: matched,
		Record:      out,
		Origin:      origin,
	}
}
