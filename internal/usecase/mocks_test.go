package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	sets     int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockNutritionAPI is a mock implementation of domain.NutritionAPI
type MockNutritionAPI struct {
	mu     sync.Mutex
	record *domain.NutrientRecord
	err    error
	calls  int
}

func (m *MockNutritionAPI) LookupFood(ctx context.Context, name string) (*domain.NutrientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		return nil, domain.ErrFoodNotFound
	}
	rec := *m.record
	return &rec, nil
}

// MockItemParser is a mock implementation of domain.ItemParser
type MockItemParser struct {
	items []domain.ParsedItem
	err   error
	calls int
}

func (m *MockItemParser) ParseItems(ctx context.Context, text string) ([]domain.ParsedItem, error) {
	m.calls++
	return m.items, m.err
}

// MockNameNormalizer is a mock implementation of domain.NameNormalizer
type MockNameNormalizer struct {
	names map[string]string
	err   error
	calls int
}

func (m *MockNameNormalizer) NormalizeName(ctx context.Context, name string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.names[name], nil
}

type staticDatasets struct {
	ds *domain.Dataset
}

func (s staticDatasets) Dataset() *domain.Dataset { return s.ds }

type staticAliases struct {
	table *domain.AliasTable
}

func (s staticAliases) Table() *domain.AliasTable { return s.table }

func testDataset(entries ...domain.CanonicalFoodEntry) *domain.Dataset {
	ds := &domain.Dataset{Entries: entries, Index: make([]string, len(entries))}
	for i, e := range entries {
		ds.Index[i] = foodname.NormalizeKey(e.Name)
	}
	return ds
}

func entry(name string, kcal, protein, fat, carbs float64) domain.CanonicalFoodEntry {
	return domain.CanonicalFoodEntry{
		Name: name,
		Record: domain.NutrientRecord{
			Per:    domain.BasisPer100g,
			Macros: domain.Macros{Calories: kcal, ProteinG: protein, FatG: fat, CarbsG: carbs},
			Source: "simple-csv",
		},
	}
}
