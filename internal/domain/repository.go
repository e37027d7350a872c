package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NutritionAPI looks a food up in an external nutrition database.
// Implementations return ErrFoodNotFound when the API has no match.
type NutritionAPI interface {
	LookupFood(ctx context.Context, name string) (*NutrientRecord, error)
}

// ItemParser extracts food items from free text (LLM-backed fallback parser)
type ItemParser interface {
	ParseItems(ctx context.Context, text string) ([]ParsedItem, error)
}

// NameNormalizer maps a free-form food name to a canonical spelling
type NameNormalizer interface {
	NormalizeName(ctx context.Context, name string) (string, error)
}
