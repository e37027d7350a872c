package dataset

import (
	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/lazy"
)

// Store is the process-wide dataset cache. The files are read on first use
// and the result is shared read-only until Reload.
type Store struct {
	value *lazy.Value[*domain.Dataset]
}

// NewStore creates a store that loads primaryPath and overridePath on demand
func NewStore(loader *Loader, primaryPath, overridePath string) *Store {
	return &Store{
		value: lazy.New(func() *domain.Dataset {
			return loader.Load(primaryPath, overridePath)
		}),
	}
}

// NewStaticStore wraps an already built dataset
func NewStaticStore(ds *domain.Dataset) *Store {
	if ds == nil {
		ds = &domain.Dataset{}
	}
	return &Store{value: lazy.New(func() *domain.Dataset { return ds })}
}

// Dataset returns the cached dataset, loading it on first call
func (s *Store) Dataset() *domain.Dataset {
	return s.value.Get()
}

// Reload rereads the source files and swaps the cached dataset
func (s *Store) Reload() *domain.Dataset {
	return s.value.Reload()
}
