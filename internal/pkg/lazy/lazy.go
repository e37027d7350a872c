// Package lazy provides a process-wide value that is built on first use,
// read without locking afterwards and rebuilt only on an explicit Reload.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Value holds a lazily built, read-only value of type T
type Value[T any] struct {
	build func() T

	mu      sync.Mutex
	current atomic.Pointer[T]
}

// New creates a Value that calls build on first Get
func New[T any](build func() T) *Value[T] {
	return &Value[T]{build: build}
}

// Get returns the value, building it on the first call. Concurrent first
// callers wait for a single build.
func (v *Value[T]) Get() T {
	if p := v.current.Load(); p != nil {
		return *p
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if p := v.current.Load(); p != nil {
		return *p
	}
	built := v.build()
	v.current.Store(&built)
	return built
}

// Reload rebuilds the value and swaps it in. Readers holding the previous
// value keep using it unchanged.
func (v *Value[T]) Reload() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	built := v.build()
	v.current.Store(&built)
	return built
}

// Loaded reports whether the value has been built
func (v *Value[T]) Loaded() bool {
	return v.current.Load() != nil
}
