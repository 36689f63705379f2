package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateTag is matched by errors.Is for every *DuplicateTagError.
var ErrDuplicateTag = errors.New("registry: tag already registered")

// ErrNotFound is returned by Resolve when no entry exists for a name.
var ErrNotFound = errors.New("registry: tag not found")

// DuplicateTagError reports a second registration under an existing name.
type DuplicateTagError struct {
	Tag string
}

// Error implements the error interface.
func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("registry: tag %q already registered", e.Tag)
}

// Is reports whether target is ErrDuplicateTag.
func (e *DuplicateTagError) Is(target error) bool {
	return target == ErrDuplicateTag
}

// Registry is a write-once table keyed by tag name. Entries are never
// removed or replaced. Names are case-folded to lowercase because markup
// tag names are case-insensitive.
//
// The zero value is not usable; call New.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Normalize returns the canonical form of a tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register stores v under name. It fails with *DuplicateTagError if the name
// is already taken; the existing entry is left untouched.
func (r *Registry[T]) Register(name string, v T) error {
	key := Normalize(name)
	if key == "" {
		return errors.New("registry: empty tag name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return &DuplicateTagError{Tag: key}
	}
	r.entries[key] = v
	return nil
}

// MustRegister is like Register but panics on error. Intended for
// registration from init functions.
func (r *Registry[T]) MustRegister(name string, v T) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

// Resolve returns the entry for name or ErrNotFound.
func (r *Registry[T]) Resolve(name string) (T, error) {
	r.mu.RLock()
	v, ok := r.entries[Normalize(name)]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrNotFound, Normalize(name))
	}
	return v, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[Normalize(name)]
	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
