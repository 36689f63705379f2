package attr

import (
	"reflect"
	"sort"
)

// Reader is a read-only view of component state. Render functions receive a
// Reader so they cannot write state while producing output.
type Reader interface {
	Get(key string) (any, bool)
	String(key string) string
	Int(key string) int
	Float(key string) float64
	Bool(key string) bool
	Keys() []string
	Snapshot() map[string]any
}

// State is the mutable record owned by one component instance: coerced
// attribute values plus any derived keys written by hooks or handlers.
//
// State is not safe for concurrent use.
type State struct {
	keys     []string
	values   map[string]any
	onChange func(key string)
}

// NewState creates an empty state record.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// OnChange sets the function called after every effective write.
func (s *State) OnChange(fn func(key string)) {
	s.onChange = fn
}

// Set writes key. Writing a value equal to the current one is a no-op.
// Reports whether the state changed.
func (s *State) Set(key string, value any) bool {
	old, exists := s.values[key]
	if exists && reflect.DeepEqual(old, value) {
		return false
	}
	if !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value

	if s.onChange != nil {
		s.onChange(key)
	}
	return true
}

// Update replaces key with fn(current). current is nil when key is unset.
func (s *State) Update(key string, fn func(current any) any) bool {
	return s.Set(key, fn(s.values[key]))
}

// Add adds delta to an integer key.
func (s *State) Add(key string, delta int) bool {
	return s.Set(key, s.Int(key)+delta)
}

// Toggle flips a boolean key and returns the new value.
func (s *State) Toggle(key string) bool {
	v := !s.Bool(key)
	s.Set(key, v)
	return v
}

// Merge writes every entry of values in the schema's declaration order, so
// change notifications are deterministic.
func (s *State) Merge(schema Schema, values Values) {
	for _, spec := range schema {
		if v, ok := values[spec.Name]; ok {
			s.Set(spec.Name, v)
		}
	}
}

// Get returns the raw value for key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns key as a string, or "" when unset or not a string.
func (s *State) String(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// Int returns key as an int. Floats are truncated.
func (s *State) Int(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns key as a float64.
func (s *State) Float(key string) float64 {
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns key as a bool.
func (s *State) Bool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// Keys returns the keys in first-write order.
func (s *State) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Snapshot returns a shallow copy of the state.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// SortedKeys returns the keys in lexical order.
func (s *State) SortedKeys() []string {
	keys := s.Keys()
	sort.Strings(keys)
	return keys
}

// Reader returns a read-only view of s.
func (s *State) Reader() Reader {
	return readOnly{s: s}
}

type readOnly struct {
	s *State
}

func (r readOnly) Get(key string) (any, bool) { return r.s.Get(key) }
func (r readOnly) String(key string) string   { return r.s.String(key) }
func (r readOnly) Int(key string) int         { return r.s.Int(key) }
func (r readOnly) Float(key string) float64   { return r.s.Float(key) }
func (r readOnly) Bool(key string) bool       { return r.s.Bool(key) }
func (r readOnly) Keys() []string             { return r.s.Keys() }
func (r readOnly) Snapshot() map[string]any   { return r.s.Snapshot() }
