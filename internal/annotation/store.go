package annotation

import (
	"sort"
	"strings"
)

// Key addresses one annotation.
type Key struct {
	Namespace string
	Category  string
	Name      string
}

// NewKey builds a Key from its three parts.
func NewKey(namespace, category, name string) Key {
	return Key{Namespace: namespace, Category: category, Name: name}
}

// ParseKey splits "ns:cat:name", "cat:name" or "name". Empty parts stay empty.
func ParseKey(s string) Key {
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 1:
		return Key{Name: parts[0]}
	case 2:
		return Key{Category: parts[0], Name: parts[1]}
	default:
		return Key{Namespace: parts[0], Category: parts[1], Name: parts[2]}
	}
}

// String renders the key as "ns:cat:name".
func (k Key) String() string {
	return k.Namespace + ":" + k.Category + ":" + k.Name
}

type entry struct {
	value     any
	origin    int
	hasOrigin bool
}

// Store holds annotations. The zero value is ready to use.
type Store struct {
	entries map[Key]entry
}

// Set stores value under k, dropping any recorded origin.
func (s *Store) Set(k Key, value any) {
	if s.entries == nil {
		s.entries = make(map[Key]entry)
	}
	s.entries[k] = entry{value: value}
}

// SetWithOrigin stores value and the index of the element it came from.
func (s *Store) SetWithOrigin(k Key, value any, origin int) {
	if s.entries == nil {
		s.entries = make(map[Key]entry)
	}
	s.entries[k] = entry{value: value, origin: origin, hasOrigin: true}
}

// Value returns the raw value stored under k.
func (s *Store) Value(k Key) (any, bool) {
	if s == nil || s.entries == nil {
		return nil, false
	}
	e, ok := s.entries[k]
	return e.value, ok
}

// Has reports whether k is present.
func (s *Store) Has(k Key) bool {
	_, ok := s.Value(k)
	return ok
}

// Origin returns the origin recorded with k, if any.
func (s *Store) Origin(k Key) (int, bool) {
	if s == nil || s.entries == nil {
		return 0, false
	}
	e, ok := s.entries[k]
	if !ok || !e.hasOrigin {
		return 0, false
	}
	return e.origin, true
}

// Delete removes k.
func (s *Store) Delete(k Key) {
	if s == nil || s.entries == nil {
		return
	}
	delete(s.entries, k)
}

// DeleteNamespace removes every key in the namespace.
func (s *Store) DeleteNamespace(namespace string) {
	if s == nil {
		return
	}
	for k := range s.entries {
		if k.Namespace == namespace {
			delete(s.entries, k)
		}
	}
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns every key in sorted order.
func (s *Store) Keys() []Key {
	return s.keys(func(Key) bool { return true })
}

// KeysIn returns the sorted keys of one namespace and category.
func (s *Store) KeysIn(namespace, category string) []Key {
	return s.keys(func(k Key) bool {
		return k.Namespace == namespace && k.Category == category
	})
}

func (s *Store) keys(keep func(Key) bool) []Key {
	if s == nil || len(s.entries) == 0 {
		return nil
	}
	out := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		if keep(k) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Get returns the value under k when it holds a T.
func Get[T any](s *Store, k Key) (T, bool) {
	var zero T
	raw, ok := s.Value(k)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetOr returns the value under k, or fallback when it is missing or has a
// different type.
func GetOr[T any](s *Store, k Key, fallback T) T {
	if v, ok := Get[T](s, k); ok {
		return v
	}
	return fallback
}

// TypedKey is a Key whose value always has type T. Storing and reading
// through a TypedKey is checked at compile time.
type TypedKey[T any] struct {
	Key
}

// NewTypedKey builds a TypedKey from its three parts.
func NewTypedKey[T any](namespace, category, name string) TypedKey[T] {
	return TypedKey[T]{Key: NewKey(namespace, category, name)}
}

// Put stores value under k.
func Put[T any](s *Store, k TypedKey[T], value T) {
	s.Set(k.Key, value)
}

// PutWithOrigin stores value under k with the index of the element it came
// from.
func PutWithOrigin[T any](s *Store, k TypedKey[T], value T, origin int) {
	s.SetWithOrigin(k.Key, value, origin)
}

// Lookup returns the value under k. A value stored under the same Key with a
// different type through Set reads as missing.
func Lookup[T any](s *Store, k TypedKey[T]) (T, bool) {
	return Get[T](s, k.Key)
}
