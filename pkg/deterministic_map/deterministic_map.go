// Package deterministicmap provides a map whose iteration order does not
// depend on Go's randomized map iteration, so it can drive state writes.
package deterministicmap

import (
	"cmp"
	"slices"
)

// Map is a map iterated in ascending key order.
type Map[K cmp.Ordered, V any] struct {
	data map[K]V
	keys []K
}

// New creates an empty Map. The zero value is also ready to use.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{data: make(map[K]V)}
}

// Set inserts or replaces the value under key.
func (m *Map[K, V]) Set(key K, value V) {
	if m.data == nil {
		m.data = make(map[K]V)
	}
	if _, exists := m.data[key]; !exists {
		idx, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, idx, key)
	}
	m.data[key] = value
}

// Update replaces the value under key with fn applied to the current value.
// found is false when the key is new, in which case current is the zero value.
func (m *Map[K, V]) Update(key K, fn func(current V, found bool) V) {
	current, found := m.Get(key)
	m.Set(key, fn(current, found))
}

// Get returns the value under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Delete removes key. Missing keys are ignored.
func (m *Map[K, V]) Delete(key K) {
	if _, exists := m.data[key]; !exists {
		return
	}
	delete(m.data, key)
	if idx, found := slices.BinarySearch(m.keys, key); found {
		m.keys = slices.Delete(m.keys, idx, idx+1)
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Range calls fn for every entry in ascending key order until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.data[k]) {
			return
		}
	}
}
