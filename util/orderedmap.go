// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"strings"

	"github.com/halcyondb/halcyon/serrors"
)

// OrderedMap is an insertion-ordered mapping with an optional per-value
// check run on every Set. Key iteration order is first-insertion order;
// overwriting a value keeps the key's original position.
type OrderedMap[K comparable, V any] struct {
	check func(K, V) *serrors.Error
	index map[K]int
	keys  []K
	vals  []V
}

// NewOrderedMap returns an empty OrderedMap. A nil check admits every
// value.
func NewOrderedMap[K comparable, V any](check func(K, V) *serrors.Error) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		check: check,
		index: map[K]int{},
	}
}

// Set stores v under k. Set fails if the value check rejects the pair; the
// map is left unchanged in that case.
func (m *OrderedMap[K, V]) Set(k K, v V) *serrors.Error {
	if m.check != nil {
		if err := m.check(k, v); err != nil {
			return err
		}
	}
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return nil
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return nil
}

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Contains returns true if k is present.
func (m *OrderedMap[K, V]) Contains(k K) bool {
	_, ok := m.index[k]
	return ok
}

// Delete removes k if present. Positions of the remaining keys are
// preserved.
func (m *OrderedMap[K, V]) Delete(k K) {
	i, ok := m.index[k]
	if !ok {
		return
	}
	delete(m.index, k)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, len(m.vals))
	copy(out, m.vals)
	return out
}

// Iter calls f for each entry in insertion order until f returns true.
// Iter returns true if iteration was stopped early.
func (m *OrderedMap[K, V]) Iter(f func(K, V) bool) bool {
	for i, k := range m.keys {
		if f(k, m.vals[i]) {
			return true
		}
	}
	return false
}

// Copy returns a shallow copy of this map.
func (m *OrderedMap[K, V]) Copy() *OrderedMap[K, V] {
	cpy := NewOrderedMap[K, V](m.check)
	for i, k := range m.keys {
		cpy.index[k] = i
	}
	cpy.keys = append(cpy.keys, m.keys...)
	cpy.vals = append(cpy.vals, m.vals...)
	return cpy
}

// Equal returns true if both maps hold equal keys in the same order and eq
// reports every value pair equal.
func (m *OrderedMap[K, V]) Equal(other *OrderedMap[K, V], eq func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
		if !eq(m.vals[i], other.vals[i]) {
			return false
		}
	}
	return true
}

func (m *OrderedMap[K, V]) String() string {
	parts := make([]string, 0, len(m.keys))
	for i, k := range m.keys {
		parts = append(parts, fmt.Sprintf("%v: %v", k, m.vals[i]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
