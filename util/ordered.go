// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package util provides the checked, insertion-ordered collections the
// schema graph is built out of, plus generic graph traversal helpers.
package util

import (
	"strings"

	"github.com/halcyondb/halcyon/serrors"
)

// Check validates a value before it is admitted into a checked collection.
// It runs on every mutation, not only at construction, because the schema
// graph mutates its collections incrementally while it is being built. A
// non-nil return aborts the mutation; the collection is left unchanged.
type Check[T any] func(T) *serrors.Error

// OrderedSet is an insertion-ordered set. Elements are deduplicated by the
// key function and iterated in first-insertion order, which makes two
// structurally equal sets iterate identically.
type OrderedSet[T any] struct {
	key   func(T) string
	check Check[T]
	index map[string]int
	elems []T
}

// NewOrderedSet returns an empty OrderedSet keyed by key. A nil check
// admits every element.
func NewOrderedSet[T any](key func(T) string, check Check[T]) *OrderedSet[T] {
	return &OrderedSet[T]{
		key:   key,
		check: check,
		index: map[string]int{},
	}
}

// Add inserts x. Re-adding an element with an existing key replaces the
// stored element but keeps its original position. Add fails if the
// element check rejects x.
func (s *OrderedSet[T]) Add(x T) *serrors.Error {
	if s.check != nil {
		if err := s.check(x); err != nil {
			return err
		}
	}
	k := s.key(x)
	if i, ok := s.index[k]; ok {
		s.elems[i] = x
		return nil
	}
	s.index[k] = len(s.elems)
	s.elems = append(s.elems, x)
	return nil
}

// Contains returns true if an element with x's key is present.
func (s *OrderedSet[T]) Contains(x T) bool {
	_, ok := s.index[s.key(x)]
	return ok
}

// ContainsKey returns true if an element with key k is present.
func (s *OrderedSet[T]) ContainsKey(k string) bool {
	_, ok := s.index[k]
	return ok
}

// Get returns the element stored under key k.
func (s *OrderedSet[T]) Get(k string) (T, bool) {
	if i, ok := s.index[k]; ok {
		return s.elems[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of elements.
func (s *OrderedSet[T]) Len() int {
	return len(s.elems)
}

// Slice returns the elements in insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *OrderedSet[T]) Slice() []T {
	out := make([]T, len(s.elems))
	copy(out, s.elems)
	return out
}

// Iter calls f for each element in insertion order until f returns true.
// Iter returns true if iteration was stopped early.
func (s *OrderedSet[T]) Iter(f func(T) bool) bool {
	for _, x := range s.elems {
		if f(x) {
			return true
		}
	}
	return false
}

// Copy returns a shallow copy of this set.
func (s *OrderedSet[T]) Copy() *OrderedSet[T] {
	cpy := NewOrderedSet(s.key, s.check)
	for _, x := range s.elems {
		cpy.index[s.key(x)] = len(cpy.elems)
		cpy.elems = append(cpy.elems, x)
	}
	return cpy
}

// Equal returns true if both sets contain the same keys in the same order.
func (s *OrderedSet[T]) Equal(other *OrderedSet[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, x := range s.elems {
		if s.key(x) != other.key(other.elems[i]) {
			return false
		}
	}
	return true
}

func (s *OrderedSet[T]) String() string {
	keys := make([]string, 0, len(s.elems))
	for _, x := range s.elems {
		keys = append(keys, s.key(x))
	}
	return "{" + strings.Join(keys, ", ") + "}"
}
