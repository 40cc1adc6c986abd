// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package util

// Traversal defines a basic interface to perform traversals.
type Traversal[T comparable] interface {

	// Edges should return the neighbours of node u.
	Edges(u T) []T

	// Visited should return true if node u has already been visited in this
	// traversal. If the traversal does not track visited nodes, this can
	// return false and the traversal may visit nodes multiple times.
	Visited(u T) bool
}

// Iter should return true to indicate stop.
type Iter[T comparable] func(T) bool

// DFS performs a depth first traversal calling f for each node starting from
// u. If f returns true, traversal stops and DFS returns true.
func DFS[T comparable](t Traversal[T], f Iter[T], u T) bool {
	lifo := newQueue[T]()
	lifo.Push(u)
	for lifo.Len() > 0 {
		next := lifo.Pop()
		if t.Visited(next) {
			continue
		}
		if f(next) {
			return true
		}
		for _, v := range t.Edges(next) {
			lifo.Push(v)
		}
	}
	return false
}

// BFS performs a breadth first traversal calling f for each node starting
// from u. If f returns true, traversal stops and BFS returns true.
func BFS[T comparable](t Traversal[T], f Iter[T], u T) bool {
	fifo := newQueue[T]()
	fifo.Push(u)
	for fifo.Len() > 0 {
		next := fifo.Shift()
		if t.Visited(next) {
			continue
		}
		if f(next) {
			return true
		}
		for _, v := range t.Edges(next) {
			fifo.Push(v)
		}
	}
	return false
}

type queue[T any] struct {
	elems []T
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{}
}

func (q *queue[T]) Push(x T) { q.elems = append(q.elems, x) }
func (q *queue[T]) Len() int { return len(q.elems) }

func (q *queue[T]) Pop() T {
	x := q.elems[len(q.elems)-1]
	q.elems = q.elems[:len(q.elems)-1]
	return x
}

func (q *queue[T]) Shift() T {
	x := q.elems[0]
	q.elems = q.elems[1:]
	return x
}
