// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ordering linearizes schema objects and schema operations into a
// valid application order. Dependency edges are computed from structure,
// never authored, and the produced order is deterministic: ties between
// independent items break on declaration order.
package ordering

import (
	"sort"
	"strings"

	"github.com/halcyondb/halcyon/serrors"
)

// Dep is a single dependency edge: the item depends on Key. A deferrable
// edge may be broken by splitting the depending item into a declare stub
// and a completion step; a hard edge (inheritance and the like) may not.
type Dep struct {
	Key        string
	Deferrable bool
}

// Item is one node of a dependency batch.
type Item struct {
	Key string

	// DeclOrder is the stable secondary sort key. Items with no ordering
	// constraint between them come out in declaration order.
	DeclOrder int

	DependsOn []Dep
}

// Split records that an item's deferrable dependencies were cut to break a
// cycle. The caller must emit the item without the deferred parts and a
// completion step after the deferred targets exist.
type Split struct {
	Key      string
	Deferred []string
}

// Result is a valid linearization of a batch.
type Result struct {
	Order  []string
	Splits []Split
}

// Sort computes a total order over the batch such that every dependency
// precedes its dependents. Cycles that contain a deferrable edge are broken
// by recording a Split; a cycle of hard edges only fails with
// CyclicDependency naming the members.
func Sort(items []Item) (*Result, *serrors.Error) {
	g := newGraph(items)
	res := &Result{}

	for g.remaining() > 0 {
		if key, ok := g.takeReady(); ok {
			res.Order = append(res.Order, key)
			continue
		}

		// Every remaining item waits on another remaining item; a cycle
		// exists. Break it at a deferrable edge if one is available.
		cycle := g.findCycle()
		split, ok := g.breakCycle(cycle)
		if !ok {
			return nil, cycleError(cycle)
		}
		res.Splits = append(res.Splits, split)
	}

	return res, nil
}

func cycleError(cycle []string) *serrors.Error {
	return serrors.NewError(serrors.CyclicDependencyErr, nil,
		"dependency cycle: %s", strings.Join(cycle, " -> ")).
		WithDetail("members", cycle)
}

type graph struct {
	items    map[string]*Item
	pending  map[string]map[string]bool // key -> unmet dep keys
	deferred map[string][]string
	order    map[string]int
}

func newGraph(items []Item) *graph {
	g := &graph{
		items:    map[string]*Item{},
		pending:  map[string]map[string]bool{},
		deferred: map[string][]string{},
		order:    map[string]int{},
	}
	for i := range items {
		it := items[i]
		g.items[it.Key] = &it
		g.order[it.Key] = it.DeclOrder
		deps := map[string]bool{}
		for _, d := range it.DependsOn {
			// Edges to items outside the batch are satisfied by the base
			// schema; apply validates their existence.
			if _, inBatch := hasKey(items, d.Key); inBatch && d.Key != it.Key {
				deps[d.Key] = true
			}
		}
		g.pending[it.Key] = deps
	}
	return g
}

func hasKey(items []Item, key string) (int, bool) {
	for i := range items {
		if items[i].Key == key {
			return i, true
		}
	}
	return 0, false
}

func (g *graph) remaining() int { return len(g.pending) }

// takeReady removes and returns the ready item with the smallest
// declaration order.
func (g *graph) takeReady() (string, bool) {
	var ready []string
	for key, deps := range g.pending {
		if len(deps) == 0 {
			ready = append(ready, key)
		}
	}
	if len(ready) == 0 {
		return "", false
	}
	sort.Slice(ready, func(i, j int) bool {
		oi, oj := g.order[ready[i]], g.order[ready[j]]
		if oi != oj {
			return oi < oj
		}
		return ready[i] < ready[j]
	})
	key := ready[0]
	delete(g.pending, key)
	for _, deps := range g.pending {
		delete(deps, key)
	}
	return key, true
}

// findCycle walks unmet dependency edges from the remaining item with the
// smallest declaration order until a node repeats, then returns the loop
// portion of the walk. Deterministic: neighbours are visited in sorted
// order.
func (g *graph) findCycle() []string {
	start := ""
	for key := range g.pending {
		if start == "" || g.before(key, start) {
			start = key
		}
	}

	var path []string
	index := map[string]int{}
	cur := start
	for {
		if at, seen := index[cur]; seen {
			return path[at:]
		}
		index[cur] = len(path)
		path = append(path, cur)

		var nexts []string
		for dep := range g.pending[cur] {
			nexts = append(nexts, dep)
		}
		sort.Slice(nexts, func(i, j int) bool { return g.before(nexts[i], nexts[j]) })
		cur = nexts[0]
	}
}

func (g *graph) before(a, b string) bool {
	oa, ob := g.order[a], g.order[b]
	if oa != ob {
		return oa < ob
	}
	return a < b
}

// breakCycle removes the deferrable dependencies of one cycle member whose
// deferral breaks the loop. Members are tried in declaration order so the
// chosen split is stable across runs.
func (g *graph) breakCycle(cycle []string) (Split, bool) {
	members := append([]string(nil), cycle...)
	sort.Slice(members, func(i, j int) bool { return g.before(members[i], members[j]) })

	inCycle := map[string]bool{}
	for _, key := range cycle {
		inCycle[key] = true
	}

	for _, key := range members {
		it := g.items[key]
		var cut []string
		for _, d := range it.DependsOn {
			if d.Deferrable && inCycle[d.Key] && g.pending[key][d.Key] {
				cut = append(cut, d.Key)
			}
		}
		if len(cut) == 0 {
			continue
		}
		sort.Strings(cut)
		for _, dep := range cut {
			delete(g.pending[key], dep)
		}
		g.deferred[key] = append(g.deferred[key], cut...)
		return Split{Key: key, Deferred: cut}, true
	}
	return Split{}, false
}
