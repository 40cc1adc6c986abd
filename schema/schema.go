// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/util"
)

// Schema is an immutable snapshot of the object graph. A new Schema value
// is produced by applying an ordered delta to a prior one; a published
// Schema is never mutated, so any number of compilations may read it
// concurrently without locking. The derived inheritance caches are guarded
// by a mutex but only ever computed from immutable state.
type Schema struct {
	version int64
	objects *util.OrderedMap[uuid.UUID, *Object] // creation order
	byName  map[names.QualName]uuid.UUID

	mu        sync.Mutex
	ancestors map[uuid.UUID][]uuid.UUID // C3 linearizations minus self
	children  map[uuid.UUID][]uuid.UUID
}

// New returns an empty schema at version 0.
func New() *Schema {
	return &Schema{
		objects: util.NewOrderedMap[uuid.UUID, *Object](nil),
		byName:  map[names.QualName]uuid.UUID{},
	}
}

// Version returns the lineage counter of this snapshot.
func (s *Schema) Version() int64 { return s.version }

// Get returns the object with the given qualified name.
func (s *Schema) Get(name names.QualName) (*Object, *serrors.Error) {
	if id, ok := s.byName[name]; ok {
		if obj, ok := s.objects.Get(id); ok {
			return obj, nil
		}
	}
	return nil, serrors.NewError(serrors.NameNotFoundErr, nil,
		"schema object %q does not exist", name)
}

// GetByID returns the object with the given id.
func (s *Schema) GetByID(id uuid.UUID) (*Object, *serrors.Error) {
	if obj, ok := s.objects.Get(id); ok {
		return obj, nil
	}
	return nil, serrors.NewError(serrors.UnknownIDErr, nil,
		"schema object id %v does not exist", id)
}

func (s *Schema) byID(id uuid.UUID) (*Object, bool) {
	return s.objects.Get(id)
}

// Objects calls f for every object in creation order until f returns true.
func (s *Schema) Objects(f func(*Object) bool) {
	s.objects.Iter(func(_ uuid.UUID, obj *Object) bool {
		return f(obj)
	})
}

// Len returns the number of objects in the snapshot.
func (s *Schema) Len() int { return s.objects.Len() }

// HasName implements names.Index.
func (s *Schema) HasName(qn names.QualName) bool {
	_, ok := s.byName[qn]
	return ok
}

// Names implements names.Index. The result is sorted for deterministic
// suggestion ranking.
func (s *Schema) Names() []names.QualName {
	out := make([]names.QualName, 0, len(s.byName))
	for qn := range s.byName {
		out = append(out, qn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Resolve resolves a possibly unqualified name against this snapshot.
func (s *Schema) Resolve(n names.Name, path names.SearchPath, loc *serrors.Location) (*Object, *serrors.Error) {
	qn, err := names.Resolve(s, n, path, loc)
	if err != nil {
		return nil, err
	}
	return s.Get(qn)
}

// Ancestors returns obj's ancestors in C3 linearization order, nearest
// first. The linearization is computed lazily and cached per snapshot.
func (s *Schema) Ancestors(obj *Object) ([]*Object, *serrors.Error) {
	s.mu.Lock()
	cached, ok := s.ancestors[obj.id]
	s.mu.Unlock()

	if !ok {
		lin, err := linearize(s, obj)
		if err != nil {
			return nil, err
		}
		cached = lin[1:] // drop self
		s.mu.Lock()
		if s.ancestors == nil {
			s.ancestors = map[uuid.UUID][]uuid.UUID{}
		}
		s.ancestors[obj.id] = cached
		s.mu.Unlock()
	}

	out := make([]*Object, len(cached))
	for i, id := range cached {
		anc, ok := s.byID(id)
		if !ok {
			return nil, serrors.NewError(serrors.SchemaIntegrityErr, nil,
				"ancestor %v of %v is missing", id, obj.name)
		}
		out[i] = anc
	}
	return out, nil
}

// Children returns the objects that list obj as a direct base, in creation
// order.
func (s *Schema) Children(obj *Object) []*Object {
	s.mu.Lock()
	if s.children == nil {
		idx := map[uuid.UUID][]uuid.UUID{}
		s.objects.Iter(func(id uuid.UUID, o *Object) bool {
			for _, base := range o.bases {
				idx[base] = append(idx[base], id)
			}
			return false
		})
		s.children = idx
	}
	ids := s.children[obj.id]
	s.mu.Unlock()

	out := make([]*Object, 0, len(ids))
	for _, id := range ids {
		if child, ok := s.byID(id); ok {
			out = append(out, child)
		}
	}
	return out
}

// descTraversal walks the child index of a snapshot. Visited marks on
// first query so diamonds are emitted once.
type descTraversal struct {
	s    *Schema
	seen map[uuid.UUID]bool
}

func (t *descTraversal) Edges(u *Object) []*Object { return t.s.Children(u) }

func (t *descTraversal) Visited(u *Object) bool {
	if t.seen[u.id] {
		return true
	}
	t.seen[u.id] = true
	return false
}

// Descendants returns every object below obj in the inheritance graph, in
// breadth-first creation order.
func (s *Schema) Descendants(obj *Object) []*Object {
	var out []*Object
	util.BFS(&descTraversal{s: s, seen: map[uuid.UUID]bool{}}, func(o *Object) bool {
		if o != obj {
			out = append(out, o)
		}
		return false
	}, obj)
	return out
}

// baseTraversal walks the base edges of a snapshot upward.
type baseTraversal struct {
	s    *Schema
	seen map[uuid.UUID]bool
}

func (t *baseTraversal) Edges(u uuid.UUID) []uuid.UUID {
	obj, ok := t.s.byID(u)
	if !ok {
		return nil
	}
	return obj.bases
}

func (t *baseTraversal) Visited(u uuid.UUID) bool {
	if t.seen[u] {
		return true
	}
	t.seen[u] = true
	return false
}

// IsSubtype implements types.AncestorOracle: a is a subtype of b when b is
// reachable from a over base edges, including a itself.
func (s *Schema) IsSubtype(a, b uuid.UUID) bool {
	return util.DFS(&baseTraversal{s: s, seen: map[uuid.UUID]bool{}},
		func(id uuid.UUID) bool { return id == b }, a)
}

// FieldValue resolves the effective value of field on obj: the first
// declaration found on obj or along its linearized ancestors.
func (s *Schema) FieldValue(obj *Object, field string) (FieldDef, *Object, bool) {
	if def, ok := obj.Field(field); ok {
		return def, obj, true
	}
	ancs, err := s.Ancestors(obj)
	if err != nil {
		return FieldDef{}, nil, false
	}
	for _, anc := range ancs {
		if def, ok := anc.Field(field); ok {
			return def, anc, true
		}
	}
	return FieldDef{}, nil, false
}

// Fingerprint returns a stable hash of the snapshot's marshaled form. Two
// structurally equal snapshots produce equal fingerprints.
func (s *Schema) Fingerprint() uint64 {
	data, err := s.MarshalJSON()
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// clone produces a mutable successor snapshot sharing object values with
// the parent. Objects are copied on write during apply.
func (s *Schema) clone() *Schema {
	cpy := &Schema{
		version: s.version,
		objects: s.objects.Copy(),
		byName:  make(map[names.QualName]uuid.UUID, len(s.byName)),
	}
	for qn, id := range s.byName {
		cpy.byName[qn] = id
	}
	return cpy
}
