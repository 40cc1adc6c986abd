// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/util"
)

// Pointer objects (links and properties) are named after their source type:
// a property `name` of `default::User` is the schema object
// `default::User.name`. The helpers below resolve pointers the way the
// compilers need them: by local name, honoring inheritance, nearest
// declaration first.

// PointerLocalName returns the step name of a pointer object: the part of
// its local name after the final dot.
func PointerLocalName(p *Object) string {
	local := p.Name().Local
	if i := strings.LastIndex(local, "."); i >= 0 {
		return local[i+1:]
	}
	return local
}

// PointerSource returns the id of the object type a pointer hangs off.
func (s *Schema) PointerSource(p *Object) (uuid.UUID, bool) {
	def, _, ok := s.FieldValue(p, "source")
	if !ok {
		return uuid.Nil, false
	}
	ref, ok := def.Value.(RefVal)
	if !ok {
		return uuid.Nil, false
	}
	return ref.ID, true
}

// PointerTarget returns the id of a pointer's target type.
func (s *Schema) PointerTarget(p *Object) (uuid.UUID, bool) {
	def, _, ok := s.FieldValue(p, "target")
	if !ok {
		return uuid.Nil, false
	}
	ref, ok := def.Value.(RefVal)
	if !ok {
		return uuid.Nil, false
	}
	return ref.ID, true
}

// PointerRequired reports the pointer's lower cardinality bound.
func (s *Schema) PointerRequired(p *Object) bool {
	def, _, ok := s.FieldValue(p, "required")
	if !ok {
		return false
	}
	b, ok := def.Value.(BoolVal)
	return ok && bool(b)
}

// PointerMulti reports the pointer's upper cardinality bound.
func (s *Schema) PointerMulti(p *Object) bool {
	def, _, ok := s.FieldValue(p, "multi")
	if !ok {
		return false
	}
	b, ok := def.Value.(BoolVal)
	return ok && bool(b)
}

// PointerComputed returns the computed expression of a pointer, if any.
func (s *Schema) PointerComputed(p *Object) (string, bool) {
	def, _, ok := s.FieldValue(p, "expr")
	if !ok {
		return "", false
	}
	e, ok := def.Value.(ExprVal)
	if !ok {
		return "", false
	}
	return string(e), true
}

// Pointers returns the pointers visible on an object type: its own plus
// the inherited ones, nearest declaration first, deduplicated by local
// name. Order is deterministic: linearization order, then creation order
// within one source.
func (s *Schema) Pointers(obj *Object) []*Object {
	sources := []*Object{obj}
	if ancs, err := s.Ancestors(obj); err == nil {
		sources = append(sources, ancs...)
	}

	byID := map[uuid.UUID]bool{}
	for _, src := range sources {
		byID[src.ID()] = true
	}

	visible := util.NewOrderedSet(PointerLocalName, nil)
	for _, src := range sources {
		s.Objects(func(p *Object) bool {
			if p.Kind() != KindLink && p.Kind() != KindProperty {
				return false
			}
			srcID, ok := s.PointerSource(p)
			if !ok || srcID != src.ID() {
				return false
			}
			// Add replaces in place, so a farther override must not
			// displace the nearest declaration.
			if !visible.ContainsKey(PointerLocalName(p)) {
				visible.Add(p)
			}
			return false
		})
	}
	return visible.Slice()
}

// Pointer resolves a pointer of obj by local name, searching obj first and
// then its linearized ancestors.
func (s *Schema) Pointer(obj *Object, name string) (*Object, bool) {
	for _, p := range s.Pointers(obj) {
		if PointerLocalName(p) == name {
			return p, true
		}
	}
	return nil, false
}
