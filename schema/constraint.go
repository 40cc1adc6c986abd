// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/serrors"
)

// checkExclusives enforces every delegated-exclusive field visible on obj.
// For each such field the scope is computed from the nearest ancestor that
// declares the field exclusive, never from obj itself: the declaring
// ancestor's concrete descendants are scanned pairwise for equal values.
func (s *Schema) checkExclusives(obj *Object, scope ExclusivityScope, loc *serrors.Location) *serrors.Error {
	for _, field := range s.visibleFields(obj) {
		decl, declaring := s.exclusiveDeclaration(obj, field)
		if declaring == nil || !decl.Delegated {
			continue
		}
		if err := s.checkExclusiveField(declaring, field, scope, loc); err != nil {
			return err
		}
	}
	return nil
}

// exclusiveDeclaration finds the nearest declaration of field along obj's
// linearization that carries the exclusive flag.
func (s *Schema) exclusiveDeclaration(obj *Object, field string) (FieldDef, *Object) {
	if def, ok := obj.Field(field); ok && def.Exclusive {
		return def, obj
	}
	ancs, err := s.Ancestors(obj)
	if err != nil {
		return FieldDef{}, nil
	}
	for _, anc := range ancs {
		if def, ok := anc.Field(field); ok && def.Exclusive {
			return def, anc
		}
	}
	return FieldDef{}, nil
}

// checkExclusiveField scans the concrete descendant set of the declaring
// object for two distinct members holding equal values of field.
func (s *Schema) checkExclusiveField(declaring *Object, field string, scope ExclusivityScope, loc *serrors.Location) *serrors.Error {
	members := s.concreteScope(declaring)

	for i := 0; i < len(members); i++ {
		vi, _, ok := s.FieldValue(members[i], field)
		if !ok {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			if scope == ScopePerSubclass && !s.shareScopeRoot(declaring, members[i], members[j]) {
				continue
			}
			vj, _, ok := s.FieldValue(members[j], field)
			if !ok {
				continue
			}
			if vi.Value.Equal(vj.Value) {
				return serrors.NewError(serrors.ConstraintViolationErr, loc,
					"exclusive field %q delegated from %v: %v and %v share value %v",
					field, declaring.name, members[i].name, members[j].name, vi.Value)
			}
		}
	}
	return nil
}

// concreteScope returns the non-abstract members of the subtree rooted at
// declaring, including declaring itself when concrete, in deterministic
// creation order.
func (s *Schema) concreteScope(declaring *Object) []*Object {
	var out []*Object
	if !declaring.abstract {
		out = append(out, declaring)
	}
	for _, desc := range s.Descendants(declaring) {
		if !desc.abstract {
			out = append(out, desc)
		}
	}
	return out
}

// shareScopeRoot reports whether a and b fall under the same direct
// subclass of declaring. Under the per-subclass policy each direct
// subclass subtree is its own uniqueness scope; an object reachable
// through multiple direct subclasses (a diamond) belongs to all of them.
func (s *Schema) shareScopeRoot(declaring, a, b *Object) bool {
	if a.id == declaring.id || b.id == declaring.id {
		// The declaring object itself is its own scope.
		return false
	}
	ra := s.scopeRoots(declaring, a)
	for root := range s.scopeRoots(declaring, b) {
		if ra[root] {
			return true
		}
	}
	return false
}

// scopeRoots returns the direct subclasses of declaring that obj descends
// from (including obj itself when it is one).
func (s *Schema) scopeRoots(declaring *Object, obj *Object) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, child := range s.Children(declaring) {
		if child.id == obj.id || s.IsSubtype(obj.id, child.id) {
			out[child.id] = true
		}
	}
	return out
}

// visibleFields returns the union of field names declared on obj and its
// ancestors, in declaration order, obj first.
func (s *Schema) visibleFields(obj *Object) []string {
	seen := map[string]bool{}
	var out []string
	add := func(o *Object) {
		for _, f := range o.FieldNames() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	add(obj)
	if ancs, err := s.Ancestors(obj); err == nil {
		for _, anc := range ancs {
			add(anc)
		}
	}
	return out
}
