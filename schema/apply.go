// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

// ExclusivityScope selects the enforcement scope of delegated-exclusive
// fields. ScopeSubtree treats every concrete descendant of the declaring
// ancestor as one uniqueness scope. ScopePerSubclass re-roots the
// constraint at each direct subclass of the declaring ancestor, so two
// objects conflict only when they descend from the same direct subclass.
type ExclusivityScope int

const (
	ScopeSubtree ExclusivityScope = iota
	ScopePerSubclass
)

type applyOpts struct {
	scope ExclusivityScope
}

// ApplyOption configures Apply.
type ApplyOption func(*applyOpts)

// WithExclusivityScope overrides the delegated-exclusive scope policy.
func WithExclusivityScope(scope ExclusivityScope) ApplyOption {
	return func(o *applyOpts) { o.scope = scope }
}

// Apply applies an ordered delta to this snapshot and returns the successor
// snapshot. The operations must already be in a valid dependency order (see
// the ordering package); an operation that references a not-yet-created
// object fails with SchemaIntegrityErr. On any failure the receiver is
// untouched and no partial schema is visible.
func (s *Schema) Apply(delta Delta, opts ...ApplyOption) (*Schema, error) {
	var cfg applyOpts
	for _, opt := range opts {
		opt(&cfg)
	}

	if delta.BaseVersion != s.version {
		return nil, serrors.NewError(serrors.ConcurrentModificationErr, nil,
			"delta built against schema version %d but head is %d",
			delta.BaseVersion, s.version)
	}

	next := s.clone()

	for _, op := range delta.Ops {
		var err *serrors.Error
		switch op := op.(type) {
		case *CreateObject:
			err = next.applyCreate(op, &cfg)
		case *AlterObject:
			err = next.applyAlter(op, &cfg)
		case *DropObject:
			err = next.applyDrop(op)
		default:
			err = serrors.Internal(op.Loc(), map[string]any{"op": op.String()},
				"unhandled operation kind")
		}
		if err != nil {
			return nil, err
		}
	}

	if err := next.checkBatchIntegrity(); err != nil {
		return nil, err
	}

	next.version = s.version + 1
	return next, nil
}

func (s *Schema) applyCreate(op *CreateObject, cfg *applyOpts) *serrors.Error {
	if _, ok := s.byName[op.Name]; ok {
		return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
			"%v already exists", op.Name)
	}

	id := op.ID
	if id == uuid.Nil {
		id = StableID(op.Name)
	}
	if _, ok := s.byID(id); ok {
		return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
			"object id %v already exists", id)
	}

	obj := NewObject(id, op.Name, op.Kind)
	obj.abstract = op.Abstract

	for _, baseName := range op.Bases {
		base, ok := s.lookupName(baseName)
		if !ok {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"%v inherits from %q which has not been created yet", op.Name, baseName)
		}
		if base.kind != op.Kind {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"%v (%v) cannot inherit from %v (%v)", op.Name, op.Kind, base.name, base.kind)
		}
		obj.bases = append(obj.bases, base.id)
	}

	if err := s.insert(obj); err != nil {
		return err
	}

	// Surfaces InconsistentInheritance before any field checks run.
	if _, err := linearize(s, obj); err != nil {
		s.remove(obj)
		return err
	}

	for _, fi := range op.Fields {
		if err := s.setField(obj, fi, op.Location); err != nil {
			s.remove(obj)
			return err
		}
	}

	if err := s.checkExclusives(obj, cfg.scope, op.Location); err != nil {
		s.remove(obj)
		return err
	}
	return nil
}

func (s *Schema) applyAlter(op *AlterObject, cfg *applyOpts) *serrors.Error {
	orig, err := s.Get(op.Name)
	if err != nil {
		return err.WithDetail("op", op.String())
	}

	obj := orig.copyShallow()

	if op.RenameTo != nil {
		if _, ok := s.byName[*op.RenameTo]; ok {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"cannot rename %v to %v: name already exists", obj.name, *op.RenameTo)
		}
		delete(s.byName, obj.name)
		obj.name = *op.RenameTo
		s.byName[obj.name] = obj.id
	}
	if op.SetAbstract != nil {
		obj.abstract = *op.SetAbstract
	}

	for _, baseName := range op.DropBases {
		base, ok := s.lookupName(baseName)
		if !ok {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"%v: unknown base %q", obj.name, baseName)
		}
		kept := obj.bases[:0]
		for _, b := range obj.bases {
			if b != base.id {
				kept = append(kept, b)
			}
		}
		obj.bases = kept
	}
	for _, baseName := range op.AddBases {
		base, ok := s.lookupName(baseName)
		if !ok {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"%v inherits from %q which has not been created yet", obj.name, baseName)
		}
		if base.kind != obj.kind {
			return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
				"%v (%v) cannot inherit from %v (%v)", obj.name, obj.kind, base.name, base.kind)
		}
		obj.bases = append(obj.bases, base.id)
	}

	s.replace(obj)

	if _, lerr := linearize(s, obj); lerr != nil {
		return lerr
	}

	for _, field := range op.DropFields {
		obj.DropField(field)
	}
	for _, fi := range op.SetFields {
		if ferr := s.setField(obj, fi, op.Location); ferr != nil {
			return ferr
		}
	}

	return s.checkExclusives(obj, cfg.scope, op.Location)
}

func (s *Schema) applyDrop(op *DropObject) *serrors.Error {
	obj, err := s.Get(op.Name)
	if err != nil {
		return err.WithDetail("op", op.String())
	}

	var blocker *Object
	s.Objects(func(other *Object) bool {
		if other.id == obj.id {
			return false
		}
		for _, base := range other.bases {
			if base == obj.id {
				blocker = other
				return true
			}
		}
		for _, field := range other.FieldNames() {
			def, _ := other.Field(field)
			for _, ref := range refsOf(def.Value) {
				if ref == obj.id && s.refBlocksDrop(other, field) {
					blocker = other
					return true
				}
			}
		}
		return false
	})
	if blocker != nil {
		return serrors.NewError(serrors.SchemaIntegrityErr, op.Location,
			"cannot drop %v: still referenced by %v", obj.name, blocker.name)
	}

	// Detach non-blocking references before removal.
	s.Objects(func(other *Object) bool {
		if other.id == obj.id {
			return false
		}
		detached := other
		for _, field := range other.FieldNames() {
			def, _ := other.Field(field)
			switch v := def.Value.(type) {
			case RefVal:
				if v.ID == obj.id {
					if detached == other {
						detached = other.copyShallow()
					}
					detached.DropField(field)
				}
			case RefListVal:
				kept := make([]uuid.UUID, 0, len(v.IDs))
				for _, id := range v.IDs {
					if id != obj.id {
						kept = append(kept, id)
					}
				}
				if len(kept) != len(v.IDs) {
					if detached == other {
						detached = other.copyShallow()
					}
					def.Value = RefListVal{IDs: kept}
					// Registry-checked kinds are unchanged by detachment.
					_ = detached.SetField(field, def)
				}
			}
		}
		if detached != other {
			s.replace(detached)
		}
		return false
	})

	s.remove(obj)
	return nil
}

// refBlocksDrop reports whether a reference held in the given field of obj
// forbids dropping its target. Structural slots always block; other
// references block when the referrer is a required pointer.
func (s *Schema) refBlocksDrop(obj *Object, field string) bool {
	switch field {
	case "source", "target", "subject":
		return true
	}
	if def, _, ok := s.FieldValue(obj, "required"); ok {
		if req, ok := def.Value.(BoolVal); ok && bool(req) {
			return true
		}
	}
	return false
}

// setField resolves and installs one field, enforcing the overloaded
// declaration rules against every base that declares the field.
func (s *Schema) setField(obj *Object, fi FieldInit, loc *serrors.Location) *serrors.Error {
	val, err := resolveOpValue(s, fi.Value, loc)
	if err != nil {
		return err
	}

	ancs, aerr := s.Ancestors(obj)
	if aerr != nil {
		return aerr
	}
	var declaring *Object
	for _, anc := range ancs {
		if _, ok := anc.Field(fi.Field); ok {
			declaring = anc
			break
		}
	}

	if declaring != nil {
		if !fi.Overloaded {
			return serrors.NewError(serrors.SchemaIntegrityErr, loc,
				"field %q on %v shadows the declaration on %v and must be marked overloaded",
				fi.Field, obj.name, declaring.name)
		}
		// Type compatibility is required against every base declaration,
		// not only the nearest one.
		for _, anc := range ancs {
			if inherited, ok := anc.Field(fi.Field); ok {
				if inherited.Value.ValueKind() != val.ValueKind() {
					return serrors.NewError(serrors.TypeMismatchErr, loc,
						"overloaded field %q on %v holds %v but %v declares %v",
						fi.Field, obj.name, val.ValueKind(), anc.name, inherited.Value.ValueKind())
				}
			}
		}
	} else if fi.Overloaded {
		return serrors.NewError(serrors.SchemaIntegrityErr, loc,
			"field %q on %v is marked overloaded but no base declares it",
			fi.Field, obj.name)
	}

	return obj.SetField(fi.Field, FieldDef{
		Value:      val,
		Overloaded: fi.Overloaded,
		Exclusive:  fi.Exclusive,
		Delegated:  fi.Delegated,
	})
}

// checkBatchIntegrity verifies the invariants that individual operations
// may legitimately leave unsatisfied mid-batch, e.g. a pointer created as a
// forward-reference stub whose target is set by a later alter.
func (s *Schema) checkBatchIntegrity() *serrors.Error {
	var err *serrors.Error
	s.Objects(func(obj *Object) bool {
		if obj.kind != KindLink && obj.kind != KindProperty {
			return false
		}
		if obj.abstract {
			return false
		}
		if _, ok := obj.Field("expr"); ok {
			return false // computed pointers have no stored target
		}
		if _, _, ok := s.FieldValue(obj, "target"); !ok {
			err = serrors.NewError(serrors.SchemaIntegrityErr, nil,
				"%v %v has no target", obj.kind, obj.name)
			return true
		}
		return false
	})
	return err
}

func (s *Schema) lookupName(n names.QualName) (*Object, bool) {
	if id, ok := s.byName[n]; ok {
		return s.byID(id)
	}
	return nil, false
}

func (s *Schema) insert(obj *Object) *serrors.Error {
	if err := s.objects.Set(obj.id, obj); err != nil {
		return err
	}
	s.byName[obj.name] = obj.id
	s.invalidateDerived()
	return nil
}

// replace swaps in a copied object under its existing id.
func (s *Schema) replace(obj *Object) {
	_ = s.objects.Set(obj.id, obj)
	s.byName[obj.name] = obj.id
	s.invalidateDerived()
}

func (s *Schema) remove(obj *Object) {
	s.objects.Delete(obj.id)
	delete(s.byName, obj.name)
	s.invalidateDerived()
}

// invalidateDerived drops the lazily computed inheritance caches. Only ever
// called on unpublished successor snapshots during apply.
func (s *Schema) invalidateDerived() {
	s.mu.Lock()
	s.ancestors = nil
	s.children = nil
	s.mu.Unlock()
}
