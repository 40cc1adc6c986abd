// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
)

// Diff computes the ordered operation list that transforms old into new.
// Objects are matched by id so renames come out as alters, not
// drop-and-create pairs. The result is in a deterministic but not
// necessarily dependency-valid order; run it through the ordering engine
// before applying.
func Diff(old, new *Schema) ([]Operation, error) {
	var creates, alters, drops []Operation

	var diffErr error
	new.Objects(func(obj *Object) bool {
		prev, ok := old.byID(obj.id)
		if !ok {
			op, err := createOpFor(new, obj)
			if err != nil {
				diffErr = err
				return true
			}
			creates = append(creates, op)
			return false
		}
		op, err := alterOpFor(old, new, prev, obj)
		if err != nil {
			diffErr = err
			return true
		}
		if op != nil {
			alters = append(alters, op)
		}
		return false
	})
	if diffErr != nil {
		return nil, diffErr
	}

	old.Objects(func(obj *Object) bool {
		if _, ok := new.byID(obj.id); !ok {
			drops = append(drops, &DropObject{Name: obj.name})
		}
		return false
	})

	out := make([]Operation, 0, len(creates)+len(alters)+len(drops))
	out = append(out, creates...)
	out = append(out, alters...)
	out = append(out, drops...)
	return out, nil
}

func createOpFor(s *Schema, obj *Object) (*CreateObject, error) {
	op := &CreateObject{
		ID:       obj.id,
		Name:     obj.name,
		Kind:     obj.kind,
		Abstract: obj.abstract,
	}
	for _, base := range obj.bases {
		bn, err := nameOf(s, base)
		if err != nil {
			return nil, err
		}
		op.Bases = append(op.Bases, bn)
	}
	for _, field := range obj.FieldNames() {
		def, _ := obj.Field(field)
		ov, err := opValueFor(s, def.Value)
		if err != nil {
			return nil, err
		}
		op.Fields = append(op.Fields, FieldInit{
			Field:      field,
			Value:      ov,
			Overloaded: def.Overloaded,
			Exclusive:  def.Exclusive,
			Delegated:  def.Delegated,
		})
	}
	return op, nil
}

func alterOpFor(old, new *Schema, prev, cur *Object) (*AlterObject, error) {
	op := &AlterObject{Name: prev.name}
	changed := false

	if prev.name != cur.name {
		rn := cur.name
		op.RenameTo = &rn
		changed = true
	}
	if prev.abstract != cur.abstract {
		ab := cur.abstract
		op.SetAbstract = &ab
		changed = true
	}

	prevBases := map[uuid.UUID]bool{}
	for _, b := range prev.bases {
		prevBases[b] = true
	}
	curBases := map[uuid.UUID]bool{}
	for _, b := range cur.bases {
		curBases[b] = true
	}
	for _, b := range prev.bases {
		if !curBases[b] {
			bn, err := nameOf(old, b)
			if err != nil {
				return nil, err
			}
			op.DropBases = append(op.DropBases, bn)
			changed = true
		}
	}
	for _, b := range cur.bases {
		if !prevBases[b] {
			bn, err := nameOf(new, b)
			if err != nil {
				return nil, err
			}
			op.AddBases = append(op.AddBases, bn)
			changed = true
		}
	}

	for _, field := range prev.FieldNames() {
		if _, ok := cur.Field(field); !ok {
			op.DropFields = append(op.DropFields, field)
			changed = true
		}
	}
	for _, field := range cur.FieldNames() {
		def, _ := cur.Field(field)
		if prevDef, ok := prev.Field(field); ok && prevDef.Value.Equal(def.Value) &&
			prevDef.Overloaded == def.Overloaded &&
			prevDef.Exclusive == def.Exclusive &&
			prevDef.Delegated == def.Delegated {
			continue
		}
		ov, err := opValueFor(new, def.Value)
		if err != nil {
			return nil, err
		}
		op.SetFields = append(op.SetFields, FieldInit{
			Field:      field,
			Value:      ov,
			Overloaded: def.Overloaded,
			Exclusive:  def.Exclusive,
			Delegated:  def.Delegated,
		})
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return op, nil
}

// opValueFor converts a stored value back into its by-name operation form.
func opValueFor(s *Schema, v Value) (OpValue, error) {
	switch v := v.(type) {
	case StrVal:
		return OpStr(v), nil
	case IntVal:
		return OpInt(v), nil
	case FloatVal:
		return OpFloat(v), nil
	case BoolVal:
		return OpBool(v), nil
	case ExprVal:
		return OpExpr(v), nil
	case RefVal:
		n, err := nameOf(s, v.ID)
		if err != nil {
			return nil, err
		}
		return OpRef{Name: n}, nil
	case RefListVal:
		ns := make([]names.QualName, 0, len(v.IDs))
		for _, id := range v.IDs {
			n, err := nameOf(s, id)
			if err != nil {
				return nil, err
			}
			ns = append(ns, n)
		}
		return OpRefList{Names: ns}, nil
	}
	return nil, fmt.Errorf("schema: unhandled value %T in diff", v)
}

func nameOf(s *Schema, id uuid.UUID) (names.QualName, error) {
	obj, ok := s.byID(id)
	if !ok {
		return names.QualName{}, fmt.Errorf("schema: diff references unknown id %v", id)
	}
	return obj.name, nil
}
