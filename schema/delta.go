// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

// Delta is an ordered batch of object operations built against a specific
// schema version. Apply rejects a delta whose base version is stale.
type Delta struct {
	BaseVersion int64
	Ops         []Operation
}

// Operation is a single object-level schema mutation. Operations reference
// other objects by qualified name, never by id, because a batch may
// reference objects that do not exist until an earlier operation in the
// same batch creates them.
type Operation interface {
	opMarker()

	// TargetName returns the qualified name of the object the operation
	// creates, alters or drops.
	TargetName() names.QualName

	// Loc returns the source position of the declaration, when known.
	Loc() *serrors.Location

	String() string
}

// FieldInit declares or sets one field in a create or alter operation.
type FieldInit struct {
	Field      string
	Value      OpValue
	Overloaded bool
	Exclusive  bool
	Delegated  bool
}

// CreateObject creates a new schema object.
type CreateObject struct {
	// ID optionally pins the new object's id. When zero the id is derived
	// from the name via StableID.
	ID uuid.UUID

	Name     names.QualName
	Kind     Kind
	Abstract bool
	Bases    []names.QualName
	Fields   []FieldInit

	Location *serrors.Location
}

func (*CreateObject) opMarker()                     {}
func (op *CreateObject) TargetName() names.QualName { return op.Name }
func (op *CreateObject) Loc() *serrors.Location     { return op.Location }

func (op *CreateObject) String() string {
	return fmt.Sprintf("create %v %v", op.Kind, op.Name)
}

// AlterObject mutates an existing object.
type AlterObject struct {
	Name names.QualName

	RenameTo    *names.QualName
	SetAbstract *bool
	AddBases    []names.QualName
	DropBases   []names.QualName
	SetFields   []FieldInit
	DropFields  []string

	Location *serrors.Location
}

func (*AlterObject) opMarker()                     {}
func (op *AlterObject) TargetName() names.QualName { return op.Name }
func (op *AlterObject) Loc() *serrors.Location     { return op.Location }

func (op *AlterObject) String() string {
	return fmt.Sprintf("alter %v", op.Name)
}

// DropObject retires an object. Illegal while any other object still
// references it.
type DropObject struct {
	Name names.QualName

	Location *serrors.Location
}

func (*DropObject) opMarker()                     {}
func (op *DropObject) TargetName() names.QualName { return op.Name }
func (op *DropObject) Loc() *serrors.Location     { return op.Location }

func (op *DropObject) String() string {
	return fmt.Sprintf("drop %v", op.Name)
}

// OpValue mirrors Value at the operation level, with references expressed
// by name instead of id.
type OpValue interface {
	opValueMarker()

	// Refs returns the names referenced by the value, in order. Used by the
	// dependency ordering engine.
	Refs() []names.QualName
}

// OpStr, OpInt, OpFloat, OpBool and OpExpr carry scalar field values.
type (
	OpStr   string
	OpInt   int64
	OpFloat float64
	OpBool  bool
	OpExpr  string
)

func (OpStr) opValueMarker()   {}
func (OpInt) opValueMarker()   {}
func (OpFloat) opValueMarker() {}
func (OpBool) opValueMarker()  {}
func (OpExpr) opValueMarker()  {}

func (OpStr) Refs() []names.QualName   { return nil }
func (OpInt) Refs() []names.QualName   { return nil }
func (OpFloat) Refs() []names.QualName { return nil }
func (OpBool) Refs() []names.QualName  { return nil }
func (OpExpr) Refs() []names.QualName  { return nil }

// OpRef references a schema object by name.
type OpRef struct {
	Name names.QualName
}

func (OpRef) opValueMarker()           {}
func (v OpRef) Refs() []names.QualName { return []names.QualName{v.Name} }

// OpRefList references an ordered list of schema objects by name.
type OpRefList struct {
	Names []names.QualName
}

func (OpRefList) opValueMarker() {}

func (v OpRefList) Refs() []names.QualName {
	return append([]names.QualName(nil), v.Names...)
}

// resolveOpValue turns an operation value into a stored field value,
// resolving referenced names against the in-progress schema.
func resolveOpValue(s *Schema, v OpValue, loc *serrors.Location) (Value, *serrors.Error) {
	switch v := v.(type) {
	case OpStr:
		return StrVal(v), nil
	case OpInt:
		return IntVal(v), nil
	case OpFloat:
		return FloatVal(v), nil
	case OpBool:
		return BoolVal(v), nil
	case OpExpr:
		return ExprVal(v), nil
	case OpRef:
		id, ok := s.byName[v.Name]
		if !ok {
			return nil, serrors.NewError(serrors.SchemaIntegrityErr, loc,
				"reference to %q which has not been created yet", v.Name)
		}
		return RefVal{ID: id}, nil
	case OpRefList:
		ids := make([]uuid.UUID, 0, len(v.Names))
		for _, n := range v.Names {
			id, ok := s.byName[n]
			if !ok {
				return nil, serrors.NewError(serrors.SchemaIntegrityErr, loc,
					"reference to %q which has not been created yet", n)
			}
			ids = append(ids, id)
		}
		return RefListVal{IDs: ids}, nil
	}
	return nil, serrors.Internal(loc, map[string]any{"value": fmt.Sprintf("%T", v)},
		"unhandled operation value")
}
