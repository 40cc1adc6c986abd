// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package schema implements the typed schema object graph: versioned
// immutable snapshots of user-defined and built-in types, multiple
// inheritance with C3 linearization, structural diffing and ordered delta
// application.
package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/util"
)

// IDNamespace is the UUIDv5 namespace used to derive stable object ids from
// canonical names when an operation does not supply an explicit id.
var IDNamespace = uuid.MustParse("8f4a6f2e-03d1-45c8-9e7b-5a12cf4b9e60")

// StableID derives the deterministic id for a canonical name. Identifier
// stability across serialization round-trips is a hard requirement, so ids
// are a pure function of the initially declared name. Renames keep the
// original id.
func StableID(name names.QualName) uuid.UUID {
	return uuid.NewSHA1(IDNamespace, []byte(name.String()))
}

// Kind identifies the flavor of a schema object.
type Kind string

const (
	KindModule     Kind = "module"
	KindScalarType Kind = "scalar_type"
	KindObjectType Kind = "object_type"
	KindLink       Kind = "link"
	KindProperty   Kind = "property"
	KindConstraint Kind = "constraint"
)

// FieldDef is a field declaration on a schema object. A field declared on
// an object creates the field slot for the object's entire subtree: any
// redeclaration below must carry Overloaded and hold a value of the same
// kind.
type FieldDef struct {
	Value Value `json:"value"`

	// Overloaded marks a redeclaration of a field inherited from a base.
	Overloaded bool `json:"overloaded,omitempty"`

	// Exclusive marks the field's value as unique. Delegated extends the
	// uniqueness scope from the declaring object to its concrete
	// descendants.
	Exclusive bool `json:"exclusive,omitempty"`
	Delegated bool `json:"delegated,omitempty"`
}

// Object is the atomic unit of the schema graph.
type Object struct {
	id       uuid.UUID
	name     names.QualName
	kind     Kind
	abstract bool
	bases    []uuid.UUID // ordered, drives linearization
	fields   *util.OrderedMap[string, FieldDef]
}

// NewObject constructs an object. Fields are installed through SetField so
// the declared-kind check runs on every mutation.
func NewObject(id uuid.UUID, name names.QualName, kind Kind) *Object {
	o := &Object{
		id:   id,
		name: name,
		kind: kind,
	}
	o.fields = util.NewOrderedMap[string, FieldDef](o.checkField)
	return o
}

// checkField enforces the per-kind field registry on every field mutation.
func (o *Object) checkField(name string, def FieldDef) *serrors.Error {
	if def.Value == nil {
		return serrors.NewError(serrors.TypeMismatchErr, nil,
			"field %q on %v has no value", name, o.name)
	}
	want, known := registeredFieldKind(o.kind, name)
	if known && def.Value.ValueKind() != want {
		return serrors.NewError(serrors.TypeMismatchErr, nil,
			"field %q on %v must hold %v, got %v",
			name, o.name, want, def.Value.ValueKind())
	}
	return nil
}

func (o *Object) ID() uuid.UUID        { return o.id }
func (o *Object) Name() names.QualName { return o.name }
func (o *Object) Kind() Kind           { return o.kind }
func (o *Object) Abstract() bool       { return o.abstract }

// Bases returns the ordered direct bases.
func (o *Object) Bases() []uuid.UUID {
	out := make([]uuid.UUID, len(o.bases))
	copy(out, o.bases)
	return out
}

// Field returns the field declared directly on this object.
func (o *Object) Field(name string) (FieldDef, bool) {
	return o.fields.Get(name)
}

// FieldNames returns the names of directly declared fields in declaration
// order.
func (o *Object) FieldNames() []string {
	return o.fields.Keys()
}

// SetField declares or replaces a field on the object. The declared-kind
// check runs on every call.
func (o *Object) SetField(name string, def FieldDef) *serrors.Error {
	return o.fields.Set(name, def)
}

// DropField removes a directly declared field.
func (o *Object) DropField(name string) {
	o.fields.Delete(name)
}

// copyShallow clones the object so a new schema version can mutate it
// without touching the published one.
func (o *Object) copyShallow() *Object {
	cpy := &Object{
		id:       o.id,
		name:     o.name,
		kind:     o.kind,
		abstract: o.abstract,
		bases:    append([]uuid.UUID(nil), o.bases...),
	}
	cpy.fields = util.NewOrderedMap[string, FieldDef](cpy.checkField)
	o.fields.Iter(func(k string, v FieldDef) bool {
		// Values are immutable; re-checking on copy is redundant but keeps
		// the invariant that every entry passed the declared-kind check.
		if err := cpy.fields.Set(k, v); err != nil {
			panic(fmt.Sprintf("schema: field copy rejected: %v", err))
		}
		return false
	})
	return cpy
}

func (o *Object) String() string {
	return fmt.Sprintf("%v %v", o.kind, o.name)
}

// registeredFieldKind returns the value kind required for a well-known
// field of the given object kind. Unknown fields are unconstrained at the
// collection level; inheritance-compatibility checks happen during apply.
func registeredFieldKind(k Kind, field string) (ValueKind, bool) {
	if kinds, ok := fieldRegistry[k]; ok {
		if vk, ok := kinds[field]; ok {
			return vk, true
		}
	}
	return "", false
}

// fieldRegistry pins the value kinds of the well-known fields per object
// kind.
var fieldRegistry = map[Kind]map[string]ValueKind{
	KindObjectType: {
		"title":       KindStr,
		"description": KindStr,
	},
	KindScalarType: {
		"title":       KindStr,
		"description": KindStr,
	},
	KindLink: {
		"source":      KindRef,
		"target":      KindRef,
		"required":    KindBool,
		"multi":       KindBool,
		"description": KindStr,
		"expr":        KindExpr,
	},
	KindProperty: {
		"source":      KindRef,
		"target":      KindRef,
		"required":    KindBool,
		"multi":       KindBool,
		"description": KindStr,
		"expr":        KindExpr,
	},
	KindConstraint: {
		"expr":        KindExpr,
		"subject":     KindRef,
		"description": KindStr,
	},
	KindModule: {
		"description": KindStr,
	},
}
