// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package types declares the static types assigned to query expressions and
// schema fields, and the unification rules between them.
package types

import (
	"github.com/google/uuid"
)

// Type represents a static type of an expression or schema field value.
type Type interface {
	typeMarker()

	// String returns a canonical, deterministic rendering of the type.
	String() string
}

// Kind enumerates the scalar kinds known to the core.
type Kind string

const (
	Str      Kind = "std::str"
	Int64    Kind = "std::int64"
	Float64  Kind = "std::float64"
	Bool     Kind = "std::bool"
	Decimal  Kind = "std::decimal"
	UUID     Kind = "std::uuid"
	Bytes    Kind = "std::bytes"
	Datetime Kind = "std::datetime"
	Duration Kind = "std::duration"
	JSON     Kind = "std::json"
)

// AnyType matches every type. It appears only in operator and function
// signatures; inference never assigns it to an expression.
type AnyType struct{}

func (AnyType) typeMarker()    {}
func (AnyType) String() string { return "anytype" }

// Any is the singleton AnyType.
var Any = AnyType{}

// Scalar is a non-schema scalar type.
type Scalar struct {
	Kind Kind `json:"kind"`
}

func (Scalar) typeMarker()      {}
func (t Scalar) String() string { return string(t.Kind) }

// NewScalar returns the scalar type for kind.
func NewScalar(k Kind) Scalar { return Scalar{Kind: k} }

// Object references a schema object type by id. The id, not the name, is
// embedded so that later stages never re-resolve names.
type Object struct {
	ID uuid.UUID `json:"id"`

	// Name is carried for diagnostics only and takes no part in equality.
	Name string `json:"name,omitempty"`
}

func (Object) typeMarker() {}

func (t Object) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID.String()
}

// NewObject returns an object type reference.
func NewObject(id uuid.UUID, name string) Object {
	return Object{ID: id, Name: name}
}

// Array is an ordered collection of a single element type.
type Array struct {
	Elem Type `json:"elem"`
}

func (Array) typeMarker()      {}
func (t Array) String() string { return "array<" + t.Elem.String() + ">" }

// NewArray returns an array type over elem.
func NewArray(elem Type) Array { return Array{Elem: elem} }

// Equal returns true if a and b denote the same type. Object types compare
// by id only.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case AnyType:
		_, ok := b.(AnyType)
		return ok
	case Scalar:
		b, ok := b.(Scalar)
		return ok && a.Kind == b.Kind
	case Object:
		b, ok := b.(Object)
		return ok && a.ID == b.ID
	case Array:
		b, ok := b.(Array)
		return ok && Equal(a.Elem, b.Elem)
	}
	return false
}

// AncestorOracle reports object subtyping. Implemented by the schema: a is
// a subtype of b when b appears among a's ancestors.
type AncestorOracle interface {
	IsSubtype(a, b uuid.UUID) bool
}

// Assignable returns true if a value of type src can be used where dst is
// expected. Scalars follow the implicit-cast lattice; object types follow
// schema inheritance.
func Assignable(oracle AncestorOracle, dst, src Type) bool {
	if _, ok := dst.(AnyType); ok {
		return true
	}
	if Equal(dst, src) {
		return true
	}
	switch dst := dst.(type) {
	case Scalar:
		src, ok := src.(Scalar)
		return ok && implicitCast(src.Kind, dst.Kind)
	case Object:
		src, ok := src.(Object)
		if !ok || oracle == nil {
			return false
		}
		return oracle.IsSubtype(src.ID, dst.ID)
	case Array:
		src, ok := src.(Array)
		return ok && Assignable(oracle, dst.Elem, src.Elem)
	}
	return false
}

// implicitCast holds the widening rules between scalar kinds.
func implicitCast(from, to Kind) bool {
	switch from {
	case Int64:
		return to == Float64 || to == Decimal
	case Float64:
		return to == Decimal
	}
	return false
}

// Unify returns the common type of two operands, if any. Identical types
// unify to themselves; otherwise the operand the other assigns to wins.
func Unify(oracle AncestorOracle, a, b Type) (Type, bool) {
	if Equal(a, b) {
		return a, true
	}
	if Assignable(oracle, a, b) {
		return a, true
	}
	if Assignable(oracle, b, a) {
		return b, true
	}
	return nil, false
}
