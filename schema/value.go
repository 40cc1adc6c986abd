// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ValueKind tags the closed set of field value kinds.
type ValueKind string

const (
	KindStr     ValueKind = "str"
	KindInt     ValueKind = "int"
	KindFloat   ValueKind = "float"
	KindBool    ValueKind = "bool"
	KindRef     ValueKind = "ref"
	KindRefList ValueKind = "reflist"
	KindExpr    ValueKind = "expr"
)

// Value is a schema field value: a scalar, a reference to another object,
// or an ordered collection of references. Values are immutable.
type Value interface {
	ValueKind() ValueKind

	// Equal reports value equality. Used by the delegated-exclusive scan
	// and by structural diffing.
	Equal(Value) bool

	String() string
}

// StrVal is a string field value.
type StrVal string

func (StrVal) ValueKind() ValueKind { return KindStr }
func (v StrVal) String() string     { return strconv.Quote(string(v)) }

func (v StrVal) Equal(other Value) bool {
	o, ok := other.(StrVal)
	return ok && v == o
}

// IntVal is an integer field value.
type IntVal int64

func (IntVal) ValueKind() ValueKind { return KindInt }
func (v IntVal) String() string     { return strconv.FormatInt(int64(v), 10) }

func (v IntVal) Equal(other Value) bool {
	o, ok := other.(IntVal)
	return ok && v == o
}

// FloatVal is a float field value.
type FloatVal float64

func (FloatVal) ValueKind() ValueKind { return KindFloat }
func (v FloatVal) String() string     { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v FloatVal) Equal(other Value) bool {
	o, ok := other.(FloatVal)
	return ok && v == o
}

// BoolVal is a boolean field value.
type BoolVal bool

func (BoolVal) ValueKind() ValueKind { return KindBool }
func (v BoolVal) String() string     { return strconv.FormatBool(bool(v)) }

func (v BoolVal) Equal(other Value) bool {
	o, ok := other.(BoolVal)
	return ok && v == o
}

// RefVal references another schema object by id.
type RefVal struct {
	ID uuid.UUID
}

func (RefVal) ValueKind() ValueKind { return KindRef }
func (v RefVal) String() string     { return "<" + v.ID.String() + ">" }

func (v RefVal) Equal(other Value) bool {
	o, ok := other.(RefVal)
	return ok && v.ID == o.ID
}

// RefListVal is an ordered collection of object references.
type RefListVal struct {
	IDs []uuid.UUID
}

func (RefListVal) ValueKind() ValueKind { return KindRefList }

func (v RefListVal) String() string {
	parts := make([]string, len(v.IDs))
	for i, id := range v.IDs {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v RefListVal) Equal(other Value) bool {
	o, ok := other.(RefListVal)
	if !ok || len(v.IDs) != len(o.IDs) {
		return false
	}
	for i := range v.IDs {
		if v.IDs[i] != o.IDs[i] {
			return false
		}
	}
	return true
}

// ExprVal holds the source text of a computed expression (e.g. a computed
// property). The core stores it opaquely; the frontend compiles it on
// demand.
type ExprVal string

func (ExprVal) ValueKind() ValueKind { return KindExpr }
func (v ExprVal) String() string     { return fmt.Sprintf("(%s)", string(v)) }

func (v ExprVal) Equal(other Value) bool {
	o, ok := other.(ExprVal)
	return ok && v == o
}

// refsOf returns the ids referenced by a value, in order.
func refsOf(v Value) []uuid.UUID {
	switch v := v.(type) {
	case RefVal:
		return []uuid.UUID{v.ID}
	case RefListVal:
		return v.IDs
	}
	return nil
}
