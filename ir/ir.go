// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ir defines the intermediate representation produced by the query
// frontend and consumed by the backend lowering compiler.
//
// IR trees are fully resolved: every node carries its statically inferred
// result type and cardinality, and schema references are embedded as object
// ids, never names, so no later stage re-resolves anything. Nodes are
// immutable after construction and the tree is acyclic.
package ir

import (
	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// Node is implemented by every IR node.
type Node interface {
	irNode()

	// ResultType returns the statically inferred result type.
	ResultType() types.Type

	// ResultCard returns the inferred cardinality.
	ResultCard() types.Cardinality

	// Loc returns the source position this node was compiled from.
	Loc() *serrors.Location
}

// Meta carries the typing and provenance common to all nodes.
type Meta struct {
	Type     types.Type        `json:"type"`
	Card     types.Cardinality `json:"card"`
	Location *serrors.Location `json:"loc,omitempty"`
}

func (m Meta) ResultType() types.Type        { return m.Type }
func (m Meta) ResultCard() types.Cardinality { return m.Card }
func (m Meta) Loc() *serrors.Location        { return m.Location }

type (
	// Query is the root of a compiled request: the result expression plus
	// the ordered parameter declarations collected during compilation.
	Query struct {
		Meta
		Expr   Node
		Params []ParamDecl
	}

	// ParamDecl is one query parameter in first-use order.
	ParamDecl struct {
		Name string            `json:"name"`
		Num  int               `json:"num"` // 1-based position
		Type types.Type        `json:"type"`
		Card types.Cardinality `json:"card"`
	}

	// Path is a pointer chain rooted at an object type scan or at a bound
	// sub-expression.
	Path struct {
		Meta
		// Root is the object type scanned when Binding is empty.
		Root uuid.UUID
		// Binding names the enclosing alias binding the path starts from,
		// if any.
		Binding string
		Steps   []*Step
	}

	// Step is one pointer traversal of a path.
	Step struct {
		// Pointer is the id of the link or property object.
		Pointer uuid.UUID
		// Name is the pointer's local name. Diagnostics and column naming
		// only; resolution happened in the frontend.
		Name     string
		Type     types.Type
		Card     types.Cardinality
		Computed bool // pointer has an expression instead of storage
	}

	// Select filters, orders and shapes a subject set.
	Select struct {
		Meta
		Subject Node
		Filter  Node // may be nil
		OrderBy []*OrderSpec
		Offset  Node // may be nil
		Limit   Node // may be nil
		Shape   []*ShapeField
	}

	// OrderSpec is one sort key.
	OrderSpec struct {
		Expr Node
		Desc bool
	}

	// ShapeField is one output field of a select shape.
	ShapeField struct {
		Name string
		// Pointer is set for plain pointer fields, Nil for computed ones.
		Pointer uuid.UUID
		Expr    Node
	}

	// OperatorCall applies a resolved operator or function signature.
	OperatorCall struct {
		Meta
		// Name is the canonical signature name, e.g. "std::=" or
		// "std::len".
		Name string
		Args []Node
	}

	// SetOp combines two sets.
	SetOp struct {
		Meta
		Op       string // "union"
		LHS, RHS Node
	}

	// Literal is a scalar constant.
	Literal struct {
		Meta
		Value any
	}

	// Param references a declared query parameter.
	Param struct {
		Meta
		Name string
		Num  int
	}

	// Cast converts a value to a scalar type.
	Cast struct {
		Meta
		To   types.Type
		Expr Node
	}

	// Alias binds a sub-expression so correlated references share one
	// evaluation.
	Alias struct {
		Meta
		Name string
		Bind Node
		In   Node
	}

	// Insert writes one new object row and yields it.
	Insert struct {
		Meta
		// Object is the concrete type receiving the row.
		Object uuid.UUID
		Fields []*WriteField
	}

	// WriteField assigns one stored single pointer in a DML statement.
	WriteField struct {
		Pointer uuid.UUID
		// Name is the pointer's local name, which is also its column.
		Name  string
		Value Node
	}

	// Update rewrites stored pointers on every row of the subject set and
	// yields the affected rows.
	Update struct {
		Meta
		Subject Node
		Filter  Node // may be nil
		Fields  []*WriteField
	}

	// Delete removes every row of the subject set and yields them.
	Delete struct {
		Meta
		Subject Node
		Filter  Node // may be nil
	}
)

func (*Query) irNode()        {}
func (*Path) irNode()         {}
func (*Select) irNode()       {}
func (*OperatorCall) irNode() {}
func (*SetOp) irNode()        {}
func (*Literal) irNode()      {}
func (*Param) irNode()        {}
func (*Cast) irNode()         {}
func (*Alias) irNode()        {}
func (*Insert) irNode()       {}
func (*Update) irNode()       {}
func (*Delete) irNode()       {}
