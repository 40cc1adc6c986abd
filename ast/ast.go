// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ast declares the resolved abstract syntax tree consumed by the
// query frontend. The external parser produces these nodes; the core
// assumes they are syntactically well-formed and does not re-validate
// grammar. Node kinds form a closed set: every consumer dispatches
// exhaustively and treats an unknown kind as an internal defect.
package ast

import (
	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

// Node is implemented by every AST element.
type Node interface {
	node()

	// Loc returns the source position of the element.
	Loc() *serrors.Location
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

type (
	// Query is the root of a compilation request: optional alias
	// declarations followed by the result expression.
	Query struct {
		Aliases  []*AliasDecl
		Expr     Expr
		Location *serrors.Location
	}

	// AliasDecl binds a name to a set expression for the rest of the
	// query (`with a := ...`).
	AliasDecl struct {
		Name     string
		Expr     Expr
		Location *serrors.Location
	}

	// Path is a chain of pointer traversals rooted at a schema type name
	// or at a previously declared alias.
	Path struct {
		Root     names.Name // type or alias reference
		Steps    []*PathStep
		Location *serrors.Location
	}

	// PathStep is a single pointer traversal.
	PathStep struct {
		Name     string
		Location *serrors.Location
	}

	// Select filters and shapes a subject set.
	Select struct {
		Subject  Expr
		Filter   Expr // may be nil
		OrderBy  []*OrderSpec
		Offset   Expr // may be nil
		Limit    Expr // may be nil
		Shape    []*ShapeElem
		Location *serrors.Location
	}

	// OrderSpec is one sort key of a select.
	OrderSpec struct {
		Expr     Expr
		Desc     bool
		Location *serrors.Location
	}

	// ShapeElem selects or computes one output field of a select shape.
	ShapeElem struct {
		Name     string
		Expr     Expr // nil for a plain pointer reference
		Location *serrors.Location
	}

	// BinaryExpr applies a binary operator to two scalar-valued operands.
	BinaryExpr struct {
		Op       string
		LHS, RHS Expr
		Location *serrors.Location
	}

	// UnaryExpr applies a unary operator ("not", "-", "exists").
	UnaryExpr struct {
		Op       string
		Operand  Expr
		Location *serrors.Location
	}

	// SetExpr combines two sets ("union").
	SetExpr struct {
		Op       string
		LHS, RHS Expr
		Location *serrors.Location
	}

	// FuncCall invokes a built-in function.
	FuncCall struct {
		Name     names.Name
		Args     []Expr
		Location *serrors.Location
	}

	// Literal is a scalar constant. Value holds one of string, int64,
	// float64 or bool.
	Literal struct {
		Value    any
		Location *serrors.Location
	}

	// Param references a query parameter ($name).
	Param struct {
		Name     string
		Type     names.Name // declared parameter type
		Location *serrors.Location
	}

	// Cast converts an expression to a named scalar type.
	Cast struct {
		Type     names.Name
		Expr     Expr
		Location *serrors.Location
	}

	// Insert creates one object of a concrete type and yields it.
	Insert struct {
		Type     names.Name
		Fields   []*FieldAssign
		Location *serrors.Location
	}

	// FieldAssign assigns one pointer in an insert or update.
	FieldAssign struct {
		Name     string
		Expr     Expr
		Location *serrors.Location
	}

	// Update rewrites pointers on the rows of a subject set.
	Update struct {
		Subject  Expr
		Filter   Expr // may be nil
		Sets     []*FieldAssign
		Location *serrors.Location
	}

	// Delete removes the rows of a subject set.
	Delete struct {
		Subject  Expr
		Filter   Expr // may be nil
		Location *serrors.Location
	}
)

func (*Query) node()      {}
func (*AliasDecl) node()  {}
func (*Path) node()       {}
func (*PathStep) node()   {}
func (*Select) node()     {}
func (*OrderSpec) node()  {}
func (*ShapeElem) node()  {}
func (*BinaryExpr) node() {}
func (*UnaryExpr) node()  {}
func (*SetExpr) node()    {}
func (*FuncCall) node()   {}
func (*Literal) node()     {}
func (*Param) node()       {}
func (*Cast) node()        {}
func (*Insert) node()      {}
func (*FieldAssign) node() {}
func (*Update) node()      {}
func (*Delete) node()      {}

func (*Path) expr()       {}
func (*Select) expr()     {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*SetExpr) expr()    {}
func (*FuncCall) expr()   {}
func (*Literal) expr()    {}
func (*Param) expr()      {}
func (*Cast) expr()       {}
func (*Insert) expr()     {}
func (*Update) expr()     {}
func (*Delete) expr()     {}

func (x *Query) Loc() *serrors.Location      { return x.Location }
func (x *AliasDecl) Loc() *serrors.Location  { return x.Location }
func (x *Path) Loc() *serrors.Location       { return x.Location }
func (x *PathStep) Loc() *serrors.Location   { return x.Location }
func (x *Select) Loc() *serrors.Location     { return x.Location }
func (x *OrderSpec) Loc() *serrors.Location  { return x.Location }
func (x *ShapeElem) Loc() *serrors.Location  { return x.Location }
func (x *BinaryExpr) Loc() *serrors.Location { return x.Location }
func (x *UnaryExpr) Loc() *serrors.Location  { return x.Location }
func (x *SetExpr) Loc() *serrors.Location    { return x.Location }
func (x *FuncCall) Loc() *serrors.Location   { return x.Location }
func (x *Literal) Loc() *serrors.Location    { return x.Location }
func (x *Param) Loc() *serrors.Location       { return x.Location }
func (x *Cast) Loc() *serrors.Location        { return x.Location }
func (x *Insert) Loc() *serrors.Location      { return x.Location }
func (x *FieldAssign) Loc() *serrors.Location { return x.Location }
func (x *Update) Loc() *serrors.Location      { return x.Location }
func (x *Delete) Loc() *serrors.Location      { return x.Location }
