// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

// Visitor defines the interface for iterating AST elements. The Visit
// function can return a Visitor w which will be used to visit the children
// of the AST element v. If the Visit function returns nil, the children
// will not be visited.
type Visitor interface {
	Visit(v Node) (w Visitor)
}

// Walk iterates the AST by calling the Visit function on the Visitor v for
// x before recursing.
func Walk(v Visitor, x Node) {
	w := v.Visit(x)
	if w == nil {
		return
	}
	switch x := x.(type) {
	case *Query:
		for _, a := range x.Aliases {
			Walk(w, a)
		}
		Walk(w, x.Expr)
	case *AliasDecl:
		Walk(w, x.Expr)
	case *Path:
		for _, s := range x.Steps {
			Walk(w, s)
		}
	case *Select:
		Walk(w, x.Subject)
		if x.Filter != nil {
			Walk(w, x.Filter)
		}
		for _, o := range x.OrderBy {
			Walk(w, o)
		}
		if x.Offset != nil {
			Walk(w, x.Offset)
		}
		if x.Limit != nil {
			Walk(w, x.Limit)
		}
		for _, s := range x.Shape {
			Walk(w, s)
		}
	case *OrderSpec:
		Walk(w, x.Expr)
	case *ShapeElem:
		if x.Expr != nil {
			Walk(w, x.Expr)
		}
	case *BinaryExpr:
		Walk(w, x.LHS)
		Walk(w, x.RHS)
	case *UnaryExpr:
		Walk(w, x.Operand)
	case *SetExpr:
		Walk(w, x.LHS)
		Walk(w, x.RHS)
	case *FuncCall:
		for _, a := range x.Args {
			Walk(w, a)
		}
	case *Cast:
		Walk(w, x.Expr)
	case *Insert:
		for _, f := range x.Fields {
			Walk(w, f)
		}
	case *FieldAssign:
		Walk(w, x.Expr)
	case *Update:
		Walk(w, x.Subject)
		if x.Filter != nil {
			Walk(w, x.Filter)
		}
		for _, f := range x.Sets {
			Walk(w, f)
		}
	case *Delete:
		Walk(w, x.Subject)
		if x.Filter != nil {
			Walk(w, x.Filter)
		}
	}
}

// GenericVisitor implements the Visitor interface to walk the AST with a
// closure. If the closure returns true, nodes under x are not visited.
type GenericVisitor struct {
	f func(x Node) bool
}

// NewGenericVisitor returns a visitor driven by f.
func NewGenericVisitor(f func(x Node) bool) *GenericVisitor {
	return &GenericVisitor{f: f}
}

// Visit calls the closure on x.
func (vis *GenericVisitor) Visit(x Node) Visitor {
	if vis.f(x) {
		return nil
	}
	return vis
}

// WalkPaths calls f on every path under x. If f returns true, nodes under
// that path are not visited.
func WalkPaths(x Node, f func(*Path) bool) {
	Walk(NewGenericVisitor(func(n Node) bool {
		if p, ok := n.(*Path); ok {
			return f(p)
		}
		return false
	}), x)
}

// WalkParams calls f on every parameter reference under x.
func WalkParams(x Node, f func(*Param) bool) {
	Walk(NewGenericVisitor(func(n Node) bool {
		if p, ok := n.(*Param); ok {
			return f(p)
		}
		return false
	}), x)
}
