// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ir

// Visitor defines the interface for visiting IR nodes.
type Visitor interface {
	Visit(Node) (Visitor, error)
}

// Walk invokes the visitor for nodes under x, pre-order.
func Walk(vis Visitor, x Node) error {
	w, err := vis.Visit(x)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}
	for _, child := range children(x) {
		if child == nil {
			continue
		}
		if err := Walk(w, child); err != nil {
			return err
		}
	}
	return nil
}

func children(x Node) []Node {
	switch x := x.(type) {
	case *Query:
		return []Node{x.Expr}
	case *Path:
		return nil
	case *Select:
		out := []Node{x.Subject, x.Filter}
		for _, o := range x.OrderBy {
			out = append(out, o.Expr)
		}
		out = append(out, x.Offset, x.Limit)
		for _, f := range x.Shape {
			out = append(out, f.Expr)
		}
		return out
	case *OperatorCall:
		return x.Args
	case *SetOp:
		return []Node{x.LHS, x.RHS}
	case *Cast:
		return []Node{x.Expr}
	case *Alias:
		return []Node{x.Bind, x.In}
	case *Insert:
		out := make([]Node, 0, len(x.Fields))
		for _, f := range x.Fields {
			out = append(out, f.Value)
		}
		return out
	case *Update:
		out := []Node{x.Subject, x.Filter}
		for _, f := range x.Fields {
			out = append(out, f.Value)
		}
		return out
	case *Delete:
		return []Node{x.Subject, x.Filter}
	}
	return nil
}
