// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pgsql

import (
	"github.com/halcyondb/halcyon/ir"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// infixOps maps canonical binary operator names to SQL operators.
var infixOps = map[string]string{
	"std::=":    "=",
	"std::!=":   "<>",
	"std::<":    "<",
	"std::<=":   "<=",
	"std::>":    ">",
	"std::>=":   ">=",
	"std::+":    "+",
	"std::-":    "-",
	"std::*":    "*",
	"std::/":    "/",
	"std::and":  "AND",
	"std::or":   "OR",
	"std::++":   "||",
	"std::like": "LIKE",
}

// prefixOps maps canonical unary operator names to SQL operators.
var prefixOps = map[string]string{
	"std::-":   "-",
	"std::not": "NOT",
}

// callFns maps canonical function names to single-argument SQL functions.
var callFns = map[string]string{
	"std::len":   "length",
	"std::lower": "lower",
	"std::upper": "upper",
	"std::abs":   "abs",
}

// aggFns maps canonical aggregate names to SQL aggregate functions applied
// to the argument set's value column.
var aggFns = map[string]string{
	"std::sum": "sum",
	"std::min": "min",
	"std::max": "max",
}

// lowerScalar lowers a node in expression position: a SQL scalar
// expression evaluated against the row aliases currently in scope.
func (l *lowerer) lowerScalar(n ir.Node) (string, *serrors.Error) {
	switch n := n.(type) {
	case *ir.Literal:
		s, ok := renderLiteral(n.Value)
		if !ok {
			return "", l.invariant(n, nil, "literal value has no SQL rendering")
		}
		return s, nil

	case *ir.Param:
		return paramRef(n.Num), nil

	case *ir.Cast:
		inner, err := l.lowerScalar(n.Expr)
		if err != nil {
			return "", err
		}
		st, ok := sqlType(n.To)
		if !ok {
			return "", l.invariant(n, nil, "cast target %v has no storage type", n.To)
		}
		return "CAST(" + inner + " AS " + st + ")", nil

	case *ir.OperatorCall:
		return l.lowerCall(n)

	case *ir.Path:
		if expr, ok, err := l.inlinePath(n); err != nil {
			return "", err
		} else if ok {
			return expr, nil
		}
	}

	// Set-valued operand in expression position: a correlated scalar
	// subquery over the lowered relation.
	rel, err := l.lowerRel(n)
	if err != nil {
		return "", err
	}
	return l.scalarFromRel(n, rel)
}

// inlinePath renders a path rooted at a correlated subject row whose
// single step is a pointer access, the overwhelmingly common filter and
// shape form, as a plain column expression.
func (l *lowerer) inlinePath(n *ir.Path) (string, bool, *serrors.Error) {
	if n.Binding == "" || len(n.Steps) != 1 {
		return "", false, nil
	}
	b, ok := l.ctx.Scope().Lookup(n.Binding)
	if !ok {
		return "", false, l.invariant(n, nil, "path binding %q is not in scope", n.Binding)
	}
	row, ok := b.Ref.(rowRef)
	if !ok {
		return "", false, nil
	}
	ptr, gerr := l.ctx.Schema.GetByID(n.Steps[0].Pointer)
	if gerr != nil {
		return "", false, l.invariant(n, gerr, "path pointer is not in the schema")
	}
	expr, _, err := l.pointerColumn(ptr, row.alias)
	if err != nil {
		return "", false, err
	}
	return expr, true, nil
}

func (l *lowerer) lowerCall(n *ir.OperatorCall) (string, *serrors.Error) {
	switch n.Name {
	case "std::exists":
		rel, err := l.lowerRel(n.Args[0])
		if err != nil {
			return "", err
		}
		return "EXISTS (" + rel.sql + ")", nil

	case "std::count":
		rel, err := l.lowerRel(n.Args[0])
		if err != nil {
			return "", err
		}
		a := l.ctx.FreshAlias("a")
		return "(SELECT count(*) FROM (" + rel.sql + ") AS " + quoteIdent(a) + ")", nil

	case "std::??":
		lhs, err := l.lowerScalar(n.Args[0])
		if err != nil {
			return "", err
		}
		rhs, err := l.lowerScalar(n.Args[1])
		if err != nil {
			return "", err
		}
		return "COALESCE(" + lhs + ", " + rhs + ")", nil

	case "std::contains":
		str, err := l.lowerScalar(n.Args[0])
		if err != nil {
			return "", err
		}
		sub, err := l.lowerScalar(n.Args[1])
		if err != nil {
			return "", err
		}
		return "(position(" + sub + " in " + str + ") > 0)", nil
	}

	if fn, ok := aggFns[n.Name]; ok {
		rel, err := l.lowerRel(n.Args[0])
		if err != nil {
			return "", err
		}
		if len(rel.cols) != 1 {
			return "", l.invariant(n, nil, "aggregate %s over a non-scalar set", n.Name)
		}
		a := l.ctx.FreshAlias("a")
		return "(SELECT " + fn + "(" + quoteIdent(a) + "." + quoteIdent(rel.cols[0].Name) +
			") FROM (" + rel.sql + ") AS " + quoteIdent(a) + ")", nil
	}

	if len(n.Args) == 2 {
		if op, ok := infixOps[n.Name]; ok {
			lhs, err := l.lowerScalar(n.Args[0])
			if err != nil {
				return "", err
			}
			rhs, err := l.lowerScalar(n.Args[1])
			if err != nil {
				return "", err
			}
			return "(" + lhs + " " + op + " " + rhs + ")", nil
		}
	}
	if len(n.Args) == 1 {
		if op, ok := prefixOps[n.Name]; ok {
			arg, err := l.lowerScalar(n.Args[0])
			if err != nil {
				return "", err
			}
			return "(" + op + " " + arg + ")", nil
		}
		if fn, ok := callFns[n.Name]; ok {
			arg, err := l.lowerScalar(n.Args[0])
			if err != nil {
				return "", err
			}
			return fn + "(" + arg + ")", nil
		}
	}

	return "", l.invariant(n, nil, "operator %s has no SQL rendering", n.Name)
}

// scalarFromRel wraps a lowered relation as a scalar subquery. Object
// sets compare and project by id.
func (l *lowerer) scalarFromRel(n ir.Node, r *rel) (string, *serrors.Error) {
	if len(r.cols) == 1 {
		return "(" + r.sql + ")", nil
	}
	if _, ok := n.ResultType().(types.Object); ok {
		a := l.ctx.FreshAlias("a")
		return "(SELECT " + quoteIdent(a) + "." + quoteIdent("id") +
			" FROM (" + r.sql + ") AS " + quoteIdent(a) + ")", nil
	}
	return "", l.invariant(n, nil, "multi-column set in expression position")
}
