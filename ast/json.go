// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

// DecodeQuery decodes the kind-tagged JSON form of a query AST, the
// interchange format accepted by the CLI. Unknown kinds and malformed
// nodes are reported as internal errors carrying the offending kind.
func DecodeQuery(data []byte) (*Query, error) {
	var raw struct {
		Aliases []struct {
			Name string          `json:"name"`
			Expr json.RawMessage `json:"expr"`
		} `json:"aliases"`
		Expr json.RawMessage `json:"expr"`
	}
	if err := decodeNode(data, &raw); err != nil {
		return nil, err
	}
	q := &Query{}
	for _, a := range raw.Aliases {
		expr, err := decodeExpr(a.Expr)
		if err != nil {
			return nil, err
		}
		q.Aliases = append(q.Aliases, &AliasDecl{Name: a.Name, Expr: expr})
	}
	expr, err := decodeExpr(raw.Expr)
	if err != nil {
		return nil, err
	}
	q.Expr = expr
	return q, nil
}

func decodeExpr(data []byte) (Expr, *serrors.Error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var kind struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return nil, serrors.NewError(serrors.InternalErr, nil, "malformed AST node: %v", err)
	}

	switch kind.Kind {
	case "path":
		var raw struct {
			Root  string   `json:"root"`
			Steps []string `json:"steps"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		root, perr := names.Parse(raw.Root)
		if perr != nil {
			return nil, perr
		}
		p := &Path{Root: root}
		for _, s := range raw.Steps {
			p.Steps = append(p.Steps, &PathStep{Name: s})
		}
		return p, nil

	case "select":
		var raw struct {
			Subject json.RawMessage `json:"subject"`
			Filter  json.RawMessage `json:"filter"`
			OrderBy []struct {
				Expr json.RawMessage `json:"expr"`
				Desc bool            `json:"desc"`
			} `json:"order_by"`
			Offset json.RawMessage `json:"offset"`
			Limit  json.RawMessage `json:"limit"`
			Shape  []struct {
				Name string          `json:"name"`
				Expr json.RawMessage `json:"expr"`
			} `json:"shape"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		sel := &Select{}
		var err *serrors.Error
		if sel.Subject, err = decodeExpr(raw.Subject); err != nil {
			return nil, err
		}
		if sel.Filter, err = decodeExpr(raw.Filter); err != nil {
			return nil, err
		}
		for _, o := range raw.OrderBy {
			key, oerr := decodeExpr(o.Expr)
			if oerr != nil {
				return nil, oerr
			}
			sel.OrderBy = append(sel.OrderBy, &OrderSpec{Expr: key, Desc: o.Desc})
		}
		if sel.Offset, err = decodeExpr(raw.Offset); err != nil {
			return nil, err
		}
		if sel.Limit, err = decodeExpr(raw.Limit); err != nil {
			return nil, err
		}
		for _, s := range raw.Shape {
			elem := &ShapeElem{Name: s.Name}
			if elem.Expr, err = decodeExpr(s.Expr); err != nil {
				return nil, err
			}
			sel.Shape = append(sel.Shape, elem)
		}
		return sel, nil

	case "binary":
		var raw struct {
			Op  string          `json:"op"`
			LHS json.RawMessage `json:"lhs"`
			RHS json.RawMessage `json:"rhs"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		lhs, err := decodeExpr(raw.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(raw.RHS)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: raw.Op, LHS: lhs, RHS: rhs}, nil

	case "unary":
		var raw struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(raw.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: raw.Op, Operand: operand}, nil

	case "set":
		var raw struct {
			Op  string          `json:"op"`
			LHS json.RawMessage `json:"lhs"`
			RHS json.RawMessage `json:"rhs"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		lhs, err := decodeExpr(raw.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(raw.RHS)
		if err != nil {
			return nil, err
		}
		return &SetExpr{Op: raw.Op, LHS: lhs, RHS: rhs}, nil

	case "call":
		var raw struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		fn, perr := names.Parse(raw.Name)
		if perr != nil {
			return nil, perr
		}
		call := &FuncCall{Name: fn}
		for _, a := range raw.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil

	case "literal":
		var raw struct {
			Value json.RawMessage `json:"value"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		v, err := decodeLiteral(raw.Value)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: v}, nil

	case "param":
		var raw struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		typ, perr := names.Parse(raw.Type)
		if perr != nil {
			return nil, perr
		}
		return &Param{Name: raw.Name, Type: typ}, nil

	case "insert":
		var raw struct {
			Type   string `json:"type"`
			Fields []struct {
				Name string          `json:"name"`
				Expr json.RawMessage `json:"expr"`
			} `json:"fields"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		typ, perr := names.Parse(raw.Type)
		if perr != nil {
			return nil, perr
		}
		ins := &Insert{Type: typ}
		for _, f := range raw.Fields {
			expr, err := decodeExpr(f.Expr)
			if err != nil {
				return nil, err
			}
			ins.Fields = append(ins.Fields, &FieldAssign{Name: f.Name, Expr: expr})
		}
		return ins, nil

	case "update":
		var raw struct {
			Subject json.RawMessage `json:"subject"`
			Filter  json.RawMessage `json:"filter"`
			Sets    []struct {
				Name string          `json:"name"`
				Expr json.RawMessage `json:"expr"`
			} `json:"sets"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		upd := &Update{}
		var err *serrors.Error
		if upd.Subject, err = decodeExpr(raw.Subject); err != nil {
			return nil, err
		}
		if upd.Filter, err = decodeExpr(raw.Filter); err != nil {
			return nil, err
		}
		for _, f := range raw.Sets {
			expr, serr := decodeExpr(f.Expr)
			if serr != nil {
				return nil, serr
			}
			upd.Sets = append(upd.Sets, &FieldAssign{Name: f.Name, Expr: expr})
		}
		return upd, nil

	case "delete":
		var raw struct {
			Subject json.RawMessage `json:"subject"`
			Filter  json.RawMessage `json:"filter"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		del := &Delete{}
		var err *serrors.Error
		if del.Subject, err = decodeExpr(raw.Subject); err != nil {
			return nil, err
		}
		if del.Filter, err = decodeExpr(raw.Filter); err != nil {
			return nil, err
		}
		return del, nil

	case "cast":
		var raw struct {
			Type string          `json:"type"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := decodeNode(data, &raw); err != nil {
			return nil, err
		}
		typ, perr := names.Parse(raw.Type)
		if perr != nil {
			return nil, perr
		}
		expr, err := decodeExpr(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &Cast{Type: typ, Expr: expr}, nil
	}

	return nil, serrors.NewError(serrors.InternalErr, nil, "unknown AST node kind %q", kind.Kind)
}

// decodeLiteral keeps whole JSON numbers as int64 and fractional ones as
// float64, matching the literal typing of the frontend.
func decodeLiteral(data []byte) (any, *serrors.Error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, serrors.NewError(serrors.InternalErr, nil, "malformed literal: %v", err)
	}
	switch v := v.(type) {
	case json.Number:
		if !strings.ContainsAny(v.String(), ".eE") {
			n, err := v.Int64()
			if err != nil {
				return nil, serrors.NewError(serrors.InternalErr, nil, "malformed integer literal %s", v)
			}
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, serrors.NewError(serrors.InternalErr, nil, "malformed float literal %s", v)
		}
		return f, nil
	case string, bool:
		return v, nil
	}
	return nil, serrors.NewError(serrors.InternalErr, nil, "unsupported literal value %s", string(data))
}

func decodeNode(data []byte, into any) *serrors.Error {
	if err := json.Unmarshal(data, into); err != nil {
		return serrors.NewError(serrors.InternalErr, nil, "malformed AST node: %v", err)
	}
	return nil
}
