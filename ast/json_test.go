// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"testing"
)

func TestDecodeQuery(t *testing.T) {
	data := []byte(`{
		"aliases": [
			{"name": "adults", "expr": {"kind": "path", "root": "default::User"}}
		],
		"expr": {
			"kind": "select",
			"subject": {"kind": "path", "root": "adults"},
			"filter": {
				"kind": "binary",
				"op": ">=",
				"lhs": {"kind": "path", "root": "User", "steps": ["age"]},
				"rhs": {"kind": "param", "name": "min", "type": "int64"}
			},
			"order_by": [
				{"expr": {"kind": "path", "root": "User", "steps": ["name"]}, "desc": true}
			],
			"limit": {"kind": "literal", "value": 10},
			"shape": [
				{"name": "name"},
				{"name": "loud", "expr": {
					"kind": "call",
					"name": "upper",
					"args": [{"kind": "path", "root": "User", "steps": ["name"]}]
				}}
			]
		}
	}`)

	q, err := DecodeQuery(data)
	if err != nil {
		t.Fatal(err)
	}

	if len(q.Aliases) != 1 || q.Aliases[0].Name != "adults" {
		t.Fatalf("aliases decoded as %+v", q.Aliases)
	}
	sel, ok := q.Expr.(*Select)
	if !ok {
		t.Fatalf("expr decoded as %T", q.Expr)
	}

	subject := sel.Subject.(*Path)
	if subject.Root.IsQualified() || subject.Root.Local != "adults" {
		t.Fatalf("subject root %+v", subject.Root)
	}

	cmp := sel.Filter.(*BinaryExpr)
	if cmp.Op != ">=" {
		t.Fatalf("filter op %q", cmp.Op)
	}
	lhs := cmp.LHS.(*Path)
	if len(lhs.Steps) != 1 || lhs.Steps[0].Name != "age" {
		t.Fatalf("filter lhs %+v", lhs)
	}
	param := cmp.RHS.(*Param)
	if param.Name != "min" || param.Type.Local != "int64" {
		t.Fatalf("param decoded as %+v", param)
	}

	if len(sel.OrderBy) != 1 || !sel.OrderBy[0].Desc {
		t.Fatalf("order by decoded as %+v", sel.OrderBy)
	}
	if sel.Limit == nil || sel.Offset != nil {
		t.Fatal("bounds decoded wrong")
	}
	if len(sel.Shape) != 2 || sel.Shape[0].Expr != nil || sel.Shape[1].Expr == nil {
		t.Fatalf("shape decoded as %+v", sel.Shape)
	}
	if _, ok := sel.Shape[1].Expr.(*FuncCall); !ok {
		t.Fatalf("computed shape expr decoded as %T", sel.Shape[1].Expr)
	}
}

func TestDecodeLiteralNumbers(t *testing.T) {
	tests := []struct {
		json string
		want any
	}{
		{`{"expr": {"kind": "literal", "value": 42}}`, int64(42)},
		{`{"expr": {"kind": "literal", "value": 4.5}}`, float64(4.5)},
		{`{"expr": {"kind": "literal", "value": 1e3}}`, float64(1000)},
		{`{"expr": {"kind": "literal", "value": "x"}}`, "x"},
		{`{"expr": {"kind": "literal", "value": true}}`, true},
	}
	for _, tc := range tests {
		q, err := DecodeQuery([]byte(tc.json))
		if err != nil {
			t.Errorf("%s: %v", tc.json, err)
			continue
		}
		lit := q.Expr.(*Literal)
		if lit.Value != tc.want {
			t.Errorf("%s decoded as %T(%v), want %T(%v)",
				tc.json, lit.Value, lit.Value, tc.want, tc.want)
		}
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	bad := []string{
		`{"expr": {"kind": "teleport"}}`,
		`{"expr": {"kind": "literal", "value": [1, 2]}}`,
		`{"expr": {"kind": "path", "root": "::User"}}`,
		`{"expr": {"kind": "cast", "type": "", "expr": null}}`,
		`not json`,
	}
	for _, src := range bad {
		if _, err := DecodeQuery([]byte(src)); err == nil {
			t.Errorf("%s: expected an error", src)
		}
	}
}

func TestDecodeUnarySetCast(t *testing.T) {
	q, err := DecodeQuery([]byte(`{
		"expr": {
			"kind": "set",
			"op": "union",
			"lhs": {"kind": "unary", "op": "-", "operand": {"kind": "literal", "value": 1}},
			"rhs": {"kind": "cast", "type": "std::float64", "expr": {"kind": "literal", "value": 2}}
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	set := q.Expr.(*SetExpr)
	if set.Op != "union" {
		t.Fatalf("set op %q", set.Op)
	}
	if _, ok := set.LHS.(*UnaryExpr); !ok {
		t.Fatalf("lhs decoded as %T", set.LHS)
	}
	cast := set.RHS.(*Cast)
	if cast.Type.Module != "std" || cast.Type.Local != "float64" {
		t.Fatalf("cast type %+v", cast.Type)
	}
}
