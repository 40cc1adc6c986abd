// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"testing"

	"github.com/halcyondb/halcyon/names"
)

func sampleQuery() *Query {
	return &Query{
		Aliases: []*AliasDecl{{
			Name: "adults",
			Expr: &Path{Root: names.Name{Module: "default", Local: "User"}},
		}},
		Expr: &Select{
			Subject: &Path{Root: names.Name{Local: "adults"}},
			Filter: &BinaryExpr{
				Op:  ">=",
				LHS: &Path{Root: names.Name{Local: "User"}, Steps: []*PathStep{{Name: "age"}}},
				RHS: &Param{Name: "min", Type: names.Name{Local: "int64"}},
			},
			Shape: []*ShapeElem{
				{Name: "name"},
				{Name: "loud", Expr: &FuncCall{
					Name: names.Name{Local: "upper"},
					Args: []Expr{&Path{Root: names.Name{Local: "User"}, Steps: []*PathStep{{Name: "name"}}}},
				}},
			},
		},
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	counts := map[string]int{}
	Walk(NewGenericVisitor(func(x Node) bool {
		switch x.(type) {
		case *Path:
			counts["path"]++
		case *PathStep:
			counts["step"]++
		case *Select:
			counts["select"]++
		case *Param:
			counts["param"]++
		case *FuncCall:
			counts["call"]++
		case *AliasDecl:
			counts["alias"]++
		}
		return false
	}), sampleQuery())

	want := map[string]int{"path": 4, "step": 2, "select": 1, "param": 1, "call": 1, "alias": 1}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("visited %d %s nodes, want %d", counts[k], k, n)
		}
	}
}

func TestWalkPruning(t *testing.T) {
	// Stopping at the select must hide everything beneath it.
	var paths int
	Walk(NewGenericVisitor(func(x Node) bool {
		if _, ok := x.(*Path); ok {
			paths++
		}
		_, isSelect := x.(*Select)
		return isSelect
	}), sampleQuery())

	if paths != 1 {
		t.Fatalf("pruned walk visited %d paths, want only the alias expression", paths)
	}
}

func TestWalkPathsAndParams(t *testing.T) {
	var roots []string
	WalkPaths(sampleQuery(), func(p *Path) bool {
		roots = append(roots, p.Root.String())
		return false
	})
	if len(roots) != 4 {
		t.Fatalf("WalkPaths visited %v", roots)
	}

	var params []string
	WalkParams(sampleQuery(), func(p *Param) bool {
		params = append(params, p.Name)
		return false
	})
	if len(params) != 1 || params[0] != "min" {
		t.Fatalf("WalkParams visited %v", params)
	}
}
