// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/types"
)

func sampleQuery() *Query {
	user := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	agePtr := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	agePath := &Path{
		Meta:    Meta{Type: types.NewScalar(types.Int64), Card: types.AtMostOne},
		Binding: "User",
		Steps: []*Step{{
			Pointer: agePtr,
			Name:    "age",
			Type:    types.NewScalar(types.Int64),
			Card:    types.AtMostOne,
		}},
	}
	sel := &Select{
		Meta:    Meta{Type: types.NewObject(user, "default::User"), Card: types.Many},
		Subject: &Path{Meta: Meta{Type: types.NewObject(user, "default::User"), Card: types.Many}, Root: user},
		Filter: &OperatorCall{
			Meta: Meta{Type: types.NewScalar(types.Bool), Card: types.AtMostOne},
			Name: "std::>=",
			Args: []Node{agePath, &Param{
				Meta: Meta{Type: types.NewScalar(types.Int64), Card: types.One},
				Name: "min",
				Num:  1,
			}},
		},
		Limit: &Literal{
			Meta:  Meta{Type: types.NewScalar(types.Int64), Card: types.One},
			Value: int64(10),
		},
	}
	return &Query{
		Meta: Meta{Type: sel.ResultType(), Card: sel.ResultCard()},
		Expr: sel,
		Params: []ParamDecl{{
			Name: "min", Num: 1,
			Type: types.NewScalar(types.Int64),
			Card: types.One,
		}},
	}
}

type countingVisitor struct {
	kinds map[string]int
}

func (v *countingVisitor) Visit(n Node) (Visitor, error) {
	switch n.(type) {
	case *Query:
		v.kinds["query"]++
	case *Select:
		v.kinds["select"]++
	case *Path:
		v.kinds["path"]++
	case *OperatorCall:
		v.kinds["call"]++
	case *Param:
		v.kinds["param"]++
	case *Literal:
		v.kinds["literal"]++
	}
	return v, nil
}

func TestWalkVisitsEveryNode(t *testing.T) {
	vis := &countingVisitor{kinds: map[string]int{}}
	if err := Walk(vis, sampleQuery()); err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"query": 1, "select": 1, "path": 2, "call": 1, "param": 1, "literal": 1}
	for k, n := range want {
		if vis.kinds[k] != n {
			t.Errorf("visited %d %s nodes, want %d", vis.kinds[k], k, n)
		}
	}
}

type haltingVisitor struct {
	stopAt Node
	seen   int
}

func (v *haltingVisitor) Visit(n Node) (Visitor, error) {
	v.seen++
	if n == v.stopAt {
		return nil, errors.New("halt")
	}
	return v, nil
}

func TestWalkPropagatesVisitorError(t *testing.T) {
	q := sampleQuery()
	vis := &haltingVisitor{stopAt: q.Expr}
	if err := Walk(vis, q); err == nil || err.Error() != "halt" {
		t.Fatalf("expected the visitor error, got %v", err)
	}
	if vis.seen != 2 {
		t.Fatalf("walk continued after the error: %d nodes seen", vis.seen)
	}
}

func TestMarshalKindTags(t *testing.T) {
	data, err := json.Marshal(sampleQuery())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(`{"kind":"query",`)) {
		t.Fatalf("query marshaled as %s", data[:40])
	}
	for _, kind := range []string{`"kind":"select"`, `"kind":"path"`, `"kind":"operator_call"`, `"kind":"param"`, `"kind":"literal"`} {
		if !bytes.Contains(data, []byte(kind)) {
			t.Errorf("%s missing from marshaled IR", kind)
		}
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := json.Marshal(sampleQuery())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		next, err := json.Marshal(sampleQuery())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("marshaling diverged on run %d", i)
		}
	}
}
