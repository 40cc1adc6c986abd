// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ordering

import (
	"testing"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
)

func qn(module, local string) names.QualName { return names.New(module, local) }

func TestOrderCreatesBasesFirst(t *testing.T) {
	// Declared child-first; the order must put the base create ahead.
	ops := []schema.Operation{
		&schema.CreateObject{
			Name:  qn("default", "B"),
			Kind:  schema.KindObjectType,
			Bases: []names.QualName{qn("default", "A")},
		},
		&schema.CreateObject{
			Name:     qn("default", "A"),
			Kind:     schema.KindObjectType,
			Abstract: true,
		},
	}

	ordered, err := OrderOperations(schema.New(), ops)
	if err != nil {
		t.Fatal(err)
	}
	if len(ordered) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ordered))
	}
	if ordered[0].TargetName() != qn("default", "A") {
		t.Fatalf("base not first: %v", ordered[0])
	}

	// The reordered batch applies cleanly.
	if _, aerr := schema.New().Apply(schema.Delta{Ops: ordered}); aerr != nil {
		t.Fatal(aerr)
	}
}

func TestOrderMutualForwardReferenceSplits(t *testing.T) {
	// A and B reference each other through deferrable fields. One create is
	// split into a stub plus a completion alter; the whole batch must apply.
	ops := []schema.Operation{
		&schema.CreateObject{
			Name: qn("default", "A"),
			Kind: schema.KindObjectType,
			Fields: []schema.FieldInit{
				{Field: "other", Value: schema.OpRef{Name: qn("default", "B")}},
			},
		},
		&schema.CreateObject{
			Name: qn("default", "B"),
			Kind: schema.KindObjectType,
			Fields: []schema.FieldInit{
				{Field: "other", Value: schema.OpRef{Name: qn("default", "A")}},
			},
		},
	}

	ordered, err := OrderOperations(schema.New(), ops)
	if err != nil {
		t.Fatal(err)
	}
	if len(ordered) != 3 {
		t.Fatalf("expected stub + create + completion, got %d operations", len(ordered))
	}

	stub, ok := ordered[0].(*schema.CreateObject)
	if !ok || stub.Name != qn("default", "A") {
		t.Fatalf("expected the stub create of A first, got %v", ordered[0])
	}
	if len(stub.Fields) != 0 {
		t.Fatalf("stub still carries the deferred field: %+v", stub.Fields)
	}
	if _, ok := ordered[1].(*schema.CreateObject); !ok || ordered[1].TargetName() != qn("default", "B") {
		t.Fatalf("expected the create of B second, got %v", ordered[1])
	}
	completion, ok := ordered[2].(*schema.AlterObject)
	if !ok || completion.Name != qn("default", "A") {
		t.Fatalf("expected the completion alter of A last, got %v", ordered[2])
	}
	if len(completion.SetFields) != 1 || completion.SetFields[0].Field != "other" {
		t.Fatalf("completion misses the deferred field: %+v", completion.SetFields)
	}

	applied, aerr := schema.New().Apply(schema.Delta{Ops: ordered})
	if aerr != nil {
		t.Fatal(aerr)
	}
	a, gerr := applied.Get(qn("default", "A"))
	if gerr != nil {
		t.Fatal(gerr)
	}
	if _, ok := a.Field("other"); !ok {
		t.Fatal("deferred field never completed")
	}
}

func TestOrderPointerSourceIsHard(t *testing.T) {
	// A pointer's source edge cannot be deferred: the source create must
	// come first, with no split.
	ops := []schema.Operation{
		&schema.CreateObject{
			Name: qn("default", "A.name"),
			Kind: schema.KindProperty,
			Fields: []schema.FieldInit{
				{Field: "source", Value: schema.OpRef{Name: qn("default", "A")}},
				{Field: "target", Value: schema.OpRef{Name: qn("std", "str")}},
			},
		},
		&schema.CreateObject{Name: qn("std", "str"), Kind: schema.KindScalarType},
		&schema.CreateObject{Name: qn("default", "A"), Kind: schema.KindObjectType},
	}

	ordered, err := OrderOperations(schema.New(), ops)
	if err != nil {
		t.Fatal(err)
	}
	pos := map[names.QualName]int{}
	for i, op := range ordered {
		pos[op.TargetName()] = i
	}
	if pos[qn("default", "A")] > pos[qn("default", "A.name")] {
		t.Fatal("pointer ordered before its source")
	}

	if _, aerr := schema.New().Apply(schema.Delta{Ops: ordered}); aerr != nil {
		t.Fatal(aerr)
	}
}

func TestOrderHardCycleFails(t *testing.T) {
	// Two pointers claiming each other as source form an unbreakable cycle.
	ops := []schema.Operation{
		&schema.CreateObject{
			Name: qn("default", "A"),
			Kind: schema.KindLink,
			Fields: []schema.FieldInit{
				{Field: "source", Value: schema.OpRef{Name: qn("default", "B")}},
			},
		},
		&schema.CreateObject{
			Name: qn("default", "B"),
			Kind: schema.KindLink,
			Fields: []schema.FieldInit{
				{Field: "source", Value: schema.OpRef{Name: qn("default", "A")}},
			},
		},
	}

	_, err := OrderOperations(schema.New(), ops)
	if !serrors.IsError(err, serrors.CyclicDependencyErr) {
		t.Fatalf("expected CyclicDependency, got %v", err)
	}
}

func TestOrderDropsReversed(t *testing.T) {
	base, aerr := schema.New().Apply(schema.Delta{Ops: []schema.Operation{
		&schema.CreateObject{Name: qn("default", "A"), Kind: schema.KindObjectType, Abstract: true},
		&schema.CreateObject{
			Name:  qn("default", "B"),
			Kind:  schema.KindObjectType,
			Bases: []names.QualName{qn("default", "A")},
		},
	}})
	if aerr != nil {
		t.Fatal(aerr)
	}

	// Declared base-first; drops must come out leaf-first.
	ops := []schema.Operation{
		&schema.DropObject{Name: qn("default", "A")},
		&schema.DropObject{Name: qn("default", "B")},
	}
	ordered, err := OrderOperations(base, ops)
	if err != nil {
		t.Fatal(err)
	}
	if ordered[0].TargetName() != qn("default", "B") {
		t.Fatalf("dependent not dropped first: %v", ordered[0])
	}

	next, aerr := base.Apply(schema.Delta{BaseVersion: base.Version(), Ops: ordered})
	if aerr != nil {
		t.Fatal(aerr)
	}
	if next.Len() != 0 {
		t.Fatalf("%d objects survived the drop batch", next.Len())
	}
}

func TestOrderAlterAfterCreate(t *testing.T) {
	ops := []schema.Operation{
		&schema.AlterObject{
			Name:      qn("default", "A"),
			SetFields: []schema.FieldInit{{Field: "note", Value: schema.OpStr("x")}},
		},
		&schema.CreateObject{Name: qn("default", "A"), Kind: schema.KindObjectType},
	}
	ordered, err := OrderOperations(schema.New(), ops)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ordered[0].(*schema.CreateObject); !ok {
		t.Fatalf("create not first: %v", ordered[0])
	}
	if _, aerr := schema.New().Apply(schema.Delta{Ops: ordered}); aerr != nil {
		t.Fatal(aerr)
	}
}
