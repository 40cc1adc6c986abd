// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

func TestCreateDuplicate(t *testing.T) {
	s := mustApply(t, New(), create(t, "default::A", KindObjectType, false, nil))
	applyErr(t, s, serrors.SchemaIntegrityErr,
		create(t, "default::A", KindObjectType, false, nil))
}

func TestCreateUnknownBase(t *testing.T) {
	applyErr(t, New(), serrors.SchemaIntegrityErr,
		create(t, "default::A", KindObjectType, false, []string{"default::Missing"}))
}

func TestCreateKindMismatchBase(t *testing.T) {
	s := mustApply(t, New(), create(t, "std::str", KindScalarType, false, nil))
	applyErr(t, s, serrors.SchemaIntegrityErr,
		create(t, "default::A", KindObjectType, false, []string{"std::str"}))
}

func TestAlterAddBasesKindMismatch(t *testing.T) {
	// Adding a base after the fact obeys the same kind rule as creation.
	s := mustApply(t, New(),
		create(t, "std::str", KindScalarType, false, nil),
		create(t, "default::A", KindObjectType, false, nil),
	)
	applyErr(t, s, serrors.SchemaIntegrityErr,
		&AlterObject{Name: qn(t, "default::A"), AddBases: []names.QualName{qn(t, "std::str")}})
}

func TestCreateForwardReferenceInBatch(t *testing.T) {
	// Within one batch, later operations may reference objects created by
	// earlier ones; the reverse order fails.
	mustApply(t, New(),
		create(t, "default::A", KindObjectType, true, nil),
		create(t, "default::B", KindObjectType, false, []string{"default::A"}),
	)

	applyErr(t, New(), serrors.SchemaIntegrityErr,
		create(t, "default::B", KindObjectType, false, []string{"default::A"}),
		create(t, "default::A", KindObjectType, true, nil),
	)
}

func TestOverloadedFieldRules(t *testing.T) {
	base := mustApply(t, baseSchema(t),
		create(t, "default::Person", KindObjectType, false, []string{"default::Named"},
			field("note", OpStr("base"))),
	)

	tests := []struct {
		note    string
		init    FieldInit
		wantErr serrors.Code
	}{
		{
			note:    "shadow without overloaded flag",
			init:    field("note", OpStr("override")),
			wantErr: serrors.SchemaIntegrityErr,
		},
		{
			note: "overloaded with kind mismatch",
			init: FieldInit{Field: "note", Value: OpInt(1), Overloaded: true},
			// Base declares a string; an int overload is not type-compatible.
			wantErr: serrors.TypeMismatchErr,
		},
		{
			note:    "overloaded without base declaration",
			init:    FieldInit{Field: "nothere", Value: OpStr("x"), Overloaded: true},
			wantErr: serrors.SchemaIntegrityErr,
		},
		{
			note: "valid overload",
			init: FieldInit{Field: "note", Value: OpStr("override"), Overloaded: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			op := create(t, "default::Employee", KindObjectType, false,
				[]string{"default::Person"}, tc.init)
			next, err := base.Apply(Delta{BaseVersion: base.Version(), Ops: []Operation{op}})
			if tc.wantErr != "" {
				if !serrors.IsError(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			emp, gerr := next.Get(qn(t, "default::Employee"))
			if gerr != nil {
				t.Fatal(gerr)
			}
			def, declaring, ok := next.FieldValue(emp, "note")
			if !ok || declaring.ID() != emp.ID() {
				t.Fatal("overload not effective on the subclass")
			}
			if !def.Value.Equal(StrVal("override")) {
				t.Fatalf("unexpected value %v", def.Value)
			}
		})
	}
}

func TestAlterRename(t *testing.T) {
	s := mustApply(t, baseSchema(t),
		create(t, "default::Person", KindObjectType, false, []string{"default::Named"}))

	person, err := s.Get(qn(t, "default::Person"))
	if err != nil {
		t.Fatal(err)
	}
	id := person.ID()

	renamed := qn(t, "default::Human")
	s2 := mustApply(t, s, &AlterObject{Name: qn(t, "default::Person"), RenameTo: &renamed})

	if _, err := s2.Get(qn(t, "default::Person")); err == nil {
		t.Fatal("old name still resolves")
	}
	human, err := s2.Get(qn(t, "default::Human"))
	if err != nil {
		t.Fatal(err)
	}
	if human.ID() != id {
		t.Fatalf("rename changed the object id: %v -> %v", id, human.ID())
	}
}

func TestAlterRenameCollision(t *testing.T) {
	s := mustApply(t, New(),
		create(t, "default::A", KindObjectType, false, nil),
		create(t, "default::B", KindObjectType, false, nil),
	)
	to := qn(t, "default::B")
	applyErr(t, s, serrors.SchemaIntegrityErr,
		&AlterObject{Name: qn(t, "default::A"), RenameTo: &to})
}

func TestDropBlockedByInheritance(t *testing.T) {
	s := mustApply(t, New(),
		create(t, "default::A", KindObjectType, true, nil),
		create(t, "default::B", KindObjectType, false, []string{"default::A"}),
	)
	applyErr(t, s, serrors.SchemaIntegrityErr,
		&DropObject{Name: qn(t, "default::A")})

	// Dropping the leaf first, then the base, is fine.
	s2 := mustApply(t, s, &DropObject{Name: qn(t, "default::B")})
	mustApply(t, s2, &DropObject{Name: qn(t, "default::A")})
}

func TestDropBlockedByRequiredPointer(t *testing.T) {
	s := baseSchema(t)

	// std::str is the required target of default::Named.name.
	applyErr(t, s, serrors.SchemaIntegrityErr,
		&DropObject{Name: qn(t, "std::str")})
}

func TestDropDetachesOptionalReferences(t *testing.T) {
	s := mustApply(t, New(),
		create(t, "default::Tag", KindObjectType, false, nil),
		create(t, "default::Doc", KindObjectType, false, nil,
			field("annotation", OpRef{Name: names.New("default", "Tag")})),
	)

	s2 := mustApply(t, s, &DropObject{Name: qn(t, "default::Tag")})

	doc, err := s2.Get(qn(t, "default::Doc"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Field("annotation"); ok {
		t.Fatal("dangling reference survived the drop")
	}

	// The base snapshot still holds the reference.
	doc0, err := s.Get(qn(t, "default::Doc"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc0.Field("annotation"); !ok {
		t.Fatal("drop mutated the base snapshot")
	}
}

func TestBatchIntegrityPointerTarget(t *testing.T) {
	s := mustApply(t, New(),
		create(t, "std::str", KindScalarType, false, nil),
		create(t, "default::A", KindObjectType, false, nil),
	)

	// A concrete property without a target fails the end-of-batch check.
	applyErr(t, s, serrors.SchemaIntegrityErr,
		create(t, "default::A.name", KindProperty, false, nil,
			field("source", OpRef{Name: names.New("default", "A")})))

	// The same stub is fine when a later alter in the batch completes it.
	mustApply(t, s,
		create(t, "default::A.name", KindProperty, false, nil,
			field("source", OpRef{Name: names.New("default", "A")})),
		&AlterObject{
			Name:      qn(t, "default::A.name"),
			SetFields: []FieldInit{field("target", OpRef{Name: names.New("std", "str")})},
		},
	)
}

func TestFingerprint(t *testing.T) {
	build := func() *Schema {
		return mustApply(t, New(),
			create(t, "std::str", KindScalarType, false, nil),
			create(t, "default::A", KindObjectType, false, nil, field("note", OpStr("x"))),
		)
	}
	if build().Fingerprint() != build().Fingerprint() {
		t.Fatal("structurally equal snapshots disagree on fingerprint")
	}

	other := mustApply(t, New(),
		create(t, "std::str", KindScalarType, false, nil),
		create(t, "default::A", KindObjectType, false, nil, field("note", OpStr("y"))),
	)
	if build().Fingerprint() == other.Fingerprint() {
		t.Fatal("different snapshots share a fingerprint")
	}
}
