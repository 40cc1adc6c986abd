// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"strings"
	"testing"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/serrors"
)

func qn(t *testing.T, s string) names.QualName {
	t.Helper()
	n, err := names.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	if !n.IsQualified() {
		t.Fatalf("name %q is not qualified", s)
	}
	return n.Qual()
}

func create(t *testing.T, name string, kind Kind, abstract bool, bases []string, fields ...FieldInit) *CreateObject {
	t.Helper()
	op := &CreateObject{
		Name:     qn(t, name),
		Kind:     kind,
		Abstract: abstract,
		Fields:   fields,
	}
	for _, b := range bases {
		op.Bases = append(op.Bases, qn(t, b))
	}
	return op
}

func field(name string, v OpValue) FieldInit {
	return FieldInit{Field: name, Value: v}
}

func mustApply(t *testing.T, s *Schema, ops ...Operation) *Schema {
	t.Helper()
	next, err := s.Apply(Delta{BaseVersion: s.Version(), Ops: ops})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return next
}

func applyErr(t *testing.T, s *Schema, code serrors.Code, ops ...Operation) {
	t.Helper()
	if _, err := s.Apply(Delta{BaseVersion: s.Version(), Ops: ops}); !serrors.IsError(err, code) {
		t.Fatalf("expected %v, got %v", code, err)
	}
}

// baseSchema builds the scalar types and an abstract Named type with a name
// property, the shared starting point of most lifecycle tests.
func baseSchema(t *testing.T) *Schema {
	t.Helper()
	return mustApply(t, New(),
		create(t, "std::str", KindScalarType, false, nil),
		create(t, "std::int64", KindScalarType, false, nil),
		create(t, "std::bool", KindScalarType, false, nil),
		create(t, "default::Named", KindObjectType, true, nil),
		create(t, "default::Named.name", KindProperty, false, nil,
			field("source", OpRef{Name: names.New("default", "Named")}),
			field("target", OpRef{Name: names.New("std", "str")}),
			field("required", OpBool(true)),
		),
	)
}

func TestApplyVersioning(t *testing.T) {
	s0 := New()
	if s0.Version() != 0 {
		t.Fatalf("fresh schema has version %d", s0.Version())
	}

	s1 := mustApply(t, s0, create(t, "std::str", KindScalarType, false, nil))
	if s1.Version() != 1 {
		t.Fatalf("expected version 1, got %d", s1.Version())
	}
	if s0.Version() != 0 || s0.Len() != 0 {
		t.Fatal("apply mutated the base snapshot")
	}

	// A delta built against the superseded version is stale.
	if _, err := s1.Apply(Delta{BaseVersion: 0, Ops: nil}); !serrors.IsError(err, serrors.ConcurrentModificationErr) {
		t.Fatalf("expected ConcurrentModification, got %v", err)
	}
}

func TestApplyFailureLeavesBaseUntouched(t *testing.T) {
	s := baseSchema(t)
	before := s.Len()

	applyErr(t, s, serrors.SchemaIntegrityErr,
		create(t, "default::A", KindObjectType, false, nil),
		create(t, "default::B", KindObjectType, false, []string{"default::Missing"}),
	)

	if s.Len() != before {
		t.Fatal("failed apply leaked objects into the base snapshot")
	}
	if _, err := s.Get(qn(t, "default::A")); err == nil {
		t.Fatal("partial batch visible after failure")
	}
}

func TestStableIDs(t *testing.T) {
	a := StableID(names.New("default", "User"))
	b := StableID(names.New("default", "User"))
	if a != b {
		t.Fatalf("StableID not stable: %v != %v", a, b)
	}
	if a == StableID(names.New("default", "Group")) {
		t.Fatal("distinct names share an id")
	}

	s := mustApply(t, New(), create(t, "default::User", KindObjectType, false, nil))
	obj, err := s.Get(qn(t, "default::User"))
	if err != nil {
		t.Fatal(err)
	}
	if obj.ID() != a {
		t.Fatalf("created object id %v, want %v", obj.ID(), a)
	}
}

func TestResolveUnqualified(t *testing.T) {
	s := baseSchema(t)

	tests := []struct {
		note    string
		name    string
		path    names.SearchPath
		want    string
		wantErr serrors.Code
	}{
		{note: "qualified", name: "default::Named", want: "default::Named"},
		{note: "search path", name: "Named", path: names.DefaultSearchPath, want: "default::Named"},
		{note: "std fallthrough", name: "str", path: names.DefaultSearchPath, want: "std::str"},
		{note: "unknown", name: "Nmed", path: names.DefaultSearchPath, wantErr: serrors.NameNotFoundErr},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			n, perr := names.Parse(tc.name)
			if perr != nil {
				t.Fatal(perr)
			}
			obj, err := s.Resolve(n, tc.path, nil)
			if tc.wantErr != "" {
				if !serrors.IsError(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if obj.Name().String() != tc.want {
				t.Fatalf("resolved %v, want %v", obj.Name(), tc.want)
			}
		})
	}
}

func TestResolveSuggestions(t *testing.T) {
	s := baseSchema(t)
	n, perr := names.Parse("Namd")
	if perr != nil {
		t.Fatal(perr)
	}
	_, err := s.Resolve(n, names.DefaultSearchPath, nil)
	if !serrors.IsError(err, serrors.NameNotFoundErr) {
		t.Fatalf("expected NameNotFound, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "did you mean") || !strings.Contains(msg, "default::Named") {
		t.Fatalf("expected a suggestion for default::Named, got %q", msg)
	}
}

func TestFieldValueInheritance(t *testing.T) {
	s := mustApply(t, baseSchema(t),
		create(t, "default::Person", KindObjectType, false, []string{"default::Named"},
			field("note", OpStr("base"))),
		create(t, "default::Employee", KindObjectType, false, []string{"default::Person"}),
	)

	emp, err := s.Get(qn(t, "default::Employee"))
	if err != nil {
		t.Fatal(err)
	}

	def, declaring, ok := s.FieldValue(emp, "note")
	if !ok {
		t.Fatal("inherited field not visible")
	}
	if declaring.Name().String() != "default::Person" {
		t.Fatalf("declared on %v, want default::Person", declaring.Name())
	}
	if !def.Value.Equal(StrVal("base")) {
		t.Fatalf("unexpected value %v", def.Value)
	}

	if _, _, ok := s.FieldValue(emp, "missing"); ok {
		t.Fatal("missing field reported as visible")
	}
}
