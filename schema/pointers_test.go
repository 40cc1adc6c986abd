// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/halcyondb/halcyon/names"
)

// pointerSchema: Named declares name; User inherits it and adds an age
// property, a multi friends link and a computed display property.
func pointerSchema(t *testing.T) *Schema {
	t.Helper()
	return mustApply(t, baseSchema(t),
		create(t, "default::User", KindObjectType, false, []string{"default::Named"}),
		create(t, "default::User.age", KindProperty, false, nil,
			field("source", OpRef{Name: names.New("default", "User")}),
			field("target", OpRef{Name: names.New("std", "int64")}),
		),
		create(t, "default::User.friends", KindLink, false, nil,
			field("source", OpRef{Name: names.New("default", "User")}),
			field("target", OpRef{Name: names.New("default", "User")}),
			field("multi", OpBool(true)),
		),
		create(t, "default::User.display", KindProperty, false, nil,
			field("source", OpRef{Name: names.New("default", "User")}),
			field("expr", OpExpr("__source__.\"name\"")),
		),
	)
}

func TestPointerLocalName(t *testing.T) {
	s := pointerSchema(t)
	p, err := s.Get(qn(t, "default::User.age"))
	if err != nil {
		t.Fatal(err)
	}
	if got := PointerLocalName(p); got != "age" {
		t.Fatalf("local name %q, want %q", got, "age")
	}
}

func TestPointersIncludeInherited(t *testing.T) {
	s := pointerSchema(t)
	user, err := s.Get(qn(t, "default::User"))
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, p := range s.Pointers(user) {
		got = append(got, PointerLocalName(p))
	}
	// Own pointers first in creation order, then the inherited name.
	want := []string{"age", "friends", "display", "name"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected pointers (-want +got):\n%s", diff)
	}
}

func TestPointerAttributes(t *testing.T) {
	s := pointerSchema(t)
	user, err := s.Get(qn(t, "default::User"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		required bool
		multi    bool
		computed bool
		target   string
	}{
		{name: "name", required: true, target: "std::str"},
		{name: "age", target: "std::int64"},
		{name: "friends", multi: true, target: "default::User"},
		{name: "display", computed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := s.Pointer(user, tc.name)
			if !ok {
				t.Fatalf("pointer %q not visible", tc.name)
			}
			if got := s.PointerRequired(p); got != tc.required {
				t.Fatalf("required = %v, want %v", got, tc.required)
			}
			if got := s.PointerMulti(p); got != tc.multi {
				t.Fatalf("multi = %v, want %v", got, tc.multi)
			}
			if _, got := s.PointerComputed(p); got != tc.computed {
				t.Fatalf("computed = %v, want %v", got, tc.computed)
			}
			if tc.target != "" {
				id, ok := s.PointerTarget(p)
				if !ok {
					t.Fatal("no target")
				}
				target, gerr := s.GetByID(id)
				if gerr != nil {
					t.Fatal(gerr)
				}
				if target.Name().String() != tc.target {
					t.Fatalf("target %v, want %v", target.Name(), tc.target)
				}
			}
		})
	}

	if _, ok := s.Pointer(user, "missing"); ok {
		t.Fatal("unknown pointer resolved")
	}
}
