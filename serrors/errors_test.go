// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package serrors

import (
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewError(TypeMismatchErr, NewLocation("query.edgeql", 3, 14),
		"expected %v", "std::bool")
	got := err.Error()
	if got != "query.edgeql:3:14: type_mismatch: expected std::bool" {
		t.Fatalf("Error() = %q", got)
	}

	noFile := NewError(NameNotFoundErr, NewLocation("", 1, 2), "nope")
	if !strings.HasPrefix(noFile.Error(), "1:2: ") {
		t.Fatalf("Error() = %q", noFile.Error())
	}

	noLoc := NewError(InternalErr, nil, "boom")
	if strings.Contains(noLoc.Error(), "<unknown>") || !strings.HasPrefix(noLoc.Error(), "internal: ") {
		t.Fatalf("Error() = %q", noLoc.Error())
	}
}

func TestErrorDetailsAreSorted(t *testing.T) {
	err := NewError(LoweringErr, nil, "bad node").
		WithDetail("zeta", 1).
		WithDetail("alpha", "x")

	got := err.Error()
	if !strings.Contains(got, "(alpha=x zeta=1)") {
		t.Fatalf("details not sorted in %q", got)
	}
}

func TestErrorsAggregate(t *testing.T) {
	var errs Errors
	if errs.Error() != "no error(s)" {
		t.Fatalf("empty Errors rendered %q", errs.Error())
	}

	errs = append(errs, NewError(NameNotFoundErr, nil, "first"))
	if !strings.HasPrefix(errs.Error(), "1 error occurred: ") {
		t.Fatalf("single error rendered %q", errs.Error())
	}

	errs = append(errs, NewError(TypeMismatchErr, nil, "second"))
	got := errs.Error()
	if !strings.HasPrefix(got, "2 errors occurred:\n") || !strings.Contains(got, "second") {
		t.Fatalf("multiple errors rendered %q", got)
	}
}

func TestIsError(t *testing.T) {
	single := NewError(CyclicDependencyErr, nil, "cycle")
	if !IsError(single, CyclicDependencyErr) || IsError(single, InternalErr) {
		t.Fatal("bare *Error matching broken")
	}

	agg := Errors{NewError(TypeMismatchErr, nil, "a"), NewError(NameNotFoundErr, nil, "b")}
	if !IsError(agg, NameNotFoundErr) || IsError(agg, InternalErr) {
		t.Fatal("Errors matching broken")
	}

	if IsError(nil, InternalErr) {
		t.Fatal("nil must not match")
	}
}

func TestLocation(t *testing.T) {
	var nilLoc *Location
	if nilLoc.String() != "<unknown>" {
		t.Fatalf("nil location rendered %q", nilLoc.String())
	}
	if !nilLoc.Equal(nil) || nilLoc.Equal(NewLocation("", 1, 1)) {
		t.Fatal("nil equality broken")
	}

	a := NewLocation("f", 1, 2)
	if !a.Equal(NewLocation("f", 1, 2)) || a.Equal(NewLocation("f", 1, 3)) {
		t.Fatal("location equality broken")
	}

	err := a.Errorf(SchemaIntegrityErr, "dangling %s", "ref")
	if err.Code != SchemaIntegrityErr || !strings.HasPrefix(err.Error(), "f:1:2: ") {
		t.Fatalf("Errorf built %v", err)
	}
}

func TestInternalCarriesDetails(t *testing.T) {
	err := Internal(nil, map[string]any{"node": "path"}, "unhandled")
	if err.Code != InternalErr || err.Details["node"] != "path" {
		t.Fatalf("Internal built %+v", err)
	}
}
