// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/halcyondb/halcyon/serrors"
)

// dictSchema builds the canonical delegated-exclusive fixture: an abstract
// Dictionary declaring an exclusive delegated name, with Status and
// Priority as direct subclasses.
func dictSchema(t *testing.T) *Schema {
	t.Helper()
	return mustApply(t, New(),
		create(t, "default::Dictionary", KindObjectType, true, nil,
			FieldInit{Field: "name", Value: OpStr(""), Exclusive: true, Delegated: true}),
	)
}

func dictEntry(t *testing.T, name, base, value string) *CreateObject {
	t.Helper()
	return create(t, name, KindObjectType, false, []string{base},
		FieldInit{Field: "name", Value: OpStr(value), Overloaded: true})
}

func TestDelegatedExclusiveSubtree(t *testing.T) {
	s := dictSchema(t)

	// Distinct values across the subtree are fine.
	s2 := mustApply(t, s,
		dictEntry(t, "default::Status", "default::Dictionary", "Open"),
		dictEntry(t, "default::Priority", "default::Dictionary", "High"),
	)

	// Under the subtree policy a duplicate anywhere below the declaring
	// ancestor conflicts, even across sibling subclasses.
	applyErr(t, s2, serrors.ConstraintViolationErr,
		dictEntry(t, "default::Severity", "default::Dictionary", "Open"))
}

func TestDelegatedExclusivePerSubclass(t *testing.T) {
	s := dictSchema(t)

	// Status "Open" and Priority "Open" live under distinct direct
	// subclasses of Dictionary and may share the value.
	delta := Delta{BaseVersion: s.Version(), Ops: []Operation{
		dictEntry(t, "default::Status", "default::Dictionary", "Open"),
		dictEntry(t, "default::Priority", "default::Dictionary", "Open"),
	}}
	s2, err := s.Apply(delta, WithExclusivityScope(ScopePerSubclass))
	if err != nil {
		t.Fatalf("sibling subclasses sharing a value must succeed per-subclass: %v", err)
	}

	// The same value inside one subclass subtree still conflicts.
	dup := Delta{BaseVersion: s2.Version(), Ops: []Operation{
		dictEntry(t, "default::Vip", "default::Status", "Open"),
	}}
	if _, err := s2.Apply(dup, WithExclusivityScope(ScopePerSubclass)); !serrors.IsError(err, serrors.ConstraintViolationErr) {
		t.Fatalf("expected ConstraintViolation, got %v", err)
	}
}

func TestDelegatedExclusiveDefaultIsSubtree(t *testing.T) {
	s := dictSchema(t)
	applyErr(t, s, serrors.ConstraintViolationErr,
		dictEntry(t, "default::Status", "default::Dictionary", "Open"),
		dictEntry(t, "default::Priority", "default::Dictionary", "Open"),
	)
}

func TestExclusiveWithoutDelegationNotEnforcedAcrossSubtree(t *testing.T) {
	s := mustApply(t, New(),
		create(t, "default::Dictionary", KindObjectType, true, nil,
			FieldInit{Field: "name", Value: OpStr(""), Exclusive: true}),
	)

	// Without delegation the uniqueness scope does not span the subtree.
	mustApply(t, s,
		dictEntry(t, "default::Status", "default::Dictionary", "Open"),
		dictEntry(t, "default::Priority", "default::Dictionary", "Open"),
	)
}

func TestDelegatedExclusiveCheckedOnAlter(t *testing.T) {
	s := mustApply(t, dictSchema(t),
		dictEntry(t, "default::Status", "default::Dictionary", "Open"),
		dictEntry(t, "default::Priority", "default::Dictionary", "High"),
	)

	applyErr(t, s, serrors.ConstraintViolationErr,
		&AlterObject{
			Name: qn(t, "default::Priority"),
			SetFields: []FieldInit{
				{Field: "name", Value: OpStr("Open"), Overloaded: true},
			},
		})
}
