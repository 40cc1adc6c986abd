// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package names

import (
	"strings"
	"testing"

	"github.com/halcyondb/halcyon/serrors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		module  string
		local   string
		wantErr bool
	}{
		{input: "User", local: "User"},
		{input: "default::User", module: "default", local: "User"},
		{input: "ext::auth::Token", module: "ext::auth", local: "Token"},
		{input: "", wantErr: true},
		{input: "::User", wantErr: true},
		{input: "default::", wantErr: true},
	}
	for _, tc := range tests {
		n, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.input, err)
			continue
		}
		if n.Module != tc.module || n.Local != tc.local {
			t.Errorf("Parse(%q) = %+v", tc.input, n)
		}
	}
}

func TestQualNameOrderingAndHash(t *testing.T) {
	a := New("default", "A")
	b := New("default", "B")
	z := New("std", "A")

	if a.Compare(b) >= 0 || b.Compare(z) >= 0 || a.Compare(a) != 0 {
		t.Fatal("Compare does not order by module then local")
	}
	if a.Hash() != New("default", "A").Hash() {
		t.Fatal("hash is not stable")
	}
	// The module/local boundary must participate in the hash.
	if New("ab", "c").Hash() == New("a", "bc").Hash() {
		t.Fatal("hash ignores the module boundary")
	}
	if New("", "").IsZero() != true || a.IsZero() {
		t.Fatal("IsZero broken")
	}
}

// fixedIndex is a static name index for resolution tests.
type fixedIndex []QualName

func (ix fixedIndex) HasName(qn QualName) bool {
	for _, n := range ix {
		if n == qn {
			return true
		}
	}
	return false
}

func (ix fixedIndex) Names() []QualName { return ix }

func TestResolve(t *testing.T) {
	idx := fixedIndex{
		New("default", "User"),
		New("std", "str"),
		New("std", "User"),
		New("other", "Widget"),
	}

	t.Run("qualified exact", func(t *testing.T) {
		qn, err := Resolve(idx, Name{Module: "other", Local: "Widget"}, nil, nil)
		if err != nil || qn != New("other", "Widget") {
			t.Fatalf("got %v, %v", qn, err)
		}
	})

	t.Run("search path order wins", func(t *testing.T) {
		// User exists in both default and std; the first module on the
		// path decides.
		qn, err := Resolve(idx, Name{Local: "User"}, SearchPath{"default"}, nil)
		if err != nil || qn != New("default", "User") {
			t.Fatalf("got %v, %v", qn, err)
		}
	})

	t.Run("ambiguous across path", func(t *testing.T) {
		_, err := Resolve(idx, Name{Local: "User"}, SearchPath{"default", "std"}, nil)
		if !serrors.IsError(err, serrors.AmbiguousNameErr) {
			t.Fatalf("expected AmbiguousName, got %v", err)
		}
		if !strings.Contains(err.Error(), "default::User") || !strings.Contains(err.Error(), "std::User") {
			t.Fatalf("candidates missing from %q", err.Error())
		}
	})

	t.Run("empty path falls back to default", func(t *testing.T) {
		qn, err := Resolve(idx, Name{Local: "str"}, nil, nil)
		if err != nil || qn != New("std", "str") {
			t.Fatalf("got %v, %v", qn, err)
		}
	})

	t.Run("off-path module is invisible", func(t *testing.T) {
		_, err := Resolve(idx, Name{Local: "Widget"}, SearchPath{"default", "std"}, nil)
		if !serrors.IsError(err, serrors.NameNotFoundErr) {
			t.Fatalf("expected NameNotFound, got %v", err)
		}
	})
}

func TestResolveSuggestions(t *testing.T) {
	idx := fixedIndex{
		New("default", "User"),
		New("default", "Uber"),
		New("std", "datetime"),
	}

	_, err := Resolve(idx, Name{Local: "Usr"}, SearchPath{"default"}, nil)
	if !serrors.IsError(err, serrors.NameNotFoundErr) {
		t.Fatalf("expected NameNotFound, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "did you mean") || !strings.Contains(msg, "default::User") {
		t.Fatalf("suggestion missing from %q", msg)
	}
	if strings.Contains(msg, "std::datetime") {
		t.Fatalf("distant name suggested in %q", msg)
	}
}
