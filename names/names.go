// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package names implements the qualified/unqualified identifier model used
// throughout the schema and the query compiler.
//
// A qualified name is a (module, local) pair written "module::local" and is
// globally unambiguous. An unqualified name is a bare identifier that only
// has meaning relative to a search path; unqualified names are never stored
// as object index keys.
package names

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/halcyondb/halcyon/serrors"
)

// QualName is a module-qualified name. Qualified names compare by exact
// (module, local) pair.
type QualName struct {
	Module string `json:"module"`
	Local  string `json:"local"`
}

// New returns the qualified name module::local.
func New(module, local string) QualName {
	return QualName{Module: module, Local: local}
}

func (n QualName) String() string {
	return n.Module + "::" + n.Local
}

// IsZero returns true if n is the zero name.
func (n QualName) IsZero() bool {
	return n.Module == "" && n.Local == ""
}

// Hash returns a stable hash of the name.
func (n QualName) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(n.Module)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(n.Local)
	return d.Sum64()
}

// Compare orders names by module then local name.
func (n QualName) Compare(other QualName) int {
	if c := strings.Compare(n.Module, other.Module); c != 0 {
		return c
	}
	return strings.Compare(n.Local, other.Local)
}

// Name holds either a qualified or an unqualified identifier as produced by
// the parser.
type Name struct {
	Module string // empty for unqualified names
	Local  string
}

// Parse canonicalizes a source identifier. "a::b" parses as qualified,
// "b" as unqualified. Nested module paths ("a::b::c") keep everything up
// to the last separator as the module part.
func Parse(s string) (Name, *serrors.Error) {
	if s == "" {
		return Name{}, serrors.NewError(serrors.NameNotFoundErr, nil, "empty name")
	}
	i := strings.LastIndex(s, "::")
	if i < 0 {
		return Name{Local: s}, nil
	}
	mod, local := s[:i], s[i+2:]
	if mod == "" || local == "" {
		return Name{}, serrors.NewError(serrors.NameNotFoundErr, nil, "malformed name %q", s)
	}
	return Name{Module: mod, Local: local}, nil
}

// IsQualified returns true if the name carries a module part.
func (n Name) IsQualified() bool {
	return n.Module != ""
}

// Qual returns the name as a QualName. Only valid for qualified names.
func (n Name) Qual() QualName {
	return QualName{Module: n.Module, Local: n.Local}
}

func (n Name) String() string {
	if n.IsQualified() {
		return n.Module + "::" + n.Local
	}
	return n.Local
}
