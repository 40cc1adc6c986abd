// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package names

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/halcyondb/halcyon/serrors"
)

// DefaultSearchPath is the search path used when the caller supplies none.
var DefaultSearchPath = SearchPath{"default", "std"}

// SearchPath is the ordered list of modules consulted when resolving an
// unqualified name.
type SearchPath []string

// Index answers whether a qualified name exists. Implemented by the schema's
// name index.
type Index interface {
	HasName(QualName) bool

	// Names returns every qualified name in the index. Used only to rank
	// suggestions on resolution failure.
	Names() []QualName
}

// Resolve resolves a (possibly unqualified) name against idx. Qualified
// names resolve by exact pair lookup. Unqualified names are tried against
// each module on the search path; exactly one candidate must match.
func Resolve(idx Index, n Name, path SearchPath, loc *serrors.Location) (QualName, *serrors.Error) {
	if len(path) == 0 {
		path = DefaultSearchPath
	}

	if n.IsQualified() {
		qn := n.Qual()
		if !idx.HasName(qn) {
			return QualName{}, notFound(idx, qn.String(), loc)
		}
		return qn, nil
	}

	var found []QualName
	for _, mod := range path {
		qn := QualName{Module: mod, Local: n.Local}
		if idx.HasName(qn) {
			found = append(found, qn)
		}
	}

	switch len(found) {
	case 0:
		return QualName{}, notFound(idx, n.Local, loc)
	case 1:
		return found[0], nil
	}

	cands := make([]string, 0, len(found))
	for _, qn := range found {
		cands = append(cands, qn.String())
	}
	return QualName{}, serrors.NewError(serrors.AmbiguousNameErr, loc,
		"name %q is ambiguous: could be %s", n.Local, strings.Join(cands, " or "))
}

// notFound builds a NameNotFound error including up to three close matches
// ranked by edit distance against the local parts of the known names.
func notFound(idx Index, name string, loc *serrors.Location) *serrors.Error {
	type scored struct {
		name string
		dist int
	}

	var close []scored
	for _, qn := range idx.Names() {
		d := levenshtein.ComputeDistance(name, qn.Local)
		if d <= 2 {
			close = append(close, scored{qn.String(), d})
		}
	}
	sort.Slice(close, func(i, j int) bool {
		if close[i].dist != close[j].dist {
			return close[i].dist < close[j].dist
		}
		return close[i].name < close[j].name
	})

	err := serrors.NewError(serrors.NameNotFoundErr, loc, "name %q does not exist", name)
	if len(close) > 0 {
		if len(close) > 3 {
			close = close[:3]
		}
		hints := make([]string, 0, len(close))
		for _, c := range close {
			hints = append(hints, c.name)
		}
		err.Message += " (did you mean " + strings.Join(hints, ", ") + "?)"
	}
	return err
}
