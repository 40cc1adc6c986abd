// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package serrors

import "fmt"

// Location records a position in query or schema source text.
type Location struct {
	File string `json:"file,omitempty"` // The name of the source file (which may be empty).
	Row  int    `json:"row"`            // The line in the source.
	Col  int    `json:"col"`            // The column in the row.
}

// NewLocation returns a new Location object.
func NewLocation(file string, row, col int) *Location {
	return &Location{File: file, Row: row, Col: col}
}

func (loc *Location) String() string {
	if loc == nil {
		return "<unknown>"
	}
	if len(loc.File) > 0 {
		return fmt.Sprintf("%v:%v:%v", loc.File, loc.Row, loc.Col)
	}
	return fmt.Sprintf("%v:%v", loc.Row, loc.Col)
}

// Equal returns true if this location equals the other location.
func (loc *Location) Equal(other *Location) bool {
	if loc == nil || other == nil {
		return loc == other
	}
	return *loc == *other
}

// Errorf returns a new error value with a message prefixed by the location.
func (loc *Location) Errorf(code Code, f string, a ...any) *Error {
	return NewError(code, loc, f, a...)
}
