// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package serrors defines the error values produced by the halcyon compiler
// core. All failures are returned to the caller as values; the core never
// terminates the process on bad input.
package serrors

import (
	"fmt"
	"sort"
	"strings"
)

// Errors represents a series of errors encountered during schema application,
// compiling, etc.
type Errors []*Error

func (e Errors) Error() string {

	if len(e) == 0 {
		return "no error(s)"
	}

	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred: %v", e[0].Error())
	}

	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}

	return fmt.Sprintf("%d errors occurred:\n%s", len(e), strings.Join(s, "\n"))
}

// Code classifies the errors returned by the compiler core.
type Code string

const (
	// NameNotFoundErr indicates a name did not resolve to any schema object.
	NameNotFoundErr Code = "name_not_found"

	// UnknownIDErr indicates an object id is absent from the schema.
	UnknownIDErr Code = "unknown_id"

	// AmbiguousNameErr indicates an unqualified name matched more than one
	// module on the active search path.
	AmbiguousNameErr Code = "ambiguous_name"

	// TypeMismatchErr indicates a value or operand has an incompatible type.
	TypeMismatchErr Code = "type_mismatch"

	// AmbiguousOverloadErr indicates more than one function signature
	// matched the operands equally well.
	AmbiguousOverloadErr Code = "ambiguous_overload"

	// InconsistentInheritanceErr indicates no monotonic linearization of an
	// object's bases exists.
	InconsistentInheritanceErr Code = "inconsistent_inheritance"

	// ConstraintViolationErr indicates a delegated-exclusive constraint
	// would be violated by a schema operation.
	ConstraintViolationErr Code = "constraint_violation"

	// CyclicDependencyErr indicates a dependency batch contains a true
	// cycle that cannot be split.
	CyclicDependencyErr Code = "cyclic_dependency"

	// SchemaIntegrityErr indicates an operation references an object that
	// does not (or would no longer) exist.
	SchemaIntegrityErr Code = "schema_integrity"

	// ConcurrentModificationErr indicates a delta was built against a
	// schema version that is no longer the head of its lineage.
	ConcurrentModificationErr Code = "concurrent_modification"

	// LoweringErr indicates an IR shape had no valid backend
	// representation. Always an internal contract violation.
	LoweringErr Code = "lowering"

	// InternalErr indicates an invariant of the compiler core was broken.
	InternalErr Code = "internal"
)

// Error represents a single error caught during schema application,
// compiling, etc.
type Error struct {
	Code     Code           `json:"code"`
	Location *Location      `json:"location,omitempty"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	var prefix string
	if e.Location != nil {
		prefix = e.Location.String() + ": "
	}
	msg := fmt.Sprintf("%s%v: %v", prefix, e.Code, e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%v=%v", k, e.Details[k]))
		}
		msg += " (" + strings.Join(parts, " ") + ")"
	}
	return msg
}

// IsError returns true if err is a halcyon error with the given code. Both
// bare *Error values and single-element Errors slices match.
func IsError(err error, code Code) bool {
	switch err := err.(type) {
	case *Error:
		return err.Code == code
	case Errors:
		for _, e := range err {
			if e.Code == code {
				return true
			}
		}
	}
	return false
}

// NewError returns a new Error with a formatted message.
func NewError(code Code, loc *Location, f string, a ...any) *Error {
	return &Error{
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(f, a...),
	}
}

// Internal returns an internal-invariant error. Details must carry enough
// context (node kinds, object ids) to debug the defect; internal errors are
// never rewritten into user-facing messages.
func Internal(loc *Location, details map[string]any, f string, a ...any) *Error {
	return &Error{
		Code:     InternalErr,
		Location: loc,
		Message:  fmt.Sprintf(f, a...),
		Details:  details,
	}
}

// WithDetail returns e with the key/value pair added to its details.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}
