// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ir

import (
	"encoding/json"
)

// Marshaling exists for debugging and for determinism checks. Struct
// field order fixes the byte layout, so compiling the same input twice
// yields byte-identical output here. There is no unmarshaler: IR never
// crosses a process boundary.

// MarshalJSON implements json.Marshaler.
func (x *Query) MarshalJSON() ([]byte, error) {
	type alias Query
	return marshalKind("query", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Path) MarshalJSON() ([]byte, error) {
	type alias Path
	return marshalKind("path", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Select) MarshalJSON() ([]byte, error) {
	type alias Select
	return marshalKind("select", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *OperatorCall) MarshalJSON() ([]byte, error) {
	type alias OperatorCall
	return marshalKind("operator_call", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *SetOp) MarshalJSON() ([]byte, error) {
	type alias SetOp
	return marshalKind("set_op", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Literal) MarshalJSON() ([]byte, error) {
	type alias Literal
	return marshalKind("literal", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Param) MarshalJSON() ([]byte, error) {
	type alias Param
	return marshalKind("param", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Cast) MarshalJSON() ([]byte, error) {
	type alias Cast
	return marshalKind("cast", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Alias) MarshalJSON() ([]byte, error) {
	type alias Alias
	return marshalKind("alias", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Insert) MarshalJSON() ([]byte, error) {
	type alias Insert
	return marshalKind("insert", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Update) MarshalJSON() ([]byte, error) {
	type alias Update
	return marshalKind("update", (*alias)(x))
}

// MarshalJSON implements json.Marshaler.
func (x *Delete) MarshalJSON() ([]byte, error) {
	type alias Delete
	return marshalKind("delete", (*alias)(x))
}

func marshalKind(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := append([]byte(`{"kind":"`+kind+`",`), body[1:]...)
	return out, nil
}
