// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyondb/halcyon/names"
)

// The wire form preserves creation order and field declaration order so
// that marshaling is byte-stable and a round-trip reproduces an identical
// snapshot: same ids, names, field values and inheritance edges.

type schemaJSON struct {
	Version int64        `json:"version"`
	Objects []objectJSON `json:"objects"`
}

type objectJSON struct {
	ID       uuid.UUID      `json:"id"`
	Name     names.QualName `json:"name"`
	Kind     Kind           `json:"kind"`
	Abstract bool           `json:"abstract,omitempty"`
	Bases    []uuid.UUID    `json:"bases,omitempty"`
	Fields   []fieldJSON    `json:"fields,omitempty"`
}

type fieldJSON struct {
	Name       string          `json:"name"`
	Kind       ValueKind       `json:"kind"`
	Value      json.RawMessage `json:"value"`
	Overloaded bool            `json:"overloaded,omitempty"`
	Exclusive  bool            `json:"exclusive,omitempty"`
	Delegated  bool            `json:"delegated,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := schemaJSON{Version: s.version}

	var marshalErr error
	s.Objects(func(obj *Object) bool {
		oj := objectJSON{
			ID:       obj.id,
			Name:     obj.name,
			Kind:     obj.kind,
			Abstract: obj.abstract,
			Bases:    obj.Bases(),
		}
		for _, field := range obj.FieldNames() {
			def, _ := obj.Field(field)
			raw, err := marshalValue(def.Value)
			if err != nil {
				marshalErr = err
				return true
			}
			oj.Fields = append(oj.Fields, fieldJSON{
				Name:       field,
				Kind:       def.Value.ValueKind(),
				Value:      raw,
				Overloaded: def.Overloaded,
				Exclusive:  def.Exclusive,
				Delegated:  def.Delegated,
			})
		}
		out.Objects = append(out.Objects, oj)
		return false
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The receiver must be a fresh
// schema value.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var in schemaJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	fresh := New()
	fresh.version = in.Version
	for _, oj := range in.Objects {
		obj := NewObject(oj.ID, oj.Name, oj.Kind)
		obj.abstract = oj.Abstract
		obj.bases = append(obj.bases, oj.Bases...)
		for _, fj := range oj.Fields {
			val, err := unmarshalValue(fj.Kind, fj.Value)
			if err != nil {
				return fmt.Errorf("schema: object %v field %q: %w", oj.Name, fj.Name, err)
			}
			if serr := obj.SetField(fj.Name, FieldDef{
				Value:      val,
				Overloaded: fj.Overloaded,
				Exclusive:  fj.Exclusive,
				Delegated:  fj.Delegated,
			}); serr != nil {
				return serr
			}
		}
		if err := fresh.insert(obj); err != nil {
			return err
		}
	}

	s.version = fresh.version
	s.objects = fresh.objects
	s.byName = fresh.byName
	s.invalidateDerived()
	return nil
}

func marshalValue(v Value) (json.RawMessage, error) {
	switch v := v.(type) {
	case StrVal:
		return json.Marshal(string(v))
	case IntVal:
		return json.Marshal(int64(v))
	case FloatVal:
		return json.Marshal(float64(v))
	case BoolVal:
		return json.Marshal(bool(v))
	case RefVal:
		return json.Marshal(v.ID)
	case RefListVal:
		return json.Marshal(v.IDs)
	case ExprVal:
		return json.Marshal(string(v))
	}
	return nil, fmt.Errorf("schema: unhandled value %T", v)
}

func unmarshalValue(kind ValueKind, raw json.RawMessage) (Value, error) {
	switch kind {
	case KindStr:
		var x string
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return StrVal(x), nil
	case KindInt:
		var x int64
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return IntVal(x), nil
	case KindFloat:
		var x float64
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return FloatVal(x), nil
	case KindBool:
		var x bool
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return BoolVal(x), nil
	case KindRef:
		var x uuid.UUID
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return RefVal{ID: x}, nil
	case KindRefList:
		var x []uuid.UUID
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return RefListVal{IDs: x}, nil
	case KindExpr:
		var x string
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		return ExprVal(x), nil
	}
	return nil, fmt.Errorf("schema: unhandled value kind %q", kind)
}
