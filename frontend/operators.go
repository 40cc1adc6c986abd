// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package frontend

import (
	"strings"

	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// Overload is one resolvable operator or function signature.
type Overload struct {
	Name   string
	Params []types.Type
	Result types.Type

	// SameTypes additionally requires all operands to unify with each
	// other (generic comparison and coalescing).
	SameTypes bool

	// ResultFromOperand makes the result type the unified operand type
	// instead of Result.
	ResultFromOperand bool

	// Aggregate consumes its argument as a whole set: the result
	// cardinality is exactly one regardless of the argument's.
	Aggregate bool

	// Coalesce gives `??` its cardinality rule: optional only if both
	// operands are optional.
	Coalesce bool
}

func scalar(k types.Kind) types.Type { return types.NewScalar(k) }

// overloadTable is the fixed operator/function type-resolution table. Order
// within a name is significant only for deterministic error messages; the
// scoring in resolveOverload decides matches.
var overloadTable = []Overload{
	// Generic comparison, defined for any pair of unifiable operands.
	{Name: "std::=", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},
	{Name: "std::!=", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},
	{Name: "std::<", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},
	{Name: "std::<=", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},
	{Name: "std::>", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},
	{Name: "std::>=", Params: []types.Type{types.Any, types.Any}, Result: scalar(types.Bool), SameTypes: true},

	// Arithmetic.
	{Name: "std::+", Params: []types.Type{scalar(types.Int64), scalar(types.Int64)}, Result: scalar(types.Int64)},
	{Name: "std::+", Params: []types.Type{scalar(types.Float64), scalar(types.Float64)}, Result: scalar(types.Float64)},
	{Name: "std::+", Params: []types.Type{scalar(types.Decimal), scalar(types.Decimal)}, Result: scalar(types.Decimal)},
	{Name: "std::-", Params: []types.Type{scalar(types.Int64), scalar(types.Int64)}, Result: scalar(types.Int64)},
	{Name: "std::-", Params: []types.Type{scalar(types.Float64), scalar(types.Float64)}, Result: scalar(types.Float64)},
	{Name: "std::-", Params: []types.Type{scalar(types.Decimal), scalar(types.Decimal)}, Result: scalar(types.Decimal)},
	{Name: "std::*", Params: []types.Type{scalar(types.Int64), scalar(types.Int64)}, Result: scalar(types.Int64)},
	{Name: "std::*", Params: []types.Type{scalar(types.Float64), scalar(types.Float64)}, Result: scalar(types.Float64)},
	{Name: "std::/", Params: []types.Type{scalar(types.Float64), scalar(types.Float64)}, Result: scalar(types.Float64)},
	{Name: "std::/", Params: []types.Type{scalar(types.Decimal), scalar(types.Decimal)}, Result: scalar(types.Decimal)},
	{Name: "std::-", Params: []types.Type{scalar(types.Int64)}, Result: scalar(types.Int64)},
	{Name: "std::-", Params: []types.Type{scalar(types.Float64)}, Result: scalar(types.Float64)},

	// String.
	{Name: "std::++", Params: []types.Type{scalar(types.Str), scalar(types.Str)}, Result: scalar(types.Str)},
	{Name: "std::like", Params: []types.Type{scalar(types.Str), scalar(types.Str)}, Result: scalar(types.Bool)},

	// Boolean.
	{Name: "std::and", Params: []types.Type{scalar(types.Bool), scalar(types.Bool)}, Result: scalar(types.Bool)},
	{Name: "std::or", Params: []types.Type{scalar(types.Bool), scalar(types.Bool)}, Result: scalar(types.Bool)},
	{Name: "std::not", Params: []types.Type{scalar(types.Bool)}, Result: scalar(types.Bool)},

	// Set operators.
	{Name: "std::??", Params: []types.Type{types.Any, types.Any}, SameTypes: true, ResultFromOperand: true, Coalesce: true},
	{Name: "std::exists", Params: []types.Type{types.Any}, Result: scalar(types.Bool), Aggregate: true},

	// Functions.
	{Name: "std::len", Params: []types.Type{scalar(types.Str)}, Result: scalar(types.Int64)},
	{Name: "std::lower", Params: []types.Type{scalar(types.Str)}, Result: scalar(types.Str)},
	{Name: "std::upper", Params: []types.Type{scalar(types.Str)}, Result: scalar(types.Str)},
	{Name: "std::contains", Params: []types.Type{scalar(types.Str), scalar(types.Str)}, Result: scalar(types.Bool)},
	{Name: "std::count", Params: []types.Type{types.Any}, Result: scalar(types.Int64), Aggregate: true},
	{Name: "std::sum", Params: []types.Type{scalar(types.Int64)}, Result: scalar(types.Int64), Aggregate: true},
	{Name: "std::sum", Params: []types.Type{scalar(types.Float64)}, Result: scalar(types.Float64), Aggregate: true},
	{Name: "std::min", Params: []types.Type{types.Any}, ResultFromOperand: true, SameTypes: true, Aggregate: true},
	{Name: "std::max", Params: []types.Type{types.Any}, ResultFromOperand: true, SameTypes: true, Aggregate: true},
	{Name: "std::abs", Params: []types.Type{scalar(types.Float64)}, Result: scalar(types.Float64)},
	{Name: "std::abs", Params: []types.Type{scalar(types.Decimal)}, Result: scalar(types.Decimal)},
}

// resolveOverload picks the unique best signature for a call. Exact
// parameter matches outrank assignable ones; more than one distinct best
// candidate is AmbiguousOverload, none is TypeMismatch.
func resolveOverload(oracle types.AncestorOracle, name string, args []types.Type, loc *serrors.Location) (*Overload, types.Type, *serrors.Error) {
	type match struct {
		ov    *Overload
		score int
	}

	var found bool
	var matches []match
	for i := range overloadTable {
		ov := &overloadTable[i]
		if ov.Name != name || len(ov.Params) != len(args) {
			continue
		}
		found = true

		score, ok := 0, true
		for j, param := range ov.Params {
			switch {
			case types.Equal(param, args[j]):
				score += 2
			case types.Assignable(oracle, param, args[j]):
				score++
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok && ov.SameTypes {
			if _, unifies := unifyAll(oracle, args); !unifies {
				ok = false
			}
		}
		if ok {
			matches = append(matches, match{ov, score})
		}
	}

	if len(matches) == 0 {
		if !found {
			return nil, nil, serrors.NewError(serrors.NameNotFoundErr, loc,
				"operator or function %q does not exist", name)
		}
		return nil, nil, serrors.NewError(serrors.TypeMismatchErr, loc,
			"operator %q cannot be applied to operands of type %s",
			name, typeList(args))
	}

	best := matches[0]
	ambiguous := false
	for _, m := range matches[1:] {
		if m.score > best.score {
			best = m
			ambiguous = false
		} else if m.score == best.score {
			ambiguous = true
		}
	}
	if ambiguous {
		return nil, nil, serrors.NewError(serrors.AmbiguousOverloadErr, loc,
			"operator %q is ambiguous for operands of type %s",
			name, typeList(args))
	}

	result := best.ov.Result
	if best.ov.ResultFromOperand {
		unified, _ := unifyAll(oracle, args)
		result = unified
	}
	return best.ov, result, nil
}

func unifyAll(oracle types.AncestorOracle, args []types.Type) (types.Type, bool) {
	if len(args) == 0 {
		return nil, false
	}
	cur := args[0]
	for _, t := range args[1:] {
		u, ok := types.Unify(oracle, cur, t)
		if !ok {
			return nil, false
		}
		cur = u
	}
	return cur, true
}

func typeList(args []types.Type) string {
	parts := make([]string, len(args))
	for i, t := range args {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
