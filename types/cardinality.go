// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package types

// Cardinality classifies an expression's result as (required|optional) x
// (single|multi). It propagates through every query combinator; getting
// this wrong changes result shapes, so the algebra lives here in one place.
type Cardinality struct {
	Optional bool `json:"optional"` // lower bound zero
	Multi    bool `json:"multi"`    // upper bound greater than one
}

// The four cardinality values.
var (
	One        = Cardinality{}                             // exactly one
	AtMostOne  = Cardinality{Optional: true}               // zero or one
	AtLeastOne = Cardinality{Multi: true}                  // one or more
	Many       = Cardinality{Optional: true, Multi: true}  // zero or more
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case AtMostOne:
		return "at_most_one"
	case AtLeastOne:
		return "at_least_one"
	default:
		return "many"
	}
}

// Compose returns the cardinality of traversing a step of cardinality step
// from a source of cardinality c, e.g. a path `a.b.c`. Optionality and
// multiplicity both poison the result.
func (c Cardinality) Compose(step Cardinality) Cardinality {
	return Cardinality{
		Optional: c.Optional || step.Optional,
		Multi:    c.Multi || step.Multi,
	}
}

// Union returns the cardinality of the set union of two operands. The
// result can always hold more than one element; it is empty only if both
// sides can be empty.
func (c Cardinality) Union(other Cardinality) Cardinality {
	return Cardinality{
		Optional: c.Optional && other.Optional,
		Multi:    true,
	}
}

// Filter returns the cardinality after applying a predicate: the upper
// bound is kept, the lower bound drops to zero.
func (c Cardinality) Filter() Cardinality {
	return Cardinality{Optional: true, Multi: c.Multi}
}

// CrossJoin returns the cardinality of pairing every element of c with
// every element of other (operator application over set arguments).
func (c Cardinality) CrossJoin(other Cardinality) Cardinality {
	return Cardinality{
		Optional: c.Optional || other.Optional,
		Multi:    c.Multi || other.Multi,
	}
}
