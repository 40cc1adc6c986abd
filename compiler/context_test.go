// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package compiler

import (
	"testing"

	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

func TestScopeShadowingAndPopping(t *testing.T) {
	ctx := NewContext(schema.New())
	ctx.Scope().Bind(&Binding{Name: "x", Card: types.One})

	err := ctx.WithScope(func(inner *Scope) error {
		inner.Bind(&Binding{Name: "x", Card: types.Many})
		b, ok := ctx.Scope().Lookup("x")
		if !ok || b.Card != types.Many {
			t.Fatalf("inner binding not visible: %+v", b)
		}

		// Unshadowed names resolve through the chain.
		inner.Bind(&Binding{Name: "y"})
		if _, ok := ctx.Scope().Lookup("y"); !ok {
			t.Fatal("inner-only binding not visible")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	b, ok := ctx.Scope().Lookup("x")
	if !ok || b.Card != types.One {
		t.Fatalf("outer binding not restored: %+v", b)
	}
	if _, ok := ctx.Scope().Lookup("y"); ok {
		t.Fatal("inner binding escaped its scope")
	}
}

func TestWithScopePopsOnFailure(t *testing.T) {
	ctx := NewContext(schema.New())
	boom := serrors.NewError(serrors.InternalErr, nil, "boom")

	err := ctx.WithScope(func(inner *Scope) error {
		inner.Bind(&Binding{Name: "z"})
		return boom
	})
	if err != boom {
		t.Fatalf("error not propagated: %v", err)
	}
	if _, ok := ctx.Scope().Lookup("z"); ok {
		t.Fatal("failed scope left bindings behind")
	}
}

func TestFreshAliasUnique(t *testing.T) {
	ctx := NewContext(schema.New())
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		a := ctx.FreshAlias("t")
		if seen[a] {
			t.Fatalf("alias %q repeated", a)
		}
		seen[a] = true
	}
	// Different prefixes share the counter, so they can never collide
	// with each other either.
	if ctx.FreshAlias("s") == "s1" {
		t.Fatal("prefixes must not reset the counter")
	}
}

func TestErrorAccumulation(t *testing.T) {
	ctx := NewContext(schema.New())
	if ctx.Failed() {
		t.Fatal("fresh context already failed")
	}

	first := ctx.Err(serrors.NewError(serrors.TypeMismatchErr, nil, "first"))
	ctx.Err(serrors.NewError(serrors.NameNotFoundErr, nil, "second"))

	if first.Code != serrors.TypeMismatchErr {
		t.Fatalf("Err rewrote the error: %v", first)
	}
	if !ctx.Failed() || len(ctx.Errs()) != 2 {
		t.Fatalf("errors not accumulated: %v", ctx.Errs())
	}
}

func TestContextOptions(t *testing.T) {
	ctx := NewContext(schema.New(), WithSearchPath(names.SearchPath{"app"}))
	if len(ctx.SearchPath) != 1 || ctx.SearchPath[0] != "app" {
		t.Fatalf("search path %v", ctx.SearchPath)
	}
	if ctx.Logger == nil {
		t.Fatal("default logger missing")
	}

	// A nil logger keeps the default instead of panicking later.
	ctx = NewContext(schema.New(), WithLogger(nil))
	if ctx.Logger == nil {
		t.Fatal("nil logger overrode the default")
	}
}
