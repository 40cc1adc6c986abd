// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package compiler provides the traversal context shared by the query
// frontend and the backend lowering compiler: a read-only schema snapshot,
// a stack of lexical scopes, a path-alias namespace for correlated
// sub-expressions and an error sink. Both compilers instantiate this
// infrastructure with their own node handlers; the scope discipline is
// identical in both.
package compiler

import (
	"fmt"

	"github.com/halcyondb/halcyon/logging"
	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// Binding is a symbol visible in a scope.
type Binding struct {
	Name string
	Type types.Type
	Card types.Cardinality

	// Ref is stage-specific payload: the frontend stores the bound IR
	// node, the backend stores the relation alias.
	Ref any
}

// Scope is one lexical scope: a symbol table plus the path aliases of
// correlated sub-expressions opened inside it.
type Scope struct {
	parent   *Scope
	bindings map[string]*Binding
}

// Lookup resolves a symbol through the scope chain.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Bind declares a symbol in this scope, shadowing outer declarations.
func (s *Scope) Bind(b *Binding) {
	s.bindings[b.Name] = b
}

// Context is threaded through every node visit of a compilation.
type Context struct {
	Schema     *schema.Schema
	SearchPath names.SearchPath
	Logger     logging.Logger

	scope   *Scope
	aliasN  int
	errs    serrors.Errors
}

// NewContext returns a context rooted at an empty scope.
func NewContext(s *schema.Schema, opts ...Option) *Context {
	ctx := &Context{
		Schema: s,
		Logger: logging.NewNoOpLogger(),
		scope:  &Scope{bindings: map[string]*Binding{}},
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Option configures a Context.
type Option func(*Context)

// WithSearchPath sets the module search path for unqualified names.
func WithSearchPath(path names.SearchPath) Option {
	return func(ctx *Context) { ctx.SearchPath = path }
}

// WithLogger sets the stage-trace logger.
func WithLogger(logger logging.Logger) Option {
	return func(ctx *Context) {
		if logger != nil {
			ctx.Logger = logger
		}
	}
}

// Scope returns the innermost scope.
func (ctx *Context) Scope() *Scope { return ctx.scope }

// WithScope runs f inside a fresh nested scope. The scope is popped on
// every exit path, including failure.
func (ctx *Context) WithScope(f func(*Scope) error) error {
	child := &Scope{parent: ctx.scope, bindings: map[string]*Binding{}}
	ctx.scope = child
	defer func() { ctx.scope = child.parent }()
	return f(child)
}

// FreshAlias returns a compilation-unique alias for a correlated
// sub-expression or a generated relation name.
func (ctx *Context) FreshAlias(prefix string) string {
	ctx.aliasN++
	return fmt.Sprintf("%s%d", prefix, ctx.aliasN)
}

// Err records an error and returns it, letting handlers accumulate
// multiple diagnostics before the compilation is abandoned.
func (ctx *Context) Err(err *serrors.Error) *serrors.Error {
	ctx.errs = append(ctx.errs, err)
	return err
}

// Errs returns every error recorded so far.
func (ctx *Context) Errs() serrors.Errors { return ctx.errs }

// Failed reports whether any error was recorded.
func (ctx *Context) Failed() bool { return len(ctx.errs) > 0 }
