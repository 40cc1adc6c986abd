// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package frontend compiles a resolved query AST against a schema snapshot
// into fully typed IR. Compilation runs three stages over the shared
// compiler context: scope and alias resolution, type and cardinality
// inference, and IR construction. The emitted IR embeds schema object ids,
// never names, so the backend never resolves anything again.
package frontend

import (
	"fmt"

	"github.com/halcyondb/halcyon/ast"
	"github.com/halcyondb/halcyon/compiler"
	"github.com/halcyondb/halcyon/ir"
	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// Compile compiles a query AST against s and returns the typed IR.
func Compile(s *schema.Schema, q *ast.Query, opts ...compiler.Option) (*ir.Query, error) {
	ctx := compiler.NewContext(s, opts...)
	c := &queryCompiler{ctx: ctx, paramNums: map[string]int{}}

	ctx.Logger.Debug("frontend: compiling query against schema version %d", s.Version())
	var nPaths, nParams int
	ast.WalkPaths(q, func(*ast.Path) bool { nPaths++; return false })
	ast.WalkParams(q, func(*ast.Param) bool { nParams++; return false })
	ctx.Logger.Debug("frontend: query has %d paths and %d parameter references", nPaths, nParams)

	expr, err := c.compileAliases(q.Aliases, q.Expr)
	if err != nil {
		return nil, ctx.Errs()
	}

	return &ir.Query{
		Meta: ir.Meta{
			Type:     expr.ResultType(),
			Card:     expr.ResultCard(),
			Location: q.Location,
		},
		Expr:   expr,
		Params: c.params,
	}, nil
}

type queryCompiler struct {
	ctx       *compiler.Context
	params    []ir.ParamDecl
	paramNums map[string]int
}

// compileAliases folds the query's alias declarations into nested binder
// nodes around the result expression, innermost last.
func (c *queryCompiler) compileAliases(aliases []*ast.AliasDecl, result ast.Expr) (ir.Node, *serrors.Error) {
	if len(aliases) == 0 {
		return c.compileExpr(result)
	}

	decl := aliases[0]
	bound, err := c.compileExpr(decl.Expr)
	if err != nil {
		return nil, err
	}

	var in ir.Node
	serr := c.ctx.WithScope(func(scope *compiler.Scope) error {
		scope.Bind(&compiler.Binding{
			Name: decl.Name,
			Type: bound.ResultType(),
			Card: bound.ResultCard(),
			Ref:  bound,
		})
		var cerr *serrors.Error
		in, cerr = c.compileAliases(aliases[1:], result)
		if cerr != nil {
			return cerr
		}
		return nil
	})
	if serr != nil {
		return nil, serr.(*serrors.Error)
	}

	return &ir.Alias{
		Meta: ir.Meta{
			Type:     in.ResultType(),
			Card:     in.ResultCard(),
			Location: decl.Location,
		},
		Name: decl.Name,
		Bind: bound,
		In:   in,
	}, nil
}

func (c *queryCompiler) compileExpr(x ast.Expr) (ir.Node, *serrors.Error) {
	switch x := x.(type) {
	case *ast.Path:
		return c.compilePath(x)
	case *ast.Select:
		return c.compileSelect(x)
	case *ast.BinaryExpr:
		return c.compileOperator(canonicalOp(x.Op), []ast.Expr{x.LHS, x.RHS}, x.Location)
	case *ast.UnaryExpr:
		return c.compileOperator(canonicalOp(x.Op), []ast.Expr{x.Operand}, x.Location)
	case *ast.SetExpr:
		return c.compileSetExpr(x)
	case *ast.FuncCall:
		return c.compileOperator(canonicalFunc(x.Name), x.Args, x.Location)
	case *ast.Literal:
		return c.compileLiteral(x)
	case *ast.Param:
		return c.compileParam(x)
	case *ast.Cast:
		return c.compileCast(x)
	case *ast.Insert:
		return c.compileInsert(x)
	case *ast.Update:
		return c.compileUpdate(x)
	case *ast.Delete:
		return c.compileDelete(x)
	}
	return nil, c.ctx.Err(serrors.Internal(x.Loc(),
		map[string]any{"node": fmt.Sprintf("%T", x)}, "unhandled AST node"))
}

// compilePath resolves a path to a concrete schema object chain. The root
// is either a scope binding (alias or correlated subject) or a schema type
// name; every step must name a pointer of the preceding step's target.
func (c *queryCompiler) compilePath(x *ast.Path) (ir.Node, *serrors.Error) {
	p := &ir.Path{Meta: ir.Meta{Location: x.Location}}

	var cur types.Type
	card := types.Many

	if b, ok := c.lookupBinding(x.Root); ok {
		p.Binding = b.Name
		cur = b.Type
		card = b.Card
	} else {
		root, err := c.ctx.Schema.Resolve(x.Root, c.ctx.SearchPath, x.Location)
		if err != nil {
			return nil, c.ctx.Err(err)
		}
		if root.Kind() != schema.KindObjectType {
			return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
				"%v is a %v, not an object type", root.Name(), root.Kind()))
		}
		p.Root = root.ID()
		cur = types.NewObject(root.ID(), root.Name().String())
		card = types.Many // the full extent of the type
	}

	for _, stepAST := range x.Steps {
		obj, ok := cur.(types.Object)
		if !ok {
			return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, stepAST.Location,
				"cannot traverse %q: %v is not an object type", stepAST.Name, cur))
		}
		source, err := c.ctx.Schema.GetByID(obj.ID)
		if err != nil {
			return nil, c.ctx.Err(err)
		}
		ptr, ok := c.ctx.Schema.Pointer(source, stepAST.Name)
		if !ok {
			return nil, c.ctx.Err(serrors.NewError(serrors.NameNotFoundErr, stepAST.Location,
				"object type %v has no link or property %q", source.Name(), stepAST.Name))
		}

		stepType, serr := c.pointerType(ptr, stepAST.Location)
		if serr != nil {
			return nil, c.ctx.Err(serr)
		}
		stepCard := pointerCard(c.ctx.Schema, ptr)
		_, computed := c.ctx.Schema.PointerComputed(ptr)

		p.Steps = append(p.Steps, &ir.Step{
			Pointer:  ptr.ID(),
			Name:     schema.PointerLocalName(ptr),
			Type:     stepType,
			Card:     stepCard,
			Computed: computed,
		})

		cur = stepType
		card = card.Compose(stepCard)
	}

	p.Meta.Type = cur
	p.Meta.Card = card
	return p, nil
}

// pointerType maps a pointer's target to the expression type of a step
// through it.
func (c *queryCompiler) pointerType(ptr *schema.Object, loc *serrors.Location) (types.Type, *serrors.Error) {
	targetID, ok := c.ctx.Schema.PointerTarget(ptr)
	if !ok {
		return nil, serrors.Internal(loc,
			map[string]any{"pointer": ptr.ID().String()},
			"pointer %v has no target", ptr.Name())
	}
	target, err := c.ctx.Schema.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if target.Kind() == schema.KindScalarType {
		kind, ok := scalarKind(target.Name())
		if !ok {
			return nil, serrors.Internal(loc,
				map[string]any{"scalar": target.Name().String()},
				"scalar type %v has no value representation", target.Name())
		}
		return types.NewScalar(kind), nil
	}
	return types.NewObject(target.ID(), target.Name().String()), nil
}

func pointerCard(s *schema.Schema, ptr *schema.Object) types.Cardinality {
	return types.Cardinality{
		Optional: !s.PointerRequired(ptr),
		Multi:    s.PointerMulti(ptr),
	}
}

// compileSelect compiles the subject, then filter, ordering, bounds and
// shape inside a nested scope where the subject row is bound under the
// subject type's local name for correlated references.
func (c *queryCompiler) compileSelect(x *ast.Select) (ir.Node, *serrors.Error) {
	subject, err := c.compileExpr(x.Subject)
	if err != nil {
		return nil, err
	}

	out := &ir.Select{Meta: ir.Meta{Location: x.Location}, Subject: subject}
	card := subject.ResultCard()

	serr := c.ctx.WithScope(func(scope *compiler.Scope) error {
		if obj, ok := subject.ResultType().(types.Object); ok {
			if src, gerr := c.ctx.Schema.GetByID(obj.ID); gerr == nil {
				scope.Bind(&compiler.Binding{
					Name: src.Name().Local,
					Type: obj,
					Card: types.One, // one subject row per evaluation
				})
			}
		}

		if x.Filter != nil {
			filter, ferr := c.compileExpr(x.Filter)
			if ferr != nil {
				return ferr
			}
			if !types.Equal(filter.ResultType(), types.NewScalar(types.Bool)) {
				return c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Filter.Loc(),
					"filter must be std::bool, got %v", filter.ResultType()))
			}
			out.Filter = filter
			card = card.Filter()
		}

		for _, o := range x.OrderBy {
			key, oerr := c.compileExpr(o.Expr)
			if oerr != nil {
				return oerr
			}
			if key.ResultCard().Multi {
				return c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, o.Location,
					"order key must be a singleton"))
			}
			out.OrderBy = append(out.OrderBy, &ir.OrderSpec{Expr: key, Desc: o.Desc})
		}

		for _, bound := range []struct {
			expr ast.Expr
			into *ir.Node
		}{{x.Offset, &out.Offset}, {x.Limit, &out.Limit}} {
			if bound.expr == nil {
				continue
			}
			n, berr := c.compileExpr(bound.expr)
			if berr != nil {
				return berr
			}
			if !types.Equal(n.ResultType(), types.NewScalar(types.Int64)) || n.ResultCard().Multi {
				return c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, bound.expr.Loc(),
					"limit and offset must be singleton std::int64, got %v", n.ResultType()))
			}
			*bound.into = n
		}

		if serr := c.compileShape(x, subject, out); serr != nil {
			return serr
		}
		return nil
	})
	if serr != nil {
		return nil, serr.(*serrors.Error)
	}

	// Either bound can empty the result set.
	if out.Limit != nil || out.Offset != nil {
		card.Optional = true
	}
	out.Meta.Type = subject.ResultType()
	out.Meta.Card = card
	return out, nil
}

func (c *queryCompiler) compileShape(x *ast.Select, subject ir.Node, out *ir.Select) *serrors.Error {
	if len(x.Shape) == 0 {
		return nil
	}

	obj, ok := subject.ResultType().(types.Object)
	if !ok {
		return c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"shapes require an object-type subject, got %v", subject.ResultType()))
	}
	source, err := c.ctx.Schema.GetByID(obj.ID)
	if err != nil {
		return c.ctx.Err(err)
	}

	for _, elem := range x.Shape {
		if elem.Expr != nil {
			expr, cerr := c.compileExpr(elem.Expr)
			if cerr != nil {
				return cerr
			}
			out.Shape = append(out.Shape, &ir.ShapeField{Name: elem.Name, Expr: expr})
			continue
		}
		ptr, ok := c.ctx.Schema.Pointer(source, elem.Name)
		if !ok {
			return c.ctx.Err(serrors.NewError(serrors.NameNotFoundErr, elem.Location,
				"object type %v has no link or property %q", source.Name(), elem.Name))
		}
		out.Shape = append(out.Shape, &ir.ShapeField{Name: elem.Name, Pointer: ptr.ID()})
	}
	return nil
}

func (c *queryCompiler) compileSetExpr(x *ast.SetExpr) (ir.Node, *serrors.Error) {
	if x.Op != "union" {
		return nil, c.ctx.Err(serrors.Internal(x.Location,
			map[string]any{"op": x.Op}, "unhandled set operation"))
	}
	lhs, err := c.compileExpr(x.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := c.compileExpr(x.RHS)
	if err != nil {
		return nil, err
	}

	unified, ok := types.Unify(c.ctx.Schema, lhs.ResultType(), rhs.ResultType())
	if !ok {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"cannot union %v with %v", lhs.ResultType(), rhs.ResultType()))
	}

	return &ir.SetOp{
		Meta: ir.Meta{
			Type:     unified,
			Card:     lhs.ResultCard().Union(rhs.ResultCard()),
			Location: x.Location,
		},
		Op:  x.Op,
		LHS: lhs,
		RHS: rhs,
	}, nil
}

func (c *queryCompiler) compileOperator(name string, args []ast.Expr, loc *serrors.Location) (ir.Node, *serrors.Error) {
	compiled := make([]ir.Node, len(args))
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		n, err := c.compileExpr(a)
		if err != nil {
			return nil, err
		}
		compiled[i] = n
		argTypes[i] = n.ResultType()
	}

	ov, result, err := resolveOverload(c.ctx.Schema, name, argTypes, loc)
	if err != nil {
		return nil, c.ctx.Err(err)
	}

	var card types.Cardinality
	switch {
	case ov.Aggregate:
		card = types.One
	case ov.Coalesce:
		l, r := compiled[0].ResultCard(), compiled[1].ResultCard()
		card = types.Cardinality{
			Optional: l.Optional && r.Optional,
			Multi:    l.Multi || r.Multi,
		}
	default:
		card = types.One
		for _, n := range compiled {
			card = card.CrossJoin(n.ResultCard())
		}
	}

	return &ir.OperatorCall{
		Meta: ir.Meta{Type: result, Card: card, Location: loc},
		Name: ov.Name,
		Args: compiled,
	}, nil
}

func (c *queryCompiler) compileLiteral(x *ast.Literal) (ir.Node, *serrors.Error) {
	var t types.Type
	switch x.Value.(type) {
	case string:
		t = types.NewScalar(types.Str)
	case int64:
		t = types.NewScalar(types.Int64)
	case float64:
		t = types.NewScalar(types.Float64)
	case bool:
		t = types.NewScalar(types.Bool)
	default:
		return nil, c.ctx.Err(serrors.Internal(x.Location,
			map[string]any{"value": fmt.Sprintf("%T", x.Value)}, "unhandled literal value"))
	}
	return &ir.Literal{
		Meta:  ir.Meta{Type: t, Card: types.One, Location: x.Location},
		Value: x.Value,
	}, nil
}

func (c *queryCompiler) compileParam(x *ast.Param) (ir.Node, *serrors.Error) {
	kind, ok := scalarKind(names.New(moduleOrStd(x.Type), x.Type.Local))
	if !ok {
		return nil, c.ctx.Err(serrors.NewError(serrors.NameNotFoundErr, x.Location,
			"unknown parameter type %v", x.Type))
	}
	t := types.NewScalar(kind)

	num, seen := c.paramNums[x.Name]
	if !seen {
		num = len(c.params) + 1
		c.paramNums[x.Name] = num
		c.params = append(c.params, ir.ParamDecl{
			Name: x.Name,
			Num:  num,
			Type: t,
			Card: types.One,
		})
	} else if !types.Equal(c.params[num-1].Type, t) {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"parameter $%s redeclared as %v, previously %v", x.Name, t, c.params[num-1].Type))
	}

	return &ir.Param{
		Meta: ir.Meta{Type: t, Card: types.One, Location: x.Location},
		Name: x.Name,
		Num:  num,
	}, nil
}

func (c *queryCompiler) compileCast(x *ast.Cast) (ir.Node, *serrors.Error) {
	expr, err := c.compileExpr(x.Expr)
	if err != nil {
		return nil, err
	}
	kind, ok := scalarKind(names.New(moduleOrStd(x.Type), x.Type.Local))
	if !ok {
		return nil, c.ctx.Err(serrors.NewError(serrors.NameNotFoundErr, x.Location,
			"unknown cast target %v", x.Type))
	}
	if _, isScalar := expr.ResultType().(types.Scalar); !isScalar {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"cannot cast %v to a scalar", expr.ResultType()))
	}
	return &ir.Cast{
		Meta: ir.Meta{
			Type:     types.NewScalar(kind),
			Card:     expr.ResultCard(),
			Location: x.Location,
		},
		To:   types.NewScalar(kind),
		Expr: expr,
	}, nil
}

// compileInsert type-checks an insert statement: the target must be a
// concrete object type, every assignment must hit a stored single pointer
// with an assignable singleton value, and every required stored pointer
// must be assigned.
func (c *queryCompiler) compileInsert(x *ast.Insert) (ir.Node, *serrors.Error) {
	target, err := c.ctx.Schema.Resolve(x.Type, c.ctx.SearchPath, x.Location)
	if err != nil {
		return nil, c.ctx.Err(err)
	}
	if target.Kind() != schema.KindObjectType {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"%v is a %v, not an object type", target.Name(), target.Kind()))
	}
	if target.Abstract() {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"cannot insert into abstract object type %v", target.Name()))
	}

	out := &ir.Insert{
		Meta: ir.Meta{
			Type:     types.NewObject(target.ID(), target.Name().String()),
			Card:     types.One,
			Location: x.Location,
		},
		Object: target.ID(),
	}

	assigned := map[string]bool{}
	for _, f := range x.Fields {
		wf, werr := c.compileWrite(target, f)
		if werr != nil {
			return nil, werr
		}
		assigned[wf.Name] = true
		out.Fields = append(out.Fields, wf)
	}

	for _, ptr := range c.ctx.Schema.Pointers(target) {
		local := schema.PointerLocalName(ptr)
		if assigned[local] || c.ctx.Schema.PointerMulti(ptr) {
			continue
		}
		if _, computed := c.ctx.Schema.PointerComputed(ptr); computed {
			continue
		}
		if c.ctx.Schema.PointerRequired(ptr) {
			return nil, c.ctx.Err(serrors.NewError(serrors.ConstraintViolationErr, x.Location,
				"missing value for required %q in insert %v", local, target.Name()))
		}
	}
	return out, nil
}

// compileUpdate compiles the subject, then the filter and assignments
// inside a scope where the subject row is bound for correlated references.
func (c *queryCompiler) compileUpdate(x *ast.Update) (ir.Node, *serrors.Error) {
	if len(x.Sets) == 0 {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Location,
			"update requires at least one assignment"))
	}
	subject, source, err := c.compileDMLSubject(x.Subject)
	if err != nil {
		return nil, err
	}

	out := &ir.Update{Subject: subject}
	card := subject.ResultCard()

	serr := c.ctx.WithScope(func(scope *compiler.Scope) error {
		c.bindSubjectRow(scope, subject)

		if x.Filter != nil {
			filter, ferr := c.compileFilter(x.Filter)
			if ferr != nil {
				return ferr
			}
			out.Filter = filter
			card = card.Filter()
		}

		for _, f := range x.Sets {
			wf, werr := c.compileWrite(source, f)
			if werr != nil {
				return werr
			}
			out.Fields = append(out.Fields, wf)
		}
		return nil
	})
	if serr != nil {
		return nil, serr.(*serrors.Error)
	}

	out.Meta = ir.Meta{Type: subject.ResultType(), Card: card, Location: x.Location}
	return out, nil
}

// compileDelete mirrors compileUpdate without assignments.
func (c *queryCompiler) compileDelete(x *ast.Delete) (ir.Node, *serrors.Error) {
	subject, _, err := c.compileDMLSubject(x.Subject)
	if err != nil {
		return nil, err
	}

	out := &ir.Delete{Subject: subject}
	card := subject.ResultCard()

	serr := c.ctx.WithScope(func(scope *compiler.Scope) error {
		c.bindSubjectRow(scope, subject)
		if x.Filter != nil {
			filter, ferr := c.compileFilter(x.Filter)
			if ferr != nil {
				return ferr
			}
			out.Filter = filter
			card = card.Filter()
		}
		return nil
	})
	if serr != nil {
		return nil, serr.(*serrors.Error)
	}

	out.Meta = ir.Meta{Type: subject.ResultType(), Card: card, Location: x.Location}
	return out, nil
}

// compileDMLSubject compiles the target set of an update or delete and
// returns the schema object of its type.
func (c *queryCompiler) compileDMLSubject(x ast.Expr) (ir.Node, *schema.Object, *serrors.Error) {
	subject, err := c.compileExpr(x)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := subject.ResultType().(types.Object)
	if !ok {
		return nil, nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Loc(),
			"update and delete require an object-type subject, got %v", subject.ResultType()))
	}
	source, gerr := c.ctx.Schema.GetByID(obj.ID)
	if gerr != nil {
		return nil, nil, c.ctx.Err(gerr)
	}
	return subject, source, nil
}

func (c *queryCompiler) bindSubjectRow(scope *compiler.Scope, subject ir.Node) {
	if obj, ok := subject.ResultType().(types.Object); ok {
		if src, gerr := c.ctx.Schema.GetByID(obj.ID); gerr == nil {
			scope.Bind(&compiler.Binding{
				Name: src.Name().Local,
				Type: obj,
				Card: types.One, // one subject row per evaluation
			})
		}
	}
}

func (c *queryCompiler) compileFilter(x ast.Expr) (ir.Node, *serrors.Error) {
	filter, err := c.compileExpr(x)
	if err != nil {
		return nil, err
	}
	if !types.Equal(filter.ResultType(), types.NewScalar(types.Bool)) {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, x.Loc(),
			"filter must be std::bool, got %v", filter.ResultType()))
	}
	return filter, nil
}

// compileWrite type-checks one pointer assignment against its declaration.
// Computed and multi pointers have no stored column to write.
func (c *queryCompiler) compileWrite(source *schema.Object, f *ast.FieldAssign) (*ir.WriteField, *serrors.Error) {
	ptr, ok := c.ctx.Schema.Pointer(source, f.Name)
	if !ok {
		return nil, c.ctx.Err(serrors.NewError(serrors.NameNotFoundErr, f.Location,
			"object type %v has no link or property %q", source.Name(), f.Name))
	}
	if _, computed := c.ctx.Schema.PointerComputed(ptr); computed {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, f.Location,
			"cannot assign to computed pointer %q", f.Name))
	}
	if c.ctx.Schema.PointerMulti(ptr) {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, f.Location,
			"cannot assign multi pointer %q: writes go through its link table", f.Name))
	}

	val, err := c.compileExpr(f.Expr)
	if err != nil {
		return nil, err
	}
	want, terr := c.pointerType(ptr, f.Location)
	if terr != nil {
		return nil, c.ctx.Err(terr)
	}
	if !types.Assignable(c.ctx.Schema, want, val.ResultType()) {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, f.Location,
			"cannot assign %v to %q (%v)", val.ResultType(), f.Name, want))
	}
	if val.ResultCard().Multi {
		return nil, c.ctx.Err(serrors.NewError(serrors.TypeMismatchErr, f.Location,
			"value for %q must be a singleton", f.Name))
	}

	return &ir.WriteField{
		Pointer: ptr.ID(),
		Name:    schema.PointerLocalName(ptr),
		Value:   val,
	}, nil
}

// lookupBinding resolves an unqualified path root against the scope chain.
func (c *queryCompiler) lookupBinding(n names.Name) (*compiler.Binding, bool) {
	if n.IsQualified() {
		return nil, false
	}
	return c.ctx.Scope().Lookup(n.Local)
}

func canonicalOp(op string) string { return "std::" + op }

func canonicalFunc(n names.Name) string {
	if n.IsQualified() {
		return n.Module + "::" + n.Local
	}
	return "std::" + n.Local
}

func moduleOrStd(n names.Name) string {
	if n.IsQualified() {
		return n.Module
	}
	return "std"
}

// scalarKind maps a scalar type's schema name to its value kind.
func scalarKind(n names.QualName) (types.Kind, bool) {
	k := types.Kind(n.String())
	switch k {
	case types.Str, types.Int64, types.Float64, types.Bool, types.Decimal,
		types.UUID, types.Bytes, types.Datetime, types.Duration, types.JSON:
		return k, true
	}
	return "", false
}
