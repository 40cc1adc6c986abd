// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package pgsql lowers typed IR into parameterized Postgres SQL.
//
// The storage mapping is fixed: every concrete object type owns a table
// named by its qualified schema name with an "id" uuid column plus one
// column per stored single pointer (object targets stored as ids); every
// multi pointer owns a link table named by the pointer's qualified name
// with "source" and "target" columns; computed pointers are inlined as
// expressions over the source row, where the stored expression text refers
// to the source as __source__. Object type scans are polymorphic: a UNION
// ALL over the concrete descendants' tables projected to the scanned
// type's visible columns.
//
// Lowering is pure: no I/O, no connection, byte-identical output for
// identical inputs. Any IR shape this package cannot express is a
// compiler invariant violation and reported with code Lowering, never as
// a user error.
package pgsql

import (
	"strings"

	"github.com/halcyondb/halcyon/compiler"
	"github.com/halcyondb/halcyon/ir"
	"github.com/halcyondb/halcyon/schema"
	"github.com/halcyondb/halcyon/serrors"
	"github.com/halcyondb/halcyon/types"
)

// Fragment is a lowered query: SQL text, the parameters it expects in
// positional order, and the typed shape of its output columns.
type Fragment struct {
	SQL     string
	Params  []ir.ParamDecl
	Columns []Column
}

// Column describes one output column of a fragment.
type Column struct {
	Name string
	Type types.Type
}

// Lower compiles a typed IR query into a SQL fragment.
func Lower(s *schema.Schema, q *ir.Query, opts ...compiler.Option) (*Fragment, error) {
	ctx := compiler.NewContext(s, opts...)
	l := &lowerer{ctx: ctx}

	ctx.Logger.Debug("pgsql: lowering query against schema version %d", s.Version())

	if err := ir.Walk(&paramChecker{decls: q.Params}, q); err != nil {
		ctx.Err(err.(*serrors.Error))
		return nil, ctx.Errs()
	}

	rel, err := l.lowerRel(q.Expr)
	if err != nil {
		return nil, ctx.Errs()
	}

	var buf sqlBuf
	if len(l.ctes) > 0 {
		buf.write("WITH ")
		for i, cte := range l.ctes {
			if i > 0 {
				buf.write(", ")
			}
			buf.write(quoteIdent(cte.name), " AS (", cte.sql, ")")
		}
		buf.write(" ")
	}
	buf.write(rel.sql)

	return &Fragment{SQL: buf.String(), Params: q.Params, Columns: rel.cols}, nil
}

// paramChecker walks the query before lowering and verifies that every
// parameter reference matches its declaration. A reference the frontend
// never declared would otherwise surface as a malformed $n placeholder.
type paramChecker struct {
	decls []ir.ParamDecl
}

func (c *paramChecker) Visit(n ir.Node) (ir.Visitor, error) {
	p, ok := n.(*ir.Param)
	if !ok {
		return c, nil
	}
	if p.Num < 1 || p.Num > len(c.decls) {
		return nil, serrors.NewError(serrors.LoweringErr, p.Loc(),
			"parameter $%s references position %d of %d declared", p.Name, p.Num, len(c.decls))
	}
	decl := c.decls[p.Num-1]
	if decl.Name != p.Name {
		return nil, serrors.NewError(serrors.LoweringErr, p.Loc(),
			"parameter $%s is declared as $%s at position %d", p.Name, decl.Name, p.Num)
	}
	if !types.Equal(decl.Type, p.ResultType()) {
		return nil, serrors.NewError(serrors.LoweringErr, p.Loc(),
			"parameter $%s is used as %v but declared as %v", p.Name, p.ResultType(), decl.Type)
	}
	return c, nil
}

// rel is a lowered set-returning expression: a complete SELECT statement
// plus the columns it produces.
type rel struct {
	sql  string
	cols []Column
}

type cte struct {
	name string
	sql  string
}

// cteRef is the scope payload of a query alias: references select from the
// named CTE.
type cteRef struct {
	name string
	cols []Column
}

// rowRef is the scope payload of a correlated subject row: references
// compile to column accesses on the row's relation alias.
type rowRef struct {
	alias string
	src   *schema.Object
}

type lowerer struct {
	ctx  *compiler.Context
	ctes []cte
}

func (l *lowerer) lowerRel(n ir.Node) (*rel, *serrors.Error) {
	switch n := n.(type) {
	case *ir.Path:
		return l.lowerPathRel(n)
	case *ir.Select:
		return l.lowerSelect(n)
	case *ir.SetOp:
		return l.lowerSetOp(n)
	case *ir.Alias:
		return l.lowerAlias(n)
	case *ir.Insert:
		return l.lowerInsert(n)
	case *ir.Update:
		return l.lowerUpdate(n)
	case *ir.Delete:
		return l.lowerDelete(n)
	}

	// Everything else is a scalar producer; wrap it as a one-column set.
	expr, err := l.lowerScalar(n)
	if err != nil {
		return nil, err
	}
	return &rel{
		sql:  "SELECT " + expr + " AS " + quoteIdent("value"),
		cols: []Column{{Name: "value", Type: n.ResultType()}},
	}, nil
}

// lowerAlias registers the bound expression as a CTE and lowers the body
// with the alias name in scope.
func (l *lowerer) lowerAlias(n *ir.Alias) (*rel, *serrors.Error) {
	bound, err := l.lowerRel(n.Bind)
	if err != nil {
		return nil, err
	}
	l.ctes = append(l.ctes, cte{name: n.Name, sql: bound.sql})

	var out *rel
	werr := l.ctx.WithScope(func(scope *compiler.Scope) error {
		scope.Bind(&compiler.Binding{
			Name: n.Name,
			Type: n.Bind.ResultType(),
			Card: n.Bind.ResultCard(),
			Ref:  cteRef{name: n.Name, cols: bound.cols},
		})
		var rerr *serrors.Error
		out, rerr = l.lowerRel(n.In)
		if rerr != nil {
			return rerr
		}
		return nil
	})
	if werr != nil {
		return nil, werr.(*serrors.Error)
	}
	return out, nil
}

// lowerSetOp lowers a union to UNION ALL. Object-typed arms may carry
// different column shapes (one arm a subtype of the other), so both are
// projected to the unified type's visible columns before combining.
func (l *lowerer) lowerSetOp(n *ir.SetOp) (*rel, *serrors.Error) {
	if n.Op != "union" {
		return nil, l.invariant(n, nil, "unhandled set operation %q", n.Op)
	}
	lhs, err := l.lowerRel(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := l.lowerRel(n.RHS)
	if err != nil {
		return nil, err
	}

	cols := lhs.cols
	if obj, ok := n.ResultType().(types.Object); ok {
		unified, gerr := l.ctx.Schema.GetByID(obj.ID)
		if gerr != nil {
			return nil, l.invariant(n, gerr, "union result type is not in the schema")
		}
		cols, err = l.interfaceColumns(unified)
		if err != nil {
			return nil, err
		}
		if lhs, err = l.projectArm(n, lhs, cols); err != nil {
			return nil, err
		}
		if rhs, err = l.projectArm(n, rhs, cols); err != nil {
			return nil, err
		}
	} else if len(lhs.cols) == 1 {
		// Scalar union: the declared column type is the unified type,
		// not whichever arm happened to come first.
		cols = []Column{{Name: lhs.cols[0].Name, Type: n.ResultType()}}
	}

	return &rel{
		sql:  "(" + lhs.sql + ") UNION ALL (" + rhs.sql + ")",
		cols: cols,
	}, nil
}

// projectArm narrows one union arm to the unified column list. Arms that
// already produce exactly those columns pass through unchanged.
func (l *lowerer) projectArm(n *ir.SetOp, arm *rel, cols []Column) (*rel, *serrors.Error) {
	if len(arm.cols) == len(cols) {
		same := true
		for i := range cols {
			if arm.cols[i].Name != cols[i].Name {
				same = false
				break
			}
		}
		if same {
			return arm, nil
		}
	}

	have := map[string]bool{}
	for _, c := range arm.cols {
		have[c.Name] = true
	}
	alias := l.ctx.FreshAlias("u")

	var buf sqlBuf
	buf.write("SELECT ")
	for i, c := range cols {
		if i > 0 {
			buf.write(", ")
		}
		if !have[c.Name] {
			return nil, l.invariant(n, nil, "union arm is missing column %q of the unified type", c.Name)
		}
		buf.write(quoteIdent(alias), ".", quoteIdent(c.Name))
	}
	buf.write(" FROM (", arm.sql, ") AS ", quoteIdent(alias))
	return &rel{sql: buf.String(), cols: cols}, nil
}

// lowerSelect lowers filter, ordering, bounds and shape over the subject.
// The subject row is bound under its type's local name so correlated
// references inside the clauses resolve to the row alias.
func (l *lowerer) lowerSelect(n *ir.Select) (*rel, *serrors.Error) {
	subject, err := l.lowerRel(n.Subject)
	if err != nil {
		return nil, err
	}
	alias := l.ctx.FreshAlias("s")

	var out *rel
	werr := l.ctx.WithScope(func(scope *compiler.Scope) error {
		if obj, ok := n.Subject.ResultType().(types.Object); ok {
			src, gerr := l.ctx.Schema.GetByID(obj.ID)
			if gerr != nil {
				return l.invariant(n, gerr, "select subject type is not in the schema")
			}
			scope.Bind(&compiler.Binding{
				Name: src.Name().Local,
				Type: obj,
				Card: types.One,
				Ref:  rowRef{alias: alias, src: src},
			})
		}

		var buf sqlBuf
		cols, serr := l.selectList(n, subject, alias)
		if serr != nil {
			return serr
		}
		buf.write("SELECT ")
		for i, c := range cols {
			if i > 0 {
				buf.write(", ")
			}
			buf.write(c.expr, " AS ", quoteIdent(c.col.Name))
		}
		buf.write(" FROM (", subject.sql, ") AS ", quoteIdent(alias))

		if n.Filter != nil {
			cond, ferr := l.lowerScalar(n.Filter)
			if ferr != nil {
				return ferr
			}
			buf.write(" WHERE ", cond)
		}
		if len(n.OrderBy) > 0 {
			buf.write(" ORDER BY ")
			for i, o := range n.OrderBy {
				if i > 0 {
					buf.write(", ")
				}
				key, oerr := l.lowerScalar(o.Expr)
				if oerr != nil {
					return oerr
				}
				buf.write(key)
				if o.Desc {
					buf.write(" DESC")
				}
			}
		}
		if n.Offset != nil {
			off, oerr := l.lowerScalar(n.Offset)
			if oerr != nil {
				return oerr
			}
			buf.write(" OFFSET ", off)
		}
		if n.Limit != nil {
			lim, lerr := l.lowerScalar(n.Limit)
			if lerr != nil {
				return lerr
			}
			buf.write(" LIMIT ", lim)
		}

		outCols := make([]Column, len(cols))
		for i, c := range cols {
			outCols[i] = c.col
		}
		out = &rel{sql: buf.String(), cols: outCols}
		return nil
	})
	if werr != nil {
		return nil, werr.(*serrors.Error)
	}
	return out, nil
}

type selectCol struct {
	expr string
	col  Column
}

// selectList builds the output columns of a select: the subject's own
// columns when there is no shape, otherwise id plus one column per shape
// field.
func (l *lowerer) selectList(n *ir.Select, subject *rel, alias string) ([]selectCol, *serrors.Error) {
	if len(n.Shape) == 0 {
		cols := make([]selectCol, len(subject.cols))
		for i, c := range subject.cols {
			cols[i] = selectCol{expr: quoteIdent(alias) + "." + quoteIdent(c.Name), col: c}
		}
		return cols, nil
	}

	cols := []selectCol{{
		expr: quoteIdent(alias) + "." + quoteIdent("id"),
		col:  Column{Name: "id", Type: types.NewScalar(types.UUID)},
	}}
	for _, f := range n.Shape {
		if f.Expr != nil {
			expr, err := l.lowerScalar(f.Expr)
			if err != nil {
				return nil, err
			}
			cols = append(cols, selectCol{expr: expr, col: Column{Name: f.Name, Type: f.Expr.ResultType()}})
			continue
		}
		ptr, gerr := l.ctx.Schema.GetByID(f.Pointer)
		if gerr != nil {
			return nil, l.invariant(n, gerr, "shape pointer %v is not in the schema", f.Pointer)
		}
		expr, t, err := l.pointerColumn(ptr, alias)
		if err != nil {
			return nil, err
		}
		cols = append(cols, selectCol{expr: expr, col: Column{Name: f.Name, Type: t}})
	}
	return cols, nil
}

// pointerColumn renders the value of a pointer for one source row: an
// inline column for stored single pointers, the source-substituted
// expression for computed ones, and a correlated link-table ARRAY
// subquery for multi pointers.
func (l *lowerer) pointerColumn(ptr *schema.Object, srcAlias string) (string, types.Type, *serrors.Error) {
	t, err := l.pointerValueType(ptr)
	if err != nil {
		return "", nil, err
	}
	local := schema.PointerLocalName(ptr)

	if expr, ok := l.ctx.Schema.PointerComputed(ptr); ok {
		return "(" + substituteSource(expr, srcAlias) + ")", t, nil
	}
	if l.ctx.Schema.PointerMulti(ptr) {
		lt := l.ctx.FreshAlias("l")
		sql := "ARRAY(SELECT " + quoteIdent(lt) + "." + quoteIdent("target") +
			" FROM " + quoteIdent(ptr.Name().String()) + " AS " + quoteIdent(lt) +
			" WHERE " + quoteIdent(lt) + "." + quoteIdent("source") +
			" = " + quoteIdent(srcAlias) + "." + quoteIdent("id") + ")"
		return sql, t, nil
	}
	return quoteIdent(srcAlias) + "." + quoteIdent(local), t, nil
}

// lowerPathRel lowers a path in set position: a polymorphic scan of the
// root type (or the rows of a bound alias) followed by one join per step.
func (l *lowerer) lowerPathRel(n *ir.Path) (*rel, *serrors.Error) {
	var buf sqlBuf
	var alias string
	var cur *schema.Object

	switch {
	case n.Binding != "":
		b, ok := l.ctx.Scope().Lookup(n.Binding)
		if !ok {
			return nil, l.invariant(n, nil, "path binding %q is not in scope", n.Binding)
		}
		switch ref := b.Ref.(type) {
		case cteRef:
			alias = l.ctx.FreshAlias("t")
			if len(n.Steps) == 0 {
				var out sqlBuf
				out.write("SELECT ")
				for i, c := range ref.cols {
					if i > 0 {
						out.write(", ")
					}
					out.write(quoteIdent(alias), ".", quoteIdent(c.Name))
				}
				out.write(" FROM ", quoteIdent(ref.name), " AS ", quoteIdent(alias))
				return &rel{sql: out.String(), cols: ref.cols}, nil
			}
			buf.write("FROM ", quoteIdent(ref.name), " AS ", quoteIdent(alias))
		case rowRef:
			// A correlated row used in set position: a one-row scan of the
			// subject bound by the enclosing select.
			alias = l.ctx.FreshAlias("t")
			buf.write("FROM (SELECT ", quoteIdent(ref.alias), ".*) AS ", quoteIdent(alias))
		default:
			return nil, l.invariant(n, nil, "path binding %q has no relation", n.Binding)
		}
		if obj, ok := n.Meta.Type.(types.Object); ok && len(n.Steps) == 0 {
			if src, gerr := l.ctx.Schema.GetByID(obj.ID); gerr == nil {
				cur = src
			}
		}
	default:
		root, gerr := l.ctx.Schema.GetByID(n.Root)
		if gerr != nil {
			return nil, l.invariant(n, gerr, "path root %v is not in the schema", n.Root)
		}
		scan, serr := l.scan(root)
		if serr != nil {
			return nil, serr
		}
		alias = l.ctx.FreshAlias("t")
		buf.write("FROM (", scan.sql, ") AS ", quoteIdent(alias))
		cur = root
	}

	for i, step := range n.Steps {
		ptr, gerr := l.ctx.Schema.GetByID(step.Pointer)
		if gerr != nil {
			return nil, l.invariant(n, gerr, "path step %d pointer is not in the schema", i)
		}

		last := i == len(n.Steps)-1
		if _, isObj := step.Type.(types.Object); !isObj {
			// Terminal property step: project the value.
			if !last {
				return nil, l.invariant(n, nil, "property step %q is not terminal", step.Name)
			}
			expr, _, perr := l.pointerColumn(ptr, alias)
			if perr != nil {
				return nil, perr
			}
			sql := "SELECT " + expr + " AS " + quoteIdent("value") + " " + buf.String()
			if !step.Card.Optional {
				return &rel{sql: sql, cols: []Column{{Name: "value", Type: step.Type}}}, nil
			}
			sql += " WHERE " + expr + " IS NOT NULL"
			return &rel{sql: sql, cols: []Column{{Name: "value", Type: step.Type}}}, nil
		}

		// Link step: join the target's polymorphic scan.
		target, gerr := l.ctx.Schema.GetByID(step.Type.(types.Object).ID)
		if gerr != nil {
			return nil, l.invariant(n, gerr, "link step %q target is not in the schema", step.Name)
		}
		scan, serr := l.scan(target)
		if serr != nil {
			return nil, serr
		}
		next := l.ctx.FreshAlias("t")

		switch {
		case stepIsComputed(step):
			expr, ok := l.ctx.Schema.PointerComputed(ptr)
			if !ok {
				return nil, l.invariant(n, nil, "step %q marked computed without an expression", step.Name)
			}
			buf.write(" CROSS JOIN LATERAL (SELECT * FROM (", scan.sql, ") AS ", quoteIdent(next+"_s"),
				" WHERE ", quoteIdent(next+"_s"), ".", quoteIdent("id"),
				" = (", substituteSource(expr, alias), ")) AS ", quoteIdent(next))
		case step.Card.Multi:
			link := l.ctx.FreshAlias("l")
			buf.write(" JOIN ", quoteIdent(ptr.Name().String()), " AS ", quoteIdent(link),
				" ON ", quoteIdent(link), ".", quoteIdent("source"),
				" = ", quoteIdent(alias), ".", quoteIdent("id"),
				" JOIN (", scan.sql, ") AS ", quoteIdent(next),
				" ON ", quoteIdent(next), ".", quoteIdent("id"),
				" = ", quoteIdent(link), ".", quoteIdent("target"))
		default:
			buf.write(" JOIN (", scan.sql, ") AS ", quoteIdent(next),
				" ON ", quoteIdent(next), ".", quoteIdent("id"),
				" = ", quoteIdent(alias), ".", quoteIdent(schema.PointerLocalName(ptr)))
		}
		alias = next
		cur = target
	}

	// Object-valued result: project the final type's columns.
	if cur == nil {
		return nil, l.invariant(n, nil, "path has no resolvable result relation")
	}
	cols, serr := l.interfaceColumns(cur)
	if serr != nil {
		return nil, serr
	}
	var out sqlBuf
	out.write("SELECT ")
	for i, c := range cols {
		if i > 0 {
			out.write(", ")
		}
		out.write(quoteIdent(alias), ".", quoteIdent(c.Name))
	}
	out.write(" ", buf.String())
	return &rel{sql: out.String(), cols: cols}, nil
}

func stepIsComputed(s *ir.Step) bool { return s.Computed }

// lowerInsert writes one row into the target's own table inside a CTE and
// yields the generated id. The frontend guarantees every field is a stored
// single pointer, so the column list is flat.
func (l *lowerer) lowerInsert(n *ir.Insert) (*rel, *serrors.Error) {
	obj, gerr := l.ctx.Schema.GetByID(n.Object)
	if gerr != nil {
		return nil, l.invariant(n, gerr, "insert target is not in the schema")
	}
	if obj.Abstract() {
		return nil, l.invariant(n, nil, "insert target %v is abstract", obj.Name())
	}
	name := l.ctx.FreshAlias("i")

	var buf sqlBuf
	buf.write("INSERT INTO ", quoteIdent(obj.Name().String()), " (", quoteIdent("id"))
	for _, f := range n.Fields {
		buf.write(", ", quoteIdent(f.Name))
	}
	buf.write(") VALUES (gen_random_uuid()")
	for _, f := range n.Fields {
		val, err := l.lowerScalar(f.Value)
		if err != nil {
			return nil, err
		}
		buf.write(", ", val)
	}
	buf.write(") RETURNING ", quoteIdent("id"))

	l.ctes = append(l.ctes, cte{name: name, sql: buf.String()})
	return &rel{
		sql: "SELECT " + quoteIdent(name) + "." + quoteIdent("id") +
			" AS " + quoteIdent("id") + " FROM " + quoteIdent(name),
		cols: []Column{{Name: "id", Type: types.NewScalar(types.UUID)}},
	}, nil
}

// lowerUpdate builds the range CTE for the affected rows, then one UPDATE
// substatement per concrete table of the subject type, each joined to the
// range by id. The result is the union of the affected ids.
func (l *lowerer) lowerUpdate(n *ir.Update) (*rel, *serrors.Error) {
	source, rangeName, err := l.lowerDMLRange(n, n.Subject, n.Filter)
	if err != nil {
		return nil, err
	}
	concrete, err := l.dmlConcrete(n, source)
	if err != nil {
		return nil, err
	}

	var arms []string
	for _, t := range concrete {
		tbl := l.ctx.FreshAlias("t")
		ref := l.ctx.FreshAlias("r")

		var buf sqlBuf
		buf.write("UPDATE ", quoteIdent(t.Name().String()), " AS ", quoteIdent(tbl), " SET ")

		serr := l.ctx.WithScope(func(scope *compiler.Scope) error {
			scope.Bind(&compiler.Binding{
				Name: source.Name().Local,
				Type: types.NewObject(source.ID(), source.Name().String()),
				Card: types.One,
				Ref:  rowRef{alias: ref, src: source},
			})
			for i, f := range n.Fields {
				if i > 0 {
					buf.write(", ")
				}
				val, verr := l.lowerScalar(f.Value)
				if verr != nil {
					return verr
				}
				buf.write(quoteIdent(f.Name), " = ", val)
			}
			return nil
		})
		if serr != nil {
			return nil, serr.(*serrors.Error)
		}

		buf.write(" FROM ", quoteIdent(rangeName), " AS ", quoteIdent(ref),
			" WHERE ", quoteIdent(tbl), ".", quoteIdent("id"),
			" = ", quoteIdent(ref), ".", quoteIdent("id"),
			" RETURNING ", quoteIdent(tbl), ".", quoteIdent("id"), " AS ", quoteIdent("id"))

		name := l.ctx.FreshAlias("u")
		l.ctes = append(l.ctes, cte{name: name, sql: buf.String()})
		arms = append(arms, "SELECT "+quoteIdent(name)+"."+quoteIdent("id")+
			" AS "+quoteIdent("id")+" FROM "+quoteIdent(name))
	}
	return &rel{
		sql:  strings.Join(arms, " UNION ALL "),
		cols: []Column{{Name: "id", Type: types.NewScalar(types.UUID)}},
	}, nil
}

// lowerDelete mirrors lowerUpdate with DELETE ... USING substatements.
func (l *lowerer) lowerDelete(n *ir.Delete) (*rel, *serrors.Error) {
	source, rangeName, err := l.lowerDMLRange(n, n.Subject, n.Filter)
	if err != nil {
		return nil, err
	}
	concrete, err := l.dmlConcrete(n, source)
	if err != nil {
		return nil, err
	}

	var arms []string
	for _, t := range concrete {
		tbl := l.ctx.FreshAlias("t")
		ref := l.ctx.FreshAlias("r")

		var buf sqlBuf
		buf.write("DELETE FROM ", quoteIdent(t.Name().String()), " AS ", quoteIdent(tbl),
			" USING ", quoteIdent(rangeName), " AS ", quoteIdent(ref),
			" WHERE ", quoteIdent(tbl), ".", quoteIdent("id"),
			" = ", quoteIdent(ref), ".", quoteIdent("id"),
			" RETURNING ", quoteIdent(tbl), ".", quoteIdent("id"), " AS ", quoteIdent("id"))

		name := l.ctx.FreshAlias("d")
		l.ctes = append(l.ctes, cte{name: name, sql: buf.String()})
		arms = append(arms, "SELECT "+quoteIdent(name)+"."+quoteIdent("id")+
			" AS "+quoteIdent("id")+" FROM "+quoteIdent(name))
	}
	return &rel{
		sql:  strings.Join(arms, " UNION ALL "),
		cols: []Column{{Name: "id", Type: types.NewScalar(types.UUID)}},
	}, nil
}

// lowerDMLRange registers a CTE selecting the rows an update or delete
// affects: the subject's polymorphic scan narrowed by the filter. Returns
// the subject's schema object and the CTE name.
func (l *lowerer) lowerDMLRange(n ir.Node, subject, filter ir.Node) (*schema.Object, string, *serrors.Error) {
	obj, ok := subject.ResultType().(types.Object)
	if !ok {
		return nil, "", l.invariant(n, nil, "statement subject is not object-typed")
	}
	source, gerr := l.ctx.Schema.GetByID(obj.ID)
	if gerr != nil {
		return nil, "", l.invariant(n, gerr, "statement subject type is not in the schema")
	}

	base, err := l.lowerRel(subject)
	if err != nil {
		return nil, "", err
	}

	name := ""
	if filter == nil {
		name = l.ctx.FreshAlias("r")
		l.ctes = append(l.ctes, cte{name: name, sql: base.sql})
		return source, name, nil
	}

	alias := l.ctx.FreshAlias("s")
	var out *rel
	serr := l.ctx.WithScope(func(scope *compiler.Scope) error {
		scope.Bind(&compiler.Binding{
			Name: source.Name().Local,
			Type: obj,
			Card: types.One,
			Ref:  rowRef{alias: alias, src: source},
		})
		cond, ferr := l.lowerScalar(filter)
		if ferr != nil {
			return ferr
		}
		var buf sqlBuf
		buf.write("SELECT ")
		for i, c := range base.cols {
			if i > 0 {
				buf.write(", ")
			}
			buf.write(quoteIdent(alias), ".", quoteIdent(c.Name))
		}
		buf.write(" FROM (", base.sql, ") AS ", quoteIdent(alias), " WHERE ", cond)
		out = &rel{sql: buf.String(), cols: base.cols}
		return nil
	})
	if serr != nil {
		return nil, "", serr.(*serrors.Error)
	}

	name = l.ctx.FreshAlias("r")
	l.ctes = append(l.ctes, cte{name: name, sql: out.sql})
	return source, name, nil
}

// dmlConcrete lists the tables an update or delete must touch: the subject
// type plus its non-abstract descendants.
func (l *lowerer) dmlConcrete(n ir.Node, obj *schema.Object) ([]*schema.Object, *serrors.Error) {
	var concrete []*schema.Object
	if !obj.Abstract() {
		concrete = append(concrete, obj)
	}
	for _, d := range l.ctx.Schema.Descendants(obj) {
		if !d.Abstract() {
			concrete = append(concrete, d)
		}
	}
	if len(concrete) == 0 {
		return nil, l.invariant(n, nil, "statement subject %v has no concrete tables", obj.Name())
	}
	return concrete, nil
}

// scan builds the polymorphic scan of an object type: UNION ALL over the
// tables of its concrete descendants, each projected to the scanned type's
// visible columns.
func (l *lowerer) scan(obj *schema.Object) (*rel, *serrors.Error) {
	cols, err := l.interfaceColumns(obj)
	if err != nil {
		return nil, err
	}

	var concrete []*schema.Object
	if !obj.Abstract() {
		concrete = append(concrete, obj)
	}
	for _, d := range l.ctx.Schema.Descendants(obj) {
		if !d.Abstract() {
			concrete = append(concrete, d)
		}
	}

	if len(concrete) == 0 {
		// Abstract type with no concrete descendants: a well-typed empty set.
		var buf sqlBuf
		buf.write("SELECT ")
		for i, c := range cols {
			if i > 0 {
				buf.write(", ")
			}
			st, ok := sqlType(c.Type)
			if !ok {
				return nil, l.invariantObj(obj, "column %q has no storage type", c.Name)
			}
			buf.write("NULL::", st, " AS ", quoteIdent(c.Name))
		}
		buf.write(" WHERE FALSE")
		return &rel{sql: buf.String(), cols: cols}, nil
	}

	branches := make([]string, len(concrete))
	for i, t := range concrete {
		var buf sqlBuf
		alias := l.ctx.FreshAlias("b")
		buf.write("SELECT ")
		for j, c := range cols {
			if j > 0 {
				buf.write(", ")
			}
			expr, berr := l.branchColumn(t, c.Name, alias)
			if berr != nil {
				return nil, berr
			}
			buf.write(expr, " AS ", quoteIdent(c.Name))
		}
		buf.write(" FROM ", quoteIdent(t.Name().String()), " AS ", quoteIdent(alias))
		branches[i] = buf.String()
	}
	return &rel{sql: strings.Join(branches, " UNION ALL "), cols: cols}, nil
}

// branchColumn renders one visible column for one concrete branch of a
// scan. The pointer may be overridden with a computed expression anywhere
// down the branch's own ancestry.
func (l *lowerer) branchColumn(t *schema.Object, col, alias string) (string, *serrors.Error) {
	if col == "id" {
		return quoteIdent(alias) + "." + quoteIdent("id"), nil
	}
	ptr, ok := l.ctx.Schema.Pointer(t, col)
	if !ok {
		return "", l.invariantObj(t, "concrete type is missing inherited pointer %q", col)
	}
	if expr, computed := l.ctx.Schema.PointerComputed(ptr); computed {
		return "(" + substituteSource(expr, alias) + ")", nil
	}
	return quoteIdent(alias) + "." + quoteIdent(col), nil
}

// interfaceColumns returns the flat column shape of an object type: id
// plus every visible single pointer. Multi pointers live in link tables
// and are not part of the row shape.
func (l *lowerer) interfaceColumns(obj *schema.Object) ([]Column, *serrors.Error) {
	cols := []Column{{Name: "id", Type: types.NewScalar(types.UUID)}}
	for _, ptr := range l.ctx.Schema.Pointers(obj) {
		if l.ctx.Schema.PointerMulti(ptr) {
			continue
		}
		t, err := l.pointerValueType(ptr)
		if err != nil {
			return nil, err
		}
		cols = append(cols, Column{Name: schema.PointerLocalName(ptr), Type: t})
	}
	return cols, nil
}

// pointerValueType returns the value type stored for a pointer.
func (l *lowerer) pointerValueType(ptr *schema.Object) (types.Type, *serrors.Error) {
	targetID, ok := l.ctx.Schema.PointerTarget(ptr)
	if !ok {
		return nil, l.invariantObj(ptr, "pointer has no target")
	}
	target, gerr := l.ctx.Schema.GetByID(targetID)
	if gerr != nil {
		return nil, l.invariantObj(ptr, "pointer target %v is not in the schema", targetID)
	}
	if target.Kind() == schema.KindScalarType {
		return types.NewScalar(types.Kind(target.Name().String())), nil
	}
	return types.NewObject(target.ID(), target.Name().String()), nil
}

// substituteSource rewrites the __source__ placeholder of a stored
// computed expression to the source row alias.
func substituteSource(expr, alias string) string {
	return strings.ReplaceAll(expr, "__source__", quoteIdent(alias))
}

func (l *lowerer) invariant(n ir.Node, cause *serrors.Error, f string, a ...any) *serrors.Error {
	err := serrors.NewError(serrors.LoweringErr, n.Loc(), f, a...).WithDetail("node", nodeKind(n))
	if cause != nil {
		err = err.WithDetail("cause", cause.Error())
	}
	return l.ctx.Err(err)
}

func (l *lowerer) invariantObj(obj *schema.Object, f string, a ...any) *serrors.Error {
	return l.ctx.Err(serrors.NewError(serrors.LoweringErr, nil, f, a...).
		WithDetail("object", obj.ID().String()))
}

func nodeKind(n ir.Node) string {
	switch n.(type) {
	case *ir.Query:
		return "query"
	case *ir.Path:
		return "path"
	case *ir.Select:
		return "select"
	case *ir.OperatorCall:
		return "operator_call"
	case *ir.SetOp:
		return "set_op"
	case *ir.Literal:
		return "literal"
	case *ir.Param:
		return "param"
	case *ir.Cast:
		return "cast"
	case *ir.Alias:
		return "alias"
	case *ir.Insert:
		return "insert"
	case *ir.Update:
		return "update"
	case *ir.Delete:
		return "delete"
	}
	return "unknown"
}
