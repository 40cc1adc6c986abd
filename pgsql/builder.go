// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pgsql

import (
	"strconv"
	"strings"

	"github.com/halcyondb/halcyon/types"
)

// sqlBuf accumulates SQL text. It exists so lowering code reads as a
// sequence of writes rather than string concatenation.
type sqlBuf struct {
	b strings.Builder
}

func (w *sqlBuf) write(parts ...string) {
	for _, p := range parts {
		w.b.WriteString(p)
	}
}

func (w *sqlBuf) String() string { return w.b.String() }

// quoteIdent quotes an arbitrary identifier for Postgres. Schema names are
// used verbatim as table and column names, so everything is quoted.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteString renders a string literal.
func quoteString(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// sqlScalarType maps a scalar kind to its Postgres type name.
var sqlScalarType = map[types.Kind]string{
	types.Str:      "text",
	types.Int64:    "bigint",
	types.Float64:  "double precision",
	types.Bool:     "boolean",
	types.Decimal:  "numeric",
	types.UUID:     "uuid",
	types.Bytes:    "bytea",
	types.Datetime: "timestamptz",
	types.Duration: "interval",
	types.JSON:     "jsonb",
}

// sqlType returns the Postgres type a value of t is stored as. Object
// references are stored as ids.
func sqlType(t types.Type) (string, bool) {
	switch t := t.(type) {
	case types.Scalar:
		st, ok := sqlScalarType[t.Kind]
		return st, ok
	case types.Object:
		return "uuid", true
	}
	return "", false
}

// renderLiteral renders a Go literal value as a SQL constant.
func renderLiteral(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return quoteString(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		if v {
			return "TRUE", true
		}
		return "FALSE", true
	}
	return "", false
}

// paramRef renders a positional parameter reference.
func paramRef(num int) string {
	return "$" + strconv.Itoa(num)
}
