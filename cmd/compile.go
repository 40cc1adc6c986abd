// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyondb/halcyon/ast"
	"github.com/halcyondb/halcyon/compiler"
	"github.com/halcyondb/halcyon/frontend"
	"github.com/halcyondb/halcyon/names"
	"github.com/halcyondb/halcyon/pgsql"
)

func init() {

	var emitIR bool
	var searchPath []string

	compileCommand := &cobra.Command{
		Use:   "compile <schema.json> <query.json>",
		Short: "Compile a query AST against a schema snapshot",
		Long: `Compile a kind-tagged query AST against a schema snapshot and print
the resulting SQL, or the typed IR with --emit-ir.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			q, err := ast.DecodeQuery(data)
			if err != nil {
				return err
			}

			path := names.DefaultSearchPath
			if len(searchPath) > 0 {
				path = names.SearchPath(searchPath)
			}
			opts := []compiler.Option{
				compiler.WithSearchPath(path),
				compiler.WithLogger(newLogger()),
			}
			compiled, err := frontend.Compile(s, q, opts...)
			if err != nil {
				return err
			}

			if emitIR {
				out, err := json.MarshalIndent(compiled, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, string(out))
				return nil
			}

			fragment, err := pgsql.Lower(s, compiled, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, fragment.SQL)
			for _, p := range fragment.Params {
				fmt.Fprintf(os.Stdout, "-- $%d %s %v\n", p.Num, p.Name, p.Type)
			}
			return nil
		},
	}

	compileCommand.Flags().BoolVar(&emitIR, "emit-ir", false, "print the typed IR instead of SQL")
	addSearchPathFlag(compileCommand.Flags(), &searchPath)
	RootCommand.AddCommand(compileCommand)
}
