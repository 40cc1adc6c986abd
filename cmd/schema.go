// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/halcyondb/halcyon/ordering"
	"github.com/halcyondb/halcyon/schema"
)

func init() {

	schemaCommand := &cobra.Command{
		Use:   "schema",
		Short: "Inspect schema snapshots",
	}

	showCommand := &cobra.Command{
		Use:   "show <schema.json>",
		Short: "Print the objects of a schema snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			showSchema(os.Stdout, s)
			return nil
		},
	}

	orderCommand := &cobra.Command{
		Use:   "order <base.json> <target.json>",
		Short: "Print the application order of the delta between two snapshots",
		Long: `Diff two schema snapshots and print the order the resulting
operations would be applied in, including any forward-reference stub
splits.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			target, err := loadSchema(args[1])
			if err != nil {
				return err
			}
			ops, err := schema.Diff(base, target)
			if err != nil {
				return err
			}
			ordered, oerr := ordering.OrderOperations(base, ops)
			if oerr != nil {
				return oerr
			}
			for i, op := range ordered {
				fmt.Fprintf(os.Stdout, "%3d. %s\n", i+1, op)
			}
			return nil
		},
	}

	schemaCommand.AddCommand(showCommand)
	schemaCommand.AddCommand(orderCommand)
	RootCommand.AddCommand(schemaCommand)
}

func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := schema.New()
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

func showSchema(out io.Writer, s *schema.Schema) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "Kind", "Abstract", "Bases", "Fields"})
	table.SetAutoWrapText(false)

	s.Objects(func(obj *schema.Object) bool {
		bases := make([]string, 0, len(obj.Bases()))
		for _, id := range obj.Bases() {
			base, err := s.GetByID(id)
			if err != nil {
				bases = append(bases, id.String())
				continue
			}
			bases = append(bases, base.Name().String())
		}
		table.Append([]string{
			obj.Name().String(),
			string(obj.Kind()),
			fmt.Sprintf("%v", obj.Abstract()),
			strings.Join(bases, ", "),
			strings.Join(obj.FieldNames(), ", "),
		})
		return false
	})
	table.Render()
}
