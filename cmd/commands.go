// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package cmd implements the halcyon CLI, an inspection harness over the
// compiler core: schema snapshots in, application orders and SQL out.
package cmd

import (
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/halcyondb/halcyon/logging"
)

// RootCommand is the base CLI command that all subcommands are added to.
var RootCommand = &cobra.Command{
	Use:   path.Base(os.Args[0]),
	Short: "Halcyon schema and query compiler",
	Long:  "Inspect schema snapshots, delta application orders and compiled SQL.",
}

var logLevel string

func init() {
	RootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "error", "set log level {debug,info,error}")
}

// addSearchPathFlag sets the module search path used to resolve
// unqualified names.
func addSearchPathFlag(fs *pflag.FlagSet, v *[]string) {
	fs.StringSliceVar(v, "search-path", nil, "set the module search path for unqualified names")
}

// newLogger builds the logger configured by the persistent flags.
func newLogger() logging.Logger {
	logger := logging.New()
	switch logLevel {
	case "debug":
		logger.SetLevel(logging.Debug)
	case "info":
		logger.SetLevel(logging.Info)
	default:
		logger.SetLevel(logging.Error)
	}
	return logger
}
