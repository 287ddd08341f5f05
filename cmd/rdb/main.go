// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command rdb inspects the results database.
//
// Usage:
//
//	rdb pathfor <root> key=value...   print the attribute path of a run
//	rdb ls <root> key=value...        list stored runs matching the attributes
//
// Malformed arguments print usage and exit with status 2.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/heursearch/services/rdb"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "rdb: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprint(stderr, ue.cmd.UsageString())
		return exitUsage
	}
	return exitFailure
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rdb",
		Short:         "Inspect the results database of search runs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})
	root.AddCommand(newPathforCmd(), newLsCmd())
	return root
}

// rootAndAttrs validates "<root> key=value..." arguments.
func rootAndAttrs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return &usageError{cmd: cmd, err: errors.New("missing database root")}
	}
	if _, err := rdb.ParseAttrs(args[1:]); err != nil {
		return &usageError{cmd: cmd, err: err}
	}
	return nil
}

func newPathforCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pathfor <root> key=value...",
		Short: "Print the attribute path of a run below root",
		Args:  rootAndAttrs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, _ := rdb.ParseAttrs(args[1:])
			fmt.Fprintln(cmd.OutOrStdout(), rdb.PathFor(args[0], attrs))
			return nil
		},
	}
}

func newLsCmd() *cobra.Command {
	var show []string
	cmd := &cobra.Command{
		Use:   "ls <root> key=value...",
		Short: "List stored runs whose attributes match",
		Args:  rootAndAttrs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := rdb.ParseAttrs(args[1:])
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}
			st, err := rdb.Open(rdb.DefaultConfig(args[0]))
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, rec := range recs {
				fields := []string{rec.ID, rec.Attrs.Key(), humanize.Time(rec.Created)}
				for _, k := range show {
					v, ok := rec.Value(k)
					if !ok {
						v = "-"
					}
					fields = append(fields, v)
				}
				fmt.Fprintln(w, strings.Join(fields, "\t"))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&show, "show", nil, `diagnostic to print for each run, e.g. "final sol cost" (repeatable)`)
	return cmd
}
