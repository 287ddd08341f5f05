// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package driver runs one search strategy against one domain from the
// command line.
//
// # Protocol
//
// A run writes key/value diagnostics to stdout in the order:
//
//	initial heuristic	<h(s0)>
//	algorithm	<name>
//	<strategy statistics>
//	controls	<encoded operators>     (when the domain has an encoding)
//	solution length	<states>
//	<one dump line per solution state>
//	max resident kilobytes	<kb>
//	user time	<seconds>
//	system time	<seconds>
//
// A missing or unknown algorithm prints usage on stderr, writes nothing to
// stdout and exits with status 1 before any search runs.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AleutianAI/heursearch/services/rdb"
	"github.com/AleutianAI/heursearch/services/search"
)

// Exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// errMissingAlgorithm is returned when no strategy is named.
var errMissingAlgorithm = errors.New("no algorithm specified")

// Problem is a domain the driver can run and dump.
type Problem[S, P, U any] interface {
	search.Domain[S, P, U]

	// Dump writes one solution state as a single line.
	Dump(w io.Writer, s *S)
}

// Driver builds the command line of one domain binary.
//
// Description:
//
//	Every entry of Registry becomes a subcommand carrying the entry's
//	own flags. Global flags select the configuration file, limits,
//	telemetry and the results database. Load is called once per run,
//	after flags are parsed, and returns the domain instance plus the
//	attributes identifying it in the results database.
//
// Thread Safety: Execute may be called repeatedly but not concurrently.
type Driver[S, P, U any] struct {
	// Name is the binary name used in usage text and logs.
	Name string

	// Version is reported by telemetry.
	Version string

	// Registry supplies the strategies. Nil means search.DefaultRegistry.
	Registry *search.Registry[S, P, U]

	// DomainFlags binds flags read by Load. Optional.
	DomainFlags func(fs *pflag.FlagSet)

	// Load builds the domain instance.
	Load func() (Problem[S, P, U], rdb.Attrs, error)

	// Controls encodes a solution's operators. Optional.
	Controls func(ops []search.Oper) (string, error)
}

// globalFlags are the flags shared by every strategy subcommand.
type globalFlags struct {
	config        string
	maxExpansions int64
	timeLimit     time.Duration
	trace         string
	metricsFile   string
	rdbDir        string
	logLevel      string
	logFormat     string
}

// usageError marks errors that are answered with usage text.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute parses args and runs the selected strategy.
//
// Inputs:
//   - ctx: Context for the run and its telemetry.
//   - args: Command-line arguments without the program name.
//   - stdout: Receives diagnostics only.
//   - stderr: Receives usage, errors and logs.
//
// Outputs:
//   - int: ExitOK on a completed run, ExitFailure otherwise.
func (d *Driver[S, P, U]) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := d.command(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "%s: %v\n", d.Name, err)
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprint(stderr, ue.cmd.UsageString())
	}
	return ExitFailure
}

// command assembles the cobra command tree.
func (d *Driver[S, P, U]) command(stdout, stderr io.Writer) *cobra.Command {
	reg := d.Registry
	if reg == nil {
		reg = search.DefaultRegistry[S, P, U]()
	}

	var gf globalFlags
	root := &cobra.Command{
		Use:           d.Name + " <algorithm> [flags]",
		Short:         "Run a heuristic search strategy on the " + d.Name + " domain",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{cmd: cmd, err: fmt.Errorf("%w: %q", search.ErrUnknownAlgorithm, args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return &usageError{cmd: cmd, err: errMissingAlgorithm}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	// "help" is not an algorithm; it gets the same answer as any other
	// unknown name. --help still prints usage.
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return &usageError{cmd: root, err: fmt.Errorf("%w: %q", search.ErrUnknownAlgorithm, "help")}
		},
	})
	root.SetOut(stderr)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&gf.config, "config", "", "YAML configuration file")
	pf.Int64Var(&gf.maxExpansions, "max-expansions", 0, "stop after this many expansions (0 = unlimited)")
	pf.DurationVar(&gf.timeLimit, "time-limit", 0, "stop after this much search time, e.g. 30s (0 = unlimited)")
	pf.StringVar(&gf.trace, "trace", "", "span exporter: none or stderr")
	pf.StringVar(&gf.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	pf.StringVar(&gf.rdbDir, "rdb", "", "store the run in the results database at this directory")
	pf.StringVar(&gf.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&gf.logFormat, "log-format", "", "log format: auto, text or json")
	if d.DomainFlags != nil {
		d.DomainFlags(pf)
	}

	for _, name := range reg.Names() {
		e, _ := reg.Lookup(name)
		root.AddCommand(d.strategyCommand(e, &gf, stdout, stderr))
	}
	return root
}

// strategyCommand builds the subcommand running e.
func (d *Driver[S, P, U]) strategyCommand(e search.Entry[S, P, U], gf *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.Name,
		Short: e.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := &run[S, P, U]{
				driver: d,
				entry:  e,
				flags:  gf,
				cmd:    cmd,
				stdout: stdout,
				stderr: stderr,
			}
			return r.execute(cmd.Context())
		},
	}
	if e.Flags != nil {
		o := search.DefaultOptions()
		e.Flags(cmd.Flags(), &o)
	}
	return cmd
}
