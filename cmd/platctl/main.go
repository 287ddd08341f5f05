// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command platctl converts platformer control strings and replays them.
//
// Usage:
//
//	platctl encode <op>...              operator ids to a control string
//	platctl decode <controls>           control string to operator ids
//	platctl replay --level f <controls> dump every state the controls visit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/heursearch/services/plat2d"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
	"github.com/AleutianAI/heursearch/services/search"
)

// errMissesGoal is returned by replay when the final state is not a goal.
var errMissesGoal = errors.New("controls do not reach the goal")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "platctl: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:           "platctl",
		Short:         "Encode, decode and replay platformer control strings",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newReplayCmd(stdin))
	return root
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <op>...",
		Short: "Encode operator ids as a control string",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := make([]search.Oper, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("operator %q: %w", a, err)
				}
				ops[i] = search.Oper(n)
			}
			s, err := plat2d.ControlStr(ops)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <controls>",
		Short: "Decode a control string to operator ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := plat2d.ControlVec(firstArg(args))
			if err != nil {
				return err
			}
			ids := make([]string, len(ops))
			for i, op := range ops {
				ids[i] = strconv.Itoa(int(op))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, " "))
			return nil
		},
	}
}

func newReplayCmd(stdin io.Reader) *cobra.Command {
	var levelPath string
	cmd := &cobra.Command{
		Use:   "replay <controls>",
		Short: "Simulate a control string and dump the visited states",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := plat2d.ControlVec(firstArg(args))
			if err != nil {
				return err
			}
			l, err := openLevel(levelPath, stdin)
			if err != nil {
				return err
			}
			d := plat2d.New(l)
			states, cost := d.Replay(ops)

			w := cmd.OutOrStdout()
			for i := range states {
				d.Dump(w, &states[i])
			}
			search.DfPair(w, "cost", "%g", cost)
			search.DfPair(w, "length", "%d", len(states))
			if !d.IsGoal(&states[len(states)-1]) {
				return errMissesGoal
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&levelPath, "level", "", "level file (default: standard input)")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func openLevel(path string, stdin io.Reader) (*lvl.Lvl, error) {
	if path == "" {
		return lvl.Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lvl.Read(f)
}
