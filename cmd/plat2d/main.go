// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command plat2d runs a heuristic search strategy on a platformer level.
//
// Usage:
//
//	plat2d <algorithm> [--level file.yaml] [flags]
//
// The level is read from standard input when --level is not given.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/AleutianAI/heursearch/services/driver"
	"github.com/AleutianAI/heursearch/services/plat2d"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
	"github.com/AleutianAI/heursearch/services/rdb"
	"github.com/AleutianAI/heursearch/services/search"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var levelPath string
	d := &driver.Driver[plat2d.State, plat2d.PackedState, search.Undo]{
		Name:    "plat2d",
		Version: version,
		DomainFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&levelPath, "level", "", "level file (default: standard input)")
		},
		Load: func() (driver.Problem[plat2d.State, plat2d.PackedState, search.Undo], rdb.Attrs, error) {
			l, err := readLevel(levelPath, stdin)
			if err != nil {
				return nil, nil, err
			}
			return plat2d.New(l), rdb.Attrs{{Key: "level", Value: levelName(l, levelPath)}}, nil
		},
		Controls: plat2d.ControlStr,
	}
	return d.Execute(ctx, args, stdout, stderr)
}

func readLevel(path string, stdin io.Reader) (*lvl.Lvl, error) {
	if path == "" {
		return lvl.Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := lvl.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// levelName names the level in the results database. Attribute values
// may not contain '/'.
func levelName(l *lvl.Lvl, path string) string {
	name := l.Name
	if name == "" && path != "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if name == "" {
		name = "stdin"
	}
	return strings.ReplaceAll(name, "/", "_")
}
