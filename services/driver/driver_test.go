// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/heursearch/services/plat2d"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
	"github.com/AleutianAI/heursearch/services/rdb"
	"github.com/AleutianAI/heursearch/services/search"
)

type platDriver = Driver[plat2d.State, plat2d.PackedState, search.Undo]

// flatDriver runs on a five-tile floor with the goal four tiles right of
// the start.
func flatDriver(t *testing.T) *platDriver {
	t.Helper()
	l, err := lvl.New([]string{"S...G", "#####"}, lvl.DefaultTileWidth, lvl.DefaultTileHeight)
	require.NoError(t, err)
	return &platDriver{
		Name: "plat2d",
		Load: func() (Problem[plat2d.State, plat2d.PackedState, search.Undo], rdb.Attrs, error) {
			return plat2d.New(l), rdb.Attrs{{Key: "level", Value: "flat"}}, nil
		},
		Controls: plat2d.ControlStr,
	}
}

func execute(t *testing.T, d *platDriver, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := d.Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// =============================================================================
// Dispatch
// =============================================================================

func TestExecute_UnknownAlgorithm(t *testing.T) {
	code, stdout, stderr := execute(t, flatDriver(t), "bogus")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown algorithm")
	assert.Contains(t, stderr, "Usage:")
}

func TestExecute_HelpIsNotAnAlgorithm(t *testing.T) {
	for _, args := range [][]string{{"help"}, {"help", "astar"}} {
		code, stdout, stderr := execute(t, flatDriver(t), args...)
		assert.Equal(t, ExitFailure, code, "%v", args)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "unknown algorithm")
		assert.Contains(t, stderr, "Usage:")
	}
}

func TestExecute_MissingAlgorithm(t *testing.T) {
	code, stdout, stderr := execute(t, flatDriver(t))
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no algorithm specified")
	assert.Contains(t, stderr, "Usage:")
}

func TestExecute_BadFlag(t *testing.T) {
	code, stdout, stderr := execute(t, flatDriver(t), "astar", "--no-such-flag")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestExecute_LoadError(t *testing.T) {
	d := flatDriver(t)
	d.Load = func() (Problem[plat2d.State, plat2d.PackedState, search.Undo], rdb.Attrs, error) {
		return nil, nil, errors.New("level missing")
	}
	code, stdout, stderr := execute(t, d, "astar")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "level missing")
}

// =============================================================================
// Runs
// =============================================================================

func TestExecute_AstarFlat(t *testing.T) {
	code, stdout, stderr := execute(t, flatDriver(t), "astar", "--log-level", "error")
	require.Equal(t, ExitOK, code, stderr)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "initial heuristic\t"), lines[0])
	assert.Equal(t, "algorithm\tastar", lines[1])

	pairs, err := rdb.ParsePairs(strings.NewReader(stdout))
	require.NoError(t, err)
	rec := rdb.Record{Pairs: pairs}
	for key, want := range map[string]string{
		"final sol cost":   "128",
		"final sol length": "9",
		"solution length":  "9",
		"controls":         "rrrrrrrr",
	} {
		got, ok := rec.Value(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	for _, key := range []string{"total wall time", "total nodes expanded", "max resident kilobytes", "user time", "system time"} {
		_, ok := rec.Value(key)
		assert.True(t, ok, key)
	}

	order := []string{"initial heuristic\t", "total nodes expanded\t", "controls\t", "\n0, 8\n", "\n128, 8\n", "max resident kilobytes\t"}
	last := -1
	for _, s := range order {
		i := strings.Index(stdout, s)
		require.GreaterOrEqual(t, i, 0, "%q missing", s)
		assert.Greater(t, i, last, "%q out of order", s)
		last = i
	}
}

func TestExecute_EveryStrategySolvesFlat(t *testing.T) {
	d := flatDriver(t)
	for _, name := range search.DefaultRegistry[plat2d.State, plat2d.PackedState, search.Undo]().Names() {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := execute(t, d, name, "--log-level", "error")
			require.Equal(t, ExitOK, code, stderr)
			assert.Contains(t, stdout, "algorithm\t"+name+"\n")
			assert.NotContains(t, stdout, "final sol cost\t-1")
		})
	}
}

func TestExecute_StrategyFlags(t *testing.T) {
	code, stdout, _ := execute(t, flatDriver(t), "wastar", "--wt", "2", "--log-level", "error")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "weight\t2\n")

	code, stdout, stderr := execute(t, flatDriver(t), "wastar", "--wt", "0.5")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid option")
}

func TestExecute_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\nlimits:\n  max_expansions: 1\n"), 0o600))

	code, stdout, stderr := execute(t, flatDriver(t), "astar", "--config", path)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "total nodes expanded\t1\n")
	assert.Contains(t, stdout, "final sol cost\t-1\n")
	assert.Contains(t, stdout, "solution length\t0\n")

	code, stdout, _ = execute(t, flatDriver(t), "astar", "--config", path, "--max-expansions", "0")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "final sol cost\t128\n")
}

func TestExecute_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  weight: 0.2\n"), 0o600))

	code, stdout, stderr := execute(t, flatDriver(t), "astar", "--config", path)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestExecute_ResultsDatabase(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := execute(t, flatDriver(t), "arastar", "--rdb", dir, "--wt0", "3", "--log-level", "error")
	require.Equal(t, ExitOK, code, stderr)

	st, err := rdb.Open(rdb.DefaultConfig(dir))
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.List(context.Background(), rdb.Attrs{{Key: "alg", Value: "arastar"}, {Key: "level", Value: "flat"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	wt, ok := recs[0].Attrs.Get("wt0")
	assert.True(t, ok)
	assert.Equal(t, "3", wt)
	dwt, ok := recs[0].Attrs.Get("dwt")
	assert.True(t, ok)
	assert.Equal(t, "1", dwt)
	cost, ok := recs[0].Value("final sol cost")
	assert.True(t, ok)
	assert.Equal(t, "128", cost)
}

func TestExecute_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.prom")
	code, _, stderr := execute(t, flatDriver(t), "greedy", "--metrics-file", path, "--log-level", "error")
	require.Equal(t, ExitOK, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `heursearch_search_runs_total{algorithm="greedy",outcome="solved"}`)
	assert.Contains(t, string(data), "heursearch_search_duration_seconds")
}

func TestExecute_TraceStderr(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	code, stdout, stderr := execute(t, flatDriver(t), "astar", "--trace", "stderr", "--log-level", "error")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "search.astar")
	assert.NotContains(t, stdout, "search.astar")
}

func TestExecute_DomainFlags(t *testing.T) {
	d := flatDriver(t)
	var seen string
	d.DomainFlags = func(fs *pflag.FlagSet) {
		fs.StringVar(&seen, "level", "", "level file")
	}
	code, _, stderr := execute(t, d, "--level", "x.yaml", "idastar", "--log-level", "error")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "x.yaml", seen)
}
