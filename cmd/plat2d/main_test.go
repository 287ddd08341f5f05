// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
)

func TestRun_LevelFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"astar", "--level", "testdata/flat.yaml", "--log-level", "error"},
		strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "final sol cost\t128\n")
	assert.Contains(t, stdout.String(), "controls\trrrrrrrr\n")
}

func TestRun_LevelFromStdin(t *testing.T) {
	level := "name: flat\ntiles: |\n  S...G\n  #####\n"
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"greedy", "--log-level", "error"},
		strings.NewReader(level), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "initial heuristic\t"))
}

func TestRun_Platforms(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"wastar", "--wt", "2", "--level", "testdata/platforms.yaml", "--log-level", "error"},
		nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "final sol cost\t-1\n")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{"unknown algorithm", []string{"dijkstra"}, "", "unknown algorithm"},
		{"missing level file", []string{"astar", "--level", "testdata/none.yaml"}, "", "none.yaml"},
		{"bad level", []string{"astar"}, "tiles: |\n  S..x\n", "invalid level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, strings.NewReader(tt.in), &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestLevelName(t *testing.T) {
	l, err := lvl.New([]string{"SG"}, 32, 32)
	require.NoError(t, err)
	assert.Equal(t, "stdin", levelName(l, ""))
	assert.Equal(t, "flat", levelName(l, "levels/flat.yaml"))
	l.Name = "a/b"
	assert.Equal(t, "a_b", levelName(l, "levels/flat.yaml"))
}
