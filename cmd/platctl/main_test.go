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
)

const flatLevel = "name: flat\ntiles: |\n  S...G\n  #####\n"

func platctl(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEncodeDecode(t *testing.T) {
	code, out, _ := platctl(t, "", "encode", "0", "1", "2", "4", "5", "6")
	require.Equal(t, 0, code)
	assert.Equal(t, ".lrjLR\n", out)

	code, out, _ = platctl(t, "", "decode", ".lrjLR")
	require.Equal(t, 0, code)
	assert.Equal(t, "0 1 2 4 5 6\n", out)
}

func TestEncodeDecode_Empty(t *testing.T) {
	code, out, _ := platctl(t, "", "encode")
	require.Equal(t, 0, code)
	assert.Equal(t, "\n", out)

	code, out, _ = platctl(t, "", "decode")
	require.Equal(t, 0, code)
	assert.Equal(t, "\n", out)
}

func TestEncodeDecode_Errors(t *testing.T) {
	code, _, stderr := platctl(t, "", "encode", "9")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid control")

	code, _, stderr = platctl(t, "", "encode", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `operator "x"`)

	code, _, stderr = platctl(t, "", "decode", "rrz")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid control")
}

func TestReplay(t *testing.T) {
	code, out, stderr := platctl(t, flatLevel, "replay", "rrrrrrrr")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "0, 8", lines[0])
	assert.Equal(t, "128, 8", lines[8])
	assert.Equal(t, "cost\t128", lines[9])
	assert.Equal(t, "length\t9", lines[10])
}

func TestReplay_MissesGoal(t *testing.T) {
	code, out, stderr := platctl(t, flatLevel, "replay", "rr")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "32, 8\n")
	assert.Contains(t, stderr, "do not reach the goal")
}
