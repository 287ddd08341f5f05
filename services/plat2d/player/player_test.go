// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/heursearch/services/plat2d/geom"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
)

func mustLevel(t *testing.T, rows ...string) *lvl.Lvl {
	t.Helper()
	l, err := lvl.New(rows, 32, 32)
	require.NoError(t, err)
	return l
}

func TestAtStart(t *testing.T) {
	l := mustLevel(t,
		".....",
		"S...G",
		"#####",
	)
	p := AtStart(l)
	assert.Equal(t, geom.Point{X: 0, Y: 40}, p.Loc())
	assert.False(t, p.Body.Fall)
	assert.True(t, p.CanJump())
}

func TestAct_IdleOnGround(t *testing.T) {
	l := mustLevel(t, "S...G", "#####")
	p := AtStart(l)
	before := p
	p.Act(l, 0)
	assert.Equal(t, before, p)
}

func TestAct_Run(t *testing.T) {
	l := mustLevel(t, "S...G", "#####")
	p := AtStart(l)

	p.Act(l, Right)
	assert.Equal(t, geom.Point{X: 16, Y: 8}, p.Loc())
	assert.False(t, p.Body.Fall)

	p.Act(l, Left)
	p.Act(l, Left)
	assert.Equal(t, geom.Point{X: 0, Y: 8}, p.Loc(), "left edge of the level is solid")

	p.Act(l, Left|Right)
	assert.Equal(t, geom.Point{X: 0, Y: 8}, p.Loc())
}

func TestAct_WallStopsRun(t *testing.T) {
	l := mustLevel(t, "S.#G", "####")
	p := AtStart(l)
	for i := 0; i < 4; i++ {
		p.Act(l, Right)
	}
	assert.Equal(t, 64-Width, p.Loc().X)
}

func TestAct_Jump(t *testing.T) {
	l := mustLevel(t,
		"....",
		"....",
		"....",
		"S..G",
		"####",
	)
	p := AtStart(l)
	y0 := p.Loc().Y

	p.Act(l, Jump)
	assert.Equal(t, y0-(JumpSpeed-Gravity), p.Loc().Y)
	assert.True(t, p.Body.Fall)
	assert.Equal(t, uint8(MaxJumpFrames-1), p.JumpFrames)
	assert.True(t, p.CanJump())

	for p.JumpFrames > 0 {
		p.Act(l, Jump)
	}
	assert.False(t, p.CanJump(), "airborne with no jump frames left")

	for i := 0; i < 100 && p.Body.Fall; i++ {
		p.Act(l, 0)
	}
	assert.False(t, p.Body.Fall)
	assert.Equal(t, y0, p.Loc().Y)
}

func TestAct_ReleaseEndsJump(t *testing.T) {
	l := mustLevel(t, "....", "S..G", "####")
	p := AtStart(l)
	p.Act(l, Jump)
	p.Act(l, 0)
	assert.Zero(t, p.JumpFrames)
	assert.False(t, p.CanJump())
}

func TestAct_Ceiling(t *testing.T) {
	l := mustLevel(t, "S..G", "####")
	p := AtStart(l)
	p.Act(l, Jump)
	p.Act(l, Jump)
	assert.Zero(t, p.Loc().Y, "top of the level is solid")
	assert.Zero(t, p.JumpFrames)
	assert.Zero(t, p.Body.Dy)
	assert.True(t, p.Body.Fall)
}

func TestAct_TerminalVelocity(t *testing.T) {
	rows := []string{"S..G"}
	for i := 0; i < 20; i++ {
		rows = append(rows, "....")
	}
	rows = append(rows, "####")
	l := mustLevel(t, rows...)

	p := AtStart(l)
	assert.True(t, p.Body.Fall)
	for i := 0; i < 100; i++ {
		p.Act(l, 0)
		assert.LessOrEqual(t, p.Body.Dy, MaxDy)
	}
	assert.False(t, p.Body.Fall)
}
