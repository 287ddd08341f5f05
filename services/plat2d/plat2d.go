// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plat2d is the platformer navigation domain: guide a running,
// jumping player from the start tile of a level to its goal tile.
//
// # Operators
//
// An operator is a control set (see package player). Six are offered,
// enumerated as Left, Right, Jump, Left|Jump, Right|Jump and idle. While
// the player is airborne with no jump frames left, the jump control is
// inert and only Left, Right and Jump (acting as idle) are offered.
//
// # Costs and Heuristics
//
// The cost of an operator is the distance travelled by the player's box
// origin. H is the distance from the box centre to the goal tile; D is the
// same gap measured in frames, each axis divided by the fastest speed the
// physics allows on it. Both are zero exactly at the goal.
//
// # Packing
//
// Positions and velocity are rounded to the nearest multiple of Quantum
// and the fall flag rides in the top bit of the jump-frame byte. States
// whose fields round to the same Quantum cells pack and hash identically;
// two states arbitrarily close together but on either side of a rounding
// boundary do not.
package plat2d

import (
	"fmt"
	"io"
	"math"

	"github.com/AleutianAI/heursearch/services/plat2d/geom"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
	"github.com/AleutianAI/heursearch/services/plat2d/player"
	"github.com/AleutianAI/heursearch/services/search"
)

// Operators of the domain.
const (
	OpIdle      search.Oper = 0
	OpLeft      search.Oper = player.Left
	OpRight     search.Oper = player.Right
	OpJump      search.Oper = player.Jump
	OpLeftJump  search.Oper = player.Left | player.Jump
	OpRightJump search.Oper = player.Right | player.Jump
)

var ops = [...]search.Oper{OpLeft, OpRight, OpJump, OpLeftJump, OpRightJump, OpIdle}

// MaxOps is the static operator count.
const MaxOps = len(ops)

// inertOps is the operator count offered when jumping has no effect.
const inertOps = 3

// minH is reported instead of zero for states off the goal whose centre
// lies on the goal tile's boundary.
const minH = 1e-9

// State is one frame of the simulation.
type State struct {
	Player player.Player
}

// Domain is a level plus the goal and heuristic constants derived from it.
//
// Thread Safety: Immutable after New; safe for concurrent reads.
type Domain struct {
	lvl     *lvl.Lvl
	goal    lvl.Blkinfo
	goalBox geom.Bbox

	// Fastest per-frame displacement on each axis, used by D.
	maxDx float64
	maxDy float64
}

var _ search.Domain[State, PackedState, search.Undo] = (*Domain)(nil)

// New returns the navigation domain of l.
func New(l *lvl.Lvl) *Domain {
	g := l.Goal()
	return &Domain{
		lvl:     l,
		goal:    g,
		goalBox: l.TileBox(g.X, g.Y),
		maxDx:   player.RunSpeed,
		maxDy:   math.Max(player.JumpSpeed, player.MaxDy),
	}
}

// InitialState returns the player standing in the start tile.
func (d *Domain) InitialState() State {
	return State{Player: player.AtStart(d.lvl)}
}

// H returns the distance from the box centre to the goal tile.
func (d *Domain) H(s *State) search.Cost {
	if d.IsGoal(s) {
		return 0
	}
	h := d.goalBox.DistanceTo(s.Player.Body.Bbox.Center())
	if h == 0 {
		return minH
	}
	return h
}

// D returns the number of frames needed to close the gap to the goal
// tile at top speed on each axis.
func (d *Domain) D(s *State) search.Cost {
	if d.IsGoal(s) {
		return 0
	}
	c := s.Player.Body.Bbox.Center()
	p := d.goalBox.ClosestPoint(c)
	steps := math.Max(math.Abs(c.X-p.X)/d.maxDx, math.Abs(c.Y-p.Y)/d.maxDy)
	if steps == 0 {
		return minH
	}
	return steps
}

// IsGoal reports whether the player's major block is the goal tile.
func (d *Domain) IsGoal(s *State) bool {
	return d.lvl.MajorBlock(s.Player.Body.Bbox) == d.goal
}

// MaxOps returns the static operator count.
func (d *Domain) MaxOps() int {
	return MaxOps
}

// Nops returns the number of operators offered in s.
func (d *Domain) Nops(s *State) int {
	if !s.Player.CanJump() {
		return inertOps
	}
	return MaxOps
}

// NthOp returns the nth operator.
func (d *Domain) NthOp(_ *State, n int) search.Oper {
	return ops[n]
}

// RevOp returns search.NoOp: the physics is not reversible.
func (d *Domain) RevOp(*State, search.Oper) search.Oper {
	return search.NoOp
}

// Apply simulates one frame of op from s into dst and returns the
// distance the box origin moved.
func (d *Domain) Apply(dst, s *State, op search.Oper) search.Cost {
	if op == search.NoOp {
		panic(&search.ContractError{Operation: "Apply", Detail: "operator is the no-op sentinel"})
	}
	if op < 0 || op > player.Left|player.Right|player.Jump {
		panic(&search.ContractError{Operation: "Apply", Detail: fmt.Sprintf("unknown operator %d", op)})
	}
	*dst = *s
	dst.Player.Act(d.lvl, int(op))
	return geom.Distance(s.Player.Loc(), dst.Player.Loc())
}

// NewUndo returns the empty undo record.
func (d *Domain) NewUndo(*State, search.Oper) search.Undo {
	return search.Undo{}
}

// Undo does nothing; Apply never modifies its source state.
func (d *Domain) Undo(*State, search.Undo) {}

// Dump writes the box origin of s as "<x>, <y>".
func (d *Domain) Dump(w io.Writer, s *State) {
	loc := s.Player.Loc()
	fmt.Fprintf(w, "%g, %g\n", loc.X, loc.Y)
}

// Replay applies ops from the initial state and returns every state
// visited, the initial state included, with the summed cost.
func (d *Domain) Replay(ops []search.Oper) ([]State, search.Cost) {
	states := make([]State, len(ops)+1)
	states[0] = d.InitialState()
	var cost search.Cost
	for i, op := range ops {
		cost += d.Apply(&states[i+1], &states[i], op)
	}
	return states, cost
}
