// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package player simulates the platformer character: a box moved by
// run and jump controls under gravity, stopped by solid level tiles.
package player

import (
	"math"

	"github.com/AleutianAI/heursearch/services/plat2d/geom"
	"github.com/AleutianAI/heursearch/services/plat2d/lvl"
)

// Control bits. A control set is any combination of them; zero is idle.
const (
	Left  = 1 << 0
	Right = 1 << 1
	Jump  = 1 << 2
)

// Physics constants, in level units per frame.
const (
	RunSpeed      = 16.0
	JumpSpeed     = 7.0
	Gravity       = 0.5
	MaxDy         = 12.0
	MaxJumpFrames = 8
	Width         = 16.0
	Height        = 24.0
)

// Body is a box falling under gravity.
type Body struct {
	Bbox geom.Bbox
	Dy   float64
	Fall bool
}

// Player is the controllable body plus its jump state.
type Player struct {
	Body       Body
	JumpFrames uint8
}

// New places a player with its box at (x, y).
func New(x, y float64) Player {
	return Player{Body: Body{Bbox: geom.NewBbox(x, y, Width, Height)}}
}

// AtStart places a player bottom-left aligned in the start tile of l. It
// is falling unless the tile below the start is solid.
func AtStart(l *lvl.Lvl) Player {
	s := l.Start()
	tb := l.TileBox(s.X, s.Y)
	p := New(tb.Min.X, tb.Max.Y-Height)
	p.Body.Fall = !l.Blocked(s.X, s.Y+1)
	return p
}

// Loc returns the top-left corner of the player's box.
func (p *Player) Loc() geom.Point {
	return p.Body.Bbox.Min
}

// CanJump reports whether holding the jump control can still change the
// player's motion: it is on the ground, or inside a jump.
func (p *Player) CanJump() bool {
	return !p.Body.Fall || p.JumpFrames > 0
}

// Act advances the player by one frame under the control set ctrl.
func (p *Player) Act(l *lvl.Lvl, ctrl int) {
	var dx float64
	if ctrl&Left != 0 {
		dx -= RunSpeed
	}
	if ctrl&Right != 0 {
		dx += RunSpeed
	}

	if ctrl&Jump != 0 {
		if !p.Body.Fall {
			p.JumpFrames = MaxJumpFrames
		}
		if p.JumpFrames > 0 {
			p.Body.Dy = -JumpSpeed
			p.JumpFrames--
		}
	} else {
		p.JumpFrames = 0
	}

	if p.Body.move(l, dx) {
		p.JumpFrames = 0
	}
}

// move applies dx and one frame of gravity, resolving each axis against
// solid tiles in turn. It reports whether the body hit a ceiling.
func (b *Body) move(l *lvl.Lvl, dx float64) (ceiling bool) {
	b.Dy = math.Min(b.Dy+Gravity, MaxDy)

	if dx != 0 {
		b.Bbox.Move(dx, 0)
		if fix := pushOut(l, b.Bbox, dx, true); fix != 0 {
			b.Bbox.Move(fix, 0)
		}
	}

	b.Bbox.Move(0, b.Dy)
	fix := pushOut(l, b.Bbox, b.Dy, false)
	b.Bbox.Move(0, fix)
	switch {
	case fix < 0:
		b.Dy = 0
		b.Fall = false
	case fix > 0:
		b.Dy = 0
		b.Fall = true
		ceiling = true
	default:
		b.Fall = b.Dy != 0 || !grounded(l, b.Bbox)
	}
	return ceiling
}

// pushOut returns the displacement along one axis that moves box out of
// every solid tile it overlaps, against the direction of motion d.
func pushOut(l *lvl.Lvl, box geom.Bbox, d float64, horizontal bool) float64 {
	if d == 0 {
		return 0
	}
	x0, y0, x1, y1 := l.Span(box)
	fix := 0.0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !l.Blocked(x, y) {
				continue
			}
			t := l.TileBox(x, y)
			var f float64
			switch {
			case horizontal && d > 0:
				f = t.Min.X - box.Max.X
			case horizontal:
				f = t.Max.X - box.Min.X
			case d > 0:
				f = t.Min.Y - box.Max.Y
			default:
				f = t.Max.Y - box.Min.Y
			}
			if math.Abs(f) > math.Abs(fix) {
				fix = f
			}
		}
	}
	return fix
}

// grounded reports whether solid tiles lie directly beneath box.
func grounded(l *lvl.Lvl, box geom.Bbox) bool {
	if math.Mod(box.Max.Y, l.TileH) != 0 {
		return false
	}
	below := int(box.Max.Y / l.TileH)
	x0, _, x1, _ := l.Span(box)
	for x := x0; x <= x1; x++ {
		if l.Blocked(x, below) {
			return true
		}
	}
	return false
}
