// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package plat2d

import (
	"encoding/binary"
	"math"

	"github.com/AleutianAI/heursearch/pkg/hashbytes"
	"github.com/AleutianAI/heursearch/services/plat2d/geom"
	"github.com/AleutianAI/heursearch/services/plat2d/player"
)

// Quantum is the packing resolution of positions and velocity. Each value
// packs to the nearest multiple of Quantum, so values rounding to the same
// multiple are indistinguishable after packing.
const Quantum = 1 / scale

// scale is integral so that dequantize is exact for values on the grid.
const scale = 1e6

// PackedState is the duplicate-detection key of a State: the box origin
// and vertical velocity in units of Quantum, and the jump bits.
type PackedState struct {
	X    int64
	Y    int64
	Dy   int64
	Jump JumpBits
}

// packedSize is the length of the hashed encoding of a PackedState.
const packedSize = 3*8 + 1

// JumpBits is the jump-frame counter and fall flag, serialised as one byte
// with the flag in the top bit.
type JumpBits struct {
	Frames  uint8
	Falling bool
}

const (
	fallBit   = 1 << 7
	frameMask = fallBit - 1
)

// MaxFrames is the largest counter a JumpBits can hold.
const MaxFrames = frameMask

// Valid reports whether the counter fits in seven bits.
func (j JumpBits) Valid() bool {
	return j.Frames <= MaxFrames
}

// Byte serialises j.
func (j JumpBits) Byte() byte {
	b := j.Frames & frameMask
	if j.Falling {
		b |= fallBit
	}
	return b
}

// ParseJumpBits is the inverse of JumpBits.Byte.
func ParseJumpBits(b byte) JumpBits {
	return JumpBits{Frames: b & frameMask, Falling: b&fallBit != 0}
}

func quantize(v float64) int64 {
	return int64(math.Round(v * scale))
}

func dequantize(q int64) float64 {
	return float64(q) / scale
}

// Pack canonicalises the search-relevant fields of s.
func (d *Domain) Pack(s *State) PackedState {
	b := &s.Player.Body
	return PackedState{
		X:    quantize(b.Bbox.Min.X),
		Y:    quantize(b.Bbox.Min.Y),
		Dy:   quantize(b.Dy),
		Jump: JumpBits{Frames: s.Player.JumpFrames, Falling: b.Fall},
	}
}

// Unpack rebuilds a state from p.
func (d *Domain) Unpack(dst *State, p PackedState) {
	x, y := dequantize(p.X), dequantize(p.Y)
	dst.Player = player.Player{
		Body: player.Body{
			Bbox: geom.NewBbox(x, y, player.Width, player.Height),
			Dy:   dequantize(p.Dy),
			Fall: p.Jump.Falling,
		},
		JumpFrames: p.Jump.Frames,
	}
}

// encode writes the little-endian encoding of p into buf.
func (p PackedState) encode(buf *[packedSize]byte) {
	binary.LittleEndian.PutUint64(buf[0:], uint64(p.X))
	binary.LittleEndian.PutUint64(buf[8:], uint64(p.Y))
	binary.LittleEndian.PutUint64(buf[16:], uint64(p.Dy))
	buf[24] = p.Jump.Byte()
}

// Hash returns the byte hash of the encoding of p.
func (d *Domain) Hash(p PackedState) uint64 {
	var buf [packedSize]byte
	p.encode(&buf)
	return hashbytes.Sum(buf[:])
}

// Eq reports whether a and b are the same packed state.
func (d *Domain) Eq(a, b PackedState) bool {
	return a.X == b.X && a.Y == b.Y && a.Dy == b.Dy && a.Jump.Byte() == b.Jump.Byte()
}
