// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

// Handle addresses one state buffer of an Arena. It plays the role of a
// search-node identifier for strategies that reuse buffers.
type Handle int32

// NilHandle is never returned by Alloc.
const NilHandle Handle = -1

const arenaChunk = 256

// Arena is a pool of reusable state buffers.
//
// Description:
//
//	Buffers live in fixed-size chunks so a pointer returned by At stays
//	valid while the arena grows. Released buffers are recycled by later
//	Alloc calls without being zeroed; callers overwrite them through
//	Apply or Unpack before reading.
//
// Thread Safety: Not safe for concurrent use.
type Arena[S any] struct {
	chunks [][]S
	free   []Handle
	next   Handle
	live   int
}

// NewArena returns an arena with room for at least n buffers before it
// needs to grow.
func NewArena[S any](n int) *Arena[S] {
	a := &Arena[S]{}
	for Handle(len(a.chunks)*arenaChunk) < Handle(n) {
		a.chunks = append(a.chunks, make([]S, arenaChunk))
	}
	return a
}

// Alloc returns a handle to an unused buffer.
func (a *Arena[S]) Alloc() Handle {
	a.live++
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		return h
	}
	h := a.next
	a.next++
	if int(h)/arenaChunk >= len(a.chunks) {
		a.chunks = append(a.chunks, make([]S, arenaChunk))
	}
	return h
}

// At resolves a handle to its buffer.
func (a *Arena[S]) At(h Handle) *S {
	return &a.chunks[int(h)/arenaChunk][int(h)%arenaChunk]
}

// Release returns a buffer to the pool.
func (a *Arena[S]) Release(h Handle) {
	if h == NilHandle {
		return
	}
	a.live--
	a.free = append(a.free, h)
}

// inUse returns the number of buffers currently allocated.
func (a *Arena[S]) inUse() int {
	return a.live
}

// capacity returns the number of buffers the arena holds without growing.
func (a *Arena[S]) capacity() int {
	return len(a.chunks) * arenaChunk
}
