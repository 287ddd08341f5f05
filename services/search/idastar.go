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

import (
	"io"
	"math"
)

// -----------------------------------------------------------------------------
// IDA*
// -----------------------------------------------------------------------------

// Idastar implements iterative-deepening A*.
//
// Description:
//
//	Each iteration is a depth-first search bounded by an f threshold; the
//	next threshold is the smallest f that exceeded the current one. States
//	live in an Arena with one buffer per depth, and every Apply is paired
//	with an Undo on the way back up. Successors equal to a state on the
//	current path are pruned, so zero-cost self loops cannot recurse
//	forever. Reverse-operator pruning is used only when the domain
//	supports RevOp.
//
// Thread Safety: Not safe for concurrent use.
type Idastar[S, P, U any] struct {
	opts  Options
	res   Result[S]
	iters int

	d      Domain[S, P, U]
	arena  *Arena[S]
	stack  []Handle
	packed []P
	ops    []Oper
	bound  Cost
	next   Cost
	halted bool
}

// NewIdastar returns an IDA* strategy.
func NewIdastar[S, P, U any](o Options) *Idastar[S, P, U] {
	return &Idastar[S, P, U]{opts: o}
}

// Search runs IDA* from s0.
func (a *Idastar[S, P, U]) Search(d Domain[S, P, U], s0 S) Result[S] {
	a.res = Result[S]{}
	a.res.Stats.begin()
	a.iters = 0
	a.d = d
	a.arena = NewArena[S](64)
	a.halted = false

	root := a.arena.Alloc()
	*a.arena.At(root) = s0
	a.bound = d.H(&s0)

	for !a.halted {
		a.iters++
		a.next = math.Inf(1)
		a.stack = append(a.stack[:0], root)
		a.packed = append(a.packed[:0], d.Pack(a.arena.At(root)))
		a.ops = a.ops[:0]
		if a.dfs(root, 0, NoOp) {
			break
		}
		if math.IsInf(a.next, 1) {
			break
		}
		a.bound = a.next
	}

	a.res.Stats.finish()
	a.d = nil
	a.arena = nil
	return a.res
}

func (a *Idastar[S, P, U]) dfs(h Handle, g Cost, rev Oper) bool {
	d := a.d
	s := a.arena.At(h)
	f := g + d.H(s)
	if f > a.bound {
		if f < a.next {
			a.next = f
		}
		return false
	}
	if d.IsGoal(s) {
		a.collect(g)
		return true
	}
	st := &a.res.Stats
	if a.opts.Limits.reached(st) {
		a.halted = true
		return false
	}
	st.Expanded++
	if a.opts.OnExpand != nil {
		a.opts.OnExpand(g, f)
	}

	nops := d.Nops(s)
	checkNops(nops, d.MaxOps())
	kid := a.arena.Alloc()
	defer a.arena.Release(kid)
	for i := 0; i < nops; i++ {
		op := d.NthOp(s, i)
		if op == rev && op != NoOp {
			continue
		}
		checkOp(op)
		st.Generated++

		u := d.NewUndo(s, op)
		ks := a.arena.At(kid)
		c := d.Apply(ks, s, op)
		checkCost(c)
		p := d.Pack(ks)
		if a.onPath(p) {
			st.Duplicates++
			d.Undo(s, u)
			continue
		}

		a.stack = append(a.stack, kid)
		a.packed = append(a.packed, p)
		a.ops = append(a.ops, op)
		found := a.dfs(kid, g+c, d.RevOp(s, op))
		if found {
			return true
		}
		a.stack = a.stack[:len(a.stack)-1]
		a.packed = a.packed[:len(a.packed)-1]
		a.ops = a.ops[:len(a.ops)-1]
		d.Undo(s, u)
		if a.halted {
			return false
		}
	}
	return false
}

func (a *Idastar[S, P, U]) onPath(p P) bool {
	for i := len(a.packed) - 1; i >= 0; i-- {
		if a.d.Eq(a.packed[i], p) {
			return true
		}
	}
	return false
}

func (a *Idastar[S, P, U]) collect(g Cost) {
	a.res.Found = true
	a.res.Cost = g
	a.res.Path = make([]S, len(a.stack))
	for i, h := range a.stack {
		a.res.Path[i] = *a.arena.At(h)
	}
	a.res.Ops = append([]Oper(nil), a.ops...)
}

// Output writes the statistics of the last run.
func (a *Idastar[S, P, U]) Output(w io.Writer) {
	DfPair(w, "iterations", "%d", a.iters)
	writeStats(w, &a.res)
}
