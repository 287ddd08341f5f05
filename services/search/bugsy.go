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
	"fmt"
	"io"
	"math/bits"
	"time"
)

// -----------------------------------------------------------------------------
// BUGSY
// -----------------------------------------------------------------------------

// Bugsy implements Best-first Utility-Guided Search.
//
// Description:
//
//	Nodes are ordered by the estimated cost of the plan through them
//	combined with the estimated time needed to find that plan:
//
//	  u = wf*(g+h) + wt*(d*delay*texp)
//
//	delay is the running average number of expansions between a node's
//	generation and its expansion, and texp the running average wall time
//	of one expansion in seconds. Both estimates start at zero and the open
//	list is reordered each time the expansion count reaches a power of two.
//
// Thread Safety: Not safe for concurrent use.
type Bugsy[S, P, U any] struct {
	opts Options
	res  Result[S]

	delay    float64
	texp     float64
	resorts  int
	delaySum float64
}

// NewBugsy returns a BUGSY strategy.
//
// Outputs:
//   - error: ErrInvalidOption when either utility coefficient is negative.
func NewBugsy[S, P, U any](o Options) (*Bugsy[S, P, U], error) {
	if o.CostWeight < 0 || o.TimeWeight < 0 {
		return nil, &AlgorithmError{
			Algorithm: "bugsy",
			Operation: "New",
			Err: fmt.Errorf("%w: cost weight %g, time weight %g",
				ErrInvalidOption, o.CostWeight, o.TimeWeight),
		}
	}
	return &Bugsy[S, P, U]{opts: o}, nil
}

func (b *Bugsy[S, P, U]) utility(n *node[P]) float64 {
	return b.opts.CostWeight*(n.g+n.h) + b.opts.TimeWeight*(n.d*b.delay*b.texp)
}

// Search runs BUGSY from s0.
func (b *Bugsy[S, P, U]) Search(d Domain[S, P, U], s0 S) Result[S] {
	b.res = Result[S]{}
	b.delay, b.texp, b.delaySum, b.resorts = 0, 0, 0, 0
	st := &b.res.Stats
	st.begin()

	arena := NewArena[S](2)
	parent, kid := arena.Alloc(), arena.Alloc()
	closed := newClosedList(d.Eq)
	open := &openList[P]{}

	root := b.newNode(d, &s0, nil, 0, NoOp, NoOp)
	closed.add(root)
	open.push(root)

	for open.Len() > 0 && !b.opts.Limits.reached(st) {
		n := open.pop()
		s := arena.At(parent)
		d.Unpack(s, n.packed)
		if d.IsGoal(s) {
			extractPath(d, n, &b.res)
			break
		}

		st.Expanded++
		b.delaySum += float64(st.Expanded - n.gen)
		b.delay = b.delaySum / float64(st.Expanded)
		if b.opts.OnExpand != nil {
			b.opts.OnExpand(n.g, n.pri)
		}
		b.expand(d, n, s, arena.At(kid), open, closed)

		if isPow2(st.Expanded) {
			b.texp = time.Since(st.start).Seconds() / float64(st.Expanded)
			b.resorts++
			open.reprioritize(b.utility)
		}
	}

	st.finish()
	return b.res
}

func (b *Bugsy[S, P, U]) expand(d Domain[S, P, U], n *node[P], s, kid *S, open *openList[P], closed *closedList[P]) {
	st := &b.res.Stats
	nops := d.Nops(s)
	checkNops(nops, d.MaxOps())
	for i := 0; i < nops; i++ {
		op := d.NthOp(s, i)
		if op == n.rev && op != NoOp {
			continue
		}
		checkOp(op)
		st.Generated++

		c := d.Apply(kid, s, op)
		checkCost(c)
		g := n.g + c
		p := d.Pack(kid)

		if dup := closed.find(p, d.Hash(p)); dup != nil {
			st.Duplicates++
			if g >= dup.g {
				continue
			}
			dup.g = g
			dup.parent = n
			dup.op = op
			dup.rev = d.RevOp(s, op)
			dup.pri = b.utility(dup)
			if dup.index >= 0 {
				open.fix(dup)
			} else {
				st.Reopened++
				dup.gen = st.Expanded
				open.push(dup)
			}
			continue
		}

		m := b.newNode(d, kid, n, g, op, d.RevOp(s, op))
		closed.add(m)
		open.push(m)
	}
}

func (b *Bugsy[S, P, U]) newNode(d Domain[S, P, U], s *S, parent *node[P], g Cost, op, rev Oper) *node[P] {
	p := d.Pack(s)
	n := &node[P]{
		packed: p,
		hash:   d.Hash(p),
		g:      g,
		h:      d.H(s),
		d:      d.D(s),
		op:     op,
		rev:    rev,
		parent: parent,
		index:  -1,
		gen:    b.res.Stats.Expanded,
	}
	n.pri = b.utility(n)
	return n
}

// Output writes the statistics of the last run.
func (b *Bugsy[S, P, U]) Output(w io.Writer) {
	DfPair(w, "cost weight", "%g", b.opts.CostWeight)
	DfPair(w, "time weight", "%g", b.opts.TimeWeight)
	DfPair(w, "expansion delay", "%g", b.delay)
	DfPair(w, "time per expansion", "%g", b.texp)
	DfPair(w, "number of resorts", "%d", b.resorts)
	writeStats(w, &b.res)
}

// isPow2 reports whether x is a power of two.
func isPow2(x int64) bool {
	return x > 0 && bits.OnesCount64(uint64(x)) == 1
}
