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
)

// -----------------------------------------------------------------------------
// Best-First Search
// -----------------------------------------------------------------------------

// BestFirst is the shared engine of astar, wastar, greedy and speedy.
//
// Description:
//
//	Nodes are ordered by a key computed from g, h and d. The goal test is
//	applied when a node is expanded, so with an admissible h and unit
//	weight the first goal expanded is optimal. Duplicates are detected on
//	packed states; when reopening is enabled a cheaper path to a closed
//	node puts it back on the open list.
//
// Thread Safety: Not safe for concurrent use.
type BestFirst[S, P, U any] struct {
	name      string
	opts      Options
	key       func(g, h, d Cost) float64
	preferLow bool
	reopen    bool
	res       Result[S]
}

// NewAstar returns A*: f = g + h, ties broken toward larger g.
func NewAstar[S, P, U any](o Options) *BestFirst[S, P, U] {
	return &BestFirst[S, P, U]{
		name:   "astar",
		opts:   o,
		key:    func(g, h, _ Cost) float64 { return g + h },
		reopen: true,
	}
}

// NewWastar returns weighted A*: f' = g + w*h.
//
// Inputs:
//   - o: Options. o.Weight must be at least 1.
//
// Outputs:
//   - *BestFirst: The strategy.
//   - error: ErrInvalidOption when the weight is below 1.
func NewWastar[S, P, U any](o Options) (*BestFirst[S, P, U], error) {
	if o.Weight < 1 {
		return nil, &AlgorithmError{
			Algorithm: "wastar",
			Operation: "New",
			Err:       fmt.Errorf("%w: weight %g < 1", ErrInvalidOption, o.Weight),
		}
	}
	w := o.Weight
	return &BestFirst[S, P, U]{
		name:   "wastar",
		opts:   o,
		key:    func(g, h, _ Cost) float64 { return g + w*h },
		reopen: true,
	}, nil
}

// NewGreedy returns greedy best-first search on h.
func NewGreedy[S, P, U any](o Options) *BestFirst[S, P, U] {
	return &BestFirst[S, P, U]{
		name:      "greedy",
		opts:      o,
		key:       func(_, h, _ Cost) float64 { return h },
		preferLow: true,
	}
}

// NewSpeedy returns greedy best-first search on d.
func NewSpeedy[S, P, U any](o Options) *BestFirst[S, P, U] {
	return &BestFirst[S, P, U]{
		name:      "speedy",
		opts:      o,
		key:       func(_, _, d Cost) float64 { return d },
		preferLow: true,
	}
}

// Search runs the strategy from s0.
func (b *BestFirst[S, P, U]) Search(d Domain[S, P, U], s0 S) Result[S] {
	b.res = Result[S]{}
	st := &b.res.Stats
	st.begin()

	arena := NewArena[S](2)
	parent, kid := arena.Alloc(), arena.Alloc()
	closed := newClosedList(d.Eq)
	open := &openList[P]{preferLow: b.preferLow}

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
		if b.opts.OnExpand != nil {
			b.opts.OnExpand(n.g, n.pri)
		}
		b.expand(d, n, s, arena.At(kid), open, closed)
	}

	st.finish()
	return b.res
}

func (b *BestFirst[S, P, U]) expand(d Domain[S, P, U], n *node[P], s, kid *S, open *openList[P], closed *closedList[P]) {
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
		hash := d.Hash(p)

		if dup := closed.find(p, hash); dup != nil {
			st.Duplicates++
			if !b.reopen || g >= dup.g {
				continue
			}
			dup.g = g
			dup.parent = n
			dup.op = op
			dup.rev = d.RevOp(s, op)
			dup.pri = b.key(g, dup.h, dup.d)
			if dup.index >= 0 {
				open.fix(dup)
			} else {
				st.Reopened++
				open.push(dup)
			}
			continue
		}

		m := b.newNode(d, kid, n, g, op, d.RevOp(s, op))
		closed.add(m)
		open.push(m)
	}
}

func (b *BestFirst[S, P, U]) newNode(d Domain[S, P, U], s *S, parent *node[P], g Cost, op, rev Oper) *node[P] {
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
	}
	n.pri = b.key(g, n.h, n.d)
	return n
}

// Output writes the statistics of the last run.
func (b *BestFirst[S, P, U]) Output(w io.Writer) {
	if b.name == "wastar" {
		DfPair(w, "weight", "%g", b.opts.Weight)
	}
	writeStats(w, &b.res)
}
