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
	"math"
)

// -----------------------------------------------------------------------------
// ARA*
// -----------------------------------------------------------------------------

// Improvement records one incumbent found by an anytime strategy.
type Improvement struct {
	Cost     Cost
	Weight   float64
	Expanded int64
}

// Arastar implements anytime repairing A*.
//
// Description:
//
//	Each pass is a weighted A* with f' = g + w*h that never expands a node
//	twice; nodes improved after they were closed go to an inconsistent
//	list instead. Goals are detected at generation and become the
//	incumbent when they beat it. Between passes the weight drops by the
//	decrement, floored at 1, and the inconsistent nodes rejoin the open
//	list. The run ends after a pass at weight 1, when the open list is
//	empty, or when a limit is reached, returning the best incumbent.
//
// Thread Safety: Not safe for concurrent use.
type Arastar[S, P, U any] struct {
	opts  Options
	res   Result[S]
	sols  []Improvement
	w     float64
	pass  int
	inc   *node[P]
	incon []*node[P]
}

// NewArastar returns an ARA* strategy.
//
// Outputs:
//   - error: ErrInvalidOption when the start weight is below 1 or the
//     decrement is not positive.
func NewArastar[S, P, U any](o Options) (*Arastar[S, P, U], error) {
	if o.StartWeight < 1 || o.WeightDecrement <= 0 {
		return nil, &AlgorithmError{
			Algorithm: "arastar",
			Operation: "New",
			Err: fmt.Errorf("%w: start weight %g, decrement %g",
				ErrInvalidOption, o.StartWeight, o.WeightDecrement),
		}
	}
	return &Arastar[S, P, U]{opts: o}, nil
}

// Improvements returns the incumbents of the last run in the order found.
func (a *Arastar[S, P, U]) Improvements() []Improvement {
	return a.sols
}

func (a *Arastar[S, P, U]) key(n *node[P]) float64 {
	return n.g + a.w*n.h
}

// Search runs ARA* from s0.
func (a *Arastar[S, P, U]) Search(d Domain[S, P, U], s0 S) Result[S] {
	a.res = Result[S]{}
	a.sols = a.sols[:0]
	a.inc = nil
	a.incon = a.incon[:0]
	a.w = a.opts.StartWeight
	a.pass = 1
	st := &a.res.Stats
	st.begin()

	arena := NewArena[S](2)
	parent, kid := arena.Alloc(), arena.Alloc()
	closed := newClosedList(d.Eq)
	open := &openList[P]{}

	root := a.newNode(d, &s0, nil, 0, NoOp, NoOp)
	closed.add(root)
	if d.IsGoal(&s0) {
		root.goal = true
		a.improve(root)
	} else {
		open.push(root)
	}

	for {
		halted := a.improvePath(d, arena.At(parent), arena.At(kid), open, closed)
		if halted || a.w <= 1 || open.Len()+len(a.incon) == 0 {
			break
		}
		a.w = math.Max(1, a.w-a.opts.WeightDecrement)
		a.pass++
		for _, n := range a.incon {
			n.incons = false
			open.push(n)
		}
		a.incon = a.incon[:0]
		open.reprioritize(a.key)
	}

	if a.inc != nil {
		extractPath(d, a.inc, &a.res)
	}
	st.finish()
	return a.res
}

// improvePath runs one weighted pass. It reports whether a limit stopped
// the run.
func (a *Arastar[S, P, U]) improvePath(d Domain[S, P, U], s, kid *S, open *openList[P], closed *closedList[P]) bool {
	st := &a.res.Stats
	for open.Len() > 0 {
		if a.inc != nil && open.peek().pri >= a.inc.g {
			return false
		}
		if a.opts.Limits.reached(st) {
			return true
		}
		n := open.pop()
		n.closed = a.pass
		d.Unpack(s, n.packed)
		st.Expanded++
		if a.opts.OnExpand != nil {
			a.opts.OnExpand(n.g, n.pri)
		}
		a.expand(d, n, s, kid, open, closed)
	}
	return false
}

func (a *Arastar[S, P, U]) expand(d Domain[S, P, U], n *node[P], s, kid *S, open *openList[P], closed *closedList[P]) {
	st := &a.res.Stats
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
		if a.inc != nil && g >= a.inc.g {
			continue
		}
		p := d.Pack(kid)
		hash := d.Hash(p)

		if dup := closed.find(p, hash); dup != nil {
			st.Duplicates++
			if g >= dup.g {
				continue
			}
			dup.g = g
			dup.parent = n
			dup.op = op
			dup.rev = d.RevOp(s, op)
			dup.pri = a.key(dup)
			switch {
			case dup.goal:
				a.improve(dup)
			case dup.index >= 0:
				open.fix(dup)
			case dup.closed == a.pass:
				if !dup.incons {
					dup.incons = true
					st.Reopened++
					a.incon = append(a.incon, dup)
				}
			default:
				st.Reopened++
				open.push(dup)
			}
			continue
		}

		m := a.newNode(d, kid, n, g, op, d.RevOp(s, op))
		closed.add(m)
		if d.IsGoal(kid) {
			m.goal = true
			a.improve(m)
			continue
		}
		open.push(m)
	}
}

func (a *Arastar[S, P, U]) improve(goal *node[P]) {
	a.inc = goal
	a.sols = append(a.sols, Improvement{
		Cost:     goal.g,
		Weight:   a.w,
		Expanded: a.res.Stats.Expanded,
	})
}

func (a *Arastar[S, P, U]) newNode(d Domain[S, P, U], s *S, parent *node[P], g Cost, op, rev Oper) *node[P] {
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
	n.pri = a.key(n)
	return n
}

// Output writes the incumbents and statistics of the last run.
func (a *Arastar[S, P, U]) Output(w io.Writer) {
	DfPair(w, "initial weight", "%g", a.opts.StartWeight)
	DfPair(w, "weight decrement", "%g", a.opts.WeightDecrement)
	DfPair(w, "num sols", "%d", len(a.sols))
	for i, s := range a.sols {
		DfPair(w, fmt.Sprintf("sol %d cost", i), "%g", s.Cost)
		DfPair(w, fmt.Sprintf("sol %d weight", i), "%g", s.Weight)
		DfPair(w, fmt.Sprintf("sol %d expanded", i), "%d", s.Expanded)
	}
	writeStats(w, &a.res)
}
