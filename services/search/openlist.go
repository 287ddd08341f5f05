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

import "container/heap"

// node is a search node of the best-first strategies.
type node[P any] struct {
	packed P
	hash   uint64
	g      Cost
	h      Cost
	d      Cost
	pri    float64
	op     Oper
	rev    Oper
	parent *node[P]
	index  int

	// The remaining fields serve arastar and bugsy only.
	goal   bool
	incons bool
	gen    int64
	closed int
}

// openList is a binary heap of nodes ordered by pri, with a tie-breaking
// comparison on g.
type openList[P any] struct {
	nodes     []*node[P]
	preferLow bool
}

func (o openList[P]) Len() int { return len(o.nodes) }

func (o openList[P]) Less(i, j int) bool {
	a, b := o.nodes[i], o.nodes[j]
	if a.pri != b.pri {
		return a.pri < b.pri
	}
	if o.preferLow {
		return a.g < b.g
	}
	return a.g > b.g
}

func (o openList[P]) Swap(i, j int) {
	o.nodes[i], o.nodes[j] = o.nodes[j], o.nodes[i]
	o.nodes[i].index = i
	o.nodes[j].index = j
}

func (o *openList[P]) Push(x any) {
	n := x.(*node[P])
	n.index = len(o.nodes)
	o.nodes = append(o.nodes, n)
}

func (o *openList[P]) Pop() any {
	old := o.nodes
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	o.nodes = old[:last]
	return n
}

func (o *openList[P]) push(n *node[P]) { heap.Push(o, n) }

func (o *openList[P]) pop() *node[P] { return heap.Pop(o).(*node[P]) }

func (o *openList[P]) peek() *node[P] { return o.nodes[0] }

func (o *openList[P]) fix(n *node[P]) { heap.Fix(o, n.index) }

// reprioritize recomputes every key and restores the heap property.
func (o *openList[P]) reprioritize(key func(n *node[P]) float64) {
	for _, n := range o.nodes {
		n.pri = key(n)
	}
	heap.Init(o)
}

// closedList maps packed states to their nodes for duplicate detection.
type closedList[P any] struct {
	buckets map[uint64][]*node[P]
	eq      func(a, b P) bool
	size    int
}

func newClosedList[P any](eq func(a, b P) bool) *closedList[P] {
	return &closedList[P]{buckets: make(map[uint64][]*node[P], 1024), eq: eq}
}

func (c *closedList[P]) find(p P, hash uint64) *node[P] {
	for _, n := range c.buckets[hash] {
		if c.eq(n.packed, p) {
			return n
		}
	}
	return nil
}

func (c *closedList[P]) add(n *node[P]) {
	c.buckets[n.hash] = append(c.buckets[n.hash], n)
	c.size++
}

// extractPath rebuilds the solution ending at goal.
func extractPath[S, P, U any](d Domain[S, P, U], goal *node[P], r *Result[S]) {
	var nodes []*node[P]
	for n := goal; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}
	r.Path = make([]S, len(nodes))
	r.Ops = make([]Oper, 0, len(nodes)-1)
	for i := range nodes {
		n := nodes[len(nodes)-1-i]
		d.Unpack(&r.Path[i], n.packed)
		if n.parent != nil {
			r.Ops = append(r.Ops, n.op)
		}
	}
	r.Found = true
	r.Cost = goal.g
}
