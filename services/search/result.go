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
	"time"
)

// -----------------------------------------------------------------------------
// Strategy Contract
// -----------------------------------------------------------------------------

// Search is a pluggable strategy.
//
// Description:
//
//	Search runs the strategy from s0 until it finds a solution, exhausts
//	the space, or hits one of its Limits. Output writes the statistics of
//	the most recent run as key/value diagnostics.
//
// Thread Safety: A Search value serves one run at a time.
type Search[S, P, U any] interface {
	Search(d Domain[S, P, U], s0 S) Result[S]
	Output(w io.Writer)
}

// Result is the outcome of one run.
type Result[S any] struct {
	// Found is true when a goal was reached.
	Found bool

	// Path holds the states from the start to the goal, inclusive.
	Path []S

	// Ops holds the operators applied along Path; len(Ops) == len(Path)-1.
	Ops []Oper

	// Cost is the summed edge cost of Path.
	Cost Cost

	// Stats are the search-effort counters of the run.
	Stats Stats
}

// Stats counts search effort.
type Stats struct {
	Expanded   int64
	Generated  int64
	Duplicates int64
	Reopened   int64
	Wall       time.Duration
	start      time.Time
}

func (s *Stats) begin() {
	*s = Stats{start: time.Now()}
}

func (s *Stats) finish() {
	s.Wall = time.Since(s.start)
}

// Limits are the cooperative cutoffs of a run. Zero values disable them.
type Limits struct {
	MaxExpansions int64
	TimeLimit     time.Duration
}

// reached reports whether the run must stop. The clock is read every
// 256 expansions only.
func (l Limits) reached(s *Stats) bool {
	if l.MaxExpansions > 0 && s.Expanded >= l.MaxExpansions {
		return true
	}
	if l.TimeLimit > 0 && s.Expanded&0xff == 0 && time.Since(s.start) >= l.TimeLimit {
		return true
	}
	return false
}

// Options configures strategy construction.
type Options struct {
	// Weight is the heuristic weight of wastar.
	Weight float64

	// StartWeight and WeightDecrement drive the arastar weight schedule.
	StartWeight     float64
	WeightDecrement float64

	// CostWeight and TimeWeight are the bugsy utility coefficients.
	CostWeight float64
	TimeWeight float64

	// Limits bound every strategy.
	Limits Limits

	// OnExpand, when set, observes g and the ordering value f of every
	// expanded node in expansion order.
	OnExpand func(g, f Cost)
}

// DefaultOptions returns the option values used when no flag overrides them.
func DefaultOptions() Options {
	return Options{
		Weight:          1.5,
		StartWeight:     5,
		WeightDecrement: 1,
		CostWeight:      1,
		TimeWeight:      1,
	}
}

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------

// DfPair writes one key/value diagnostic line: "<key>\t<value>".
func DfPair(w io.Writer, key, format string, args ...any) {
	fmt.Fprintf(w, "%s\t%s\n", key, fmt.Sprintf(format, args...))
}

// writeStats writes the counters shared by every strategy.
func writeStats[S any](w io.Writer, r *Result[S]) {
	DfPair(w, "total wall time", "%g", r.Stats.Wall.Seconds())
	DfPair(w, "total nodes expanded", "%d", r.Stats.Expanded)
	DfPair(w, "total nodes generated", "%d", r.Stats.Generated)
	DfPair(w, "total nodes duplicates", "%d", r.Stats.Duplicates)
	DfPair(w, "total nodes reopened", "%d", r.Stats.Reopened)
	if r.Found {
		DfPair(w, "final sol cost", "%g", r.Cost)
		DfPair(w, "final sol length", "%d", len(r.Path))
	} else {
		DfPair(w, "final sol cost", "%g", -1.0)
		DfPair(w, "final sol length", "%d", 0)
	}
}

var infCost = math.Inf(1)
