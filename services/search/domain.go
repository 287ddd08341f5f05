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

import "fmt"

// Oper identifies a discrete action of a domain.
type Oper int

// NoOp is the reserved "no operation" sentinel. RevOp returns it when a
// domain cannot reverse an operator, and passing it to Apply is a
// contract violation.
const NoOp Oper = -1

// Cost is a non-negative edge weight or heuristic estimate.
type Cost = float64

// Domain is the contract every search problem implements.
//
// Description:
//
//	S is the mutable state, P its canonical packed form used as the
//	duplicate-detection key, and U the undo record paired with Apply.
//	States are passed by pointer so strategies can keep them in an Arena
//	and let the domain read and write buffers in place.
//
// Thread Safety: Implementations need not be safe for concurrent use; a
// Domain is driven by exactly one strategy run at a time.
type Domain[S, P, U any] interface {
	// InitialState returns the start state of the problem instance.
	InitialState() S

	// H returns an admissible estimate of the cost to the nearest goal.
	H(s *S) Cost

	// D returns an admissible estimate of the number of steps to the
	// nearest goal. It is scaled independently of H.
	D(s *S) Cost

	// IsGoal reports whether s satisfies the goal.
	IsGoal(s *S) bool

	// MaxOps is the static maximum number of operators of the domain.
	MaxOps() int

	// Nops returns the number of operators legal in s, never more than
	// MaxOps. Pruned operators must not cut the only path to a goal.
	Nops(s *S) int

	// NthOp returns the nth legal operator of s, 0 <= n < Nops(s).
	NthOp(s *S, n int) Oper

	// RevOp returns the operator undoing op from s, or NoOp when the
	// domain does not support reversal.
	RevOp(s *S, op Oper) Oper

	// Apply writes the successor of s under op into dst and returns the
	// edge cost. s must not be modified. dst and s never alias.
	Apply(dst, s *S, op Oper) Cost

	// NewUndo records what is needed to reverse one Apply of op on s.
	NewUndo(s *S, op Oper) U

	// Undo reverses the recorded Apply on s once the search backtracks
	// out of its successor. Domains whose Apply leaves no trace on s
	// implement it as a no-op.
	Undo(s *S, u U)

	// Pack canonicalizes the search-relevant fields of s.
	Pack(s *S) P

	// Unpack rebuilds a state from its packed form into dst.
	Unpack(dst *S, p P)

	// Hash returns the hash of a packed state.
	Hash(p P) uint64

	// Eq reports whether two packed states are the same state.
	Eq(a, b P) bool
}

// Undo is the empty undo record for value-typed states.
type Undo struct{}

// checkOp panics when op is the reserved sentinel.
func checkOp(op Oper) {
	if op == NoOp {
		violation("Apply", "operator is the no-op sentinel")
	}
}

// checkNops panics when a state reports more operators than the static
// maximum of its domain.
func checkNops(n, max int) {
	if n < 0 || n > max {
		violation("Nops", "got %d operators, static maximum is %d", n, max)
	}
}

// checkCost panics on negative edge costs.
func checkCost(c Cost) {
	if c < 0 {
		violation("Apply", "negative edge cost %g", c)
	}
}

func violation(op, format string, args ...any) {
	panic(&ContractError{Operation: op, Detail: fmt.Sprintf(format, args...)})
}
