// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search defines the domain contract shared by every state-space
// problem and the family of heuristic search strategies that consume it.
//
// Architecture:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                         Dispatcher                           │
//	│   Registry ──name──▶ Search[S, P, U] ──Search(d, s0)──▶ Result│
//	└──────────────────────────────┬───────────────────────────────┘
//	                               │ Domain[S, P, U]
//	          ┌────────────────────┼─────────────────────┐
//	          ▼                    ▼                     ▼
//	     IDA* (depth)      A*/wA*/Greedy/BUGSY       ARA* (anytime)
//	     Arena per depth   open/closed on P keys     repair via INCONS
//
// Domain Contract:
//
//	Domains MUST:
//	1. Keep Apply deterministic and leave the source state untouched
//	2. Never return a negative edge cost
//	3. Keep Nops(s) <= MaxOps() for every state
//	4. Make Hash and Eq agree on packed states
//	5. Keep H admissible (and consistent for A* optimality)
//
//	Violations are programming errors. Strategies panic with a
//	*ContractError when they detect one.
//
// Strategies:
//
//	idastar, astar, wastar, greedy, speedy, bugsy, arastar
//
// Every strategy runs single-threaded to completion or until one of its
// Limits is reached. Duplicate detection tables live only for one run.
package search
