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
	"sort"

	"github.com/spf13/pflag"
)

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Entry describes one selectable strategy.
type Entry[S, P, U any] struct {
	// Name is the identifier used on the command line.
	Name string

	// Short is a one-line description for usage text.
	Short string

	// Flags binds the strategy-specific options, if any.
	Flags func(fs *pflag.FlagSet, o *Options)

	// New constructs the strategy.
	New func(o Options) (Search[S, P, U], error)
}

// Registry maps strategy names to their constructors.
//
// Description:
//
//	Registration order is preserved for usage listings. Lookup of an
//	unregistered name fails with ErrUnknownAlgorithm.
//
// Thread Safety: Register must complete before concurrent lookups.
type Registry[S, P, U any] struct {
	entries map[string]Entry[S, P, U]
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry[S, P, U any]() *Registry[S, P, U] {
	return &Registry[S, P, U]{entries: make(map[string]Entry[S, P, U])}
}

// Register adds e under e.Name.
//
// Outputs:
//   - error: ErrDuplicateAlgorithm if the name is already taken.
func (r *Registry[S, P, U]) Register(e Entry[S, P, U]) error {
	if _, ok := r.entries[e.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, e.Name)
	}
	r.entries[e.Name] = e
	r.order = append(r.order, e.Name)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry[S, P, U]) Lookup(name string) (Entry[S, P, U], error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry[S, P, U]{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return e, nil
}

// Names returns the registered names in registration order.
func (r *Registry[S, P, U]) Names() []string {
	return append([]string(nil), r.order...)
}

// Sorted returns the registered names in lexical order.
func (r *Registry[S, P, U]) Sorted() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

// New constructs the strategy registered under name.
func (r *Registry[S, P, U]) New(name string, o Options) (Search[S, P, U], error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.New(o)
}

// DefaultRegistry returns a registry holding every built-in strategy.
func DefaultRegistry[S, P, U any]() *Registry[S, P, U] {
	r := NewRegistry[S, P, U]()
	for _, e := range builtins[S, P, U]() {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

func builtins[S, P, U any]() []Entry[S, P, U] {
	return []Entry[S, P, U]{
		{
			Name:  "idastar",
			Short: "iterative deepening A*",
			New: func(o Options) (Search[S, P, U], error) {
				return NewIdastar[S, P, U](o), nil
			},
		},
		{
			Name:  "astar",
			Short: "A* search",
			New: func(o Options) (Search[S, P, U], error) {
				return NewAstar[S, P, U](o), nil
			},
		},
		{
			Name:  "wastar",
			Short: "weighted A* search",
			Flags: func(fs *pflag.FlagSet, o *Options) {
				fs.Float64Var(&o.Weight, "wt", o.Weight, "heuristic weight (>= 1)")
			},
			New: func(o Options) (Search[S, P, U], error) {
				s, err := NewWastar[S, P, U](o)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		},
		{
			Name:  "greedy",
			Short: "greedy best-first search on h",
			New: func(o Options) (Search[S, P, U], error) {
				return NewGreedy[S, P, U](o), nil
			},
		},
		{
			Name:  "speedy",
			Short: "greedy best-first search on d",
			New: func(o Options) (Search[S, P, U], error) {
				return NewSpeedy[S, P, U](o), nil
			},
		},
		{
			Name:  "bugsy",
			Short: "best-first utility-guided search",
			Flags: func(fs *pflag.FlagSet, o *Options) {
				fs.Float64Var(&o.CostWeight, "wf", o.CostWeight, "utility weight of solution cost")
				fs.Float64Var(&o.TimeWeight, "wt", o.TimeWeight, "utility weight of search time")
			},
			New: func(o Options) (Search[S, P, U], error) {
				s, err := NewBugsy[S, P, U](o)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		},
		{
			Name:  "arastar",
			Short: "anytime repairing A*",
			Flags: func(fs *pflag.FlagSet, o *Options) {
				fs.Float64Var(&o.StartWeight, "wt0", o.StartWeight, "initial heuristic weight")
				fs.Float64Var(&o.WeightDecrement, "dwt", o.WeightDecrement, "weight decrement per pass")
			},
			New: func(o Options) (Search[S, P, U], error) {
				s, err := NewArastar[S, P, U](o)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		},
	}
}
