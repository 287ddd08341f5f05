// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rdb is the results database: search runs stored under their
// attributes (algorithm, level, options) so batches of experiments can be
// listed and compared later.
//
// # Attribute Paths
//
// A set of key=value attributes maps to a canonical path with one
// "key=value" element per attribute in key order:
//
//	PathFor("/data/runs", {alg: astar, level: flat})
//	// "/data/runs/alg=astar/level=flat"
//
// # Storage
//
// Runs are stored in an embedded BadgerDB under
// "run/<attribute path>/<run id>" with JSON values. Run ids are random
// UUIDs, so repeated runs with equal attributes never collide.
package rdb

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMalformedAttr indicates an attribute argument that is not key=value.
var ErrMalformedAttr = errors.New("malformed attribute")

// Attr is one key=value attribute.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (a Attr) String() string {
	return a.Key + "=" + a.Value
}

// Attrs is a set of attributes kept in key order.
type Attrs []Attr

// ParseAttrs parses "key=value" arguments.
//
// Outputs:
//   - Attrs: The attributes sorted by key.
//   - error: ErrMalformedAttr for an argument without '=', with an empty
//     key, with a '/' anywhere, or with a repeated key.
func ParseAttrs(args []string) (Attrs, error) {
	attrs := make(Attrs, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		switch {
		case !ok || k == "":
			return nil, fmt.Errorf("%w: %q is not key=value", ErrMalformedAttr, arg)
		case strings.ContainsRune(arg, '/'):
			return nil, fmt.Errorf("%w: %q contains '/'", ErrMalformedAttr, arg)
		case seen[k]:
			return nil, fmt.Errorf("%w: key %q repeated", ErrMalformedAttr, k)
		}
		seen[k] = true
		attrs = append(attrs, Attr{Key: k, Value: v})
	}
	attrs.sort()
	return attrs, nil
}

func (a Attrs) sort() {
	sort.Slice(a, func(i, j int) bool { return a[i].Key < a[j].Key })
}

// Get returns the value of key.
func (a Attrs) Get(key string) (string, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return "", false
}

// With returns a copy of a with key set to value.
func (a Attrs) With(key, value string) Attrs {
	out := make(Attrs, 0, len(a)+1)
	for _, at := range a {
		if at.Key != key {
			out = append(out, at)
		}
	}
	out = append(out, Attr{Key: key, Value: value})
	out.sort()
	return out
}

// Matches reports whether every attribute of filter is present in a with
// the same value.
func (a Attrs) Matches(filter Attrs) bool {
	for _, f := range filter {
		if v, ok := a.Get(f.Key); !ok || v != f.Value {
			return false
		}
	}
	return true
}

// Key returns the slash-separated attribute path of a.
func (a Attrs) Key() string {
	parts := make([]string, len(a))
	for i, at := range a {
		parts[i] = at.String()
	}
	return path.Join(parts...)
}

// PathFor returns the filesystem path of attrs below root.
func PathFor(root string, attrs Attrs) string {
	return filepath.Join(root, filepath.FromSlash(attrs.Key()))
}
