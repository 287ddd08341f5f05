// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rdb

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// Pair is one key/value diagnostic line of a run.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is one stored run.
type Record struct {
	ID      string    `json:"id"`
	Attrs   Attrs     `json:"attrs"`
	Created time.Time `json:"created"`
	Pairs   []Pair    `json:"pairs"`
}

// Value returns the value of the first diagnostic named key.
func (r *Record) Value(key string) (string, bool) {
	for _, p := range r.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParsePairs reads "key<TAB>value" lines. Lines without exactly one tab,
// such as solution dumps, are skipped.
func ParsePairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.Count(line, "\t") != 1 {
			continue
		}
		k, v, _ := strings.Cut(line, "\t")
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs, sc.Err()
}
