// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package geom

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 2}, Point{1, 2}, 0},
		{"horizontal", Point{0, 0}, Point{16, 0}, 16},
		{"diagonal", Point{0, 0}, Point{3, 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBbox(t *testing.T) {
	b := NewBbox(8, 16, 16, 24)
	if b.Min != (Point{8, 16}) || b.Max != (Point{24, 40}) {
		t.Fatalf("NewBbox = %v, want min (8,16) max (24,40)", b)
	}
	if c := b.Center(); c != (Point{16, 28}) {
		t.Errorf("Center() = %v", c)
	}

	b.Move(-8, 4)
	if b.Min != (Point{0, 20}) || b.Max != (Point{16, 44}) {
		t.Errorf("Move() = %+v", b)
	}
}

func TestBbox_Overlaps(t *testing.T) {
	a := NewBbox(0, 0, 32, 32)
	if a.Overlaps(NewBbox(32, 0, 32, 32)) {
		t.Error("touching boxes must not overlap")
	}
	if !a.Overlaps(NewBbox(31.5, 31.5, 1, 1)) {
		t.Error("expected overlap")
	}
}

func TestBbox_DistanceTo(t *testing.T) {
	goal := NewBbox(128, 0, 32, 32)
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"inside", Point{140, 10}, 0},
		{"left, level", Point{8, 20}, 120},
		{"above left corner", Point{125, -4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := goal.DistanceTo(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistanceTo() = %v, want %v", got, tt.want)
			}
		})
	}
}
