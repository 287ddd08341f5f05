// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package geom provides the planar points and axis-aligned boxes used by
// the platformer physics and level lookup.
package geom

import "math"

// Point is a location in level coordinates. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Bbox is an axis-aligned bounding box with Min the top-left corner.
type Bbox struct {
	Min Point
	Max Point
}

// NewBbox returns the box with top-left corner (x, y) and the given size.
func NewBbox(x, y, w, h float64) Bbox {
	return Bbox{Min: Point{x, y}, Max: Point{x + w, y + h}}
}

// Center returns the midpoint of b.
func (b Bbox) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Move translates b by (dx, dy).
func (b *Bbox) Move(dx, dy float64) {
	b.Min.X += dx
	b.Max.X += dx
	b.Min.Y += dy
	b.Max.Y += dy
}

// Overlaps reports whether a and b share interior area. Touching edges do
// not overlap.
func (b Bbox) Overlaps(o Bbox) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// ClosestPoint returns the point of b nearest to p.
func (b Bbox) ClosestPoint(p Point) Point {
	return Point{clamp(p.X, b.Min.X, b.Max.X), clamp(p.Y, b.Min.Y, b.Max.Y)}
}

// DistanceTo returns the distance from p to the nearest point of b, zero
// when p lies inside or on b.
func (b Bbox) DistanceTo(p Point) float64 {
	return Distance(p, b.ClosestPoint(p))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
