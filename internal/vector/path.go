/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Path is an outline made of straight segments. Curved outlines (ellipses)
// are flattened into a Path before stroke hit-testing.
type Path struct {
	Pts    []Pt
	Closed bool
}

// Segments calls fn for every segment in drawing order, including the closing segment.
func (p Path) Segments(fn func(a, b Pt) bool) {
	for i := 1; i < len(p.Pts); i++ {
		if !fn(p.Pts[i-1], p.Pts[i]) {
			return
		}
	}
	if p.Closed && len(p.Pts) > 2 {
		fn(p.Pts[len(p.Pts)-1], p.Pts[0])
	}
}

// Bounds returns the axis-aligned bounding box of the path.
func (p Path) Bounds() Rect { return BoundsOf(p.Pts...) }

// StrokeContains reports whether q lies within width/2 of any segment.
func (p Path) StrokeContains(q Pt, width float64) bool {
	if len(p.Pts) == 1 {
		return p.Pts[0].Dist(q) <= width/2
	}
	hit := false
	p.Segments(func(a, b Pt) bool {
		if DistToSegment(q, a, b) <= width/2 {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// IntersectsRect reports whether the stroke of the path, widened to width,
// overlaps r.
func (p Path) IntersectsRect(r Rect, width float64) bool {
	if len(p.Pts) == 1 {
		return SegmentIntersectsRect(p.Pts[0], p.Pts[0], r.Inset(-width/2, -width/2))
	}
	hit := false
	p.Segments(func(a, b Pt) bool {
		if WideSegmentIntersectsRect(a, b, width, r) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// EllipsePath flattens the ellipse inscribed in r into n segments.
func EllipsePath(r Rect, n int) Path {
	if n < 8 {
		n = 8
	}
	r = r.Normalize()
	c := r.Center()
	rx, ry := r.W/2, r.H/2
	p := Path{Pts: make([]Pt, 0, n), Closed: true}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p.Pts = append(p.Pts, Pt{c.X + rx*math.Cos(a), c.Y + ry*math.Sin(a)})
	}
	return p
}
