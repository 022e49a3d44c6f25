/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Exact hit-testing predicates. All of them answer false for degenerate input
// rather than failing.

import "math"

const eps = 1e-9

// DistToSegment returns the shortest distance from q to the segment a-b.
func DistToSegment(q, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 < eps {
		return q.Dist(a)
	}
	t := ((q.X-a.X)*dx + (q.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return q.Dist(Pt{a.X + t*dx, a.Y + t*dy})
}

// DistToRect returns 0 when q is inside r, else the distance to the nearest edge.
func DistToRect(q Pt, r Rect) float64 {
	r = r.Normalize()
	cx := math.Max(r.X, math.Min(q.X, r.X+r.W))
	cy := math.Max(r.Y, math.Min(q.Y, r.Y+r.H))
	return q.Dist(Pt{cx, cy})
}

// SegmentIntersectsRect reports whether the segment a-b touches r (Liang-Barsky clipping).
func SegmentIntersectsRect(a, b Pt, r Rect) bool {
	r = r.Normalize()
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	clip := func(p, q float64) bool {
		if math.Abs(p) < eps {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}
	return clip(-dx, a.X-r.X) &&
		clip(dx, r.X+r.W-a.X) &&
		clip(-dy, a.Y-r.Y) &&
		clip(dy, r.Y+r.H-a.Y)
}

// WideSegmentIntersectsRect reports whether the segment a-b stroked with the
// given width overlaps r. Round caps are assumed.
func WideSegmentIntersectsRect(a, b Pt, width float64, r Rect) bool {
	if SegmentIntersectsRect(a, b, r) {
		return true
	}
	half := width / 2
	if half <= 0 {
		return false
	}
	// Disjoint convex shapes: the closest pair involves a vertex of one of them.
	if DistToRect(a, r) <= half || DistToRect(b, r) <= half {
		return true
	}
	for _, c := range r.Corners() {
		if DistToSegment(c, a, b) <= half {
			return true
		}
	}
	return false
}

// EllipseContains reports whether q lies inside the ellipse inscribed in bounds.
func EllipseContains(bounds Rect, q Pt) bool {
	bounds = bounds.Normalize()
	rx, ry := bounds.W/2, bounds.H/2
	if rx < eps || ry < eps {
		return false
	}
	c := bounds.Center()
	nx, ny := (q.X-c.X)/rx, (q.Y-c.Y)/ry
	return nx*nx+ny*ny <= 1
}

// EllipseIntersectsRect reports whether the filled ellipse inscribed in bounds
// overlaps r. Scaling both by the radii turns the ellipse into the unit circle
// while keeping r axis-aligned, where the test is exact.
func EllipseIntersectsRect(bounds, r Rect) bool {
	bounds = bounds.Normalize()
	rx, ry := bounds.W/2, bounds.H/2
	c := bounds.Center()
	switch {
	case rx < eps && ry < eps:
		return r.Contains(c)
	case rx < eps:
		return SegmentIntersectsRect(Pt{c.X, bounds.Y}, Pt{c.X, bounds.Y + bounds.H}, r)
	case ry < eps:
		return SegmentIntersectsRect(Pt{bounds.X, c.Y}, Pt{bounds.X + bounds.W, c.Y}, r)
	}
	r = r.Normalize()
	sr := Rect{X: (r.X - c.X) / rx, Y: (r.Y - c.Y) / ry, W: r.W / rx, H: r.H / ry}
	return DistToRect(Pt{}, sr) <= 1
}

// EllipseStrokeContains reports whether q lies on the ellipse outline widened to width.
func EllipseStrokeContains(bounds Rect, q Pt, width float64) bool {
	return EllipsePath(bounds, ellipseSegments(bounds)).StrokeContains(q, width)
}

// ellipseSegments picks a flattening resolution that keeps the chord error
// well below a device unit for typical annotation sizes.
func ellipseSegments(r Rect) int {
	r = r.Normalize()
	n := int(math.Ceil(math.Max(r.W, r.H) / 4))
	return max(32, min(n, 512))
}
