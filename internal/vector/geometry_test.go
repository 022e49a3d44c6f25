/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestRectNormalize(t *testing.T) {
	r := R(100, 80, -60, -30).Normalize()
	if r.X != 40 || r.Y != 50 || r.W != 60 || r.H != 30 {
		t.Fatalf("unexpected normalized rect: %+v", r)
	}
	if !R(100, 80, -60, -30).Contains(Pt{50, 60}) {
		t.Fatalf("contains should work on reversed rects")
	}
	l := LTRB(10, 10, 0, 0)
	if l.Left() != 0 || l.Right() != 10 || l.Top() != 0 || l.Bottom() != 10 {
		t.Fatalf("LTRB should normalize: %+v", l)
	}
}

func TestRectUnionIntersect(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(5, 5, 10, 10)
	u := a.Union(b)
	if u != R(0, 0, 15, 15) {
		t.Fatalf("unexpected union: %+v", u)
	}
	in, ok := a.Intersect(b)
	if !ok || in != R(5, 5, 5, 5) {
		t.Fatalf("unexpected intersection: %+v %v", in, ok)
	}
	if _, ok := a.Intersect(R(20, 20, 5, 5)); ok {
		t.Fatalf("disjoint rects must not intersect")
	}
	if !a.Overlaps(R(10, 0, 5, 5)) {
		t.Fatalf("touching edges count as overlap")
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf(Pt{3, 9}, Pt{-1, 4}, Pt{7, 2})
	if b != R(-1, 2, 8, 7) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if BoundsOf() != (Rect{}) {
		t.Fatalf("no points should give zero rect")
	}
}
