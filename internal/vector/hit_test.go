/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestDistToSegment(t *testing.T) {
	cases := []struct {
		q, a, b Pt
		want    float64
	}{
		{Pt{5, 5}, Pt{0, 0}, Pt{10, 0}, 5},
		{Pt{-3, 4}, Pt{0, 0}, Pt{10, 0}, 5},
		{Pt{1, 1}, Pt{0, 0}, Pt{0, 0}, math.Sqrt2},
	}
	for _, c := range cases {
		if got := DistToSegment(c.q, c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("DistToSegment(%v,%v,%v)=%v want %v", c.q, c.a, c.b, got, c.want)
		}
	}
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := R(10, 10, 10, 10)
	if !SegmentIntersectsRect(Pt{0, 15}, Pt{30, 15}, r) {
		t.Fatalf("crossing segment should intersect")
	}
	if !SegmentIntersectsRect(Pt{12, 12}, Pt{13, 13}, r) {
		t.Fatalf("segment fully inside should intersect")
	}
	if SegmentIntersectsRect(Pt{0, 0}, Pt{30, 5}, r) {
		t.Fatalf("segment passing above should not intersect")
	}
	// diagonal whose bbox overlaps the rect but whose ink misses it
	if SegmentIntersectsRect(Pt{0, 12}, Pt{12, 0}, r) {
		t.Fatalf("diagonal corner miss should not intersect")
	}
}

func TestWideSegmentIntersectsRect(t *testing.T) {
	r := R(10, 10, 10, 10)
	if !WideSegmentIntersectsRect(Pt{0, 7}, Pt{30, 7}, 8, r) {
		t.Fatalf("segment 3 units away with width 8 should intersect")
	}
	if WideSegmentIntersectsRect(Pt{0, 0}, Pt{30, 0}, 8, r) {
		t.Fatalf("segment 10 units away with width 8 should not intersect")
	}
}

func TestEllipseIntersectsRect(t *testing.T) {
	e := R(0, 0, 100, 100)
	// bbox corner region outside the circle
	if EllipseIntersectsRect(e, R(0, 0, 10, 10)) {
		t.Fatalf("corner rect outside the circle must not intersect")
	}
	if !EllipseIntersectsRect(e, R(45, 45, 10, 10)) {
		t.Fatalf("centre rect must intersect")
	}
	if !EllipseIntersectsRect(e, R(-10, -10, 200, 200)) {
		t.Fatalf("enclosing rect must intersect")
	}
	if !EllipseIntersectsRect(e, R(95, 45, 20, 10)) {
		t.Fatalf("rect over the right edge must intersect")
	}
}

func TestEllipseContainsAndStroke(t *testing.T) {
	e := R(0, 0, 100, 50)
	if !EllipseContains(e, Pt{50, 25}) || EllipseContains(e, Pt{2, 2}) {
		t.Fatalf("unexpected ellipse containment")
	}
	if !EllipseStrokeContains(e, Pt{100, 25}, 4) {
		t.Fatalf("right vertex should be on the stroke")
	}
	if EllipseStrokeContains(e, Pt{50, 25}, 4) {
		t.Fatalf("centre should not be on the stroke")
	}
	if EllipseContains(R(0, 0, 0, 10), Pt{0, 5}) {
		t.Fatalf("degenerate ellipse contains nothing")
	}
}

func TestParseColorAndLineStyle(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil || c != (Color{255, 128, 0, 255}) {
		t.Fatalf("got %v %v", c, err)
	}
	if c.Hex() != "#FF8000" {
		t.Fatalf("hex: %s", c.Hex())
	}
	c2, err := ParseColor("11223344")
	if err != nil || c2 != (Color{0x11, 0x22, 0x33, 0x44}) || c2.Hex() != "#11223344" {
		t.Fatalf("got %v %v", c2, err)
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("expected error for short color")
	}
	s, err := ParseLineStyle("Dashed")
	if err != nil || s != Dashed || s.String() != "dashed" {
		t.Fatalf("got %v %v", s, err)
	}
	if _, err := ParseLineStyle("dotted"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}

func TestLineStyleMarshalRejectsUnknown(t *testing.T) {
	b, err := Dashed.MarshalText()
	if err != nil || string(b) != "dashed" {
		t.Fatalf("got %q %v", b, err)
	}
	var back LineStyle
	if err := back.UnmarshalText(b); err != nil || back != Dashed {
		t.Fatalf("round trip: %v %v", back, err)
	}
	if _, err := LineStyle(7).MarshalText(); err == nil {
		t.Fatalf("expected error for out-of-range style")
	}
	if s := LineStyle(7).String(); s != "LineStyle(7)" {
		t.Fatalf("unexpected name %q", s)
	}
}
