/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"slices"

	"goannotate/internal/vector"
)

// Polyline is an open chain of segments with one handle per vertex.
type Polyline struct {
	base
	pts []vector.Pt
}

// NewPolyline copies pts; a polyline always keeps at least one vertex.
func NewPolyline(pts []vector.Pt, st Style) *Polyline {
	if len(pts) == 0 {
		pts = []vector.Pt{{}}
	}
	return &Polyline{base: newBase(st), pts: slices.Clone(pts)}
}

func (pl *Polyline) Kind() Kind { return KindPolyline }

// Points returns a copy of the vertices.
func (pl *Polyline) Points() []vector.Pt { return slices.Clone(pl.pts) }

// AddPoint appends a vertex.
func (pl *Polyline) AddPoint(p vector.Pt) { pl.pts = append(pl.pts, p) }

// Last returns the final vertex.
func (pl *Polyline) Last() vector.Pt { return pl.pts[len(pl.pts)-1] }

func (pl *Polyline) path() vector.Path { return vector.Path{Pts: pl.pts} }

func (pl *Polyline) Bounds() vector.Rect { return vector.BoundsOf(pl.pts...) }

func (pl *Polyline) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	surf.DrawPolyline(slices.Clone(pl.pts), pl.pen())
	drawTracker(pl, surf)
	return nil
}

func (pl *Polyline) Contains(p vector.Pt) bool {
	half := pl.style.HitWidth() / 2
	if pl.selected {
		return pl.Bounds().Inset(-half, -half).Contains(p)
	}
	return pl.path().StrokeContains(p, pl.style.HitWidth())
}

func (pl *Polyline) IntersectsWith(r vector.Rect) bool {
	return pl.path().IntersectsRect(r, pl.style.HitWidth())
}

func (pl *Polyline) HandleCount() int { return len(pl.pts) }

func (pl *Polyline) Handle(n int) (vector.Pt, error) {
	if err := checkHandle(n, len(pl.pts)); err != nil {
		return vector.Pt{}, err
	}
	return pl.pts[n-1], nil
}

func (pl *Polyline) MoveHandleTo(p vector.Pt, n int) error {
	if err := checkHandle(n, len(pl.pts)); err != nil {
		return err
	}
	pl.pts[n-1] = p
	return nil
}

func (pl *Polyline) HandleCursor(n int) Cursor {
	if n >= 1 && n <= len(pl.pts) {
		return CursorSizeAll
	}
	return CursorDefault
}

func (pl *Polyline) HitTest(p vector.Pt) int { return hitTest(pl, p) }

func (pl *Polyline) Move(dx, dy float64) {
	for i := range pl.pts {
		pl.pts[i] = pl.pts[i].Add(dx, dy)
	}
}

func (pl *Polyline) Normalize() {}

func (pl *Polyline) Snapshot() (Snapshot, error) {
	snap := Snapshot{Kind: KindPolyline, Points: slices.Clone(pl.pts)}
	pl.fillSnapshot(&snap)
	return snap, nil
}
