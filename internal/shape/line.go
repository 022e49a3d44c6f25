/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"math"

	"goannotate/internal/vector"
)

// Line is a straight segment with two handles: 1 is the start, 2 the end.
type Line struct {
	base
	start, end vector.Pt
	// curr is the last pointer position given to MoveHandleTo. It is only
	// meaningful during a drag and is never part of a snapshot.
	curr vector.Pt
}

func NewLine(start, end vector.Pt, st Style) *Line {
	return &Line{base: newBase(st), start: start, end: end, curr: end}
}

func (l *Line) Kind() Kind       { return KindLine }
func (l *Line) Start() vector.Pt { return l.start }
func (l *Line) End() vector.Pt   { return l.end }

func (l *Line) Bounds() vector.Rect { return vector.BoundsOf(l.start, l.end) }

func (l *Line) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	surf.DrawLine(l.start, l.end, l.pen())
	drawTracker(l, surf)
	return nil
}

// Contains uses the bounding box grown by the hit width while selected, and
// the widened stroke otherwise.
func (l *Line) Contains(p vector.Pt) bool {
	half := l.style.HitWidth() / 2
	if l.selected {
		return l.Bounds().Inset(-half, -half).Contains(p)
	}
	return vector.DistToSegment(p, l.start, l.end) <= half
}

func (l *Line) IntersectsWith(r vector.Rect) bool {
	return vector.WideSegmentIntersectsRect(l.start, l.end, l.style.HitWidth(), r)
}

func (l *Line) HandleCount() int { return 2 }

func (l *Line) Handle(n int) (vector.Pt, error) {
	if err := checkHandle(n, 2); err != nil {
		return vector.Pt{}, err
	}
	if n == 1 {
		return l.start, nil
	}
	return l.end, nil
}

func (l *Line) MoveHandleTo(p vector.Pt, n int) error {
	if err := checkHandle(n, 2); err != nil {
		return err
	}
	l.curr = p
	if n == 1 {
		l.start = p
	} else {
		l.end = p
	}
	return nil
}

// Constrain re-derives the end point from the last pointer position. With
// snap set the smaller axis of the start-to-pointer delta is collapsed onto
// the start point, giving a horizontal or vertical line.
func (l *Line) Constrain(snap bool) {
	l.end = l.curr
	if !snap {
		return
	}
	if math.Abs(l.curr.X-l.start.X) > math.Abs(l.curr.Y-l.start.Y) {
		l.end.Y = l.start.Y
	} else {
		l.end.X = l.start.X
	}
}

func (l *Line) HandleCursor(n int) Cursor {
	if n == 1 || n == 2 {
		return CursorSizeAll
	}
	return CursorDefault
}

func (l *Line) HitTest(p vector.Pt) int { return hitTest(l, p) }

func (l *Line) Move(dx, dy float64) {
	l.start = l.start.Add(dx, dy)
	l.end = l.end.Add(dx, dy)
	l.curr = l.curr.Add(dx, dy)
}

// Normalize is a no-op: a line has no corner order.
func (l *Line) Normalize() {}

func (l *Line) Snapshot() (Snapshot, error) {
	snap := Snapshot{Kind: KindLine, Start: l.start, End: l.end}
	l.fillSnapshot(&snap)
	return snap, nil
}
