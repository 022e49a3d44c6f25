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

// Rectangle-family handle numbers, clockwise from the top-left corner.
const (
	HandleTopLeft = iota + 1
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft

	rectHandleCount = HandleLeft
)

// rectBase stores raw edges. During a drag the edges may be inverted; the
// handles keep following the raw values until Normalize is called.
type rectBase struct {
	base
	left, top, right, bottom float64
}

func newRectBase(r vector.Rect, st Style) rectBase {
	return rectBase{base: newBase(st), left: r.X, top: r.Y, right: r.X + r.W, bottom: r.Y + r.H}
}

// Rect returns the normalized rectangle.
func (r *rectBase) Rect() vector.Rect { return r.Bounds() }

// SetRect replaces all four edges.
func (r *rectBase) SetRect(v vector.Rect) {
	r.left, r.top, r.right, r.bottom = v.X, v.Y, v.X+v.W, v.Y+v.H
}

func (r *rectBase) Bounds() vector.Rect {
	return vector.LTRB(r.left, r.top, r.right, r.bottom)
}

func (r *rectBase) HandleCount() int { return rectHandleCount }

func (r *rectBase) Handle(n int) (vector.Pt, error) {
	if err := checkHandle(n, rectHandleCount); err != nil {
		return vector.Pt{}, err
	}
	xc := (r.left + r.right) / 2
	yc := (r.top + r.bottom) / 2
	switch n {
	case HandleTopLeft:
		return vector.Pt{X: r.left, Y: r.top}, nil
	case HandleTop:
		return vector.Pt{X: xc, Y: r.top}, nil
	case HandleTopRight:
		return vector.Pt{X: r.right, Y: r.top}, nil
	case HandleRight:
		return vector.Pt{X: r.right, Y: yc}, nil
	case HandleBottomRight:
		return vector.Pt{X: r.right, Y: r.bottom}, nil
	case HandleBottom:
		return vector.Pt{X: xc, Y: r.bottom}, nil
	case HandleBottomLeft:
		return vector.Pt{X: r.left, Y: r.bottom}, nil
	default:
		return vector.Pt{X: r.left, Y: yc}, nil
	}
}

func (r *rectBase) MoveHandleTo(p vector.Pt, n int) error {
	if err := checkHandle(n, rectHandleCount); err != nil {
		return err
	}
	switch n {
	case HandleTopLeft:
		r.left, r.top = p.X, p.Y
	case HandleTop:
		r.top = p.Y
	case HandleTopRight:
		r.right, r.top = p.X, p.Y
	case HandleRight:
		r.right = p.X
	case HandleBottomRight:
		r.right, r.bottom = p.X, p.Y
	case HandleBottom:
		r.bottom = p.Y
	case HandleBottomLeft:
		r.left, r.bottom = p.X, p.Y
	case HandleLeft:
		r.left = p.X
	}
	return nil
}

func (r *rectBase) HandleCursor(n int) Cursor {
	switch n {
	case HandleTopLeft, HandleBottomRight:
		return CursorSizeNWSE
	case HandleTopRight, HandleBottomLeft:
		return CursorSizeNESW
	case HandleTop, HandleBottom:
		return CursorSizeNS
	case HandleLeft, HandleRight:
		return CursorSizeWE
	}
	return CursorDefault
}

// ConstrainSquare turns the rectangle into a square anchored at the top-left
// handle, keeping the direction of the drag and the larger side.
func (r *rectBase) ConstrainSquare() {
	w, h := r.right-r.left, r.bottom-r.top
	side := math.Max(math.Abs(w), math.Abs(h))
	r.right = r.left + math.Copysign(side, w)
	r.bottom = r.top + math.Copysign(side, h)
}

func (r *rectBase) Move(dx, dy float64) {
	r.left += dx
	r.right += dx
	r.top += dy
	r.bottom += dy
}

func (r *rectBase) Normalize() {
	if r.left > r.right {
		r.left, r.right = r.right, r.left
	}
	if r.top > r.bottom {
		r.top, r.bottom = r.bottom, r.top
	}
}

func (r *rectBase) fillSnapshot(s *Snapshot) {
	r.base.fillSnapshot(s)
	s.Left, s.Top, s.Right, s.Bottom = r.left, r.top, r.right, r.bottom
}

// Rectangle is an unfilled rectangle outline.
type Rectangle struct{ rectBase }

func NewRectangle(r vector.Rect, st Style) *Rectangle {
	return &Rectangle{newRectBase(r, st)}
}

func (s *Rectangle) Kind() Kind { return KindRectangle }

func (s *Rectangle) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	surf.DrawRect(s.Bounds(), s.pen())
	drawTracker(s, surf)
	return nil
}

// Contains uses the rectangle area in both selection states.
func (s *Rectangle) Contains(p vector.Pt) bool { return s.Bounds().Contains(p) }

func (s *Rectangle) IntersectsWith(r vector.Rect) bool { return s.Bounds().Overlaps(r) }

func (s *Rectangle) HitTest(p vector.Pt) int { return hitTest(s, p) }

func (s *Rectangle) Snapshot() (Snapshot, error) {
	snap := Snapshot{Kind: KindRectangle}
	s.fillSnapshot(&snap)
	return snap, nil
}

// Ellipse is the unfilled ellipse inscribed in its rectangle.
type Ellipse struct{ rectBase }

func NewEllipse(r vector.Rect, st Style) *Ellipse {
	return &Ellipse{newRectBase(r, st)}
}

func (s *Ellipse) Kind() Kind { return KindEllipse }

func (s *Ellipse) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	surf.DrawEllipse(s.Bounds(), s.pen())
	drawTracker(s, surf)
	return nil
}

// Contains is coarse (bounding box) while selected and exact (fill or stroke) otherwise.
func (s *Ellipse) Contains(p vector.Pt) bool {
	b := s.Bounds()
	if s.selected {
		return b.Contains(p)
	}
	return vector.EllipseContains(b, p) || vector.EllipseStrokeContains(b, p, s.style.ActualLineWidth())
}

func (s *Ellipse) IntersectsWith(r vector.Rect) bool {
	return vector.EllipseIntersectsRect(s.Bounds(), r)
}

func (s *Ellipse) HitTest(p vector.Pt) int { return hitTest(s, p) }

func (s *Ellipse) Snapshot() (Snapshot, error) {
	snap := Snapshot{Kind: KindEllipse}
	s.fillSnapshot(&snap)
	return snap, nil
}
