/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package tool

import (
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// boxShape is a rectangle-family shape created by dragging its bottom-right handle.
type boxShape interface {
	shape.Shape
	ConstrainSquare()
}

// rectTool creates rectangles and ellipses.
type rectTool struct {
	kind Kind
	s    boxShape
	last vector.Pt
}

func (t *rectTool) Kind() Kind   { return t.kind }
func (t *rectTool) Active() bool { return t.s != nil }

func (t *rectTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	if t.s != nil {
		if err := t.finish(ctx); err != nil {
			return err
		}
	}
	r := vector.R(e.Pos.X, e.Pos.Y, 1, 1)
	var s boxShape
	if t.kind == KindEllipse {
		s = shape.NewEllipse(r, ctx.Style)
	} else {
		s = shape.NewRectangle(r, ctx.Style)
	}
	if err := ctx.begin(s); err != nil {
		return err
	}
	t.s, t.last = s, e.Pos
	return nil
}

func (t *rectTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.s == nil || e.Button != ButtonLeft || !ctx.Capture.Held() {
		return nil
	}
	t.last = e.Pos
	return t.resize(ctx)
}

// resize drags the bottom-right handle to the last pointer position. Shift
// keeps the shape square.
func (t *rectTool) resize(ctx *Context) error {
	if err := t.s.MoveHandleTo(t.last, shape.HandleBottomRight); err != nil {
		return err
	}
	if ctx.snap() {
		t.s.ConstrainSquare()
	}
	return nil
}

func (t *rectTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.s == nil {
		return nil
	}
	return t.finish(ctx)
}

func (t *rectTool) finish(ctx *Context) error {
	t.s.Normalize()
	t.s = nil
	return ctx.end()
}

func (t *rectTool) KeyDown(ctx *Context, e KeyEvent) (bool, error) {
	if t.s == nil || !ctx.Capture.Held() {
		return false, nil
	}
	return false, t.resize(ctx)
}

func (t *rectTool) KeyUp(ctx *Context, e KeyEvent) error {
	if t.s == nil || !ctx.Capture.Held() {
		return nil
	}
	return t.resize(ctx)
}

func (t *rectTool) Cancel(ctx *Context) error {
	t.s = nil
	return ctx.cancel()
}

func (t *rectTool) Cursor(*Context, vector.Pt) shape.Cursor { return shape.CursorCross }

type lineTool struct{ l *shape.Line }

func (t *lineTool) Kind() Kind   { return KindLine }
func (t *lineTool) Active() bool { return t.l != nil }

func (t *lineTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	if t.l != nil {
		if err := t.finish(ctx); err != nil {
			return err
		}
	}
	l := shape.NewLine(e.Pos, e.Pos.Add(1, 1), ctx.Style)
	if err := ctx.begin(l); err != nil {
		return err
	}
	t.l = l
	return nil
}

func (t *lineTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.l == nil || e.Button != ButtonLeft || !ctx.Capture.Held() {
		return nil
	}
	if err := t.l.MoveHandleTo(e.Pos, 2); err != nil {
		return err
	}
	t.l.Constrain(ctx.snap())
	return nil
}

func (t *lineTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.l == nil {
		return nil
	}
	return t.finish(ctx)
}

func (t *lineTool) finish(ctx *Context) error {
	t.l = nil
	return ctx.end()
}

// KeyDown and KeyUp re-derive the free end so pressing or releasing Shift
// takes effect without moving the pointer.
func (t *lineTool) KeyDown(ctx *Context, e KeyEvent) (bool, error) {
	if t.l != nil && ctx.Capture.Held() {
		t.l.Constrain(ctx.snap())
	}
	return false, nil
}

func (t *lineTool) KeyUp(ctx *Context, e KeyEvent) error {
	if t.l != nil && ctx.Capture.Held() {
		t.l.Constrain(ctx.snap())
	}
	return nil
}

func (t *lineTool) Cancel(ctx *Context) error {
	t.l = nil
	return ctx.cancel()
}

func (t *lineTool) Cursor(*Context, vector.Pt) shape.Cursor { return shape.CursorCross }

// polylineTool draws freehand: the last vertex follows the pointer until it
// is far enough from the previous one, then a new vertex is started.
type polylineTool struct {
	pl     *shape.Polyline
	anchor vector.Pt
}

func (t *polylineTool) Kind() Kind   { return KindPolyline }
func (t *polylineTool) Active() bool { return t.pl != nil }

func (t *polylineTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	if t.pl != nil {
		if err := t.finish(ctx); err != nil {
			return err
		}
	}
	pl := shape.NewPolyline([]vector.Pt{e.Pos, e.Pos.Add(1, 1)}, ctx.Style)
	if err := ctx.begin(pl); err != nil {
		return err
	}
	t.pl, t.anchor = pl, e.Pos
	return nil
}

func (t *polylineTool) minDistance(ctx *Context) float64 {
	d := ctx.PolylineMinDistance
	if s := ctx.Style.Scale; s > 0 {
		d /= s
	}
	return d
}

func (t *polylineTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.pl == nil || e.Button != ButtonLeft || !ctx.Capture.Held() {
		return nil
	}
	if e.Pos.Dist(t.anchor) < t.minDistance(ctx) {
		return t.pl.MoveHandleTo(e.Pos, t.pl.HandleCount())
	}
	t.pl.AddPoint(e.Pos)
	t.anchor = e.Pos
	return nil
}

func (t *polylineTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.pl == nil {
		return nil
	}
	return t.finish(ctx)
}

func (t *polylineTool) finish(ctx *Context) error {
	t.pl = nil
	return ctx.end()
}

func (t *polylineTool) KeyDown(*Context, KeyEvent) (bool, error) { return false, nil }
func (t *polylineTool) KeyUp(*Context, KeyEvent) error           { return nil }

func (t *polylineTool) Cancel(ctx *Context) error {
	t.pl = nil
	return ctx.cancel()
}

func (t *polylineTool) Cursor(*Context, vector.Pt) shape.Cursor { return shape.CursorCross }
