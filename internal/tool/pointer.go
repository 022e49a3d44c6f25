/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package tool

import (
	"log/slog"

	"goannotate/internal/shape"
	"goannotate/internal/undo"
	"goannotate/internal/vector"
)

// pointerMode is the interaction the pointer tool decided on at pointer-down.
type pointerMode uint8

const (
	modeNone pointerMode = iota
	modeMove
	modeSize
	modeGroupSelection
)

// pointerTool picks, moves and resizes existing shapes, or rubber-band
// selects when pressed on empty canvas.
type pointerTool struct {
	mode   pointerMode
	last   vector.Pt
	target shape.Shape
	handle int
	band   *shape.SelectionRect
}

func (t *pointerTool) Kind() Kind   { return KindPointer }
func (t *pointerTool) Active() bool { return t.mode != modeNone }

func (t *pointerTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	if t.mode != modeNone {
		if err := t.finish(ctx); err != nil {
			return err
		}
	}
	c := ctx.Canvas
	c.ClearSelection()
	t.last = e.Pos
	s, h := c.HitTest(e.Pos)
	switch {
	case s != nil && h > 0:
		edit, err := undo.NewEdit([]shape.Shape{s})
		if err != nil {
			return err
		}
		if err := ctx.History.Open(edit); err != nil {
			return err
		}
		t.mode, t.target, t.handle = modeSize, s, h
	case s != nil:
		if ctx.Mods.Has(ModCtrl) {
			s.SetSelected(!s.Selected())
		} else if !s.Selected() {
			c.UnselectAll()
			s.SetSelected(true)
		}
		sel := c.Selected()
		if len(sel) == 0 {
			break
		}
		edit, err := undo.NewEdit(sel)
		if err != nil {
			return err
		}
		if err := ctx.History.Open(edit); err != nil {
			return err
		}
		t.mode = modeMove
	default:
		if !ctx.Mods.Has(ModCtrl) {
			c.UnselectAll()
		}
		t.band = startBand(ctx, e.Pos)
		t.mode = modeGroupSelection
	}
	if t.mode != modeNone {
		ctx.Capture.Acquire()
		ctx.Log.Debug("pointer gesture", slog.Int("mode", int(t.mode)), slog.Int("handle", t.handle))
	}
	return nil
}

func (t *pointerTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.mode == modeNone || !ctx.Capture.Held() {
		return nil
	}
	switch t.mode {
	case modeMove:
		dx, dy := e.Pos.X-t.last.X, e.Pos.Y-t.last.Y
		if dx == 0 && dy == 0 {
			return nil
		}
		for _, s := range ctx.Canvas.Selected() {
			s.Move(dx, dy)
		}
		ctx.Canvas.MarkDirty()
	case modeSize:
		if err := t.target.MoveHandleTo(e.Pos, t.handle); err != nil {
			return err
		}
		t.constrain(ctx)
		ctx.Canvas.MarkDirty()
	case modeGroupSelection:
		if err := dragBand(ctx, t.band, e.Pos); err != nil {
			return err
		}
	}
	t.last = e.Pos
	return nil
}

// constrain applies the Shift snap to a line being resized by its free end.
func (t *pointerTool) constrain(ctx *Context) {
	if l, ok := t.target.(*shape.Line); ok && t.handle == 2 {
		l.Constrain(ctx.snap())
	}
}

func (t *pointerTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.mode == modeNone {
		return nil
	}
	return t.finish(ctx)
}

func (t *pointerTool) finish(ctx *Context) error {
	mode := t.mode
	t.mode = modeNone
	switch mode {
	case modeSize:
		t.target.Normalize()
		t.target = nil
		return ctx.end()
	case modeMove:
		return ctx.end()
	case modeGroupSelection:
		band := t.band
		t.band = nil
		r, ok := releaseBand(ctx, band)
		ctx.Canvas.ClearSelection()
		if ok {
			ctx.Canvas.SelectWithin(r)
		}
	}
	return nil
}

func (t *pointerTool) KeyDown(ctx *Context, e KeyEvent) (bool, error) {
	if t.mode == modeSize && ctx.Capture.Held() {
		t.constrain(ctx)
	}
	return false, nil
}

func (t *pointerTool) KeyUp(ctx *Context, e KeyEvent) error {
	if t.mode == modeSize && ctx.Capture.Held() {
		t.constrain(ctx)
	}
	return nil
}

func (t *pointerTool) Cancel(ctx *Context) error {
	mode := t.mode
	t.mode, t.target, t.band = modeNone, nil, nil
	if mode == modeGroupSelection {
		ctx.Canvas.ClearSelection()
		return nil
	}
	return ctx.cancel()
}

func (t *pointerTool) Cursor(ctx *Context, p vector.Pt) shape.Cursor {
	switch t.mode {
	case modeSize:
		return t.target.HandleCursor(t.handle)
	case modeMove:
		return shape.CursorSizeAll
	case modeGroupSelection:
		return shape.CursorDefault
	}
	s, h := ctx.Canvas.HitTest(p)
	switch {
	case s != nil && h > 0:
		return s.HandleCursor(h)
	case s != nil:
		return shape.CursorSizeAll
	}
	return shape.CursorDefault
}
