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
	"goannotate/internal/vector"
)

// marqueeTool drags a selection overlay. The overlay stays on the canvas as
// the active selection once released, unless the drag was a click.
type marqueeTool struct{ band *shape.SelectionRect }

func (t *marqueeTool) Kind() Kind   { return KindMarquee }
func (t *marqueeTool) Active() bool { return t.band != nil }

func (t *marqueeTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	t.band = startBand(ctx, e.Pos)
	ctx.Capture.Acquire()
	return nil
}

func startBand(ctx *Context, p vector.Pt) *shape.SelectionRect {
	ctx.Canvas.ClearSelection()
	band := shape.NewSelectionRect(vector.R(p.X, p.Y, 1, 1), ctx.Style.Scale)
	band.ClipTo(ctx.Canvas.Size())
	ctx.Canvas.SetCurrentSelection(band)
	return band
}

func dragBand(ctx *Context, band *shape.SelectionRect, p vector.Pt) error {
	if err := band.MoveHandleTo(p, shape.HandleBottomRight); err != nil {
		return err
	}
	band.ClipTo(ctx.Canvas.Size())
	return nil
}

// releaseBand normalizes the band and reports its rectangle, or false when
// it is too small to count as a box. A degenerate band is removed.
func releaseBand(ctx *Context, band *shape.SelectionRect) (vector.Rect, bool) {
	band.Normalize()
	r := band.Bounds()
	if r.W <= ctx.MinMarquee || r.H <= ctx.MinMarquee {
		ctx.Canvas.ClearSelection()
		return r, false
	}
	return r, true
}

func (t *marqueeTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.band == nil || !ctx.Capture.Held() {
		return nil
	}
	return dragBand(ctx, t.band, e.Pos)
}

func (t *marqueeTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.band == nil {
		return nil
	}
	band := t.band
	t.band = nil
	r, ok := releaseBand(ctx, band)
	if !ok {
		return nil
	}
	ctx.Canvas.UnselectAll()
	n := ctx.Canvas.SelectWithin(r)
	ctx.Log.Debug("marquee released", slog.Int("selected", n))
	return nil
}

func (t *marqueeTool) KeyDown(*Context, KeyEvent) (bool, error) { return false, nil }
func (t *marqueeTool) KeyUp(*Context, KeyEvent) error           { return nil }

func (t *marqueeTool) Cancel(ctx *Context) error {
	t.band = nil
	ctx.Canvas.ClearSelection()
	return nil
}

func (t *marqueeTool) Cursor(*Context, vector.Pt) shape.Cursor { return shape.CursorCross }
