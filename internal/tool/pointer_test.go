/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package tool

import (
	"testing"

	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

func TestPointerDragCoalesces(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	r := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(r)
	ctx.Canvas.MarkSaved()
	pts := []vector.Pt{pt(10, 10)}
	for i := 1; i <= 100; i++ {
		pts = append(pts, pt(10+float64(i), 10))
	}
	drag(t, m, 0, pts...)
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(100, 0, 20, 20) {
		t.Fatalf("unexpected bounds after drag %+v", got)
	}
	if !ctx.Canvas.IsDirty() {
		t.Fatalf("moving must mark the canvas dirty")
	}
	if u, _, _ := ctx.History.Stats(); u != 1 {
		t.Fatalf("100 moves should coalesce into one entry, got %d", u)
	}
	if ok, err := ctx.History.Undo(); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(0, 0, 20, 20) {
		t.Fatalf("undo should restore the start position, got %+v", got)
	}
	if ctx.Canvas.At(0) == shape.Shape(r) {
		t.Fatalf("undo must restore a fresh instance")
	}
}

func TestPointerMovesWholeSelection(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	a := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	b := shape.NewLine(pt(100, 100), pt(150, 100), shape.DefaultStyle())
	ctx.Canvas.Add(a)
	ctx.Canvas.Add(b)
	a.SetSelected(true)
	b.SetSelected(true)
	drag(t, m, 0, pt(10, 10), pt(20, 30))
	if a.Bounds() != vector.R(10, 20, 20, 20) || b.Start() != pt(110, 120) {
		t.Fatalf("both selected shapes should move: %+v %v", a.Bounds(), b.Start())
	}
}

func TestPointerResizeByHandle(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	r := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(r)
	r.SetSelected(true)
	if c := m.Cursor(pt(20, 20)); c != shape.CursorSizeNWSE {
		t.Fatalf("cursor over handle 5 = %v", c)
	}
	drag(t, m, 0, pt(20, 20), pt(30, 35), pt(40, 50))
	if got := r.Bounds(); got != vector.R(0, 0, 40, 50) {
		t.Fatalf("unexpected bounds %+v", got)
	}
	if u, _, _ := ctx.History.Stats(); u != 1 {
		t.Fatalf("resize should record once, got %d", u)
	}
}

func TestPointerResizeLineWithShift(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	l := shape.NewLine(pt(0, 0), pt(40, 40), shape.DefaultStyle())
	ctx.Canvas.Add(l)
	l.SetSelected(true)
	drag(t, m, ModShift, pt(40, 40), pt(60, 12))
	if l.End() != pt(60, 0) {
		t.Fatalf("shift should snap the free end, got %v", l.End())
	}
}

func TestPointerClickSelectsWithoutHistory(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	a := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	b := shape.NewRectangle(vector.R(50, 50, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(a)
	ctx.Canvas.Add(b)
	b.SetSelected(true)
	drag(t, m, 0, pt(10, 10))
	if !a.Selected() || b.Selected() {
		t.Fatalf("plain click should select only the hit shape")
	}
	drag(t, m, ModCtrl, pt(60, 60))
	if !a.Selected() || !b.Selected() {
		t.Fatalf("ctrl click should add to the selection")
	}
	drag(t, m, ModCtrl, pt(10, 10))
	if a.Selected() || !b.Selected() {
		t.Fatalf("ctrl click should toggle")
	}
	if ctx.History.CanUndo() {
		t.Fatalf("selection changes are not recorded")
	}
	drag(t, m, 0, pt(300, 300))
	if ctx.Canvas.HasSelection() {
		t.Fatalf("click on empty canvas clears the selection")
	}
}

func TestPointerRubberBand(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	e := shape.NewEllipse(vector.R(100, 100, 100, 100), shape.DefaultStyle())
	r := shape.NewRectangle(vector.R(300, 300, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(e)
	ctx.Canvas.Add(r)
	// only the empty corner of the ellipse's box
	drag(t, m, 0, pt(95, 95), pt(105, 105))
	if ctx.Canvas.HasSelection() {
		t.Fatalf("band over the bounding box corner must not select the ellipse")
	}
	drag(t, m, 0, pt(250, 250), pt(310, 310))
	if !r.Selected() || e.Selected() {
		t.Fatalf("band should select the rectangle only")
	}
	if ctx.Canvas.CurrentSelection() != nil {
		t.Fatalf("pointer band is discarded on release")
	}
}

func TestPointerLostFocusReverts(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	r := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(r)
	_ = m.PointerDown(PointerEvent{Pos: pt(10, 10), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(60, 60), Button: ButtonLeft})
	if err := m.LostFocus(); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(0, 0, 20, 20) {
		t.Fatalf("lost focus should revert the move, got %+v", got)
	}
	if ctx.Capture.Held() || ctx.History.IsOpen() || ctx.History.CanUndo() {
		t.Fatalf("gesture state leaked")
	}
}

func TestPointerCursor(t *testing.T) {
	m, ctx := newMachine(KindPointer)
	r := shape.NewRectangle(vector.R(0, 0, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(r)
	if c := m.Cursor(pt(10, 10)); c != shape.CursorSizeAll {
		t.Fatalf("over body = %v", c)
	}
	if c := m.Cursor(pt(200, 200)); c != shape.CursorDefault {
		t.Fatalf("over nothing = %v", c)
	}
}
