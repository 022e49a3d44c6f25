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

	"goannotate/internal/canvas"
	"goannotate/internal/shape"
	"goannotate/internal/undo"
	"goannotate/internal/vector"
)

func newMachine(k Kind) (*Machine, *Context) {
	c := canvas.New(500, 500)
	ctx := NewContext(c, undo.NewManager(c, undo.DefaultConfig()))
	return NewMachine(ctx, k), ctx
}

func pt(x, y float64) vector.Pt { return vector.Pt{X: x, Y: y} }

// drag presses at pts[0], moves through the rest and releases at the last point.
func drag(t *testing.T, m *Machine, mods Modifiers, pts ...vector.Pt) {
	t.Helper()
	if err := m.PointerDown(PointerEvent{Pos: pts[0], Button: ButtonLeft, Mods: mods}); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	for _, p := range pts[1:] {
		if err := m.PointerMove(PointerEvent{Pos: p, Button: ButtonLeft, Mods: mods}); err != nil {
			t.Fatalf("pointer move: %v", err)
		}
	}
	if err := m.PointerUp(PointerEvent{Pos: pts[len(pts)-1], Button: ButtonLeft, Mods: mods}); err != nil {
		t.Fatalf("pointer up: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for k := KindNone; k <= KindMarquee; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if k, err := ParseKind("RectangularMarquee"); err != nil || k != KindMarquee {
		t.Fatalf("marquee alias: %v %v", k, err)
	}
	if _, err := ParseKind("brush"); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}

func TestRectangleCreationDrag(t *testing.T) {
	m, ctx := newMachine(KindRectangle)
	var changes []bool
	ctx.Capture.OnChange = func(held bool) { changes = append(changes, held) }
	drag(t, m, 0, pt(50, 50), pt(30, 30), pt(10, 20))
	if ctx.Canvas.Len() != 1 {
		t.Fatalf("expected one shape, got %d", ctx.Canvas.Len())
	}
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(10, 20, 40, 30) {
		t.Fatalf("reverse drag should normalize, got %+v", got)
	}
	if ctx.Capture.Held() || len(changes) != 2 || !changes[0] || changes[1] {
		t.Fatalf("capture not acquired and released once: %v", changes)
	}
	if m.Active() {
		t.Fatalf("gesture should be over")
	}
	if u, _, _ := ctx.History.Stats(); u != 1 {
		t.Fatalf("expected one undo entry, got %d", u)
	}
	if ok, err := ctx.History.Undo(); !ok || err != nil || ctx.Canvas.Len() != 0 {
		t.Fatalf("undo creation: %v %v len=%d", ok, err, ctx.Canvas.Len())
	}
}

func TestEllipseSquareWithShift(t *testing.T) {
	m, ctx := newMachine(KindEllipse)
	drag(t, m, ModShift, pt(0, 0), pt(40, 10))
	s := ctx.Canvas.At(0)
	if s.Kind() != shape.KindEllipse {
		t.Fatalf("expected ellipse, got %v", s.Kind())
	}
	if got := s.Bounds(); got != vector.R(0, 0, 40, 40) {
		t.Fatalf("expected square, got %+v", got)
	}
}

func TestRectangleShiftKeyDuringDrag(t *testing.T) {
	m, ctx := newMachine(KindRectangle)
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(30, 10), Button: ButtonLeft})
	if _, err := m.KeyDown(KeyEvent{Key: KeyShift, Mods: ModShift}); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(0, 0, 30, 30) {
		t.Fatalf("shift press should square, got %+v", got)
	}
	if err := m.KeyUp(KeyEvent{Key: KeyShift}); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Canvas.At(0).Bounds(); got != vector.R(0, 0, 30, 10) {
		t.Fatalf("shift release should restore, got %+v", got)
	}
	_ = m.PointerUp(PointerEvent{Pos: pt(30, 10), Button: ButtonLeft})
}

func TestLineAxisSnap(t *testing.T) {
	cases := []struct {
		to, want vector.Pt
	}{
		{pt(50, 10), pt(50, 0)},
		{pt(10, 50), pt(0, 50)},
	}
	for _, tc := range cases {
		m, ctx := newMachine(KindLine)
		drag(t, m, ModShift, pt(0, 0), tc.to)
		l := ctx.Canvas.At(0).(*shape.Line)
		if l.Start() != pt(0, 0) || l.End() != tc.want {
			t.Fatalf("drag to %v: got %v-%v, want end %v", tc.to, l.Start(), l.End(), tc.want)
		}
	}
}

func TestLineSnapReleasedWithModifier(t *testing.T) {
	m, ctx := newMachine(KindLine)
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(50, 10), Button: ButtonLeft, Mods: ModShift})
	l := ctx.Canvas.At(0).(*shape.Line)
	if l.End() != pt(50, 0) {
		t.Fatalf("expected snapped end, got %v", l.End())
	}
	_ = m.KeyUp(KeyEvent{Key: KeyShift})
	if l.End() != pt(50, 10) {
		t.Fatalf("releasing shift should free the end, got %v", l.End())
	}
	_, _ = m.KeyDown(KeyEvent{Key: KeyShift, Mods: ModShift})
	if l.End() != pt(50, 0) {
		t.Fatalf("pressing shift should snap again, got %v", l.End())
	}
	_ = m.PointerUp(PointerEvent{Pos: pt(50, 10), Button: ButtonLeft})
}

func TestLineIgnoresMoveWithoutButton(t *testing.T) {
	m, ctx := newMachine(KindLine)
	_ = m.PointerMove(PointerEvent{Pos: pt(10, 10)})
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(80, 80)})
	l := ctx.Canvas.At(0).(*shape.Line)
	if l.End() != pt(1, 1) {
		t.Fatalf("move without the button must not resize, got %v", l.End())
	}
	_ = m.PointerUp(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
}

func TestPolylineVertexSpacing(t *testing.T) {
	m, ctx := newMachine(KindPolyline)
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	pl := ctx.Canvas.At(0).(*shape.Polyline)
	_ = m.PointerMove(PointerEvent{Pos: pt(5, 0), Button: ButtonLeft})
	if got := pl.Points(); len(got) != 2 || got[1] != pt(5, 0) {
		t.Fatalf("close move should drag the last vertex: %v", got)
	}
	_ = m.PointerMove(PointerEvent{Pos: pt(20, 0), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(25, 0), Button: ButtonLeft})
	got := pl.Points()
	if len(got) != 3 || got[2] != pt(25, 0) {
		t.Fatalf("expected a third vertex following the pointer: %v", got)
	}
	_ = m.PointerUp(PointerEvent{Pos: pt(25, 0), Button: ButtonLeft})
	if u, _, _ := ctx.History.Stats(); u != 1 {
		t.Fatalf("expected one undo entry, got %d", u)
	}
}

func TestCancelRevertsCreation(t *testing.T) {
	m, ctx := newMachine(KindRectangle)
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	_ = m.PointerMove(PointerEvent{Pos: pt(30, 30), Button: ButtonLeft})
	if err := m.Cancel(); err != nil {
		t.Fatal(err)
	}
	if ctx.Canvas.Len() != 0 || ctx.History.CanUndo() || ctx.Capture.Held() || m.Active() {
		t.Fatalf("cancel left state behind: len=%d undo=%v held=%v", ctx.Canvas.Len(), ctx.History.CanUndo(), ctx.Capture.Held())
	}
}

func TestSetKindCancelsGesture(t *testing.T) {
	m, ctx := newMachine(KindLine)
	_ = m.PointerDown(PointerEvent{Pos: pt(0, 0), Button: ButtonLeft})
	if err := m.SetKind(KindEllipse); err != nil {
		t.Fatal(err)
	}
	if m.Kind() != KindEllipse || ctx.Canvas.Len() != 0 || ctx.History.IsOpen() {
		t.Fatalf("switching tools must abandon the line")
	}
}

func TestMarqueeDegenerateDrag(t *testing.T) {
	m, ctx := newMachine(KindMarquee)
	r := shape.NewRectangle(vector.R(100, 100, 50, 50), shape.DefaultStyle())
	ctx.Canvas.Add(r)
	r.SetSelected(true)
	drag(t, m, 0, pt(100, 100), pt(160, 102))
	if ctx.Canvas.Len() != 1 || !r.Selected() {
		t.Fatalf("a thin marquee must not change content or selection")
	}
	if ctx.Canvas.CurrentSelection() != nil {
		t.Fatalf("degenerate overlay should be discarded")
	}
	if ctx.History.CanUndo() {
		t.Fatalf("marquee must not record history")
	}
}

func TestMarqueeSelects(t *testing.T) {
	m, ctx := newMachine(KindMarquee)
	a := shape.NewRectangle(vector.R(10, 10, 20, 20), shape.DefaultStyle())
	b := shape.NewRectangle(vector.R(200, 200, 20, 20), shape.DefaultStyle())
	ctx.Canvas.Add(a)
	ctx.Canvas.Add(b)
	b.SetSelected(true)
	drag(t, m, 0, pt(0, 0), pt(50, 50))
	if !a.Selected() || b.Selected() {
		t.Fatalf("expected only a selected")
	}
	ov := ctx.Canvas.CurrentSelection()
	if ov == nil || ov.Bounds() != vector.R(0, 0, 50, 50) {
		t.Fatalf("overlay should stay as the active selection: %v", ov)
	}
	if ctx.Canvas.Len() != 2 {
		t.Fatalf("overlay must not join the shape list")
	}
}

func TestMarqueeClippedToCanvas(t *testing.T) {
	m, ctx := newMachine(KindMarquee)
	drag(t, m, 0, pt(400, 400), pt(900, 700))
	ov := ctx.Canvas.CurrentSelection()
	if ov == nil || ov.Bounds() != vector.R(400, 400, 100, 100) {
		t.Fatalf("overlay should be clipped: %v", ov)
	}
}

func TestTextSession(t *testing.T) {
	m, ctx := newMachine(KindText)
	drag(t, m, 0, pt(0, 0), pt(100, 20))
	if !m.Active() {
		t.Fatalf("text tool should be editing after the drag")
	}
	for _, r := range "hix" {
		if ok, err := m.KeyDown(KeyEvent{Key: KeyRune, Rune: r}); !ok || err != nil {
			t.Fatalf("typing not consumed: %v %v", ok, err)
		}
	}
	_, _ = m.KeyDown(KeyEvent{Key: KeyBackspace})
	if ok, _ := m.KeyDown(KeyEvent{Key: KeyEnter}); !ok {
		t.Fatalf("enter should be consumed")
	}
	if m.Active() || ctx.Canvas.Len() != 1 {
		t.Fatalf("commit should leave one text shape")
	}
	txt := ctx.Canvas.At(0).(*shape.Text)
	if txt.Text() != "hi" {
		t.Fatalf("text = %q", txt.Text())
	}
	if u, _, _ := ctx.History.Stats(); u != 1 {
		t.Fatalf("session should be one undo entry, got %d", u)
	}
	_, _ = ctx.History.Undo()
	if ctx.Canvas.Len() != 0 {
		t.Fatalf("undo should remove the text")
	}
}

func TestTextEmptyCommitRemoves(t *testing.T) {
	m, ctx := newMachine(KindText)
	drag(t, m, 0, pt(0, 0), pt(100, 20))
	// a click elsewhere ends the edit
	_ = m.PointerDown(PointerEvent{Pos: pt(300, 300), Button: ButtonLeft})
	_ = m.PointerUp(PointerEvent{Pos: pt(300, 300), Button: ButtonLeft})
	if ctx.Canvas.Len() != 0 || ctx.History.CanUndo() || ctx.History.IsOpen() {
		t.Fatalf("empty text must vanish without history")
	}
}

func TestTextGrowsToFit(t *testing.T) {
	m, ctx := newMachine(KindText)
	drag(t, m, 0, pt(0, 0), pt(5, 5))
	for _, r := range "wide text" {
		_, _ = m.KeyDown(KeyEvent{Key: KeyRune, Rune: r})
	}
	b := ctx.Canvas.At(0).Bounds()
	w, h := ctx.Measurer.Measure("wide text", ctx.Font)
	if b.W < w || b.H < h {
		t.Fatalf("box %+v smaller than text %vx%v", b, w, h)
	}
	_ = m.LostFocus()
	if ctx.Canvas.Len() != 1 || !ctx.History.CanUndo() {
		t.Fatalf("losing focus keeps typed text")
	}
}
