/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package tool

import (
	"strings"

	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

type textState uint8

const (
	textIdle textState = iota
	textDragging
	textEditing
)

// textTool drags a text box and then collects typed characters into it. The
// box, the typing and the final size form a single undo entry.
type textTool struct {
	state textState
	t     *shape.Text
}

func (t *textTool) Kind() Kind   { return KindText }
func (t *textTool) Active() bool { return t.state != textIdle }

func (t *textTool) PointerDown(ctx *Context, e PointerEvent) error {
	if e.Button != ButtonLeft {
		return nil
	}
	switch t.state {
	case textEditing:
		// a click elsewhere only ends the edit
		return t.commit(ctx)
	case textDragging:
		if err := t.commit(ctx); err != nil {
			return err
		}
	}
	txt := shape.NewText(vector.R(e.Pos.X, e.Pos.Y, 1, 1), "", ctx.Font, ctx.Style)
	if err := ctx.begin(txt); err != nil {
		return err
	}
	t.t, t.state = txt, textDragging
	return nil
}

func (t *textTool) PointerMove(ctx *Context, e PointerEvent) error {
	if t.state != textDragging || e.Button != ButtonLeft || !ctx.Capture.Held() {
		return nil
	}
	return t.t.MoveHandleTo(e.Pos, shape.HandleBottomRight)
}

func (t *textTool) PointerUp(ctx *Context, e PointerEvent) error {
	if t.state != textDragging {
		return nil
	}
	t.t.Normalize()
	t.fit(ctx)
	t.state = textEditing
	return nil
}

func (t *textTool) fit(ctx *Context) {
	text := t.t.Text()
	if text == "" {
		text = " "
	}
	w, h := ctx.measure(text, t.t.Font())
	t.t.GrowTo(w, h)
}

// KeyDown consumes every key while editing, except Ctrl combinations.
func (t *textTool) KeyDown(ctx *Context, e KeyEvent) (bool, error) {
	if t.state != textEditing || e.Mods.Has(ModCtrl) {
		return false, nil
	}
	switch e.Key {
	case KeyEnter, KeyEscape:
		return true, t.commit(ctx)
	case KeyBackspace:
		s := []rune(t.t.Text())
		if len(s) > 0 {
			t.t.SetText(string(s[:len(s)-1]))
		}
	case KeyRune:
		if e.Rune != 0 {
			t.t.SetText(t.t.Text() + string(e.Rune))
			t.fit(ctx)
		}
	}
	return true, nil
}

func (t *textTool) KeyUp(*Context, KeyEvent) error { return nil }

// commit ends the session. Empty text removes the box, which leaves nothing to record.
func (t *textTool) commit(ctx *Context) error {
	txt := t.t
	t.t, t.state = nil, textIdle
	if txt != nil && strings.TrimSpace(txt.Text()) == "" {
		_, _ = ctx.Canvas.Remove(txt)
	}
	return ctx.end()
}

// Cancel drops a box still being dragged. Text already typed is kept.
func (t *textTool) Cancel(ctx *Context) error {
	if t.state == textEditing {
		return t.commit(ctx)
	}
	t.t, t.state = nil, textIdle
	return ctx.cancel()
}

func (t *textTool) Cursor(*Context, vector.Pt) shape.Cursor { return shape.CursorIBeam }
