/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package editor

import (
	"log/slog"
	"unicode"

	"goannotate/internal/shape"
	"goannotate/internal/tool"
	"goannotate/internal/vector"
)

// digitTools maps the number-row shortcuts to tools.
var digitTools = map[rune]tool.Kind{
	'1': tool.KindPointer,
	'2': tool.KindMarquee,
	'3': tool.KindRectangle,
	'4': tool.KindEllipse,
	'5': tool.KindLine,
	'6': tool.KindPolyline,
	'7': tool.KindText,
}

func (e *Editor) PointerDown(ev tool.PointerEvent) error { return e.tools.PointerDown(ev) }
func (e *Editor) PointerMove(ev tool.PointerEvent) error { return e.tools.PointerMove(ev) }
func (e *Editor) PointerUp(ev tool.PointerEvent) error   { return e.tools.PointerUp(ev) }
func (e *Editor) KeyUp(ev tool.KeyEvent) error           { return e.tools.KeyUp(ev) }
func (e *Editor) Cursor(p vector.Pt) shape.Cursor        { return e.tools.Cursor(p) }

// LostFocus cancels a running gesture and releases pointer capture.
func (e *Editor) LostFocus() error { return e.tools.LostFocus() }

// KeyDown offers the key to the active tool first, then to the editor
// shortcuts. It reports whether the key was handled.
func (e *Editor) KeyDown(ev tool.KeyEvent) (bool, error) {
	if used, err := e.tools.KeyDown(ev); used || err != nil {
		return used, err
	}
	ctrl := ev.Mods.Has(tool.ModCtrl)
	switch ev.Key {
	case tool.KeyEscape:
		return true, e.escape()
	case tool.KeyDelete:
		_, err := e.DeleteSelected()
		return true, err
	case tool.KeyRune:
		r := unicode.ToLower(ev.Rune)
		switch {
		case ctrl && r == 'z':
			_, err := e.Undo()
			return true, err
		case ctrl && r == 'y':
			_, err := e.Redo()
			return true, err
		case ctrl && r == 'a':
			e.selectCanvas()
			return true, nil
		case !ctrl && !ev.Mods.Has(tool.ModAlt):
			if k, ok := digitTools[r]; ok {
				return true, e.SetTool(k)
			}
		}
	}
	return false, nil
}

// escape cancels a running gesture, else drops the overlay, else unselects.
func (e *Editor) escape() error {
	switch {
	case e.tools.Active():
		return e.tools.Cancel()
	case e.canvas.CurrentSelection() != nil:
		e.canvas.ClearSelection()
	default:
		e.canvas.UnselectAll()
	}
	return nil
}

// selectCanvas covers the whole canvas with the overlay and selects everything.
func (e *Editor) selectCanvas() {
	if e.busy() {
		return
	}
	if sz := e.canvas.Size(); !sz.Empty() {
		e.canvas.SetCurrentSelection(shape.NewSelectionRect(sz, e.tools.Context().Style.Scale))
	}
	e.canvas.SelectAll()
	e.log.Debug("select all", slog.Int("shapes", e.canvas.Len()))
}
