/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package script

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"goannotate/internal/config"
	"goannotate/internal/editor"
	applog "goannotate/internal/log"
	"goannotate/internal/shape"
	"goannotate/internal/tool"
	"goannotate/internal/vector"
)

var modNames = map[string]tool.Modifiers{
	"shift":   tool.ModShift,
	"ctrl":    tool.ModCtrl,
	"control": tool.ModCtrl,
	"alt":     tool.ModAlt,
}

var keyNames = map[string]tool.Key{
	"escape":    tool.KeyEscape,
	"esc":       tool.KeyEscape,
	"enter":     tool.KeyEnter,
	"return":    tool.KeyEnter,
	"backspace": tool.KeyBackspace,
	"delete":    tool.KeyDelete,
	"del":       tool.KeyDelete,
	"shift":     tool.KeyShift,
	"ctrl":      tool.KeyControl,
	"control":   tool.KeyControl,
	"alt":       tool.KeyAlt,
}

// modifier keys and the mask bit they set while held
var keyMods = map[tool.Key]tool.Modifiers{
	tool.KeyShift:   tool.ModShift,
	tool.KeyControl: tool.ModCtrl,
	tool.KeyAlt:     tool.ModAlt,
}

func parseMods(names []string) (tool.Modifiers, error) {
	var m tool.Modifiers
	for _, n := range names {
		v, ok := modNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
		m |= v
	}
	return m, nil
}

// parseChord turns "ctrl+z", "shift" or "escape" into a key event.
func parseChord(chord string) (tool.KeyEvent, error) {
	parts := strings.Split(chord, "+")
	last := strings.TrimSpace(parts[len(parts)-1])
	mods, err := parseMods(parts[:len(parts)-1])
	if err != nil {
		return tool.KeyEvent{}, err
	}
	ev := tool.KeyEvent{Mods: mods}
	if k, ok := keyNames[strings.ToLower(last)]; ok {
		ev.Key = k
		ev.Mods |= keyMods[k]
		return ev, nil
	}
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		ev.Key, ev.Rune = tool.KeyRune, r
		return ev, nil
	}
	return tool.KeyEvent{}, fmt.Errorf("unknown key %q", chord)
}

var commands = map[string]func(e *editor.Editor) error{
	"undo":            func(e *editor.Editor) error { _, err := e.Undo(); return err },
	"redo":            func(e *editor.Editor) error { _, err := e.Redo(); return err },
	"select_all":      func(e *editor.Editor) error { e.SelectAll(); return nil },
	"unselect_all":    func(e *editor.Editor) error { e.UnselectAll(); return nil },
	"clear_selection": func(e *editor.Editor) error { e.ClearSelection(); return nil },
	"delete":          func(e *editor.Editor) error { _, err := e.DeleteSelected(); return err },
	"delete_all":      func(e *editor.Editor) error { return e.DeleteAll() },
	"clear":           func(e *editor.Editor) error { e.Clear(); return nil },
	"front":           func(e *editor.Editor) error { _, err := e.MoveToFront(); return err },
	"back":            func(e *editor.Editor) error { _, err := e.MoveToBack(); return err },
	"lost_focus":      func(e *editor.Editor) error { return e.LostFocus() },
}

// NewEditor builds the editor a script runs against: cfg with the script's
// canvas size and style applied.
func (s Script) NewEditor(cfg config.AppConfig) (*editor.Editor, error) {
	if s.Canvas.Width > 0 {
		cfg.Canvas.Width = s.Canvas.Width
	}
	if s.Canvas.Height > 0 {
		cfg.Canvas.Height = s.Canvas.Height
	}
	if st := s.Style; st != nil {
		if st.LineWidth != nil {
			cfg.Tools.LineWidth = *st.LineWidth
		}
		if st.LineStyle != "" {
			cfg.Tools.LineStyle = st.LineStyle
		}
		if st.Color != "" {
			cfg.Tools.Color = st.Color
		}
		if st.FontFamily != "" {
			cfg.Tools.FontFamily = st.FontFamily
		}
		if st.FontSize > 0 {
			cfg.Tools.FontSize = st.FontSize
		}
	}
	return editor.NewFromConfig(cfg)
}

// Run replays every step against e and stops at the first failure.
func Run(e *editor.Editor, s Script) error {
	l := applog.WithOperation(applog.WithComponent("script"), "replay")
	for i, st := range s.Steps {
		if err := runStep(e, st); err != nil {
			return &Error{Line: st.Line, Message: fmt.Sprintf("step %d: %v", i+1, err)}
		}
	}
	l.Debug("script replayed", slog.Int("steps", len(s.Steps)), slog.Int("shapes", e.Canvas().Len()))
	return nil
}

func runStep(e *editor.Editor, st Step) error {
	mods, err := parseMods(st.Mods)
	if err != nil {
		return err
	}
	pointer := func(p []float64) tool.PointerEvent {
		return tool.PointerEvent{Pos: vector.P(p[0], p[1]), Button: tool.ButtonLeft, Mods: mods}
	}
	switch {
	case st.Tool != "":
		k, err := tool.ParseKind(st.Tool)
		if err != nil {
			return err
		}
		return e.SetTool(k)
	case st.Down != nil:
		return e.PointerDown(pointer(st.Down))
	case st.Move != nil:
		return e.PointerMove(pointer(st.Move))
	case st.Up != nil:
		return e.PointerUp(pointer(st.Up))
	case st.Drag != nil:
		if err := e.PointerDown(pointer(st.Drag[0])); err != nil {
			return err
		}
		for _, p := range st.Drag[1:] {
			if err := e.PointerMove(pointer(p)); err != nil {
				return err
			}
		}
		return e.PointerUp(pointer(st.Drag[len(st.Drag)-1]))
	case st.Key != "":
		ev, err := parseChord(st.Key)
		if err != nil {
			return err
		}
		if _, err := e.KeyDown(ev); err != nil {
			return err
		}
		// the release reports the modifiers still held afterwards
		ev.Mods &^= keyMods[ev.Key]
		return e.KeyUp(ev)
	case st.Type != "":
		for _, r := range st.Type {
			ev := tool.KeyEvent{Key: tool.KeyRune, Rune: r}
			if r == '\n' {
				ev = tool.KeyEvent{Key: tool.KeyEnter}
			}
			if _, err := e.KeyDown(ev); err != nil {
				return err
			}
		}
		return nil
	case st.Do != "":
		cmd, ok := commands[st.Do]
		if !ok {
			return fmt.Errorf("unknown command %q", st.Do)
		}
		return cmd(e)
	case st.LineWidth != nil:
		return e.SetLineWidth(*st.LineWidth)
	case st.LineStyle != "":
		ls, err := vector.ParseLineStyle(st.LineStyle)
		if err != nil {
			return err
		}
		return e.SetLineStyle(ls)
	case st.Color != "":
		c, err := vector.ParseColor(st.Color)
		if err != nil {
			return err
		}
		return e.SetColor(c)
	case st.Expect != nil:
		return check(e, *st.Expect)
	}
	return fmt.Errorf("no action")
}

func check(e *editor.Editor, x Expect) error {
	var fails []string
	fail := func(what string, want, got any) {
		fails = append(fails, fmt.Sprintf("%s: want %v, got %v", what, want, got))
	}
	undoDepth, redoDepth, _ := e.History().Stats()
	if x.Shapes != nil && *x.Shapes != e.Canvas().Len() {
		fail("shapes", *x.Shapes, e.Canvas().Len())
	}
	if x.Selected != nil && *x.Selected != len(e.Selected()) {
		fail("selected", *x.Selected, len(e.Selected()))
	}
	if x.Undo != nil && *x.Undo != undoDepth {
		fail("undo", *x.Undo, undoDepth)
	}
	if x.Redo != nil && *x.Redo != redoDepth {
		fail("redo", *x.Redo, redoDepth)
	}
	if x.Dirty != nil && *x.Dirty != e.IsDirty() {
		fail("dirty", *x.Dirty, e.IsDirty())
	}
	if x.Overlay != nil && *x.Overlay != (e.CurrentSelection() != nil) {
		fail("overlay", *x.Overlay, e.CurrentSelection() != nil)
	}
	if x.Tool != "" {
		if k, err := tool.ParseKind(x.Tool); err != nil || k != e.Tool() {
			fail("tool", x.Tool, e.Tool())
		}
	}
	if x.Kinds != nil {
		got := kinds(e.Canvas().Shapes())
		if strings.Join(got, ",") != strings.ToLower(strings.Join(x.Kinds, ",")) {
			fail("kinds", x.Kinds, got)
		}
	}
	if len(fails) > 0 {
		return fmt.Errorf("expectation failed: %s", strings.Join(fails, "; "))
	}
	return nil
}

func kinds(shapes []shape.Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.Kind().String()
	}
	return out
}
