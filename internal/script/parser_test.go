/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goannotate/internal/config"
	"goannotate/internal/shape"
	"goannotate/internal/tool"
	"goannotate/internal/vector"
)

const session = `
canvas: {width: 400, height: 300}
style: {line_width: 3, color: "#ff0000"}
steps:
  - tool: rectangle
  - drag: [[10, 10], [60, 40], [110, 60]]
  - expect: {shapes: 1, undo: 1, dirty: true, kinds: [rectangle]}
  - tool: line
  - drag: [[0, 0], [50, 10]]
    mods: [shift]
  - key: "1"
  - expect: {tool: pointer}
  - drag: [[50, 30], [60, 40]]
  - expect: {undo: 3, selected: 1}
  - key: ctrl+z
  - key: ctrl+y
  - do: delete_all
  - expect: {shapes: 0}
  - do: undo
  - expect: {shapes: 2, kinds: [rectangle, line], redo: 1}
`

func run(t *testing.T, src string) (*Script, error) {
	t.Helper()
	s, errs := Parse([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %+v", errs)
	}
	e, err := s.NewEditor(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	return &s, Run(e, s)
}

func TestParseSteps(t *testing.T) {
	s, errs := Parse([]byte(session))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Canvas.Width != 400 || s.Canvas.Height != 300 {
		t.Fatalf("canvas %+v", s.Canvas)
	}
	if s.Style == nil || *s.Style.LineWidth != 3 || s.Style.Color != "#ff0000" {
		t.Fatalf("style %+v", s.Style)
	}
	if len(s.Steps) != 15 {
		t.Fatalf("expected 15 steps, got %d", len(s.Steps))
	}
	if s.Steps[0].Tool != "rectangle" || s.Steps[0].Line != 5 {
		t.Fatalf("first step %+v", s.Steps[0])
	}
	if len(s.Steps[1].Drag) != 3 || s.Steps[1].Drag[2][0] != 110 {
		t.Fatalf("drag %+v", s.Steps[1].Drag)
	}
	if len(s.Steps[4].Mods) != 1 || s.Steps[4].Mods[0] != "shift" {
		t.Fatalf("mods %+v", s.Steps[4])
	}
}

func TestReplaySession(t *testing.T) {
	if _, err := run(t, session); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestReplayAppliesStyleAndSnap(t *testing.T) {
	s, errs := Parse([]byte(session))
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	s.Steps = s.Steps[:5]
	e, err := s.NewEditor(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(e, s); err != nil {
		t.Fatal(err)
	}
	if e.Canvas().Size() != vector.R(0, 0, 400, 300) {
		t.Fatalf("canvas size %+v", e.Canvas().Size())
	}
	r := e.Canvas().At(0)
	if r.Bounds() != vector.R(10, 10, 100, 50) || r.Style().LineWidth != 3 || r.Style().Color != (vector.Color{R: 255, A: 255}) {
		t.Fatalf("rectangle %+v %+v", r.Bounds(), r.Style())
	}
	if l := e.Canvas().At(1).(*shape.Line); l.End() != vector.P(50, 0) {
		t.Fatalf("shift should snap the line, got %+v", l.End())
	}
}

func TestFailedExpectationReportsLine(t *testing.T) {
	_, err := run(t, `
steps:
  - tool: ellipse
  - expect: {shapes: 1}
`)
	if err == nil {
		t.Fatalf("expected failure")
	}
	se, ok := err.(*Error)
	if !ok || se.Line != 4 || !strings.Contains(se.Message, "shapes: want 1, got 0") {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestTypingText(t *testing.T) {
	src := `
steps:
  - tool: text
  - drag: [[10, 10], [80, 30]]
  - type: "ab1"
  - key: backspace
  - key: enter
  - expect: {shapes: 1, undo: 1, tool: text}
`
	s, errs := Parse([]byte(src))
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	e, err := s.NewEditor(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(e, s); err != nil {
		t.Fatal(err)
	}
	if txt := e.Canvas().At(0).(*shape.Text); txt.Text() != "ab" {
		t.Fatalf("text %q", txt.Text())
	}
}

func TestParseErrors(t *testing.T) {
	src := `
steps:
  - {}
  - tool: line
    key: escape
  - down: [1]
  - drag: [[1, 2]]
  - key: hyper+q
  - do: explode
  - move: [1, 2]
    mods: [meta]
`
	_, errs := Parse([]byte(src))
	if len(errs) != 7 {
		t.Fatalf("expected 7 errors, got %d: %+v", len(errs), errs)
	}
	if errs[0].Line != 3 || !strings.Contains(errs[0].Message, "no action") {
		t.Fatalf("first error %+v", errs[0])
	}
	if !strings.Contains(errs[1].Message, "more than one action") {
		t.Fatalf("second error %+v", errs[1])
	}
	if _, errs := Parse([]byte("steps: nope")); len(errs) != 1 {
		t.Fatalf("type mismatch should be reported")
	}
}

func TestParseChord(t *testing.T) {
	ev, err := parseChord("Ctrl+Shift+Z")
	if err != nil || ev.Key != tool.KeyRune || ev.Rune != 'Z' || ev.Mods != tool.ModCtrl|tool.ModShift {
		t.Fatalf("chord %+v %v", ev, err)
	}
	ev, err = parseChord("shift")
	if err != nil || ev.Key != tool.KeyShift || !ev.Mods.Has(tool.ModShift) {
		t.Fatalf("modifier key %+v %v", ev, err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(session), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := ParseFile(path)
	if err != nil || len(s.Steps) != 15 {
		t.Fatalf("ParseFile: %v", err)
	}
	if err := os.WriteFile(path, []byte("steps:\n  - do: nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected positioned error, got %v", err)
	}
}
