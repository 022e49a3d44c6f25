/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package render

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"goannotate/internal/canvas"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

func TestRecorderCapturesCanvas(t *testing.T) {
	c := canvas.New(100, 100)
	r := shape.NewRectangle(vector.R(10, 10, 20, 20), shape.DefaultStyle())
	c.Add(r)
	c.Add(shape.NewText(vector.R(0, 0, 50, 20), "note", shape.DefaultFont(), shape.DefaultStyle()))
	c.SetCurrentSelection(shape.NewSelectionRect(vector.R(0, 0, 40, 40), 1))
	rec := &Recorder{Phase: 7}
	if err := c.Draw(rec); err != nil {
		t.Fatal(err)
	}
	cmds := rec.Commands()
	if len(cmds) != 4 {
		t.Fatalf("expected rect, text and two overlay strokes, got %d", len(cmds))
	}
	if cmds[0].Op != OpRect || cmds[0].Rect != vector.R(10, 10, 20, 20) {
		t.Fatalf("unexpected first command %+v", cmds[0])
	}
	if cmds[1].Op != OpText || cmds[1].Text != "note" || cmds[1].Font.Size != 14 {
		t.Fatalf("unexpected text command %+v", cmds[1])
	}
	last := cmds[3]
	if !last.Dashed || last.DashOffset != 7 {
		t.Fatalf("animated pen should carry the phase: %+v", last)
	}
	if cmds[2].DashOffset != 0 {
		t.Fatalf("solid pen must not carry a phase")
	}
}

func TestRecorderJSON(t *testing.T) {
	rec := &Recorder{}
	if b, _ := rec.JSON(); string(b) != "[]" {
		t.Fatalf("empty recorder = %s", b)
	}
	rec.DrawLine(vector.Pt{X: 1, Y: 2}, vector.Pt{X: 3, Y: 4}, shape.Pen{Color: vector.Black, Width: 2})
	b, err := rec.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var back []map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back[0]["op"] != "line" || back[0]["color"] != "#000000" {
		t.Fatalf("unexpected json %s", b)
	}
	if _, ok := back[0]["rect"]; ok {
		t.Fatalf("zero rect should be omitted: %s", b)
	}
	rec.Reset()
	if len(rec.Commands()) != 0 {
		t.Fatalf("reset should clear")
	}
}

func TestAntsOffset(t *testing.T) {
	a := Ants{Period: time.Second}
	if got := a.Offset(0); got != 0 {
		t.Fatalf("offset(0) = %v", got)
	}
	if got := a.Offset(500 * time.Millisecond); got != 10 {
		t.Fatalf("half period = %v", got)
	}
	if got := a.Offset(2*time.Second + 250*time.Millisecond); got != 5 {
		t.Fatalf("wraps around, got %v", got)
	}
	if got := (Ants{}).Offset(time.Second); got != 0 {
		t.Fatalf("zero value period, got %v", got)
	}
}

func TestDashes(t *testing.T) {
	if d, _ := Dashes(shape.Pen{Width: 3}, 4); d != nil {
		t.Fatalf("solid pen has no dashes")
	}
	d, off := Dashes(shape.Pen{Width: 2, Dashed: true}, 4)
	if len(d) != 2 || d[0] != 10 || off != 0 {
		t.Fatalf("dashed pen: %v %v", d, off)
	}
	if _, off := Dashes(shape.Pen{Width: 1, Dashed: true, Animated: true}, 4); off != 4 {
		t.Fatalf("animated offset = %v", off)
	}
}

func TestPhased(t *testing.T) {
	cases := []struct {
		off  float64
		want []float64
	}{
		{0, []float64{10, 10}},
		{4, []float64{6, 10, 4, 0}},
		{14, []float64{0, 6, 10, 4}},
		{20, []float64{10, 10}},
		{-6, []float64{0, 6, 10, 4}},
	}
	for _, tc := range cases {
		if got := Phased([]float64{10, 10}, tc.off); !slices.Equal(got, tc.want) {
			t.Fatalf("Phased(%v) = %v, want %v", tc.off, got, tc.want)
		}
	}
	if got := Phased([]float64{1, 2, 3}, 1); len(got) != 3 {
		t.Fatalf("odd patterns are returned as is: %v", got)
	}
}
