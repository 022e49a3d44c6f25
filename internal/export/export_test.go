/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goannotate/internal/canvas"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

func sample() *canvas.Canvas {
	c := canvas.New(200, 100)
	st := shape.DefaultStyle()
	st.LineWidth = 4
	c.Add(shape.NewRectangle(vector.R(10, 10, 50, 30), st))
	c.Add(shape.NewEllipse(vector.R(80, 20, 60, 40), st))
	c.Add(shape.NewLine(vector.P(0, 90), vector.P(200, 90), st))
	c.Add(shape.NewPolyline([]vector.Pt{vector.P(150, 10), vector.P(170, 30), vector.P(190, 10)}, st))
	c.Add(shape.NewText(vector.R(10, 60, 80, 20), "note & <b>", shape.DefaultFont(), st))
	return c
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.svg": FormatSVG, "B.PDF": FormatPDF, "x/y.png": FormatPNG, "d.json": FormatJSON} {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q err %v", path, got, err)
		}
	}
	if _, err := FormatFor("a.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), FormatSVG, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`width="200" height="100"`, "<ellipse", "<polyline", "<line", "note &amp; &lt;b&gt;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
}

func TestSVGDashedPen(t *testing.T) {
	c := canvas.New(100, 100)
	st := shape.DefaultStyle()
	st.LineStyle = vector.Dashed
	c.Add(shape.NewRectangle(vector.R(10, 10, 20, 20), st))
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatSVG, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "stroke-dasharray") {
		t.Fatalf("dashed style should produce a dash array:\n%s", buf.String())
	}
}

func TestSelectedShapesExportWithoutHandles(t *testing.T) {
	c := canvas.New(100, 100)
	r := shape.NewRectangle(vector.R(10, 10, 20, 20), shape.DefaultStyle())
	r.SetSelected(true)
	c.Add(r)
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatJSON, Options{}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), `"op"`); n != 1 {
		t.Fatalf("expected only the rectangle outline, got %d commands: %s", n, buf.String())
	}
	if !r.Selected() {
		t.Fatalf("export must not change the selection")
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), FormatPDF, Options{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("not a pdf")
	}
}

func TestPNGSizeAndStroke(t *testing.T) {
	c := canvas.New(100, 50)
	st := shape.DefaultStyle()
	st.LineWidth = 6
	c.Add(shape.NewRectangle(vector.R(10, 10, 60, 30), st))
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatPNG, Options{Scale: 2, Background: vector.Color{R: 255, G: 255, B: 255, A: 255}}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("unexpected size %v", b)
	}
	// left edge of the rectangle at x=10 lands on pixel 20
	if r, _, _, _ := img.At(20, 50).RGBA(); r > 0x4000 {
		t.Fatalf("expected a dark stroke pixel, got red=%x", r)
	}
	if r, _, _, _ := img.At(80, 50).RGBA(); r < 0xc000 {
		t.Fatalf("interior should stay white, got red=%x", r)
	}
}

func TestCropToOverlay(t *testing.T) {
	c := sample()
	c.SetCurrentSelection(shape.NewSelectionRect(vector.R(80, 20, 60, 40), 1))
	if got := Area(c); got != vector.R(80, 20, 60, 40) {
		t.Fatalf("area %+v", got)
	}
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatSVG, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<ellipse cx="30" cy="20" rx="30" ry="20"`) {
		t.Fatalf("ellipse should be relative to the overlay:\n%s", buf.String())
	}
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "doc.json")
	if err := ExportFile(sample(), path, Options{}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "[") {
		t.Fatalf("expected a command list, got %s", b)
	}
}
