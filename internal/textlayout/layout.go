/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package textlayout

// Abstractions for text measurement and layout.
// All measurement goes through deterministic interfaces so that the
// interactive text tool, the exporters and the tests agree on text extents.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"goannotate/internal/shape"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	Size   float64
	Weight int // 100..900
	Italic bool
}

// SpecFor maps a shape font to a regular-weight spec.
func SpecFor(f shape.Font) FontSpec {
	return FontSpec{Family: f.Family, Size: f.Size, Weight: 400}
}

// Metrics provides font metrics in canvas units for the resolved face.
// Scale converts face advances to canvas units; it is 1 unless the face
// could not be rasterized at the requested size.
type Metrics struct {
	Ascent, Descent, LineGap float64
	Scale                    float64
}

func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

func metricsOf(face font.Face, scale float64) Metrics {
	m := face.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()) * scale,
		Descent: float64(m.Descent.Round()) * scale,
		LineGap: float64(m.Height.Round()-m.Ascent.Round()-m.Descent.Round()) * scale,
		Scale:   scale,
	}
}

// Span is a run of text with the same font/style.
type Span struct {
	Text string
	Font FontSpec
}

// Line is a single laid out line with width and ascent/descent.
type Line struct {
	Spans   []Span
	Width   float64
	Ascent  float64
	Descent float64
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float64) (TextBox, error)
}

// basicHeight is the pixel height of basicfont.Face7x13.
const basicHeight = 13.0

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests,
// scaled to the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	scale := 1.0
	if spec.Size > 0 {
		scale = spec.Size / basicHeight
	}
	return basicfont.Face7x13, metricsOf(basicfont.Face7x13, scale)
}

// WordWrapLayouter is a simple layouter that breaks on spaces; it does not
// perform shaping or hyphenation.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float64) (TextBox, error) {
	if l.Provider == nil {
		l.Provider = BasicProvider{}
	}
	// Line metrics come from the first span's font.
	var first FontSpec
	if len(spans) > 0 {
		first = spans[0].Font
	}
	_, met := l.Provider.Resolve(first)
	cur := Line{Ascent: met.Ascent, Descent: met.Descent}
	box := TextBox{Metrics: met}
	addLine := func() {
		box.Lines = append(box.Lines, cur)
		box.Width = max(box.Width, cur.Width)
		box.Height += met.LineHeight()
		cur = Line{Ascent: met.Ascent, Descent: met.Descent}
	}
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		face, fm := l.Provider.Resolve(sp.Font)
		drawer := &font.Drawer{Face: face}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i < len(sp.Text) && sp.Text[i] != ' ' && sp.Text[i] != '\n' {
				continue
			}
			word := sp.Text[start:i]
			space := byte(0)
			if i < len(sp.Text) {
				space = sp.Text[i]
			}
			w := advance(drawer, word) * fm.Scale
			// a word that does not fit starts a new line, even when it is too long on its own
			if cur.Width > 0 && cur.Width+w > maxWidth && maxWidth > 0 {
				addLine()
			}
			if word != "" {
				cur.Spans = append(cur.Spans, Span{Text: word, Font: sp.Font})
				cur.Width += w
			}
			switch space {
			case ' ':
				cur.Spans = append(cur.Spans, Span{Text: " ", Font: sp.Font})
				cur.Width += advance(drawer, " ") * fm.Scale
			case '\n':
				addLine()
			}
			start = i + 1
		}
	}
	// flush last line
	if len(cur.Spans) > 0 || len(box.Lines) == 0 {
		addLine()
	}
	return box, nil
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}

// Measure provides a quick way to measure text width/height without line-breaks.
func Measure(provider Provider, spans []Span) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	for _, sp := range spans {
		face, met := provider.Resolve(sp.Font)
		d := &font.Drawer{Face: face}
		w += advance(d, sp.Text) * met.Scale
		h = max(h, met.Ascent+met.Descent)
	}
	return w, h
}

// FaceMeasurer measures multi-line strings for the text tool. Each line is
// measured without wrapping; the height is one line height per line.
type FaceMeasurer struct{ Provider Provider }

func (m FaceMeasurer) Measure(text string, f shape.Font) (w, h float64) {
	p := m.Provider
	if p == nil {
		p = BasicProvider{}
	}
	face, met := p.Resolve(SpecFor(f))
	d := &font.Drawer{Face: face}
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		w = max(w, advance(d, l)*met.Scale)
	}
	return w, float64(len(lines)) * met.LineHeight()
}
