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
	"fmt"
	"strings"

	"goannotate/internal/render"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// SVGSurface writes shapes as SVG elements. Coordinates are canvas units
// relative to the top-left corner of the exported area.
type SVGSurface struct {
	area vector.Rect
	buf  bytes.Buffer
	werr error
	// Phase is the dash offset of animated pens.
	Phase float64
}

func NewSVG(area vector.Rect, background vector.Color) *SVGSurface {
	s := &SVGSurface{area: area}
	s.wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	s.wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", area.W, area.H, area.W, area.H)
	if background.A > 0 {
		s.wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"%s/>\n", area.W, area.H, svgColor(background), opacity("fill", background))
	}
	return s
}

func (s *SVGSurface) wf(format string, args ...any) {
	if s.werr != nil {
		return
	}
	_, s.werr = fmt.Fprintf(&s.buf, format, args...)
}

func (s *SVGSurface) xy(p vector.Pt) (float64, float64) { return p.X - s.area.X, p.Y - s.area.Y }

func (s *SVGSurface) stroke(pen shape.Pen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"%s", svgColor(pen.Color), pen.Width, opacity("stroke", pen.Color))
	if dashes, off := render.Dashes(pen, s.Phase); dashes != nil {
		fmt.Fprintf(&b, " stroke-dasharray=\"%g %g\"", dashes[0], dashes[1])
		if off != 0 {
			fmt.Fprintf(&b, " stroke-dashoffset=\"%g\"", off)
		}
	}
	return b.String()
}

func (s *SVGSurface) DrawLine(a, b vector.Pt, pen shape.Pen) {
	x1, y1 := s.xy(a)
	x2, y2 := s.xy(b)
	s.wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" %s/>\n", x1, y1, x2, y2, s.stroke(pen))
}

func (s *SVGSurface) DrawRect(r vector.Rect, pen shape.Pen) {
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" %s/>\n", x, y, r.W, r.H, s.stroke(pen))
}

func (s *SVGSurface) FillRect(r vector.Rect, c vector.Color) {
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"%s/>\n", x, y, r.W, r.H, svgColor(c), opacity("fill", c))
}

func (s *SVGSurface) DrawEllipse(r vector.Rect, pen shape.Pen) {
	cx, cy := s.xy(r.Center())
	s.wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s/>\n", cx, cy, r.W/2, r.H/2, s.stroke(pen))
}

func (s *SVGSurface) DrawPolyline(pts []vector.Pt, pen shape.Pen) {
	var b strings.Builder
	for i, p := range pts {
		x, y := s.xy(p)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g,%g", x, y)
	}
	s.wf("  <polyline points=\"%s\" %s/>\n", b.String(), s.stroke(pen))
}

func (s *SVGSurface) DrawText(r vector.Rect, text string, f shape.Font, c vector.Color) {
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	size := f.Size
	if size <= 0 {
		size = 12
	}
	// We don't embed fonts here; the font family is a hint only.
	family := f.Family
	if family == "" {
		family = "Helvetica, Arial, sans-serif"
	}
	cy := y + size
	for _, line := range strings.Split(text, "\n") {
		s.wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%g\" fill=\"%s\">%s</text>\n", x, cy, escAttr(family), size, svgColor(c), escText(line))
		cy += size * 1.2
	}
}

// Bytes closes the document and returns it.
func (s *SVGSurface) Bytes() ([]byte, error) {
	s.wf("</svg>\n")
	if s.werr != nil {
		return nil, fmt.Errorf("build svg: %w", s.werr)
	}
	return s.buf.Bytes(), nil
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(attr string, c vector.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(" %s-opacity=\"%.3g\"", attr, float64(c.A)/255)
}

// escAttr escapes a double-quoted attribute value; line breaks become spaces.
func escAttr(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ", `"`, "&quot;").Replace(escText(s))
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
