/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"goannotate/internal/render"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// PDFSurface draws onto a single PDF page sized to the exported area.
// Units are points, one point per canvas unit, origin top-left.
// Text uses the built-in Helvetica so nothing needs to be embedded.
type PDFSurface struct {
	pdf   *gofpdf.Fpdf
	area  vector.Rect
	Phase float64
}

func NewPDF(area vector.Rect) *PDFSurface {
	w, h := max(area.W, 1), max(area.H, 1)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetAuthor("goannotate", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
	return &PDFSurface{pdf: pdf, area: area}
}

func (s *PDFSurface) xy(p vector.Pt) (float64, float64) { return p.X - s.area.X, p.Y - s.area.Y }

func (s *PDFSurface) pen(pen shape.Pen) {
	setDrawColor(s.pdf, pen.Color)
	s.pdf.SetLineWidth(pen.Width)
	dashes, off := render.Dashes(pen, s.Phase)
	s.pdf.SetDashPattern(dashes, off)
}

func (s *PDFSurface) DrawLine(a, b vector.Pt, pen shape.Pen) {
	s.pen(pen)
	x1, y1 := s.xy(a)
	x2, y2 := s.xy(b)
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *PDFSurface) DrawRect(r vector.Rect, pen shape.Pen) {
	s.pen(pen)
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	s.pdf.Rect(x, y, r.W, r.H, "D")
}

func (s *PDFSurface) FillRect(r vector.Rect, c vector.Color) {
	setFillColor(s.pdf, c)
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	s.pdf.Rect(x, y, r.W, r.H, "F")
}

func (s *PDFSurface) DrawEllipse(r vector.Rect, pen shape.Pen) {
	s.pen(pen)
	cx, cy := s.xy(r.Center())
	s.pdf.Ellipse(cx, cy, r.W/2, r.H/2, 0, "D")
}

func (s *PDFSurface) DrawPolyline(pts []vector.Pt, pen shape.Pen) {
	if len(pts) < 2 {
		return
	}
	s.pen(pen)
	s.pdf.MoveTo(s.xy(pts[0]))
	for _, p := range pts[1:] {
		s.pdf.LineTo(s.xy(p))
	}
	s.pdf.DrawPath("D")
}

func (s *PDFSurface) DrawText(r vector.Rect, text string, f shape.Font, c vector.Color) {
	size := f.Size
	if size <= 0 {
		size = 12
	}
	s.pdf.SetFont("Helvetica", "", size)
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	x, y := s.xy(vector.Pt{X: r.X, Y: r.Y})
	cy := y + size
	for _, line := range strings.Split(text, "\n") {
		s.pdf.Text(x, cy, line)
		cy += size * 1.2
	}
}

// WriteTo finishes the document and writes it to w.
func (s *PDFSurface) WriteTo(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
