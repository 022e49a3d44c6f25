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
	"math"
	"strings"

	"github.com/fogleman/gg"

	"goannotate/internal/render"
	"goannotate/internal/shape"
	"goannotate/internal/textlayout"
	"goannotate/internal/vector"
)

// PNGSurface rasterizes shapes into an image of area scaled by Scale.
type PNGSurface struct {
	dc    *gg.Context
	area  vector.Rect
	scale float64
	fonts textlayout.Provider
	Phase float64
}

// NewPNG allocates the raster. A nil font provider uses the bundled Go font.
func NewPNG(area vector.Rect, scale float64, fonts textlayout.Provider, background vector.Color) *PNGSurface {
	if scale <= 0 {
		scale = 1
	}
	if fonts == nil {
		fonts = textlayout.OTProvider{Lib: textlayout.NewDefaultLibrary()}
	}
	w := max(1, int(math.Ceil(area.W*scale)))
	h := max(1, int(math.Ceil(area.H*scale)))
	dc := gg.NewContext(w, h)
	if background.A > 0 {
		setColor(dc, background)
		dc.Clear()
	}
	return &PNGSurface{dc: dc, area: area, scale: scale, fonts: fonts}
}

func (s *PNGSurface) xy(p vector.Pt) (float64, float64) {
	return (p.X - s.area.X) * s.scale, (p.Y - s.area.Y) * s.scale
}

func (s *PNGSurface) stroke(pen shape.Pen) {
	setColor(s.dc, pen.Color)
	s.dc.SetLineWidth(pen.Width * s.scale)
	dashes, off := render.Dashes(pen, s.Phase)
	dashes = render.Phased(dashes, off)
	for i := range dashes {
		dashes[i] *= s.scale
	}
	s.dc.SetDash(dashes...)
	s.dc.Stroke()
}

func (s *PNGSurface) DrawLine(a, b vector.Pt, pen shape.Pen) {
	x1, y1 := s.xy(a)
	x2, y2 := s.xy(b)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.stroke(pen)
}

func (s *PNGSurface) DrawRect(r vector.Rect, pen shape.Pen) {
	x, y := s.xy(r.Min())
	s.dc.DrawRectangle(x, y, r.W*s.scale, r.H*s.scale)
	s.stroke(pen)
}

func (s *PNGSurface) FillRect(r vector.Rect, c vector.Color) {
	x, y := s.xy(r.Min())
	s.dc.DrawRectangle(x, y, r.W*s.scale, r.H*s.scale)
	setColor(s.dc, c)
	s.dc.Fill()
}

func (s *PNGSurface) DrawEllipse(r vector.Rect, pen shape.Pen) {
	cx, cy := s.xy(r.Center())
	s.dc.DrawEllipse(cx, cy, r.W/2*s.scale, r.H/2*s.scale)
	s.stroke(pen)
}

func (s *PNGSurface) DrawPolyline(pts []vector.Pt, pen shape.Pen) {
	if len(pts) < 2 {
		return
	}
	s.dc.NewSubPath()
	s.dc.MoveTo(s.xy(pts[0]))
	for _, p := range pts[1:] {
		s.dc.LineTo(s.xy(p))
	}
	s.stroke(pen)
}

func (s *PNGSurface) DrawText(r vector.Rect, text string, f shape.Font, c vector.Color) {
	spec := textlayout.SpecFor(f)
	if spec.Size <= 0 {
		spec.Size = 12
	}
	spec.Size *= s.scale
	face, m := s.fonts.Resolve(spec)
	s.dc.SetFontFace(face)
	setColor(s.dc, c)
	x, y := s.xy(r.Min())
	lh := m.LineHeight()
	if lh <= 0 {
		lh = spec.Size * 1.2
	}
	baseline := y + m.Ascent
	for i, line := range strings.Split(text, "\n") {
		s.dc.DrawString(line, x, baseline+float64(i)*lh)
	}
}

// WriteTo encodes the raster as PNG.
func (s *PNGSurface) WriteTo(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func setColor(dc *gg.Context, c vector.Color) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}
