/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package render records what shapes draw so that a frontend or exporter
// can replay it, and supplies the phase of the selection overlay animation.
package render

import (
	"encoding/json"
	"math"
	"slices"
	"time"

	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

type Op string

const (
	OpLine     Op = "line"
	OpRect     Op = "rect"
	OpFill     Op = "fill"
	OpEllipse  Op = "ellipse"
	OpPolyline Op = "polyline"
	OpText     Op = "text"
)

// DrawCommand is one recorded primitive.
type DrawCommand struct {
	Op         Op           `json:"op"`
	Points     []vector.Pt  `json:"points,omitempty"`
	Rect       vector.Rect  `json:"rect,omitzero"`
	Color      vector.Color `json:"color"`
	Width      float64      `json:"width,omitempty"`
	Dashed     bool         `json:"dashed,omitempty"`
	DashOffset float64      `json:"dash_offset,omitempty"`
	Text       string       `json:"text,omitempty"`
	Font       *shape.Font  `json:"font,omitempty"`
}

// Recorder is a shape.Surface that keeps the primitives it receives.
// Phase is added to the dash offset of animated pens.
type Recorder struct {
	cmds  []DrawCommand
	Phase float64
}

func (r *Recorder) stroke(op Op, pen shape.Pen) DrawCommand {
	c := DrawCommand{Op: op, Color: pen.Color, Width: pen.Width, Dashed: pen.Dashed}
	if pen.Dashed && pen.Animated {
		c.DashOffset = r.Phase
	}
	return c
}

func (r *Recorder) DrawLine(a, b vector.Pt, pen shape.Pen) {
	c := r.stroke(OpLine, pen)
	c.Points = []vector.Pt{a, b}
	r.cmds = append(r.cmds, c)
}

func (r *Recorder) DrawRect(rect vector.Rect, pen shape.Pen) {
	c := r.stroke(OpRect, pen)
	c.Rect = rect
	r.cmds = append(r.cmds, c)
}

func (r *Recorder) FillRect(rect vector.Rect, col vector.Color) {
	r.cmds = append(r.cmds, DrawCommand{Op: OpFill, Rect: rect, Color: col})
}

func (r *Recorder) DrawEllipse(rect vector.Rect, pen shape.Pen) {
	c := r.stroke(OpEllipse, pen)
	c.Rect = rect
	r.cmds = append(r.cmds, c)
}

func (r *Recorder) DrawPolyline(pts []vector.Pt, pen shape.Pen) {
	c := r.stroke(OpPolyline, pen)
	c.Points = slices.Clone(pts)
	r.cmds = append(r.cmds, c)
}

func (r *Recorder) DrawText(rect vector.Rect, text string, f shape.Font, col vector.Color) {
	r.cmds = append(r.cmds, DrawCommand{Op: OpText, Rect: rect, Text: text, Font: &f, Color: col})
}

// Commands returns a copy of everything recorded since the last Reset.
func (r *Recorder) Commands() []DrawCommand { return slices.Clone(r.cmds) }

func (r *Recorder) Reset() { r.cmds = r.cmds[:0] }

func (r *Recorder) JSON() ([]byte, error) {
	if r.cmds == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.cmds)
}

// AntsCycle is the dash offset distance of one animation period.
const AntsCycle = 20.0

// Ants maps wall-clock time to the dash offset of the marching ants around
// the selection overlay. The zero value uses a one second period.
type Ants struct {
	Period time.Duration
}

// Offset returns the dash offset in [0, AntsCycle) after elapsed time.
func (a Ants) Offset(elapsed time.Duration) float64 {
	p := a.Period
	if p <= 0 {
		p = time.Second
	}
	if elapsed < 0 {
		elapsed = -elapsed
	}
	frac := float64(elapsed%p) / float64(p)
	return frac * AntsCycle
}

// Dashes returns the dash array and offset a surface should stroke pen with,
// or nil for solid pens.
func Dashes(pen shape.Pen, phase float64) ([]float64, float64) {
	if !pen.Dashed {
		return nil, 0
	}
	seg := vector.DashPattern * max(pen.Width, 1)
	if !pen.Animated {
		phase = 0
	}
	return []float64{seg, seg}, phase
}

// Phased folds offset into an even-length dash array, for backends that take
// a pattern but no phase. The result starts with an "on" length, which may be 0.
func Phased(dashes []float64, offset float64) []float64 {
	n := len(dashes)
	if n == 0 || n%2 != 0 || offset == 0 {
		return dashes
	}
	period := 0.0
	for _, d := range dashes {
		period += d
	}
	if period <= 0 {
		return dashes
	}
	o := math.Mod(offset, period)
	if o < 0 {
		o += period
	}
	i := 0
	for ; i < n && o >= dashes[i]; i++ {
		o -= dashes[i]
	}
	if i == n || (i == 0 && o == 0) {
		return dashes
	}
	out := make([]float64, 0, n+2)
	if i%2 == 1 {
		out = append(out, 0)
	}
	out = append(out, dashes[i]-o)
	out = append(out, dashes[i+1:]...)
	out = append(out, dashes[:i]...)
	out = append(out, o)
	if i%2 == 0 {
		out = append(out, 0)
	}
	return out
}
