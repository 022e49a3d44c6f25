/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"math"

	"goannotate/internal/vector"
)

// MinHitWidth keeps thin strokes clickable.
const MinHitWidth = 8.0

// Style holds the attributes shared by every shape.
type Style struct {
	LineWidth float64
	LineStyle vector.LineStyle
	Color     vector.Color
	Scale     float64
}

func DefaultStyle() Style {
	return Style{LineWidth: 1, LineStyle: vector.Solid, Color: vector.Black, Scale: 1}
}

// ActualLineWidth is the line width compensated for the rendering scale, so
// strokes keep their on-screen thickness when the canvas is zoomed.
func (s Style) ActualLineWidth() float64 {
	if s.Scale <= 0 {
		return s.LineWidth
	}
	return s.LineWidth / s.Scale
}

func (s Style) HitWidth() float64 { return math.Max(MinHitWidth, s.ActualLineWidth()) }

func (s Style) HandleSize() float64 {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return math.Max(12/scale, s.ActualLineWidth()*1.1)
}

// Font describes text shapes.
type Font struct {
	Family string
	Size   float64
}

func DefaultFont() Font { return Font{Family: "Calibri", Size: 14} }

// Pen is a stroke description handed to a Surface. Animated pens belong to the
// selection overlay; surfaces add their own dash phase to them.
type Pen struct {
	Color    vector.Color
	Width    float64
	Dashed   bool
	Animated bool
}

// Surface is the drawing target shapes render onto.
type Surface interface {
	DrawLine(a, b vector.Pt, pen Pen)
	DrawRect(r vector.Rect, pen Pen)
	FillRect(r vector.Rect, c vector.Color)
	DrawEllipse(r vector.Rect, pen Pen)
	DrawPolyline(pts []vector.Pt, pen Pen)
	DrawText(r vector.Rect, text string, font Font, c vector.Color)
}

// Cursor names the pointer shape a host should show.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorCross
	CursorSizeAll
	CursorSizeNWSE
	CursorSizeNESW
	CursorSizeNS
	CursorSizeWE
	CursorIBeam
)

func (c Cursor) String() string {
	switch c {
	case CursorCross:
		return "cross"
	case CursorSizeAll:
		return "size-all"
	case CursorSizeNWSE:
		return "size-nwse"
	case CursorSizeNESW:
		return "size-nesw"
	case CursorSizeNS:
		return "size-ns"
	case CursorSizeWE:
		return "size-we"
	case CursorIBeam:
		return "ibeam"
	}
	return "default"
}
