/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "goannotate/internal/vector"

// Text is a rectangle-family shape holding a text run. The rectangle is the
// layout box; it grows to fit the text but never shrinks below the dragged size.
type Text struct {
	rectBase
	text string
	font Font
}

func NewText(r vector.Rect, text string, font Font, st Style) *Text {
	return &Text{rectBase: newRectBase(r, st), text: text, font: font}
}

func (t *Text) Kind() Kind              { return KindText }
func (t *Text) Text() string            { return t.text }
func (t *Text) SetText(s string)        { t.text = s }
func (t *Text) Font() Font              { return t.font }
func (t *Text) SetFont(f Font)          { t.font = f }
func (t *Text) HitTest(p vector.Pt) int { return hitTest(t, p) }

// GrowTo enlarges the box so that it is at least w by h, keeping the top-left corner.
func (t *Text) GrowTo(w, h float64) {
	t.Normalize()
	if t.right-t.left < w {
		t.right = t.left + w
	}
	if t.bottom-t.top < h {
		t.bottom = t.top + h
	}
}

func (t *Text) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	surf.DrawText(t.Bounds(), t.text, t.font, t.style.Color)
	if t.selected {
		surf.DrawRect(t.Bounds(), Pen{Color: t.style.Color, Width: 1, Dashed: true})
	}
	drawTracker(t, surf)
	return nil
}

func (t *Text) Contains(p vector.Pt) bool { return t.Bounds().Contains(p) }

func (t *Text) IntersectsWith(r vector.Rect) bool { return t.Bounds().Overlaps(r) }

func (t *Text) Snapshot() (Snapshot, error) {
	snap := Snapshot{Kind: KindText, Text: t.text, FontFamily: t.font.Family, FontSize: t.font.Size}
	t.fillSnapshot(&snap)
	return snap, nil
}
