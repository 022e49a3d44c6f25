/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "goannotate/internal/vector"

// SelectionRect is the transient marquee overlay. It is never part of the
// shape list, has no snapshot and draws as marching ants.
type SelectionRect struct{ rectBase }

func NewSelectionRect(r vector.Rect, scale float64) *SelectionRect {
	st := Style{LineWidth: 1, LineStyle: vector.Dashed, Color: vector.Black, Scale: scale}
	return &SelectionRect{newRectBase(r, st)}
}

func (s *SelectionRect) Kind() Kind { return KindSelectionRect }

// ClipTo limits the overlay to the given area.
func (s *SelectionRect) ClipTo(area vector.Rect) {
	if area.Empty() {
		return
	}
	clamp := func(v, lo, hi float64) float64 { return max(lo, min(v, hi)) }
	s.left = clamp(s.left, area.Left(), area.Right())
	s.right = clamp(s.right, area.Left(), area.Right())
	s.top = clamp(s.top, area.Top(), area.Bottom())
	s.bottom = clamp(s.bottom, area.Top(), area.Bottom())
}

func (s *SelectionRect) Draw(surf Surface) error {
	if surf == nil {
		return ErrNilSurface
	}
	w := s.style.ActualLineWidth()
	surf.DrawRect(s.Bounds(), Pen{Color: vector.White, Width: w})
	surf.DrawRect(s.Bounds(), Pen{Color: vector.Black, Width: w, Dashed: true, Animated: true})
	return nil
}

func (s *SelectionRect) Contains(p vector.Pt) bool         { return s.Bounds().Contains(p) }
func (s *SelectionRect) IntersectsWith(r vector.Rect) bool { return s.Bounds().Overlaps(r) }
func (s *SelectionRect) HitTest(p vector.Pt) int           { return hitTest(s, p) }

func (s *SelectionRect) Snapshot() (Snapshot, error) {
	return Snapshot{}, ErrNotSerializable
}
