/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// ShapeAt returns the topmost shape containing p, or nil. Points outside the
// clip never hit.
func (c *Canvas) ShapeAt(p vector.Pt) shape.Shape {
	s, _ := c.HitTest(p)
	return s
}

// HitTest returns the topmost shape under p together with the handle hit
// (0 for the body). The selection overlay is never considered.
func (c *Canvas) HitTest(p vector.Pt) (shape.Shape, int) {
	if !c.clip.Empty() && !c.clip.Contains(p) {
		return nil, -1
	}
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if h := c.shapes[i].HitTest(p); h >= 0 {
			return c.shapes[i], h
		}
	}
	return nil, -1
}

// SelectWithin selects every shape intersecting r and returns how many
// were selected. Shapes outside r keep their state.
func (c *Canvas) SelectWithin(r vector.Rect) int {
	r = r.Normalize()
	n := 0
	for _, s := range c.shapes {
		if s.IntersectsWith(r) {
			s.SetSelected(true)
			n++
		}
	}
	return n
}

func (c *Canvas) SelectAll() {
	for _, s := range c.shapes {
		s.SetSelected(true)
	}
}

// UnselectAll clears the selected flag of every shape.
func (c *Canvas) UnselectAll() {
	for _, s := range c.shapes {
		s.SetSelected(false)
	}
}

// HasSelection reports whether at least one shape is selected.
func (c *Canvas) HasSelection() bool {
	for _, s := range c.shapes {
		if s.Selected() {
			return true
		}
	}
	return false
}

// Selected returns the selected shapes in z-order.
func (c *Canvas) Selected() []shape.Shape {
	var out []shape.Shape
	for _, s := range c.shapes {
		if s.Selected() {
			out = append(out, s)
		}
	}
	return out
}

// CurrentSelection is the active marquee overlay, or nil.
func (c *Canvas) CurrentSelection() *shape.SelectionRect { return c.overlay }

func (c *Canvas) SetCurrentSelection(s *shape.SelectionRect) { c.overlay = s }

// ClearSelection drops the marquee overlay. Shape selection flags are untouched.
func (c *Canvas) ClearSelection() { c.overlay = nil }
