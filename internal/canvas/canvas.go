/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas owns the ordered shape list of one annotation surface.
// Insertion order is z-order: the last shape is drawn last and wins hit tests.
// A Canvas is not safe for concurrent use; all calls come from the event thread.
package canvas

import (
	"errors"
	"fmt"
	"slices"

	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

var ErrNotFound = errors.New("canvas: shape not found")

type Canvas struct {
	shapes  []shape.Shape
	overlay *shape.SelectionRect
	size    vector.Rect
	clip    vector.Rect
	dirty   bool
}

// New creates an empty canvas of the given size in device-independent units.
func New(width, height float64) *Canvas {
	c := &Canvas{size: vector.R(0, 0, width, height)}
	c.RefreshClip()
	return c
}

// Size is the visible canvas area, usually the bounds of the annotated image.
func (c *Canvas) Size() vector.Rect { return c.size }

func (c *Canvas) SetSize(width, height float64) {
	c.size = vector.R(0, 0, width, height)
	if c.overlay != nil {
		c.overlay.ClipTo(c.size)
	}
	c.RefreshClip()
}

// Clip is the region rendering and hit testing are limited to.
func (c *Canvas) Clip() vector.Rect { return c.clip }

// RefreshClip recomputes the clip: the canvas area when it has one, else the
// union of all shape bounds.
func (c *Canvas) RefreshClip() {
	if !c.size.Empty() {
		c.clip = c.size
		return
	}
	c.clip = c.ContentBounds()
}

// ContentBounds is the union of the bounds of all shapes.
func (c *Canvas) ContentBounds() vector.Rect {
	if len(c.shapes) == 0 {
		return vector.Rect{}
	}
	b := c.shapes[0].Bounds()
	for _, s := range c.shapes[1:] {
		b = b.Union(s.Bounds())
	}
	return b
}

func (c *Canvas) Len() int                  { return len(c.shapes) }
func (c *Canvas) At(i int) shape.Shape      { return c.shapes[i] }
func (c *Canvas) Shapes() []shape.Shape     { return slices.Clone(c.shapes) }
func (c *Canvas) IndexOf(s shape.Shape) int { return slices.Index(c.shapes, s) }

// ByID returns the shape with the given id and its index, or nil and -1.
func (c *Canvas) ByID(id string) (shape.Shape, int) {
	for i, s := range c.shapes {
		if s.ID() == id {
			return s, i
		}
	}
	return nil, -1
}

// Add appends s on top of all other shapes.
func (c *Canvas) Add(s shape.Shape) {
	c.shapes = append(c.shapes, s)
	c.changed()
}

// Insert places s at index i; i is clamped to the valid range.
func (c *Canvas) Insert(i int, s shape.Shape) {
	i = max(0, min(i, len(c.shapes)))
	c.shapes = slices.Insert(c.shapes, i, s)
	c.changed()
}

// Replace swaps the shape at index i.
func (c *Canvas) Replace(i int, s shape.Shape) error {
	if i < 0 || i >= len(c.shapes) {
		return fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	c.shapes[i] = s
	c.changed()
	return nil
}

// Remove deletes s and returns its former index.
func (c *Canvas) Remove(s shape.Shape) (int, error) {
	i := c.IndexOf(s)
	if i < 0 {
		return -1, ErrNotFound
	}
	_, err := c.RemoveAt(i)
	return i, err
}

func (c *Canvas) RemoveAt(i int) (shape.Shape, error) {
	if i < 0 || i >= len(c.shapes) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	s := c.shapes[i]
	c.shapes = slices.Delete(c.shapes, i, i+1)
	c.changed()
	return s, nil
}

// Clear removes every shape and returns them in their former order.
func (c *Canvas) Clear() []shape.Shape {
	old := c.shapes
	c.shapes = nil
	c.changed()
	return old
}

// Order returns shape ids bottom to top.
func (c *Canvas) Order() []string {
	ids := make([]string, len(c.shapes))
	for i, s := range c.shapes {
		ids[i] = s.ID()
	}
	return ids
}

// SetOrder rearranges the shapes to match ids, which must name every shape once.
func (c *Canvas) SetOrder(ids []string) error {
	if len(ids) != len(c.shapes) {
		return fmt.Errorf("%w: order has %d ids for %d shapes", ErrNotFound, len(ids), len(c.shapes))
	}
	byID := make(map[string]shape.Shape, len(c.shapes))
	for _, s := range c.shapes {
		byID[s.ID()] = s
	}
	next := make([]shape.Shape, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: id %s", ErrNotFound, id)
		}
		delete(byID, id)
		next = append(next, s)
	}
	c.shapes = next
	c.changed()
	return nil
}

// MoveSelectedToFront moves the selected shapes above all others, keeping
// their relative order. It reports whether the order changed.
func (c *Canvas) MoveSelectedToFront() bool {
	var sel, rest []shape.Shape
	for _, s := range c.shapes {
		if s.Selected() {
			sel = append(sel, s)
		} else {
			rest = append(rest, s)
		}
	}
	return c.reorder(append(rest, sel...))
}

// MoveSelectedToBack moves the selected shapes below all others.
func (c *Canvas) MoveSelectedToBack() bool {
	var sel, rest []shape.Shape
	for _, s := range c.shapes {
		if s.Selected() {
			sel = append(sel, s)
		} else {
			rest = append(rest, s)
		}
	}
	return c.reorder(append(sel, rest...))
}

func (c *Canvas) reorder(next []shape.Shape) bool {
	if slices.Equal(next, c.shapes) {
		return false
	}
	c.shapes = next
	c.changed()
	return true
}

func (c *Canvas) changed() {
	c.dirty = true
	c.RefreshClip()
}

// MarkDirty flags a content change made directly on a shape (move, resize, restyle).
func (c *Canvas) MarkDirty()    { c.dirty = true }
func (c *Canvas) IsDirty() bool { return c.dirty }

// MarkSaved is the host's acknowledgement that the content has been persisted.
func (c *Canvas) MarkSaved() { c.dirty = false }

// Draw renders all shapes bottom to top, then the selection overlay.
func (c *Canvas) Draw(surf shape.Surface) error {
	if surf == nil {
		return shape.ErrNilSurface
	}
	for _, s := range c.shapes {
		if err := s.Draw(surf); err != nil {
			return err
		}
	}
	if c.overlay != nil {
		return c.overlay.Draw(surf)
	}
	return nil
}
