/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"fmt"
	"slices"

	"goannotate/internal/canvas"
	"goannotate/internal/shape"
)

// Command is one reversible edit. Commands hold snapshots only, never live
// shapes, so every restore builds fresh instances.
type Command interface {
	Name() string
	Undo(c *canvas.Canvas) error
	Redo(c *canvas.Canvas) error
	// Size is the number of snapshots held, used for the memory cap.
	Size() int
}

// entry is a snapshot together with the z-index it lived at.
type entry struct {
	Index int
	Snap  shape.Snapshot
}

func restore(c *canvas.Canvas, e entry) error {
	s, err := shape.FromSnapshot(e.Snap)
	if err != nil {
		return err
	}
	c.Insert(e.Index, s)
	return nil
}

func removeByID(c *canvas.Canvas, id string) error {
	_, i := c.ByID(id)
	if i < 0 {
		return fmt.Errorf("%w: id %s", canvas.ErrNotFound, id)
	}
	_, err := c.RemoveAt(i)
	return err
}

// Add re-inserts a created shape on redo and removes it on undo.
type Add struct{ e entry }

// NewAdd captures s at its current position on the canvas.
func NewAdd(c *canvas.Canvas, s shape.Shape) (*Add, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i := c.IndexOf(s)
	if i < 0 {
		i = c.Len()
	}
	return &Add{entry{Index: i, Snap: snap}}, nil
}

func (a *Add) Name() string                { return "add" }
func (a *Add) Size() int                   { return 1 }
func (a *Add) Undo(c *canvas.Canvas) error { return removeByID(c, a.e.Snap.ID) }
func (a *Add) Redo(c *canvas.Canvas) error { return restore(c, a.e) }

// Delete removes a set of shapes and restores them at their former indexes.
type Delete struct{ entries []entry }

// NewDelete captures the given shapes. Shapes not on the canvas are ignored.
func NewDelete(c *canvas.Canvas, shapes []shape.Shape) (*Delete, error) {
	var es []entry
	for _, s := range shapes {
		i := c.IndexOf(s)
		if i < 0 {
			continue
		}
		snap, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		es = append(es, entry{Index: i, Snap: snap})
	}
	slices.SortFunc(es, func(a, b entry) int { return a.Index - b.Index })
	return &Delete{entries: es}, nil
}

func (d *Delete) Name() string { return "delete" }
func (d *Delete) Size() int    { return len(d.entries) }
func (d *Delete) Empty() bool  { return len(d.entries) == 0 }

func (d *Delete) Redo(c *canvas.Canvas) error {
	for _, e := range d.entries {
		if err := removeByID(c, e.Snap.ID); err != nil {
			return err
		}
	}
	return nil
}

// Undo inserts in ascending index order so every index is valid when used.
func (d *Delete) Undo(c *canvas.Canvas) error {
	for _, e := range d.entries {
		if err := restore(c, e); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll clears the canvas and restores every shape in its original order.
type DeleteAll struct{ snaps []shape.Snapshot }

func NewDeleteAll(c *canvas.Canvas) (*DeleteAll, error) {
	snaps, err := shape.SnapshotAll(c.Shapes())
	if err != nil {
		return nil, err
	}
	return &DeleteAll{snaps: snaps}, nil
}

func (d *DeleteAll) Name() string { return "delete-all" }
func (d *DeleteAll) Size() int    { return len(d.snaps) }

func (d *DeleteAll) Redo(c *canvas.Canvas) error {
	c.Clear()
	return nil
}

func (d *DeleteAll) Undo(c *canvas.Canvas) error {
	shapes, err := shape.FromSnapshots(d.snaps)
	if err != nil {
		return err
	}
	for i, s := range shapes {
		c.Insert(i, s)
	}
	return nil
}

// ChangeState swaps the affected shapes between two captured states, for
// moves, resizes and restyles.
type ChangeState struct{ before, after []shape.Snapshot }

// NewChangeState builds the command from explicit before and after states.
func NewChangeState(before, after []shape.Snapshot) *ChangeState {
	return &ChangeState{before: before, after: after}
}

func (cs *ChangeState) Name() string                { return "change-state" }
func (cs *ChangeState) Size() int                   { return len(cs.before) + len(cs.after) }
func (cs *ChangeState) Undo(c *canvas.Canvas) error { return replaceAll(c, cs.before) }
func (cs *ChangeState) Redo(c *canvas.Canvas) error { return replaceAll(c, cs.after) }

func replaceAll(c *canvas.Canvas, snaps []shape.Snapshot) error {
	for _, snap := range snaps {
		_, i := c.ByID(snap.ID)
		if i < 0 {
			return fmt.Errorf("%w: id %s", canvas.ErrNotFound, snap.ID)
		}
		s, err := shape.FromSnapshot(snap)
		if err != nil {
			return err
		}
		if err := c.Replace(i, s); err != nil {
			return err
		}
	}
	return nil
}

// ChangeOrder restores a z-order captured as id lists.
type ChangeOrder struct{ before, after []string }

func NewChangeOrder(before, after []string) *ChangeOrder {
	return &ChangeOrder{before: slices.Clone(before), after: slices.Clone(after)}
}

func (co *ChangeOrder) Name() string                { return "change-order" }
func (co *ChangeOrder) Size() int                   { return 0 }
func (co *ChangeOrder) Undo(c *canvas.Canvas) error { return c.SetOrder(co.before) }
func (co *ChangeOrder) Redo(c *canvas.Canvas) error { return c.SetOrder(co.after) }
