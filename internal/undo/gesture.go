/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"goannotate/internal/canvas"
	"goannotate/internal/shape"
)

// Pending is the state of an open gesture. Finish turns it into the command
// to record (nil when nothing changed); Revert undoes its partial edits.
type Pending interface {
	Finish(c *canvas.Canvas) (Command, error)
	Revert(c *canvas.Canvas) error
}

// Creation tracks a shape added at pointer-down and shaped during the drag.
// Only its final state is recorded.
type Creation struct{ id string }

func NewCreation(s shape.Shape) *Creation { return &Creation{id: s.ID()} }

func (p *Creation) Finish(c *canvas.Canvas) (Command, error) {
	s, _ := c.ByID(p.id)
	if s == nil {
		// removed during the gesture, e.g. text committed empty
		return nil, nil
	}
	return NewAdd(c, s)
}

func (p *Creation) Revert(c *canvas.Canvas) error {
	if _, i := c.ByID(p.id); i >= 0 {
		_, err := c.RemoveAt(i)
		return err
	}
	return nil
}

// Edit captures the state of the shapes a gesture is about to change.
type Edit struct{ before []shape.Snapshot }

// NewEdit snapshots shapes before the gesture touches them.
func NewEdit(shapes []shape.Shape) (*Edit, error) {
	before, err := shape.SnapshotAll(shapes)
	if err != nil {
		return nil, err
	}
	return &Edit{before: before}, nil
}

// Finish records a ChangeState when any geometry or style changed. A gesture
// that only toggled selection flags produces no command.
func (p *Edit) Finish(c *canvas.Canvas) (Command, error) {
	after := make([]shape.Snapshot, 0, len(p.before))
	changed := false
	for _, b := range p.before {
		s, _ := c.ByID(b.ID)
		if s == nil {
			continue
		}
		a, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		if !sameContent(a, b) {
			changed = true
		}
		after = append(after, a)
	}
	if !changed {
		return nil, nil
	}
	return NewChangeState(p.before, after), nil
}

func (p *Edit) Revert(c *canvas.Canvas) error { return replaceAll(c, p.before) }

func sameContent(a, b shape.Snapshot) bool {
	a.Selected, b.Selected = false, false
	return a.Equal(b)
}
