/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"errors"
	"fmt"
	"log/slog"

	"goannotate/internal/canvas"
	applog "goannotate/internal/log"
)

var (
	ErrGestureOpen = errors.New("undo: a gesture is already open")
	ErrNoGesture   = errors.New("undo: no open gesture")
)

// Config controls depth and memory caps.
type Config struct {
	// MaxDepth limits the number of undo entries (0 means unlimited).
	MaxDepth int
	// MaxSnapshots is a soft cap on the shape snapshots held by both stacks;
	// the oldest undo entries are pruned when it is exceeded.
	MaxSnapshots int
}

func DefaultConfig() Config { return Config{MaxDepth: 100, MaxSnapshots: 10000} }

// Manager keeps the undo and redo stacks of one canvas. It is not safe for
// concurrent use.
type Manager struct {
	cfg    Config
	canvas *canvas.Canvas
	undo   []Command
	redo   []Command
	open   Pending
	// accounting
	snapshots int
	log       *slog.Logger
}

func NewManager(c *canvas.Canvas, cfg Config) *Manager {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &Manager{cfg: cfg, canvas: c, log: applog.WithComponent("undo")}
}

// Execute runs the forward action of cmd and records it.
func (m *Manager) Execute(cmd Command) error {
	if m.open != nil {
		return ErrGestureOpen
	}
	if err := cmd.Redo(m.canvas); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	m.afterChange()
	m.push(cmd)
	return nil
}

// Record pushes a command whose forward action has already been applied.
func (m *Manager) Record(cmd Command) {
	m.push(cmd)
}

func (m *Manager) push(cmd Command) {
	m.undo = append(m.undo, cmd)
	m.snapshots += cmd.Size()
	// Any new change invalidates redo
	for _, c := range m.redo {
		m.snapshots -= c.Size()
	}
	m.redo = nil
	m.enforceCaps()
	m.log.Debug("command recorded", slog.String("cmd", cmd.Name()), slog.Int("depth", len(m.undo)))
}

// Undo reverts the newest command. It reports false when there was nothing to undo.
func (m *Manager) Undo() (bool, error) {
	if m.open != nil {
		return false, ErrGestureOpen
	}
	if len(m.undo) == 0 {
		return false, nil
	}
	cmd := m.undo[len(m.undo)-1]
	if err := cmd.Undo(m.canvas); err != nil {
		m.canvas.RefreshClip()
		return false, fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, cmd)
	m.afterChange()
	m.log.Debug("undo", slog.String("cmd", cmd.Name()))
	return true, nil
}

// Redo re-applies the newest undone command.
func (m *Manager) Redo() (bool, error) {
	if m.open != nil {
		return false, ErrGestureOpen
	}
	if len(m.redo) == 0 {
		return false, nil
	}
	cmd := m.redo[len(m.redo)-1]
	if err := cmd.Redo(m.canvas); err != nil {
		m.canvas.RefreshClip()
		return false, fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, cmd)
	m.afterChange()
	m.log.Debug("redo", slog.String("cmd", cmd.Name()))
	return true, nil
}

func (m *Manager) afterChange() {
	m.canvas.RefreshClip()
	m.canvas.MarkDirty()
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Clear drops both stacks. An open gesture is abandoned without reverting it.
func (m *Manager) Clear() {
	m.undo, m.redo, m.open = nil, nil, nil
	m.snapshots = 0
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (undoDepth, redoDepth, snapshots int) {
	return len(m.undo), len(m.redo), m.snapshots
}

// Open starts a gesture. Everything the gesture changes becomes at most one
// undo entry when it is closed.
func (m *Manager) Open(p Pending) error {
	if m.open != nil {
		return ErrGestureOpen
	}
	m.open = p
	return nil
}

func (m *Manager) IsOpen() bool { return m.open != nil }

// Close finishes the open gesture and records its command, if it produced one.
func (m *Manager) Close() error {
	if m.open == nil {
		return ErrNoGesture
	}
	p := m.open
	m.open = nil
	cmd, err := p.Finish(m.canvas)
	if err != nil {
		return err
	}
	if cmd == nil {
		return nil
	}
	m.canvas.MarkDirty()
	m.push(cmd)
	return nil
}

// Cancel reverts the partial edits of the open gesture without recording anything.
func (m *Manager) Cancel() error {
	if m.open == nil {
		return ErrNoGesture
	}
	p := m.open
	m.open = nil
	err := p.Revert(m.canvas)
	m.canvas.RefreshClip()
	return err
}

func (m *Manager) enforceCaps() {
	// Depth cap: drop the oldest extras
	if m.cfg.MaxDepth > 0 && len(m.undo) > m.cfg.MaxDepth {
		toDrop := len(m.undo) - m.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			m.snapshots -= m.undo[i].Size()
		}
		m.undo = append([]Command{}, m.undo[toDrop:]...)
	}
	// Snapshot cap: keep at least the newest entry
	for m.cfg.MaxSnapshots > 0 && m.snapshots > m.cfg.MaxSnapshots && len(m.undo) > 1 {
		m.snapshots -= m.undo[0].Size()
		m.undo = m.undo[1:]
	}
}
