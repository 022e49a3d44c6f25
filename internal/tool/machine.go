/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package tool

import (
	"log/slog"

	applog "goannotate/internal/log"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// Machine dispatches host events to the handler of the selected tool kind.
// It owns pointer capture: every path that ends a gesture releases it.
type Machine struct {
	ctx *Context
	h   Handler
}

func NewMachine(ctx *Context, k Kind) *Machine {
	if ctx.Capture == nil {
		ctx.Capture = &Capture{}
	}
	if ctx.Log == nil {
		ctx.Log = applog.WithComponent("tool")
	}
	return &Machine{ctx: ctx, h: New(k)}
}

func (m *Machine) Context() *Context { return m.ctx }
func (m *Machine) Kind() Kind        { return m.h.Kind() }
func (m *Machine) Active() bool      { return m.h.Active() }

// SetKind switches tools. A gesture of the previous tool is cancelled first.
func (m *Machine) SetKind(k Kind) error {
	if k == m.h.Kind() {
		return nil
	}
	err := m.Cancel()
	m.ctx.Log.Debug("tool changed", slog.String("from", m.h.Kind().String()), slog.String("to", k.String()))
	m.h = New(k)
	return err
}

func (m *Machine) PointerDown(e PointerEvent) error {
	m.ctx.Mods = e.Mods
	return m.h.PointerDown(m.ctx, e)
}

func (m *Machine) PointerMove(e PointerEvent) error {
	m.ctx.Mods = e.Mods
	return m.h.PointerMove(m.ctx, e)
}

func (m *Machine) PointerUp(e PointerEvent) error {
	m.ctx.Mods = e.Mods
	defer m.ctx.Capture.Release()
	return m.h.PointerUp(m.ctx, e)
}

// KeyDown reports whether the active tool consumed the key.
func (m *Machine) KeyDown(e KeyEvent) (bool, error) {
	m.ctx.Mods = e.Mods
	return m.h.KeyDown(m.ctx, e)
}

func (m *Machine) KeyUp(e KeyEvent) error {
	m.ctx.Mods = e.Mods
	return m.h.KeyUp(m.ctx, e)
}

// Cancel abandons the running gesture, if any.
func (m *Machine) Cancel() error {
	defer m.ctx.Capture.Release()
	if !m.h.Active() {
		return nil
	}
	m.ctx.Log.Debug("gesture cancelled", slog.String("tool", m.h.Kind().String()))
	return m.h.Cancel(m.ctx)
}

// LostFocus is delivered when the host window loses keyboard focus.
func (m *Machine) LostFocus() error {
	m.ctx.Mods = 0
	return m.Cancel()
}

func (m *Machine) Cursor(p vector.Pt) shape.Cursor { return m.h.Cursor(m.ctx, p) }
