/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shape implements the annotation shape variants: their geometry,
// handles, hit testing and snapshot round-trip.
package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goannotate/internal/vector"
)

var (
	ErrNilSurface       = errors.New("shape: nil surface")
	ErrHandleOutOfRange = errors.New("shape: handle out of range")
	ErrUnknownKind      = errors.New("shape: unknown kind")
	ErrNotSerializable  = errors.New("shape: not serializable")
	ErrInvalidSnapshot  = errors.New("shape: invalid snapshot")
	ErrDuplicateID      = errors.New("shape: duplicate id")
)

// Kind tags the closed set of shape variants.
type Kind uint8

const (
	KindRectangle Kind = iota + 1
	KindEllipse
	KindLine
	KindPolyline
	KindText
	KindSelectionRect
)

var kindNames = map[Kind]string{
	KindRectangle:     "rectangle",
	KindEllipse:       "ellipse",
	KindLine:          "line",
	KindPolyline:      "polyline",
	KindText:          "text",
	KindSelectionRect: "selection",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Shape is the capability set every variant provides. Handles are numbered
// from 1; HitTest returns -1 for a miss, 0 for the body and n for handle n.
type Shape interface {
	Kind() Kind
	ID() string
	Style() Style
	SetStyle(Style)
	Selected() bool
	SetSelected(bool)

	Bounds() vector.Rect
	Draw(Surface) error
	Contains(p vector.Pt) bool
	IntersectsWith(r vector.Rect) bool

	HandleCount() int
	Handle(n int) (vector.Pt, error)
	MoveHandleTo(p vector.Pt, n int) error
	HandleCursor(n int) Cursor
	HitTest(p vector.Pt) int

	Move(dx, dy float64)
	Normalize()
	Snapshot() (Snapshot, error)
}

// base carries the attributes shared by all variants.
type base struct {
	id       string
	style    Style
	selected bool
}

func newBase(st Style) base {
	return base{id: uuid.NewString(), style: st}
}

func (b *base) ID() string           { return b.id }
func (b *base) Style() Style         { return b.style }
func (b *base) SetStyle(st Style)    { b.style = st }
func (b *base) Selected() bool       { return b.selected }
func (b *base) SetSelected(sel bool) { b.selected = sel }

func (b *base) pen() Pen {
	return Pen{Color: b.style.Color, Width: b.style.ActualLineWidth(), Dashed: b.style.LineStyle == vector.Dashed}
}

func (b *base) fillSnapshot(s *Snapshot) {
	s.ID = b.id
	s.LineWidth = b.style.LineWidth
	s.LineStyle = b.style.LineStyle
	s.Color = b.style.Color
	s.Scale = b.style.Scale
	s.Selected = b.selected
}

func checkHandle(n, count int) error {
	if n < 1 || n > count {
		return fmt.Errorf("%w: %d (have %d)", ErrHandleOutOfRange, n, count)
	}
	return nil
}

// HandleRect returns the square grab area of handle n.
func HandleRect(s Shape, n int) (vector.Rect, error) {
	p, err := s.Handle(n)
	if err != nil {
		return vector.Rect{}, err
	}
	return vector.RectAround(p, s.Style().HandleSize()), nil
}

// hitTest is the shared handle-then-body test. Handles only count while selected.
func hitTest(s Shape, p vector.Pt) int {
	if s.Selected() {
		for i := 1; i <= s.HandleCount(); i++ {
			if r, err := HandleRect(s, i); err == nil && r.Contains(p) {
				return i
			}
		}
	}
	if s.Contains(p) {
		return 0
	}
	return -1
}

// drawTracker paints the selection adorner: one filled square per handle.
func drawTracker(s Shape, surf Surface) {
	if !s.Selected() {
		return
	}
	for i := 1; i <= s.HandleCount(); i++ {
		r, err := HandleRect(s, i)
		if err != nil {
			continue
		}
		surf.FillRect(r, vector.Black)
		surf.DrawRect(r, Pen{Color: vector.White, Width: 1})
	}
}
