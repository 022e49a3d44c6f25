/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"
	"math"
	"slices"

	"goannotate/internal/vector"
)

// Snapshot is a detached value copy of one shape. Fields not used by a kind
// stay at their zero value.
type Snapshot struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`

	Left   float64 `json:"left,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`

	Start  vector.Pt   `json:"start"`
	End    vector.Pt   `json:"end"`
	Points []vector.Pt `json:"points,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`

	LineWidth float64          `json:"line_width"`
	LineStyle vector.LineStyle `json:"line_style"`
	Color     vector.Color     `json:"color"`
	Scale     float64          `json:"scale"`
	Selected  bool             `json:"selected,omitempty"`
}

// Equal compares every field, including the vertex list.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Kind == o.Kind && s.ID == o.ID &&
		s.Left == o.Left && s.Top == o.Top && s.Right == o.Right && s.Bottom == o.Bottom &&
		s.Start == o.Start && s.End == o.End && slices.Equal(s.Points, o.Points) &&
		s.Text == o.Text && s.FontFamily == o.FontFamily && s.FontSize == o.FontSize &&
		s.LineWidth == o.LineWidth && s.LineStyle == o.LineStyle && s.Color == o.Color &&
		s.Scale == o.Scale && s.Selected == o.Selected
}

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	s.Points = slices.Clone(s.Points)
	return s
}

func (s Snapshot) style() Style {
	return Style{LineWidth: s.LineWidth, LineStyle: s.LineStyle, Color: s.Color, Scale: s.Scale}
}

func (s Snapshot) validate() error {
	if s.LineWidth < 0 || math.IsNaN(s.LineWidth) {
		return fmt.Errorf("%w: line width %v", ErrInvalidSnapshot, s.LineWidth)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}
	if s.Kind == KindPolyline && len(s.Points) == 0 {
		return fmt.Errorf("%w: polyline without points", ErrInvalidSnapshot)
	}
	return nil
}

// FromSnapshot builds a new shape from s. The result never shares state with
// the shape the snapshot was taken from.
func FromSnapshot(s Snapshot) (Shape, error) {
	if s.Kind == KindSelectionRect {
		return nil, ErrNotSerializable
	}
	if _, ok := kindNames[s.Kind]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(s.Kind))
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	st := s.style()
	b := base{id: s.ID, style: st, selected: s.Selected}
	rb := rectBase{base: b, left: s.Left, top: s.Top, right: s.Right, bottom: s.Bottom}
	switch s.Kind {
	case KindRectangle:
		return &Rectangle{rb}, nil
	case KindEllipse:
		return &Ellipse{rb}, nil
	case KindText:
		return &Text{rectBase: rb, text: s.Text, font: Font{Family: s.FontFamily, Size: s.FontSize}}, nil
	case KindLine:
		return &Line{base: b, start: s.Start, end: s.End, curr: s.End}, nil
	default:
		return &Polyline{base: b, pts: slices.Clone(s.Points)}, nil
	}
}

// SnapshotAll captures every shape in order and fails on the first shape
// that cannot be captured.
func SnapshotAll(shapes []Shape) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(shapes))
	for _, sh := range shapes {
		snap, err := sh.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("snapshot %s %s: %w", sh.Kind(), sh.ID(), err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// FromSnapshots rebuilds shapes in order.
func FromSnapshots(snaps []Snapshot) ([]Shape, error) {
	out := make([]Shape, 0, len(snaps))
	seen := make(map[string]int, len(snaps))
	for i, s := range snaps {
		if j, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("shape %d: %w: %s (also shape %d)", i, ErrDuplicateID, s.ID, j)
		}
		seen[s.ID] = i
		sh, err := FromSnapshot(s)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, sh)
	}
	return out, nil
}
