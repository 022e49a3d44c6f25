/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package script

import "fmt"

// Script is a recorded editing session: an optional canvas size and tool
// style followed by host events and editor commands, replayed in order.
//
//	canvas: {width: 400, height: 300}
//	style: {line_width: 3, color: "#ff0000"}
//	steps:
//	  - tool: rectangle
//	  - drag: [[10, 10], [60, 40], [120, 80]]
//	    mods: [shift]
//	  - key: ctrl+z
//	  - expect: {shapes: 0, redo: 1}
type Script struct {
	Canvas Size   `yaml:"canvas"`
	Style  *Style `yaml:"style"`
	Steps  []Step `yaml:"steps"`
}

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Style overrides the configured tool defaults before the first step.
type Style struct {
	LineWidth  *float64 `yaml:"line_width"`
	LineStyle  string   `yaml:"line_style"`
	Color      string   `yaml:"color"`
	FontFamily string   `yaml:"font_family"`
	FontSize   float64  `yaml:"font_size"`
}

// Step holds exactly one action. Points are [x, y] pairs in canvas units.
type Step struct {
	Tool string `yaml:"tool,omitempty"`

	Down []float64   `yaml:"down,omitempty"`
	Move []float64   `yaml:"move,omitempty"`
	Up   []float64   `yaml:"up,omitempty"`
	Drag [][]float64 `yaml:"drag,omitempty"`
	// Mods are held during pointer steps: shift, ctrl, alt.
	Mods []string `yaml:"mods,omitempty"`

	// Key is a chord such as "escape", "delete", "ctrl+z" or "shift".
	Key  string `yaml:"key,omitempty"`
	Type string `yaml:"type,omitempty"`

	// Do runs an editor command: undo, redo, select_all, unselect_all,
	// clear_selection, delete, delete_all, clear, front, back, lost_focus.
	Do string `yaml:"do,omitempty"`

	LineWidth *float64 `yaml:"line_width,omitempty"`
	LineStyle string   `yaml:"line_style,omitempty"`
	Color     string   `yaml:"color,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`

	// Line is the 1-based source line of the step.
	Line int `yaml:"-"`
}

// Expect asserts editor state. Unset fields are not checked.
type Expect struct {
	Shapes   *int     `yaml:"shapes"`
	Selected *int     `yaml:"selected"`
	Undo     *int     `yaml:"undo"`
	Redo     *int     `yaml:"redo"`
	Dirty    *bool    `yaml:"dirty"`
	Overlay  *bool    `yaml:"overlay"`
	Tool     string   `yaml:"tool"`
	Kinds    []string `yaml:"kinds"`
}

// Error represents a parse or replay error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}
