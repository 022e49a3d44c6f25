/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML script. Every malformed step is reported; the script
// is only usable when no errors are returned.
func Parse(data []byte) (Script, []Error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Script{}, []Error{{Message: err.Error()}}
	}
	var s Script
	if len(root.Content) == 0 {
		return s, []Error{{Message: "empty script"}}
	}
	doc := root.Content[0]
	if err := doc.Decode(&s); err != nil {
		return Script{}, []Error{{Line: doc.Line, Column: doc.Column, Message: err.Error()}}
	}
	var errs []Error
	steps := stepNodes(doc)
	for i := range s.Steps {
		if i < len(steps) {
			s.Steps[i].Line = steps[i].Line
		}
		if msg := validate(s.Steps[i]); msg != "" {
			e := Error{Line: s.Steps[i].Line, Message: fmt.Sprintf("step %d: %s", i+1, msg)}
			if i < len(steps) {
				e.Column = steps[i].Column
			}
			errs = append(errs, e)
		}
	}
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		errs = append(errs, Error{Message: "canvas size must not be negative"})
	}
	return s, errs
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, errs := Parse(b)
	if len(errs) > 0 {
		return Script{}, &errs[0]
	}
	return s, nil
}

func stepNodes(doc *yaml.Node) []*yaml.Node {
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "steps" && doc.Content[i+1].Kind == yaml.SequenceNode {
			return doc.Content[i+1].Content
		}
	}
	return nil
}

// validate reports what is wrong with st, or "" when it holds exactly one
// well-formed action.
func validate(st Step) string {
	n := 0
	count := func(set bool) {
		if set {
			n++
		}
	}
	count(st.Tool != "")
	count(st.Down != nil)
	count(st.Move != nil)
	count(st.Up != nil)
	count(st.Drag != nil)
	count(st.Key != "")
	count(st.Type != "")
	count(st.Do != "")
	count(st.LineWidth != nil)
	count(st.LineStyle != "")
	count(st.Color != "")
	count(st.Expect != nil)
	switch {
	case n == 0:
		return "no action"
	case n > 1:
		return "more than one action"
	}
	for _, p := range [][]float64{st.Down, st.Move, st.Up} {
		if p != nil && len(p) != 2 {
			return "a point needs two coordinates"
		}
	}
	if st.Drag != nil {
		if len(st.Drag) < 2 {
			return "drag needs at least two points"
		}
		for _, p := range st.Drag {
			if len(p) != 2 {
				return "a point needs two coordinates"
			}
		}
	}
	if _, err := parseMods(st.Mods); err != nil {
		return err.Error()
	}
	if st.Key != "" {
		if _, err := parseChord(st.Key); err != nil {
			return err.Error()
		}
	}
	if st.Do != "" {
		if _, ok := commands[st.Do]; !ok {
			return fmt.Sprintf("unknown command %q", st.Do)
		}
	}
	return ""
}
