/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package tool turns pointer and keyboard events into canvas edits. Each tool
// kind has a Handler; a Machine owns the active handler and the editing
// context that is threaded through every call.
package tool

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"goannotate/internal/canvas"
	applog "goannotate/internal/log"
	"goannotate/internal/shape"
	"goannotate/internal/undo"
	"goannotate/internal/vector"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindPointer
	KindRectangle
	KindEllipse
	KindLine
	KindPolyline
	KindText
	KindMarquee
)

var kindNames = [...]string{"none", "pointer", "rectangle", "ellipse", "line", "polyline", "text", "marquee"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the names printed by String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "rectangularmarquee", "rectangular_marquee", "select":
		return KindMarquee, nil
	}
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("unknown tool %q", s)
}

type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Modifiers is the set of modifier keys held while an event was delivered.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

type Key uint8

const (
	KeyNone Key = iota
	// KeyRune is a printable character carried in KeyEvent.Rune.
	KeyRune
	KeyShift
	KeyControl
	KeyAlt
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
)

// PointerEvent is a pointer event in canvas coordinates. Button is the
// button pressed or released, or the button held during a move.
type PointerEvent struct {
	Pos    vector.Pt
	Button Button
	Mods   Modifiers
}

// KeyEvent carries the modifier state after the key changed.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// Capture binds the pointer to the running gesture. OnChange lets the host
// mirror the state onto its window system.
type Capture struct {
	held     bool
	OnChange func(held bool)
}

// Acquire reports false when the capture was already held.
func (c *Capture) Acquire() bool {
	if c.held {
		return false
	}
	c.held = true
	if c.OnChange != nil {
		c.OnChange(true)
	}
	return true
}

func (c *Capture) Release() {
	if !c.held {
		return
	}
	c.held = false
	if c.OnChange != nil {
		c.OnChange(false)
	}
}

func (c *Capture) Held() bool { return c.held }

// Measurer reports the extent of a string in the given font.
type Measurer interface {
	Measure(text string, f shape.Font) (w, h float64)
}

// approxMeasurer is used when the host supplies no font metrics.
type approxMeasurer struct{}

func (approxMeasurer) Measure(text string, f shape.Font) (float64, float64) {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return float64(widest) * f.Size * 0.6, float64(len(lines)) * f.Size * 1.2
}

// Context is the editing state shared by all tools.
type Context struct {
	Canvas  *canvas.Canvas
	History *undo.Manager
	// Style and Font are the defaults for new shapes.
	Style    shape.Style
	Font     shape.Font
	Capture  *Capture
	Mods     Modifiers
	Measurer Measurer
	// MinMarquee is the size at or below which a rubber band counts as a click.
	MinMarquee float64
	// PolylineMinDistance is the vertex spacing at scale 1.
	PolylineMinDistance float64
	Log                 *slog.Logger
}

// NewContext returns a context with default style and thresholds.
func NewContext(c *canvas.Canvas, h *undo.Manager) *Context {
	return &Context{
		Canvas:              c,
		History:             h,
		Style:               shape.DefaultStyle(),
		Font:                shape.DefaultFont(),
		Capture:             &Capture{},
		Measurer:            approxMeasurer{},
		MinMarquee:          2,
		PolylineMinDistance: 15,
		Log:                 applog.WithComponent("tool"),
	}
}

func (ctx *Context) snap() bool { return ctx.Mods.Has(ModShift) }

func (ctx *Context) measure(text string, f shape.Font) (float64, float64) {
	if ctx.Measurer == nil {
		return approxMeasurer{}.Measure(text, f)
	}
	return ctx.Measurer.Measure(text, f)
}

// begin adds s on top of the canvas and opens a creation gesture for it.
func (ctx *Context) begin(s shape.Shape) error {
	ctx.Canvas.UnselectAll()
	ctx.Canvas.ClearSelection()
	ctx.Canvas.Add(s)
	if err := ctx.History.Open(undo.NewCreation(s)); err != nil {
		_, _ = ctx.Canvas.Remove(s)
		return err
	}
	ctx.Capture.Acquire()
	ctx.Log.Debug("gesture started", slog.String("shape", s.Kind().String()), slog.String("id", s.ID()))
	return nil
}

func (ctx *Context) end() error {
	if !ctx.History.IsOpen() {
		return nil
	}
	return ctx.History.Close()
}

func (ctx *Context) cancel() error {
	if !ctx.History.IsOpen() {
		return nil
	}
	return ctx.History.Cancel()
}

// Handler is the per-kind gesture state machine. Handlers never fail on
// ordinary input; errors are reserved for broken preconditions.
type Handler interface {
	Kind() Kind
	PointerDown(ctx *Context, e PointerEvent) error
	PointerMove(ctx *Context, e PointerEvent) error
	PointerUp(ctx *Context, e PointerEvent) error
	// KeyDown reports whether the key was consumed by the tool.
	KeyDown(ctx *Context, e KeyEvent) (bool, error)
	KeyUp(ctx *Context, e KeyEvent) error
	// Cancel abandons the running gesture and reverts its partial edits.
	Cancel(ctx *Context) error
	Cursor(ctx *Context, p vector.Pt) shape.Cursor
	// Active reports whether a gesture is in progress.
	Active() bool
}

// New returns a fresh handler for k.
func New(k Kind) Handler {
	switch k {
	case KindPointer:
		return &pointerTool{}
	case KindRectangle:
		return &rectTool{kind: KindRectangle}
	case KindEllipse:
		return &rectTool{kind: KindEllipse}
	case KindLine:
		return &lineTool{}
	case KindPolyline:
		return &polylineTool{}
	case KindText:
		return &textTool{}
	case KindMarquee:
		return &marqueeTool{}
	}
	return noneTool{}
}

type noneTool struct{}

func (noneTool) Kind() Kind                               { return KindNone }
func (noneTool) PointerDown(*Context, PointerEvent) error { return nil }
func (noneTool) PointerMove(*Context, PointerEvent) error { return nil }
func (noneTool) PointerUp(*Context, PointerEvent) error   { return nil }
func (noneTool) KeyDown(*Context, KeyEvent) (bool, error) { return false, nil }
func (noneTool) KeyUp(*Context, KeyEvent) error           { return nil }
func (noneTool) Cancel(*Context) error                    { return nil }
func (noneTool) Cursor(*Context, vector.Pt) shape.Cursor  { return shape.CursorDefault }
func (noneTool) Active() bool                             { return false }
