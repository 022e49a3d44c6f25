/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package editor is the host-facing facade over one annotation canvas. It
// owns the canvas, its undo history and the tool state machine, and is the
// only place that turns host events and property changes into commands.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"goannotate/internal/canvas"
	"goannotate/internal/config"
	applog "goannotate/internal/log"
	"goannotate/internal/shape"
	"goannotate/internal/textlayout"
	"goannotate/internal/tool"
	"goannotate/internal/undo"
	"goannotate/internal/vector"
)

var (
	ErrInvalidStyle = errors.New("editor: invalid style")
	ErrNilShape     = errors.New("editor: nil shape")
)

// Options configures a new Editor. Zero values fall back to the package defaults.
type Options struct {
	Width, Height float64
	Undo          undo.Config
	Tool          tool.Kind
	Style         shape.Style
	Font          shape.Font
	Measurer      tool.Measurer
	// MinMarquee and PolylineMinDistance override the tool thresholds when positive.
	MinMarquee          float64
	PolylineMinDistance float64
	// OnCapture is told when pointer capture is acquired or released.
	OnCapture func(held bool)
}

type Editor struct {
	canvas  *canvas.Canvas
	history *undo.Manager
	tools   *tool.Machine
	log     *slog.Logger
}

func New(opt Options) *Editor {
	c := canvas.New(opt.Width, opt.Height)
	if opt.Undo == (undo.Config{}) {
		opt.Undo = undo.DefaultConfig()
	}
	h := undo.NewManager(c, opt.Undo)
	ctx := tool.NewContext(c, h)
	if opt.Style != (shape.Style{}) {
		ctx.Style = opt.Style
	}
	if opt.Font != (shape.Font{}) {
		ctx.Font = opt.Font
	}
	if opt.Measurer != nil {
		ctx.Measurer = opt.Measurer
	}
	if opt.MinMarquee > 0 {
		ctx.MinMarquee = opt.MinMarquee
	}
	if opt.PolylineMinDistance > 0 {
		ctx.PolylineMinDistance = opt.PolylineMinDistance
	}
	ctx.Capture.OnChange = opt.OnCapture
	if opt.Tool == tool.KindNone {
		opt.Tool = tool.KindPointer
	}
	return &Editor{
		canvas:  c,
		history: h,
		tools:   tool.NewMachine(ctx, opt.Tool),
		log:     applog.WithComponent("editor"),
	}
}

// NewFromConfig builds an editor from the user configuration. Text boxes are
// measured with the bundled fonts.
func NewFromConfig(cfg config.AppConfig) (*Editor, error) {
	st, err := cfg.Tools.Style(1)
	if err != nil {
		return nil, err
	}
	k, err := tool.ParseKind(cfg.Tools.Default)
	if err != nil {
		return nil, err
	}
	fonts := textlayout.OTProvider{Lib: textlayout.NewDefaultLibrary()}
	return New(Options{
		Width:               cfg.Canvas.Width,
		Height:              cfg.Canvas.Height,
		Undo:                undo.Config{MaxDepth: cfg.Undo.MaxDepth, MaxSnapshots: cfg.Undo.MaxSnapshots},
		Tool:                k,
		Style:               st,
		Font:                cfg.Tools.Font(),
		Measurer:            textlayout.FaceMeasurer{Provider: fonts},
		MinMarquee:          cfg.Canvas.MinMarquee,
		PolylineMinDistance: cfg.Canvas.PolylineMinDistance,
	}), nil
}

func (e *Editor) Canvas() *canvas.Canvas { return e.canvas }
func (e *Editor) History() *undo.Manager { return e.history }

// Draw renders the canvas, trackers and the selection overlay onto surf.
func (e *Editor) Draw(surf shape.Surface) error { return e.canvas.Draw(surf) }

// AddShape places s on top of the canvas as one undoable step. A shape whose
// id is already on the canvas is rejected with shape.ErrDuplicateID.
func (e *Editor) AddShape(s shape.Shape) error {
	if s == nil {
		return ErrNilShape
	}
	if e.busy() {
		return undo.ErrGestureOpen
	}
	if other, _ := e.canvas.ByID(s.ID()); other != nil {
		return fmt.Errorf("%w: %s", shape.ErrDuplicateID, s.ID())
	}
	cmd, err := undo.NewAdd(e.canvas, s)
	if err != nil {
		return err
	}
	e.canvas.Add(s)
	e.history.Record(cmd)
	return nil
}

// DeleteSelected removes the selected shapes. It reports whether anything was deleted.
func (e *Editor) DeleteSelected() (bool, error) {
	if e.busy() {
		return false, undo.ErrGestureOpen
	}
	sel := e.canvas.Selected()
	if len(sel) == 0 {
		return false, nil
	}
	cmd, err := undo.NewDelete(e.canvas, sel)
	if err != nil {
		return false, err
	}
	if err := e.history.Execute(cmd); err != nil {
		return false, err
	}
	e.canvas.ClearSelection()
	e.log.Debug("deleted selection", slog.Int("count", len(sel)))
	return true, nil
}

// DeleteAll removes every shape as one undoable step.
func (e *Editor) DeleteAll() error {
	if e.busy() {
		return undo.ErrGestureOpen
	}
	if e.canvas.Len() == 0 {
		return nil
	}
	cmd, err := undo.NewDeleteAll(e.canvas)
	if err != nil {
		return err
	}
	if err := e.history.Execute(cmd); err != nil {
		return err
	}
	e.canvas.ClearSelection()
	return nil
}

// Clear empties the canvas and the history, as when a new image is loaded.
// The result is clean.
func (e *Editor) Clear() {
	_ = e.tools.Cancel()
	e.canvas.Clear()
	e.canvas.ClearSelection()
	e.history.Clear()
	e.canvas.MarkSaved()
	e.log.Info("canvas cleared")
}

// Undo is ignored while a gesture is in progress.
func (e *Editor) Undo() (bool, error) {
	if e.busy() {
		return false, nil
	}
	return e.history.Undo()
}

// Redo is ignored while a gesture is in progress.
func (e *Editor) Redo() (bool, error) {
	if e.busy() {
		return false, nil
	}
	return e.history.Redo()
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

func (e *Editor) busy() bool { return e.tools.Active() || e.history.IsOpen() }

func (e *Editor) SelectAll()              { e.canvas.SelectAll() }
func (e *Editor) UnselectAll()            { e.canvas.UnselectAll() }
func (e *Editor) HasSelection() bool      { return e.canvas.HasSelection() }
func (e *Editor) Selected() []shape.Shape { return e.canvas.Selected() }

// ClearSelection drops the active selection overlay. Shape flags are kept.
func (e *Editor) ClearSelection() { e.canvas.ClearSelection() }

// CurrentSelection is the active selection overlay, or nil.
func (e *Editor) CurrentSelection() *shape.SelectionRect { return e.canvas.CurrentSelection() }

func (e *Editor) IsDirty() bool { return e.canvas.IsDirty() }
func (e *Editor) MarkSaved()    { e.canvas.MarkSaved() }

// CanCopyToClipboard reports whether there is a stable image to copy: the
// canvas has an area and no gesture is half done.
func (e *Editor) CanCopyToClipboard() bool {
	return !e.canvas.Size().Empty() && !e.busy()
}

func (e *Editor) Tool() tool.Kind { return e.tools.Kind() }

// SetTool switches the active tool, cancelling a running gesture.
func (e *Editor) SetTool(k tool.Kind) error { return e.tools.SetKind(k) }

func (e *Editor) LineWidth() float64          { return e.tools.Context().Style.LineWidth }
func (e *Editor) LineStyle() vector.LineStyle { return e.tools.Context().Style.LineStyle }
func (e *Editor) Color() vector.Color         { return e.tools.Context().Style.Color }
func (e *Editor) Font() shape.Font            { return e.tools.Context().Font }
func (e *Editor) SetFont(f shape.Font)        { e.tools.Context().Font = f }

// SetLineWidth changes the default for new shapes and restyles the selection.
func (e *Editor) SetLineWidth(w float64) error {
	if w < 0 || math.IsNaN(w) {
		return fmt.Errorf("%w: line width %v", ErrInvalidStyle, w)
	}
	return e.restyle(func(st *shape.Style) { st.LineWidth = w })
}

func (e *Editor) SetLineStyle(ls vector.LineStyle) error {
	return e.restyle(func(st *shape.Style) { st.LineStyle = ls })
}

func (e *Editor) SetColor(c vector.Color) error {
	return e.restyle(func(st *shape.Style) { st.Color = c })
}

// restyle applies f to the tool defaults and to every selected shape. The
// selection change is a single undo entry.
func (e *Editor) restyle(f func(*shape.Style)) error {
	if e.busy() {
		return undo.ErrGestureOpen
	}
	ctx := e.tools.Context()
	f(&ctx.Style)
	sel := e.canvas.Selected()
	if len(sel) == 0 {
		return nil
	}
	before, err := shape.SnapshotAll(sel)
	if err != nil {
		return err
	}
	for _, s := range sel {
		st := s.Style()
		f(&st)
		s.SetStyle(st)
	}
	after, err := shape.SnapshotAll(sel)
	if err != nil {
		return err
	}
	changed := false
	for i := range before {
		if !before[i].Equal(after[i]) {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	e.history.Record(undo.NewChangeState(before, after))
	e.canvas.MarkDirty()
	return nil
}

// MoveToFront raises the selected shapes above all others.
func (e *Editor) MoveToFront() (bool, error) { return e.reorder(e.canvas.MoveSelectedToFront) }

// MoveToBack lowers the selected shapes below all others.
func (e *Editor) MoveToBack() (bool, error) { return e.reorder(e.canvas.MoveSelectedToBack) }

func (e *Editor) reorder(move func() bool) (bool, error) {
	if e.busy() {
		return false, undo.ErrGestureOpen
	}
	before := e.canvas.Order()
	if !move() {
		return false, nil
	}
	e.history.Record(undo.NewChangeOrder(before, e.canvas.Order()))
	return true, nil
}

// ExportSnapshots captures every shape, bottom to top.
func (e *Editor) ExportSnapshots() ([]shape.Snapshot, error) {
	return shape.SnapshotAll(e.canvas.Shapes())
}

// ImportSnapshots replaces the canvas content with fresh shapes built from
// snaps, clears the history and leaves the canvas clean. On error the canvas
// is left untouched.
func (e *Editor) ImportSnapshots(snaps []shape.Snapshot) error {
	shapes, err := shape.FromSnapshots(snaps)
	if err != nil {
		return err
	}
	_ = e.tools.Cancel()
	e.canvas.Clear()
	e.canvas.ClearSelection()
	for _, s := range shapes {
		e.canvas.Add(s)
	}
	e.history.Clear()
	e.canvas.MarkSaved()
	e.log.Info("snapshots imported", slog.Int("shapes", len(shapes)))
	return nil
}
