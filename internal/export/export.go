/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package export writes a canvas to SVG, PDF, PNG or a JSON draw list.
// Exports show what the user annotated: shapes are drawn unselected and the
// selection overlay only decides the cropped area.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goannotate/internal/canvas"
	"goannotate/internal/render"
	"goannotate/internal/shape"
	"goannotate/internal/textlayout"
	"goannotate/internal/vector"
)

type Format string

const (
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatSVG, FormatPDF, FormatPNG, FormatJSON:
		return Format(ext), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Options controls raster scale, fonts and background.
type Options struct {
	// Scale multiplies canvas units into pixels (PNG only). Zero means 1.
	Scale float64
	// Fonts resolves text faces for PNG output; nil uses the bundled Go font.
	Fonts textlayout.Provider
	// Background fills the exported area when its alpha is non-zero.
	Background vector.Color
	// Phase is the marching-ants dash offset.
	Phase float64
}

// Area is the region an export covers: the active selection overlay if there
// is one, else the canvas size, else the content bounds.
func Area(c *canvas.Canvas) vector.Rect {
	if ov := c.CurrentSelection(); ov != nil {
		if r := ov.Bounds(); !r.Empty() {
			return r
		}
	}
	if sz := c.Size(); !sz.Empty() {
		return sz
	}
	return c.ContentBounds()
}

// Render draws detached, unselected copies of every shape so handles and
// trackers never reach the output. The canvas is not modified.
func Render(c *canvas.Canvas, surf shape.Surface) error {
	if surf == nil {
		return shape.ErrNilSurface
	}
	snaps, err := shape.SnapshotAll(c.Shapes())
	if err != nil {
		return err
	}
	for i := range snaps {
		snaps[i].Selected = false
	}
	shapes, err := shape.FromSnapshots(snaps)
	if err != nil {
		return err
	}
	for _, s := range shapes {
		if err := s.Draw(surf); err != nil {
			return err
		}
	}
	return nil
}

// Write renders c in the given format to w.
func Write(w io.Writer, c *canvas.Canvas, format Format, opt Options) error {
	area := Area(c)
	switch format {
	case FormatSVG:
		s := NewSVG(area, opt.Background)
		s.Phase = opt.Phase
		if err := Render(c, s); err != nil {
			return err
		}
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatPDF:
		s := NewPDF(area)
		s.Phase = opt.Phase
		if opt.Background.A > 0 {
			s.FillRect(area, opt.Background)
		}
		if err := Render(c, s); err != nil {
			return err
		}
		return s.WriteTo(w)
	case FormatPNG:
		s := NewPNG(area, opt.Scale, opt.Fonts, opt.Background)
		s.Phase = opt.Phase
		if err := Render(c, s); err != nil {
			return err
		}
		return s.WriteTo(w)
	case FormatJSON:
		rec := &render.Recorder{Phase: opt.Phase}
		if err := Render(c, rec); err != nil {
			return err
		}
		b, err := rec.JSON()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// ExportFile writes c to path, choosing the format by extension.
func ExportFile(c *canvas.Canvas, path string, opt Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, c, format, opt); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
