/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package editor

import (
	"goannotate/internal/storage"
)

// Document captures the canvas size and every shape for persistence.
func (e *Editor) Document() (storage.Document, error) {
	snaps, err := e.ExportSnapshots()
	if err != nil {
		return storage.Document{}, err
	}
	sz := e.canvas.Size()
	return storage.NewDocument(sz.W, sz.H, snaps), nil
}

// Open replaces the canvas with doc. Like ImportSnapshots it clears the
// history and leaves the canvas clean.
func (e *Editor) Open(doc storage.Document) error {
	if err := e.ImportSnapshots(doc.Shapes); err != nil {
		return err
	}
	e.canvas.SetSize(doc.Width, doc.Height)
	e.canvas.MarkSaved()
	return nil
}
