/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

func sampleDoc(t *testing.T) Document {
	t.Helper()
	shapes := []shape.Shape{
		shape.NewRectangle(vector.R(10, 20, 30, 40), shape.DefaultStyle()),
		shape.NewLine(vector.P(0, 0), vector.P(50, 10), shape.Style{LineWidth: 3, LineStyle: vector.Dashed, Color: vector.Color{R: 255, A: 128}, Scale: 2}),
		shape.NewPolyline([]vector.Pt{vector.P(1, 1), vector.P(2, 5), vector.P(9, 3)}, shape.DefaultStyle()),
		shape.NewText(vector.R(0, 0, 40, 20), "hi\nthere", shape.DefaultFont(), shape.DefaultStyle()),
	}
	snaps, err := shape.SnapshotAll(shapes)
	if err != nil {
		t.Fatal(err)
	}
	return NewDocument(640, 480, snaps)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDoc(t)
	data, err := EncodeDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateDocument(data); err != nil {
		t.Fatalf("encoded document must satisfy the schema: %v", err)
	}
	got, err := DecodeDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != DocumentVersion || got.Width != 640 || got.Height != 480 || len(got.Shapes) != len(doc.Shapes) {
		t.Fatalf("header mismatch: %+v", got)
	}
	for i := range doc.Shapes {
		if !doc.Shapes[i].Equal(got.Shapes[i]) {
			t.Fatalf("shape %d: %+v != %+v", i, got.Shapes[i], doc.Shapes[i])
		}
	}
}

func TestEmptyDocumentEncodesShapesArray(t *testing.T) {
	data, err := EncodeDocument(Document{Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"shapes": []`) {
		t.Fatalf("shapes should encode as an empty array: %s", data)
	}
	if _, err := DecodeDocument(data); err != nil {
		t.Fatalf("empty document should be valid: %v", err)
	}
}

func TestInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"missing shape": `{"version":1,"width":1,"height":1}`,
		"overlay kind":  `{"version":1,"width":1,"height":1,"shapes":[{"kind":"selection","id":"a","line_width":1,"line_style":"solid","color":"#000000"}]}`,
		"bad color":     `{"version":1,"width":1,"height":1,"shapes":[{"kind":"rectangle","id":"a","line_width":1,"line_style":"solid","color":"black"}]}`,
		"negative":      `{"version":1,"width":1,"height":1,"shapes":[{"kind":"rectangle","id":"a","line_width":-1,"line_style":"solid","color":"#000000"}]}`,
		"empty line":    `{"version":1,"width":1,"height":1,"shapes":[{"kind":"polyline","id":"a","line_width":1,"line_style":"solid","color":"#000000"}]}`,
		"future":        `{"version":99,"width":1,"height":1,"shapes":[]}`,
	}
	for name, doc := range cases {
		if _, err := DecodeDocument([]byte(doc)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("%s: expected ErrInvalidDocument, got %v", name, err)
		}
	}
}

func TestSaveCreatesBackupsAndPrunes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.json")
	doc := sampleDoc(t)
	for i := 0; i < 4; i++ {
		doc.Width = float64(100 + i)
		if err := SaveDocument(path, doc, 2); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	backups, err := Backups(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	got, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 103 {
		t.Fatalf("expected latest save, got width %v", got.Width)
	}
	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadFallsBackToBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.json")
	doc := sampleDoc(t)
	if err := SaveDocument(path, doc, 0); err != nil {
		t.Fatal(err)
	}
	if err := SaveDocument(path, doc, 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("expected recovery from backup: %v", err)
	}
	if len(got.Shapes) != len(doc.Shapes) {
		t.Fatalf("backup content mismatch")
	}
	if _, err := LoadDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing document without backups must fail")
	}
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	doc := sampleDoc(t)
	doc.Shapes[1].ID = doc.Shapes[0].ID
	data, err := EncodeDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodeDocument(data)
	if !errors.Is(err, ErrInvalidDocument) || !errors.Is(err, shape.ErrDuplicateID) {
		t.Fatalf("expected ErrInvalidDocument wrapping ErrDuplicateID, got %v", err)
	}
}
