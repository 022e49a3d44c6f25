/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package crash

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goannotate/internal/editor"
	"goannotate/internal/shape"
	"goannotate/internal/storage"
	"goannotate/internal/vector"
)

// TestRecover_SavesCrashRevision ensures Recover handles a panic, writes a report,
// autosaves the editor content, and does not terminate the test process due to injected exitFn.
func TestRecover_SavesCrashRevision(t *testing.T) {
	// Capture stderr temporarily to avoid noisy test logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r) // drain pipe
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	ctx := context.Background()
	store, err := storage.OpenStore(ctx, filepath.Join(root, "revisions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ed := editor.New(editor.Options{Width: 100, Height: 100})
	if err := ed.AddShape(shape.NewEllipse(vector.R(10, 10, 20, 20), shape.DefaultStyle())); err != nil {
		t.Fatal(err)
	}
	target := &Target{Name: "shot", Dir: root, Store: store, Snapshot: ed.Document}

	func() {
		defer Recover(target)
		panic("boom")
	}()

	var found string
	files, _ := os.ReadDir(root)
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(root, f.Name())
			break
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file under %s", root)
	}
	b, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}
	rev, ok, err := store.LatestRevision(ctx, "shot")
	if err != nil || !ok {
		t.Fatalf("expected crash revision: %v %v", ok, err)
	}
	if rev.Reason != "crash" || len(rev.Doc.Shapes) != 1 {
		t.Fatalf("unexpected revision %+v", rev)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}

func TestAutosaveSurvivesPanickingSnapshot(t *testing.T) {
	store, err := storage.OpenStore(context.Background(), filepath.Join(t.TempDir(), "r.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	_, err = autosave(&Target{Store: store, Snapshot: func() (storage.Document, error) { panic("corrupt") }})
	if err == nil || !strings.Contains(err.Error(), "corrupt") {
		t.Fatalf("expected the snapshot panic as an error, got %v", err)
	}
	if id, err := autosave(nil); id != 0 || err != nil {
		t.Fatalf("nil target: %d %v", id, err)
	}
}
