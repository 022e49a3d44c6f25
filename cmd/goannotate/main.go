/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goannotate/internal/config"
	"goannotate/internal/crash"
	"goannotate/internal/editor"
	"goannotate/internal/export"
	applog "goannotate/internal/log"
	"goannotate/internal/script"
	"goannotate/internal/storage"
	"goannotate/internal/version"
)

func usage() {
	fmt.Println("GoAnnotate - vector annotation engine")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goannotate version|-v|--version           Show version")
	fmt.Println("  goannotate replay <script.yaml> <out>      Replay a gesture script and export the result (.svg .pdf .png .json)")
	fmt.Println("  goannotate render <doc.json> <out>         Render a saved document (.svg .pdf .png .json)")
	fmt.Println("  goannotate validate <doc.json>             Check a document against the schema")
	fmt.Println("  goannotate history <db> <name>             List stored revisions of a document")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.Options())
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", cfgErr))
	}
	target := &crash.Target{}
	defer crash.Recover(target)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GoAnnotate")
			fmt.Println(version.String())
			return
		case "replay":
			if len(args) < 4 {
				fmt.Println("replay requires <script.yaml> and <out>")
				usage()
				os.Exit(2)
			}
			replay(l, cfg, target, args[2], args[3])
			return
		case "render":
			if len(args) < 4 {
				fmt.Println("render requires <doc.json> and <out>")
				usage()
				os.Exit(2)
			}
			render(l, cfg, target, args[2], args[3])
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <doc.json>")
				usage()
				os.Exit(2)
			}
			data, err := os.ReadFile(args[2])
			if err != nil {
				fail(l, "read failed", err)
			}
			doc, err := storage.DecodeDocument(data)
			if err != nil {
				fail(l, "validate failed", err)
			}
			fmt.Printf("OK: %d shapes on a %gx%g canvas\n", len(doc.Shapes), doc.Width, doc.Height)
			return
		case "history":
			if len(args) < 4 {
				fmt.Println("history requires <db> and <name>")
				usage()
				os.Exit(2)
			}
			history(l, args[2], args[3])
			return
		}
	}

	usage()
}

// docName is the revision key for a file: its base name without extension.
func docName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openStore opens the configured revision database and points the crash
// target at it. Failure only costs the autosave, so it is logged and ignored.
func openStore(ctx context.Context, l *slog.Logger, cfg config.AppConfig, target *crash.Target) *storage.Store {
	if cfg.Storage.Database == "" {
		return nil
	}
	st, err := storage.OpenStore(ctx, cfg.Storage.Database)
	if err != nil {
		l.Warn("revision store unavailable", slog.String("path", cfg.Storage.Database), slog.Any("err", err))
		return nil
	}
	target.Store = st
	return st
}

func replay(l *slog.Logger, cfg config.AppConfig, target *crash.Target, scriptPath, out string) {
	l = applog.WithOperation(l, "replay")
	s, err := script.ParseFile(scriptPath)
	if err != nil {
		fail(l, "parse failed", err)
	}
	ed, err := s.NewEditor(cfg)
	if err != nil {
		fail(l, "editor setup failed", err)
	}
	ctx := context.Background()
	target.Name, target.Snapshot = docName(scriptPath), ed.Document
	st := openStore(ctx, l, cfg, target)
	if st != nil {
		defer st.Close()
	}
	if err := script.Run(ed, s); err != nil {
		fail(l, "replay failed", err)
	}
	if err := export.ExportFile(ed.Canvas(), out, export.Options{}); err != nil {
		fail(l, "export failed", err)
	}
	if st != nil {
		saveRevision(ctx, l, st, cfg, target.Name, ed)
	}
	l.Info("replayed", slog.String("script", scriptPath), slog.String("out", out), slog.Int("shapes", ed.Canvas().Len()))
	fmt.Printf("Replayed %d steps, wrote %s\n", len(s.Steps), out)
}

func saveRevision(ctx context.Context, l *slog.Logger, st *storage.Store, cfg config.AppConfig, name string, ed *editor.Editor) {
	doc, err := ed.Document()
	if err != nil {
		l.Warn("snapshot failed", slog.Any("err", err))
		return
	}
	if _, err := st.SaveRevision(ctx, name, "replay", doc, time.Now()); err != nil {
		l.Warn("save revision failed", slog.Any("err", err))
		return
	}
	if cfg.Storage.KeepRevisions > 0 {
		if _, err := st.PruneRevisions(ctx, name, cfg.Storage.KeepRevisions); err != nil {
			l.Warn("prune revisions failed", slog.Any("err", err))
		}
	}
}

func render(l *slog.Logger, cfg config.AppConfig, target *crash.Target, docPath, out string) {
	l = applog.WithOperation(l, "render")
	doc, err := storage.LoadDocument(docPath)
	if err != nil {
		fail(l, "load failed", err)
	}
	ed, err := editor.NewFromConfig(cfg)
	if err != nil {
		fail(l, "editor setup failed", err)
	}
	target.Name, target.Snapshot = docName(docPath), ed.Document
	if err := ed.Open(doc); err != nil {
		fail(l, "open failed", err)
	}
	if err := export.ExportFile(ed.Canvas(), out, export.Options{}); err != nil {
		fail(l, "export failed", err)
	}
	fmt.Printf("Rendered %d shapes to %s\n", ed.Canvas().Len(), out)
}

func history(l *slog.Logger, dbPath, name string) {
	l = applog.WithOperation(l, "history")
	ctx := context.Background()
	st, err := storage.OpenStore(ctx, dbPath)
	if err != nil {
		fail(l, "open store failed", err)
	}
	defer st.Close()
	revs, err := st.ListRevisions(ctx, name, 0)
	if err != nil {
		fail(l, "list failed", err)
	}
	if len(revs) == 0 {
		fmt.Printf("No revisions for %s\n", name)
		return
	}
	for _, r := range revs {
		fmt.Printf("%6d  %s  %-8s %d shapes\n", r.ID, r.TS.Local().Format(time.DateTime), r.Reason, r.Shapes)
	}
}
