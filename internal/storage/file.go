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
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	applog "goannotate/internal/log"
)

const BackupsDirName = "backups"

// SaveDocument writes doc to path with transactional semantics. The previous
// file, if any, is copied to a timestamped backup first; only the newest
// keepBackups backups are retained (0 keeps all).
func SaveDocument(path string, doc Document, keepBackups int) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("document path is required")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "save").With(slog.String("path", path))
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure document dir: %w", err)
	}

	// If a current file exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(path); statErr == nil {
		bpath := backupPath(path, time.Now())
		if cerr := copyFile(path, bpath); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
		if keepBackups > 0 {
			if n, perr := pruneBackups(path, keepBackups); perr != nil {
				l.Warn("prune backups failed", slog.Any("err", perr))
			} else if n > 0 {
				l.Debug("backups pruned", slog.Int("removed", n))
			}
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	l.Info("document saved", slog.Int("shapes", len(doc.Shapes)))
	return nil
}

// LoadDocument reads and validates the document at path. If the file cannot
// be read or is invalid, the newest backup is tried instead.
func LoadDocument(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		doc, derr := DecodeDocument(b)
		if derr == nil {
			return doc, nil
		}
		err = derr
	}
	doc, berr := loadLatestBackup(path)
	if berr != nil {
		return Document{}, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
	}
	applog.WithComponent("storage").Warn("document restored from backup", slog.String("path", path), slog.Any("err", err))
	return doc, nil
}

// backupPath names a backup that sorts after every existing one taken at an
// earlier or equal time.
func backupPath(path string, now time.Time) string {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	stamp := now.Format("20060102-150405.000000000")
	for i := 0; ; i++ {
		p := filepath.Join(bdir, fmt.Sprintf("%s.%s-%02d.bak", filepath.Base(path), stamp, i))
		if _, err := os.Stat(p); err != nil {
			return p
		}
	}
}

// Backups lists the backups of path, oldest first.
func Backups(path string) ([]string, error) {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func pruneBackups(path string, keep int) (int, error) {
	all, err := Backups(path)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(all) > keep {
		if err := os.Remove(all[0]); err != nil {
			return removed, err
		}
		all = all[1:]
		removed++
	}
	return removed, nil
}

func loadLatestBackup(path string) (Document, error) {
	all, err := Backups(path)
	if err != nil {
		return Document{}, err
	}
	if len(all) == 0 {
		return Document{}, errors.New("no backups found")
	}
	b, err := os.ReadFile(all[len(all)-1])
	if err != nil {
		return Document{}, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := DecodeDocument(b)
	if err != nil {
		return Document{}, fmt.Errorf("parse latest backup: %w", err)
	}
	return doc, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
