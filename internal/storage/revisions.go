/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// language=SQL
// dialect=SQLite
const insertRevisionSQL = `INSERT INTO revisions(name, ts, reason, shape_count, body) VALUES (?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestRevisionSQL = `SELECT id, name, ts, reason, shape_count, body FROM revisions WHERE name = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listRevisionsSQL = `SELECT id, name, ts, reason, shape_count, body FROM revisions WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneRevisionsSQL = `DELETE FROM revisions WHERE name = ? AND id NOT IN (
	SELECT id FROM revisions WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// tsLayout has a fixed width so timestamps sort lexicographically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Revision is one stored document state.
type Revision struct {
	ID     int64
	Name   string
	TS     time.Time
	Reason string // e.g. "autosave", "crash"
	Shapes int
	Doc    Document
}

// SaveRevision stores doc under name and returns the new revision id.
func (s *Store) SaveRevision(ctx context.Context, name, reason string, doc Document, ts time.Time) (int64, error) {
	if name == "" {
		return 0, errors.New("revision name is required")
	}
	body, err := EncodeDocument(doc)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, insertRevisionSQL, name, ts.UTC().Format(tsLayout), reason, len(doc.Shapes), body)
	if err != nil {
		return 0, fmt.Errorf("insert revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.log.Debug("revision saved", slog.String("name", name), slog.String("reason", reason), slog.Int64("id", id))
	return id, nil
}

// LatestRevision returns the newest revision of name. ok is false when there is none.
func (s *Store) LatestRevision(ctx context.Context, name string) (rev Revision, ok bool, err error) {
	rev, err = scanRevision(s.db.QueryRowContext(ctx, selectLatestRevisionSQL, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, err
	}
	return rev, true, nil
}

// ListRevisions returns up to limit revisions of name, newest first.
func (s *Store) ListRevisions(ctx context.Context, name string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, listRevisionsSQL, name, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// PruneRevisions keeps the newest keep revisions of name and deletes older ones.
func (s *Store) PruneRevisions(ctx context.Context, name string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, pruneRevisionsSQL, name, name, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(r rowScanner) (Revision, error) {
	var (
		rev   Revision
		tsStr string
		body  []byte
	)
	if err := r.Scan(&rev.ID, &rev.Name, &tsStr, &rev.Reason, &rev.Shapes, &body); err != nil {
		return Revision{}, err
	}
	rev.TS, _ = time.Parse(tsLayout, tsStr)
	doc, err := DecodeDocument(body)
	if err != nil {
		return Revision{}, fmt.Errorf("revision %d: %w", rev.ID, err)
	}
	rev.Doc = doc
	return rev, nil
}
