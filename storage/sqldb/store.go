// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Rzhan16/neuronote-ai/core"
	"github.com/Rzhan16/neuronote-ai/storage"
)

// Store is a NoteRepository over a database/sql connection pool.
type Store struct {
	db      *sql.DB
	dialect Dialect
	closed  atomic.Bool
	logger  *slog.Logger
}

var _ storage.NoteRepository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps db and applies the dialect's schema. The Store owns db and
// closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "storage", "driver", dialect.Name)

	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return s, nil
}

// Commit writes note and its artifacts in a single transaction.
// Tags are stored as a set in the order given: they are normalized and
// duplicates after the first occurrence are dropped.
func (s *Store) Commit(ctx context.Context, note core.Note, blocks []core.LayoutBlock, cards []core.QuizCard, tags []core.Tag) (core.NoteID, error) {
	if s.closed.Load() {
		return "", fmt.Errorf("%w: %w", core.ErrPersistenceFailure, storage.ErrStorageClosed)
	}
	if note.ID == "" || note.Source == core.CategoryUnsupported {
		return "", fmt.Errorf("%w: %w: missing id or source", core.ErrPersistenceFailure, storage.ErrInvalidNote)
	}

	tags = core.DedupeTags(tags)
	if err := s.commit(ctx, note, blocks, cards, tags); err != nil {
		s.logger.Error("commit rolled back", "note", note.ID, "err", err)
		return "", fmt.Errorf("%w: %w", core.ErrPersistenceFailure, err)
	}

	s.logger.Debug("note committed", "note", note.ID,
		"blocks", len(blocks), "cards", len(cards), "tags", len(tags))
	return note.ID, nil
}

func (s *Store) commit(ctx context.Context, note core.Note, blocks []core.LayoutBlock, cards []core.QuizCard, tags []core.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.ExecContext(ctx, s.dialect.Rebind(
		`INSERT INTO notes (id, text, summary, source, created_at) VALUES (?, ?, ?, ?, ?)`),
		string(note.ID), note.Text, note.Summary, note.Source.String(), note.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	if err := s.insertEach(ctx, tx, "layout block",
		`INSERT INTO layout_blocks (note_id, seq, text, x1, y1, x2, y2) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(blocks), func(i int) []any {
			b := blocks[i]
			return []any{string(note.ID), i, b.Text, b.Box.X1, b.Box.Y1, b.Box.X2, b.Box.Y2}
		}); err != nil {
		return err
	}

	if err := s.insertEach(ctx, tx, "quiz card",
		`INSERT INTO quiz_cards (note_id, seq, question, answer) VALUES (?, ?, ?, ?)`,
		len(cards), func(i int) []any {
			return []any{string(note.ID), i, cards[i].Question, cards[i].Answer}
		}); err != nil {
		return err
	}

	if err := s.insertEach(ctx, tx, "tag",
		`INSERT INTO tags (note_id, seq, tag) VALUES (?, ?, ?)`,
		len(tags), func(i int) []any {
			return []any{string(note.ID), i, string(tags[i])}
		}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) insertEach(ctx context.Context, tx *sql.Tx, what, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(query))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", what, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert %s %d: %w", what, i, err)
		}
	}
	return nil
}

// GetNote reads a note and its artifacts in one read transaction.
func (s *Store) GetNote(ctx context.Context, id core.NoteID) (*core.NoteRecord, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rec := &core.NoteRecord{
		Blocks: []core.LayoutBlock{},
		Cards:  []core.QuizCard{},
		Tags:   []core.Tag{},
	}

	var (
		noteID    string
		source    string
		createdAt time.Time
	)
	err = tx.QueryRowContext(ctx, s.dialect.Rebind(
		`SELECT id, text, summary, source, created_at FROM notes WHERE id = ?`), string(id)).
		Scan(&noteID, &rec.Note.Text, &rec.Note.Summary, &source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: note %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	rec.Note.ID = core.NoteID(noteID)
	rec.Note.Source = parseCategory(source)
	rec.Note.CreatedAt = createdAt.UTC()

	err = s.queryEach(ctx, tx, `SELECT text, x1, y1, x2, y2 FROM layout_blocks WHERE note_id = ? ORDER BY seq`, id,
		func(rows *sql.Rows) error {
			var b core.LayoutBlock
			if err := rows.Scan(&b.Text, &b.Box.X1, &b.Box.Y1, &b.Box.X2, &b.Box.Y2); err != nil {
				return err
			}
			rec.Blocks = append(rec.Blocks, b)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("query layout blocks: %w", err)
	}

	err = s.queryEach(ctx, tx, `SELECT question, answer FROM quiz_cards WHERE note_id = ? ORDER BY seq`, id,
		func(rows *sql.Rows) error {
			var c core.QuizCard
			if err := rows.Scan(&c.Question, &c.Answer); err != nil {
				return err
			}
			rec.Cards = append(rec.Cards, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("query quiz cards: %w", err)
	}

	err = s.queryEach(ctx, tx, `SELECT tag FROM tags WHERE note_id = ? ORDER BY seq`, id,
		func(rows *sql.Rows) error {
			var t string
			if err := rows.Scan(&t); err != nil {
				return err
			}
			rec.Tags = append(rec.Tags, core.Tag(t))
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}

	return rec, nil
}

func (s *Store) queryEach(ctx context.Context, tx *sql.Tx, query string, id core.NoteID, scan func(*sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, s.dialect.Rebind(query), string(id))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DB exposes the underlying pool, mainly for tests and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the dialect the store was created with.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database. Calling Close more than once is a no-op.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// IsClosed returns true if the store is closed.
func (s *Store) IsClosed() bool {
	return s.closed.Load()
}

func parseCategory(s string) core.Category {
	for _, c := range []core.Category{core.CategoryImage, core.CategoryAudio, core.CategoryText} {
		if c.String() == s {
			return c
		}
	}
	return core.CategoryUnsupported
}
