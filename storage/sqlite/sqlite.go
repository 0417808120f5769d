// Package sqlite opens a NoteRepository on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // register the "sqlite3" driver

	"github.com/Rzhan16/neuronote-ai/storage"
	"github.com/Rzhan16/neuronote-ai/storage/sqldb"
)

const dsnParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Open opens (or creates) the database file at path and applies the schema.
// The path ":memory:" opens a private in-memory database.
func Open(path string, logger *slog.Logger) (storage.NoteRepository, error) {
	return OpenStore(context.Background(), path, logger)
}

// OpenStore is Open returning the concrete store.
func OpenStore(ctx context.Context, path string, logger *slog.Logger) (*sqldb.Store, error) {
	db, err := sql.Open("sqlite3", path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	store, err := sqldb.New(ctx, db, sqldb.SQLite, sqldb.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return store, nil
}
