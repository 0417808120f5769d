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


// Package storage provides the persistence abstraction for NeuroNote.
//
// NoteRepository is the contract the pipeline commits through: a note and
// all of its derived artifacts (layout blocks, quiz cards, tags) are written
// together or not at all.
//
// # Constructor Return Type Pattern
//
// Public constructors return the NoteRepository interface to keep callers
// independent of the backend:
//
//	repo, err := sqlite.Open(path, logger)     // returns storage.NoteRepository
//	repo, err := postgres.Open(ctx, dsn, nil) // returns storage.NoteRepository
//
// # Backends
//
//   - storage/sqldb: database/sql implementation shared by both dialects
//   - storage/sqlite: embedded SQLite via mattn/go-sqlite3 (default)
//   - storage/postgres: PostgreSQL via the pgx stdlib driver
//
// Schema creation is idempotent (CREATE TABLE IF NOT EXISTS) and runs on open.
// Every artifact table references notes(id) with ON DELETE CASCADE.
package storage
