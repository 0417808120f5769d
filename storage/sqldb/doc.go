// Package sqldb implements storage.NoteRepository on database/sql.
//
// The same Store serves SQLite and PostgreSQL; a Dialect supplies the
// column types of the schema and the placeholder syntax. Queries are
// written with ? placeholders and rebound per dialect.
package sqldb
