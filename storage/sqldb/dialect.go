package sqldb

import (
	"strconv"
	"strings"
)

// Dialect describes the SQL differences between supported databases.
type Dialect struct {
	Name string

	// Schema is applied statement by statement when a Store is created.
	Schema []string

	// Numbered placeholders ($1, $2, ...) instead of ?.
	Numbered bool
}

// SQLite is the dialect for mattn/go-sqlite3.
var SQLite = Dialect{
	Name:   "sqlite3",
	Schema: schema("DATETIME", "REAL"),
}

// Postgres is the dialect for the pgx stdlib driver.
var Postgres = Dialect{
	Name:     "pgx",
	Schema:   schema("TIMESTAMPTZ", "DOUBLE PRECISION"),
	Numbered: true,
}

func schema(timeType, floatType string) []string {
	coord := func(c string) string {
		return c + " " + floatType + " NOT NULL CHECK (" + c + " >= 0 AND " + c + " <= 1)"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	summary    TEXT NOT NULL,
	source     TEXT NOT NULL CHECK (source IN ('image', 'audio', 'text')),
	created_at ` + timeType + ` NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS layout_blocks (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	seq     INTEGER NOT NULL,
	text    TEXT NOT NULL,
	` + coord("x1") + `,
	` + coord("y1") + `,
	` + coord("x2") + `,
	` + coord("y2") + `,
	CHECK (x2 >= x1 AND y2 >= y1),
	PRIMARY KEY (note_id, seq)
)`,
		`CREATE TABLE IF NOT EXISTS quiz_cards (
	note_id  TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer   TEXT NOT NULL,
	PRIMARY KEY (note_id, seq)
)`,
		`CREATE TABLE IF NOT EXISTS tags (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	seq     INTEGER NOT NULL,
	tag     TEXT NOT NULL CHECK (length(tag) > 0),
	PRIMARY KEY (note_id, tag),
	UNIQUE (note_id, seq)
)`,
	}
}

// Rebind rewrites ? placeholders for d.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
