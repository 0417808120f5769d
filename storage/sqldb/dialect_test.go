package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	q := "INSERT INTO tags (note_id, tag) VALUES (?, ?)"
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "INSERT INTO tags (note_id, tag) VALUES ($1, $2)", Postgres.Rebind(q))
	assert.Equal(t, "SELECT 1", Postgres.Rebind("SELECT 1"))
}

func TestSchemaPerDialect(t *testing.T) {
	assert.Len(t, SQLite.Schema, 4)
	assert.Len(t, Postgres.Schema, 4)
	assert.Contains(t, SQLite.Schema[0], "DATETIME")
	assert.Contains(t, Postgres.Schema[0], "TIMESTAMPTZ")
	assert.Contains(t, Postgres.Schema[1], "DOUBLE PRECISION")
	for _, stmt := range SQLite.Schema[1:] {
		assert.Contains(t, stmt, "ON DELETE CASCADE")
		assert.Contains(t, stmt, "seq")
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, "image", parseCategory("image").String())
	assert.Equal(t, "audio", parseCategory("audio").String())
	assert.Equal(t, "text", parseCategory("text").String())
	assert.Equal(t, "unsupported", parseCategory("pdf").String())
}
