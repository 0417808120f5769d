package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/storage/sqldb"
	"github.com/Rzhan16/neuronote-ai/storage/sqldb/sqldbtest"
)

func TestSQLiteRepository(t *testing.T) {
	sqldbtest.Run(t, func(t *testing.T) *sqldb.Store {
		s, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "notes.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestMemoryRepository(t *testing.T) {
	s, err := NewMemoryRepository()
	require.NoError(t, err)
	defer s.Close()

	id, err := s.Commit(context.Background(), sqldbtest.NewNote(), nil, nil, nil)
	require.NoError(t, err)
	_, err = s.GetNote(context.Background(), id)
	assert.NoError(t, err)
}

func TestReopenKeepsNotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")

	repo, err := Open(path, nil)
	require.NoError(t, err)
	id, err := repo.Commit(context.Background(), sqldbtest.NewNote(), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = Open(path, nil)
	require.NoError(t, err)
	defer repo.Close()
	rec, err := repo.GetNote(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Note.ID)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "notes.db"), nil)
	assert.Error(t, err)
}
