// Package sqldbtest holds the behavior every sqldb dialect must show.
package sqldbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/core"
	"github.com/Rzhan16/neuronote-ai/storage"
	"github.com/Rzhan16/neuronote-ai/storage/sqldb"
)

// Opener returns a fresh, empty store for one subtest.
type Opener func(t *testing.T) *sqldb.Store

// Run exercises a store produced by open against the repository contract.
func Run(t *testing.T, open Opener) {
	t.Run("commit and read back", func(t *testing.T) { testCommitAndGet(t, open(t)) })
	t.Run("empty artifacts", func(t *testing.T) { testEmptyArtifacts(t, open(t)) })
	t.Run("unknown note", func(t *testing.T) { testUnknownNote(t, open(t)) })
	t.Run("failed commit leaves nothing", func(t *testing.T) { testAtomicity(t, open(t)) })
	t.Run("tags are a set", func(t *testing.T) { testTagSet(t, open(t)) })
	t.Run("bounding box constraint", func(t *testing.T) { testBoxConstraint(t, open(t)) })
	t.Run("invalid note", func(t *testing.T) { testInvalidNote(t, open(t)) })
	t.Run("concurrent commits", func(t *testing.T) { testConcurrentCommits(t, open(t)) })
	t.Run("cascade delete", func(t *testing.T) { testCascade(t, open(t)) })
	t.Run("closed", func(t *testing.T) { testClosed(t, open(t)) })
}

// NewNote returns a valid image note created at a fixed instant.
func NewNote() core.Note {
	return core.Note{
		ID:        core.NewNoteID(),
		Text:      "Mitochondria produce ATP. Ribosomes build proteins.",
		Summary:   "Cells have organelles with distinct jobs.",
		Source:    core.CategoryImage,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RowCounts returns the number of rows per table.
func RowCounts(t *testing.T, s *sqldb.Store) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	for _, table := range []string{"notes", "layout_blocks", "quiz_cards", "tags"} {
		var n int
		require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		counts[table] = n
	}
	return counts
}

func testCommitAndGet(t *testing.T, s *sqldb.Store) {
	ctx := context.Background()
	note := NewNote()
	blocks := []core.LayoutBlock{
		{Text: "Mitochondria", Box: core.BoundingBox{X1: 0.1, Y1: 0.1, X2: 0.4, Y2: 0.2}},
		{Text: "Ribosomes", Box: core.BoundingBox{X1: 0.1, Y1: 0.5, X2: 0.35, Y2: 0.6}},
	}
	cards := []core.QuizCard{
		{Question: "What do mitochondria produce?", Answer: "Mitochondria produce ATP."},
		{Question: "What do ribosomes build?", Answer: "Ribosomes build proteins."},
	}
	tags := []core.Tag{"ribosomes", "mitochondria", "atp"}

	id, err := s.Commit(ctx, note, blocks, cards, tags)
	require.NoError(t, err)
	assert.Equal(t, note.ID, id)

	rec, err := s.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, note.ID, rec.Note.ID)
	assert.Equal(t, note.Text, rec.Note.Text)
	assert.Equal(t, note.Summary, rec.Note.Summary)
	assert.Equal(t, core.CategoryImage, rec.Note.Source)
	assert.True(t, note.CreatedAt.Equal(rec.Note.CreatedAt), "created_at %v != %v", rec.Note.CreatedAt, note.CreatedAt)
	assert.Equal(t, blocks, rec.Blocks)
	assert.Equal(t, cards, rec.Cards)
	assert.Equal(t, tags, rec.Tags, "tags keep their ranking order")
}

func testEmptyArtifacts(t *testing.T, s *sqldb.Store) {
	ctx := context.Background()
	note := NewNote()
	note.Source = core.CategoryText

	id, err := s.Commit(ctx, note, nil, nil, nil)
	require.NoError(t, err)

	rec, err := s.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryText, rec.Note.Source)
	assert.NotNil(t, rec.Blocks)
	assert.Empty(t, rec.Blocks)
	assert.Empty(t, rec.Cards)
	assert.Empty(t, rec.Tags)
}

func testUnknownNote(t *testing.T, s *sqldb.Store) {
	_, err := s.GetNote(context.Background(), core.NewNoteID())
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testAtomicity(t *testing.T, s *sqldb.Store) {
	ctx := context.Background()
	note := NewNote()
	// The second block violates the box CHECK after the note row and the
	// first block were written.
	blocks := []core.LayoutBlock{
		{Text: "x", Box: core.BoundingBox{X2: 1, Y2: 1}},
		{Text: "y", Box: core.BoundingBox{X1: 0.9, X2: 0.1, Y2: 1}},
	}
	cards := []core.QuizCard{{Question: "q?", Answer: "a."}}

	_, err := s.Commit(ctx, note, blocks, cards, []core.Tag{"atp"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistenceFailure)

	for table, n := range RowCounts(t, s) {
		assert.Zero(t, n, "table %s", table)
	}
	_, err = s.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testTagSet(t *testing.T, s *sqldb.Store) {
	ctx := context.Background()

	id, err := s.Commit(ctx, NewNote(), nil, nil, []core.Tag{"ATP", "atp", " atp ", "cell  wall", ""})
	require.NoError(t, err)

	rec, err := s.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []core.Tag{"atp", "cell wall"}, rec.Tags)

	id, err = s.Commit(ctx, NewNote(), nil, nil, []core.Tag{"atp", "atp"})
	require.NoError(t, err)
	rec, err = s.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []core.Tag{"atp"}, rec.Tags)
}

func testBoxConstraint(t *testing.T, s *sqldb.Store) {
	note := NewNote()
	blocks := []core.LayoutBlock{{Text: "x", Box: core.BoundingBox{X1: 0.5, Y1: 0, X2: 0.2, Y2: 1}}}

	_, err := s.Commit(context.Background(), note, blocks, nil, nil)
	require.ErrorIs(t, err, core.ErrPersistenceFailure)
	assert.Zero(t, RowCounts(t, s)["notes"])
}

func testInvalidNote(t *testing.T, s *sqldb.Store) {
	note := NewNote()
	note.ID = ""
	_, err := s.Commit(context.Background(), note, nil, nil, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidNote)
	assert.ErrorIs(t, err, core.ErrPersistenceFailure)
}

func testConcurrentCommits(t *testing.T, s *sqldb.Store) {
	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			note := NewNote()
			note.Text = fmt.Sprintf("note %d", i)
			_, errs[i] = s.Commit(context.Background(), note, nil,
				[]core.QuizCard{{Question: "Which note?", Answer: note.Text}},
				[]core.Tag{core.Tag(fmt.Sprintf("tag%d", i))})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	counts := RowCounts(t, s)
	assert.Equal(t, n, counts["notes"])
	assert.Equal(t, n, counts["quiz_cards"])
	assert.Equal(t, n, counts["tags"])
}

func testCascade(t *testing.T, s *sqldb.Store) {
	ctx := context.Background()
	note := NewNote()
	_, err := s.Commit(ctx, note,
		[]core.LayoutBlock{{Text: "x", Box: core.BoundingBox{X2: 1, Y2: 1}}},
		[]core.QuizCard{{Question: "q?", Answer: "a."}},
		[]core.Tag{"atp"})
	require.NoError(t, err)

	_, err = s.DB().Exec(s.Dialect().Rebind("DELETE FROM notes WHERE id = ?"), string(note.ID))
	require.NoError(t, err)

	for table, n := range RowCounts(t, s) {
		assert.Zero(t, n, "table %s", table)
	}
}

func testClosed(t *testing.T, s *sqldb.Store) {
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())

	_, err := s.Commit(context.Background(), NewNote(), nil, nil, nil)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = s.GetNote(context.Background(), core.NewNoteID())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
