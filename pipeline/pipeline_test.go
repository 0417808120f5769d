package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/ai/mock"
	"github.com/Rzhan16/neuronote-ai/core"
)

// testRepository implements storage.NoteRepository in memory.
type testRepository struct {
	mu      sync.Mutex
	commits []*core.NoteRecord
	err     error
}

func (r *testRepository) Commit(ctx context.Context, note core.Note, blocks []core.LayoutBlock, cards []core.QuizCard, tags []core.Tag) (core.NoteID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.commits = append(r.commits, &core.NoteRecord{Note: note, Blocks: blocks, Cards: cards, Tags: tags})
	return note.ID, nil
}

func (r *testRepository) GetNote(ctx context.Context, id core.NoteID) (*core.NoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.commits {
		if rec.Note.ID == id {
			return rec, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *testRepository) Close() error { return nil }

func (r *testRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commits)
}

const lecture = "Photosynthesis converts light energy into chemical energy. " +
	"Chlorophyll absorbs mostly red and blue light. " +
	"The Calvin cycle fixes carbon dioxide into sugar. " +
	"Oxygen is released as a byproduct."

var fastPolicy = ai.RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond, Timeout: time.Second}

func newTestOrchestrator(t *testing.T, provider *mock.MockProvider, repo *testRepository, opts ...Option) *Orchestrator {
	t.Helper()
	stages := NewStages(provider, nil, fastPolicy, nil)
	o, err := New(repo, stages, append([]Option{WithPoolSize(3)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func TestNew_Validation(t *testing.T) {
	provider := mock.NewMockProvider()
	stages := NewStages(provider, nil, fastPolicy, nil)

	_, err := New(nil, stages)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = New(&testRepository{}, Stages{})
	assert.ErrorIs(t, err, ErrStagesRequired)

	_, err = New(&testRepository{}, stages, WithMaxQuestions(0))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = New(&testRepository{}, stages, WithSummaryStyle("haiku"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSubmit_TextHappyPath(t *testing.T) {
	provider := mock.NewMockProvider()
	repo := &testRepository{}
	created := time.Date(2025, 3, 14, 9, 26, 0, 0, time.FixedZone("PDT", -7*3600))
	o := newTestOrchestrator(t, provider, repo,
		WithClock(func() time.Time { return created }),
		WithMaxQuestions(2),
		WithTopTags(3))

	id, err := o.Submit(context.Background(), []byte(lecture))
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, repo.count())

	rec, err := repo.GetNote(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, lecture, rec.Note.Text)
	assert.Equal(t, core.CategoryText, rec.Note.Source)
	assert.Equal(t, created.UTC(), rec.Note.CreatedAt)
	assert.Equal(t, time.UTC, rec.Note.CreatedAt.Location())
	assert.NotEmpty(t, rec.Note.Summary)
	assert.Empty(t, rec.Blocks)
	assert.Len(t, rec.Cards, 2)
	assert.NotEmpty(t, rec.Tags)
	assert.LessOrEqual(t, len(rec.Tags), 3)
	for _, c := range rec.Cards {
		assert.True(t, strings.HasSuffix(c.Question, "?"))
		assert.Contains(t, lecture, c.Answer)
	}
}

func TestSubmit_BulletStyle(t *testing.T) {
	repo := &testRepository{}
	o := newTestOrchestrator(t, mock.NewMockProvider(), repo, WithSummaryStyle(core.SummaryBullets))

	id, err := o.Submit(context.Background(), []byte(lecture))
	require.NoError(t, err)

	rec, err := repo.GetNote(context.Background(), id)
	require.NoError(t, err)
	for _, line := range strings.Split(rec.Note.Summary, "\n") {
		assert.True(t, strings.HasPrefix(line, "• "), "line %q", line)
	}
}

func TestSubmit_UnsupportedInput(t *testing.T) {
	provider := mock.NewMockProvider()
	repo := &testRepository{}
	o := newTestOrchestrator(t, provider, repo)

	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	_, err := o.Submit(context.Background(), pdf)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageClassify, se.Stage)

	assert.Zero(t, repo.count())
	assert.Zero(t, provider.GetMockSummarizer().CallCount())
	assert.Zero(t, provider.GetMockRecognizer().CallCount())
	assert.Zero(t, provider.GetMockTranscriber().CallCount())
}

func TestSubmit_EmptyText(t *testing.T) {
	repo := &testRepository{}
	o := newTestOrchestrator(t, mock.NewMockProvider(), repo)

	_, err := o.Submit(context.Background(), []byte("   \n\t "))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Zero(t, repo.count())
}

func TestSubmit_DerivationFailurePersistsNothing(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockQuestionWriter().WithWriteQuestionFunc(func(ctx context.Context, sentence string) (string, error) {
		return "", errors.New("model unloaded")
	})
	repo := &testRepository{}
	o := newTestOrchestrator(t, provider, repo)

	_, err := o.Submit(context.Background(), []byte(lecture))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderFailure)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageQuestions, se.Stage)
	assert.Zero(t, repo.count())

	// The other derivation stages still ran to completion.
	assert.Equal(t, 1, provider.GetMockSummarizer().CallCount())
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount())
}

func TestSubmit_JoinsAllDerivationFailures(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSummarizer().WithSummarizeFunc(func(ctx context.Context, text string) (string, error) {
		return "", errors.New("summarizer down")
	})
	provider.GetMockEmbedder().WithEmbedTextsFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedder down")
	})
	o := newTestOrchestrator(t, provider, &testRepository{})

	_, err := o.Submit(context.Background(), []byte(lecture))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary stage")
	assert.Contains(t, err.Error(), "keyphrases stage")
	assert.NotContains(t, err.Error(), "questions stage")
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	repo := &testRepository{err: core.ErrPersistenceFailure}
	o := newTestOrchestrator(t, mock.NewMockProvider(), repo)

	_, err := o.Submit(context.Background(), []byte(lecture))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistenceFailure)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StagePersist, se.Stage)
}

func TestSubmit_CancelledBeforeStart(t *testing.T) {
	provider := mock.NewMockProvider()
	repo := &testRepository{}
	o := newTestOrchestrator(t, provider, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Submit(ctx, []byte(lecture))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.count())
	assert.Zero(t, provider.GetMockSummarizer().CallCount())
}

func TestSubmit_CancelledDuringDerivation(t *testing.T) {
	provider := mock.NewMockProvider()
	ctx, cancel := context.WithCancel(context.Background())
	provider.GetMockSummarizer().WithSummarizeFunc(func(c context.Context, text string) (string, error) {
		cancel()
		<-c.Done()
		return "", c.Err()
	})
	repo := &testRepository{}
	o := newTestOrchestrator(t, provider, repo)

	_, err := o.Submit(ctx, []byte(lecture))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.count())
}

func TestSubmit_ObserverSeesTransitions(t *testing.T) {
	var (
		mu     sync.Mutex
		events []RunEvent
	)
	obs := func(ev RunEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	o := newTestOrchestrator(t, mock.NewMockProvider(), &testRepository{}, WithObserver(obs))

	id, err := o.Submit(context.Background(), []byte(lecture))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	var states []State
	for _, ev := range events {
		states = append(states, ev.State)
		assert.Equal(t, events[0].RunID, ev.RunID)
	}
	assert.Equal(t, []State{StateClassifying, StateExtracting, StateDeriving, StatePersisting, StateDone}, states)
	assert.Equal(t, id, events[len(events)-1].NoteID)
	assert.True(t, events[len(events)-1].State.Terminal())
}

func TestSubmit_ObserverSeesFailure(t *testing.T) {
	var last RunEvent
	o := newTestOrchestrator(t, mock.NewMockProvider(), &testRepository{},
		WithObserver(func(ev RunEvent) { last = ev }))

	_, err := o.Submit(context.Background(), []byte{0x00, 0x01, 0x02, 0xff})
	require.Error(t, err)
	assert.Equal(t, StateFailed, last.State)
	assert.ErrorIs(t, last.Err, core.ErrInvalidInput)
}

func TestSubmit_ConcurrentRuns(t *testing.T) {
	repo := &testRepository{}
	o := newTestOrchestrator(t, mock.NewMockProvider(), repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := o.Submit(context.Background(), []byte(lecture+strings.Repeat(" More notes follow here.", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, repo.count())
}

func TestStageError(t *testing.T) {
	err := stageErr(StageExtract, core.ErrNoTextExtracted)
	assert.Equal(t, "extract stage: no text extracted", err.Error())
	assert.ErrorIs(t, err, core.ErrNoTextExtracted)
	assert.Nil(t, stageErr(StageExtract, nil))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "deriving", StateDeriving.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.False(t, StatePersisting.Terminal())
}
