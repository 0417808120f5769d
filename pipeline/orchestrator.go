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


package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
	"github.com/Rzhan16/neuronote-ai/derivation"
	"github.com/Rzhan16/neuronote-ai/extraction"
	"github.com/Rzhan16/neuronote-ai/storage"
)

// Stages bundles the stage implementations a run uses.
type Stages struct {
	Extractors *extraction.Extractors
	Summarizer *derivation.Summarizer
	Keyphrases *derivation.KeyphraseExtractor
	Questions  *derivation.QuestionGenerator
}

// NewStages builds the standard stages on provider, sharing one cache.
// extOpts are applied to the extractors after policy and logger.
func NewStages(provider ai.AIProvider, c *cache.StageCache, policy ai.RetryPolicy, logger *slog.Logger, extOpts ...extraction.Option) Stages {
	if logger == nil {
		logger = slog.Default()
	}
	ext := append([]extraction.Option{extraction.WithRetryPolicy(policy), extraction.WithLogger(logger)}, extOpts...)
	return Stages{
		Extractors: extraction.NewExtractors(provider, c, ext...),
		Summarizer: derivation.NewSummarizer(provider.Summarizer(), c,
			derivation.WithRetryPolicy(policy), derivation.WithLogger(logger)),
		Keyphrases: derivation.NewKeyphraseExtractor(provider.Embedder(), c,
			derivation.WithRetryPolicy(policy), derivation.WithLogger(logger)),
		Questions: derivation.NewQuestionGenerator(provider.QuestionWriter(), c,
			derivation.WithRetryPolicy(policy), derivation.WithLogger(logger)),
	}
}

// Orchestrator runs notes through the pipeline.
type Orchestrator struct {
	repo         storage.NoteRepository
	stages       Stages
	pool         *ants.Pool
	style        core.SummaryStyle
	maxQuestions int
	topTags      int
	observer     Observer
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for derivation stages.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if o.pool != nil {
			o.pool.Release()
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithSummaryStyle sets the summary style of persisted notes.
func WithSummaryStyle(style core.SummaryStyle) Option {
	return func(o *Orchestrator) error {
		parsed, err := core.ParseSummaryStyle(string(style))
		if err != nil {
			return err
		}
		o.style = parsed
		return nil
	}
}

// WithMaxQuestions sets how many quiz cards a note gets at most.
func WithMaxQuestions(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			return core.InvalidInputf("max questions must be at least 1, got %d", n)
		}
		o.maxQuestions = n
		return nil
	}
}

// WithTopTags sets how many keyphrase tags a note gets at most.
func WithTopTags(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			return core.InvalidInputf("top tags must be at least 1, got %d", n)
		}
		o.topTags = n
		return nil
	}
}

// WithObserver registers a callback for run state transitions.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) error {
		o.observer = obs
		return nil
	}
}

// WithClock overrides the time source for note creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}

// New creates an Orchestrator committing to repo.
func New(repo storage.NoteRepository, stages Stages, opts ...Option) (*Orchestrator, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if stages.Extractors == nil || stages.Summarizer == nil || stages.Keyphrases == nil || stages.Questions == nil {
		return nil, ErrStagesRequired
	}

	o := &Orchestrator{
		repo:         repo,
		stages:       stages,
		style:        core.SummaryParagraph,
		maxQuestions: derivation.DefaultMaxQuestions,
		topTags:      derivation.DefaultTopTags,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			o.Release()
			return nil, err
		}
	}

	if o.pool == nil {
		pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
		if err != nil {
			return nil, err
		}
		o.pool = pool
	}
	o.logger = o.logger.With("component", "pipeline")
	return o, nil
}

// run tracks one Submit call.
type run struct {
	id    string
	state State
	o     *Orchestrator
	log   *slog.Logger
}

func (r *run) enter(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state = s
	r.log.Debug("run state", "state", s)
	r.o.emit(RunEvent{RunID: r.id, State: s, At: r.o.now()})
	return nil
}

func (r *run) fail(err error) error {
	r.log.Error("run failed", "from", r.state, "err", err)
	r.state = StateFailed
	r.o.emit(RunEvent{RunID: r.id, State: StateFailed, Err: err, At: r.o.now()})
	return err
}

func (o *Orchestrator) emit(ev RunEvent) {
	if o.observer != nil {
		o.observer(ev)
	}
}

// derived holds the outputs of the derivation stages.
type derived struct {
	summary string
	tags    []core.Tag
	cards   []core.QuizCard
}

// Submit runs raw through the pipeline and returns the persisted note's ID.
// The error is a *StageError naming the stage that failed; unsupported or
// undecodable content wraps core.ErrInvalidInput.
func (o *Orchestrator) Submit(ctx context.Context, raw []byte) (core.NoteID, error) {
	r := &run{id: uuid.NewString(), o: o}
	r.log = o.logger.With("run", r.id)

	if err := r.enter(ctx, StateClassifying); err != nil {
		return "", r.fail(stageErr(StageClassify, err))
	}
	category := extraction.Classify(raw)
	extractor, err := o.stages.Extractors.For(category)
	if err != nil {
		return "", r.fail(stageErr(StageClassify, err))
	}
	r.log.Debug("classified content", "category", category, "bytes", len(raw))

	if err := r.enter(ctx, StateExtracting); err != nil {
		return "", r.fail(stageErr(StageExtract, err))
	}
	extracted, err := extractor.Extract(ctx, raw)
	if err != nil {
		return "", r.fail(stageErr(StageExtract, err))
	}

	if err := r.enter(ctx, StateDeriving); err != nil {
		return "", r.fail(stageErr(StageSummary, err))
	}
	out, err := o.derive(ctx, extracted.Text)
	if err != nil {
		return "", r.fail(err)
	}

	if err := r.enter(ctx, StatePersisting); err != nil {
		return "", r.fail(stageErr(StagePersist, err))
	}
	note := core.Note{
		ID:        core.NewNoteID(),
		Text:      extracted.Text,
		Summary:   out.summary,
		Source:    category,
		CreatedAt: o.now().UTC(),
	}
	id, err := o.repo.Commit(ctx, note, extracted.Blocks, out.cards, out.tags)
	if err != nil {
		return "", r.fail(stageErr(StagePersist, err))
	}

	r.state = StateDone
	r.log.Info("note persisted", "note", id, "source", category,
		"blocks", len(extracted.Blocks), "cards", len(out.cards), "tags", len(out.tags))
	o.emit(RunEvent{RunID: r.id, State: StateDone, NoteID: id, At: o.now()})
	return id, nil
}

// derive runs the three derivation stages concurrently and joins them.
// A failing stage does not stop the others; all failures are joined.
func (o *Orchestrator) derive(ctx context.Context, text string) (derived, error) {
	var (
		out  derived
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	record := func(stage string, err error) {
		mu.Lock()
		errs = append(errs, stageErr(stage, err))
		mu.Unlock()
	}

	tasks := []struct {
		stage string
		fn    func() error
	}{
		{StageSummary, func() (err error) {
			out.summary, err = o.stages.Summarizer.Summarize(ctx, text, o.style)
			return err
		}},
		{StageKeyphrases, func() (err error) {
			out.tags, err = o.stages.Keyphrases.Extract(ctx, text, o.topTags)
			return err
		}},
		{StageQuestions, func() (err error) {
			out.cards, err = o.stages.Questions.Generate(ctx, text, o.maxQuestions)
			return err
		}},
	}

	for _, task := range tasks {
		task := task
		wg.Add(1)
		submitErr := o.pool.Submit(func() {
			defer wg.Done()
			if err := task.fn(); err != nil {
				record(task.stage, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			record(task.stage, submitErr)
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return derived{}, errors.Join(errs...)
	}
	return out, nil
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}
