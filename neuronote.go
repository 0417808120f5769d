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


// Package neuronote turns raw note content into stored, summarized study notes.
package neuronote

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/ai/openai"
	"github.com/Rzhan16/neuronote-ai/cache"
	cachebadger "github.com/Rzhan16/neuronote-ai/cache/badger"
	"github.com/Rzhan16/neuronote-ai/config"
	"github.com/Rzhan16/neuronote-ai/core"
	"github.com/Rzhan16/neuronote-ai/derivation"
	"github.com/Rzhan16/neuronote-ai/extraction"
	"github.com/Rzhan16/neuronote-ai/pipeline"
	"github.com/Rzhan16/neuronote-ai/storage"
	"github.com/Rzhan16/neuronote-ai/storage/postgres"
	"github.com/Rzhan16/neuronote-ai/storage/sqlite"
)

// Service ties the pipeline, its stages and the stores together.
type Service struct {
	provider     ai.AIProvider
	repo         storage.NoteRepository
	stages       pipeline.Stages
	orchestrator *pipeline.Orchestrator
	closers      []io.Closer
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger     *slog.Logger
	policy     ai.RetryPolicy
	extraction []extraction.Option
	pipeline   []pipeline.Option
	closers    []io.Closer
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRetryPolicy sets the policy for every provider call.
func WithRetryPolicy(p ai.RetryPolicy) Option {
	return func(o *serviceOptions) {
		o.policy = p
	}
}

// WithExtractionOptions passes options through to the extractors.
func WithExtractionOptions(opts ...extraction.Option) Option {
	return func(o *serviceOptions) {
		o.extraction = append(o.extraction, opts...)
	}
}

// WithPipelineOptions passes options through to the orchestrator.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *serviceOptions) {
		o.pipeline = append(o.pipeline, opts...)
	}
}

// WithCloser registers a resource closed together with the service.
func WithCloser(c io.Closer) Option {
	return func(o *serviceOptions) {
		o.closers = append(o.closers, c)
	}
}

// NewService builds a Service over provider, repo and the stage cache.
// The service takes ownership of provider and repo; c may be nil to run
// without caching.
func NewService(provider ai.AIProvider, repo storage.NoteRepository, c *cache.StageCache, opts ...Option) (*Service, error) {
	options := &serviceOptions{
		logger: slog.Default(),
		policy: ai.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(options)
	}

	stages := pipeline.NewStages(provider, c, options.policy, options.logger, options.extraction...)
	orchestrator, err := pipeline.New(repo, stages,
		append([]pipeline.Option{pipeline.WithLogger(options.logger)}, options.pipeline...)...)
	if err != nil {
		return nil, err
	}

	return &Service{
		provider:     provider,
		repo:         repo,
		stages:       stages,
		orchestrator: orchestrator,
		closers:      options.closers,
		logger:       options.logger,
	}, nil
}

// Open builds a Service from cfg: the OpenAI-compatible provider, the
// Badger stage cache and the configured relational store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	aiConfig := cfg.AI.Provider()
	if err := aiConfig.Validate(); err != nil {
		return nil, err
	}
	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("create AI provider: %w", err)
	}

	cacheStore, err := cachebadger.Open(cfg.Cache.Path, cfg.Cache.Path == "")
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	stageCache := cache.New(cacheStore, cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(logger))

	repo, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		cacheStore.Close()
		provider.Close()
		return nil, err
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithSummaryStyle(core.SummaryStyle(cfg.Pipeline.SummaryStyle)),
		pipeline.WithMaxQuestions(cfg.Pipeline.MaxQuestions),
		pipeline.WithTopTags(cfg.Pipeline.TopTags),
	}
	if cfg.Pipeline.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithPoolSize(cfg.Pipeline.PoolSize))
	}

	svc, err := NewService(provider, repo, stageCache,
		WithLogger(logger),
		WithRetryPolicy(aiConfig.RetryPolicy()),
		WithExtractionOptions(
			extraction.WithMaxFrames(cfg.Pipeline.MaxFrames),
			extraction.WithChunkDuration(cfg.Pipeline.ChunkDuration),
		),
		WithPipelineOptions(pipelineOpts...),
		WithCloser(cacheStore),
	)
	if err != nil {
		repo.Close()
		cacheStore.Close()
		provider.Close()
		return nil, err
	}
	return svc, nil
}

func openRepository(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (storage.NoteRepository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN, logger)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Driver)
	}
}

// Submit runs raw through the full pipeline and returns the new note's ID.
func (s *Service) Submit(ctx context.Context, raw []byte) (core.NoteID, error) {
	return s.orchestrator.Submit(ctx, raw)
}

// ExtractOnly runs image extraction without deriving or persisting anything.
func (s *Service) ExtractOnly(ctx context.Context, raw []byte) (*core.ExtractionResult, error) {
	if category := extraction.Classify(raw); category != core.CategoryImage {
		return nil, core.InvalidInputf("expected image content, got %s", category)
	}
	return s.stages.Extractors.Image.Extract(ctx, raw)
}

// TranscribeOnly runs audio extraction and returns the transcript.
func (s *Service) TranscribeOnly(ctx context.Context, raw []byte) (string, error) {
	if category := extraction.Classify(raw); category != core.CategoryAudio {
		return "", core.InvalidInputf("expected audio content, got %s", category)
	}
	res, err := s.stages.Extractors.Audio.Extract(ctx, raw)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// SummarizeOnly summarizes text in style.
func (s *Service) SummarizeOnly(ctx context.Context, text string, style core.SummaryStyle) (string, error) {
	return s.stages.Summarizer.Summarize(ctx, text, style)
}

// GenerateQAOnly writes up to maxQuestions study cards for text.
// Zero selects the default count.
func (s *Service) GenerateQAOnly(ctx context.Context, text string, maxQuestions int) ([]core.QuizCard, error) {
	if maxQuestions == 0 {
		maxQuestions = derivation.DefaultMaxQuestions
	}
	return s.stages.Questions.Generate(ctx, text, maxQuestions)
}

// GetNote returns a persisted note with its artifacts.
func (s *Service) GetNote(ctx context.Context, id core.NoteID) (*core.NoteRecord, error) {
	return s.repo.GetNote(ctx, id)
}

// Close releases the worker pool, then closes the provider and stores.
func (s *Service) Close() error {
	s.orchestrator.Release()

	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	var firstErr error
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing note repository", "err", err)
		firstErr = err
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Error("error closing resource", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
