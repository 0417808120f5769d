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


// Package ai provides abstractions for the inference services used by NeuroNote.
//
// This package defines interfaces for every model-backed operation the
// pipeline performs: summarization, question writing, text embeddings,
// optical character recognition and speech transcription. Stages depend on
// these interfaces rather than on concrete clients.
//
// # Interfaces
//
//   - Summarizer: Produces abstractive summaries
//   - QuestionWriter: Turns a sentence into a study question
//   - Embedder: Generates vector embeddings used to rank keyphrases
//   - Recognizer: Finds words and their rectangles in an image
//   - Transcriber: Converts PCM audio to text
//   - AIProvider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat, embedding and transcription endpoints
//   - ai/tesseract: Local OCR through Tesseract (requires the ocr build tag)
//   - ai/mock: Deterministic test doubles
//
// Public constructors return interface types. Mock constructors return
// concrete types so tests can inspect CallCount and inject behavior with the
// WithXFunc methods.
//
// # Calling Providers
//
// Provider calls go through Do, which bounds each attempt with a timeout,
// retries transient failures with exponential backoff and wraps whatever
// survives the policy in core.ErrProviderFailure:
//
//	summary, err := ai.Do(ctx, cfg.RetryPolicy(), "summarize", func(ctx context.Context) (string, error) {
//	    return provider.Summarizer().Summarize(ctx, text)
//	})
package ai
