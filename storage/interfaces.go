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


package storage

import (
	"context"

	"github.com/Rzhan16/neuronote-ai/core"
)

// NoteRepository persists notes together with their derived artifacts.
// Implementations must be thread-safe and support concurrent access.
type NoteRepository interface {
	// Commit writes the note, its layout blocks, quiz cards and tags in one
	// transaction and returns the note's ID. On any failure nothing is
	// written and the error wraps core.ErrPersistenceFailure.
	Commit(ctx context.Context, note core.Note, blocks []core.LayoutBlock, cards []core.QuizCard, tags []core.Tag) (core.NoteID, error)

	// GetNote retrieves a note and its artifacts.
	// Returns an error wrapping core.ErrNotFound if the note doesn't exist.
	GetNote(ctx context.Context, id core.NoteID) (*core.NoteRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
