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


package core

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the pipeline.
var (
	// ErrInvalidInput indicates content that failed classification, decoding,
	// or produced no text. It is a client error and is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderFailure indicates an inference provider call failed or timed out.
	ErrProviderFailure = errors.New("provider failure")

	// ErrCacheUnavailable indicates the cache store could not be reached.
	// Stages absorb it and recompute.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrPersistenceFailure indicates the transactional commit failed.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrNotFound indicates the requested note does not exist.
	ErrNotFound = errors.New("not found")
)

// Validation errors
var (
	// ErrEmptyContent indicates zero-length or whitespace-only content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrNoTextExtracted indicates extraction succeeded but yielded no text.
	ErrNoTextExtracted = errors.New("no text extracted")

	// ErrInvalidBoundingBox indicates a box outside [0,1] or with inverted corners.
	ErrInvalidBoundingBox = errors.New("invalid bounding box")
)

// InvalidInputf returns an error wrapping ErrInvalidInput with a formatted reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsClientError reports whether err should be surfaced to callers as their fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
