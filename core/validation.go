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
	"fmt"
	"image"
	"strings"
)

// NormalizeRect converts a pixel rectangle into a BoundingBox relative to a
// canvas of the given size. The rectangle is first clipped to the canvas so
// the result always satisfies ValidateBoundingBox.
func NormalizeRect(r image.Rectangle, canvas image.Rectangle) BoundingBox {
	w := float64(canvas.Dx())
	h := float64(canvas.Dy())
	if w <= 0 || h <= 0 {
		return BoundingBox{}
	}
	r = r.Canon().Intersect(canvas)
	if r.Empty() {
		return BoundingBox{}
	}
	return BoundingBox{
		X1: float64(r.Min.X-canvas.Min.X) / w,
		Y1: float64(r.Min.Y-canvas.Min.Y) / h,
		X2: float64(r.Max.X-canvas.Min.X) / w,
		Y2: float64(r.Max.Y-canvas.Min.Y) / h,
	}
}

// ValidateBoundingBox checks that all coordinates lie in [0,1] and that the
// second corner is not before the first.
//
// Validation rules:
//   - 0 <= X1 <= X2 <= 1
//   - 0 <= Y1 <= Y2 <= 1
func ValidateBoundingBox(b BoundingBox) error {
	for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: coordinate %v outside [0,1]", ErrInvalidBoundingBox, v)
		}
	}
	if b.X2 < b.X1 || b.Y2 < b.Y1 {
		return fmt.Errorf("%w: inverted corners", ErrInvalidBoundingBox)
	}
	return nil
}

// ValidateExtraction checks an extraction result before derivation runs on it.
//
// Validation rules:
//   - Text must contain at least one non-space character
//   - Every block box must be valid
func ValidateExtraction(res *ExtractionResult) error {
	if res == nil || strings.TrimSpace(res.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoTextExtracted)
	}
	for i, b := range res.Blocks {
		if err := ValidateBoundingBox(b.Box); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}
