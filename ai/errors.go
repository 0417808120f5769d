package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrTransient marks a provider error that may succeed on retry.
	ErrTransient = errors.New("transient provider error")

	// ErrEmptyResponse is returned when a provider answers with no content.
	ErrEmptyResponse = errors.New("provider returned an empty response")

	// ErrOCRNotEnabled is returned by the Recognizer when the binary was
	// built without Tesseract support.
	ErrOCRNotEnabled = errors.New("OCR support not enabled (build with -tags ocr)")
)
