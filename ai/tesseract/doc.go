// Package tesseract implements ai.Recognizer on top of the Tesseract OCR
// engine via gosseract.
//
// Tesseract support is compiled in only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// This requires Tesseract and its language data to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, New succeeds and every Recognize call returns
// ai.ErrOCRNotEnabled, so the rest of the pipeline still builds and runs.
package tesseract
