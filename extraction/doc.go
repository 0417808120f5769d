// Package extraction turns raw note content into canonical text.
//
// Classify sniffs the content type. An Extractor for each category then
// produces a core.ExtractionResult:
//
//   - ImageExtractor runs OCR over at most the first two frames and reports
//     each recognized word as a LayoutBlock with a normalized bounding box
//   - AudioExtractor decodes 16-bit mono PCM WAV and transcribes it in
//     30 second chunks
//   - TextPassthrough validates and decodes UTF-8 or BOM-marked UTF-16 text
//
// Extractors that call a provider check the StageCache first, keyed on the
// exact input bytes, and store on miss. Any extractor whose text trims to
// empty fails with core.ErrInvalidInput.
package extraction
