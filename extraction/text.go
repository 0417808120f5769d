package extraction

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Rzhan16/neuronote-ai/core"
)

// bomEncodings are the byte-order-marked encodings BOMOverride can pick.
var bomEncodings = []encoding.Encoding{
	unicode.UTF8BOM,
	unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM),
	unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
}

// TextPassthrough returns plain text content as its own canonical text.
type TextPassthrough struct{}

// NewTextPassthrough creates a TextPassthrough.
func NewTextPassthrough() *TextPassthrough {
	return &TextPassthrough{}
}

// Extract decodes raw as UTF-8, or as UTF-16 when it starts with a byte
// order mark, and normalizes line endings. Bytes that do not decode cleanly
// are rejected rather than replaced.
func (TextPassthrough) Extract(ctx context.Context, raw []byte) (*core.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, core.InvalidInputf("text cannot be decoded: %v", err)
	}
	if !lossless(raw, decoded) {
		return nil, core.InvalidInputf("text is not valid UTF-8 or UTF-16")
	}

	text := strings.ReplaceAll(string(decoded), "\r\n", "\n")
	res := &core.ExtractionResult{Text: strings.TrimSpace(text)}
	if err := core.ValidateExtraction(res); err != nil {
		return nil, err
	}
	return res, nil
}

// lossless reports whether decoded is an exact decoding of raw. The x/text
// decoders substitute U+FFFD for malformed input, so a decoding that cannot
// be encoded back to raw lost bytes.
func lossless(raw, decoded []byte) bool {
	if utf8.Valid(raw) && bytes.Equal(raw, decoded) {
		return true
	}
	for _, enc := range bomEncodings {
		back, err := enc.NewEncoder().Bytes(decoded)
		if err == nil && bytes.Equal(back, raw) {
			return true
		}
	}
	return false
}
