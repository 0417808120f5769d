package extraction

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Rzhan16/neuronote-ai/core"
)

// Classify decides which extraction path raw content takes.
// Empty content and types with no extractor are CategoryUnsupported.
func Classify(raw []byte) core.Category {
	if len(raw) == 0 {
		return core.CategoryUnsupported
	}
	return categoryOf(mimetype.Detect(raw))
}

// DetectType returns the sniffed MIME type of raw, for logging.
func DetectType(raw []byte) string {
	return mimetype.Detect(raw).String()
}

func categoryOf(m *mimetype.MIME) core.Category {
	for ; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return core.CategoryImage
		case strings.HasPrefix(m.String(), "audio/"):
			return core.CategoryAudio
		case m.Is("text/plain"):
			return core.CategoryText
		}
	}
	return core.CategoryUnsupported
}
