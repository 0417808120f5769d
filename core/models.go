package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoteID is the opaque identifier of a persisted note.
type NoteID string

// NewNoteID returns a fresh random note identifier.
func NewNoteID() NoteID {
	return NoteID(uuid.NewString())
}

// ParseNoteID validates s and returns it as a NoteID in canonical form.
func ParseNoteID(s string) (NoteID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed note id %q", ErrInvalidInput, s)
	}
	return NoteID(id.String()), nil
}

// String implements fmt.Stringer.
func (id NoteID) String() string {
	return string(id)
}

// Category is the closed set of content kinds the classifier can report.
type Category int

const (
	// CategoryUnsupported is content that cannot be processed.
	CategoryUnsupported Category = iota
	// CategoryImage is raster image content.
	CategoryImage
	// CategoryAudio is audio content.
	CategoryAudio
	// CategoryText is plain text content.
	CategoryText
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryAudio:
		return "audio"
	case CategoryText:
		return "text"
	default:
		return "unsupported"
	}
}

// SummaryStyle selects how a summary is rendered.
type SummaryStyle string

const (
	// SummaryParagraph returns the provider output as-is.
	SummaryParagraph SummaryStyle = "paragraph"
	// SummaryBullets renders one bullet line per sentence.
	SummaryBullets SummaryStyle = "bullets"
)

// ParseSummaryStyle maps a user supplied style name onto a SummaryStyle.
// An empty name selects SummaryParagraph.
func ParseSummaryStyle(s string) (SummaryStyle, error) {
	switch SummaryStyle(s) {
	case "", SummaryParagraph:
		return SummaryParagraph, nil
	case SummaryBullets:
		return SummaryBullets, nil
	default:
		return "", fmt.Errorf("%w: unknown summary style %q", ErrInvalidInput, s)
	}
}

// BoundingBox is a rectangle normalized to the source image dimensions.
// All coordinates lie in [0,1] with X2 >= X1 and Y2 >= Y1.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// LayoutBlock is a recognized span of text and where it sits on the page.
type LayoutBlock struct {
	Text string      `json:"text"`
	Box  BoundingBox `json:"bbox"`
}

// QuizCard is a generated study question and its answer.
type QuizCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Tag is a short keyphrase attached to a note.
type Tag string

// ExtractionResult is the canonical text derived from raw content,
// plus layout blocks when the source was an image.
type ExtractionResult struct {
	Text   string        `json:"text"`
	Blocks []LayoutBlock `json:"blocks,omitempty"`
}

// Note is the root record of one successful pipeline run.
// It is immutable once persisted.
type Note struct {
	ID        NoteID
	Text      string
	Summary   string
	Source    Category
	CreatedAt time.Time
}

// NoteRecord is a note read back together with everything derived from it.
type NoteRecord struct {
	Note   Note
	Blocks []LayoutBlock
	Cards  []QuizCard
	Tags   []Tag
}
