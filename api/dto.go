package api

import (
	"time"

	"github.com/Rzhan16/neuronote-ai/core"
)

// SubmitResponse is returned by POST /pipeline.
type SubmitResponse struct {
	NoteID core.NoteID `json:"note_id"`
}

// OCRResponse is returned by POST /ocr.
type OCRResponse struct {
	Text   string             `json:"text"`
	Blocks []core.LayoutBlock `json:"blocks"`
}

// ASRResponse is returned by POST /asr.
type ASRResponse struct {
	Transcript string `json:"transcript"`
}

// SummariseRequest is the body of POST /summarise.
type SummariseRequest struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// SummariseResponse is returned by POST /summarise.
type SummariseResponse struct {
	Summary string `json:"summary"`
}

// QARequest is the body of POST /qa. A zero MaxQuestions selects the default.
type QARequest struct {
	Text         string `json:"text"`
	MaxQuestions int    `json:"max_questions"`
}

// QAResponse is returned by POST /qa.
type QAResponse struct {
	Cards []core.QuizCard `json:"cards"`
}

// NoteResponse is returned by GET /notes/{id}.
type NoteResponse struct {
	ID        core.NoteID        `json:"id"`
	Source    string             `json:"source"`
	Text      string             `json:"text"`
	Summary   string             `json:"summary"`
	CreatedAt time.Time          `json:"created_at"`
	Blocks    []core.LayoutBlock `json:"blocks"`
	Cards     []core.QuizCard    `json:"cards"`
	Tags      []core.Tag         `json:"tags"`
}

func noteResponse(rec *core.NoteRecord) NoteResponse {
	return NoteResponse{
		ID:        rec.Note.ID,
		Source:    rec.Note.Source.String(),
		Text:      rec.Note.Text,
		Summary:   rec.Note.Summary,
		CreatedAt: rec.Note.CreatedAt,
		Blocks:    rec.Blocks,
		Cards:     rec.Cards,
		Tags:      rec.Tags,
	}
}
