package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Rzhan16/neuronote-ai/core"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes = 25 << 20

// Service is what the handlers need from the pipeline.
type Service interface {
	Submit(ctx context.Context, raw []byte) (core.NoteID, error)
	ExtractOnly(ctx context.Context, raw []byte) (*core.ExtractionResult, error)
	TranscribeOnly(ctx context.Context, raw []byte) (string, error)
	SummarizeOnly(ctx context.Context, text string, style core.SummaryStyle) (string, error)
	GenerateQAOnly(ctx context.Context, text string, maxQuestions int) ([]core.QuizCard, error)
	GetNote(ctx context.Context, id core.NoteID) (*core.NoteRecord, error)
}

// Handler holds API route handlers.
type Handler struct {
	svc       Service
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc Service, maxUpload int64, logger *slog.Logger) *Handler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, maxUpload: maxUpload, logger: logger}
}

// readUpload returns the uploaded bytes: the "file" part of a multipart
// form, or the raw body otherwise.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, core.InvalidInputf("malformed multipart body")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, core.InvalidInputf("multipart field %q is required", "file")
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == "file" {
			defer part.Close()
			return io.ReadAll(part)
		}
		part.Close()
	}
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return core.InvalidInputf("invalid JSON body")
	}
	return nil
}

// Submit handles POST /pipeline.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, h.logger, "read upload", err)
		return
	}
	id, err := h.svc.Submit(r.Context(), raw)
	if err != nil {
		writeError(w, h.logger, "pipeline", err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{NoteID: id})
}

// OCR handles POST /ocr.
func (h *Handler) OCR(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, h.logger, "read upload", err)
		return
	}
	res, err := h.svc.ExtractOnly(r.Context(), raw)
	if err != nil {
		writeError(w, h.logger, "ocr", err)
		return
	}
	blocks := res.Blocks
	if blocks == nil {
		blocks = []core.LayoutBlock{}
	}
	writeJSON(w, http.StatusOK, OCRResponse{Text: res.Text, Blocks: blocks})
}

// ASR handles POST /asr.
func (h *Handler) ASR(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, h.logger, "read upload", err)
		return
	}
	transcript, err := h.svc.TranscribeOnly(r.Context(), raw)
	if err != nil {
		writeError(w, h.logger, "asr", err)
		return
	}
	writeJSON(w, http.StatusOK, ASRResponse{Transcript: transcript})
}

// Summarise handles POST /summarise.
func (h *Handler) Summarise(w http.ResponseWriter, r *http.Request) {
	var req SummariseRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode", err)
		return
	}
	style, err := core.ParseSummaryStyle(strings.ToLower(req.Style))
	if err != nil {
		writeError(w, h.logger, "summarise", err)
		return
	}
	summary, err := h.svc.SummarizeOnly(r.Context(), req.Text, style)
	if err != nil {
		writeError(w, h.logger, "summarise", err)
		return
	}
	writeJSON(w, http.StatusOK, SummariseResponse{Summary: summary})
}

// QA handles POST /qa.
func (h *Handler) QA(w http.ResponseWriter, r *http.Request) {
	var req QARequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode", err)
		return
	}
	cards, err := h.svc.GenerateQAOnly(r.Context(), req.Text, req.MaxQuestions)
	if err != nil {
		writeError(w, h.logger, "qa", err)
		return
	}
	writeJSON(w, http.StatusOK, QAResponse{Cards: cards})
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseNoteID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get note", err)
		return
	}
	rec, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, noteResponse(rec))
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
