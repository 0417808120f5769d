package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	neuronote "github.com/Rzhan16/neuronote-ai"
	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/ai/mock"
	"github.com/Rzhan16/neuronote-ai/core"
	"github.com/Rzhan16/neuronote-ai/storage/sqlite"
)

const lecture = "Plate tectonics moves continents. Earthquakes release stored strain. Volcanoes form at plate boundaries."

// testEnv wires a real service over the mock provider and in-memory SQLite.
func testEnv(t *testing.T, maxUpload int64) (*mock.MockProvider, http.Handler) {
	t.Helper()

	repo, err := sqlite.NewMemoryRepository()
	require.NoError(t, err)
	provider := mock.NewMockProvider()
	svc, err := neuronote.NewService(provider, repo, nil,
		neuronote.WithRetryPolicy(ai.RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond, Timeout: time.Second}))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	return provider, NewRouter(svc, maxUpload, nil)
}

func do(t *testing.T, h http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func multipartBody(t *testing.T, field string, data []byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func pagePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 10, 90, 30), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 60, 150, 80), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	_, h := testEnv(t, 0)
	rec := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestPipelineThenGetNote(t *testing.T) {
	_, h := testEnv(t, 0)

	ct, body := multipartBody(t, "file", []byte(lecture))
	rec := do(t, h, http.MethodPost, "/pipeline", ct, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decode[SubmitResponse](t, rec)
	require.NotEmpty(t, submitted.NoteID)

	rec = do(t, h, http.MethodGet, "/notes/"+submitted.NoteID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	note := decode[NoteResponse](t, rec)
	assert.Equal(t, submitted.NoteID, note.ID)
	assert.Equal(t, "text", note.Source)
	assert.Equal(t, lecture, note.Text)
	assert.Len(t, note.Cards, 3)
	assert.NotNil(t, note.Blocks)
}

func TestPipelineRawBodyImage(t *testing.T) {
	_, h := testEnv(t, 0)
	rec := do(t, h, http.MethodPost, "/pipeline", "application/octet-stream", bytes.NewReader(pagePNG(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestPipelineUnsupported(t *testing.T) {
	_, h := testEnv(t, 0)

	rec := do(t, h, http.MethodPost, "/pipeline", "application/octet-stream", bytes.NewReader(nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errResponse](t, rec).Error, "invalid input")

	ct, body := multipartBody(t, "attachment", []byte(lecture))
	rec = do(t, h, http.MethodPost, "/pipeline", ct, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPipelineProviderFailureHidesDiagnostics(t *testing.T) {
	provider, h := testEnv(t, 0)
	provider.GetMockSummarizer().WithSummarizeFunc(func(ctx context.Context, text string) (string, error) {
		return "", errors.New("secret upstream diagnostics")
	})

	rec := do(t, h, http.MethodPost, "/pipeline", "text/plain", strings.NewReader(lecture))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[errResponse](t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestUploadTooLarge(t *testing.T) {
	_, h := testEnv(t, 64)
	rec := do(t, h, http.MethodPost, "/pipeline", "text/plain", strings.NewReader(strings.Repeat("a", 65)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestOCR(t *testing.T) {
	_, h := testEnv(t, 0)

	ct, body := multipartBody(t, "file", pagePNG(t))
	rec := do(t, h, http.MethodPost, "/ocr", ct, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[OCRResponse](t, rec)
	assert.NotEmpty(t, res.Text)
	require.Len(t, res.Blocks, 2)
	for _, b := range res.Blocks {
		assert.NoError(t, core.ValidateBoundingBox(b.Box))
	}

	rec = do(t, h, http.MethodPost, "/ocr", "text/plain", strings.NewReader(lecture))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestASRRejectsNonAudio(t *testing.T) {
	_, h := testEnv(t, 0)
	rec := do(t, h, http.MethodPost, "/asr", "text/plain", strings.NewReader(lecture))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarise(t *testing.T) {
	_, h := testEnv(t, 0)

	rec := do(t, h, http.MethodPost, "/summarise", "application/json",
		strings.NewReader(`{"text":"`+lecture+`","style":"Bullets"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[SummariseResponse](t, rec).Summary
	assert.True(t, strings.HasPrefix(summary, "• "))

	rec = do(t, h, http.MethodPost, "/summarise", "application/json",
		strings.NewReader(`{"text":"`+lecture+`","style":"haiku"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/summarise", "application/json", strings.NewReader(`{"text":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/summarise", "application/json", strings.NewReader(`{"text":"   "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQA(t *testing.T) {
	_, h := testEnv(t, 0)

	rec := do(t, h, http.MethodPost, "/qa", "application/json",
		strings.NewReader(`{"text":"`+lecture+`","max_questions":2}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cards := decode[QAResponse](t, rec).Cards
	require.Len(t, cards, 2)
	assert.Equal(t, "Plate tectonics moves continents.", cards[0].Answer)

	rec = do(t, h, http.MethodPost, "/qa", "application/json",
		strings.NewReader(`{"text":"`+lecture+`","max_questions":-3}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNoteErrors(t *testing.T) {
	_, h := testEnv(t, 0)

	rec := do(t, h, http.MethodGet, "/notes/"+core.NewNoteID().String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/notes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, h := testEnv(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, h, time.Second, nil) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
