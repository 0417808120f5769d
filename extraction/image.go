package extraction

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"strconv"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

// ImageExtractor recognizes text in images.
type ImageExtractor struct {
	recognizer ai.Recognizer
	cache      *cache.StageCache
	settings
}

// frame is one decoded picture and the canvas its coordinates are relative to.
type frame struct {
	img    image.Image
	canvas image.Rectangle
}

// NewImageExtractor creates an ImageExtractor using recognizer for OCR.
func NewImageExtractor(recognizer ai.Recognizer, c *cache.StageCache, opts ...Option) *ImageExtractor {
	return &ImageExtractor{
		recognizer: recognizer,
		cache:      c,
		settings:   newSettings(stageImage, opts),
	}
}

// Extract returns the recognized words joined in scan order, one LayoutBlock
// per word. Frames past the configured maximum are dropped.
func (e *ImageExtractor) Extract(ctx context.Context, raw []byte) (*core.ExtractionResult, error) {
	key := cache.Key(stageImage, raw, []byte(strconv.Itoa(e.maxFrames)))
	if res, ok := cache.LookupJSON[*core.ExtractionResult](ctx, e.cache, key); ok && res != nil {
		return res, nil
	}

	frames, err := decodeFrames(raw, e.maxFrames)
	if err != nil {
		return nil, err
	}

	res := &core.ExtractionResult{}
	var words []string
	for i, f := range frames {
		recognized, err := ai.Do(ctx, e.policy, "ocr", func(ctx context.Context) ([]ai.RecognizedWord, error) {
			return e.recognizer.Recognize(ctx, f.img)
		})
		if err != nil {
			return nil, err
		}
		e.logger.Debug("recognized frame", "frame", i, "words", len(recognized))

		for _, w := range recognized {
			text := strings.TrimSpace(w.Text)
			if text == "" {
				continue
			}
			words = append(words, text)
			res.Blocks = append(res.Blocks, core.LayoutBlock{
				Text: text,
				Box:  core.NormalizeRect(w.Rect, f.canvas),
			})
		}
	}
	res.Text = strings.Join(words, " ")

	if err := core.ValidateExtraction(res); err != nil {
		return nil, err
	}
	cache.StoreJSON(ctx, e.cache, key, res)
	return res, nil
}

// decodeFrames decodes up to maxFrames frames of raw.
// Only GIF carries more than one frame among the supported formats.
func decodeFrames(raw []byte, maxFrames int) ([]frame, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, core.InvalidInputf("image could not be decoded: %v", err)
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(raw))
		if err != nil {
			return nil, core.InvalidInputf("gif could not be decoded: %v", err)
		}
		canvas := image.Rect(0, 0, g.Config.Width, g.Config.Height)
		frames := make([]frame, 0, maxFrames)
		for i, img := range g.Image {
			if i == maxFrames {
				break
			}
			c := canvas
			if c.Empty() {
				c = img.Bounds()
			}
			frames = append(frames, frame{img: img, canvas: c})
		}
		return frames, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, core.InvalidInputf("image could not be decoded: %v", err)
	}
	return []frame{{img: img, canvas: img.Bounds()}}, nil
}
