package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine using a local Tesseract installation via
// gosseract. Free and offline; accuracy on handwriting is well below the cloud
// engines, so it is mainly useful for development and printed test sheets.
//
// A gosseract client is not safe for concurrent use; the engine creates one
// client per call, so the type itself carries no state between pages.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine creates a Tesseract-backed engine. Empty language
// defaults to "eng".
func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}
}

// DetectText runs Tesseract word recognition on one page image and returns one
// raw detection per word, with the word's bounding rectangle as a 4-point
// polygon and the confidence normalized from Tesseract's 0-100 scale.
func (t *TesseractEngine) DetectText(ctx context.Context, image []byte) ([]RawDetection, error) {
	const op = "DetectText"

	if len(image) == 0 {
		return nil, WrapEngineError(op, ErrEmptyImage, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, WrapEngineError(op, err, "context done before detection")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, WrapEngineError(op, err, fmt.Sprintf("failed to set language %q", t.language))
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, WrapEngineError(op, err, "failed to set image")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, WrapEngineError(op, ErrDetectionFailed, fmt.Sprintf("tesseract word detection failed: %v", err))
	}
	if len(boxes) == 0 {
		return nil, WrapEngineError(op, ErrNoText, "")
	}

	detections := make([]RawDetection, 0, len(boxes))
	for _, box := range boxes {
		r := box.Box
		detections = append(detections, RawDetection{
			Text:       box.Word,
			Confidence: box.Confidence / 100,
			Polygon: Polygon{
				{X: float64(r.Min.X), Y: float64(r.Min.Y)},
				{X: float64(r.Max.X), Y: float64(r.Min.Y)},
				{X: float64(r.Max.X), Y: float64(r.Max.Y)},
				{X: float64(r.Min.X), Y: float64(r.Max.Y)},
			},
		})
	}
	return detections, nil
}
