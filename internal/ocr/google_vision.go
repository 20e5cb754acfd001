package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionEngine implements Engine using Google Cloud Vision document text
// detection. Word-level annotations carry both a bounding polygon and a
// recognition confidence, which is the granularity the field sheet table
// extraction needs.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionEngine creates a Vision-backed engine with credentials from the
// environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path or
// GOOGLE_CREDENTIALS JSON in env.
func NewVisionEngine(ctx context.Context) (*VisionEngine, error) {
	const op = "NewVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapEngineError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionEngine{client: client}, nil
}

// NewVisionEngineWithClient creates a Vision-backed engine with an explicit
// client (for testing).
func NewVisionEngineWithClient(client *vision.ImageAnnotatorClient) *VisionEngine {
	return &VisionEngine{client: client}
}

// DetectText runs document text detection on one page image and returns one
// raw detection per recognized word.
func (v *VisionEngine) DetectText(ctx context.Context, image []byte) ([]RawDetection, error) {
	const op = "DetectText"

	if len(image) == 0 {
		return nil, WrapEngineError(op, ErrEmptyImage, "")
	}

	annotation, err := v.client.DetectDocumentText(ctx, &visionpb.Image{Content: image}, nil)
	if err != nil {
		return nil, WrapEngineError(op, ErrDetectionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if annotation == nil {
		return nil, WrapEngineError(op, ErrNoText, "")
	}

	var detections []RawDetection
	for _, page := range annotation.Pages {
		for _, block := range page.Blocks {
			for _, paragraph := range block.Paragraphs {
				for _, word := range paragraph.Words {
					var text strings.Builder
					for _, symbol := range word.Symbols {
						text.WriteString(symbol.Text)
					}
					detections = append(detections, RawDetection{
						Text:       text.String(),
						Confidence: float64(word.Confidence),
						Polygon:    polygonFromVertices(word.BoundingBox),
					})
				}
			}
		}
	}

	if len(detections) == 0 {
		return nil, WrapEngineError(op, ErrNoText, "")
	}
	return detections, nil
}

// Close closes the underlying Vision client.
func (v *VisionEngine) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

func polygonFromVertices(poly *visionpb.BoundingPoly) Polygon {
	if poly == nil {
		return nil
	}
	out := make(Polygon, 0, len(poly.Vertices))
	for _, vx := range poly.Vertices {
		out = append(out, Point{X: float64(vx.X), Y: float64(vx.Y)})
	}
	return out
}
