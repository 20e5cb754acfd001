package ocr

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
// Token-level layout carries bounding polygons and per-token confidence, same
// shape as the Vision word annotations.
type DocumentAIEngine struct {
	client    *documentai.DocumentProcessorClient
	processor string
	mimeType  string
}

// DocumentAIOptions configures the Document AI engine.
type DocumentAIOptions struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string

	// MimeType of submitted page images. Default: image/png.
	MimeType string
}

// NewDocumentAIEngine creates a Document AI backed engine with credentials
// from the environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: opts.ProjectID and opts.ProcessorID.
func NewDocumentAIEngine(ctx context.Context, opts DocumentAIOptions) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if opts.ProjectID == "" || opts.ProcessorID == "" {
		return nil, WrapEngineError(op, ErrDetectionFailed, "project ID and processor ID are required")
	}
	if opts.Location == "" {
		opts.Location = "us"
	}
	if opts.MimeType == "" {
		opts.MimeType = "image/png"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for non-US locations
	if opts.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", opts.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapEngineError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapEngineError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", opts.Location))
	}

	return &DocumentAIEngine{
		client: client,
		processor: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			opts.ProjectID, opts.Location, opts.ProcessorID),
		mimeType: opts.MimeType,
	}, nil
}

// DetectText processes one page image and returns one raw detection per token.
func (d *DocumentAIEngine) DetectText(ctx context.Context, image []byte) ([]RawDetection, error) {
	const op = "DetectText"

	if len(image) == 0 {
		return nil, WrapEngineError(op, ErrEmptyImage, "")
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  image,
				MimeType: d.mimeType,
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, WrapEngineError(op, ErrDetectionFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}
	doc := resp.GetDocument()
	if doc == nil {
		return nil, WrapEngineError(op, ErrNoText, "no document in response")
	}

	var detections []RawDetection
	for _, page := range doc.Pages {
		for _, token := range page.Tokens {
			layout := token.GetLayout()
			if layout == nil {
				continue
			}
			detections = append(detections, RawDetection{
				Text:       anchorText(doc.Text, layout.GetTextAnchor()),
				Confidence: float64(layout.GetConfidence()),
				Polygon:    polygonFromLayout(layout.GetBoundingPoly(), page),
			})
		}
	}

	if len(detections) == 0 {
		return nil, WrapEngineError(op, ErrNoText, "")
	}
	return detections, nil
}

// Close closes the underlying Document AI client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// anchorText resolves a token's text anchor against the full document text.
func anchorText(text string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil {
		return ""
	}
	var out string
	for _, seg := range anchor.GetTextSegments() {
		start, end := seg.GetStartIndex(), seg.GetEndIndex()
		if start < 0 || end > int64(len(text)) || start > end {
			continue
		}
		out += text[start:end]
	}
	return out
}

// polygonFromLayout prefers absolute vertices; normalized vertices are scaled
// by the page dimension when that is all the processor returned.
func polygonFromLayout(poly *documentaipb.BoundingPoly, page *documentaipb.Document_Page) Polygon {
	if poly == nil {
		return nil
	}
	if len(poly.Vertices) > 0 {
		out := make(Polygon, 0, len(poly.Vertices))
		for _, v := range poly.Vertices {
			out = append(out, Point{X: float64(v.X), Y: float64(v.Y)})
		}
		return out
	}
	dim := page.GetDimension()
	if dim == nil {
		return nil
	}
	out := make(Polygon, 0, len(poly.NormalizedVertices))
	for _, v := range poly.NormalizedVertices {
		out = append(out, Point{
			X: float64(v.X) * float64(dim.GetWidth()),
			Y: float64(v.Y) * float64(dim.GetHeight()),
		})
	}
	return out
}
