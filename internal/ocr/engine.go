package ocr

import "context"

// Engine is the contract with an external OCR engine: one decoded raster image
// in, a collection of recognized text spans out.
//
// DetectText is the only blocking call in the system and can take seconds per
// page. Cancellation is honored at the request boundary only; there is no
// mid-page cancellation. Implementations are not assumed to be safe for
// concurrent inference — callers must serialize access (the submission service
// does so with a mutex).
type Engine interface {
	DetectText(ctx context.Context, image []byte) ([]RawDetection, error)
}
