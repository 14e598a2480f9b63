package ocr

import "context"

// Extractor is the OCR stage: image bytes in, raw menu text out.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte, contentType string) (string, error)
}
