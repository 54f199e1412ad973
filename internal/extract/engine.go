package extract

import (
	"context"
	"errors"
)

// ErrEngineUnavailable indicates the OCR backend is missing or misconfigured.
// No page can be recovered without it, so it is fatal for the fallback path.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrRenderingFailed indicates the document could not be rasterized at all.
var ErrRenderingFailed = errors.New("cannot rasterize document")

// Engine is the OCR provider contract: one encoded page image in, recognized
// text out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// AvailabilityChecker is implemented by engines that can verify their backend
// is installed before any page is processed.
type AvailabilityChecker interface {
	Available() error
}
