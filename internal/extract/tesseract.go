package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine using the gosseract client. A fresh
// client is created per page; gosseract clients are cheap to construct and
// not safe to reuse across recognitions with different settings.
type TesseractEngine struct {
	languages []string
	dpi       int
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine with the given
// language hints and effective image DPI.
func NewTesseractEngine(languages []string, dpi int) *TesseractEngine {
	return &TesseractEngine{languages: languages, dpi: dpi}
}

// Name returns the engine identifier.
func (e *TesseractEngine) Name() string { return "tesseract" }

// Available verifies the Tesseract backend is installed and has trained
// language data. The returned error carries installation guidance.
func (e *TesseractEngine) Available() error {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("%w: %v (install with: apt install tesseract-ocr, or brew install tesseract on macOS)",
			ErrEngineUnavailable, err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("%w: no trained language data found (install e.g. tesseract-ocr-eng)",
			ErrEngineUnavailable)
	}
	return nil
}

// Recognize runs OCR over a single encoded page image.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
