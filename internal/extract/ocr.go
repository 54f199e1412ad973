package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the rasterization density used when none is configured.
const DefaultDPI = 300

// OCRSource rasterizes PDF pages to images and recognizes their text with an
// OCR engine. It is the fallback used when the document has no usable
// embedded text layer.
type OCRSource struct {
	engine Engine
	dpi    int
	logger *log.Logger
}

// NewOCRSource creates a new OCR fallback source rasterizing at the given DPI.
func NewOCRSource(engine Engine, dpi int, logger *log.Logger) *OCRSource {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OCRSource{engine: engine, dpi: dpi, logger: logger}
}

// ExtractPages runs OCR over every page of the PDF at path, in document order.
func (s *OCRSource) ExtractPages(ctx context.Context, path string) ([]PageText, error) {
	return s.ExtractSelected(ctx, path, nil)
}

// ExtractSelected runs OCR over the given 1-based pages only; a nil selection
// means every page. Inability to open or rasterize the document is fatal.
// OCR failure on a single page is logged and that page contributes an empty
// string, so the rest of the document can proceed.
func (s *OCRSource) ExtractSelected(ctx context.Context, path string, selected []int) ([]PageText, error) {
	if checker, ok := s.engine.(AvailabilityChecker); ok {
		if err := checker.Available(); err != nil {
			return nil, err
		}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderingFailed, err)
	}
	defer doc.Close()

	if selected == nil {
		total := doc.NumPage()
		selected = make([]int, 0, total)
		for n := 1; n <= total; n++ {
			selected = append(selected, n)
		}
	}

	s.logger.Printf("running %s OCR on %d pages at %d DPI", s.engine.Name(), len(selected), s.dpi)

	pages := make([]PageText, 0, len(selected))
	for _, n := range selected {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		pages = append(pages, PageText{
			Number: n,
			Text:   s.recognizePage(ctx, doc, n),
			Origin: OriginOCR,
		})
	}
	return pages, nil
}

// recognizePage rasterizes and recognizes one page. Failures are downgraded
// to an empty page; only document-level failures abort the run.
func (s *OCRSource) recognizePage(ctx context.Context, doc *fitz.Document, n int) string {
	img, err := doc.ImageDPI(n-1, float64(s.dpi))
	if err != nil {
		s.logger.Printf("warning: could not rasterize page %d: %v", n, err)
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.logger.Printf("warning: could not encode page %d image: %v", n, err)
		return ""
	}

	text, err := s.engine.Recognize(ctx, buf.Bytes())
	if err != nil {
		s.logger.Printf("warning: OCR failed on page %d: %v", n, err)
		return ""
	}
	return text
}
