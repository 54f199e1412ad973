package extract

import (
	"context"
	"fmt"
	"log"

	"github.com/ledongthuc/pdf"
)

// EmbeddedSource extracts the text layer directly from a PDF's content
// streams, one page at a time. A failure on an individual page is downgraded
// to an empty page so the rest of the document can proceed.
type EmbeddedSource struct {
	logger *log.Logger
}

// NewEmbeddedSource creates a new embedded-text source.
func NewEmbeddedSource(logger *log.Logger) *EmbeddedSource {
	if logger == nil {
		logger = log.Default()
	}
	return &EmbeddedSource{logger: logger}
}

// ExtractPages extracts embedded text for every page of the PDF at path,
// in document order. Failure to open the document is fatal; failure on a
// single page yields an empty PageText for that page.
func (s *EmbeddedSource) ExtractPages(ctx context.Context, path string) ([]PageText, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	s.logger.Printf("extracting embedded text from %d pages", total)

	pages := make([]PageText, 0, total)
	for n := 1; n <= total; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		pages = append(pages, PageText{
			Number: n,
			Text:   s.pageText(r, n),
			Origin: OriginEmbedded,
		})
	}
	return pages, nil
}

// pageText extracts one page's text. The pdf library can panic on malformed
// content streams, so the recover here is what keeps a bad page from
// aborting the whole document.
func (s *EmbeddedSource) pageText(r *pdf.Reader, n int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Printf("warning: could not extract text from page %d: %v", n, rec)
			text = ""
		}
	}()

	page := r.Page(n)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		s.logger.Printf("warning: could not extract text from page %d: %v", n, err)
		return ""
	}
	return content
}
