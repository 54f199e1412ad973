package extract

import (
	"fmt"
	"strings"
)

// Origin identifies how a page's text was obtained.
type Origin string

const (
	// OriginEmbedded means the text came directly from the PDF content stream.
	OriginEmbedded Origin = "embedded"
	// OriginOCR means the text was recognized from a rasterized page image.
	OriginOCR Origin = "ocr"
)

// PageText is the tagged result of one extraction attempt for one page.
// An attempt that recovered nothing carries an empty Text rather than an error,
// so a single bad page never aborts the document.
type PageText struct {
	Number int // 1-based page index
	Text   string
	Origin Origin
}

// Empty reports whether the page carries no non-whitespace text.
func (p PageText) Empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Usable reports whether at least one page carries non-whitespace text.
// An unusable aggregate is what triggers the whole-document OCR fallback.
func Usable(pages []PageText) bool {
	for _, p := range pages {
		if !p.Empty() {
			return true
		}
	}
	return false
}

// PageMarker returns the delimiter line inserted before a page's text in the
// raw stream. It is a segmentation aid only, never semantic content.
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// TagStream concatenates page texts into a single marker-delimited raw stream.
// Pages with no non-whitespace text contribute nothing.
func TagStream(pages []PageText) string {
	var builder strings.Builder
	for _, p := range pages {
		if p.Empty() {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(PageMarker(p.Number))
		builder.WriteString("\n")
		builder.WriteString(p.Text)
	}
	return builder.String()
}
