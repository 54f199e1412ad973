package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Danielzapirtan/ocr-pdf/internal/extract"
)

// fakeSource is an instrumented PageSource returning canned pages.
type fakeSource struct {
	pages []extract.PageText
	err   error
	calls int
}

func (f *fakeSource) ExtractPages(_ context.Context, _ string) ([]extract.PageText, error) {
	f.calls++
	return f.pages, f.err
}

// fakeFallback is an instrumented FallbackSource that records which pages
// were requested.
type fakeFallback struct {
	fakeSource
	selections [][]int
}

func (f *fakeFallback) ExtractSelected(_ context.Context, _ string, pages []int) ([]extract.PageText, error) {
	f.calls++
	f.selections = append(f.selections, pages)
	if f.err != nil {
		return nil, f.err
	}
	if pages == nil {
		return f.pages, nil
	}
	var out []extract.PageText
	for _, p := range f.pages {
		for _, n := range pages {
			if p.Number == n {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func embeddedPages(texts ...string) []extract.PageText {
	pages := make([]extract.PageText, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, extract.PageText{Number: i + 1, Text: text, Origin: extract.OriginEmbedded})
	}
	return pages
}

func ocrPages(texts ...string) []extract.PageText {
	pages := make([]extract.PageText, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, extract.PageText{Number: i + 1, Text: text, Origin: extract.OriginOCR})
	}
	return pages
}

func TestExtractText_EmbeddedTextSkipsOCR(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("Page one prose.", "Page two prose.")}
	fallback := &fakeFallback{fakeSource: fakeSource{pages: ocrPages("unused", "unused")}}

	svc := NewService(nil, embedded, fallback, Options{Logger: quietLogger()})
	result, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "doc.pdf"})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if fallback.calls != 0 {
		t.Errorf("OCR fallback invoked %d times, want 0", fallback.calls)
	}
	if result.EmbeddedPages != 2 || result.OCRPages != 0 {
		t.Errorf("page origins = %d embedded / %d ocr, want 2/0", result.EmbeddedPages, result.OCRPages)
	}
	if !strings.Contains(result.Text, "Page one prose.") {
		t.Errorf("output missing page text: %q", result.Text)
	}
}

func TestExtractText_DocumentFallback(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("", "  ")}
	fallback := &fakeFallback{fakeSource: fakeSource{pages: ocrPages("Recovered one.", "Recovered two.")}}

	svc := NewService(nil, embedded, fallback, Options{Logger: quietLogger()})
	result, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "scan.pdf"})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if fallback.calls != 1 {
		t.Errorf("OCR fallback invoked %d times, want 1", fallback.calls)
	}
	if result.OCRPages != 2 || result.EmbeddedPages != 0 {
		t.Errorf("page origins = %d embedded / %d ocr, want 0/2", result.EmbeddedPages, result.OCRPages)
	}
	if !strings.Contains(result.Text, "Recovered one.") || !strings.Contains(result.Text, "Recovered two.") {
		t.Errorf("output missing OCR text: %q", result.Text)
	}
}

func TestExtractText_PerPageFallback(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("Embedded page one.", "", "Embedded page three.")}
	fallback := &fakeFallback{fakeSource: fakeSource{pages: []extract.PageText{
		{Number: 2, Text: "OCR page two.", Origin: extract.OriginOCR},
	}}}

	svc := NewService(nil, embedded, fallback, Options{Policy: FallbackPage, Logger: quietLogger()})
	result, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "mixed.pdf"})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if len(fallback.selections) != 1 {
		t.Fatalf("ExtractSelected called %d times, want 1", len(fallback.selections))
	}
	if got := fallback.selections[0]; len(got) != 1 || got[0] != 2 {
		t.Errorf("ExtractSelected pages = %v, want [2]", got)
	}
	if result.EmbeddedPages != 2 || result.OCRPages != 1 {
		t.Errorf("page origins = %d embedded / %d ocr, want 2/1", result.EmbeddedPages, result.OCRPages)
	}

	// Merged pages must keep document order.
	one := strings.Index(result.Text, "Embedded page one.")
	two := strings.Index(result.Text, "OCR page two.")
	three := strings.Index(result.Text, "Embedded page three.")
	if one < 0 || two < 0 || three < 0 || !(one < two && two < three) {
		t.Errorf("pages out of order in output: %q", result.Text)
	}
}

func TestExtractText_PerPageFallbackAllEmbedded(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("One.", "Two.")}
	fallback := &fakeFallback{}

	svc := NewService(nil, embedded, fallback, Options{Policy: FallbackPage, Logger: quietLogger()})
	if _, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "doc.pdf"}); err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback invoked %d times for fully embedded document, want 0", fallback.calls)
	}
}

func TestExtractText_NoExtractableText(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("", "")}
	fallback := &fakeFallback{fakeSource: fakeSource{pages: ocrPages("", "")}}

	svc := NewService(nil, embedded, fallback, Options{Logger: quietLogger()})
	_, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "blank.pdf"})
	if !errors.Is(err, ErrNoExtractableText) {
		t.Errorf("ExtractText() error = %v, want ErrNoExtractableText", err)
	}
}

func TestExtractText_OCRDisabled(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("", "")}

	svc := NewService(nil, embedded, nil, Options{Logger: quietLogger()})
	_, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "scan.pdf"})
	if !errors.Is(err, ErrNoExtractableText) {
		t.Errorf("ExtractText() error = %v, want ErrNoExtractableText", err)
	}
}

func TestExtractText_EngineUnavailable(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages("")}
	fallback := &fakeFallback{fakeSource: fakeSource{err: extract.ErrEngineUnavailable}}

	svc := NewService(nil, embedded, fallback, Options{Logger: quietLogger()})
	_, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "scan.pdf"})
	if !errors.Is(err, extract.ErrEngineUnavailable) {
		t.Errorf("ExtractText() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestExtractText_DirectExtractionFailure(t *testing.T) {
	embedded := &fakeSource{err: errors.New("corrupt xref")}

	svc := NewService(nil, embedded, nil, Options{Logger: quietLogger()})
	if _, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "bad.pdf"}); err == nil {
		t.Error("ExtractText() expected error for unreadable document")
	}
}

func TestExtractText_EmptyPath(t *testing.T) {
	svc := NewService(nil, &fakeSource{}, nil, Options{Logger: quietLogger()})
	if _, err := svc.ExtractText(context.Background(), ExtractRequest{}); err == nil {
		t.Error("ExtractText() expected error for empty path")
	}
}

func TestExtractText_SupplementaryRelocated(t *testing.T) {
	embedded := &fakeSource{pages: embeddedPages(
		"Intro text.",
		"Table 1\n1 2\n3 4",
		"Conclusion text.",
	)}

	svc := NewService(nil, embedded, nil, Options{Logger: quietLogger()})
	result, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "report.pdf"})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if result.MainBlocks != 2 || result.SupplementaryBlocks != 1 {
		t.Errorf("blocks = %d main / %d supplementary, want 2/1",
			result.MainBlocks, result.SupplementaryBlocks)
	}

	banner := strings.Index(result.Text, "SUPPLEMENTARY CONTENT")
	table := strings.Index(result.Text, "Table 1")
	conclusion := strings.Index(result.Text, "Conclusion text.")
	if banner < 0 || table < banner || conclusion > banner {
		t.Errorf("supplementary content not relocated after banner: %q", result.Text)
	}
}

func TestExtractText_Deterministic(t *testing.T) {
	pages := embeddedPages("Intro text.", "Table 1\n1 2\n3 4")

	first := mustExtract(t, pages)
	second := mustExtract(t, pages)
	if first != second {
		t.Errorf("same input produced different output:\n%q\n%q", first, second)
	}
}

func mustExtract(t *testing.T, pages []extract.PageText) string {
	t.Helper()
	svc := NewService(nil, &fakeSource{pages: pages}, nil, Options{Logger: quietLogger()})
	result, err := svc.ExtractText(context.Background(), ExtractRequest{Path: "doc.pdf"})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	return result.Text
}
