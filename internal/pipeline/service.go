package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Danielzapirtan/ocr-pdf/internal/extract"
	"github.com/Danielzapirtan/ocr-pdf/internal/organize"
	"github.com/Danielzapirtan/ocr-pdf/internal/pdf"
)

// ErrNoExtractableText is the terminal condition where both direct extraction
// and the OCR fallback yield no non-whitespace text anywhere in the document.
var ErrNoExtractableText = errors.New("no extractable text found in document")

// Fallback policies. The policy is chosen once per run, never mixed.
const (
	// FallbackDocument runs OCR over the whole document, and only when
	// direct extraction yields nothing anywhere. This is the default.
	FallbackDocument = "document"
	// FallbackPage runs OCR for each individual page whose direct
	// extraction came back empty.
	FallbackPage = "page"
)

// PageSource yields per-page text for a document, in document order.
type PageSource interface {
	ExtractPages(ctx context.Context, path string) ([]extract.PageText, error)
}

// FallbackSource is a PageSource that can also recognize a subset of pages,
// which the per-page fallback policy needs.
type FallbackSource interface {
	PageSource
	ExtractSelected(ctx context.Context, path string, pages []int) ([]extract.PageText, error)
}

// ExtractRequest represents a request to run the pipeline over one PDF file.
type ExtractRequest struct {
	Path string `json:"path"`
}

// ExtractResult is the pipeline's output: the final reorganized text plus
// per-run diagnostics.
type ExtractResult struct {
	Path                string `json:"path"`
	Text                string `json:"text"`
	Pages               int    `json:"pages"`
	EmbeddedPages       int    `json:"embedded_pages"`
	OCRPages            int    `json:"ocr_pages"`
	MainBlocks          int    `json:"main_blocks"`
	SupplementaryBlocks int    `json:"supplementary_blocks"`
}

// Options carries the pipeline's tunable pieces. Zero values fall back to
// defaults.
type Options struct {
	// Policy selects the fallback granularity: FallbackDocument or
	// FallbackPage.
	Policy string
	// Classifier overrides the classification heuristics.
	Classifier organize.ClassifierConfig
	// BoilerplateRules overrides the segmenter's line-filter rule table.
	BoilerplateRules []organize.BoilerplateRule
	Logger           *log.Logger
}

// Service runs the extraction-and-classification pipeline: direct per-page
// extraction, OCR fallback when that yields nothing, segmentation into
// blocks, classification, and reassembly with supplementary content moved to
// the end. A Service is safe for sequential reuse; each run owns its own
// pages and blocks.
type Service struct {
	validator  *pdf.Validator
	embedded   PageSource
	fallback   FallbackSource
	segmenter  *organize.Segmenter
	classifier *organize.Classifier
	assembler  *organize.Assembler
	policy     string
	logger     *log.Logger
}

// NewService creates a pipeline service. validator may be nil to skip file
// validation (callers that already validated the source). fallback may be nil
// to disable OCR entirely.
func NewService(validator *pdf.Validator, embedded PageSource, fallback FallbackSource, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = FallbackDocument
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	segmenter := organize.NewSegmenter()
	if opts.BoilerplateRules != nil {
		segmenter = organize.NewSegmenterWithRules(opts.BoilerplateRules)
	}
	return &Service{
		validator:  validator,
		embedded:   embedded,
		fallback:   fallback,
		segmenter:  segmenter,
		classifier: organize.NewClassifierWithConfig(opts.Classifier),
		assembler:  organize.NewAssembler(),
		policy:     opts.Policy,
		logger:     opts.Logger,
	}
}

// ExtractText runs the full pipeline over the PDF at req.Path.
func (s *Service) ExtractText(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if s.validator != nil {
		if err := s.validator.CheckFile(req.Path); err != nil {
			return nil, err
		}
	}

	pages, err := s.collectPages(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	if !extract.Usable(pages) {
		return nil, fmt.Errorf("%w: %s", ErrNoExtractableText, req.Path)
	}

	raw := extract.TagStream(pages)
	blocks := s.segmenter.Segment(raw)

	classified := make([]organize.ClassifiedBlock, 0, len(blocks))
	for _, b := range blocks {
		classified = append(classified, organize.ClassifiedBlock{
			Block: b,
			Class: s.classifier.Classify(b),
		})
	}

	doc := s.assembler.Assemble(classified)

	result := &ExtractResult{
		Path:  req.Path,
		Text:  doc.Output(),
		Pages: len(pages),
	}
	for _, p := range pages {
		switch p.Origin {
		case extract.OriginEmbedded:
			result.EmbeddedPages++
		case extract.OriginOCR:
			result.OCRPages++
		}
	}
	for _, cb := range classified {
		if cb.Class == organize.ClassificationSupplementary {
			result.SupplementaryBlocks++
		} else {
			result.MainBlocks++
		}
	}

	s.logger.Printf("organized %s: %d main blocks, %d supplementary blocks",
		req.Path, result.MainBlocks, result.SupplementaryBlocks)
	return result, nil
}

// collectPages runs direct extraction and applies the configured fallback
// policy when pages come back empty.
func (s *Service) collectPages(ctx context.Context, path string) ([]extract.PageText, error) {
	pages, err := s.embedded.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("direct extraction failed: %w", err)
	}

	if s.fallback == nil {
		return pages, nil
	}

	switch s.policy {
	case FallbackPage:
		return s.fallbackPerPage(ctx, path, pages)
	default:
		if extract.Usable(pages) {
			return pages, nil
		}
		s.logger.Printf("no embedded text layer found in %s, falling back to OCR", path)
		return s.fallback.ExtractPages(ctx, path)
	}
}

// fallbackPerPage re-extracts only the pages whose embedded text is empty,
// then merges the OCR results back in page order.
func (s *Service) fallbackPerPage(ctx context.Context, path string, pages []extract.PageText) ([]extract.PageText, error) {
	var empty []int
	for _, p := range pages {
		if p.Empty() {
			empty = append(empty, p.Number)
		}
	}
	if len(empty) == 0 {
		return pages, nil
	}

	s.logger.Printf("%d of %d pages have no embedded text in %s, falling back to OCR for those pages",
		len(empty), len(pages), path)

	recovered, err := s.fallback.ExtractSelected(ctx, path, empty)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]extract.PageText, len(recovered))
	for _, p := range recovered {
		byNumber[p.Number] = p
	}
	merged := make([]extract.PageText, 0, len(pages))
	for _, p := range pages {
		if replacement, ok := byNumber[p.Number]; ok && p.Empty() {
			merged = append(merged, replacement)
			continue
		}
		merged = append(merged, p)
	}
	return merged, nil
}
