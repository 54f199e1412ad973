package organize

import (
	"regexp"
	"strconv"
	"strings"
)

// Block is one page-marker-delimited section of the raw stream, cleaned of
// boilerplate. It is the unit of classification. Blocks preserve the relative
// order of the source stream; that order is the only record of the document's
// intended reading sequence.
type Block struct {
	Page  int // 1-based page context from the marker, 0 when unknown
	Lines []string
}

// Text joins the block's lines back into a single string.
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

var (
	pageMarkerPattern = regexp.MustCompile(`\s*---\s*Page\s+(\d+)\s*---\s*`)
	blankLineRuns     = regexp.MustCompile(`\n\s*\n\s*\n`)
	hspaceRuns        = regexp.MustCompile(`[ \t]+`)
)

// Segmenter splits a page-marker-tagged raw text stream into ordered blocks,
// normalizing whitespace and stripping boilerplate lines along the way.
// Cleaning is idempotent: segmenting already-cleaned text changes nothing.
type Segmenter struct {
	rules []BoilerplateRule
}

// NewSegmenter creates a segmenter with the default boilerplate rule table.
func NewSegmenter() *Segmenter {
	return NewSegmenterWithRules(DefaultBoilerplateRules())
}

// NewSegmenterWithRules creates a segmenter with a custom boilerplate rule
// table, for callers that need to tune or test individual rules.
func NewSegmenterWithRules(rules []BoilerplateRule) *Segmenter {
	return &Segmenter{rules: rules}
}

// Segment splits the raw stream on page markers and returns the cleaned,
// ordered blocks. Sections left with no content after cleaning are dropped.
func (s *Segmenter) Segment(raw string) []Block {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var blocks []Block
	appendBlock := func(page int, section string) {
		lines := s.cleanSection(section)
		if len(lines) == 0 {
			return
		}
		blocks = append(blocks, Block{Page: page, Lines: lines})
	}

	matches := pageMarkerPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		appendBlock(0, raw)
		return blocks
	}

	// Text before the first marker belongs to no page but is still content.
	appendBlock(0, raw[:matches[0][0]])

	for i, m := range matches {
		page, _ := strconv.Atoi(raw[m[2]:m[3]])
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		appendBlock(page, raw[m[1]:end])
	}
	return blocks
}

// cleanSection normalizes a section's whitespace and applies the boilerplate
// rules, returning the surviving lines.
func (s *Segmenter) cleanSection(section string) []string {
	section = blankLineRuns.ReplaceAllString(section, "\n\n")
	section = hspaceRuns.ReplaceAllString(section, " ")

	var lines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if s.boilerplate(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Segmenter) boilerplate(line string) bool {
	for _, rule := range s.rules {
		if rule.Drop(line) {
			return true
		}
	}
	return false
}
