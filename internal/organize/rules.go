package organize

import (
	"regexp"
	"strings"
)

// MarkerRule pairs a name with a pattern that identifies a supplementary
// heading. Rules are evaluated in order against the first few non-empty lines
// of a block; the first match wins.
type MarkerRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// getDefaultMarkerRules returns the default ordered rule table for spotting
// supplementary content headings.
func getDefaultMarkerRules() []MarkerRule {
	return []MarkerRule{
		{Name: "table_caption", Pattern: regexp.MustCompile(`(?i)^\s*table\s+\d+`)},
		{Name: "figure_caption", Pattern: regexp.MustCompile(`(?i)^\s*figure\s+\d+`)},
		{Name: "chart_caption", Pattern: regexp.MustCompile(`(?i)^\s*chart\s+\d+`)},
		{Name: "diagram_caption", Pattern: regexp.MustCompile(`(?i)^\s*diagram\s+\d+`)},
		{Name: "appendix_heading", Pattern: regexp.MustCompile(`(?i)^\s*appendix\s+[a-z\d]+`)},
		{Name: "references_heading", Pattern: regexp.MustCompile(`(?i)^\s*references?\s*$`)},
		{Name: "bibliography_heading", Pattern: regexp.MustCompile(`(?i)^\s*bibliograph(?:y|ies)\s*$`)},
		{Name: "index_heading", Pattern: regexp.MustCompile(`(?i)^\s*index(?:es)?\s*$`)},
		{Name: "glossary_heading", Pattern: regexp.MustCompile(`(?i)^\s*glossar(?:y|ies)\s*$`)},
	}
}

// DefaultMarkerRules returns a copy of the default supplementary-heading
// rule table, so callers can extend or reorder it without affecting others.
func DefaultMarkerRules() []MarkerRule {
	rules := getDefaultMarkerRules()
	out := make([]MarkerRule, len(rules))
	copy(out, rules)
	return out
}

// BoilerplateRule pairs a name with a predicate that drops a line during
// segmentation. Lines are trimmed before the predicates run.
type BoilerplateRule struct {
	Name string
	Drop func(line string) bool
}

var (
	pageNumberLine = regexp.MustCompile(`^\d+$`)
	pageLabelLine  = regexp.MustCompile(`^page\s+\d+`)
)

// DefaultBoilerplateRules returns the default ordered rule table for
// stripping repeated page furniture from blocks.
func DefaultBoilerplateRules() []BoilerplateRule {
	return []BoilerplateRule{
		{Name: "short_line", Drop: func(line string) bool {
			return len(line) < 3
		}},
		{Name: "page_number", Drop: pageNumberLine.MatchString},
		{Name: "page_label", Drop: func(line string) bool {
			return pageLabelLine.MatchString(strings.ToLower(line))
		}},
		{Name: "header_footer_label", Drop: func(line string) bool {
			lower := strings.ToLower(line)
			return lower == "header" || lower == "footer"
		}},
	}
}
