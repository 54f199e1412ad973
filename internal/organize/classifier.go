package organize

import (
	"regexp"
	"strings"
)

// Classification labels a block as narrative text or relocated material.
type Classification int

const (
	// ClassificationMain is narrative text kept in reading order.
	ClassificationMain Classification = iota
	// ClassificationSupplementary is material moved after the main text:
	// tables, figures, references, appendices.
	ClassificationSupplementary
)

// String returns a human-readable name for the classification.
func (c Classification) String() string {
	switch c {
	case ClassificationMain:
		return "main"
	case ClassificationSupplementary:
		return "supplementary"
	default:
		return "unknown"
	}
}

// Default tuning constants for the classifier heuristics. Both are exposed
// through ClassifierConfig so callers can override them.
const (
	// DefaultDensityThreshold is the tabular-line fraction above which a
	// block of more than three lines is treated as supplementary.
	DefaultDensityThreshold = 0.3
	// DefaultHeaderScanLines is how many leading non-empty lines are
	// checked against the supplementary marker rules.
	DefaultHeaderScanLines = 3
)

// digitColumns matches two or more digit sequences separated by whitespace,
// the shape of a row of columnar numeric data.
var digitColumns = regexp.MustCompile(`\d+\s+\d+`)

// ClassifierConfig controls the classifier's tunable heuristics. Zero values
// fall back to the defaults.
type ClassifierConfig struct {
	MarkerRules      []MarkerRule
	DensityThreshold float64
	HeaderScanLines  int
}

// DefaultClassifierConfig returns the configuration used when none is given.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MarkerRules:      DefaultMarkerRules(),
		DensityThreshold: DefaultDensityThreshold,
		HeaderScanLines:  DefaultHeaderScanLines,
	}
}

// Classifier assigns each block a classification using a two-tier heuristic:
// explicit lexical markers in the block's leading lines take precedence, then
// a tabular-density ratio over the whole block. Classification is a pure
// function of the block's content, so reprocessing is deterministic.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with the default configuration.
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with a custom configuration,
// filling in defaults for any zero-valued field.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	if config.MarkerRules == nil {
		config.MarkerRules = DefaultMarkerRules()
	}
	if config.DensityThreshold == 0 {
		config.DensityThreshold = DefaultDensityThreshold
	}
	if config.HeaderScanLines == 0 {
		config.HeaderScanLines = DefaultHeaderScanLines
	}
	return &Classifier{config: config}
}

// Classify returns the classification for a block.
func (c *Classifier) Classify(block Block) Classification {
	if c.matchesMarker(block) {
		return ClassificationSupplementary
	}
	if c.tabularDense(block) {
		return ClassificationSupplementary
	}
	return ClassificationMain
}

// matchesMarker checks the block's leading non-empty lines against the
// supplementary marker rule table.
func (c *Classifier) matchesMarker(block Block) bool {
	scanned := 0
	for _, line := range block.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, rule := range c.config.MarkerRules {
			if rule.Pattern.MatchString(line) {
				return true
			}
		}
		scanned++
		if scanned >= c.config.HeaderScanLines {
			break
		}
	}
	return false
}

// tabularDense reports whether enough of the block's lines look like columnar
// data. Density alone is noisy on short blocks, so blocks of three lines or
// fewer are never classified this way.
func (c *Classifier) tabularDense(block Block) bool {
	if len(block.Lines) <= 3 {
		return false
	}
	tabular := 0
	for _, line := range block.Lines {
		if digitColumns.MatchString(line) || strings.Count(line, "\t") > 2 {
			tabular++
		}
	}
	ratio := float64(tabular) / float64(len(block.Lines))
	return ratio > c.config.DensityThreshold
}
