package organize

import "strings"

const (
	bannerWidth        = 60
	supplementaryLabel = "SUPPLEMENTARY CONTENT"
)

// ClassifiedBlock is a block together with its classification.
type ClassifiedBlock struct {
	Block
	Class Classification
}

// AssembledDocument is the final output: narrative text in original order,
// followed by the relocated supplementary material.
type AssembledDocument struct {
	MainText          string
	SupplementaryText string
}

// Output renders the single text payload: the main text, then (only when
// supplementary content exists) a banner, the supplementary label, another
// banner, and the supplementary text.
func (d AssembledDocument) Output() string {
	if d.SupplementaryText == "" {
		return d.MainText
	}
	banner := strings.Repeat("=", bannerWidth)
	separator := banner + "\n" + supplementaryLabel + "\n" + banner + "\n\n" + d.SupplementaryText
	if d.MainText == "" {
		return separator
	}
	return d.MainText + "\n\n" + separator
}

// Assembler reassembles classified blocks into the final document, keeping
// each group in its original relative order.
type Assembler struct{}

// NewAssembler creates a new document assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble joins main blocks with a blank-line separator, and supplementary
// blocks likewise within their own grouping, preserving source order in both.
func (a *Assembler) Assemble(blocks []ClassifiedBlock) AssembledDocument {
	var main, supplementary []string
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text())
		if text == "" {
			continue
		}
		if b.Class == ClassificationSupplementary {
			supplementary = append(supplementary, text)
		} else {
			main = append(main, text)
		}
	}
	return AssembledDocument{
		MainText:          strings.Join(main, "\n\n"),
		SupplementaryText: strings.Join(supplementary, "\n\n"),
	}
}
