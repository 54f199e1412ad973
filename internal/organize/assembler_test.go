package organize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBanner = "============================================================"

func TestAssembler_Assemble(t *testing.T) {
	a := NewAssembler()

	blocks := []ClassifiedBlock{
		{Block: Block{Page: 1, Lines: []string{"Opening paragraph."}}, Class: ClassificationMain},
		{Block: Block{Page: 2, Lines: []string{"Table 1", "1 2", "3 4"}}, Class: ClassificationSupplementary},
		{Block: Block{Page: 3, Lines: []string{"Closing paragraph."}}, Class: ClassificationMain},
	}

	doc := a.Assemble(blocks)
	assert.Equal(t, "Opening paragraph.\n\nClosing paragraph.", doc.MainText)
	assert.Equal(t, "Table 1\n1 2\n3 4", doc.SupplementaryText)
}

func TestAssembler_OrderPreserved(t *testing.T) {
	a := NewAssembler()

	var blocks []ClassifiedBlock
	mainTexts := []string{"First section.", "Second section.", "Third section.", "Fourth section."}
	for i, text := range mainTexts {
		blocks = append(blocks, ClassifiedBlock{
			Block: Block{Page: i + 1, Lines: []string{text}},
			Class: ClassificationMain,
		})
	}

	doc := a.Assemble(blocks)
	previous := -1
	for _, text := range mainTexts {
		idx := strings.Index(doc.MainText, text)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, previous, "blocks must keep their source order")
		previous = idx
	}
}

func TestAssembledDocument_Output(t *testing.T) {
	tests := []struct {
		name string
		doc  AssembledDocument
		want string
	}{
		{
			name: "no supplementary content omits the banner",
			doc:  AssembledDocument{MainText: "Only narrative text."},
			want: "Only narrative text.",
		},
		{
			name: "supplementary content follows the banner",
			doc:  AssembledDocument{MainText: "Narrative.", SupplementaryText: "Table 1\n1 2"},
			want: "Narrative.\n\n" + testBanner + "\nSUPPLEMENTARY CONTENT\n" + testBanner + "\n\nTable 1\n1 2",
		},
		{
			name: "no main content is banner plus supplementary",
			doc:  AssembledDocument{SupplementaryText: "Appendix A\nDetails."},
			want: testBanner + "\nSUPPLEMENTARY CONTENT\n" + testBanner + "\n\nAppendix A\nDetails.",
		},
		{
			name: "empty document",
			doc:  AssembledDocument{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Output())
		})
	}
}

// End-to-end over the organize stage: segment, classify, assemble.
func TestOrganize_EndToEnd(t *testing.T) {
	raw := "--- Page 1 ---\nIntro text.\n--- Page 2 ---\nTable 1\n1 2\n3 4"

	segmenter := NewSegmenter()
	classifier := NewClassifier()
	assembler := NewAssembler()

	blocks := segmenter.Segment(raw)
	require.Len(t, blocks, 2)

	classified := make([]ClassifiedBlock, 0, len(blocks))
	for _, b := range blocks {
		classified = append(classified, ClassifiedBlock{Block: b, Class: classifier.Classify(b)})
	}

	doc := assembler.Assemble(classified)
	assert.Equal(t, "Intro text.", doc.MainText)
	assert.Equal(t, "Table 1\n1 2\n3 4", doc.SupplementaryText)

	output := doc.Output()
	assert.Contains(t, output, "SUPPLEMENTARY CONTENT")
	assert.Less(t, strings.Index(output, "Intro text."), strings.Index(output, "SUPPLEMENTARY CONTENT"))
	assert.Less(t, strings.Index(output, "SUPPLEMENTARY CONTENT"), strings.Index(output, "Table 1"))
}
