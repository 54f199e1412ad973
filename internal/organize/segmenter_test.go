package organize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmenter_Segment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Block
	}{
		{
			name: "empty stream",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "  \n\t\n ",
			want: nil,
		},
		{
			name: "two pages",
			raw:  "\n--- Page 1 ---\nFirst page content.\n--- Page 2 ---\nSecond page content.",
			want: []Block{
				{Page: 1, Lines: []string{"First page content."}},
				{Page: 2, Lines: []string{"Second page content."}},
			},
		},
		{
			name: "no markers yields single block",
			raw:  "Just some loose text.\nAcross two lines.",
			want: []Block{
				{Page: 0, Lines: []string{"Just some loose text.", "Across two lines."}},
			},
		},
		{
			name: "page contributing only boilerplate is dropped",
			raw:  "\n--- Page 1 ---\nReal content here.\n--- Page 2 ---\n42\nheader",
			want: []Block{
				{Page: 1, Lines: []string{"Real content here."}},
			},
		},
	}

	s := NewSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Segment(tt.raw))
		})
	}
}

func TestSegmenter_BoilerplateStripping(t *testing.T) {
	tests := []struct {
		name string
		line string
		kept bool
	}{
		{name: "bare page number", line: "4", kept: false},
		{name: "longer page number", line: "1234", kept: false},
		{name: "page label", line: "Page 12", kept: false},
		{name: "page label lowercase", line: "page 3", kept: false},
		{name: "header literal", line: "HEADER", kept: false},
		{name: "footer literal", line: "footer", kept: false},
		{name: "short line", line: "ab", kept: false},
		{name: "ordinary sentence", line: "The quick brown fox.", kept: true},
		{name: "numeric but not alone", line: "Chapter 4 begins here.", kept: true},
	}

	s := NewSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "\n--- Page 1 ---\nAnchor line of content.\n" + tt.line
			blocks := s.Segment(raw)
			require.Len(t, blocks, 1)
			if tt.kept {
				assert.Equal(t, []string{"Anchor line of content.", tt.line}, blocks[0].Lines)
			} else {
				assert.Equal(t, []string{"Anchor line of content."}, blocks[0].Lines)
			}
		})
	}
}

func TestSegmenter_WhitespaceNormalization(t *testing.T) {
	s := NewSegmenter()

	raw := "\n--- Page 1 ---\nColumns   with\t\tuneven   spacing here.\n\n\n\n\nAfter the gap."
	blocks := s.Segment(raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Columns with uneven spacing here.", "After the gap."}, blocks[0].Lines)
}

func TestSegmenter_Idempotent(t *testing.T) {
	s := NewSegmenter()

	raw := "\n--- Page 1 ---\nSome   narrative text.\n4\nheader\n--- Page 2 ---\nMore content follows here.\npage 2"
	first := s.Segment(raw)
	require.NotEmpty(t, first)

	// Rebuild a tagged stream from the cleaned blocks and segment again.
	var rebuilt strings.Builder
	for _, b := range first {
		fmt.Fprintf(&rebuilt, "\n--- Page %d ---\n%s", b.Page, b.Text())
	}
	second := s.Segment(rebuilt.String())

	assert.Equal(t, first, second)
}

func TestSegmenter_OrderPreserved(t *testing.T) {
	s := NewSegmenter()

	raw := "\n--- Page 1 ---\nAlpha section text.\n--- Page 2 ---\nBravo section text.\n--- Page 3 ---\nCharlie section text."
	blocks := s.Segment(raw)
	require.Len(t, blocks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{blocks[0].Page, blocks[1].Page, blocks[2].Page})
	assert.Equal(t, "Alpha section text.", blocks[0].Text())
	assert.Equal(t, "Bravo section text.", blocks[1].Text())
	assert.Equal(t, "Charlie section text.", blocks[2].Text())
}

func TestSegmenter_CustomRules(t *testing.T) {
	rules := append(DefaultBoilerplateRules(), BoilerplateRule{
		Name: "draft_stamp",
		Drop: func(line string) bool { return strings.EqualFold(line, "draft") },
	})
	s := NewSegmenterWithRules(rules)

	blocks := s.Segment("\n--- Page 1 ---\nDRAFT\nActual paragraph text.")
	if assert.Len(t, blocks, 1) {
		assert.Equal(t, []string{"Actual paragraph text."}, blocks[0].Lines)
	}
}
