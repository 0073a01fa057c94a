package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPunktSegment(t *testing.T) {
	seg, err := NewPunkt(nil, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two plain sentences",
			text: "Mrs. Smith went to New York. She run fast.",
			want: []string{"Mrs. Smith went to New York.", "She run fast."},
		},
		{
			name: "title abbreviation is not a boundary",
			text: "Dr. Jones examined the patient. Everything looked fine.",
			want: []string{"Dr. Jones examined the patient.", "Everything looked fine."},
		},
		{
			name: "decimal number is not a boundary",
			text: "The rope is 3.5 meters long.",
			want: []string{"The rope is 3.5 meters long."},
		},
		{
			name: "url is not a boundary",
			text: "See https://example.com/docs for details. Then decide.",
			want: []string{"See https://example.com/docs for details.", "Then decide."},
		},
		{
			name: "no terminal punctuation",
			text: "this text never terminates",
			want: []string{"this text never terminates"},
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "  First sentence here.\n\nSecond sentence there.  ",
			want: []string{"First sentence here.", "Second sentence there."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seg.Segment(tt.text))
		})
	}
}

func TestPunktSegmentEmptyInput(t *testing.T) {
	seg, err := NewPunkt(nil, zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, seg.Segment(""))
	assert.Nil(t, seg.Segment("   \n\t  "))
}

func TestPunktCustomAbbreviation(t *testing.T) {
	seg, err := NewPunkt([]string{"approx"}, zap.NewNop())
	require.NoError(t, err)

	got := seg.Segment("It weighs approx. 50 kg. The crate is heavier.")
	require.Len(t, got, 2)
	assert.Equal(t, "It weighs approx. 50 kg.", got[0])
	assert.Equal(t, "The crate is heavier.", got[1])
}

func TestFuncAdapter(t *testing.T) {
	var got string
	seg := Func(func(text string) []string {
		got = text
		return []string{"a", "b"}
	})

	assert.Equal(t, []string{"a", "b"}, seg.Segment("input"))
	assert.Equal(t, "input", got)
}
