package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

func plainChunk(text string) types.ProcessedChunk {
	return types.ProcessedChunk{
		MaskedText:   text,
		OriginalText: text,
		StartOffset:  0,
		EndOffset:    len(text),
	}
}

func TestResolveMaskedChunk(t *testing.T) {
	original := "Mrs. Smith went to New York. She run fast."
	pc := types.ProcessedChunk{
		MaskedText:   "<ENTITY_PERSON_1> went to <ENTITY_PLACE_0>. She run fast.",
		OriginalText: original,
		Entities: []types.MaskedEntity{
			{Text: "Mrs. Smith", Replacement: "<ENTITY_PERSON_1>", Start: 0, End: 10, Type: types.EntityPerson},
			{Text: "New York", Replacement: "<ENTITY_PLACE_0>", Start: 19, End: 27, Type: types.EntityPlace},
		},
		StartOffset: 0,
		EndOffset:   len(original),
	}

	// Indices point at "She run" within the masked text.
	raw := []types.RawCorrection{{
		Category:             "grammar",
		StartIndex:           44,
		EndIndex:             51,
		OriginalText:         "She run",
		SuggestedReplacement: "She ran",
		Explanation:          "Subject-verb agreement",
	}}

	got := New(original, zap.NewNop()).Resolve(raw, pc)
	require.Len(t, got, 1)

	e := got[0]
	assert.Equal(t, types.ErrorGrammar, e.Type)
	assert.Equal(t, "She run", e.Word)
	assert.Equal(t, 29, e.Start)
	assert.Equal(t, 36, e.End)
	assert.Equal(t, "She run", original[e.Start:e.End])
	assert.Equal(t, "She ran", e.Suggestion)
	assert.Equal(t, "went to New York.", e.ContextBefore)
	assert.Equal(t, "fast.", e.ContextAfter)
}

func TestResolveAdjustedBoundsWithoutQuote(t *testing.T) {
	// Same chunk, but the model omitted original_text. Stage A alone must
	// land the span on the original coordinates.
	original := "Mrs. Smith went to New York. She run fast."
	pc := types.ProcessedChunk{
		MaskedText:   "<ENTITY_PERSON_1> went to <ENTITY_PLACE_0>. She run fast.",
		OriginalText: original,
		Entities: []types.MaskedEntity{
			{Text: "Mrs. Smith", Replacement: "<ENTITY_PERSON_1>", Start: 0, End: 10, Type: types.EntityPerson},
			{Text: "New York", Replacement: "<ENTITY_PLACE_0>", Start: 19, End: 27, Type: types.EntityPlace},
		},
		StartOffset: 0,
		EndOffset:   len(original),
	}

	raw := []types.RawCorrection{{
		Category:             "grammar",
		StartIndex:           44,
		EndIndex:             51,
		SuggestedReplacement: "She ran",
	}}

	got := New(original, zap.NewNop()).Resolve(raw, pc)
	require.Len(t, got, 1)
	assert.Equal(t, 29, got[0].Start)
	assert.Equal(t, 36, got[0].End)
	assert.Equal(t, "She run", got[0].Word)
}

func TestResolveRepeatedPhraseAdvancesCursor(t *testing.T) {
	text := "She run fast. She run far."
	raw := []types.RawCorrection{
		{Category: "grammar", OriginalText: "She run", SuggestedReplacement: "She ran"},
		{Category: "grammar", OriginalText: "She run", SuggestedReplacement: "She ran"},
	}

	got := New(text, zap.NewNop()).Resolve(raw, plainChunk(text))
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 7, got[0].End)
	assert.Equal(t, 14, got[1].Start)
	assert.Equal(t, 21, got[1].End)
}

func TestResolveOutOfOrderRescans(t *testing.T) {
	text := "alpha beta gamma."
	raw := []types.RawCorrection{
		{Category: "spelling", OriginalText: "gamma", SuggestedReplacement: "gama"},
		{Category: "spelling", OriginalText: "alpha", SuggestedReplacement: "alfa"},
		{Category: "spelling", OriginalText: "beta", SuggestedReplacement: "betta"},
	}

	var outcomes []string
	r := New(text, zap.NewNop())
	r.OnOutcome = func(o string) { outcomes = append(outcomes, o) }

	got := r.Resolve(raw, plainChunk(text))
	require.Len(t, got, 3)
	assert.Equal(t, 11, got[0].Start)
	assert.Equal(t, 0, got[1].Start)
	assert.Equal(t, 6, got[2].Start)
	assert.Equal(t, []string{OutcomeCursor, OutcomeRescan, OutcomeRescan}, outcomes)
}

func TestResolveFallsBackToReportedBounds(t *testing.T) {
	text := "alpha beta gamma."
	raw := []types.RawCorrection{{
		Category:             "grammar",
		StartIndex:           6,
		EndIndex:             9,
		OriginalText:         "zzz",
		SuggestedReplacement: "yyy",
	}}

	var outcomes []string
	r := New(text, zap.NewNop())
	r.OnOutcome = func(o string) { outcomes = append(outcomes, o) }

	got := r.Resolve(raw, plainChunk(text))
	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Start)
	assert.Equal(t, 9, got[0].End)
	assert.Equal(t, "zzz", got[0].Word)
	assert.Equal(t, []string{OutcomeReported}, outcomes)
}

func TestResolveCollapsesUnusableFinding(t *testing.T) {
	text := "alpha beta gamma."

	tests := []struct {
		name string
		raw  types.RawCorrection
	}{
		{"bounds beyond chunk", types.RawCorrection{OriginalText: "zzz", StartIndex: 50, EndIndex: 60}},
		{"negative start", types.RawCorrection{OriginalText: "zzz", StartIndex: -4, EndIndex: 2}},
		{"empty quote and empty span", types.RawCorrection{StartIndex: 5, EndIndex: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var outcomes []string
			r := New(text, zap.NewNop())
			r.OnOutcome = func(o string) { outcomes = append(outcomes, o) }

			got := r.Resolve([]types.RawCorrection{tt.raw}, plainChunk(text))
			require.Len(t, got, 1)
			assert.Equal(t, got[0].Start, got[0].End)
			assert.Equal(t, 0, got[0].Start)
			assert.Equal(t, []string{OutcomeCollapsed}, outcomes)
			require.NoError(t, got[0].Validate())
		})
	}
}

func TestResolveEmptyQuoteUsesChunkSlice(t *testing.T) {
	text := "alpha beta gamma."
	raw := []types.RawCorrection{{
		Category:             "grammar",
		StartIndex:           6,
		EndIndex:             10,
		SuggestedReplacement: "betas",
	}}

	got := New(text, zap.NewNop()).Resolve(raw, plainChunk(text))
	require.Len(t, got, 1)
	assert.Equal(t, "beta", got[0].Word)
}

func TestResolveGlobalOffsets(t *testing.T) {
	doc := "One two three four five six seven eight nine ten."
	pc := types.ProcessedChunk{
		MaskedText:   "five six seven",
		OriginalText: "five six seven",
		StartOffset:  19,
		EndOffset:    33,
	}
	raw := []types.RawCorrection{{
		Category:             "grammar",
		OriginalText:         "six",
		SuggestedReplacement: "sixth",
	}}

	got := New(doc, zap.NewNop()).Resolve(raw, pc)
	require.Len(t, got, 1)
	assert.Equal(t, 24, got[0].Start)
	assert.Equal(t, 27, got[0].End)
	assert.Equal(t, "six", doc[got[0].Start:got[0].End])
	assert.Equal(t, "two three four five", got[0].ContextBefore)
	assert.Equal(t, "seven eight nine ten.", got[0].ContextAfter)
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		category string
		want     types.ErrorType
	}{
		{"spelling", types.ErrorSpelling},
		{"Spelling mistake", types.ErrorSpelling},
		{"MISSPELLING", types.ErrorSpelling},
		{"grammar", types.ErrorGrammar},
		{"punctuation", types.ErrorGrammar},
		{"", types.ErrorGrammar},
		{"word choice", types.ErrorGrammar},
		{"style", types.ErrorStyle},
		{"tone adjustment", types.ErrorStyle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeCategory(tt.category), "category %q", tt.category)
	}
}

func TestAdjustForMasks(t *testing.T) {
	// One entity "ab" hidden behind a 17-byte placeholder at the start of
	// the masked text.
	spans := maskedSpans([]types.MaskedEntity{
		{Text: "ab", Replacement: "<ENTITY_PERSON_0>", Start: 0, End: 2, Type: types.EntityPerson},
	})
	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].start)
	assert.Equal(t, 17, spans[0].end)

	start, end := adjustForMasks(20, 25, spans)
	assert.Equal(t, 5, start)
	assert.Equal(t, 10, end)

	// Reported start inside the placeholder: no adjustment.
	start, end = adjustForMasks(10, 12, spans)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)

	// Reported start exactly at the placeholder's end: adjusted.
	start, end = adjustForMasks(17, 20, spans)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestMaskedSpansAccumulateShift(t *testing.T) {
	spans := maskedSpans([]types.MaskedEntity{
		{Text: "Mrs. Smith", Replacement: "<ENTITY_PERSON_1>", Start: 0, End: 10, Type: types.EntityPerson},
		{Text: "New York", Replacement: "<ENTITY_PLACE_0>", Start: 19, End: 27, Type: types.EntityPlace},
	})
	require.Len(t, spans, 2)

	// First placeholder occupies [0,17) in masked text; the second starts
	// 7 bytes later than its pre-mask offset because the first grew.
	assert.Equal(t, 0, spans[0].start)
	assert.Equal(t, 17, spans[0].end)
	assert.Equal(t, 26, spans[1].start)
	assert.Equal(t, 42, spans[1].end)
}

func TestResolveNoFindings(t *testing.T) {
	assert.Nil(t, New("text", zap.NewNop()).Resolve(nil, plainChunk("text")))
}
