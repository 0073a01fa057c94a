package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandersen/prosecheck/pkg/types"
)

func err(start, end int, word, suggestion string) types.TextError {
	return types.TextError{
		Type:       types.ErrorGrammar,
		Word:       word,
		Start:      start,
		End:        end,
		Suggestion: suggestion,
	}
}

func TestMergeIdenticalPrefersExplanation(t *testing.T) {
	a := err(0, 7, "She run", "She ran")
	b := a
	b.Explanation = "Subject-verb agreement"

	got := Merge([]types.TextError{a, b})
	require.Len(t, got, 1)
	assert.Equal(t, "Subject-verb agreement", got[0].Explanation)

	// Order-independent: explained copy first.
	got = Merge([]types.TextError{b, a})
	require.Len(t, got, 1)
	assert.Equal(t, "Subject-verb agreement", got[0].Explanation)
}

func TestMergeOverlapSameSuggestionKeepsEarlier(t *testing.T) {
	a := err(0, 7, "She run", "She ran")
	b := err(4, 7, "run", "She ran")

	got := Merge([]types.TextError{a, b})
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0])
}

func TestMergeOverlapDifferentSuggestionKeepsLonger(t *testing.T) {
	longer := err(0, 7, "She run", "She ran")
	shorter := err(4, 7, "run", "runs")

	got := Merge([]types.TextError{longer, shorter})
	require.Len(t, got, 1)
	assert.Equal(t, longer, got[0])

	got = Merge([]types.TextError{shorter, longer})
	require.Len(t, got, 1)
	assert.Equal(t, longer, got[0])
}

func TestMergeReplacementCascades(t *testing.T) {
	// The wide incoming span displaces both short ones it overlaps.
	x1 := err(0, 3, "aaa", "one")
	x2 := err(4, 8, "bbbb", "two")
	wide := err(0, 8, "aaa bbbb", "three")

	got := Merge([]types.TextError{x1, x2, wide})
	require.Len(t, got, 1)
	assert.Equal(t, wide, got[0])
}

func TestMergeDropsNoopSuggestions(t *testing.T) {
	noop := err(0, 3, "teh", " TEH ")
	real := err(5, 8, "teh", "the")

	got := Merge([]types.TextError{noop, real})
	require.Len(t, got, 1)
	assert.Equal(t, real, got[0])
}

func TestMergeSortsByPosition(t *testing.T) {
	a := err(40, 45, "aaaaa", "a")
	b := err(3, 8, "bbbbb", "b")
	c := err(12, 20, "cccc", "c")

	got := Merge([]types.TextError{a, b, c})
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 12, 40}, []int{got[0].Start, got[1].Start, got[2].Start})
}

func TestMergeIdempotent(t *testing.T) {
	input := []types.TextError{
		err(0, 7, "She run", "She ran"),
		err(4, 7, "run", "She ran"),
		err(4, 7, "run", "runs"),
		err(12, 15, "teh", "the"),
		err(12, 15, "teh", "teh"),
		err(30, 33, "foo", "bar"),
	}

	once := Merge(input)
	twice := Merge(once)
	assert.Equal(t, once, twice)

	// No overlaps survive.
	for i := range once {
		for j := i + 1; j < len(once); j++ {
			assert.False(t, once[i].Overlaps(&once[j]),
				"spans %d and %d overlap", i, j)
		}
	}
}

func TestMergeKeepsDistinctFindings(t *testing.T) {
	a := err(0, 3, "teh", "the")
	b := err(10, 17, "recieve", "receive")
	b.Type = types.ErrorSpelling

	got := Merge([]types.TextError{a, b})
	assert.Len(t, got, 2)
}

func TestMergeAllAcrossSources(t *testing.T) {
	chunk1 := []types.TextError{err(0, 7, "She run", "She ran")}
	chunk2 := []types.TextError{err(50, 53, "teh", "the")}
	rules := []types.TextError{
		err(0, 7, "She run", "She ran"), // duplicate of the model finding
		err(60, 63, "adn", "and"),
	}

	got := MergeAll(chunk1, chunk2, rules)
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 50, got[1].Start)
	assert.Equal(t, 60, got[2].Start)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
	assert.Empty(t, MergeAll())
}
