package merger

import (
	"sort"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Merge deduplicates resolved errors and returns them ordered by document
// position. Errors typically come from several chunks and several
// correction sources, so near-duplicates and boundary overlaps are normal.
//
// Three pairwise rules apply while inserting, in order:
//  1. Identical findings collapse to one, preferring the copy that carries
//     an explanation.
//  2. Overlapping spans with the same suggestion: the earlier entry wins.
//  3. Overlapping spans with different suggestions: the longer span wins.
//
// Afterwards, suggestions that change nothing (case- and
// whitespace-insensitively equal to the flagged word) are dropped.
func Merge(errs []types.TextError) []types.TextError {
	merged := make([]types.TextError, 0, len(errs))
	for _, e := range errs {
		merged = insert(merged, e)
	}

	out := make([]types.TextError, 0, len(merged))
	for _, e := range merged {
		if e.IsNoop() {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// MergeAll merges several per-chunk or per-source lists at once.
func MergeAll(lists ...[]types.TextError) []types.TextError {
	var flat []types.TextError
	for _, l := range lists {
		flat = append(flat, l...)
	}
	return Merge(flat)
}

// insert applies the pairwise rules between e and each accepted entry.
// When e displaces a shorter entry it is re-inserted from scratch so it is
// also checked against everything else it may overlap.
func insert(merged []types.TextError, e types.TextError) []types.TextError {
	for i := range merged {
		x := &merged[i]

		if x.SameKey(&e) {
			if x.Explanation == "" && e.Explanation != "" {
				x.Explanation = e.Explanation
			}
			return merged
		}

		if !x.Overlaps(&e) {
			continue
		}

		if x.Suggestion == e.Suggestion {
			return merged
		}

		if e.SpanLen() > x.SpanLen() {
			merged = append(merged[:i], merged[i+1:]...)
			return insert(merged, e)
		}
		return merged
	}

	return append(merged, e)
}
