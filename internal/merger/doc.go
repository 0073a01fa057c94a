// Package merger combines per-chunk, per-source error lists into one
// deduplicated, position-ordered result.
//
// Merging is greedy and insertion-based: rules fire on the first conflict
// found, which keeps the pass deterministic for the ordered input the
// checker produces. The output is idempotent under re-merging and contains
// no overlapping spans.
package merger
