// Package resolver maps findings an external model reported against
// masked chunk text back to byte-exact offsets in the original document.
//
// # Why Two Stages
//
// The model sees masked text, so its indices are skewed by every
// placeholder whose length differs from the entity it hides. And even in
// the model's own coordinate space its indices are routinely off by a few
// characters, while the text it quotes is usually verbatim. Resolution
// therefore runs in two stages:
//
//   - Stage A arithmetically removes the mask skew: indices shift by the
//     accumulated length difference of every placeholder lying entirely
//     before the reported start.
//   - Stage B treats the quoted text as the source of truth: a verbatim
//     search from a forward-only cursor, then an unconstrained retry from
//     position zero (models answer out of order), and only then the
//     adjusted indices, accepted when they are structurally sane. A
//     finding with nothing usable collapses to a zero-length span at the
//     cursor so downstream consumers can still count it.
//
// The forward-only cursor is what distinguishes repeated phrases: if the
// model flags "she run" twice, the second resolution starts searching
// after the first hit.
//
// # Coordinates and Context
//
// Local spans become document spans by adding the chunk's start offset.
// Each resolved error carries up to four words of surrounding document
// text on either side, which gives a reviewer enough to judge the finding
// without reopening the document.
//
// Resolve never returns an error; unresolvable findings are logged and
// collapsed. Per-finding outcomes are exposed through OnOutcome for
// metrics.
package resolver
