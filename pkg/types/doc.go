// Package types provides shared type definitions for the prosecheck engine.
//
// This package defines the domain types passed between pipeline stages:
// chunks, masked entities, raw model findings, and resolved text errors.
//
// # Coordinate Spaces
//
// The pipeline works in three coordinate spaces, and every type records
// which one it lives in:
//
//   - Document space: byte offsets into the full original text. Chunk
//     offsets and TextError offsets live here.
//   - Chunk space: byte offsets into one chunk's original text.
//     MaskedEntity offsets live here.
//   - Masked space: byte offsets into a chunk's text after entity
//     placeholders were substituted. RawCorrection offsets live here and
//     are untrusted.
//
// A Chunk is always a verbatim slice of its document:
//
//	chunk := types.Chunk{Text: doc[12:80], StartOffset: 12, EndOffset: 80}
//	chunk.VerifyAgainst(doc) // nil
//
// so chunk-space offsets translate to document space by adding StartOffset.
//
// # Masking
//
// MaskedEntity records one placeholder substitution. Placeholders are built
// by MaskToken and are unique within a chunk:
//
//	types.MaskToken(types.EntityPerson, 0) // "<ENTITY_PERSON_0>"
//
// ProcessedChunk bundles the masked text with its reversal table; applying
// the table right-to-left restores the original text exactly.
//
// # Findings
//
// RawCorrection is what a correction source reports: a category string,
// span indices into the masked text, the flagged text, and a suggested
// replacement. Nothing in it is trusted until the resolver maps it back to
// document space.
//
// TextError is the resolved form consumed by callers:
//
//	err := types.TextError{
//	    Type:       types.ErrorGrammar,
//	    Word:       "She run",
//	    Start:      28,
//	    End:        35,
//	    Suggestion: "She runs",
//	}
//
// # Validation
//
// Domain types implement validation methods returning the sentinel errors
// declared in this package, so callers can branch with errors.Is.
package types
