// Package masker hides named entities behind placeholder tokens before
// chunk text is sent to an external correction model, and restores them
// afterwards.
//
// # Masking
//
// The detector supplies surface text and category only; the masker locates
// each occurrence itself with a per-literal forward cursor, resolves
// overlapping candidates in favor of the longer span, and replaces right to
// left so pending offsets stay valid:
//
//	pc := m.Mask(ctx, chunk)
//	// pc.MaskedText:   "<ENTITY_PERSON_1> met <ENTITY_PERSON_0>."
//	// pc.OriginalText: "Alice met Bob."
//
// Placeholder indices reflect replacement order (rightmost first), which
// makes every token unique within its chunk. The recorded entity table is
// kept in left-to-right order with pre-mask offsets, so
//
//	pc.OriginalText[e.Start:e.End] == e.Text
//
// holds for every entry.
//
// # Unmasking
//
// Unmask applies one substitution per entity in descending start order:
//
//	masker.Unmask(pc.MaskedText, pc.Entities) == pc.OriginalText
//
// # Degradation
//
// A failing detector is logged and the chunk goes out unmasked with an
// empty table. Masking never fails a correction pass.
package masker
