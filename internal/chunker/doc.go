// Package chunker groups sentences into document chunks sized for an
// external correction model.
//
// # Basic Usage
//
//	b := chunker.New(seg, 3, 4000, logger)
//	chunks := b.Build(document)
//
//	for _, c := range chunks {
//	    fmt.Printf("chunk %d-%d (%d sentences)\n",
//	        c.StartOffset, c.EndOffset, c.SentenceCount)
//	}
//
// # Offset Recovery
//
// The sentence detector reports sentence strings but no positions, and its
// output cannot be fully trusted, so the builder re-derives positions
// itself: each batch's first and last sentences are located by verbatim
// substring search starting at a forward-only cursor, and the chunk is the
// exact document slice between them. Every chunk therefore satisfies
//
//	document[chunk.StartOffset:chunk.EndOffset] == chunk.Text
//
// which the rest of the pipeline relies on to translate chunk-local
// offsets into document offsets by plain addition.
//
// The forward-only cursor is what disambiguates repeated text: in
// "Hello world. Hello world." the second batch's search begins after the
// first chunk's end, so each occurrence maps to its own offsets.
//
// # Degradation
//
// A batch whose sentences cannot be located verbatim is retried with
// whitespace-tolerant matching (any whitespace run in the sentence matches
// any whitespace run in the document); if that also fails the batch is
// dropped with a warning rather than mapped to wrong offsets.
//
// Chunks above the size ceiling are force-split at rune boundaries before
// masking. Slices keep exact offsets but lose sentence attribution.
package chunker
