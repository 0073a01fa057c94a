// Package segmenter splits prose into sentences.
//
// The production implementation wraps a trained Punkt tokenizer with the
// embedded English model, which is what keeps "Mrs. Smith" or "3.5 meters"
// from being treated as sentence boundaries. Downstream stages only need
// the Segmenter interface, so tests and degraded deployments can substitute
// a Func.
//
// Segmentation never fails at runtime: bad input degrades to the whole
// document as a single sentence, and the chunk builder copes with whatever
// comes back.
package segmenter
