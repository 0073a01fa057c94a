// Package annotator generates correction candidates for masked chunks using
// pluggable providers.
//
// An annotator receives a ProcessedChunk and returns RawCorrections whose
// offsets point into the masked text. Those offsets are treated as untrusted
// hints downstream; the resolver re-anchors every finding against the
// original document before anything is reported.
//
// # Basic Usage
//
//	// Build the annotator set (auto-detects provider from environment)
//	anns, err := annotator.NewFromEnv(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer annotator.CloseAll(anns)
//
//	for _, ann := range anns {
//	    raws, err := ann.Annotate(ctx, processedChunk)
//	    // resolve raws against the document ...
//	}
//
// # Provider Selection
//
// The provider set is chosen from environment variables:
//
//  1. If PROSECHECK_PROVIDER is set → use the named provider
//  2. Else if OPENAI_API_KEY is set → use the OpenAI provider
//  3. Else → fall back to the rules provider (offline mode)
//
// The rules provider is appended after the model-backed provider unless
// PROSECHECK_RULES disables it, so mechanical mistakes are caught even when
// the model misses them.
//
// # Providers
//
// OpenAI (chat completions):
//   - Sends the masked text with a strict-JSON system prompt
//   - Temperature 0, response_format json_object
//   - Tolerates fenced or prose-wrapped output when parsing
//   - Retries transient failures with exponential backoff
//
// Rules (offline):
//   - Misspelling table, doubled words, a/an agreement,
//     repeated punctuation, multiple spaces
//   - Byte-exact spans on the masked text
//   - Skips anything that touches a mask placeholder
//
// # Caching
//
// Model responses are cached in memory by hash of provider, model, and
// masked text:
//
//	cache := annotator.NewCache(1024)
//	hash := annotator.ComputeHash("openai", "gpt-4o-mini", maskedText)
//	if raws, ok := cache.Get(hash); ok {
//	    return raws // cache hit, no API call
//	}
//
// Cache reads return copies, so callers can mutate results freely.
//
// # Error Handling
//
// Providers distinguish transport failures from content failures:
//
//	raws, err := ann.Annotate(ctx, pc)
//	if errors.Is(err, annotator.ErrRequestFailed) {
//	    // API unreachable after retries
//	}
//
// Malformed model output (ErrMalformedOutput) also surfaces as
// ErrRequestFailed after the retry budget is spent; the checker degrades to
// the remaining providers rather than failing the whole document.
package annotator
