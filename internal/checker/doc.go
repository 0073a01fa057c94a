// Package checker coordinates the end-to-end checking pipeline for prose
// documents.
//
// The checker orchestrates chunking, entity masking, annotation, offset
// resolution, and merging, managing concurrency and degradation so that one
// misbehaving provider never takes down a whole document check.
//
// # Basic Usage
//
//	chk := checker.New(builder, msk, annotators, m, nil, logger)
//	defer chk.Close()
//
//	result, err := chk.Check(ctx, documentText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//	    fmt.Printf("%s [%d:%d] %q -> %q\n", e.Type, e.Start, e.End, e.Word, e.Suggestion)
//	}
//
// # Checking Pipeline
//
// The checker executes a multi-stage pipeline:
//
//  1. Chunk: Group sentences into verbatim document slices
//  2. Mask: Replace detected entities with typed placeholders (parallel per chunk)
//  3. Annotate: Send masked text to every configured provider
//  4. Resolve: Map each finding back to byte-exact document offsets
//  5. Merge: Deduplicate and drop no-op or overlapping findings
//
// # Concurrent Processing
//
// Chunks are processed in parallel with a bounded worker pool:
//
//	g, gctx := errgroup.WithContext(ctx)
//	g.SetLimit(maxConcurrentChunks)
//
// Every finding carries absolute document offsets, so results assemble in
// chunk order regardless of completion order.
//
// # Degradation
//
// Provider failures shrink the result instead of failing the check:
//
//	result, err := chk.Check(ctx, doc)
//	// err only for empty input or context cancellation
//
//	if len(result.Stats.ProviderFailures) > 0 {
//	    // some chunks were covered by fewer providers
//	}
//
// A chunk where every provider fails contributes zero findings and is
// counted in Stats.ChunksFailed.
//
// # Supersede Semantics
//
// Checks addressed to a stored document carry a generation token:
//
//	r1, err := chk.CheckDocument(ctx, "doc-42", v1) // slow
//	r2, err := chk.CheckDocument(ctx, "doc-42", v2) // started later, returns first
//	// the v1 check returns checker.ErrSuperseded instead of stale offsets
//
// Offsets computed against an old revision are useless against the new one,
// so stale results are discarded at the source.
//
// # Building Blocks
//
// Callers that drive their own correction source can use the pipeline
// stages directly instead of Check:
//
//	pcs := chk.Prepare(ctx, doc, 0)
//	for _, pc := range pcs {
//	    raws := myModel(pc.MaskedText)
//	    errs = append(errs, chk.ResolveCorrections(doc, raws, pc))
//	}
//	all := merger.MergeAll(errs...)
package checker
