package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avandersen/prosecheck/internal/annotator"
	"github.com/avandersen/prosecheck/internal/chunker"
	"github.com/avandersen/prosecheck/internal/masker"
	"github.com/avandersen/prosecheck/internal/merger"
	"github.com/avandersen/prosecheck/internal/metrics"
	"github.com/avandersen/prosecheck/internal/resolver"
	"github.com/avandersen/prosecheck/pkg/types"
)

// Common errors
var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrNoAnnotators  = errors.New("no annotators configured")
	ErrSuperseded    = errors.New("check superseded by a newer check of the same document")
)

// DefaultMaxConcurrentChunks bounds parallel chunk processing
const DefaultMaxConcurrentChunks = 4

// Checker coordinates the checking pipeline: chunk -> mask -> annotate ->
// resolve -> merge
type Checker struct {
	builder    *chunker.Builder
	masker     *masker.Masker
	annotators []annotator.Annotator
	metrics    *metrics.Metrics
	log        *zap.Logger

	// Worker pool configuration
	maxConcurrent int

	// Per-document generation tokens for supersede detection
	mu   sync.Mutex
	gens map[string]uint64

	active int32
}

// Config contains configuration for the checker
type Config struct {
	MaxConcurrentChunks int // Number of chunks processed in parallel (default: 4)
}

// Stats describes one completed check
type Stats struct {
	ChunksProcessed  int      `json:"chunks_processed"`
	ChunksFailed     int      `json:"chunks_failed"`
	EntitiesMasked   int      `json:"entities_masked"`
	RawCorrections   int      `json:"raw_corrections"`
	ErrorsReported   int      `json:"errors_reported"`
	ProviderFailures []string `json:"provider_failures,omitempty"`
	DurationMs       int64    `json:"duration_ms"`
}

// Result is the outcome of checking one document
type Result struct {
	Errors []types.TextError `json:"errors"`
	Stats  Stats             `json:"stats"`
}

// Status is a point-in-time snapshot of pipeline configuration
type Status struct {
	Providers         []string `json:"providers"`
	SentencesPerChunk int      `json:"sentences_per_chunk"`
	MaxChunkChars     int      `json:"max_chunk_chars"`
	MaxConcurrent     int      `json:"max_concurrent_chunks"`
	ActiveChecks      int      `json:"active_checks"`
}

// chunkOutcome carries per-chunk counters back to the aggregator
type chunkOutcome struct {
	entities  int
	raws      int
	allFailed bool
	failures  []string
}

// New creates a Checker. The metrics handle may be nil.
func New(builder *chunker.Builder, msk *masker.Masker, anns []annotator.Annotator, m *metrics.Metrics, cfg *Config, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}

	maxConcurrent := DefaultMaxConcurrentChunks
	if cfg != nil && cfg.MaxConcurrentChunks > 0 {
		maxConcurrent = cfg.MaxConcurrentChunks
	}

	return &Checker{
		builder:       builder,
		masker:        msk,
		annotators:    anns,
		metrics:       m,
		log:           log.Named("checker"),
		maxConcurrent: maxConcurrent,
		gens:          make(map[string]uint64),
	}
}

// Check runs the full pipeline over an anonymous document using the
// configured sentences-per-chunk count.
func (c *Checker) Check(ctx context.Context, document string) (*Result, error) {
	return c.CheckN(ctx, document, 0)
}

// CheckN runs the full pipeline with an explicit sentences-per-chunk count.
// Zero means the configured default.
//
// Failures degrade instead of aborting: an annotator that errors on a chunk
// contributes nothing for that chunk, a chunk where every annotator errors
// contributes no findings at all, and the document result reports whatever
// the surviving providers produced. Only context cancellation fails the
// whole check.
func (c *Checker) CheckN(ctx context.Context, document string, sentencesPerChunk int) (*Result, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}
	if len(c.annotators) == 0 {
		return nil, ErrNoAnnotators
	}

	atomic.AddInt32(&c.active, 1)
	defer atomic.AddInt32(&c.active, -1)

	startTime := time.Now()

	chunks := c.builder.BuildN(document, sentencesPerChunk)
	c.metrics.RecordChunks(len(chunks))
	if len(chunks) == 0 {
		return &Result{Errors: []types.TextError{}}, nil
	}

	res := resolver.New(document, c.log)
	res.OnOutcome = c.metrics.RecordResolveOutcome

	// Track progress with atomic counters
	var (
		entities int32
		rawCount int32
		failed   int32
	)
	var mu sync.Mutex // Protects providerFailures
	var providerFailures []string

	results := make([][]types.TextError, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for i, ch := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			merged, out := c.processChunk(gctx, ch, res)
			results[i] = merged

			atomic.AddInt32(&entities, int32(out.entities))
			atomic.AddInt32(&rawCount, int32(out.raws))
			if out.allFailed {
				atomic.AddInt32(&failed, 1)
			}
			if len(out.failures) > 0 {
				mu.Lock()
				providerFailures = append(providerFailures, out.failures...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Chunks never overlap, so this is a flatten plus final sort; the merge
	// rules only engage if two providers were merged per chunk already.
	all := merger.MergeAll(results...)
	if all == nil {
		all = []types.TextError{}
	}

	typeCounts := make(map[string]int)
	for _, e := range all {
		typeCounts[string(e.Type)]++
	}
	c.metrics.RecordErrorsReported(typeCounts)

	result := &Result{
		Errors: all,
		Stats: Stats{
			ChunksProcessed:  len(chunks),
			ChunksFailed:     int(failed),
			EntitiesMasked:   int(entities),
			RawCorrections:   int(rawCount),
			ErrorsReported:   len(all),
			ProviderFailures: providerFailures,
			DurationMs:       time.Since(startTime).Milliseconds(),
		},
	}

	c.log.Info("check complete",
		zap.Int("chunks", len(chunks)),
		zap.Int("errors", len(all)),
		zap.Int("entities_masked", int(entities)),
		zap.Int64("duration_ms", result.Stats.DurationMs))

	return result, nil
}

// CheckDocument runs Check under a per-document generation token. When a
// newer check of the same document starts while this one is running, the
// stale result is discarded and ErrSuperseded is returned. An empty docID
// is anonymous and never superseded.
func (c *Checker) CheckDocument(ctx context.Context, docID, document string) (*Result, error) {
	return c.CheckDocumentN(ctx, docID, document, 0)
}

// CheckDocumentN is CheckDocument with an explicit sentences-per-chunk count.
// Zero means the configured default.
func (c *Checker) CheckDocumentN(ctx context.Context, docID, document string, sentencesPerChunk int) (*Result, error) {
	if docID == "" {
		return c.CheckN(ctx, document, sentencesPerChunk)
	}

	gen := c.beginCheck(docID)

	result, err := c.CheckN(ctx, document, sentencesPerChunk)
	if err != nil {
		return nil, err
	}

	if !c.stillCurrent(docID, gen) {
		c.log.Info("discarding superseded check result", zap.String("document_id", docID))
		return nil, ErrSuperseded
	}
	return result, nil
}

// Prepare segments, chunks, and masks a document without calling any
// provider. Callers that drive their own correction source feed each
// returned chunk's MaskedText to it and map the findings back with
// ResolveCorrections. Empty or whitespace-only input yields nil.
func (c *Checker) Prepare(ctx context.Context, document string, sentencesPerChunk int) []types.ProcessedChunk {
	chunks := c.builder.BuildN(document, sentencesPerChunk)
	if len(chunks) == 0 {
		return nil
	}

	out := make([]types.ProcessedChunk, len(chunks))
	for i, ch := range chunks {
		out[i] = c.masker.Mask(ctx, ch)
	}
	return out
}

// ResolveCorrections maps one prepared chunk's provider findings back to
// byte-exact offsets in document. The document must be the same text the
// chunk was prepared from.
func (c *Checker) ResolveCorrections(document string, raw []types.RawCorrection, pc types.ProcessedChunk) []types.TextError {
	res := resolver.New(document, c.log)
	res.OnOutcome = c.metrics.RecordResolveOutcome
	return res.Resolve(raw, pc)
}

// processChunk masks one chunk, fans out to every annotator, and merges the
// resolved findings. Provider failures are recorded, not propagated.
func (c *Checker) processChunk(ctx context.Context, ch types.Chunk, res *resolver.Resolver) ([]types.TextError, chunkOutcome) {
	pc := c.masker.Mask(ctx, ch)
	out := chunkOutcome{entities: len(pc.Entities)}

	var lists [][]types.TextError
	for _, ann := range c.annotators {
		start := time.Now()
		raws, err := ann.Annotate(ctx, pc)
		elapsed := time.Since(start).Seconds()

		if err != nil {
			c.metrics.RecordAnnotatorRequest(ann.Name(), "error", elapsed)
			c.log.Warn("annotator failed on chunk",
				zap.String("provider", ann.Name()),
				zap.Int("chunk_start", ch.StartOffset),
				zap.Error(err))
			out.failures = append(out.failures, fmt.Sprintf("%s: chunk at %d: %v", ann.Name(), ch.StartOffset, err))
			continue
		}

		c.metrics.RecordAnnotatorRequest(ann.Name(), "ok", elapsed)
		out.raws += len(raws)
		lists = append(lists, res.Resolve(raws, pc))
	}

	if len(lists) == 0 {
		out.allFailed = true
	}
	return merger.MergeAll(lists...), out
}

// Status reports the live pipeline configuration
func (c *Checker) Status() Status {
	providers := make([]string, len(c.annotators))
	for i, a := range c.annotators {
		providers[i] = a.Name()
	}
	return Status{
		Providers:         providers,
		SentencesPerChunk: c.builder.SentencesPerChunk(),
		MaxChunkChars:     c.builder.MaxChunkChars(),
		MaxConcurrent:     c.maxConcurrent,
		ActiveChecks:      int(atomic.LoadInt32(&c.active)),
	}
}

// Close releases the annotators
func (c *Checker) Close() error {
	return annotator.CloseAll(c.annotators)
}

// beginCheck bumps and returns the document's generation token
func (c *Checker) beginCheck(docID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[docID]++
	return c.gens[docID]
}

// stillCurrent reports whether gen is the document's latest generation
func (c *Checker) stillCurrent(docID string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[docID] == gen
}
