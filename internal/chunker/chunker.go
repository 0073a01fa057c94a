package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/segmenter"
	"github.com/avandersen/prosecheck/pkg/types"
)

const (
	// DefaultSentencesPerChunk is the number of consecutive sentences
	// grouped into one chunk
	DefaultSentencesPerChunk = 3

	// MaxSentencesPerChunk bounds per-call overrides
	MaxSentencesPerChunk = 10

	// DefaultMaxChunkChars is the size ceiling above which a chunk is
	// force-split before masking
	DefaultMaxChunkChars = 4000

	// MinChunkChars is the smallest accepted size ceiling
	MinChunkChars = 256
)

// Builder groups consecutive sentences into chunks that are verbatim
// slices of the source document
type Builder struct {
	seg      segmenter.Segmenter
	perChunk int
	maxChars int
	log      *zap.Logger
}

// New creates a Builder. Out-of-range settings fall back to defaults.
func New(seg segmenter.Segmenter, sentencesPerChunk, maxChunkChars int, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}

	if sentencesPerChunk <= 0 || sentencesPerChunk > MaxSentencesPerChunk {
		sentencesPerChunk = DefaultSentencesPerChunk
	}

	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	if maxChunkChars < MinChunkChars {
		maxChunkChars = MinChunkChars
	}

	return &Builder{
		seg:      seg,
		perChunk: sentencesPerChunk,
		maxChars: maxChunkChars,
		log:      log.Named("chunker"),
	}
}

// Build chunks text using the configured sentences-per-chunk count.
func (b *Builder) Build(text string) []types.Chunk {
	return b.BuildN(text, b.perChunk)
}

// SentencesPerChunk returns the configured batch size
func (b *Builder) SentencesPerChunk() int {
	return b.perChunk
}

// MaxChunkChars returns the configured size ceiling
func (b *Builder) MaxChunkChars() int {
	return b.maxChars
}

// BuildN chunks text with an explicit sentences-per-chunk count, clamped
// to [1, MaxSentencesPerChunk]. Each chunk satisfies
// text[StartOffset:EndOffset] == Text; sentences the segmenter reports but
// that cannot be located in the document are dropped with a warning rather
// than guessed at.
func (b *Builder) BuildN(text string, sentencesPerChunk int) []types.Chunk {
	n := sentencesPerChunk
	if n <= 0 {
		n = b.perChunk
	}
	if n > MaxSentencesPerChunk {
		n = MaxSentencesPerChunk
	}

	sents := b.seg.Segment(text)
	if len(sents) == 0 {
		return nil
	}

	chunks := make([]types.Chunk, 0, (len(sents)+n-1)/n)

	// The cursor only moves forward past completed chunks, so a sentence
	// that repeats verbatim later in the document resolves to its own
	// occurrence instead of the first one.
	cursor := 0
	for i := 0; i < len(sents); i += n {
		end := i + n
		if end > len(sents) {
			end = len(sents)
		}

		chunk, ok := b.locate(text, sents[i:end], cursor)
		if !ok {
			b.log.Warn("sentence batch not found in document, dropping",
				zap.Int("batch_index", i/n),
				zap.String("first_sentence", sents[i]))
			continue
		}

		chunks = append(chunks, chunk)
		cursor = chunk.EndOffset
	}

	return b.splitOversized(chunks)
}

// locate maps a batch of sentences to its verbatim document slice. The
// chunk runs from the first sentence's start to the last sentence's end,
// preserving whatever whitespace the document has between them.
func (b *Builder) locate(text string, batch []string, cursor int) (types.Chunk, bool) {
	first := batch[0]
	last := batch[len(batch)-1]

	start, firstEnd := findFrom(text, first, cursor)
	if start < 0 {
		return types.Chunk{}, false
	}

	end := firstEnd
	if len(batch) > 1 {
		// Searching after the first sentence's end keeps a batch whose
		// first and last sentences are identical from collapsing onto a
		// single occurrence.
		_, lastEnd := findFrom(text, last, firstEnd)
		if lastEnd < 0 {
			return types.Chunk{}, false
		}
		end = lastEnd
	}

	return types.Chunk{
		Text:          text[start:end],
		StartOffset:   start,
		EndOffset:     end,
		SentenceCount: len(batch),
	}, true
}

// findFrom locates needle in text at or after from, returning the match
// bounds or (-1, -1). Exact match is tried first; on a miss the needle is
// re-tried with every whitespace run treated as flexible, which absorbs
// normalization the sentence detector may have applied.
func findFrom(text, needle string, from int) (int, int) {
	if from < 0 {
		from = 0
	}
	if from > len(text) || needle == "" {
		return -1, -1
	}

	if idx := strings.Index(text[from:], needle); idx >= 0 {
		return from + idx, from + idx + len(needle)
	}

	fields := strings.Fields(needle)
	if len(fields) == 0 {
		return -1, -1
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	re, err := regexp.Compile(strings.Join(quoted, `\s+`))
	if err != nil {
		return -1, -1
	}

	loc := re.FindStringIndex(text[from:])
	if loc == nil {
		return -1, -1
	}
	return from + loc[0], from + loc[1]
}

// splitOversized applies the size ceiling to every chunk.
func (b *Builder) splitOversized(chunks []types.Chunk) []types.Chunk {
	out := make([]types.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Text) <= b.maxChars {
			out = append(out, c)
			continue
		}

		b.log.Warn("splitting oversized chunk",
			zap.Int("chars", len(c.Text)),
			zap.Int("max_chars", b.maxChars))
		out = append(out, SplitChunk(c, b.maxChars)...)
	}
	return out
}

// SplitChunk slices a chunk into pieces of at most maxChars bytes, cutting
// only at rune boundaries. Slices keep the verbatim-slice invariant;
// sentence attribution is lost (SentenceCount is zero on every slice).
func SplitChunk(c types.Chunk, maxChars int) []types.Chunk {
	if maxChars <= 0 || len(c.Text) <= maxChars {
		return []types.Chunk{c}
	}

	out := make([]types.Chunk, 0, len(c.Text)/maxChars+1)
	text := c.Text
	base := c.StartOffset

	for len(text) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxChars
		}

		out = append(out, types.Chunk{
			Text:        text[:cut],
			StartOffset: base,
			EndOffset:   base + cut,
		})
		base += cut
		text = text[cut:]
	}

	if len(text) > 0 {
		out = append(out, types.Chunk{
			Text:        text,
			StartOffset: base,
			EndOffset:   base + len(text),
		})
	}

	return out
}
