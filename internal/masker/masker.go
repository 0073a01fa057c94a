package masker

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/detect"
	"github.com/avandersen/prosecheck/pkg/types"
)

// Masker replaces entity occurrences in chunk text with placeholder tokens
// before the text is shown to an external model.
type Masker struct {
	detector detect.Detector
	log      *zap.Logger
}

// New creates a Masker backed by the given detector.
func New(detector detect.Detector, log *zap.Logger) *Masker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Masker{
		detector: detector,
		log:      log.Named("masker"),
	}
}

// span is a located entity occurrence pending replacement.
type span struct {
	start int
	end   int
	text  string
	typ   types.EntityType
}

// Mask prepares one chunk for the external model. Detection failure is not
// fatal: the chunk goes out unmasked with an empty entity table, and the
// failure is logged. Mask never returns an error.
func (m *Masker) Mask(ctx context.Context, chunk types.Chunk) types.ProcessedChunk {
	pc := types.ProcessedChunk{
		MaskedText:   chunk.Text,
		OriginalText: chunk.Text,
		StartOffset:  chunk.StartOffset,
		EndOffset:    chunk.EndOffset,
	}

	candidates, err := m.detector.Detect(ctx, chunk.Text)
	if err != nil {
		m.log.Warn("entity detection failed, chunk goes out unmasked",
			zap.Int("chunk_start", chunk.StartOffset),
			zap.Error(err))
		return pc
	}

	spans := locate(chunk.Text, candidates)
	if len(spans) == 0 {
		return pc
	}

	// Replace right to left so the offsets of spans not yet replaced stay
	// valid while the string shrinks and grows.
	masked := chunk.Text
	entities := make([]types.MaskedEntity, 0, len(spans))
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		token := types.MaskToken(s.typ, len(entities))
		masked = masked[:s.start] + token + masked[s.end:]
		entities = append(entities, types.MaskedEntity{
			Text:        s.text,
			Replacement: token,
			Start:       s.start,
			End:         s.end,
			Type:        s.typ,
		})
	}

	// The table was recorded in replacement order; consumers want it left
	// to right.
	for i, j := 0, len(entities)-1; i < j; i, j = i+1, j-1 {
		entities[i], entities[j] = entities[j], entities[i]
	}

	pc.MaskedText = masked
	pc.Entities = entities
	return pc
}

// Unmask restores masked text by substituting each placeholder with its
// recorded source text, one substitution per entity, applied in descending
// original-start order.
func Unmask(maskedText string, entities []types.MaskedEntity) string {
	if len(entities) == 0 {
		return maskedText
	}

	sorted := make([]types.MaskedEntity, len(entities))
	copy(sorted, entities)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := maskedText
	for _, e := range sorted {
		out = strings.Replace(out, e.Replacement, e.Text, 1)
	}
	return out
}

// locate maps candidates to concrete occurrences in text. A per-literal
// cursor advances past each assigned occurrence, so a surface form
// mentioned twice claims two distinct positions instead of both candidates
// landing on the first one. Candidates that cannot be found are skipped.
func locate(text string, candidates []detect.Entity) []span {
	cursors := make(map[string]int, len(candidates))

	var spans []span
	for _, c := range candidates {
		if c.Text == "" || !c.Type.Valid() {
			continue
		}

		from := cursors[c.Text]
		if from > len(text) {
			continue
		}

		idx := strings.Index(text[from:], c.Text)
		if idx < 0 {
			continue
		}

		start := from + idx
		end := start + len(c.Text)
		cursors[c.Text] = end
		spans = append(spans, span{start: start, end: end, text: c.Text, typ: c.Type})
	}

	return resolveOverlaps(spans)
}

// resolveOverlaps drops any span that intersects an already accepted one,
// preferring longer spans, and returns the survivors in ascending start
// order ready for replacement.
func resolveOverlaps(spans []span) []span {
	if len(spans) < 2 {
		return spans
	}

	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		return spans[i].start < spans[j].start
	})

	accepted := make([]span, 0, len(spans))
	for _, s := range spans {
		overlaps := false
		for _, a := range accepted {
			if s.start < a.end && a.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, s)
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	return accepted
}
