package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

// contextWords is how many whitespace-delimited words surround a resolved
// span in ContextBefore/ContextAfter.
const contextWords = 4

// Resolution outcome labels, also used as metric label values.
const (
	// OutcomeCursor: verbatim hit at or after the cursor
	OutcomeCursor = "cursor"
	// OutcomeRescan: verbatim hit on the retry from position zero
	OutcomeRescan = "rescan"
	// OutcomeReported: fell back to the mask-adjusted reported bounds
	OutcomeReported = "reported"
	// OutcomeCollapsed: nothing usable, zero-length span at the cursor
	OutcomeCollapsed = "collapsed"
)

// Resolver maps findings reported against masked chunk text back to
// byte-exact offsets in the original document.
type Resolver struct {
	document string
	log      *zap.Logger

	// OnOutcome, when set, receives one Outcome* label per resolved
	// finding. The checker wires this to metrics.
	OnOutcome func(outcome string)
}

// New creates a Resolver for one document. The full document is needed for
// context extraction around resolved spans.
func New(document string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		document: document,
		log:      log.Named("resolver"),
	}
}

// Resolve maps one chunk's raw findings to document offsets. It never
// fails: a finding that cannot be located collapses to a zero-length span
// at the current cursor and is logged.
//
// Resolution is two-staged. Stage A undoes the length drift the entity
// placeholders introduced. Stage B trusts the model's quoted text over its
// indices: a verbatim search from a forward-only cursor, then an
// unconstrained retry, then the adjusted indices if they are sane.
func (r *Resolver) Resolve(raw []types.RawCorrection, pc types.ProcessedChunk) []types.TextError {
	if len(raw) == 0 {
		return nil
	}

	spans := maskedSpans(pc.Entities)
	chunk := pc.OriginalText
	out := make([]types.TextError, 0, len(raw))

	// Scoped to this chunk's pass. Moving only forward is what resolves a
	// phrase the model flags twice to two successive occurrences.
	cursor := 0

	for _, rc := range raw {
		adjStart, adjEnd := adjustForMasks(rc.StartIndex, rc.EndIndex, spans)

		var (
			start, end int
			word       string
			outcome    string
		)

		if rc.OriginalText != "" {
			word = rc.OriginalText
			if idx := indexFrom(chunk, rc.OriginalText, cursor); idx >= 0 {
				start, end = idx, idx+len(rc.OriginalText)
				outcome = OutcomeCursor
			} else if idx := strings.Index(chunk, rc.OriginalText); idx >= 0 {
				// Out-of-order model output: rescan from the top, but the
				// cursor never moves backward.
				start, end = idx, idx+len(rc.OriginalText)
				outcome = OutcomeRescan
			} else if saneBounds(adjStart, adjEnd, len(chunk)) {
				start, end = adjStart, adjEnd
				outcome = OutcomeReported
			} else {
				start, end = cursor, cursor
				outcome = OutcomeCollapsed
			}
		} else if saneBounds(adjStart, adjEnd, len(chunk)) {
			start, end = adjStart, adjEnd
			word = chunk[start:end]
			outcome = OutcomeReported
		} else {
			start, end = cursor, cursor
			outcome = OutcomeCollapsed
		}

		switch outcome {
		case OutcomeCursor, OutcomeRescan:
			if end > cursor {
				cursor = end
			}
		case OutcomeCollapsed:
			r.log.Warn("finding could not be located, collapsing span",
				zap.String("original_text", rc.OriginalText),
				zap.Int("reported_start", rc.StartIndex),
				zap.Int("reported_end", rc.EndIndex),
				zap.Int("chunk_start", pc.StartOffset))
		}
		r.observe(outcome)

		globalStart := pc.StartOffset + start
		globalEnd := pc.StartOffset + end

		out = append(out, types.TextError{
			Type:          normalizeCategory(rc.Category),
			Word:          word,
			Start:         globalStart,
			End:           globalEnd,
			Suggestion:    rc.SuggestedReplacement,
			Explanation:   rc.Explanation,
			ContextBefore: contextBefore(r.document, globalStart),
			ContextAfter:  contextAfter(r.document, globalEnd),
		})
	}

	return out
}

func (r *Resolver) observe(outcome string) {
	if r.OnOutcome != nil {
		r.OnOutcome(outcome)
	}
}

// maskedSpan is an entity placeholder's location in masked coordinates,
// with the length change its removal causes.
type maskedSpan struct {
	start int
	end   int
	delta int
}

// maskedSpans converts the left-to-right entity table (pre-mask offsets)
// into placeholder spans within the masked text.
func maskedSpans(entities []types.MaskedEntity) []maskedSpan {
	spans := make([]maskedSpan, 0, len(entities))
	shift := 0
	for _, e := range entities {
		start := e.Start + shift
		spans = append(spans, maskedSpan{
			start: start,
			end:   start + len(e.Replacement),
			delta: len(e.Text) - len(e.Replacement),
		})
		shift += len(e.Replacement) - len(e.Text)
	}
	return spans
}

// adjustForMasks shifts reported indices by the accumulated length
// difference of every placeholder lying entirely before the reported
// start.
func adjustForMasks(start, end int, spans []maskedSpan) (int, int) {
	delta := 0
	for _, s := range spans {
		if s.end <= start {
			delta += s.delta
		}
	}
	return start + delta, end + delta
}

// normalizeCategory folds free-form model categories into the three types
// callers understand. Legacy categories such as "punctuation" count as
// grammar.
func normalizeCategory(category string) types.ErrorType {
	c := strings.ToLower(strings.TrimSpace(category))
	switch {
	case strings.Contains(c, "spell"):
		return types.ErrorSpelling
	case strings.Contains(c, "style"), strings.Contains(c, "tone"):
		return types.ErrorStyle
	default:
		return types.ErrorGrammar
	}
}

func indexFrom(text, needle string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		return -1
	}
	idx := strings.Index(text[from:], needle)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func saneBounds(start, end, max int) bool {
	return start >= 0 && start < end && end <= max
}

func contextBefore(doc string, start int) string {
	if start <= 0 || start > len(doc) {
		return ""
	}
	fields := strings.Fields(doc[:start])
	if len(fields) > contextWords {
		fields = fields[len(fields)-contextWords:]
	}
	return strings.Join(fields, " ")
}

func contextAfter(doc string, end int) string {
	if end < 0 || end >= len(doc) {
		return ""
	}
	fields := strings.Fields(doc[end:])
	if len(fields) > contextWords {
		fields = fields[:contextWords]
	}
	return strings.Join(fields, " ")
}
