package segmenter

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
)

// Segmenter splits prose into an ordered list of sentences.
type Segmenter interface {
	Segment(text string) []string
}

// Func adapts a plain function to the Segmenter interface.
type Func func(text string) []string

// Segment calls f.
func (f Func) Segment(text string) []string {
	return f(text)
}

// Punkt wraps the trained Punkt sentence tokenizer with English data.
// The trained model already refuses to split at common abbreviations
// (Mr., Dr., U.S., Ph.D., e.g.), decimal numbers, and URLs; NoBreak
// extends that set for domain-specific abbreviations.
type Punkt struct {
	tokenizer *sentences.DefaultSentenceTokenizer
	noBreak   []string
	log       *zap.Logger
}

// NewPunkt builds a Punkt segmenter. Entries in noBreak are abbreviations
// that must never end a sentence; a trailing period is added when missing.
func NewPunkt(noBreak []string, log *zap.Logger) (*Punkt, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentence tokenizer: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	normalized := make([]string, 0, len(noBreak))
	for _, abbr := range noBreak {
		abbr = strings.ToLower(strings.TrimSpace(abbr))
		if abbr == "" {
			continue
		}
		if !strings.HasSuffix(abbr, ".") {
			abbr += "."
		}
		normalized = append(normalized, abbr)
	}

	return &Punkt{
		tokenizer: tokenizer,
		noBreak:   normalized,
		log:       log.Named("segmenter"),
	}, nil
}

// Segment returns the document's sentences in order, each trimmed of
// surrounding whitespace. Whitespace-only input yields nil. When the
// tokenizer produces nothing for non-empty input, the whole trimmed
// document is returned as a single sentence so downstream stages always
// have something to work with.
func (p *Punkt) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := p.tokenizer.Tokenize(text)

	// Keep raw slices first: adjacent tokenizer output is contiguous in the
	// source text, so rejoined sentences stay verbatim substrings.
	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == nil || s.Text == "" {
			continue
		}
		parts = append(parts, s.Text)
	}
	parts = p.rejoin(parts)

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		p.log.Warn("sentence detector returned nothing, using whole document",
			zap.Int("text_len", len(text)))
		return []string{strings.TrimSpace(text)}
	}

	return out
}

// rejoin merges any sentence ending with a configured abbreviation into its
// successor, undoing a false boundary the tokenizer introduced.
func (p *Punkt) rejoin(parts []string) []string {
	if len(p.noBreak) == 0 || len(parts) < 2 {
		return parts
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if n := len(out); n > 0 && p.endsWithAbbreviation(out[n-1]) {
			out[n-1] += part
			continue
		}
		out = append(out, part)
	}
	return out
}

func (p *Punkt) endsWithAbbreviation(s string) bool {
	trimmed := strings.ToLower(strings.TrimRight(s, " \t\r\n"))
	for _, abbr := range p.noBreak {
		if !strings.HasSuffix(trimmed, abbr) {
			continue
		}
		if len(trimmed) == len(abbr) {
			return true
		}
		switch trimmed[len(trimmed)-len(abbr)-1] {
		case ' ', '\t', '\n', '\r', '(':
			return true
		}
	}
	return false
}
