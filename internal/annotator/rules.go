package annotator

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

// misspellings maps common misspellings to their corrections. Matching is
// case-insensitive; suggestions mirror the case of the first letter.
var misspellings = map[string]string{
	"teh":        "the",
	"recieve":    "receive",
	"definately": "definitely",
	"seperate":   "separate",
	"occured":    "occurred",
	"untill":     "until",
	"wich":       "which",
	"alot":       "a lot",
	"accomodate": "accommodate",
	"thier":      "their",
}

var (
	wordRe        = regexp.MustCompile(`[A-Za-z']+`)
	placeholderRe = regexp.MustCompile(`<ENTITY_[A-Z]+_\d+>`)
	punctRunRe    = regexp.MustCompile(`!{2,}|\?{2,}|,{2,}|;{2,}|\.{4,}`)
	spaceRunRe    = regexp.MustCompile(` {2,}`)
)

// anPrefixes lists consonant-spelled words that still take "an".
var anPrefixes = []string{"hour", "honest", "honor", "honour", "heir"}

// aPrefixes lists vowel-spelled word prefixes that still take "a".
var aPrefixes = []string{"uni", "use", "usu", "euro", "ewe", "one", "once"}

// Rules is a deterministic annotator for mechanical mistakes. It needs no
// network access, so it keeps working when the model-backed provider is
// unavailable, and it runs alongside it otherwise.
type Rules struct {
	log *zap.Logger
}

// NewRules creates the rule-based annotator
func NewRules(log *zap.Logger) *Rules {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rules{log: log}
}

func (r *Rules) Name() string {
	return ProviderRules
}

func (r *Rules) Close() error {
	return nil
}

// Annotate scans the masked text with every rule. Offsets are byte-exact by
// construction, but they still point into masked space like any other
// provider's output.
func (r *Rules) Annotate(ctx context.Context, pc types.ProcessedChunk) ([]types.RawCorrection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	masked := pc.MaskedText
	if masked == "" {
		return nil, ErrEmptyText
	}

	words := wordRe.FindAllStringIndex(masked, -1)

	var raws []types.RawCorrection
	raws = append(raws, checkMisspellings(masked, words)...)
	raws = append(raws, checkDoubledWords(masked, words)...)
	raws = append(raws, checkArticles(masked, words)...)
	raws = append(raws, checkPunctuationRuns(masked)...)
	raws = append(raws, checkSpaceRuns(masked)...)

	raws = dropPlaceholderHits(masked, raws)

	sort.Slice(raws, func(i, j int) bool {
		if raws[i].StartIndex != raws[j].StartIndex {
			return raws[i].StartIndex < raws[j].StartIndex
		}
		return raws[i].EndIndex < raws[j].EndIndex
	})

	r.log.Debug("rules pass complete",
		zap.Int("words", len(words)),
		zap.Int("findings", len(raws)))

	return raws, nil
}

func checkMisspellings(text string, words [][]int) []types.RawCorrection {
	var out []types.RawCorrection
	for _, w := range words {
		word := text[w[0]:w[1]]
		repl, ok := misspellings[strings.ToLower(word)]
		if !ok {
			continue
		}
		out = append(out, types.RawCorrection{
			Category:             "spelling",
			StartIndex:           w[0],
			EndIndex:             w[1],
			OriginalText:         word,
			SuggestedReplacement: matchCase(word, repl),
			Explanation:          "common misspelling of \"" + repl + "\"",
		})
	}
	return out
}

// checkDoubledWords flags the same word appearing twice in a row. Only pairs
// separated by plain spaces count; anything else in the gap (punctuation,
// line breaks) means the repetition is structural.
func checkDoubledWords(text string, words [][]int) []types.RawCorrection {
	var out []types.RawCorrection
	for i := 1; i < len(words); i++ {
		prev := text[words[i-1][0]:words[i-1][1]]
		cur := text[words[i][0]:words[i][1]]
		if !strings.EqualFold(prev, cur) {
			continue
		}
		gap := text[words[i-1][1]:words[i][0]]
		if gap == "" || strings.Trim(gap, " ") != "" {
			continue
		}
		out = append(out, types.RawCorrection{
			Category:             "grammar",
			StartIndex:           words[i-1][0],
			EndIndex:             words[i][1],
			OriginalText:         text[words[i-1][0]:words[i][1]],
			SuggestedReplacement: prev,
			Explanation:          "repeated word \"" + strings.ToLower(cur) + "\"",
		})
		// A triple reports once, not once per pair
		i++
	}
	return out
}

// checkArticles flags "a" before a vowel sound and "an" before a consonant
// sound. Sound is approximated from spelling with short exception lists.
func checkArticles(text string, words [][]int) []types.RawCorrection {
	var out []types.RawCorrection
	for i := 0; i+1 < len(words); i++ {
		art := text[words[i][0]:words[i][1]]
		lowArt := strings.ToLower(art)
		if lowArt != "a" && lowArt != "an" {
			continue
		}
		gap := text[words[i][1]:words[i+1][0]]
		if gap == "" || strings.Trim(gap, " ") != "" {
			continue
		}
		next := strings.ToLower(text[words[i+1][0]:words[i+1][1]])
		wantAn := startsWithVowelSound(next)

		switch {
		case lowArt == "a" && wantAn:
			out = append(out, types.RawCorrection{
				Category:             "grammar",
				StartIndex:           words[i][0],
				EndIndex:             words[i][1],
				OriginalText:         art,
				SuggestedReplacement: matchCase(art, "an"),
				Explanation:          "use \"an\" before a vowel sound",
			})
		case lowArt == "an" && !wantAn:
			out = append(out, types.RawCorrection{
				Category:             "grammar",
				StartIndex:           words[i][0],
				EndIndex:             words[i][1],
				OriginalText:         art,
				SuggestedReplacement: matchCase(art, "a"),
				Explanation:          "use \"a\" before a consonant sound",
			})
		}
	}
	return out
}

func checkPunctuationRuns(text string) []types.RawCorrection {
	var out []types.RawCorrection
	for _, m := range punctRunRe.FindAllStringIndex(text, -1) {
		run := text[m[0]:m[1]]
		repl := string(run[0])
		if run[0] == '.' {
			repl = "..."
		}
		out = append(out, types.RawCorrection{
			Category:             "punctuation",
			StartIndex:           m[0],
			EndIndex:             m[1],
			OriginalText:         run,
			SuggestedReplacement: repl,
			Explanation:          "repeated punctuation",
		})
	}
	return out
}

// checkSpaceRuns flags runs of spaces with printable text on both sides.
// Runs at chunk edges or next to line breaks are layout, not typos.
func checkSpaceRuns(text string) []types.RawCorrection {
	var out []types.RawCorrection
	for _, m := range spaceRunRe.FindAllStringIndex(text, -1) {
		if m[0] == 0 || m[1] == len(text) {
			continue
		}
		if text[m[0]-1] == '\n' || text[m[1]] == '\n' {
			continue
		}
		out = append(out, types.RawCorrection{
			Category:             "style",
			StartIndex:           m[0],
			EndIndex:             m[1],
			OriginalText:         text[m[0]:m[1]],
			SuggestedReplacement: " ",
			Explanation:          "multiple spaces",
		})
	}
	return out
}

// dropPlaceholderHits removes findings whose span touches a mask placeholder.
// The word scanner sees placeholder internals as ordinary words, so those
// spans are artifacts of masking rather than problems in the prose.
func dropPlaceholderHits(text string, raws []types.RawCorrection) []types.RawCorrection {
	spans := placeholderRe.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return raws
	}
	out := raws[:0]
	for _, r := range raws {
		hit := false
		for _, s := range spans {
			if r.StartIndex < s[1] && s[0] < r.EndIndex {
				hit = true
				break
			}
		}
		if !hit {
			out = append(out, r)
		}
	}
	return out
}

// matchCase copies the leading-capital shape of src onto repl
func matchCase(src, repl string) string {
	if src == "" || repl == "" {
		return repl
	}
	first := []rune(src)[0]
	if unicode.IsUpper(first) {
		rr := []rune(repl)
		rr[0] = unicode.ToUpper(rr[0])
		return string(rr)
	}
	return repl
}

// startsWithVowelSound reports whether a lowercased word begins with a vowel
// sound. Exceptions are checked before the spelling fallback.
func startsWithVowelSound(word string) bool {
	if word == "" {
		return false
	}
	for _, p := range anPrefixes {
		if strings.HasPrefix(word, p) {
			return true
		}
	}
	for _, p := range aPrefixes {
		if strings.HasPrefix(word, p) {
			return false
		}
	}
	return strings.ContainsRune("aeiou", rune(word[0]))
}
