package detect

import (
	"context"
	"regexp"
	"strings"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Rule pairs an entity type with a pattern that recognizes it. Rules cover
// the categories the statistical model does not report: organizations,
// dates, and URLs.
type Rule struct {
	Name    string
	Type    types.EntityType
	Pattern *regexp.Regexp
}

// Longer month names precede their abbreviations so alternation picks the
// full form.
const monthNames = `January|February|March|April|May|June|July|August|` +
	`September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept?|Oct|Nov|Dec`

// DefaultRules recognizes organizations, dates, and URLs in English prose.
var DefaultRules = []Rule{
	{
		Name:    "url",
		Type:    types.EntityURL,
		Pattern: regexp.MustCompile(`\bhttps?://[^\s<>"]+|\bwww\.[^\s<>"]+`),
	},
	{
		Name:    "date_month_first",
		Type:    types.EntityDate,
		Pattern: regexp.MustCompile(`\b(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?\b`),
	},
	{
		Name:    "date_day_first",
		Type:    types.EntityDate,
		Pattern: regexp.MustCompile(`\b\d{1,2}\s+(?:` + monthNames + `)\.?(?:\s+\d{4})?\b`),
	},
	{
		Name:    "date_numeric",
		Type:    types.EntityDate,
		Pattern: regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	},
	{
		Name:    "date_iso",
		Type:    types.EntityDate,
		Pattern: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	},
	{
		Name: "organization",
		Type: types.EntityOrganization,
		Pattern: regexp.MustCompile(`\b(?:[A-Z][\w&'.-]*\s+)+` +
			`(?:Inc|Corp|Corporation|Ltd|LLC|Co|Company|University|Institute|` +
			`Foundation|Association|Society|Laboratories|Labs|Agency|Group)\b`),
	},
}

// RuleSet runs a table of regex rules over the text.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a detector from the given rules, or DefaultRules when
// none are given.
func NewRuleSet(rules ...Rule) *RuleSet {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &RuleSet{rules: rules}
}

// Detect implements Detector. Matches are reported per occurrence;
// trailing sentence punctuation is trimmed so masking does not swallow a
// terminator that belongs to the prose.
func (r *RuleSet) Detect(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Entity
	for _, rule := range r.rules {
		for _, m := range rule.Pattern.FindAllString(text, -1) {
			m = strings.TrimRight(m, `.,;:!?)"'`)
			if len(m) < 2 {
				continue
			}
			out = append(out, Entity{Text: m, Type: rule.Type})
		}
	}
	return out, nil
}
