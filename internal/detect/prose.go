package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

// proseLabels maps the NER model's labels to entity types. Labels the
// model emits but that the pipeline does not mask are simply skipped.
var proseLabels = map[string]types.EntityType{
	"PERSON": types.EntityPerson,
	"GPE":    types.EntityPlace,
}

// Prose recognizes people and places with a statistical NER model.
type Prose struct {
	log *zap.Logger
}

// NewProse creates the statistical detector.
func NewProse(log *zap.Logger) *Prose {
	if log == nil {
		log = zap.NewNop()
	}
	return &Prose{log: log.Named("prose")}
}

// Detect implements Detector. Each mention is reported separately, so a
// name that appears twice yields two candidates.
func (p *Prose) Detect(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailed, err)
	}

	var out []Entity
	for _, ent := range doc.Entities() {
		entityType, ok := proseLabels[ent.Label]
		if !ok {
			continue
		}

		candidate := strings.TrimSpace(ent.Text)
		if len(candidate) < 2 {
			continue
		}

		out = append(out, Entity{Text: candidate, Type: entityType})
	}

	return out, nil
}
