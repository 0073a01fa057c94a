package detect

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Detection errors
var (
	// ErrDetectorFailed indicates an entity detector could not process the text
	ErrDetectorFailed = errors.New("entity detector failed")

	// ErrAllDetectorsFailed indicates every detector in a Multi failed
	ErrAllDetectorsFailed = errors.New("all entity detectors failed")
)

// Entity is one recognized entity candidate. Candidates carry no position:
// the masker locates occurrences itself by verbatim search, so a detector
// only has to get the surface text and the category right.
type Entity struct {
	Text string
	Type types.EntityType
}

// Detector finds entity candidates in a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) ([]Entity, error)
}

// Func adapts a plain function to the Detector interface.
type Func func(ctx context.Context, text string) ([]Entity, error)

// Detect calls f.
func (f Func) Detect(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// Multi fans text out to several detectors and concatenates their results
// in detector order. One failing detector degrades to the union of the
// others; only when every detector fails does Multi return an error.
type Multi struct {
	detectors []Detector
	log       *zap.Logger
}

// NewMulti composes detectors into one.
func NewMulti(log *zap.Logger, detectors ...Detector) *Multi {
	if log == nil {
		log = zap.NewNop()
	}
	return &Multi{
		detectors: detectors,
		log:       log.Named("detect"),
	}
}

// Detect implements Detector.
func (m *Multi) Detect(ctx context.Context, text string) ([]Entity, error) {
	var out []Entity
	failed := 0

	for _, d := range m.detectors {
		ents, err := d.Detect(ctx, text)
		if err != nil {
			failed++
			m.log.Warn("entity detector failed, continuing with remaining detectors",
				zap.Error(err))
			continue
		}
		out = append(out, ents...)
	}

	if failed > 0 && failed == len(m.detectors) {
		return nil, ErrAllDetectorsFailed
	}

	return out, nil
}
