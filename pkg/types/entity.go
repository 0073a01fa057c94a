package types

import (
	"fmt"
	"strings"
)

// EntityType classifies a named entity recognized in prose
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityPlace        EntityType = "place"
	EntityOrganization EntityType = "organization"
	EntityDate         EntityType = "date"
	EntityURL          EntityType = "url"
)

// Valid reports whether the entity type is one of the recognized categories.
func (t EntityType) Valid() bool {
	switch t {
	case EntityPerson, EntityPlace, EntityOrganization, EntityDate, EntityURL:
		return true
	default:
		return false
	}
}

// MaskToken builds the placeholder that stands in for the index-th masked
// entity of the given type, e.g. <ENTITY_PERSON_0>. The angle-bracket format
// keeps tokens from colliding with ordinary prose, and the index keeps them
// pairwise distinct within a chunk.
func MaskToken(t EntityType, index int) string {
	return fmt.Sprintf("<ENTITY_%s_%d>", strings.ToUpper(string(t)), index)
}

// MaskedEntity records one entity occurrence that was replaced by a
// placeholder token. Start and End are byte offsets into the chunk's
// original (pre-mask) text.
type MaskedEntity struct {
	// Content
	Text        string
	Replacement string

	// Location (chunk-local, pre-mask)
	Start int
	End   int

	// Metadata
	Type EntityType
}

// Validate checks the masked entity's internal consistency.
func (e *MaskedEntity) Validate() error {
	if e.Text == "" {
		return ErrEmptyEntityText
	}

	if e.Replacement == "" {
		return ErrEmptyReplacement
	}

	if !e.Type.Valid() {
		return ErrInvalidEntityType
	}

	if e.Start < 0 || e.Start >= e.End {
		return ErrInvalidOffsets
	}

	return nil
}

// ProcessedChunk is a chunk prepared for an external correction model:
// entity occurrences in OriginalText have been replaced by placeholder
// tokens in MaskedText, and Entities holds the substitutions in
// left-to-right order so the mapping can be inverted.
type ProcessedChunk struct {
	// Content
	MaskedText   string
	OriginalText string

	// Mask table (ordered by ascending Start)
	Entities []MaskedEntity

	// Location (byte offsets into the source document)
	StartOffset int
	EndOffset   int
}

// IsMasked reports whether any entity was replaced in this chunk.
func (p *ProcessedChunk) IsMasked() bool {
	return len(p.Entities) > 0
}
