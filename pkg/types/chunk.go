package types

// Chunk is a group of consecutive sentences cut verbatim from a source
// document. Text is always the exact byte slice
// document[StartOffset:EndOffset], including any interior whitespace and
// newlines, so offsets computed against chunk text can be translated to
// document offsets by adding StartOffset.
type Chunk struct {
	// Content
	Text string

	// Location (byte offsets into the source document)
	StartOffset int
	EndOffset   int

	// Metadata
	SentenceCount int
}

// Len returns the chunk length in bytes.
func (c *Chunk) Len() int {
	return len(c.Text)
}

// Validate checks the chunk's internal consistency.
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return ErrEmptyChunkText
	}

	if c.StartOffset < 0 || c.StartOffset >= c.EndOffset {
		return ErrInvalidOffsets
	}

	if c.EndOffset-c.StartOffset != len(c.Text) {
		return ErrInvalidOffsets
	}

	return nil
}

// VerifyAgainst checks that the chunk is a verbatim slice of document.
func (c *Chunk) VerifyAgainst(document string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.EndOffset > len(document) {
		return ErrInvalidOffsets
	}

	if document[c.StartOffset:c.EndOffset] != c.Text {
		return ErrOffsetMismatch
	}

	return nil
}
