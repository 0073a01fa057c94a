package types

import "errors"

// Domain errors for type validation
var (
	// Chunk errors
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")
	ErrInvalidOffsets = errors.New("offsets must satisfy 0 <= start < end")
	ErrOffsetMismatch = errors.New("chunk text does not match document slice")

	// Entity errors
	ErrEmptyEntityText   = errors.New("entity text cannot be empty")
	ErrInvalidEntityType = errors.New("invalid entity type")
	ErrEmptyReplacement  = errors.New("entity replacement token cannot be empty")

	// Correction errors
	ErrInvalidErrorType = errors.New("invalid error type")
	ErrNegativeSpan     = errors.New("span end must not precede span start")
)
