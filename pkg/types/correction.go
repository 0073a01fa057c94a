package types

import "strings"

// ErrorType classifies a reported text error
type ErrorType string

const (
	ErrorSpelling ErrorType = "spelling"
	ErrorGrammar  ErrorType = "grammar"
	ErrorStyle    ErrorType = "style"
)

// Valid reports whether the error type is one of the recognized categories.
func (t ErrorType) Valid() bool {
	switch t {
	case ErrorSpelling, ErrorGrammar, ErrorStyle:
		return true
	default:
		return false
	}
}

// RawCorrection is a single finding as reported by a correction source.
// Offsets are relative to the masked chunk text the source was shown and
// are treated as untrusted hints until the resolver verifies them.
type RawCorrection struct {
	Category             string `json:"category"`
	StartIndex           int    `json:"start_index"`
	EndIndex             int    `json:"end_index"`
	OriginalText         string `json:"original_text"`
	SuggestedReplacement string `json:"suggested_replacement"`
	Explanation          string `json:"explanation,omitempty"`
}

// TextError is a fully resolved finding. Start and End are byte-exact
// offsets into the original document, suitable for highlighting.
type TextError struct {
	Type          ErrorType `json:"type"`
	Word          string    `json:"word"`
	Start         int       `json:"start"`
	End           int       `json:"end"`
	Suggestion    string    `json:"suggestion"`
	Explanation   string    `json:"explanation,omitempty"`
	ContextBefore string    `json:"contextBefore,omitempty"`
	ContextAfter  string    `json:"contextAfter,omitempty"`
}

// SpanLen returns the length of the flagged span in bytes.
func (e *TextError) SpanLen() int {
	return e.End - e.Start
}

// Overlaps reports whether the two half-open spans [Start, End) intersect.
// Zero-length spans (collapsed markers) never overlap anything.
func (e *TextError) Overlaps(other *TextError) bool {
	return e.Start < other.End && other.Start < e.End
}

// SameKey reports whether two errors are duplicates in the strict sense:
// identical span, type, flagged word, and suggestion.
func (e *TextError) SameKey(other *TextError) bool {
	return e.Start == other.Start &&
		e.End == other.End &&
		e.Type == other.Type &&
		e.Word == other.Word &&
		e.Suggestion == other.Suggestion
}

// IsNoop reports whether the suggestion changes nothing, compared
// case-insensitively after trimming surrounding whitespace.
func (e *TextError) IsNoop() bool {
	return strings.EqualFold(strings.TrimSpace(e.Suggestion), strings.TrimSpace(e.Word))
}

// Validate checks the resolved error's internal consistency.
func (e *TextError) Validate() error {
	if !e.Type.Valid() {
		return ErrInvalidErrorType
	}

	if e.Start < 0 || e.End < e.Start {
		return ErrNegativeSpan
	}

	return nil
}
