package storage

import (
	"context"
	"time"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Storage defines the interface for persisting documents and their check results
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]*Document, error)
	CountDocuments(ctx context.Context) (int, error)

	// Check result operations
	ReplaceErrors(ctx context.Context, documentID, source string, errs []types.TextError) error
	ListErrors(ctx context.Context, documentID string) ([]*CheckError, error)

	// Database operations
	Ping(ctx context.Context) error
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Document is a stored prose document tracked across checks
type Document struct {
	ID        string // UUID, generated on create when empty
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckError is one persisted finding from the most recent check of a
// document. Offsets are byte positions into the document content that was
// current when the check ran.
type CheckError struct {
	ID            int64
	DocumentID    string
	Type          string
	Word          string
	StartOffset   int
	EndOffset     int
	Suggestion    string
	Explanation   string
	ContextBefore string
	ContextAfter  string
	Source        string // Surface that requested the check (api, mcp, cli)
	CreatedAt     time.Time
}

// ToTextError converts a stored row back to the resolved finding
func (e *CheckError) ToTextError() types.TextError {
	return types.TextError{
		Type:          types.ErrorType(e.Type),
		Word:          e.Word,
		Start:         e.StartOffset,
		End:           e.EndOffset,
		Suggestion:    e.Suggestion,
		Explanation:   e.Explanation,
		ContextBefore: e.ContextBefore,
		ContextAfter:  e.ContextAfter,
	}
}

// ToTextErrors converts a list of stored rows, keeping order
func ToTextErrors(rows []*CheckError) []types.TextError {
	errs := make([]types.TextError, 0, len(rows))
	for _, row := range rows {
		errs = append(errs, row.ToTextError())
	}
	return errs
}

// FromTextError converts a resolved finding into a storable row
func FromTextError(documentID, source string, e types.TextError) *CheckError {
	return &CheckError{
		DocumentID:    documentID,
		Type:          string(e.Type),
		Word:          e.Word,
		StartOffset:   e.Start,
		EndOffset:     e.End,
		Suggestion:    e.Suggestion,
		Explanation:   e.Explanation,
		ContextBefore: e.ContextBefore,
		ContextAfter:  e.ContextAfter,
		Source:        source,
	}
}
