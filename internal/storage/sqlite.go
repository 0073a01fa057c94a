package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avandersen/prosecheck/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Document operations

// createDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	// INSERT OR IGNORE keeps the duplicate check atomic; the only
	// constraint on documents is the primary key
	query := `
		INSERT OR IGNORE INTO documents (id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, doc.ID, doc.Title, doc.Content, now, now)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, ErrAlreadyExists)
	}

	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateDocument(ctx context.Context, doc *Document) error {
	return s.createDocumentWithQuerier(ctx, s.querier(), doc)
}

// getDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getDocumentWithQuerier(ctx context.Context, q querier, id string) (*Document, error) {
	query := `
		SELECT id, title, content, created_at, updated_at
		FROM documents
		WHERE id = ?
	`
	var doc Document
	err := q.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.querier(), id)
}

// updateDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	query := `
		UPDATE documents
		SET title = ?, content = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, doc.Title, doc.Content, now, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateDocument(ctx context.Context, doc *Document) error {
	return s.updateDocumentWithQuerier(ctx, s.querier(), doc)
}

// deleteDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteDocumentWithQuerier(ctx context.Context, q querier, id string) error {
	// Persisted check errors go with the document via ON DELETE CASCADE
	result, err := q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	return s.deleteDocumentWithQuerier(ctx, s.querier(), id)
}

// listDocumentsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listDocumentsWithQuerier(ctx context.Context, q querier) ([]*Document, error) {
	query := `
		SELECT id, title, content, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC, id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		var doc Document
		err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	return s.listDocumentsWithQuerier(ctx, s.querier())
}

// countDocumentsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) countDocumentsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int, error) {
	return s.countDocumentsWithQuerier(ctx, s.querier())
}

// Check error operations

// replaceErrorsWithQuerier is the internal implementation that uses a querier.
// The caller is responsible for running it inside a transaction when the
// delete and inserts must be atomic.
func (s *SQLiteStorage) replaceErrorsWithQuerier(ctx context.Context, q querier, documentID, source string, errs []types.TextError) error {
	// The delete alone succeeds for unknown documents, so check first
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, documentID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM check_errors WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear check errors: %w", err)
	}

	query := `
		INSERT INTO check_errors (
			document_id, type, word, start_offset, end_offset,
			suggestion, explanation, context_before, context_after,
			source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	for _, e := range errs {
		_, err := q.ExecContext(ctx, query,
			documentID, string(e.Type), e.Word, e.Start, e.End,
			e.Suggestion, e.Explanation, e.ContextBefore, e.ContextAfter,
			source, now,
		)
		if err != nil {
			return fmt.Errorf("failed to store check error: %w", err)
		}
	}
	return nil
}

// ReplaceErrors swaps the persisted findings for a document with the results
// of its latest check. The delete and inserts run in one transaction so
// readers never observe a partial result set.
func (s *SQLiteStorage) ReplaceErrors(ctx context.Context, documentID, source string, errs []types.TextError) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.replaceErrorsWithQuerier(ctx, tx, documentID, source, errs); err != nil {
		return err
	}
	return tx.Commit()
}

// listErrorsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listErrorsWithQuerier(ctx context.Context, q querier, documentID string) ([]*CheckError, error) {
	query := `
		SELECT id, document_id, type, word, start_offset, end_offset,
		       suggestion, explanation, context_before, context_after,
		       source, created_at
		FROM check_errors
		WHERE document_id = ?
		ORDER BY start_offset, end_offset, id
	`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	errs := make([]*CheckError, 0)
	for rows.Next() {
		var e CheckError
		err := rows.Scan(
			&e.ID, &e.DocumentID, &e.Type, &e.Word, &e.StartOffset, &e.EndOffset,
			&e.Suggestion, &e.Explanation, &e.ContextBefore, &e.ContextAfter,
			&e.Source, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		errs = append(errs, &e)
	}
	return errs, rows.Err()
}

func (s *SQLiteStorage) ListErrors(ctx context.Context, documentID string) ([]*CheckError, error) {
	return s.listErrorsWithQuerier(ctx, s.querier(), documentID)
}

// Transaction implementations

func (t *sqliteTx) CreateDocument(ctx context.Context, doc *Document) error {
	return t.storage.createDocumentWithQuerier(ctx, t.querier(), doc)
}

func (t *sqliteTx) GetDocument(ctx context.Context, id string) (*Document, error) {
	return t.storage.getDocumentWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) UpdateDocument(ctx context.Context, doc *Document) error {
	return t.storage.updateDocumentWithQuerier(ctx, t.querier(), doc)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, id string) error {
	return t.storage.deleteDocumentWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) ListDocuments(ctx context.Context) ([]*Document, error) {
	return t.storage.listDocumentsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) CountDocuments(ctx context.Context) (int, error) {
	return t.storage.countDocumentsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) ReplaceErrors(ctx context.Context, documentID, source string, errs []types.TextError) error {
	// Already inside a transaction, run directly against it
	return t.storage.replaceErrorsWithQuerier(ctx, t.querier(), documentID, source, errs)
}

func (t *sqliteTx) ListErrors(ctx context.Context, documentID string) ([]*CheckError, error) {
	return t.storage.listErrorsWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) Ping(ctx context.Context) error {
	return t.storage.Ping(ctx)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
