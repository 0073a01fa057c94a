package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandersen/prosecheck/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestPing(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	err := storage.Ping(context.Background())
	assert.NoError(t, err)
}

func TestCreateDocument(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{
		Title:   "Chapter 1",
		Content: "It was a dark and stormy night.",
	}

	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	// ID is generated when empty
	_, err = uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.False(t, doc.UpdatedAt.IsZero())
}

func TestCreateDocument_KeepsProvidedID(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{
		ID:      "doc-1",
		Title:   "Chapter 1",
		Content: "Some prose.",
	}

	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	// Try to create duplicate - should fail
	duplicate := &Document{
		ID:      "doc-1",
		Content: "Other prose.",
	}
	err = storage.CreateDocument(ctx, duplicate)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetDocument(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{
		Title:   "Chapter 1",
		Content: "It was a dark and stormy night.",
	}

	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	// Get the document
	retrieved, err := storage.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, retrieved.ID)
	assert.Equal(t, doc.Title, retrieved.Title)
	assert.Equal(t, doc.Content, retrieved.Content)
}

func TestGetDocument_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.GetDocument(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDocument(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{
		Title:   "Draft",
		Content: "First version.",
	}

	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	// Update the document
	doc.Title = "Final"
	doc.Content = "Second version."

	err = storage.UpdateDocument(ctx, doc)
	require.NoError(t, err)

	// Verify update
	updated, err := storage.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Second version.", updated.Content)
}

func TestUpdateDocument_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{ID: "ghost", Content: "Nothing."}

	err := storage.UpdateDocument(ctx, doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDocument(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{Title: "Discard", Content: "Old prose."}

	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	// Delete the document
	err = storage.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)

	// Verify deletion
	_, err = storage.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.DeleteDocument(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDocument_CascadesErrors(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{Content: "She recieve a letter."}
	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	errs := []types.TextError{
		{Type: types.ErrorSpelling, Word: "recieve", Start: 4, End: 11, Suggestion: "receive"},
	}
	err = storage.ReplaceErrors(ctx, doc.ID, "api", errs)
	require.NoError(t, err)

	err = storage.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)

	// Findings go with the document
	rows, err := storage.ListErrors(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListDocuments(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Create multiple documents
	titles := []string{"One", "Two", "Three"}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		doc := &Document{Title: title, Content: "Prose."}
		err := storage.CreateDocument(ctx, doc)
		require.NoError(t, err)
		ids = append(ids, doc.ID)
	}

	// Most recently touched first
	docs, err := storage.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, ids[2], docs[0].ID)
	assert.Equal(t, ids[1], docs[1].ID)
	assert.Equal(t, ids[0], docs[2].ID)

	// Updating moves a document to the front
	first := &Document{ID: ids[0], Title: "One", Content: "Revised prose."}
	err = storage.UpdateDocument(ctx, first)
	require.NoError(t, err)

	docs, err = storage.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, ids[0], docs[0].ID)
}

func TestCountDocuments(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	count, err := storage.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 2; i++ {
		doc := &Document{Content: "Prose."}
		err := storage.CreateDocument(ctx, doc)
		require.NoError(t, err)
	}

	count, err = storage.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReplaceErrors(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{Title: "Essay", Content: "She recieve a letter. He run fast."}
	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	first := []types.TextError{
		{Type: types.ErrorSpelling, Word: "recieve", Start: 4, End: 11, Suggestion: "receive"},
		{Type: types.ErrorGrammar, Word: "He run", Start: 22, End: 28, Suggestion: "He runs", Explanation: "subject-verb agreement"},
	}
	err = storage.ReplaceErrors(ctx, doc.ID, "api", first)
	require.NoError(t, err)

	rows, err := storage.ListErrors(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first, ToTextErrors(rows))
	assert.Equal(t, "api", rows[0].Source)
	assert.Equal(t, doc.ID, rows[0].DocumentID)

	// A later check replaces the previous result set wholesale
	second := []types.TextError{
		{Type: types.ErrorGrammar, Word: "He run", Start: 22, End: 28, Suggestion: "He runs"},
	}
	err = storage.ReplaceErrors(ctx, doc.ID, "mcp", second)
	require.NoError(t, err)

	rows, err = storage.ListErrors(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "He run", rows[0].Word)
	assert.Equal(t, "mcp", rows[0].Source)
}

func TestReplaceErrors_EmptyClearsResults(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{Content: "She recieve a letter."}
	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	errs := []types.TextError{
		{Type: types.ErrorSpelling, Word: "recieve", Start: 4, End: 11, Suggestion: "receive"},
	}
	err = storage.ReplaceErrors(ctx, doc.ID, "api", errs)
	require.NoError(t, err)

	// A clean follow-up check leaves no rows behind
	err = storage.ReplaceErrors(ctx, doc.ID, "api", nil)
	require.NoError(t, err)

	rows, err := storage.ListErrors(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReplaceErrors_DocumentNotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.ReplaceErrors(ctx, "nonexistent", "api", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListErrors_OrderedByOffset(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	doc := &Document{Content: "Teh dog ate teh cat before teh bird."}
	err := storage.CreateDocument(ctx, doc)
	require.NoError(t, err)

	// Insert out of document order
	errs := []types.TextError{
		{Type: types.ErrorSpelling, Word: "teh", Start: 27, End: 30, Suggestion: "the"},
		{Type: types.ErrorSpelling, Word: "Teh", Start: 0, End: 3, Suggestion: "The"},
		{Type: types.ErrorSpelling, Word: "teh", Start: 12, End: 15, Suggestion: "the"},
	}
	err = storage.ReplaceErrors(ctx, doc.ID, "cli", errs)
	require.NoError(t, err)

	rows, err := storage.ListErrors(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].StartOffset)
	assert.Equal(t, 12, rows[1].StartOffset)
	assert.Equal(t, 27, rows[2].StartOffset)
}

func TestBeginTx_CommitRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Test commit
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	doc := &Document{Title: "Committed", Content: "Prose."}
	err = tx.CreateDocument(ctx, doc)
	require.NoError(t, err)

	err = tx.Commit()
	require.NoError(t, err)

	// Verify committed
	retrieved, err := storage.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, retrieved.ID)

	// Test rollback
	tx2, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	doc2 := &Document{Title: "Rolled back", Content: "Prose."}
	err = tx2.CreateDocument(ctx, doc2)
	require.NoError(t, err)

	err = tx2.Rollback()
	require.NoError(t, err)

	// Verify not committed
	_, err = storage.GetDocument(ctx, doc2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReopenExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prosecheck.db")

	storage, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	doc := &Document{Title: "Draft", Content: "Some prose."}
	require.NoError(t, storage.CreateDocument(ctx, doc))
	require.NoError(t, storage.Close())

	// Reopening skips the already applied migration and keeps the data
	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Some prose.", got.Content)
}

func TestRollbackMigration(t *testing.T) {
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))

	err = RollbackMigration(ctx, db)
	require.NoError(t, err)

	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
