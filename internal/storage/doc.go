// Package storage provides SQLite-based persistence for documents and
// their check results.
//
// The storage layer manages:
//   - Document content and titles
//   - Resolved check errors from the most recent pass over each document
//   - Schema versioning and migrations
//
// # Database Schema
//
// Tables:
//   - documents: Stored prose keyed by UUID
//   - check_errors: Findings from the latest check, one row per error
//   - schema_version: Applied migration versions
//
// check_errors rows cascade on document deletion, so removing a document
// also removes its history.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.prosecheck/prosecheck.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc := &storage.Document{
//	    Title:   "Chapter 1",
//	    Content: "It was a dark and stormy night.",
//	}
//	if err := db.CreateDocument(ctx, doc); err != nil {
//	    return err
//	}
//	// doc.ID now holds the generated UUID
//
// # Check Results
//
// After a check completes, replace the document's persisted findings in one
// atomic step:
//
//	err := db.ReplaceErrors(ctx, doc.ID, "api", result.Errors)
//
// Readers always see either the previous result set or the new one, never
// a mix:
//
//	rows, err := db.ListErrors(ctx, doc.ID)
//	for _, row := range rows {
//	    e := row.ToTextError()
//	    fmt.Printf("%s at %d..%d: %s -> %s\n",
//	        e.Type, e.Start, e.End, e.Word, e.Suggestion)
//	}
//
// # Transactions
//
// Use transactions for multi-step operations:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if err := tx.UpdateDocument(ctx, doc); err != nil {
//	    return err
//	}
//	if err := tx.ReplaceErrors(ctx, doc.ID, "api", errs); err != nil {
//	    return err
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
//
// The database is opened in WAL mode with a single writer connection and
// foreign keys enabled.
package storage
