package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyText        = -32001 // Text parameter is empty or whitespace
	ErrorCodeDocumentNotFound = -32002 // No stored document with the given ID
	ErrorCodeCheckSuperseded  = -32003 // A newer check of the same document started
)

// surfaceMCP labels this surface in metrics and in persisted check results
const surfaceMCP = "mcp"

// handleCheckText handles the check_text tool invocation
func (s *Server) handleCheckText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, newMCPError(ErrorCodeEmptyText, "text parameter is required and cannot be empty", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}

	sentencesPerChunk, err := sentencesPerChunkArg(args)
	if err != nil {
		return nil, err
	}

	result, err := s.runCheck(ctx, "", text, sentencesPerChunk)
	if err != nil {
		return nil, err
	}

	response := map[string]interface{}{
		"errors": result.Errors,
		"stats":  result.Stats,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCheckDocument handles the check_document tool invocation
func (s *Server) handleCheckDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document_id parameter is required", map[string]interface{}{
			"param":  "document_id",
			"reason": "missing or empty",
		})
	}

	sentencesPerChunk, err := sentencesPerChunkArg(args)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeDocumentNotFound, "document not found", map[string]interface{}{
				"document_id": documentID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to load document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := s.runCheck(ctx, doc.ID, doc.Content, sentencesPerChunk)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceErrors(ctx, doc.ID, surfaceMCP, result.Errors); err != nil {
		s.log.Error("persist check results failed", zap.String("document_id", doc.ID), zap.Error(err))
		return nil, newMCPError(ErrorCodeInternalError, "failed to persist check results", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"document_id": doc.ID,
		"errors":      result.Errors,
		"stats":       result.Stats,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetPipelineStatus handles the get_pipeline_status tool invocation
func (s *Server) handleGetPipelineStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.checker.Status()

	count, err := s.store.CountDocuments(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to count documents", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
		"pipeline": map[string]interface{}{
			"providers":             status.Providers,
			"sentences_per_chunk":   status.SentencesPerChunk,
			"max_chunk_chars":       status.MaxChunkChars,
			"max_concurrent_chunks": status.MaxConcurrent,
			"active_checks":         status.ActiveChecks,
		},
		"documents": count,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// runCheck invokes the pipeline and records the outcome under the mcp surface
func (s *Server) runCheck(ctx context.Context, docID, text string, sentencesPerChunk int) (*checker.Result, error) {
	start := time.Now()
	result, err := s.checker.CheckDocumentN(ctx, docID, text, sentencesPerChunk)
	s.metrics.RecordCheck(surfaceMCP, statusLabel(err), time.Since(start).Seconds())

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, checker.ErrEmptyDocument):
		return nil, newMCPError(ErrorCodeEmptyText, "text is empty", nil)
	case errors.Is(err, checker.ErrSuperseded):
		return nil, newMCPError(ErrorCodeCheckSuperseded, "check superseded by a newer check of this document", map[string]interface{}{
			"document_id": docID,
		})
	default:
		s.log.Error("check failed", zap.String("document_id", docID), zap.Error(err))
		return nil, newMCPError(ErrorCodeInternalError, "check failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// statusLabel maps a checker outcome to its metrics label
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, checker.ErrSuperseded):
		return "superseded"
	case errors.Is(err, checker.ErrEmptyDocument):
		return "invalid"
	default:
		return "error"
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// sentencesPerChunkArg extracts the optional chunk size override. Zero means
// the configured default.
func sentencesPerChunkArg(args map[string]interface{}) (int, error) {
	n := getIntDefault(args, "sentences_per_chunk", 0)
	if n < 0 || n > 10 {
		return 0, newMCPError(ErrorCodeInvalidParams, "sentences_per_chunk must be between 1 and 10", map[string]interface{}{
			"param": "sentences_per_chunk",
			"value": n,
		})
	}
	return n, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
