package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/metrics"
	"github.com/avandersen/prosecheck/internal/storage"
)

// surfaceAPI labels this surface in metrics and in persisted check results
const surfaceAPI = "api"

// healthTimeout bounds the storage ping so a wedged database cannot hang
// the health endpoint
const healthTimeout = 2 * time.Second

type handlers struct {
	checker *checker.Checker
	store   storage.Storage
	metrics *metrics.Metrics
	log     *zap.Logger
}

// checkRequest is the body of POST /api/v1/check. The document ID is
// optional; when set, a newer check of the same document supersedes this one.
type checkRequest struct {
	Text              string `json:"text"`
	SentencesPerChunk int    `json:"sentences_per_chunk"`
	DocumentID        string `json:"document_id"`
}

// checkDocumentRequest is the optional body of POST /api/v1/documents/:id/check
type checkDocumentRequest struct {
	SentencesPerChunk int `json:"sentences_per_chunk"`
}

// documentRequest is the body of document create and update calls
type documentRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// documentResponse is the wire shape of a stored document
type documentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDocumentResponse(doc *storage.Document) documentResponse {
	return documentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (h *handlers) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result := h.runCheck(c, req.DocumentID, req.Text, req.SentencesPerChunk)
	if result == nil {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) createDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "content must not be empty")
		return
	}

	doc := &storage.Document{ID: req.ID, Title: req.Title, Content: req.Content}
	if err := h.store.CreateDocument(c.Request.Context(), doc); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			conflict(c, "document already exists")
			return
		}
		h.log.Error("create document failed", zap.Error(err))
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

func (h *handlers) listDocuments(c *gin.Context) {
	docs, err := h.store.ListDocuments(c.Request.Context())
	if err != nil {
		h.log.Error("list documents failed", zap.Error(err))
		internalError(c)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	c.JSON(http.StatusOK, gin.H{"documents": out, "count": len(out)})
}

func (h *handlers) getDocument(c *gin.Context) {
	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func (h *handlers) updateDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "content must not be empty")
		return
	}

	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}

	doc.Title = req.Title
	doc.Content = req.Content
	if err := h.store.UpdateDocument(c.Request.Context(), doc); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "document not found")
			return
		}
		h.log.Error("update document failed", zap.String("document_id", doc.ID), zap.Error(err))
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func (h *handlers) deleteDocument(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "document not found")
			return
		}
		h.log.Error("delete document failed", zap.String("document_id", id), zap.Error(err))
		internalError(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) checkDocument(c *gin.Context) {
	var req checkDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}

	result := h.runCheck(c, doc.ID, doc.Content, req.SentencesPerChunk)
	if result == nil {
		return
	}

	if err := h.store.ReplaceErrors(c.Request.Context(), doc.ID, surfaceAPI, result.Errors); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted while the check was running
			notFound(c, "document not found")
			return
		}
		h.log.Error("persist check results failed", zap.String("document_id", doc.ID), zap.Error(err))
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handlers) listDocumentErrors(c *gin.Context) {
	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}

	rows, err := h.store.ListErrors(c.Request.Context(), doc.ID)
	if err != nil {
		h.log.Error("list check results failed", zap.String("document_id", doc.ID), zap.Error(err))
		internalError(c)
		return
	}

	errs := storage.ToTextErrors(rows)
	c.JSON(http.StatusOK, gin.H{"document_id": doc.ID, "errors": errs, "count": len(errs)})
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// runCheck invokes the pipeline and records the outcome. On failure the
// error response has already been written and nil is returned.
func (h *handlers) runCheck(c *gin.Context, docID, text string, sentencesPerChunk int) *checker.Result {
	start := time.Now()
	result, err := h.checker.CheckDocumentN(c.Request.Context(), docID, text, sentencesPerChunk)
	h.metrics.RecordCheck(surfaceAPI, checkStatus(err), time.Since(start).Seconds())

	switch {
	case err == nil:
		return result
	case errors.Is(err, checker.ErrEmptyDocument):
		badRequest(c, "text must not be empty")
	case errors.Is(err, checker.ErrSuperseded):
		conflict(c, "check superseded by a newer check of this document")
	default:
		h.log.Error("check failed", zap.String("document_id", docID), zap.Error(err))
		internalError(c)
	}
	return nil
}

// checkStatus maps a checker outcome to its metrics label
func checkStatus(err error) string {
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

// loadDocument fetches the document named in the route. When it cannot, the
// error response has already been written and ok is false.
func (h *handlers) loadDocument(c *gin.Context) (*storage.Document, bool) {
	id := c.Param("id")
	doc, err := h.store.GetDocument(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "document not found")
			return nil, false
		}
		h.log.Error("load document failed", zap.String("document_id", id), zap.Error(err))
		internalError(c)
		return nil, false
	}
	return doc, true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msg})
}

func conflict(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msg})
}

func internalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
