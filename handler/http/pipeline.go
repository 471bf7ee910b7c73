package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"localrag/src/core/rag"
)

type ingestRequest struct {
	Path  string `json:"path" binding:"required"`
	Reset bool   `json:"reset"`
}

type ingestResponse struct {
	DocumentID string `json:"documentId,omitempty"`
	Pages      int    `json:"pages"`
	Chunks     int    `json:"chunks"`
	Inserted   int    `json:"inserted"`
	DurationMs int64  `json:"durationMs"`
}

func newIngestResponse(result *rag.IngestResult) ingestResponse {
	resp := ingestResponse{
		Chunks:     result.Chunks,
		Inserted:   result.Inserted,
		DurationMs: result.Duration.Milliseconds(),
	}
	if len(result.Documents) > 0 {
		resp.DocumentID = strconv.FormatInt(result.Documents[0].ID, 10)
		resp.Pages = result.Documents[0].Pages
	}
	return resp
}

// IngestDocument loads the document at a server-side path (or s3:// URL) and
// stores its chunks. A partial ingest reports what was inserted in the error
// details.
func (h *Handler) IngestDocument(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Reset {
		if err := h.svc.Reset(ctx); err != nil {
			sendError(c, err, nil)
			return
		}
	}

	result, err := h.svc.ImportFile(ctx, req.Path, nil)
	if err != nil {
		var details interface{}
		if result != nil {
			details = newIngestResponse(result)
		}
		sendError(c, err, details)
		return
	}

	c.JSON(http.StatusCreated, newIngestResponse(result))
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"topK"`
}

// Ask answers a question from the stored chunks
func (h *Handler) Ask(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, err)
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		sendError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Search returns the chunks most similar to the query without generating
func (h *Handler) Search(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, err)
		return
	}
	if req.TopK == 0 {
		req.TopK = h.topK
	}

	results, err := h.svc.Retrieve(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		sendError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}

// CheckHealth reports whether the vector store answers
func (h *Handler) CheckHealth(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"entries": n,
	})
}
