package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"localrag/src/core/rag"
	"localrag/src/log"
)

// RAGService is the part of rag.Service the HTTP API exposes
type RAGService interface {
	ImportFile(ctx context.Context, path string, progress rag.ProgressFunc) (*rag.IngestResult, error)
	Reset(ctx context.Context) error
	Retrieve(ctx context.Context, query string, k int) ([]rag.SearchResult, error)
	Ask(ctx context.Context, query string, k int) (*rag.Answer, error)
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	svc  RAGService
	topK int
}

// NewHandler creates the API handler. topK is used when a search request
// does not set one.
func NewHandler(svc RAGService, topK int) *Handler {
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	return &Handler{svc: svc, topK: topK}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID())

	v1 := r.Group("/api/v1")
	v1.POST("/documents", h.IngestDocument)
	v1.POST("/ask", h.Ask)
	v1.POST("/search", h.Search)
	v1.GET("/health", h.CheckHealth)
}

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an ID and logs its outcome
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		log.WithValues("requestId", id).V(1).Info("Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, err error, details interface{}) {
	var (
		loadErr  *rag.LoadError
		embedErr *rag.EmbeddingError
		storeErr *rag.StoreError
		genErr   *rag.GenerationError
	)

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch {
	case errors.As(err, &loadErr):
		status, code = http.StatusBadRequest, "LOAD_FAILED"
	case errors.Is(err, rag.ErrInvalidTopK), errors.Is(err, rag.ErrInvalidChunkConfig):
		status, code = http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.As(err, &embedErr):
		status, code = http.StatusBadGateway, "EMBEDDING_FAILED"
	case errors.As(err, &storeErr):
		status, code = http.StatusBadGateway, "STORE_FAILED"
	case errors.As(err, &genErr):
		status, code = http.StatusBadGateway, "GENERATION_FAILED"
	}

	if status >= http.StatusInternalServerError {
		log.Error(err, "Request failed", "path", c.FullPath())
	}
	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Details: details,
	})
}

func sendBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}
