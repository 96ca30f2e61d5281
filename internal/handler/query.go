package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/middleware"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

// Trailing marker lines the client pattern-matches out of the stream.
const (
	sourcesMarker    = "__SOURCES__:"
	confidenceMarker = "__CONFIDENCE__:"
)

type queryRunner interface {
	Ask(ctx context.Context, userID uuid.UUID, question string, documentIDs []uuid.UUID) (*service.QueryResult, error)
}

type queryHistory interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Query, int64, error)
}

type QueryHandler struct {
	svc            queryRunner
	history        queryHistory
	limiter        rateLimiter
	streamInterval time.Duration
}

func NewQueryHandler(svc queryRunner, history queryHistory, limiter rateLimiter, streamInterval time.Duration) *QueryHandler {
	return &QueryHandler{
		svc:            svc,
		history:        history,
		limiter:        limiter,
		streamInterval: streamInterval,
	}
}

type QueryRequest struct {
	Question    string   `json:"question" binding:"required"`
	DocumentIDs []string `json:"document_ids"`
}

// Query answers a question against the caller's documents and streams the
// result. The answer is generated in full before the drip-feed starts; the
// pacing is purely presentational.
func (h *QueryHandler) Query(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	if decision := h.limiter.Allow(c.Request.Context(), user.ID, service.OpQuery); !decision.Allowed {
		rateLimited(c, decision)
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	documentIDs := make([]uuid.UUID, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id: " + raw})
			return
		}
		documentIDs = append(documentIDs, id)
	}

	result, err := h.svc.Ask(c.Request.Context(), user.ID, req.Question, documentIDs)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question must not be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.stream(c, result)
}

func (h *QueryHandler) stream(c *gin.Context, result *service.QueryResult) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	words := strings.Fields(result.Answer)
	for i, word := range words {
		if i > 0 {
			fmt.Fprint(c.Writer, " ")
		}
		fmt.Fprint(c.Writer, word)
		c.Writer.Flush()
		if h.streamInterval > 0 {
			time.Sleep(h.streamInterval)
		}
	}

	sources := result.Sources
	if sources == nil {
		sources = []model.Source{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		sourcesJSON = []byte("[]")
	}

	fmt.Fprintf(c.Writer, "\n%s%s\n%s%s", sourcesMarker, sourcesJSON, confidenceMarker, result.Confidence)
	c.Writer.Flush()
}

func (h *QueryHandler) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	queries, total, err := h.history.FindByUserID(c.Request.Context(), user.ID, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queries": queries,
		"page":    page,
		"limit":   limit,
		"total":   total,
	})
}
