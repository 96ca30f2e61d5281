package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

type processingUpdater interface {
	ApplyProcessingUpdate(ctx context.Context, id uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error
}

// WebhookHandler receives out-of-band status reports from the processing
// worker. The shared secret is enforced whenever one is configured, and a
// production deployment without one rejects all calls.
type WebhookHandler struct {
	svc        processingUpdater
	secret     string
	production bool
}

func NewWebhookHandler(svc processingUpdater, secret string, production bool) *WebhookHandler {
	return &WebhookHandler{svc: svc, secret: secret, production: production}
}

type ProcessUpdateRequest struct {
	DocumentID   string `json:"document_id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	ChunkCount   *int   `json:"chunk_count"`
	ErrorMessage string `json:"error_message"`
}

func (h *WebhookHandler) Process(c *gin.Context) {
	if h.secret != "" {
		if c.GetHeader("X-Worker-Secret") != h.secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid worker secret"})
			return
		}
	} else if h.production {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "worker secret not configured"})
		return
	}

	var req ProcessUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_id and status are required"})
		return
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document_id"})
		return
	}

	err = h.svc.ApplyProcessingUpdate(c.Request.Context(), docID, model.DocumentStatus(req.Status), req.ChunkCount, req.ErrorMessage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
