package ingestion

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProcessRequest is the payload the web tier sends when a document upload
// finishes and processing should begin.
type ProcessRequest struct {
	DocumentID  string `json:"document_id" binding:"required"`
	StoragePath string `json:"storage_path" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
}

// Handler exposes the worker's processing endpoint.
type Handler struct {
	processor *Processor
	secret    string
}

func NewHandler(processor *Processor, secret string) *Handler {
	return &Handler{processor: processor, secret: secret}
}

func (h *Handler) ProcessDocument(c *gin.Context) {
	if h.secret != "" && c.GetHeader("X-Worker-Secret") != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid worker secret"})
		return
	}

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_id, storage_path and user_id are required"})
		return
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	log.Printf("[Worker] Processing document %s (%s)", documentID, req.StoragePath)

	count, err := h.processor.Process(c.Request.Context(), documentID, userID, req.StoragePath)
	if err != nil {
		log.Printf("[Worker] Processing failed for document %s: %v", documentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"chunks": count,
	})
}

// SetupRouter builds the worker's HTTP surface.
func SetupRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "docurag-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	router.POST("/process", h.ProcessDocument)

	return router
}
