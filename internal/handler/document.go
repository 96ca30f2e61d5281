package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/middleware"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

type documentService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, size int64, r io.Reader) (*model.Document, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Document, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Document, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type rateLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID, op string) service.Decision
}

type DocumentHandler struct {
	svc     documentService
	limiter rateLimiter
}

func NewDocumentHandler(svc documentService, limiter rateLimiter) *DocumentHandler {
	return &DocumentHandler{svc: svc, limiter: limiter}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	if decision := h.limiter.Allow(c.Request.Context(), user.ID, service.OpUpload); !decision.Allowed {
		rateLimited(c, decision)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	doc, err := h.svc.Upload(
		c.Request.Context(),
		user.ID,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 50MB upload limit"})
		case errors.Is(err, service.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      doc.ID,
		"status":  doc.Status,
		"message": "Document uploaded and queued for processing",
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	docs, total, err := h.svc.List(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"page":      page,
		"limit":     limit,
		"total":     total,
	})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

func rateLimited(c *gin.Context, decision service.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":     "rate limit exceeded",
		"remaining": decision.Remaining,
		"reset_at":  decision.ResetAt.Unix(),
	})
}
