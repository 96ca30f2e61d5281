package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/storage"
)

// allowedContentTypes is the fixed upload allow-list: PDF, plain text,
// Markdown, and both Word formats.
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"text/markdown":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type documentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Document, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Document, int64, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type chunkDeleter interface {
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
}

type membershipCleaner interface {
	RemoveDocumentFromAll(ctx context.Context, documentID uuid.UUID) error
}

type workerNotifier interface {
	NotifyProcess(ctx context.Context, documentID uuid.UUID, storagePath string, userID uuid.UUID) error
}

type DocumentService struct {
	docRepo       documentRepository
	chunkRepo     chunkDeleter
	collRepo      membershipCleaner
	store         storage.Store
	notifier      workerNotifier
	maxUploadSize int64
}

func NewDocumentService(docRepo documentRepository, chunkRepo chunkDeleter, collRepo membershipCleaner, store storage.Store, notifier workerNotifier, maxUploadSize int64) *DocumentService {
	return &DocumentService{
		docRepo:       docRepo,
		chunkRepo:     chunkRepo,
		collRepo:      collRepo,
		store:         store,
		notifier:      notifier,
		maxUploadSize: maxUploadSize,
	}
}

// Upload validates, stores and records one file, then notifies the
// processing worker. The notification is fire-and-forget: a worker that
// cannot be reached leaves the document in "processing" and is only logged.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, size int64, r io.Reader) (*model.Document, error) {
	if size > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}
	if !allowedContentTypes[normalizeContentType(contentType)] {
		return nil, ErrUnsupportedType
	}

	docID := uuid.New()
	storagePath := fmt.Sprintf("%s/%s/%s", userID, docID, filename)

	if err := s.store.Put(ctx, storagePath, r); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &model.Document{
		UserID:      userID,
		FileName:    filename,
		ContentType: normalizeContentType(contentType),
		Size:        size,
		StoragePath: storagePath,
		Status:      model.DocumentStatusProcessing,
	}
	doc.ID = docID

	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			log.Printf("[Upload] Failed to clean up stored file %s: %v", storagePath, delErr)
		}
		return nil, err
	}

	if s.notifier != nil {
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.notifier.NotifyProcess(notifyCtx, docID, storagePath, userID); err != nil {
				log.Printf("[Upload] Failed to notify worker for document %s: %v", docID, err)
			}
		}()
	}

	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.docRepo.FindByUserID(ctx, userID, limit, (page-1)*limit)
}

func (s *DocumentService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Document, error) {
	doc, err := s.docRepo.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Delete removes a document the caller owns. The object-store delete is
// best-effort: an orphaned object is accepted in exchange for guaranteed
// relational cleanup of the document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := s.docRepo.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			log.Printf("[Delete] Failed to delete stored file %s: %v", doc.StoragePath, err)
		}
	}

	if err := s.chunkRepo.DeleteByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := s.collRepo.RemoveDocumentFromAll(ctx, id); err != nil {
		return fmt.Errorf("failed to remove collection memberships: %w", err)
	}

	return s.docRepo.Delete(ctx, id)
}

// ApplyProcessingUpdate handles the worker's out-of-band status report.
// Only supplied fields change, and re-applying the same update is a no-op,
// so the webhook is safe to call more than once.
func (s *DocumentService) ApplyProcessingUpdate(ctx context.Context, id uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error {
	if !model.ValidProcessingStatus(status) {
		return ErrInvalidStatus
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	doc.Status = status
	if chunkCount != nil {
		doc.ChunkCount = *chunkCount
	}
	if errorMessage != "" {
		doc.ErrorMessage = errorMessage
	}
	if status == model.DocumentStatusReady && doc.ProcessedAt == nil {
		now := time.Now()
		doc.ProcessedAt = &now
	}

	return s.docRepo.Update(ctx, doc)
}

func normalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
