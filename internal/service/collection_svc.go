package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type collectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Collection, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Collection, int64, error)
	Update(ctx context.Context, collection *model.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddDocument(ctx context.Context, collectionID, documentID uuid.UUID) error
	RemoveDocument(ctx context.Context, collectionID, documentID uuid.UUID) error
	CountDocuments(ctx context.Context, collectionID uuid.UUID) (int64, error)
	DocumentIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error)
}

type documentLookup interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Document, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Document, error)
}

type CollectionService struct {
	collRepo collectionRepository
	docRepo  documentLookup
}

func NewCollectionService(collRepo collectionRepository, docRepo documentLookup) *CollectionService {
	return &CollectionService{collRepo: collRepo, docRepo: docRepo}
}

func (s *CollectionService) Create(ctx context.Context, collection *model.Collection) error {
	return s.collRepo.Create(ctx, collection)
}

func (s *CollectionService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Collection, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	collections, total, err := s.collRepo.FindByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	for i := range collections {
		count, _ := s.collRepo.CountDocuments(ctx, collections[i].ID)
		collections[i].DocumentCount = int(count)
	}
	return collections, total, nil
}

func (s *CollectionService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Collection, error) {
	collection, err := s.collRepo.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	count, _ := s.collRepo.CountDocuments(ctx, id)
	collection.DocumentCount = int(count)
	return collection, nil
}

// Update renames or re-describes a collection the caller owns.
func (s *CollectionService) Update(ctx context.Context, userID, id uuid.UUID, name, description string, isDefault bool) (*model.Collection, error) {
	collection, err := s.collRepo.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	collection.Name = name
	collection.Description = description
	collection.IsDefault = isDefault
	if err := s.collRepo.Update(ctx, collection); err != nil {
		return nil, err
	}

	count, _ := s.collRepo.CountDocuments(ctx, id)
	collection.DocumentCount = int(count)
	return collection, nil
}

// Documents lists the documents grouped under a collection, newest first.
func (s *CollectionService) Documents(ctx context.Context, userID, id uuid.UUID) ([]model.Document, error) {
	if _, err := s.collRepo.FindByIDAndUser(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ids, err := s.collRepo.DocumentIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.docRepo.FindByIDs(ctx, ids)
}

// Delete removes the grouping and its memberships; the documents themselves
// are untouched.
func (s *CollectionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.collRepo.FindByIDAndUser(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.collRepo.Delete(ctx, id)
}

// AddDocument links a document into a collection. Both must belong to the
// caller.
func (s *CollectionService) AddDocument(ctx context.Context, userID, collectionID, documentID uuid.UUID) error {
	if _, err := s.collRepo.FindByIDAndUser(ctx, collectionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.docRepo.FindByIDAndUser(ctx, documentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.collRepo.AddDocument(ctx, collectionID, documentID)
}

func (s *CollectionService) RemoveDocument(ctx context.Context, userID, collectionID, documentID uuid.UUID) error {
	if _, err := s.collRepo.FindByIDAndUser(ctx, collectionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.collRepo.RemoveDocument(ctx, collectionID, documentID)
}
