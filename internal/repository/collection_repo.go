package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Create(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *CollectionRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *CollectionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Collection, int64, error) {
	var collections []model.Collection
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Collection{}).
		Where("user_id = ?", userID)

	query.Count(&total)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&collections).Error
	return collections, total, err
}

func (r *CollectionRepository) Update(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

func (r *CollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("collection_id = ?", id).Delete(&model.CollectionDocument{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Collection{}).Error
	})
}

func (r *CollectionRepository) AddDocument(ctx context.Context, collectionID, documentID uuid.UUID) error {
	var existing model.CollectionDocument
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND document_id = ?", collectionID, documentID).
		First(&existing).Error
	if err == nil {
		return nil // already a member
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return r.db.WithContext(ctx).Create(&model.CollectionDocument{
		CollectionID: collectionID,
		DocumentID:   documentID,
	}).Error
}

func (r *CollectionRepository) RemoveDocument(ctx context.Context, collectionID, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("collection_id = ? AND document_id = ?", collectionID, documentID).
		Delete(&model.CollectionDocument{}).Error
}

// RemoveDocumentFromAll drops a document's memberships everywhere, used
// when the document itself is deleted.
func (r *CollectionRepository) RemoveDocumentFromAll(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("document_id = ?", documentID).
		Delete(&model.CollectionDocument{}).Error
}

func (r *CollectionRepository) CountDocuments(ctx context.Context, collectionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CollectionDocument{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	return count, err
}

func (r *CollectionRepository) DocumentIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error) {
	var memberships []model.CollectionDocument
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.DocumentID)
	}
	return ids, nil
}
