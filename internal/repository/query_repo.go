package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type QueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

func (r *QueryRepository) Create(ctx context.Context, query *model.Query) error {
	return r.db.WithContext(ctx).Create(query).Error
}

func (r *QueryRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Query, int64, error) {
	var queries []model.Query
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Query{}).
		Where("user_id = ?", userID)

	q.Count(&total)
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&queries).Error
	return queries, total, err
}
