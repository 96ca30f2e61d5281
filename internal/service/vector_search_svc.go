package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

// ChunkMatch is one retrieved chunk with its cosine similarity.
type ChunkMatch struct {
	Chunk      model.Chunk
	Similarity float64
}

// Searcher performs similarity search within a user's chunk namespace.
type Searcher interface {
	Search(ctx context.Context, req *VectorSearchRequest) ([]ChunkMatch, error)
}

// VectorSearchRequest bounds one similarity search. DocumentIDs, when
// non-empty, restricts results to those documents (match-any).
type VectorSearchRequest struct {
	UserID      uuid.UUID
	Embedding   pgvector.Vector
	DocumentIDs []uuid.UUID
	TopK        int
	Threshold   float64
}

// VectorSearchService runs cosine-distance search over the chunks table.
type VectorSearchService struct {
	db *gorm.DB
}

func NewVectorSearchService(db *gorm.DB) *VectorSearchService {
	return &VectorSearchService{db: db}
}

// Search returns up to TopK chunks owned by the requesting user, ordered by
// similarity. The threshold is applied inside the query, so rows below it
// never reach the caller.
func (s *VectorSearchService) Search(ctx context.Context, req *VectorSearchRequest) ([]ChunkMatch, error) {
	if req.TopK <= 0 {
		req.TopK = 10
	}

	var results []struct {
		model.Chunk
		Distance float64 `gorm:"column:distance"`
	}

	query := s.db.WithContext(ctx).
		Table("chunks").
		Select("*, embedding <=> ? AS distance", req.Embedding).
		Where("user_id = ?", req.UserID).
		Where("deleted_at IS NULL").
		Where("embedding IS NOT NULL").
		Order("distance ASC").
		Limit(req.TopK)

	if req.Threshold > 0 {
		query = query.Where("1 - (embedding <=> ?) >= ?", req.Embedding, req.Threshold)
	}

	if len(req.DocumentIDs) > 0 {
		query = query.Where("document_id IN ?", req.DocumentIDs)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	matches := make([]ChunkMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, ChunkMatch{
			Chunk:      r.Chunk,
			Similarity: 1 - r.Distance,
		})
	}

	return matches, nil
}
