package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Chunk is one indexed segment of a document's extracted text. Chunk rows
// are written only by the processing worker, never by the web tier. UserID
// is denormalized from the owning document so every similarity search can
// be scoped to the caller's namespace with a single filter.
type Chunk struct {
	BaseModel
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	ChunkIndex int             `gorm:"default:0" json:"chunk_index"`
	Page       int             `gorm:"default:0" json:"page,omitempty"`
	VectorID   string          `gorm:"size:100" json:"vector_id"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	Metadata   JSONMap         `gorm:"type:jsonb" json:"metadata,omitempty"`

	Document *Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Chunk) TableName() string {
	return "chunks"
}
