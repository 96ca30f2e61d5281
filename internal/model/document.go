package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusUploading  DocumentStatus = "uploading"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// ValidProcessingStatus reports whether s is a status the processing worker
// is allowed to report back through the webhook.
func ValidProcessingStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusProcessing, DocumentStatusReady, DocumentStatusFailed:
		return true
	}
	return false
}

type Document struct {
	BaseModel
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	FileName     string         `gorm:"size:500;not null" json:"file_name"`
	ContentType  string         `gorm:"size:100" json:"content_type"`
	Size         int64          `gorm:"not null" json:"size"`
	StoragePath  string         `gorm:"size:1000" json:"storage_path"`
	Status       DocumentStatus `gorm:"size:50;default:'processing'" json:"status"`
	ChunkCount   int            `gorm:"default:0" json:"chunk_count"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	Metadata     JSONMap        `gorm:"type:jsonb" json:"metadata,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
