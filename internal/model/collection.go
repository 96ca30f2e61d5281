package model

import (
	"github.com/google/uuid"
)

// Collection is a user-defined grouping of documents.
type Collection struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`

	// Computed on read, not stored.
	DocumentCount int `gorm:"-" json:"document_count,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionDocument joins collections and documents many-to-many.
type CollectionDocument struct {
	BaseModel
	CollectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_collection_document,unique" json:"collection_id"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_collection_document,unique" json:"document_id"`

	Collection *Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"-"`
	Document   *Document   `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CollectionDocument) TableName() string {
	return "collection_documents"
}
