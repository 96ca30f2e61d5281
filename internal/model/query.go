package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Source is one cited passage attached to a persisted query. Text carries a
// bounded excerpt, not the full chunk content.
type Source struct {
	DocumentID uuid.UUID `json:"doc_id"`
	ChunkID    uuid.UUID `json:"chunk_id"`
	Score      float64   `json:"score"`
	Page       int       `json:"page,omitempty"`
	Text       string    `json:"text"`
	FileName   string    `json:"file_name,omitempty"`
}

type SourceList []Source

func (s SourceList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]Source{})
	}
	return json.Marshal(s)
}

func (s *SourceList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Query records one question/answer interaction. Rows are written once,
// after the answer is fully computed, and never updated.
type Query struct {
	BaseModel
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Question    string      `gorm:"type:text;not null" json:"question"`
	Answer      string      `gorm:"type:text" json:"answer"`
	Sources     SourceList  `gorm:"type:jsonb" json:"sources"`
	Confidence  Confidence  `gorm:"size:20" json:"confidence"`
	TokenCount  int         `gorm:"default:0" json:"token_count"`
	LatencyMs   int64       `gorm:"default:0" json:"latency_ms"`
	DocumentIDs StringArray `gorm:"type:jsonb" json:"document_ids,omitempty"`
}

func (Query) TableName() string {
	return "queries"
}
