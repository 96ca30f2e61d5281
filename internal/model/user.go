package model

// User mirrors an account from the external identity provider. Rows are
// created lazily on the first authenticated request and never hard-deleted.
type User struct {
	BaseModel
	ExternalID  string `gorm:"size:255;not null;uniqueIndex" json:"external_id"`
	Email       string `gorm:"size:255;index" json:"email"`
	DisplayName string `gorm:"size:255" json:"display_name"`
}

func (User) TableName() string {
	return "users"
}
