package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content types accepted by the save endpoint.
const (
	ContentTypeDream     = "dream"
	ContentTypeMoment    = "moment"
	ContentTypeResonance = "resonance"
)

// SavedContent is a premium snapshot of a dream, moment or resonance at save
// time. The snapshot is a full copy, not a live reference, so it stays
// readable after the source item expires or is hidden.
type SavedContent struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);index:idx_saved_user_date;not null" json:"user_id"`

	ContentType     string                 `gorm:"type:varchar(20);not null" json:"content_type"`
	ContentID       string                 `gorm:"type:varchar(36);not null" json:"content_id"`
	ContentSnapshot map[string]interface{} `gorm:"serializer:json;not null" json:"content_snapshot"`

	SavedAt time.Time `gorm:"index:idx_saved_user_date;not null" json:"saved_at"`
	Note    string    `gorm:"type:text" json:"note,omitempty"`
}

// TableName specifies the table name for the SavedContent model.
func (SavedContent) TableName() string {
	return "saved_content"
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (s *SavedContent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
