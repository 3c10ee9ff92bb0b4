package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media types accepted for a moment.
const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// Location is an optional geo-tag attached to a moment.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// Moment is a short-lived media item. ExpiresAt = CreatedAt + the configured
// moment TTL; the stored value is authoritative for the sweep. IsVisible only
// ever flips true -> false.
type Moment struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);index:idx_moments_user_created;not null" json:"user_id"`

	Caption   string    `gorm:"type:varchar(500)" json:"caption,omitempty"`
	MediaType string    `gorm:"type:varchar(20);not null" json:"media_type"`
	MediaURL  string    `gorm:"type:varchar(500);not null" json:"media_url"`
	Location  *Location `gorm:"serializer:json" json:"location,omitempty"`

	AITags []string `gorm:"serializer:json" json:"ai_tags,omitempty"`

	CreatedAt time.Time `gorm:"index;index:idx_moments_user_created;not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsVisible bool      `gorm:"default:true;index" json:"is_visible"`
	ViewCount int       `gorm:"default:0" json:"view_count"`
}

// TableName specifies the table name for the Moment model.
func (Moment) TableName() string {
	return "moments"
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (m *Moment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the moment is past its TTL at the given instant.
func (m *Moment) Expired(now time.Time) bool {
	return !m.ExpiresAt.After(now)
}
