package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DreamAnalysis is the enrichment payload produced for a dream.
// VisualPrompt feeds image generation and is not part of the matching surface.
type DreamAnalysis struct {
	Themes       []string `json:"themes"`
	Emotions     []string `json:"emotions"`
	Symbols      []string `json:"symbols"`
	Narrative    string   `json:"narrative"`
	Tags         []string `json:"tags"`
	VisualPrompt string   `json:"visual_prompt"`
}

// Dream is a long-lived content item with user-selected retention.
// ExpiresAt is fixed at creation (CreatedAt + TTLDays) and never changes.
// IsVisible only ever flips true -> false, via the cleanup sweep.
type Dream struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);index:idx_dreams_user_created;not null" json:"user_id"`

	Title       string `gorm:"type:varchar(200)" json:"title,omitempty"`
	Description string `gorm:"type:text;not null" json:"description"`
	AudioURL    string `gorm:"type:varchar(500)" json:"audio_url,omitempty"`

	AIAnalysis        *DreamAnalysis `gorm:"serializer:json" json:"ai_analysis,omitempty"`
	AITags            []string       `gorm:"serializer:json" json:"ai_tags,omitempty"`
	GeneratedImageURL string         `gorm:"type:varchar(500)" json:"generated_image_url,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_dreams_user_created;index:idx_dreams_created_expires;not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"index;index:idx_dreams_created_expires;not null" json:"expires_at"`
	TTLDays   int       `gorm:"default:1;not null" json:"ttl_days"`
	IsPublic  bool      `gorm:"default:true" json:"is_public"`
	IsVisible bool      `gorm:"default:true;index" json:"is_visible"`
	ViewCount int       `gorm:"default:0" json:"view_count"`
}

// TableName specifies the table name for the Dream model.
func (Dream) TableName() string {
	return "dreams"
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (d *Dream) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the dream is past its retention at the given instant.
func (d *Dream) Expired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}
