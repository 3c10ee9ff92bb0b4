package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resonance is a scored affinity link between one dream and one moment owned
// by the same user. Score is always within [0,100]. IsSaved is the premium
// retention flag and is the only field mutated after creation.
type Resonance struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID   string `gorm:"type:varchar(36);index:idx_resonance_user_score;not null" json:"user_id"`
	DreamID  string `gorm:"type:varchar(36);not null" json:"dream_id"`
	MomentID string `gorm:"type:varchar(36);not null" json:"moment_id"`

	ResonanceScore       int    `gorm:"index:idx_resonance_user_score;not null" json:"resonance_score"`
	ResonanceExplanation string `gorm:"type:text" json:"resonance_explanation,omitempty"`

	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
	IsSaved   bool      `gorm:"default:false" json:"is_saved"`
}

// TableName specifies the table name for the Resonance model.
func (Resonance) TableName() string {
	return "resonances"
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (r *Resonance) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
