package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account/owner row. Credential issuance and verification live
// outside this service; handlers receive an already-authenticated user ID and
// this row only resolves ownership and premium checks.
type User struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsPremium      bool      `gorm:"default:false" json:"is_premium"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
