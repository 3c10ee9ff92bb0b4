package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/jetmil/dreamcapture/models"
)

// UserRepository defines the interface for interacting with account data.
// Credential flows live outside this service; this repository only resolves
// ownership and premium checks for an already-authenticated user ID.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(userID string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row.
func (r *userRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := r.db.Create(user).Error; err != nil {
		log.Printf("ERROR: [UserRepository] Failed to create user %s: %v", user.Username, err)
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when not found.
func (r *userRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to retrieve user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}
	return &user, nil
}
