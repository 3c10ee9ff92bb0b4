package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/jetmil/dreamcapture/models"
)

// SavedContentRepository defines the interface for interacting with saved
// content snapshots.
type SavedContentRepository interface {
	Create(saved *models.SavedContent) error
	ListByUser(userID string, skip, limit int) ([]*models.SavedContent, error)
	CountSavedSince(userID string, since time.Time) (int64, error)
}

type savedContentRepository struct {
	db *gorm.DB
}

// NewSavedContentRepository creates a new instance of SavedContentRepository.
func NewSavedContentRepository(db *gorm.DB) SavedContentRepository {
	return &savedContentRepository{db: db}
}

// Create inserts a new saved-content snapshot.
func (r *savedContentRepository) Create(saved *models.SavedContent) error {
	if saved == nil {
		return errors.New("saved content cannot be nil")
	}
	if err := r.db.Create(saved).Error; err != nil {
		log.Printf("ERROR: [SavedContentRepository] Failed to save %s %s for userID %s: %v", saved.ContentType, saved.ContentID, saved.UserID, err)
		return fmt.Errorf("failed to save %s for userID %s: %w", saved.ContentType, saved.UserID, err)
	}
	log.Printf("INFO: [SavedContentRepository] Saved %s %s for userID %s.", saved.ContentType, saved.ContentID, saved.UserID)
	return nil
}

// ListByUser returns the owner's saved snapshots, newest first.
func (r *savedContentRepository) ListByUser(userID string, skip, limit int) ([]*models.SavedContent, error) {
	var saved []*models.SavedContent
	err := r.db.
		Where("user_id = ?", userID).
		Order("saved_at desc").
		Offset(skip).
		Limit(limit).
		Find(&saved).Error
	if err != nil {
		log.Printf("ERROR: [SavedContentRepository] Failed to list saved content for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list saved content for userID %s: %w", userID, err)
	}
	return saved, nil
}

// CountSavedSince counts the owner's saves at or after the given instant,
// used for the one-save-per-day premium rule.
func (r *savedContentRepository) CountSavedSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SavedContent{}).
		Where("user_id = ? AND saved_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [SavedContentRepository] Failed to count saves for userID %s since %s: %v", userID, since.Format(time.RFC3339), err)
		return 0, fmt.Errorf("failed to count saves for userID %s: %w", userID, err)
	}
	return count, nil
}
