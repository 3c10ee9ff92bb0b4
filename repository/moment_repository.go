package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/jetmil/dreamcapture/models"
)

// MomentRepository defines the interface for interacting with moment data.
type MomentRepository interface {
	Create(moment *models.Moment) error
	GetByID(momentID string) (*models.Moment, error)
	ListVisible(now time.Time, skip, limit int) ([]*models.Moment, error)
	CountCreatedSince(userID string, since time.Time) (int64, error)
	UpdateTags(momentID string, tags []string) error
	IncrementViewCount(momentID string) error
	HideExpired(now time.Time) (int64, error)
}

type momentRepository struct {
	db *gorm.DB
}

// NewMomentRepository creates a new instance of MomentRepository.
func NewMomentRepository(db *gorm.DB) MomentRepository {
	return &momentRepository{db: db}
}

// Create inserts a new moment row.
func (r *momentRepository) Create(moment *models.Moment) error {
	if moment == nil {
		return errors.New("moment cannot be nil")
	}
	if err := r.db.Create(moment).Error; err != nil {
		log.Printf("ERROR: [MomentRepository] Failed to create moment for userID %s: %v", moment.UserID, err)
		return fmt.Errorf("failed to create moment for userID %s: %w", moment.UserID, err)
	}
	log.Printf("INFO: [MomentRepository] Created moment %s for userID %s (expires %s).", moment.ID, moment.UserID, moment.ExpiresAt.Format(time.RFC3339))
	return nil
}

// GetByID retrieves a moment by its ID. Returns (nil, nil) when not found.
func (r *momentRepository) GetByID(momentID string) (*models.Moment, error) {
	var moment models.Moment
	err := r.db.First(&moment, "id = ?", momentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [MomentRepository] Failed to retrieve moment %s: %v", momentID, err)
		return nil, fmt.Errorf("failed to retrieve moment %s: %w", momentID, err)
	}
	return &moment, nil
}

// ListVisible returns the live feed: visible, unexpired moments, newest first.
func (r *momentRepository) ListVisible(now time.Time, skip, limit int) ([]*models.Moment, error) {
	var moments []*models.Moment
	err := r.db.
		Where("is_visible = ? AND expires_at > ?", true, now).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&moments).Error
	if err != nil {
		log.Printf("ERROR: [MomentRepository] Failed to list visible moments: %v", err)
		return nil, fmt.Errorf("failed to list visible moments: %w", err)
	}
	return moments, nil
}

// CountCreatedSince counts the owner's moments created at or after the given
// instant. This is the trailing-window quota query.
func (r *momentRepository) CountCreatedSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Moment{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [MomentRepository] Failed to count moments for userID %s since %s: %v", userID, since.Format(time.RFC3339), err)
		return 0, fmt.Errorf("failed to count moments for userID %s: %w", userID, err)
	}
	return count, nil
}

// UpdateTags overwrites the enrichment tags of a moment. Writing to an
// already-hidden moment is allowed; hidden rows stay addressable by ID.
func (r *momentRepository) UpdateTags(momentID string, tags []string) error {
	err := r.db.Model(&models.Moment{}).
		Where("id = ?", momentID).
		Update("ai_tags", tags).Error
	if err != nil {
		log.Printf("ERROR: [MomentRepository] Failed to update tags for moment %s: %v", momentID, err)
		return fmt.Errorf("failed to update tags for moment %s: %w", momentID, err)
	}
	log.Printf("INFO: [MomentRepository] Updated tags for moment %s (%d tags).", momentID, len(tags))
	return nil
}

// IncrementViewCount bumps the view counter by one, atomically at the row level.
func (r *momentRepository) IncrementViewCount(momentID string) error {
	err := r.db.Model(&models.Moment{}).
		Where("id = ?", momentID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		log.Printf("ERROR: [MomentRepository] Failed to increment view count for moment %s: %v", momentID, err)
		return fmt.Errorf("failed to increment view count for moment %s: %w", momentID, err)
	}
	return nil
}

// HideExpired flips is_visible to false for every visible moment past its
// expiry, in one batched update. Idempotent: already-hidden rows never match.
func (r *momentRepository) HideExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Moment{}).
		Where("is_visible = ? AND expires_at <= ?", true, now).
		Update("is_visible", false)
	if result.Error != nil {
		log.Printf("ERROR: [MomentRepository] Failed to hide expired moments: %v", result.Error)
		return 0, fmt.Errorf("failed to hide expired moments: %w", result.Error)
	}
	return result.RowsAffected, nil
}
