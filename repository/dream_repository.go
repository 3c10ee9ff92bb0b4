package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/jetmil/dreamcapture/models"
)

// DreamRepository defines the interface for interacting with dream data.
type DreamRepository interface {
	Create(dream *models.Dream) error
	GetByID(dreamID string) (*models.Dream, error)
	ListPublic(now time.Time, skip, limit int) ([]*models.Dream, error)
	ListByUser(userID string, now time.Time, skip, limit int) ([]*models.Dream, error)
	CountCreatedSince(userID string, since time.Time) (int64, error)
	UpdateEnrichment(dreamID string, analysis *models.DreamAnalysis, tags []string, imageURL string) error
	IncrementViewCount(dreamID string) error
	HideExpired(now time.Time) (int64, error)
	Delete(dreamID string) error
}

type dreamRepository struct {
	db *gorm.DB
}

// NewDreamRepository creates a new instance of DreamRepository.
func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{db: db}
}

// Create inserts a new dream row.
func (r *dreamRepository) Create(dream *models.Dream) error {
	if dream == nil {
		return errors.New("dream cannot be nil")
	}
	if err := r.db.Create(dream).Error; err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to create dream for userID %s: %v", dream.UserID, err)
		return fmt.Errorf("failed to create dream for userID %s: %w", dream.UserID, err)
	}
	log.Printf("INFO: [DreamRepository] Created dream %s for userID %s (expires %s).", dream.ID, dream.UserID, dream.ExpiresAt.Format(time.RFC3339))
	return nil
}

// GetByID retrieves a dream by its ID. Returns (nil, nil) when not found.
func (r *dreamRepository) GetByID(dreamID string) (*models.Dream, error) {
	var dream models.Dream
	err := r.db.First(&dream, "id = ?", dreamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [DreamRepository] Failed to retrieve dream %s: %v", dreamID, err)
		return nil, fmt.Errorf("failed to retrieve dream %s: %w", dreamID, err)
	}
	return &dream, nil
}

// ListPublic returns the public feed: visible, unexpired public dreams,
// newest first.
func (r *dreamRepository) ListPublic(now time.Time, skip, limit int) ([]*models.Dream, error) {
	var dreams []*models.Dream
	err := r.db.
		Where("is_public = ? AND is_visible = ? AND expires_at > ?", true, true, now).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&dreams).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to list public dreams: %v", err)
		return nil, fmt.Errorf("failed to list public dreams: %w", err)
	}
	return dreams, nil
}

// ListByUser returns the owner's unexpired dreams (public and private),
// newest first.
func (r *dreamRepository) ListByUser(userID string, now time.Time, skip, limit int) ([]*models.Dream, error) {
	var dreams []*models.Dream
	err := r.db.
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&dreams).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to list dreams for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list dreams for userID %s: %w", userID, err)
	}
	return dreams, nil
}

// CountCreatedSince counts the owner's dreams created at or after the given
// instant. Backed by the (user_id, created_at) index; this is the quota
// window query.
func (r *dreamRepository) CountCreatedSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Dream{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to count dreams for userID %s since %s: %v", userID, since.Format(time.RFC3339), err)
		return 0, fmt.Errorf("failed to count dreams for userID %s: %w", userID, err)
	}
	return count, nil
}

// UpdateEnrichment overwrites the enrichment columns of a dream. Re-running
// enrichment replaces the previous payload rather than appending. Fields that
// failed to produce a value are left untouched so partial results persist.
func (r *dreamRepository) UpdateEnrichment(dreamID string, analysis *models.DreamAnalysis, tags []string, imageURL string) error {
	updates := map[string]interface{}{}
	if analysis != nil {
		updates["ai_analysis"] = analysis
	}
	if tags != nil {
		updates["ai_tags"] = tags
	}
	if imageURL != "" {
		updates["generated_image_url"] = imageURL
	}
	if len(updates) == 0 {
		return nil
	}
	err := r.db.Model(&models.Dream{}).Where("id = ?", dreamID).Updates(updates).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to update enrichment for dream %s: %v", dreamID, err)
		return fmt.Errorf("failed to update enrichment for dream %s: %w", dreamID, err)
	}
	log.Printf("INFO: [DreamRepository] Updated enrichment for dream %s (%d fields).", dreamID, len(updates))
	return nil
}

// IncrementViewCount bumps the view counter by one, atomically at the row level.
func (r *dreamRepository) IncrementViewCount(dreamID string) error {
	err := r.db.Model(&models.Dream{}).
		Where("id = ?", dreamID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to increment view count for dream %s: %v", dreamID, err)
		return fmt.Errorf("failed to increment view count for dream %s: %w", dreamID, err)
	}
	return nil
}

// HideExpired flips is_visible to false for every visible dream past its
// expiry, in one batched update. Idempotent: already-hidden rows never match.
func (r *dreamRepository) HideExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Dream{}).
		Where("is_visible = ? AND expires_at <= ?", true, now).
		Update("is_visible", false)
	if result.Error != nil {
		log.Printf("ERROR: [DreamRepository] Failed to hide expired dreams: %v", result.Error)
		return 0, fmt.Errorf("failed to hide expired dreams: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes a dream row permanently. Only explicit owner requests reach
// this; the sweep never deletes.
func (r *dreamRepository) Delete(dreamID string) error {
	err := r.db.Delete(&models.Dream{}, "id = ?", dreamID).Error
	if err != nil {
		log.Printf("ERROR: [DreamRepository] Failed to delete dream %s: %v", dreamID, err)
		return fmt.Errorf("failed to delete dream %s: %w", dreamID, err)
	}
	log.Printf("INFO: [DreamRepository] Deleted dream %s.", dreamID)
	return nil
}
