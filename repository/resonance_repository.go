package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/jetmil/dreamcapture/models"
)

// ResonanceRepository defines the interface for interacting with resonance data.
type ResonanceRepository interface {
	Create(resonance *models.Resonance) error
	GetByID(resonanceID string) (*models.Resonance, error)
	ListByUser(userID string, skip, limit int) ([]*models.Resonance, error)
	SetSaved(resonanceID string, saved bool) error
}

type resonanceRepository struct {
	db *gorm.DB
}

// NewResonanceRepository creates a new instance of ResonanceRepository.
func NewResonanceRepository(db *gorm.DB) ResonanceRepository {
	return &resonanceRepository{db: db}
}

// Create inserts a new resonance row.
func (r *resonanceRepository) Create(resonance *models.Resonance) error {
	if resonance == nil {
		return errors.New("resonance cannot be nil")
	}
	if err := r.db.Create(resonance).Error; err != nil {
		log.Printf("ERROR: [ResonanceRepository] Failed to create resonance for userID %s: %v", resonance.UserID, err)
		return fmt.Errorf("failed to create resonance for userID %s: %w", resonance.UserID, err)
	}
	log.Printf("INFO: [ResonanceRepository] Created resonance %s (dream %s, moment %s, score %d).",
		resonance.ID, resonance.DreamID, resonance.MomentID, resonance.ResonanceScore)
	return nil
}

// GetByID retrieves a resonance by its ID. Returns (nil, nil) when not found.
func (r *resonanceRepository) GetByID(resonanceID string) (*models.Resonance, error) {
	var resonance models.Resonance
	err := r.db.First(&resonance, "id = ?", resonanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ResonanceRepository] Failed to retrieve resonance %s: %v", resonanceID, err)
		return nil, fmt.Errorf("failed to retrieve resonance %s: %w", resonanceID, err)
	}
	return &resonance, nil
}

// ListByUser returns the owner's resonances, newest first. Saved resonances
// remain listed regardless of their source items' visibility.
func (r *resonanceRepository) ListByUser(userID string, skip, limit int) ([]*models.Resonance, error) {
	var resonances []*models.Resonance
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&resonances).Error
	if err != nil {
		log.Printf("ERROR: [ResonanceRepository] Failed to list resonances for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list resonances for userID %s: %w", userID, err)
	}
	return resonances, nil
}

// SetSaved toggles the premium retention flag, the only mutation a resonance
// supports after creation.
func (r *resonanceRepository) SetSaved(resonanceID string, saved bool) error {
	err := r.db.Model(&models.Resonance{}).
		Where("id = ?", resonanceID).
		Update("is_saved", saved).Error
	if err != nil {
		log.Printf("ERROR: [ResonanceRepository] Failed to set saved=%t for resonance %s: %v", saved, resonanceID, err)
		return fmt.Errorf("failed to set saved flag for resonance %s: %w", resonanceID, err)
	}
	log.Printf("INFO: [ResonanceRepository] Set saved=%t for resonance %s.", saved, resonanceID)
	return nil
}
