package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
)

// SavedContentService implements the premium save feature: one snapshot per
// UTC day. The snapshot is a full copy of the content at save time, so it
// outlives the source item's expiry.
type SavedContentService interface {
	Save(userID, contentType, contentID, note string, now time.Time) (*models.SavedContent, error)
	ListForUser(userID string, skip, limit int) ([]*models.SavedContent, error)
}

type savedContentService struct {
	savedRepo     repository.SavedContentRepository
	userRepo      repository.UserRepository
	dreamRepo     repository.DreamRepository
	momentRepo    repository.MomentRepository
	resonanceRepo repository.ResonanceRepository
}

// NewSavedContentService creates a new instance of SavedContentService.
func NewSavedContentService(
	savedRepo repository.SavedContentRepository,
	userRepo repository.UserRepository,
	dreamRepo repository.DreamRepository,
	momentRepo repository.MomentRepository,
	resonanceRepo repository.ResonanceRepository,
) SavedContentService {
	return &savedContentService{
		savedRepo:     savedRepo,
		userRepo:      userRepo,
		dreamRepo:     dreamRepo,
		momentRepo:    momentRepo,
		resonanceRepo: resonanceRepo,
	}
}

// Save snapshots one dream, moment or resonance for a premium user. Limited
// to one save per UTC calendar day.
func (s *savedContentService) Save(userID, contentType, contentID, note string, now time.Time) (*models.SavedContent, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("User")
	}
	if !user.IsPremium {
		return nil, apperrors.NewAccessDenied("saving content is a premium feature")
	}

	dayStart := models.StartOfUTCDay(now)
	count, err := s.savedRepo.CountSavedSince(userID, dayStart)
	if err != nil {
		return nil, err
	}
	if count >= 1 {
		return nil, apperrors.NewRateLimited("Maximum 1 save per day", 1)
	}

	snapshot, err := s.snapshot(userID, contentType, contentID)
	if err != nil {
		return nil, err
	}

	saved := &models.SavedContent{
		UserID:          userID,
		ContentType:     contentType,
		ContentID:       contentID,
		ContentSnapshot: snapshot,
		SavedAt:         now,
		Note:            note,
	}
	if err := s.savedRepo.Create(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListForUser returns the owner's saved snapshots, newest first.
func (s *savedContentService) ListForUser(userID string, skip, limit int) ([]*models.SavedContent, error) {
	return s.savedRepo.ListByUser(userID, skip, limit)
}

// snapshot loads the content and captures its current state as a plain map.
// Hidden items may still be saved: they remain addressable by ID.
func (s *savedContentService) snapshot(userID, contentType, contentID string) (map[string]interface{}, error) {
	var content interface{}
	switch contentType {
	case models.ContentTypeDream:
		dream, err := s.dreamRepo.GetByID(contentID)
		if err != nil {
			return nil, err
		}
		if dream == nil {
			return nil, apperrors.NewNotFound("Dream")
		}
		if dream.UserID != userID && !dream.IsPublic {
			return nil, apperrors.NewAccessDenied("this dream is private")
		}
		content = dream
	case models.ContentTypeMoment:
		moment, err := s.momentRepo.GetByID(contentID)
		if err != nil {
			return nil, err
		}
		if moment == nil {
			return nil, apperrors.NewNotFound("Moment")
		}
		content = moment
	case models.ContentTypeResonance:
		resonance, err := s.resonanceRepo.GetByID(contentID)
		if err != nil {
			return nil, err
		}
		if resonance == nil {
			return nil, apperrors.NewNotFound("Resonance")
		}
		if resonance.UserID != userID {
			return nil, apperrors.NewAccessDenied("")
		}
		content = resonance
	default:
		return nil, apperrors.NewContentRejected("content_type must be 'dream', 'moment' or 'resonance'", nil)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s %s: %w", contentType, contentID, err)
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to snapshot %s %s: %w", contentType, contentID, err)
	}
	return snapshot, nil
}
