package services

import (
	"context"
	"strings"
	"time"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
)

// DreamCreateInput carries the fields a user supplies when recording a dream.
type DreamCreateInput struct {
	Title       string
	Description string
	AudioURL    string
	IsPublic    bool
	TTLDays     int
}

// DreamService orchestrates the dream lifecycle: moderated, quota-checked
// creation, feed listings, direct reads, and explicit deletion. Enrichment
// is enqueued after the row is durable and never blocks creation.
type DreamService interface {
	Create(ctx context.Context, userID string, input DreamCreateInput, now time.Time) (*models.Dream, error)
	ListPublic(now time.Time, skip, limit int) ([]*models.Dream, error)
	ListMine(userID string, now time.Time, skip, limit int) ([]*models.Dream, error)
	Get(dreamID, requesterID string, now time.Time) (*models.Dream, error)
	Delete(dreamID, userID string) error
}

type dreamService struct {
	dreamRepo  repository.DreamRepository
	quota      QuotaService
	moderation ModerationService
	enrichment EnrichmentService
	aiEnabled  bool
}

// NewDreamService creates a new instance of DreamService.
func NewDreamService(
	dreamRepo repository.DreamRepository,
	quota QuotaService,
	moderation ModerationService,
	enrichment EnrichmentService,
	cfg config.AIConfig,
) DreamService {
	return &dreamService{
		dreamRepo:  dreamRepo,
		quota:      quota,
		moderation: moderation,
		enrichment: enrichment,
		aiEnabled:  cfg.Enabled,
	}
}

// Create runs the synchronous creation path: moderation and quota checks
// surface their errors verbatim before any persistence; the row is written
// atomically; enrichment is only enqueued afterwards. A TTL already in the
// past is accepted — the item is simply sweep-eligible immediately.
func (s *dreamService) Create(ctx context.Context, userID string, input DreamCreateInput, now time.Time) (*models.Dream, error) {
	textToCheck := strings.TrimSpace(input.Title + " " + input.Description)
	if result := s.moderation.CheckText(ctx, textToCheck); result.Flagged {
		return nil, s.moderation.ViolationError(result)
	}

	// Re-checked here, as close to the insert as practical. Racing requests
	// from the same owner may still both pass; that overshoot is accepted.
	if err := s.quota.AdmitDream(userID, now); err != nil {
		return nil, err
	}

	ttlDays := models.NormalizeDreamTTLDays(input.TTLDays)
	dream := &models.Dream{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		AudioURL:    input.AudioURL,
		TTLDays:     ttlDays,
		IsPublic:    input.IsPublic,
		IsVisible:   true,
		CreatedAt:   now,
		ExpiresAt:   models.DreamExpiry(now, ttlDays),
	}
	if err := s.dreamRepo.Create(dream); err != nil {
		return nil, err
	}

	if s.aiEnabled {
		s.enrichment.EnqueueDream(dream.ID, dream.Description, dream.Title)
	}
	return dream, nil
}

// ListPublic returns the public feed of visible, unexpired dreams.
func (s *dreamService) ListPublic(now time.Time, skip, limit int) ([]*models.Dream, error) {
	return s.dreamRepo.ListPublic(now, skip, limit)
}

// ListMine returns the owner's unexpired dreams, private ones included.
func (s *dreamService) ListMine(userID string, now time.Time, skip, limit int) ([]*models.Dream, error) {
	return s.dreamRepo.ListByUser(userID, now, skip, limit)
}

// Get returns one dream by ID. Expired items yield Expired (not NotFound):
// the row still exists, it is just past retention. Private dreams are only
// readable by their owner. A successful read bumps the view counter.
func (s *dreamService) Get(dreamID, requesterID string, now time.Time) (*models.Dream, error) {
	dream, err := s.dreamRepo.GetByID(dreamID)
	if err != nil {
		return nil, err
	}
	if dream == nil {
		return nil, apperrors.NewNotFound("Dream")
	}
	if dream.Expired(now) {
		return nil, apperrors.NewExpired("Dream")
	}
	if !dream.IsPublic && dream.UserID != requesterID {
		return nil, apperrors.NewAccessDenied("this dream is private")
	}
	if err := s.dreamRepo.IncrementViewCount(dreamID); err != nil {
		return nil, err
	}
	dream.ViewCount++
	return dream, nil
}

// Delete removes a dream on explicit owner request. This is the only path
// that physically deletes content.
func (s *dreamService) Delete(dreamID, userID string) error {
	dream, err := s.dreamRepo.GetByID(dreamID)
	if err != nil {
		return err
	}
	if dream == nil {
		return apperrors.NewNotFound("Dream")
	}
	if dream.UserID != userID {
		return apperrors.NewAccessDenied("")
	}
	return s.dreamRepo.Delete(dreamID)
}
