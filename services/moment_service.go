package services

import (
	"context"
	"time"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
	"github.com/jetmil/dreamcapture/stream"
)

// MomentCreateInput carries the fields a user supplies when posting a moment.
type MomentCreateInput struct {
	Caption   string
	MediaType string
	MediaURL  string
	Location  *models.Location
}

// MomentService orchestrates the moment lifecycle. On creation the event is
// published to the moments channel only after the insert commits, so
// delivery can never precede durability; enrichment is enqueued afterwards
// and never blocks the caller.
type MomentService interface {
	Create(ctx context.Context, userID string, input MomentCreateInput, now time.Time) (*models.Moment, error)
	List(now time.Time, skip, limit int) ([]*models.Moment, error)
	Get(momentID string, now time.Time) (*models.Moment, error)
}

type momentService struct {
	momentRepo repository.MomentRepository
	quota      QuotaService
	moderation ModerationService
	enrichment EnrichmentService
	publisher  stream.Publisher
	ttlSeconds int
	aiEnabled  bool
}

// NewMomentService creates a new instance of MomentService.
func NewMomentService(
	momentRepo repository.MomentRepository,
	quota QuotaService,
	moderation ModerationService,
	enrichment EnrichmentService,
	publisher stream.Publisher,
	streamCfg config.StreamConfig,
	aiCfg config.AIConfig,
) MomentService {
	return &momentService{
		momentRepo: momentRepo,
		quota:      quota,
		moderation: moderation,
		enrichment: enrichment,
		publisher:  publisher,
		ttlSeconds: streamCfg.MomentTTLSeconds,
		aiEnabled:  aiCfg.Enabled,
	}
}

// Create runs the synchronous creation path: moderation and quota checks
// surface their errors before any persistence, then the row is written and
// the new-moment event published.
func (s *momentService) Create(ctx context.Context, userID string, input MomentCreateInput, now time.Time) (*models.Moment, error) {
	if input.MediaType != models.MediaTypePhoto && input.MediaType != models.MediaTypeVideo {
		return nil, apperrors.NewContentRejected("media_type must be 'photo' or 'video'", nil)
	}

	if input.Caption != "" {
		if result := s.moderation.CheckText(ctx, input.Caption); result.Flagged {
			return nil, s.moderation.ViolationError(result)
		}
	}

	if err := s.quota.AdmitMoment(userID, now); err != nil {
		return nil, err
	}

	moment := &models.Moment{
		UserID:    userID,
		Caption:   input.Caption,
		MediaType: input.MediaType,
		MediaURL:  input.MediaURL,
		Location:  input.Location,
		IsVisible: true,
		CreatedAt: now,
		ExpiresAt: models.MomentExpiry(now, s.ttlSeconds),
	}
	if err := s.momentRepo.Create(moment); err != nil {
		return nil, err
	}

	// Publish strictly after the insert: the moment is durable and
	// queryable before any subscriber can hear about it.
	s.publisher.Publish(stream.MomentsChannel, stream.NewMomentPayload(moment.ID))

	if s.aiEnabled && moment.Caption != "" {
		s.enrichment.EnqueueMoment(moment.ID, moment.Caption, moment.MediaType)
	}
	return moment, nil
}

// List returns the live feed of visible, unexpired moments.
func (s *momentService) List(now time.Time, skip, limit int) ([]*models.Moment, error) {
	return s.momentRepo.ListVisible(now, skip, limit)
}

// Get returns one moment by ID, distinguishing Expired from NotFound. A
// successful read bumps the view counter.
func (s *momentService) Get(momentID string, now time.Time) (*models.Moment, error) {
	moment, err := s.momentRepo.GetByID(momentID)
	if err != nil {
		return nil, err
	}
	if moment == nil {
		return nil, apperrors.NewNotFound("Moment")
	}
	if moment.Expired(now) {
		return nil, apperrors.NewExpired("Moment")
	}
	if err := s.momentRepo.IncrementViewCount(momentID); err != nil {
		return nil, err
	}
	moment.ViewCount++
	return moment, nil
}
