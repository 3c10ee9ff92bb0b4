package services

import (
	"fmt"
	"log"
	"time"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
)

// QuotaService enforces publish-rate quotas per owner. Dream quota counts
// against the fixed UTC calendar day; moment quota against a trailing
// 60-minute window evaluated at request time. Both are abuse deterrents:
// requests racing the boundary may both pass, which is acceptable, but the
// caller re-checks as close to the insert as practical.
type QuotaService interface {
	AdmitDream(userID string, now time.Time) error
	AdmitMoment(userID string, now time.Time) error
}

type quotaService struct {
	dreamRepo  repository.DreamRepository
	momentRepo repository.MomentRepository
	cfg        config.StreamConfig
}

// NewQuotaService creates a new instance of QuotaService.
func NewQuotaService(dreamRepo repository.DreamRepository, momentRepo repository.MomentRepository, cfg config.StreamConfig) QuotaService {
	return &quotaService{
		dreamRepo:  dreamRepo,
		momentRepo: momentRepo,
		cfg:        cfg,
	}
}

// AdmitDream allows at most MaxDreamsPerDay creations per owner per UTC
// calendar day. Denial carries the configured limit.
func (s *quotaService) AdmitDream(userID string, now time.Time) error {
	dayStart := models.StartOfUTCDay(now)
	count, err := s.dreamRepo.CountCreatedSince(userID, dayStart)
	if err != nil {
		return fmt.Errorf("failed to evaluate dream quota for userID %s: %w", userID, err)
	}
	if count >= int64(s.cfg.MaxDreamsPerDay) {
		log.Printf("INFO: [QuotaService] Dream quota exceeded for userID %s (%d/%d today).", userID, count, s.cfg.MaxDreamsPerDay)
		return apperrors.NewRateLimited(
			fmt.Sprintf("Maximum %d dreams per day", s.cfg.MaxDreamsPerDay),
			s.cfg.MaxDreamsPerDay,
		)
	}
	return nil
}

// AdmitMoment allows at most MaxMomentsPerHour creations per owner within the
// trailing 60-minute window. Denial carries the configured limit.
func (s *quotaService) AdmitMoment(userID string, now time.Time) error {
	hourAgo := now.Add(-time.Hour)
	count, err := s.momentRepo.CountCreatedSince(userID, hourAgo)
	if err != nil {
		return fmt.Errorf("failed to evaluate moment quota for userID %s: %w", userID, err)
	}
	if count >= int64(s.cfg.MaxMomentsPerHour) {
		log.Printf("INFO: [QuotaService] Moment quota exceeded for userID %s (%d/%d in the last hour).", userID, count, s.cfg.MaxMomentsPerHour)
		return apperrors.NewRateLimited(
			fmt.Sprintf("Maximum %d moments per hour", s.cfg.MaxMomentsPerHour),
			s.cfg.MaxMomentsPerHour,
		)
	}
	return nil
}
