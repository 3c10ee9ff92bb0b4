package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
)

// ResonanceService scores dream/moment affinity and manages resonance rows.
//
// Scoring is two-tier: a cheap deterministic tag-overlap base score first,
// then an LLM refinement only when the base clears the threshold and a
// caption exists. Refinement is a pure override; on any failure the base
// tuple stands unchanged.
type ResonanceService interface {
	Score(ctx context.Context, dream *models.Dream, moment *models.Moment) ResonanceResult
	Create(ctx context.Context, userID, dreamID, momentID string, now time.Time) (*models.Resonance, error)
	ListForUser(userID string, skip, limit int) ([]*models.Resonance, error)
	SetSaved(userID, resonanceID string, saved bool) (*models.Resonance, error)
}

type resonanceService struct {
	resonanceRepo repository.ResonanceRepository
	dreamRepo     repository.DreamRepository
	momentRepo    repository.MomentRepository
	aiService     AIService
	threshold     int
}

// NewResonanceService creates a new instance of ResonanceService.
func NewResonanceService(
	resonanceRepo repository.ResonanceRepository,
	dreamRepo repository.DreamRepository,
	momentRepo repository.MomentRepository,
	aiService AIService,
	cfg config.StreamConfig,
) ResonanceService {
	return &resonanceService{
		resonanceRepo: resonanceRepo,
		dreamRepo:     dreamRepo,
		momentRepo:    momentRepo,
		aiService:     aiService,
		threshold:     cfg.ResonanceThreshold,
	}
}

// Score computes the affinity tuple for one dream/moment pair.
func (s *resonanceService) Score(ctx context.Context, dream *models.Dream, moment *models.Moment) ResonanceResult {
	dreamTags := s.dreamTags(dream)
	momentTags := s.momentTags(moment)

	common := intersect(dreamTags, momentTags)
	base := 20 * len(common)
	if base > 100 {
		base = 100
	}

	// The expensive refinement call is gated by the cheap prefilter so the
	// common low-affinity case never pays for it.
	if base > s.threshold && moment.Caption != "" && s.aiService.Available() {
		analysis := dream.AIAnalysis
		if analysis == nil {
			analysis = &models.DreamAnalysis{Tags: dreamTags}
		}
		refined, err := s.aiService.RefineResonance(ctx, analysis, momentTags, moment.Caption)
		if err == nil && refined != nil {
			log.Printf("INFO: [ResonanceService] Refinement replaced base score %d with %d for dream %s / moment %s.", base, refined.Score, dream.ID, moment.ID)
			return *refined
		}
		log.Printf("WARN: [ResonanceService] Refinement failed for dream %s / moment %s, keeping base tuple: %v", dream.ID, moment.ID, err)
	}

	explanation := "Subtle connection"
	if len(common) > 0 {
		explanation = "Shared elements: " + strings.Join(common, ", ")
	}
	return ResonanceResult{Score: base, Explanation: explanation}
}

// Create scores and persists a resonance between a dream and a moment owned
// by the requesting user. Both items must belong to that user and be
// unexpired at creation time.
func (s *resonanceService) Create(ctx context.Context, userID, dreamID, momentID string, now time.Time) (*models.Resonance, error) {
	dream, err := s.dreamRepo.GetByID(dreamID)
	if err != nil {
		return nil, err
	}
	if dream == nil {
		return nil, apperrors.NewNotFound("Dream")
	}
	moment, err := s.momentRepo.GetByID(momentID)
	if err != nil {
		return nil, err
	}
	if moment == nil {
		return nil, apperrors.NewNotFound("Moment")
	}

	if dream.UserID != userID || moment.UserID != userID {
		return nil, apperrors.NewAccessDenied("resonance requires both items to belong to you")
	}
	if dream.Expired(now) {
		return nil, apperrors.NewExpired("Dream")
	}
	if moment.Expired(now) {
		return nil, apperrors.NewExpired("Moment")
	}

	result := s.Score(ctx, dream, moment)

	resonance := &models.Resonance{
		UserID:               userID,
		DreamID:              dreamID,
		MomentID:             momentID,
		ResonanceScore:       result.Score,
		ResonanceExplanation: result.Explanation,
		CreatedAt:            now,
	}
	if err := s.resonanceRepo.Create(resonance); err != nil {
		return nil, err
	}
	return resonance, nil
}

// ListForUser returns the owner's resonances, newest first.
func (s *resonanceService) ListForUser(userID string, skip, limit int) ([]*models.Resonance, error) {
	return s.resonanceRepo.ListByUser(userID, skip, limit)
}

// SetSaved toggles the premium retention flag. A saved resonance stays
// queryable after its source items expire, because the stored score and
// explanation are a snapshot, not a live reference.
func (s *resonanceService) SetSaved(userID, resonanceID string, saved bool) (*models.Resonance, error) {
	resonance, err := s.resonanceRepo.GetByID(resonanceID)
	if err != nil {
		return nil, err
	}
	if resonance == nil {
		return nil, apperrors.NewNotFound("Resonance")
	}
	if resonance.UserID != userID {
		return nil, apperrors.NewAccessDenied("")
	}
	if err := s.resonanceRepo.SetSaved(resonanceID, saved); err != nil {
		return nil, fmt.Errorf("failed to update saved flag: %w", err)
	}
	resonance.IsSaved = saved
	return resonance, nil
}

// dreamTags returns the dream's enrichment tags, or the deterministic
// fallback extraction when enrichment has not run yet.
func (s *resonanceService) dreamTags(dream *models.Dream) []string {
	if len(dream.AITags) > 0 {
		return dream.AITags
	}
	return extractKeywords(dream.Description, 4, 5)
}

// momentTags returns the moment's enrichment tags, or the same deterministic
// extraction the enrichment worker would produce.
func (s *resonanceService) momentTags(moment *models.Moment) []string {
	if len(moment.AITags) > 0 {
		return moment.AITags
	}
	return s.aiService.AnalyzeMoment(context.Background(), moment.Caption, moment.MediaType)
}

// intersect returns the case-sensitive set intersection, preserving the
// order of the first list.
func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, tag := range b {
		set[tag] = true
	}
	var common []string
	seen := make(map[string]bool, len(a))
	for _, tag := range a {
		if set[tag] && !seen[tag] {
			common = append(common, tag)
			seen[tag] = true
		}
	}
	return common
}
