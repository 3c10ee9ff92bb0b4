package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jetmil/dreamcapture/models"
)

// Shared repository and service mocks for the service tests.

type MockDreamRepository struct {
	mock.Mock
}

func (m *MockDreamRepository) Create(dream *models.Dream) error {
	args := m.Called(dream)
	return args.Error(0)
}

func (m *MockDreamRepository) GetByID(dreamID string) (*models.Dream, error) {
	args := m.Called(dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dream), args.Error(1)
}

func (m *MockDreamRepository) ListPublic(now time.Time, skip, limit int) ([]*models.Dream, error) {
	args := m.Called(now, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Dream), args.Error(1)
}

func (m *MockDreamRepository) ListByUser(userID string, now time.Time, skip, limit int) ([]*models.Dream, error) {
	args := m.Called(userID, now, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Dream), args.Error(1)
}

func (m *MockDreamRepository) CountCreatedSince(userID string, since time.Time) (int64, error) {
	args := m.Called(userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDreamRepository) UpdateEnrichment(dreamID string, analysis *models.DreamAnalysis, tags []string, imageURL string) error {
	args := m.Called(dreamID, analysis, tags, imageURL)
	return args.Error(0)
}

func (m *MockDreamRepository) IncrementViewCount(dreamID string) error {
	args := m.Called(dreamID)
	return args.Error(0)
}

func (m *MockDreamRepository) HideExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDreamRepository) Delete(dreamID string) error {
	args := m.Called(dreamID)
	return args.Error(0)
}

type MockMomentRepository struct {
	mock.Mock
}

func (m *MockMomentRepository) Create(moment *models.Moment) error {
	args := m.Called(moment)
	return args.Error(0)
}

func (m *MockMomentRepository) GetByID(momentID string) (*models.Moment, error) {
	args := m.Called(momentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Moment), args.Error(1)
}

func (m *MockMomentRepository) ListVisible(now time.Time, skip, limit int) ([]*models.Moment, error) {
	args := m.Called(now, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Moment), args.Error(1)
}

func (m *MockMomentRepository) CountCreatedSince(userID string, since time.Time) (int64, error) {
	args := m.Called(userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMomentRepository) UpdateTags(momentID string, tags []string) error {
	args := m.Called(momentID, tags)
	return args.Error(0)
}

func (m *MockMomentRepository) IncrementViewCount(momentID string) error {
	args := m.Called(momentID)
	return args.Error(0)
}

func (m *MockMomentRepository) HideExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type MockResonanceRepository struct {
	mock.Mock
}

func (m *MockResonanceRepository) Create(resonance *models.Resonance) error {
	args := m.Called(resonance)
	return args.Error(0)
}

func (m *MockResonanceRepository) GetByID(resonanceID string) (*models.Resonance, error) {
	args := m.Called(resonanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resonance), args.Error(1)
}

func (m *MockResonanceRepository) ListByUser(userID string, skip, limit int) ([]*models.Resonance, error) {
	args := m.Called(userID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resonance), args.Error(1)
}

func (m *MockResonanceRepository) SetSaved(resonanceID string, saved bool) error {
	args := m.Called(resonanceID, saved)
	return args.Error(0)
}

type MockSavedContentRepository struct {
	mock.Mock
}

func (m *MockSavedContentRepository) Create(saved *models.SavedContent) error {
	args := m.Called(saved)
	return args.Error(0)
}

func (m *MockSavedContentRepository) ListByUser(userID string, skip, limit int) ([]*models.SavedContent, error) {
	args := m.Called(userID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SavedContent), args.Error(1)
}

func (m *MockSavedContentRepository) CountSavedSince(userID string, since time.Time) (int64, error) {
	args := m.Called(userID, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) AnalyzeDream(ctx context.Context, description string) *models.DreamAnalysis {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.DreamAnalysis)
}

func (m *MockAIService) AnalyzeMoment(ctx context.Context, caption, mediaType string) []string {
	args := m.Called(ctx, caption, mediaType)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockAIService) GenerateImage(ctx context.Context, visualPrompt, dreamTitle string) string {
	args := m.Called(ctx, visualPrompt, dreamTitle)
	return args.String(0)
}

func (m *MockAIService) RefineResonance(ctx context.Context, analysis *models.DreamAnalysis, momentTags []string, momentCaption string) (*ResonanceResult, error) {
	args := m.Called(ctx, analysis, momentTags, momentCaption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResonanceResult), args.Error(1)
}

func (m *MockAIService) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockQuotaService struct {
	mock.Mock
}

func (m *MockQuotaService) AdmitDream(userID string, now time.Time) error {
	args := m.Called(userID, now)
	return args.Error(0)
}

func (m *MockQuotaService) AdmitMoment(userID string, now time.Time) error {
	args := m.Called(userID, now)
	return args.Error(0)
}

type MockEnrichmentService struct {
	mock.Mock
}

func (m *MockEnrichmentService) EnqueueDream(dreamID, description, title string) {
	m.Called(dreamID, description, title)
}

func (m *MockEnrichmentService) EnqueueMoment(momentID, caption, mediaType string) {
	m.Called(momentID, caption, mediaType)
}

func (m *MockEnrichmentService) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockEnrichmentService) Stop() {
	m.Called()
}

// mockPublisher records every publish in order.
type mockPublisher struct {
	published []string
}

func (p *mockPublisher) Publish(channel, payload string) {
	p.published = append(p.published, channel+"|"+payload)
}
