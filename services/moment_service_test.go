package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/stream"
)

func newMomentServiceForTest(momentRepo *MockMomentRepository, quota *MockQuotaService, enrichment *MockEnrichmentService, publisher stream.Publisher, aiEnabled bool) MomentService {
	return NewMomentService(
		momentRepo,
		quota,
		passthroughModeration{},
		enrichment,
		publisher,
		config.StreamConfig{MomentTTLSeconds: 60},
		config.AIConfig{Enabled: aiEnabled},
	)
}

func TestMomentService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	input := MomentCreateInput{Caption: "golden hour", MediaType: models.MediaTypePhoto, MediaURL: "https://cdn.example.com/p1.jpg"}

	t.Run("creates with the configured TTL and publishes after the insert", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		mockQuota := new(MockQuotaService)
		mockEnrichment := new(MockEnrichmentService)
		publisher := &mockPublisher{}
		service := newMomentServiceForTest(mockMomentRepo, mockQuota, mockEnrichment, publisher, true)

		var persisted *models.Moment
		mockQuota.On("AdmitMoment", "user1", now).Return(nil)
		mockMomentRepo.On("Create", mock.MatchedBy(func(m *models.Moment) bool {
			persisted = m
			// The event must not have been published before the insert.
			return len(publisher.published) == 0 && m.ExpiresAt.Equal(now.Add(60*time.Second))
		})).Return(nil)
		mockEnrichment.On("EnqueueMoment", mock.Anything, "golden hour", models.MediaTypePhoto).Return()

		moment, err := service.Create(ctx, "user1", input, now)
		assert.NoError(t, err)
		assert.True(t, moment.IsVisible)

		assert.Len(t, publisher.published, 1)
		assert.Equal(t, stream.MomentsChannel+"|"+stream.NewMomentPayload(persisted.ID), publisher.published[0])
		mockMomentRepo.AssertExpectations(t)
		mockEnrichment.AssertExpectations(t)
	})

	t.Run("rejects an unknown media type before any other check", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		mockQuota := new(MockQuotaService)
		publisher := &mockPublisher{}
		service := newMomentServiceForTest(mockMomentRepo, mockQuota, new(MockEnrichmentService), publisher, true)

		bad := input
		bad.MediaType = "gif"
		_, err := service.Create(ctx, "user1", bad, now)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeContentRejected))
		mockQuota.AssertNotCalled(t, "AdmitMoment", mock.Anything, mock.Anything)
		mockMomentRepo.AssertNotCalled(t, "Create", mock.Anything)
		assert.Empty(t, publisher.published)
	})

	t.Run("quota denial publishes nothing", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		mockQuota := new(MockQuotaService)
		publisher := &mockPublisher{}
		service := newMomentServiceForTest(mockMomentRepo, mockQuota, new(MockEnrichmentService), publisher, true)

		mockQuota.On("AdmitMoment", "user1", now).Return(apperrors.NewRateLimited("Maximum 20 moments per hour", 20))

		_, err := service.Create(ctx, "user1", input, now)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimited))
		mockMomentRepo.AssertNotCalled(t, "Create", mock.Anything)
		assert.Empty(t, publisher.published)
	})

	t.Run("failed insert publishes nothing", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		mockQuota := new(MockQuotaService)
		publisher := &mockPublisher{}
		service := newMomentServiceForTest(mockMomentRepo, mockQuota, new(MockEnrichmentService), publisher, true)

		mockQuota.On("AdmitMoment", "user1", now).Return(nil)
		mockMomentRepo.On("Create", mock.Anything).Return(assert.AnError)

		_, err := service.Create(ctx, "user1", input, now)
		assert.Error(t, err)
		assert.Empty(t, publisher.published)
	})

	t.Run("captionless moment skips enrichment but still publishes", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		mockQuota := new(MockQuotaService)
		mockEnrichment := new(MockEnrichmentService)
		publisher := &mockPublisher{}
		service := newMomentServiceForTest(mockMomentRepo, mockQuota, mockEnrichment, publisher, true)

		mockQuota.On("AdmitMoment", "user1", now).Return(nil)
		mockMomentRepo.On("Create", mock.Anything).Return(nil)

		captionless := input
		captionless.Caption = ""
		_, err := service.Create(ctx, "user1", captionless, now)
		assert.NoError(t, err)
		assert.Len(t, publisher.published, 1)
		mockEnrichment.AssertNotCalled(t, "EnqueueMoment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMomentService_Get(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	newService := func(mockMomentRepo *MockMomentRepository) MomentService {
		return newMomentServiceForTest(mockMomentRepo, new(MockQuotaService), new(MockEnrichmentService), &mockPublisher{}, false)
	}

	t.Run("live moment is readable and counts the view", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		service := newService(mockMomentRepo)

		mockMomentRepo.On("GetByID", "m1").Return(&models.Moment{ID: "m1", ExpiresAt: now.Add(30 * time.Second)}, nil)
		mockMomentRepo.On("IncrementViewCount", "m1").Return(nil)

		moment, err := service.Get("m1", now)
		assert.NoError(t, err)
		assert.Equal(t, 1, moment.ViewCount)
	})

	t.Run("expired moment yields Expired", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		service := newService(mockMomentRepo)

		mockMomentRepo.On("GetByID", "m1").Return(&models.Moment{ID: "m1", ExpiresAt: now.Add(-time.Second)}, nil)

		_, err := service.Get("m1", now)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExpired))
	})

	t.Run("unknown ID yields NotFound", func(t *testing.T) {
		mockMomentRepo := new(MockMomentRepository)
		service := newService(mockMomentRepo)

		mockMomentRepo.On("GetByID", "missing").Return(nil, nil)

		_, err := service.Get("missing", now)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}
