package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
)

// disabledAIService builds the service with the capability absent, the
// configuration every fallback path runs under.
func disabledAIService() AIService {
	return NewAIService(config.AIConfig{Enabled: false})
}

func TestAIService_AnalyzeDream_Fallback(t *testing.T) {
	ctx := context.Background()
	service := disabledAIService()

	t.Run("extracts tags from the description", func(t *testing.T) {
		analysis := service.AnalyzeDream(ctx, "Flying above silver mountains under strange stars")
		assert.Equal(t, []string{"flying", "above", "silver", "mountains", "under"}, analysis.Tags)
		assert.Equal(t, []string{"flying", "above", "silver"}, analysis.Symbols)
		assert.Equal(t, []string{"journey", "transformation"}, analysis.Themes)
		assert.Equal(t, []string{"curiosity", "wonder"}, analysis.Emotions)
	})

	t.Run("short words fall through to defaults", func(t *testing.T) {
		analysis := service.AnalyzeDream(ctx, "a fog at sea")
		assert.Equal(t, []string{"dream", "sleep", "night"}, analysis.Tags)
		assert.Equal(t, []string{"dream", "night", "mystery"}, analysis.Symbols)
	})

	t.Run("long narrative is truncated with an ellipsis", func(t *testing.T) {
		long := strings.Repeat("wandering ", 30)
		analysis := service.AnalyzeDream(ctx, long)
		assert.Len(t, analysis.Narrative, 103)
		assert.True(t, strings.HasSuffix(analysis.Narrative, "..."))
		assert.Len(t, analysis.VisualPrompt, 200)
	})

	t.Run("same input yields the same analysis", func(t *testing.T) {
		a := service.AnalyzeDream(ctx, "Falling through endless violet clouds")
		b := service.AnalyzeDream(ctx, "Falling through endless violet clouds")
		assert.Equal(t, a, b)
	})
}

func TestAIService_AnalyzeMoment(t *testing.T) {
	ctx := context.Background()
	service := disabledAIService()

	t.Run("caption keywords plus media type and marker", func(t *testing.T) {
		tags := service.AnalyzeMoment(ctx, "Golden light over the harbor", models.MediaTypePhoto)
		assert.Equal(t, []string{"golden", "light", "over", "harbor", "photo", "moment"}, tags)
	})

	t.Run("empty caption yields the fixed triple", func(t *testing.T) {
		tags := service.AnalyzeMoment(ctx, "", models.MediaTypeVideo)
		assert.Equal(t, []string{"video", "moment", "now"}, tags)
	})

	t.Run("at most five caption keywords", func(t *testing.T) {
		tags := service.AnalyzeMoment(ctx, "lanterns floating slowly above quiet water tonight", models.MediaTypePhoto)
		assert.Len(t, tags, 7) // five keywords + media type + marker
	})
}

func TestAIService_DegradedOperations(t *testing.T) {
	ctx := context.Background()
	service := disabledAIService()

	t.Run("not available", func(t *testing.T) {
		assert.False(t, service.Available())
	})

	t.Run("image generation returns empty", func(t *testing.T) {
		assert.Equal(t, "", service.GenerateImage(ctx, "anything", "title"))
	})

	t.Run("refinement reports the capability as unavailable", func(t *testing.T) {
		_, err := service.RefineResonance(ctx, &models.DreamAnalysis{}, []string{"ocean"}, "waves")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeEnrichmentUnavailable))
	})
}

func TestExtractKeywords(t *testing.T) {
	t.Run("lowercases and filters by length", func(t *testing.T) {
		assert.Equal(t, []string{"running", "through", "midnight"},
			extractKeywords("Running fast through the Midnight", 4, 5))
	})

	t.Run("stops at the cap", func(t *testing.T) {
		keywords := extractKeywords("alpha bravo charlie delta echoes foxtrot", 4, 3)
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, keywords)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, extractKeywords("", 4, 5))
	})
}
