package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jetmil/dreamcapture/models"
)

func newDream(userID string, createdAt time.Time, ttlDays int, public bool) *models.Dream {
	return &models.Dream{
		UserID:      userID,
		Title:       "Test dream",
		Description: "flying over water",
		TTLDays:     ttlDays,
		IsPublic:    public,
		IsVisible:   true,
		CreatedAt:   createdAt,
		ExpiresAt:   models.DreamExpiry(createdAt, ttlDays),
	}
}

func TestDreamRepository_CreateAndGet(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	dream := newDream("user1", now, 7, true)
	assert.NoError(t, repo.Create(dream))
	assert.NotEmpty(t, dream.ID, "ID should be assigned on create")

	loaded, err := repo.GetByID(dream.ID)
	assert.NoError(t, err)
	assert.Equal(t, "flying over water", loaded.Description)
	assert.Equal(t, 7, loaded.TTLDays)

	missing, err := repo.GetByID("does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDreamRepository_ListPublic(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	visible := newDream("user1", now.Add(-time.Hour), 7, true)
	private := newDream("user1", now.Add(-2*time.Hour), 7, false)
	expired := newDream("user1", now.Add(-48*time.Hour), 1, true)
	assert.NoError(t, repo.Create(visible))
	assert.NoError(t, repo.Create(private))
	assert.NoError(t, repo.Create(expired))

	dreams, err := repo.ListPublic(now, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, dreams, 1)
	assert.Equal(t, visible.ID, dreams[0].ID)
}

func TestDreamRepository_ListByUserIncludesPrivate(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	mine := newDream("user1", now.Add(-time.Hour), 7, false)
	theirs := newDream("user2", now.Add(-time.Hour), 7, true)
	assert.NoError(t, repo.Create(mine))
	assert.NoError(t, repo.Create(theirs))

	dreams, err := repo.ListByUser("user1", now, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, dreams, 1)
	assert.Equal(t, mine.ID, dreams[0].ID)
}

func TestDreamRepository_CountCreatedSince(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	dayStart := models.StartOfUTCDay(now)

	assert.NoError(t, repo.Create(newDream("user1", now.Add(-time.Hour), 7, true)))
	assert.NoError(t, repo.Create(newDream("user1", now.Add(-2*time.Hour), 7, true)))
	assert.NoError(t, repo.Create(newDream("user1", dayStart.Add(-time.Minute), 7, true))) // yesterday
	assert.NoError(t, repo.Create(newDream("user2", now.Add(-time.Hour), 7, true)))        // someone else

	count, err := repo.CountCreatedSince("user1", dayStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDreamRepository_UpdateEnrichment(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	dream := newDream("user1", now, 7, true)
	assert.NoError(t, repo.Create(dream))

	analysis := &models.DreamAnalysis{
		Themes: []string{"journey"},
		Tags:   []string{"flying", "water"},
	}
	assert.NoError(t, repo.UpdateEnrichment(dream.ID, analysis, analysis.Tags, "/uploads/dreams/x.png"))

	loaded, err := repo.GetByID(dream.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"flying", "water"}, loaded.AITags)
	assert.Equal(t, "/uploads/dreams/x.png", loaded.GeneratedImageURL)
	assert.Equal(t, []string{"journey"}, loaded.AIAnalysis.Themes)
}

func TestDreamRepository_IncrementViewCount(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	dream := newDream("user1", now, 7, true)
	assert.NoError(t, repo.Create(dream))

	assert.NoError(t, repo.IncrementViewCount(dream.ID))
	assert.NoError(t, repo.IncrementViewCount(dream.ID))

	loaded, _ := repo.GetByID(dream.ID)
	assert.Equal(t, 2, loaded.ViewCount)
}

func TestDreamRepository_HideExpired(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	expired := newDream("user1", now.Add(-48*time.Hour), 1, true)
	live := newDream("user1", now.Add(-time.Hour), 7, true)
	assert.NoError(t, repo.Create(expired))
	assert.NoError(t, repo.Create(live))

	hidden, err := repo.HideExpired(now)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), hidden)

	loadedExpired, _ := repo.GetByID(expired.ID)
	assert.False(t, loadedExpired.IsVisible)
	loadedLive, _ := repo.GetByID(live.ID)
	assert.True(t, loadedLive.IsVisible)

	// The sweep is idempotent: a second pass over the same rows hides nothing.
	hidden, err = repo.HideExpired(now)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), hidden)
}

func TestDreamRepository_Delete(t *testing.T) {
	repo := NewDreamRepository(newTestDB(t))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	dream := newDream("user1", now, 7, true)
	assert.NoError(t, repo.Create(dream))
	assert.NoError(t, repo.Delete(dream.ID))

	loaded, err := repo.GetByID(dream.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
