package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDreamTTLDays(t *testing.T) {
	t.Run("accepts the offered tiers", func(t *testing.T) {
		assert.Equal(t, 1, NormalizeDreamTTLDays(1))
		assert.Equal(t, 7, NormalizeDreamTTLDays(7))
		assert.Equal(t, 30, NormalizeDreamTTLDays(30))
	})

	t.Run("coerces anything else to one day", func(t *testing.T) {
		assert.Equal(t, 1, NormalizeDreamTTLDays(0))
		assert.Equal(t, 1, NormalizeDreamTTLDays(-5))
		assert.Equal(t, 1, NormalizeDreamTTLDays(12))
		assert.Equal(t, 1, NormalizeDreamTTLDays(365))
	})
}

func TestExpiry(t *testing.T) {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("dream expiry is created-at plus the tier", func(t *testing.T) {
		assert.Equal(t, created.Add(7*24*time.Hour), DreamExpiry(created, 7))
	})

	t.Run("moment expiry is created-at plus the configured seconds", func(t *testing.T) {
		assert.Equal(t, created.Add(60*time.Second), MomentExpiry(created, 60))
	})

	t.Run("zero TTL yields an already-expired moment", func(t *testing.T) {
		moment := Moment{ExpiresAt: MomentExpiry(created, 0)}
		assert.True(t, moment.Expired(created))
	})
}

func TestExpiredBoundary(t *testing.T) {
	expiry := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	dream := Dream{ExpiresAt: expiry}

	assert.False(t, dream.Expired(expiry.Add(-time.Nanosecond)))
	assert.True(t, dream.Expired(expiry))
	assert.True(t, dream.Expired(expiry.Add(time.Nanosecond)))
}

func TestStartOfUTCDay(t *testing.T) {
	t.Run("truncates to midnight UTC", func(t *testing.T) {
		in := time.Date(2026, 3, 14, 23, 59, 59, 999, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), StartOfUTCDay(in))
	})

	t.Run("converts other zones before truncating", func(t *testing.T) {
		// 01:30 on the 15th in UTC+2 is 23:30 on the 14th in UTC.
		zone := time.FixedZone("UTC+2", 2*3600)
		in := time.Date(2026, 3, 15, 1, 30, 0, 0, zone)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), StartOfUTCDay(in))
	})
}
