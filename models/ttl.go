package models

import "time"

// Retention tiers a user may pick for a dream, in days.
var DreamTTLDayOptions = []int{1, 7, 30}

// NormalizeDreamTTLDays coerces an out-of-range retention choice to the
// default 1-day tier instead of rejecting the request.
func NormalizeDreamTTLDays(days int) int {
	for _, opt := range DreamTTLDayOptions {
		if days == opt {
			return days
		}
	}
	return 1
}

// DreamExpiry computes the expiry instant for a dream created at the given
// time. The result is immutable once stored on the row.
func DreamExpiry(createdAt time.Time, ttlDays int) time.Time {
	return createdAt.Add(time.Duration(ttlDays) * 24 * time.Hour)
}

// MomentExpiry computes the expiry instant for a moment created at the given
// time. A zero or negative TTL yields an already-expired item, which is valid:
// the next sweep hides it.
func MomentExpiry(createdAt time.Time, ttlSeconds int) time.Time {
	return createdAt.Add(time.Duration(ttlSeconds) * time.Second)
}

// StartOfUTCDay returns the fixed UTC calendar-day boundary used by the dream
// quota window.
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
