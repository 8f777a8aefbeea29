package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Fixed "now" for summary tests: midday on 2024-07-25.
var summaryNow = time.Date(2024, 7, 25, 12, 0, 0, 0, time.UTC)

func mkSession(date, timeOfDay string, status SessionStatus) Session {
	return Session{Date: date, TimeOfDay: timeOfDay, Status: status}
}

func TestSummarize_NextAndLastSelection(t *testing.T) {
	sessions := []Session{
		mkSession("2024-07-10", "10:00", StatusCompleted),
		mkSession("2024-08-01", "14:00", StatusScheduled),
		// Cancelled and closer to now than 07-10, must still be excluded.
		mkSession("2024-07-20", "10:00", StatusCancelled),
	}

	summary := Summarize(sessions, summaryNow)

	assert.Equal(t, "2024-07-10", summary.LastSession)
	assert.Equal(t, "2024-08-01", summary.NextSession)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, summaryNow)

	assert.Equal(t, NoLastSession, summary.LastSession)
	assert.Equal(t, NoNextSession, summary.NextSession)
}

func TestSummarize_AllCancelled(t *testing.T) {
	sessions := []Session{
		mkSession("2024-07-10", "10:00", StatusCancelled),
		mkSession("2024-08-01", "14:00", StatusCancelled),
	}

	summary := Summarize(sessions, summaryNow)

	assert.Equal(t, NoLastSession, summary.LastSession)
	assert.Equal(t, NoNextSession, summary.NextSession)
}

func TestSummarize_TodayCountsAsUpcoming(t *testing.T) {
	sessions := []Session{
		mkSession("2024-07-25", "09:00", StatusScheduled),
	}

	// 09:00 today is already past midday "now", but a session dated today is
	// still upcoming, never the last session.
	summary := Summarize(sessions, summaryNow)

	assert.Equal(t, "2024-07-25", summary.NextSession)
	assert.Equal(t, NoLastSession, summary.LastSession)
}

func TestSummarize_SameDateTieBreaksByTimeOfDay(t *testing.T) {
	sessions := []Session{
		mkSession("2024-08-01", "15:00", StatusScheduled),
		mkSession("2024-08-01", "09:00", StatusScheduled),
		mkSession("2024-08-02", "08:00", StatusScheduled),
	}

	summary := Summarize(sessions, summaryNow)

	// The earliest upcoming session is 08-01 09:00; both 08-01 entries share a
	// date so the result is the same date either way, chosen via the earlier
	// time-of-day.
	assert.Equal(t, "2024-08-01", summary.NextSession)
}

func TestSummarize_LatestPastWins(t *testing.T) {
	sessions := []Session{
		mkSession("2024-06-01", "10:00", StatusCompleted),
		mkSession("2024-07-20", "10:00", StatusCompleted),
		mkSession("2024-07-01", "10:00", StatusCompleted),
	}

	summary := Summarize(sessions, summaryNow)

	assert.Equal(t, "2024-07-20", summary.LastSession)
	assert.Equal(t, NoNextSession, summary.NextSession)
}

func TestSummarize_Idempotent(t *testing.T) {
	sessions := []Session{
		mkSession("2024-07-10", "10:00", StatusCompleted),
		mkSession("2024-08-01", "14:00", StatusScheduled),
	}

	first := Summarize(sessions, summaryNow)
	second := Summarize(sessions, summaryNow)

	assert.Equal(t, first, second)
}

func TestSession_StartsAt(t *testing.T) {
	s := Session{Date: "2024-08-01", TimeOfDay: "14:30"}
	assert.Equal(t, time.Date(2024, 8, 1, 14, 30, 0, 0, time.UTC), s.StartsAt())

	// Missing time-of-day sorts to midnight.
	dateOnly := Session{Date: "2024-08-01"}
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), dateOnly.StartsAt())

	// Unparseable date yields the zero time.
	bad := Session{Date: "not-a-date"}
	assert.True(t, bad.StartsAt().IsZero())
}
