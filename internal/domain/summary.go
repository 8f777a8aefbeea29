package domain

import "time"

// SessionSummary is the pair of derived fields kept on a Client.
type SessionSummary struct {
	LastSession string
	NextSession string
}

// Summarize recomputes a client's session summary from the full set of that
// client's sessions, as of the given instant.
//
// Cancelled sessions are ignored. NextSession is the date of the earliest
// remaining session on or after the current calendar day; LastSession is the
// date of the latest remaining session strictly before it. A session dated
// today therefore counts as upcoming, never as past. When two sessions share
// a date, the one with the earlier time-of-day is the earlier of the two.
// Absence of either value is the corresponding sentinel constant.
//
// Pure and deterministic for a given input, so repeated calls with unchanged
// sessions yield an identical result.
func Summarize(sessions []Session, now time.Time) SessionSummary {
	summary := SessionSummary{
		LastSession: NoLastSession,
		NextSession: NoNextSession,
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		last, next         time.Time
		haveLast, haveNext bool
	)
	for i := range sessions {
		s := &sessions[i]
		if s.IsCancelled() {
			continue
		}
		at := s.StartsAt()
		if at.IsZero() {
			continue // unparseable date, cannot be ordered
		}
		if at.Before(startOfToday) {
			if !haveLast || at.After(last) {
				last = at
				haveLast = true
				summary.LastSession = s.Date
			}
		} else {
			if !haveNext || at.Before(next) {
				next = at
				haveNext = true
				summary.NextSession = s.Date
			}
		}
	}
	return summary
}
