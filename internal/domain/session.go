package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType enumerates the kinds of appointment the practice offers.
type SessionType string

const (
	TypeInPerson      SessionType = "In-Person"
	TypeOnline        SessionType = "Online"
	TypeTraining      SessionType = "Training"
	TypeOnlineCatchup SessionType = "Online Catchup"
	TypeGroup         SessionType = "Group"
	TypePhoneCall     SessionType = "Phone Call"
	TypeRMRLive       SessionType = "RMR Live"
	TypeCoaching      SessionType = "Coaching"
)

// SessionTypes lists every valid session type, in form-dropdown order.
var SessionTypes = []SessionType{
	TypeInPerson,
	TypeOnline,
	TypeTraining,
	TypeOnlineCatchup,
	TypeGroup,
	TypePhoneCall,
	TypeRMRLive,
	TypeCoaching,
}

// Valid reports whether t is one of the known session types.
func (t SessionType) Valid() bool {
	for _, known := range SessionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SessionStatus tracks a session's lifecycle.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "Scheduled"
	StatusCompleted SessionStatus = "Completed"
	StatusCancelled SessionStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// Wire formats for a session's calendar date and time-of-day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Session is a single scheduled or completed appointment belonging to exactly
// one Client.
type Session struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`

	// Snapshot of the owning client's display name and dog name taken at
	// creation time, kept for historical display. Deliberately NOT refreshed
	// when the client record changes later.
	ClientName string `bson:"clientName" json:"clientName"`
	DogName    string `bson:"dogName,omitempty" json:"dogName,omitempty"`

	Date        string        `bson:"date" json:"date"`           // "YYYY-MM-DD"
	TimeOfDay   string        `bson:"timeOfDay" json:"timeOfDay"` // "HH:MM", 24h
	SessionType SessionType   `bson:"sessionType" json:"sessionType"`
	Amount      *float64      `bson:"amount,omitempty" json:"amount,omitempty"`
	Status      SessionStatus `bson:"status" json:"status"`
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

// StartsAt combines Date and TimeOfDay into a single sortable timestamp.
// A missing or malformed time-of-day sorts to midnight, so two sessions on
// the same date order by time and a date-only session comes first.
func (s *Session) StartsAt() time.Time {
	day, err := time.ParseInLocation(DateLayout, s.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	tod, err := time.Parse(TimeLayout, s.TimeOfDay)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute)
}

// IsCancelled reports whether the session is excluded from summary
// computations.
func (s *Session) IsCancelled() bool {
	return s.Status == StatusCancelled
}
