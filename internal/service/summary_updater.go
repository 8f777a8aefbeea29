package service

import (
	"context"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SummaryUpdater recomputes a client's derived lastSession/nextSession fields
// from the full set of that client's sessions. It is the only writer of those
// two fields; the session service invokes it after every session mutation.
type SummaryUpdater struct {
	clientRepo  repository.ClientRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewSummaryUpdater creates a new SummaryUpdater.
func NewSummaryUpdater(clientRepo repository.ClientRepository, sessionRepo repository.SessionRepository) *SummaryUpdater {
	return &SummaryUpdater{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Recompute scans the client's sessions and writes the derived summary back
// onto the client record. Idempotent: with unchanged session data two calls
// in a row write the identical summary.
func (u *SummaryUpdater) Recompute(ctx context.Context, clientID primitive.ObjectID) error {
	sessions, err := u.sessionRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}

	summary := domain.Summarize(sessions, u.now())

	return u.clientRepo.UpdateSummary(ctx, clientID, summary)
}
