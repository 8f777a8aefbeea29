package service

import (
	"context"
	"errors"
	"fmt"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrValidation      = errors.New("invalid input")

	// ErrSummaryStale signals that a session write succeeded but the owning
	// client's summary recomputation failed after retries. The session write
	// is kept; the summary can be repaired by re-running Recompute.
	ErrSummaryStale = errors.New("session saved but client summary update failed")
)

// Recompute is idempotent, so a failed summary write is retried a few times
// before the degraded state is surfaced to the caller.
const summaryRetryAttempts = 3

// CreateSessionInput carries an already-validated session creation payload.
type CreateSessionInput struct {
	ClientID    primitive.ObjectID
	Date        string // "YYYY-MM-DD"
	TimeOfDay   string // "HH:MM"
	SessionType domain.SessionType
	Amount      *float64 // nil = auto-fill from the pricing table
	Status      domain.SessionStatus
	Notes       string
}

// UpdateSessionInput carries a partial session update; nil fields are left
// unchanged.
type UpdateSessionInput struct {
	ClientID    *primitive.ObjectID
	Date        *string
	TimeOfDay   *string
	SessionType *domain.SessionType
	Amount      *float64
	Status      *domain.SessionStatus
	Notes       *string
}

// --- Service Interface ---
type SessionService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error)
	GetSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	ListSessionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error)
	UpdateSession(ctx context.Context, id primitive.ObjectID, input UpdateSessionInput) (*domain.Session, error)
	DeleteSession(ctx context.Context, id primitive.ObjectID) error
	PriceSuggestion(ctx context.Context, clientID primitive.ObjectID, sessionType domain.SessionType) (*float64, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface. It is the only
// writer of session records and the only trigger of summary recomputation.
type sessionService struct {
	sessionRepo repository.SessionRepository
	clientRepo  repository.ClientRepository
	summaries   *SummaryUpdater
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	clientRepo repository.ClientRepository,
	summaries *SummaryUpdater,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
		summaries:   summaries,
	}
}

// CreateSession validates the owning client, snapshots the client's display
// name onto the new session, auto-fills the amount from the pricing table
// when none is supplied, persists, and recomputes the client's summary.
func (s *sessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	if input.ClientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	if err := validateSessionFields(input.Date, input.TimeOfDay, input.SessionType, input.Amount); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, input.Status)
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	session := &domain.Session{
		ClientID: client.ID,
		// Snapshot at creation; never refreshed from the client afterwards.
		ClientName:  client.OwnerFullName(),
		DogName:     client.DogName,
		Date:        input.Date,
		TimeOfDay:   input.TimeOfDay,
		SessionType: input.SessionType,
		Amount:      input.Amount,
		Status:      status,
		Notes:       input.Notes,
	}
	if session.Amount == nil {
		if price, ok := domain.SuggestedPrice(input.SessionType, client.IsMember); ok {
			session.Amount = &price
		}
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID

	if err := s.recomputeWithRetry(ctx, client.ID); err != nil {
		return session, err
	}
	return session, nil
}

// GetSession retrieves a single session.
func (s *sessionService) GetSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// ListSessions retrieves all sessions.
func (s *sessionService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessionRepo.List(ctx)
}

// ListSessionsByClient retrieves all sessions belonging to one client.
func (s *sessionService) ListSessionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.GetByClientID(ctx, clientID)
}

// UpdateSession merges the supplied fields into the stored session. When the
// owning client, date, or status changed, the summaries of both the old and
// (if reassigned) new owning client are recomputed after the write. A stored
// amount is never recomputed here; an update only changes it when the input
// explicitly supplies one (last write wins).
func (s *sessionService) UpdateSession(ctx context.Context, id primitive.ObjectID, input UpdateSessionInput) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	oldClientID := session.ClientID
	oldDate := session.Date
	oldStatus := session.Status

	if input.ClientID != nil && *input.ClientID != session.ClientID {
		newClient, err := s.clientRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		session.ClientID = newClient.ID
		// Reassignment re-snapshots the name fields for the new owner.
		session.ClientName = newClient.OwnerFullName()
		session.DogName = newClient.DogName
	}
	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.TimeOfDay != nil {
		session.TimeOfDay = *input.TimeOfDay
	}
	if input.SessionType != nil {
		session.SessionType = *input.SessionType
	}
	if input.Amount != nil {
		session.Amount = input.Amount
	}
	if input.Status != nil {
		session.Status = *input.Status
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}

	if err := validateSessionFields(session.Date, session.TimeOfDay, session.SessionType, session.Amount); err != nil {
		return nil, err
	}
	if !session.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, session.Status)
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.ClientID != oldClientID || session.Date != oldDate || session.Status != oldStatus {
		staleErr := s.recomputeWithRetry(ctx, oldClientID)
		if session.ClientID != oldClientID {
			if err := s.recomputeWithRetry(ctx, session.ClientID); err != nil {
				staleErr = err
			}
		}
		if staleErr != nil {
			return session, staleErr
		}
	}
	return session, nil
}

// DeleteSession removes a session and recomputes the former owner's summary,
// reverting nextSession/lastSession if the deleted session carried them.
func (s *sessionService) DeleteSession(ctx context.Context, id primitive.ObjectID) error {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	return s.recomputeWithRetry(ctx, session.ClientID)
}

// PriceSuggestion resolves the standard fee for a session of the given type
// for this client, for form pre-fill. A nil result means no standard fee.
func (s *sessionService) PriceSuggestion(ctx context.Context, clientID primitive.ObjectID, sessionType domain.SessionType) (*float64, error) {
	if !sessionType.Valid() {
		return nil, fmt.Errorf("%w: unknown session type %q", ErrValidation, sessionType)
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if price, ok := domain.SuggestedPrice(sessionType, client.IsMember); ok {
		return &price, nil
	}
	return nil, nil
}

// recomputeWithRetry runs the summary updater for the client, retrying a few
// times before giving up. On exhaustion the session write stays in place and
// the degraded state is reported as ErrSummaryStale.
func (s *sessionService) recomputeWithRetry(ctx context.Context, clientID primitive.ObjectID) error {
	var err error
	for attempt := 1; attempt <= summaryRetryAttempts; attempt++ {
		if err = s.summaries.Recompute(ctx, clientID); err == nil {
			return nil
		}
		log.Warn().
			Err(err).
			Str("clientId", clientID.Hex()).
			Int("attempt", attempt).
			Msg("client summary recompute failed")
	}
	return fmt.Errorf("%w: %v", ErrSummaryStale, err)
}

// validateSessionFields checks the core field formats shared by create and
// update. Upstream form validation should already guarantee these.
func validateSessionFields(date, timeOfDay string, sessionType domain.SessionType, amount *float64) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q is not in YYYY-MM-DD format", ErrValidation, date)
	}
	if timeOfDay != "" {
		if _, err := time.Parse(domain.TimeLayout, timeOfDay); err != nil {
			return fmt.Errorf("%w: time %q is not in HH:MM format", ErrValidation, timeOfDay)
		}
	}
	if !sessionType.Valid() {
		return fmt.Errorf("%w: unknown session type %q", ErrValidation, sessionType)
	}
	if amount != nil && *amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return nil
}
