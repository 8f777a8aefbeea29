package service

import (
	"context"
	"testing"
	"time"

	"mcjmccartney/practice-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed "now" for service tests: 2024-07-25.
var testNow = time.Date(2024, 7, 25, 12, 0, 0, 0, time.UTC)

type sessionTestEnv struct {
	clientRepo  *fakeClientRepo
	sessionRepo *fakeSessionRepo
	updater     *SummaryUpdater
	service     SessionService
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()
	clientRepo := newFakeClientRepo()
	sessionRepo := newFakeSessionRepo()
	updater := NewSummaryUpdater(clientRepo, sessionRepo)
	updater.now = func() time.Time { return testNow }
	return &sessionTestEnv{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		updater:     updater,
		service:     NewSessionService(sessionRepo, clientRepo, updater),
	}
}

func (env *sessionTestEnv) addClient(t *testing.T, firstName, lastName, dogName string, isMember bool) *domain.Client {
	t.Helper()
	client := &domain.Client{
		OwnerFirstName: firstName,
		OwnerLastName:  lastName,
		Email:          firstName + "@example.com",
		DogName:        dogName,
		IsMember:       isMember,
	}
	_, err := env.clientRepo.Create(context.Background(), client)
	require.NoError(t, err)
	return client
}

func (env *sessionTestEnv) clientSummary(t *testing.T, id primitive.ObjectID) (last, next string) {
	t.Helper()
	client, err := env.clientRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return client.LastSession, client.NextSession
}

func TestCreateSession_AutoFillsAmountAndSnapshotsName(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", true)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		TimeOfDay:   "14:00",
		SessionType: domain.TypeInPerson,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", session.ClientName)
	assert.Equal(t, "Rex", session.DogName)
	assert.Equal(t, domain.StatusScheduled, session.Status)
	require.NotNil(t, session.Amount)
	assert.Equal(t, 75.0, *session.Amount) // member In-Person rate
	assert.False(t, session.ID.IsZero())
}

func TestCreateSession_ExplicitAmountWins(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", true)

	amount := 120.0
	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeInPerson,
		Amount:      &amount,
	})
	require.NoError(t, err)
	require.NotNil(t, session.Amount)
	assert.Equal(t, 120.0, *session.Amount)
}

func TestCreateSession_NoDefaultTypeLeavesAmountBlank(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeGroup,
	})
	require.NoError(t, err)
	assert.Nil(t, session.Amount)
}

func TestCreateSession_UpdatesClientSummary(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	_, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		TimeOfDay:   "14:00",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)

	last, next := env.clientSummary(t, client.ID)
	assert.Equal(t, domain.NoLastSession, last)
	assert.Equal(t, "2024-08-01", next)
}

func TestCreateSession_UnknownClient(t *testing.T) {
	env := newSessionTestEnv(t)

	_, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    primitive.NewObjectID(),
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Empty(t, env.sessionRepo.sessions, "no session should be written")
}

func TestCreateSession_ValidationErrors(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	negative := -10.0
	tests := []struct {
		name  string
		input CreateSessionInput
	}{
		{"bad date", CreateSessionInput{ClientID: client.ID, Date: "01/08/2024", SessionType: domain.TypeOnline}},
		{"bad time", CreateSessionInput{ClientID: client.ID, Date: "2024-08-01", TimeOfDay: "2pm", SessionType: domain.TypeOnline}},
		{"unknown type", CreateSessionInput{ClientID: client.ID, Date: "2024-08-01", SessionType: "Walkies"}},
		{"negative amount", CreateSessionInput{ClientID: client.ID, Date: "2024-08-01", SessionType: domain.TypeOnline, Amount: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.CreateSession(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, env.sessionRepo.sessions)
}

func TestUpdateSession_NotFound(t *testing.T) {
	env := newSessionTestEnv(t)

	notes := "updated"
	_, err := env.service.UpdateSession(context.Background(), primitive.NewObjectID(), UpdateSessionInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, env.clientRepo.summaryWrites, "no summary write on failed update")
}

func TestDeleteSession_NotFound(t *testing.T) {
	env := newSessionTestEnv(t)

	err := env.service.DeleteSession(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, env.clientRepo.summaryWrites)
}

func TestDeleteSession_RevertsNextSession(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)

	_, next := env.clientSummary(t, client.ID)
	require.Equal(t, "2024-08-01", next)

	require.NoError(t, env.service.DeleteSession(context.Background(), session.ID))

	last, next := env.clientSummary(t, client.ID)
	assert.Equal(t, domain.NoNextSession, next)
	assert.Equal(t, domain.NoLastSession, last)
}

func TestUpdateSession_ReassignmentRecomputesBothClients(t *testing.T) {
	env := newSessionTestEnv(t)
	clientA := env.addClient(t, "Alice", "Archer", "Asta", false)
	clientB := env.addClient(t, "Bob", "Barker", "Bruno", false)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    clientA.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)

	_, nextA := env.clientSummary(t, clientA.ID)
	require.Equal(t, "2024-08-01", nextA)

	updated, err := env.service.UpdateSession(context.Background(), session.ID, UpdateSessionInput{
		ClientID: &clientB.ID,
	})
	require.NoError(t, err)

	// A loses the session, B gains it.
	_, nextA = env.clientSummary(t, clientA.ID)
	_, nextB := env.clientSummary(t, clientB.ID)
	assert.Equal(t, domain.NoNextSession, nextA)
	assert.Equal(t, "2024-08-01", nextB)

	// Reassignment re-snapshots the name fields for the new owner.
	assert.Equal(t, "Bob Barker", updated.ClientName)
	assert.Equal(t, "Bruno", updated.DogName)
}

func TestUpdateSession_TypeChangeDoesNotRecomputeAmount(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", true)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeInPerson,
	})
	require.NoError(t, err)
	require.NotNil(t, session.Amount)
	require.Equal(t, 75.0, *session.Amount)

	// Changing the type alone leaves the stored amount untouched.
	newType := domain.TypeOnline
	updated, err := env.service.UpdateSession(context.Background(), session.ID, UpdateSessionInput{
		SessionType: &newType,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Amount)
	assert.Equal(t, 75.0, *updated.Amount)

	// Supplying an amount in the same edit wins.
	amount := 50.0
	updated, err = env.service.UpdateSession(context.Background(), session.ID, UpdateSessionInput{
		Amount: &amount,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Amount)
	assert.Equal(t, 50.0, *updated.Amount)
}

func TestUpdateSession_CancellingRemovesFromSummary(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)

	cancelled := domain.StatusCancelled
	_, err = env.service.UpdateSession(context.Background(), session.ID, UpdateSessionInput{
		Status: &cancelled,
	})
	require.NoError(t, err)

	_, next := env.clientSummary(t, client.ID)
	assert.Equal(t, domain.NoNextSession, next)
}

func TestUpdateSession_NotesOnlySkipsRecompute(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)
	writesAfterCreate := len(env.clientRepo.summaryWrites)

	notes := "bring treats"
	_, err = env.service.UpdateSession(context.Background(), session.ID, UpdateSessionInput{Notes: &notes})
	require.NoError(t, err)

	assert.Len(t, env.clientRepo.summaryWrites, writesAfterCreate, "notes-only edit must not trigger recompute")
}

func TestCreateSession_SummaryFailureRetriesThenWarns(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	// More failures than the retry budget: the write sticks, the error
	// degrades to a stale-summary warning.
	env.clientRepo.failSummaries = summaryRetryAttempts

	session, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	assert.ErrorIs(t, err, ErrSummaryStale)
	require.NotNil(t, session)
	assert.Len(t, env.sessionRepo.sessions, 1, "session write is kept")

	// The stale summary is repairable by re-running the recompute.
	require.NoError(t, env.updater.Recompute(context.Background(), client.ID))
	_, next := env.clientSummary(t, client.ID)
	assert.Equal(t, "2024-08-01", next)
}

func TestCreateSession_SummaryFailureRecoversWithinRetries(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	env.clientRepo.failSummaries = summaryRetryAttempts - 1

	_, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-08-01",
		SessionType: domain.TypeOnline,
	})
	require.NoError(t, err)

	_, next := env.clientSummary(t, client.ID)
	assert.Equal(t, "2024-08-01", next)
}

func TestRecompute_Idempotent(t *testing.T) {
	env := newSessionTestEnv(t)
	client := env.addClient(t, "Jane", "Doe", "Rex", false)

	_, err := env.service.CreateSession(context.Background(), CreateSessionInput{
		ClientID:    client.ID,
		Date:        "2024-07-10",
		TimeOfDay:   "10:00",
		SessionType: domain.TypeInPerson,
		Status:      domain.StatusCompleted,
	})
	require.NoError(t, err)

	require.NoError(t, env.updater.Recompute(context.Background(), client.ID))
	firstLast, firstNext := env.clientSummary(t, client.ID)

	require.NoError(t, env.updater.Recompute(context.Background(), client.ID))
	secondLast, secondNext := env.clientSummary(t, client.ID)

	assert.Equal(t, firstLast, secondLast)
	assert.Equal(t, firstNext, secondNext)
	assert.Equal(t, "2024-07-10", firstLast)
	assert.Equal(t, domain.NoNextSession, firstNext)
}

func TestPriceSuggestion(t *testing.T) {
	env := newSessionTestEnv(t)
	member := env.addClient(t, "Jane", "Doe", "Rex", true)
	nonMember := env.addClient(t, "John", "Smith", "Fido", false)

	price, err := env.service.PriceSuggestion(context.Background(), member.ID, domain.TypeOnline)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 50.0, *price)

	price, err = env.service.PriceSuggestion(context.Background(), nonMember.ID, domain.TypeOnline)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 60.0, *price)

	price, err = env.service.PriceSuggestion(context.Background(), member.ID, domain.TypeCoaching)
	require.NoError(t, err)
	assert.Nil(t, price, "no-default type has no suggestion")

	_, err = env.service.PriceSuggestion(context.Background(), primitive.NewObjectID(), domain.TypeOnline)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
