package service

import (
	"context"
	"errors"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository and storage interfaces, so the
// service layer can be exercised without a database.

type fakeClientRepo struct {
	clients map[primitive.ObjectID]*domain.Client

	// summaryWrites records every UpdateSummary call in order.
	summaryWrites []domain.SessionSummary
	// failSummaries makes the next N UpdateSummary calls fail.
	failSummaries int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (r *fakeClientRepo) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now().UTC()
	if client.LastSession == "" {
		client.LastSession = domain.NoLastSession
	}
	if client.NextSession == "" {
		client.NextSession = domain.NoNextSession
	}
	stored := *client
	r.clients[client.ID] = &stored
	return client.ID, nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *fakeClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.Email == email {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *domain.Client) error {
	stored, ok := r.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	// Derived summary fields are preserved, as in the real repository.
	last, next := stored.LastSession, stored.NextSession
	updated := *client
	updated.LastSession = last
	updated.NextSession = next
	r.clients[client.ID] = &updated
	return nil
}

func (r *fakeClientRepo) UpdateSummary(ctx context.Context, id primitive.ObjectID, summary domain.SessionSummary) error {
	if r.failSummaries > 0 {
		r.failSummaries--
		return errors.New("simulated summary write failure")
	}
	client, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	client.LastSession = summary.LastSession
	client.NextSession = summary.NextSession
	r.summaryWrites = append(r.summaryWrites, summary)
	return nil
}

func (r *fakeClientRepo) SetBehaviourBriefKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	client, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	client.BehaviourBriefKey = objectKey
	return nil
}

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()
	stored := *session
	r.sessions[session.ID] = &stored
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for _, session := range r.sessions {
		if session.ClientID == clientID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) List(ctx context.Context) ([]domain.Session, error) {
	out := make([]domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, *session)
	}
	return out, nil
}

func (r *fakeSessionRepo) ListCompletedInRange(ctx context.Context, from, to string) ([]domain.Session, error) {
	var out []domain.Session
	for _, session := range r.sessions {
		if session.Status == domain.StatusCompleted && session.Date >= from && session.Date <= to {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *domain.Session) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

type fakeFileStorage struct {
	deletedKeys []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.example/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.example/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.deletedKeys = append(s.deletedKeys, objectKey)
	return nil
}
