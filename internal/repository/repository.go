package repository

import (
	"context"
	"mcjmccartney/practice-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	// UpdateSummary writes the two derived session-summary fields. It is the
	// only mutation path for them; Update deliberately leaves them alone.
	UpdateSummary(ctx context.Context, id primitive.ObjectID, summary domain.SessionSummary) error
	SetBehaviourBriefKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	// ListCompletedInRange returns Completed sessions with dates in the
	// inclusive [from, to] range, for financial reporting.
	ListCompletedInRange(ctx context.Context, from, to string) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// StaffRepository defines the interface for interacting with staff accounts.
type StaffRepository interface {
	Create(ctx context.Context, user *domain.StaffUser) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
}
