package service

import (
	"context"
	"errors"
	"fmt"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"mcjmccartney/practice-app/internal/storage"
	"time"

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrBriefNotUploaded = errors.New("client has no behavioural brief on file")
)

// IntakeInput is the behavioural questionnaire payload arriving from the
// public intake form. Field formats are validated upstream by the form layer.
type IntakeInput struct {
	OwnerFirstName string
	OwnerLastName  string
	Email          string
	Phone          string
	Postcode       string
	DogName        string
	DogSex         string
	DogBreed       string
	IsMember       bool
	SubmittedAt    time.Time
}

// UpdateClientInput carries a partial edit of a client's contact and
// membership details; nil fields are left unchanged. The derived summary
// fields are not editable through this path.
type UpdateClientInput struct {
	OwnerFirstName *string
	OwnerLastName  *string
	Email          *string
	Phone          *string
	Postcode       *string
	DogName        *string
	DogSex         *string
	DogBreed       *string
	IsMember       *bool
}

// --- Service Interface ---
type ClientService interface {
	CreateFromIntake(ctx context.Context, input IntakeInput) (*domain.Client, error)
	GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, input UpdateClientInput) (*domain.Client, error)
	RecomputeSummary(ctx context.Context, clientID primitive.ObjectID) error

	// Behavioural brief document handling (presigned S3 URLs).
	RequestBriefUpload(ctx context.Context, id primitive.ObjectID, contentType string) (uploadURL string, objectKey string, err error)
	GetBriefDownloadURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type clientService struct {
	clientRepo  repository.ClientRepository
	fileStorage storage.FileStorage
	summaries   *SummaryUpdater
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	fileStorage storage.FileStorage,
	summaries *SummaryUpdater,
) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		fileStorage: fileStorage,
		summaries:   summaries,
	}
}

// CreateFromIntake creates a client record from an intake form submission.
// The derived summary fields start at their sentinels; only session changes
// move them afterwards.
func (s *clientService) CreateFromIntake(ctx context.Context, input IntakeInput) (*domain.Client, error) {
	if input.OwnerFirstName == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: owner first name and email are required", ErrValidation)
	}

	submittedAt := input.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	client := &domain.Client{
		OwnerFirstName: input.OwnerFirstName,
		OwnerLastName:  input.OwnerLastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Postcode:       input.Postcode,
		DogName:        input.DogName,
		DogSex:         input.DogSex,
		DogBreed:       input.DogBreed,
		IsMember:       input.IsMember,
		SubmittedAt:    submittedAt,
		LastSession:    domain.NoLastSession,
		NextSession:    domain.NoNextSession,
	}

	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	return client, nil
}

// GetClient retrieves a single client.
func (s *clientService) GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// ListClients retrieves all clients.
func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx)
}

// UpdateClient merges the supplied contact/membership edits. Sessions created
// earlier keep their name snapshot; they are not rewritten here.
func (s *clientService) UpdateClient(ctx context.Context, id primitive.ObjectID, input UpdateClientInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if input.OwnerFirstName != nil {
		client.OwnerFirstName = *input.OwnerFirstName
	}
	if input.OwnerLastName != nil {
		client.OwnerLastName = *input.OwnerLastName
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Postcode != nil {
		client.Postcode = *input.Postcode
	}
	if input.DogName != nil {
		client.DogName = *input.DogName
	}
	if input.DogSex != nil {
		client.DogSex = *input.DogSex
	}
	if input.DogBreed != nil {
		client.DogBreed = *input.DogBreed
	}
	if input.IsMember != nil {
		client.IsMember = *input.IsMember
	}

	if client.OwnerFirstName == "" || client.Email == "" {
		return nil, fmt.Errorf("%w: owner first name and email cannot be empty", ErrValidation)
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// RecomputeSummary re-runs the summary updater for one client. Exposed so a
// caller can repair a stale summary after an ErrSummaryStale result.
func (s *clientService) RecomputeSummary(ctx context.Context, clientID primitive.ObjectID) error {
	err := s.summaries.Recompute(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrClientNotFound
	}
	return err
}

// RequestBriefUpload issues a presigned PUT URL for the client's behavioural
// brief document and records the object key on the client record.
func (s *clientService) RequestBriefUpload(ctx context.Context, id primitive.ObjectID, contentType string) (string, string, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrClientNotFound
		}
		return "", "", err
	}

	objectKey := fmt.Sprintf("briefs/%s/%s", client.ID.Hex(), uuid.NewString())

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	if err := s.clientRepo.SetBehaviourBriefKey(ctx, client.ID, objectKey); err != nil {
		return "", "", err
	}

	return uploadURL, objectKey, nil
}

// GetBriefDownloadURL issues a presigned GET URL for the client's stored
// behavioural brief.
func (s *clientService) GetBriefDownloadURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrClientNotFound
		}
		return "", err
	}
	if client.BehaviourBriefKey == "" {
		return "", ErrBriefNotUploaded
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, client.BehaviourBriefKey, storage.DefaultPresignedURLExpiry)
}
