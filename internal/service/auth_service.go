package service

import (
	"context"
	"errors"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrStaffAlreadyExists   = errors.New("staff user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.StaffUser, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.StaffUser, err error)
}

// --- Service Implementation ---

// authService implements the AuthService interface for staff accounts.
type authService struct {
	staffRepo     repository.StaffRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(staffRepo repository.StaffRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		staffRepo:     staffRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a new staff account.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.StaffUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email, and password cannot be empty")
	}

	_, err := s.staffRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrStaffAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.StaffUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.staffRepo.Create(ctx, user)
	if err != nil {
		// The unique email index closes the race between the existence check
		// and the insert.
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a staff member and issues a JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.StaffUser, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// staffClaims defines the structure of the JWT payload.
type staffClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given staff user.
func (s *authService) generateJWT(user *domain.StaffUser) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &staffClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "practice-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}
