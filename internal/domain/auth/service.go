package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"municore/internal/core/apperror"
	"municore/pkg/logger"
)

const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
)

// Service provides login and registration.
type Service struct {
	repo Repository
	jwt  *JWTService
}

// NewService creates an auth service.
func NewService(repo Repository, jwtService *JWTService) *Service {
	return &Service{
		repo: repo,
		jwt:  jwtService,
	}
}

// Login verifies credentials and issues an access token.
// Failed attempts are counted; the account locks temporarily after too
// many. Bad username and bad password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	user, err := s.repo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(maxFailedAttempts, lockDuration)
		if updErr := s.repo.Update(ctx, user); updErr != nil {
			logger.Warn(ctx, "record failed login", "username", user.Username, "error", updErr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "record successful login", "username", user.Username, "error", err)
	}

	tokenString, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &Token{
		AccessToken: tokenString,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// Register creates a new user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, email, password string, mayoraltyID int64) (*User, error) {
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user := NewUser(username, email, string(hash), mayoraltyID)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetRole changes a user's role. The admin flag follows the "admin" role.
func (s *Service) SetRole(ctx context.Context, userID int64, role string) (*User, error) {
	if role == "" {
		return nil, apperror.NewValidation("role is required").
			WithDetail("field", "role")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.IsAdmin = role == RoleAdmin
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user role changed", "user_id", userID, "role", role)
	return user, nil
}
