// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"friendsapp/internal/credential"
	"friendsapp/internal/middleware"
	"friendsapp/internal/models"
	"friendsapp/internal/observability"
	"friendsapp/internal/repository"
	"friendsapp/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const invalidCredentials = "Invalid username or password"

type UserService struct {
	userRepo repository.UserRepository
	hasher   credential.Hasher
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewUserService(userRepo repository.UserRepository, hasher credential.Hasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// Register validates and creates an account. The password is stored only as a hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "UserService.Register")
	defer span.End()

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, s.authFailure("register", "invalid", models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, s.authFailure("register", "invalid", models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, s.authFailure("register", "invalid", models.NewValidationError(err.Error()))
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if existing != nil {
		return nil, s.authFailure("register", "conflict", models.NewConflictError("Username already exists"))
	}
	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if existing != nil {
		return nil, s.authFailure("register", "conflict", models.NewConflictError("Email already registered"))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		span.SetError(err)
		observability.AuthAttempts.WithLabelValues("register", strings.ToLower(models.ErrorCode(err))).Inc()
		return nil, err
	}

	span.AddAttributes(attribute.Int64("user.id", int64(user.ID)))
	observability.AuthAttempts.WithLabelValues("register", "ok").Inc()
	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail identically, and both pay for one hash comparison.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "UserService.Authenticate")
	defer span.End()

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if user == nil {
		s.hasher.Verify(s.hasher.Dummy(), password)
		return nil, s.authFailure("login", "rejected", models.NewUnauthenticatedError(invalidCredentials))
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, s.authFailure("login", "rejected", models.NewUnauthenticatedError(invalidCredentials))
	}

	observability.AuthAttempts.WithLabelValues("login", "ok").Inc()
	return user, nil
}

func (s *UserService) authFailure(action, result string, err *models.AppError) error {
	observability.AuthAttempts.WithLabelValues(action, result).Inc()
	return err
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByUsername fails with NOT_FOUND for unknown usernames.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// ListUsers returns everyone, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}
