package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// LoginResult carries an issued bearer token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService interface {
	// Register creates a user with an empty cart.
	// Returns a domain.ErrValidation error for empty or overlong input and
	// store.ErrUsernameExists when the username is taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Login verifies credentials and issues a token.
	// Returns ErrInvalidCredentials for an unknown user or wrong password.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type authServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.JWTService
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authServiceImpl{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth_service"),
	}
}

// Register implements AuthService.
func (s *authServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("registration rejected by validation", "error", err)
		return nil, err
	}

	// Fast path for a clean conflict; the unique index still guards the race.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		log.Debug("attempted to register existing username", "username", username)
		return nil, store.ErrUsernameExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		log.Error("failed to check username availability", "error", err)
		return nil, NewServiceError("auth", "register", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, NewServiceError("auth", "register", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("username taken concurrently", "username", username)
			return nil, store.ErrUsernameExists
		}
		log.Error("failed to save user", "error", err, "username", username)
		return nil, NewServiceError("auth", "register", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login implements AuthService.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown username")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to load user for login", "error", err)
		return nil, NewServiceError("auth", "login", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("stored password hash is unusable", "error", err, "user_id", user.ID)
		} else {
			log.Debug("login with wrong password", "user_id", user.ID)
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		return nil, NewServiceError("auth", "login", fmt.Errorf("token generation: %w", err))
	}

	log.Info("user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, UserID: user.ID}, nil
}
