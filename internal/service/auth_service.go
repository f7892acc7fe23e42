package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"authservice/internal/auth"
	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/repository"
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.SafeUser, error)
	Login(ctx context.Context, email, password string) (accessToken string, err error)
	// Authenticate verifies a bearer token and resolves its subject to the current user.
	Authenticate(ctx context.Context, token string) (*model.SafeUser, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a USER account with a hashed password.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.SafeUser, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrEmailTaken
	}
	if err != nil && !stderrors.Is(err, errors.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(name),
		Role:         model.RoleUser,
	}
	// The store rejects a concurrent registration of the same email.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, errors.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user.Safe(), nil
}

// Login verifies credentials and returns a signed access token.
// Unknown email and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !stderrors.Is(err, errors.ErrUserNotFound) {
			return "", fmt.Errorf("find user: %w", err)
		}
		// Burn a comparison so both failure paths cost the same.
		auth.CheckPassword(s.timingHash(), password)
		s.logger.Info("login failed", zap.String("reason", "unknown_email"))
		return "", errors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("login failed", zap.String("reason", "wrong_password"), zap.Uint("user_id", user.ID))
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.SafeUser, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, errors.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			s.logger.Info("token subject no longer exists", zap.Uint("user_id", userID))
			return nil, errors.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user.Safe(), nil
}

func (s *authService) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("timing-equalizer")
	})
	return s.dummyHash
}
