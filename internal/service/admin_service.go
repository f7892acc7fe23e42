package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"authservice/internal/auth"
	"authservice/internal/cache"
	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/repository"
)

// ErrAdminPasswordRequired is returned when a new admin would be created without a password.
var ErrAdminPasswordRequired = stderrors.New("password is required to create an admin")

// AdminService exposes operations reserved for administrators.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.SafeUser, error)
	// EnsureAdmin creates an ADMIN with the given credentials, or promotes the
	// existing user with that email. It is idempotent.
	EnsureAdmin(ctx context.Context, email, password string) (user *model.SafeUser, created bool, err error)
}

type adminService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(repo repository.UserRepository, cache *cache.Client) AdminService {
	return &adminService{repo: repo, cache: cache}
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.SafeUser, error) {
	users, err := s.repo.List(ctx, repository.ListQuery{})
	if err != nil {
		return nil, err
	}
	out := make([]model.SafeUser, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Safe())
	}
	return out, nil
}

func (s *adminService) EnsureAdmin(ctx context.Context, email, password string) (*model.SafeUser, bool, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			existing.Role = model.RoleAdmin
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, false, fmt.Errorf("promote user %d: %w", existing.ID, err)
			}
			_ = s.cache.Delete(ctx, userCacheKey(existing.ID))
		}
		return existing.Safe(), false, nil
	case !stderrors.Is(err, errors.ErrUserNotFound):
		return nil, false, fmt.Errorf("find admin: %w", err)
	}

	if password == "" {
		return nil, false, ErrAdminPasswordRequired
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return admin.Safe(), true, nil
}
