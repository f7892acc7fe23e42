package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"authservice/internal/auth"
	"authservice/internal/cache"
	"authservice/internal/model"
	"authservice/internal/repository"
)

const (
	userCacheTTL = 5 * time.Minute
	// PageSize is the number of users returned per page by FindAll.
	PageSize = 5
)

// CreateUserInput holds the fields accepted when creating a user directly.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
	Address  *model.Address
}

// UpdateUserInput holds a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name    *string
	Age     *int
	Address *model.Address
}

// UserService exposes the user directory operations.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	FindAll(ctx context.Context, filter string, page int) ([]model.User, error)
	FindOne(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	Remove(ctx context.Context, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	user := &model.User{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Role:    model.RoleUser,
		Age:     in.Age,
		Address: in.Address,
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return user, nil
}

// FindAll returns page (1-based, PageSize per page) of the users whose name
// contains filter case-insensitively. Pages below 1 are treated as page 1;
// pages whose offset does not fit in an int are empty.
func (s *userService) FindAll(ctx context.Context, filter string, page int) ([]model.User, error) {
	if page < 1 {
		page = 1
	}
	if page > math.MaxInt/PageSize {
		return []model.User{}, nil
	}
	return s.repo.List(ctx, repository.ListQuery{
		Filter: strings.TrimSpace(filter),
		Offset: (page - 1) * PageSize,
		Limit:  PageSize,
	})
}

// FindOne reads through the cache. Cached entries never carry the password hash.
func (s *userService) FindOne(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.Address != nil {
		user.Address = in.Address
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

func (s *userService) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
