package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"authservice/internal/auth"
	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, q repository.ListQuery) ([]model.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService("test-secret")
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "  Test@Example.com ",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, errors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "test@example.com" &&
						u.Role == model.RoleUser &&
						u.PasswordHash != "password123" &&
						auth.CheckPassword(u.PasswordHash, "password123")
				})).Return(nil)
			},
		},
		{
			name:      "user already exists",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
		{
			name:     "lost race to a concurrent registration",
			email:    "race@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, errors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(errors.ErrEmailTaken)
			},
			expectedError: errors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newJWTService(t), zap.NewNop())
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, tt.nameField, user.Name)
				assert.Equal(t, model.RoleUser, user.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_DatabaseError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, stderrors.New("connection refused"))

	service := NewAuthService(mockRepo, newJWTService(t), zap.NewNop())
	_, err := service.Register(context.Background(), "a@x.com", "123456", "")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)
	stored := &model.User{ID: 7, Email: "test@example.com", PasswordHash: hashed, Role: model.RoleUser}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, errors.ErrUserNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - user without password",
			email:    "nopass@example.com",
			password: "",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nopass@example.com").Return(&model.User{ID: 9, Email: "nopass@example.com"}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	jwtService := newJWTService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, jwtService, zap.NewNop())
			token, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				id, err := claims.UserID()
				require.NoError(t, err)
				assert.Equal(t, stored.ID, id)
				assert.Equal(t, stored.Email, claims.Email)
				assert.Equal(t, model.RoleUser, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{ID: 1, Email: "known@example.com", PasswordHash: hashed}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, errors.ErrUserNotFound)

	service := NewAuthService(mockRepo, newJWTService(t), zap.NewNop())
	_, wrongPassword := service.Login(context.Background(), "known@example.com", "nope")
	_, unknownEmail := service.Login(context.Background(), "unknown@example.com", "password123")

	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Authenticate(t *testing.T) {
	jwtService := newJWTService(t)
	user := &model.User{ID: 3, Email: "a@x.com", Name: "A", Role: model.RoleAdmin}
	token, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	t.Run("valid token resolves current user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(user, nil)

		service := NewAuthService(mockRepo, jwtService, zap.NewNop())
		identity, err := service.Authenticate(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, uint(3), identity.ID)
		assert.Equal(t, model.RoleAdmin, identity.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("deleted user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, errors.ErrUserNotFound)

		service := NewAuthService(mockRepo, jwtService, zap.NewNop())
		identity, err := service.Authenticate(context.Background(), token)

		assert.ErrorIs(t, err, errors.ErrInvalidToken)
		assert.Nil(t, identity)
	})

	t.Run("malformed token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		service := NewAuthService(mockRepo, jwtService, zap.NewNop())
		_, err := service.Authenticate(context.Background(), "garbage")

		assert.ErrorIs(t, err, errors.ErrInvalidToken)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("store failure is not reported as bad token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, stderrors.New("timeout"))

		service := NewAuthService(mockRepo, jwtService, zap.NewNop())
		_, err := service.Authenticate(context.Background(), token)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, errors.ErrInvalidToken)
	})
}
