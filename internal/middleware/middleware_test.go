package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authservice/internal/errors"
	"authservice/internal/model"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*model.SafeUser, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SafeUser), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.SafeUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SafeUser), args.Error(1)
}

func newContext(authorization string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestJWT(t *testing.T) {
	user := &model.SafeUser{ID: 1, Email: "a@x.com", Role: model.RoleUser}

	tests := []struct {
		name          string
		header        string
		setupMock     func(*MockAuthService)
		expectedError error
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(m *MockAuthService) {
				m.On("Authenticate", mock.Anything, "good").Return(user, nil)
			},
		},
		{
			name:          "missing header",
			setupMock:     func(m *MockAuthService) {},
			expectedError: errors.ErrInvalidToken,
		},
		{
			name:          "wrong scheme",
			header:        "Basic abc",
			setupMock:     func(m *MockAuthService) {},
			expectedError: errors.ErrInvalidToken,
		},
		{
			name:   "rejected token",
			header: "Bearer bad",
			setupMock: func(m *MockAuthService) {
				m.On("Authenticate", mock.Anything, "bad").Return(nil, errors.ErrInvalidToken)
			},
			expectedError: errors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			tt.setupMock(authService)
			c := newContext(tt.header)

			err := JWT(authService)(okHandler)(c)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				_, ok := Identity(c)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				got, ok := Identity(c)
				require.True(t, ok)
				assert.Equal(t, user, got)
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestJWT_StoreFailureIsNotUnauthorized(t *testing.T) {
	storeErr := stderrors.New("connection reset")
	authService := new(MockAuthService)
	authService.On("Authenticate", mock.Anything, "tok").Return(nil, storeErr)

	err := JWT(authService)(okHandler)(newContext("Bearer tok"))

	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, errors.ErrInvalidToken)
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name          string
		identity      *model.SafeUser
		roles         []model.Role
		expectedError error
	}{
		{"no identity", nil, []model.Role{model.RoleAdmin}, errors.ErrInvalidToken},
		{"admin on admin route", &model.SafeUser{Role: model.RoleAdmin}, []model.Role{model.RoleAdmin}, nil},
		{"user on admin route", &model.SafeUser{Role: model.RoleUser}, []model.Role{model.RoleAdmin}, errors.ErrInsufficientRole},
		{"admin on user route", &model.SafeUser{Role: model.RoleAdmin}, []model.Role{model.RoleUser}, errors.ErrInsufficientRole},
		{"missing role", &model.SafeUser{}, []model.Role{model.RoleUser}, errors.ErrRoleMissing},
		{"either role", &model.SafeUser{Role: model.RoleUser}, []model.Role{model.RoleAdmin, model.RoleUser}, nil},
		{"no requirement", &model.SafeUser{Role: model.RoleUser}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext("")
			if tt.identity != nil {
				c.Set(IdentityKey, tt.identity)
			}

			err := RequireRoles(tt.roles...)(okHandler)(c)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, c.Response().Status)
			}
		})
	}
}
