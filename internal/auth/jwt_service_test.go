package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authservice/internal/model"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	svc, err := NewJWTService("")
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, svc)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	user := &model.User{ID: 42, Email: "a@x.com", Role: model.RoleAdmin}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, AccessTokenExpiry, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(t)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(&model.User{ID: 1, Email: "a@x.com", Role: model.RoleUser})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService(t)
	other, err := NewJWTService("another-secret")
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken(&model.User{ID: 1, Email: "a@x.com", Role: model.RoleUser})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"alg none", noneToken},
		{"other hmac alg", hs512},
		{"no expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestClaims_UserID_InvalidSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.Error(t, err)
}
