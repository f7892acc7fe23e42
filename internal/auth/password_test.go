package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.NotEqual(t, "123456", hash)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)

	again, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "1234567"))
	assert.False(t, CheckPassword("", "123456"))
	assert.False(t, CheckPassword("not-a-hash", "123456"))
}
