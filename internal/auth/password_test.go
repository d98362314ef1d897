package auth_test

import (
	"testing"

	"github.com/mbruno/notekeep-website/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2!")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2!", hash)
	assert.True(t, auth.CheckPassword("hunter2!", hash))
	assert.False(t, auth.CheckPassword("hunter2", hash))
	assert.False(t, auth.CheckPassword("", hash))

	// Same input, different salt.
	again, err := auth.HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, auth.CheckPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, auth.CheckPassword("anything", ""))
}

func TestUnusablePassword(t *testing.T) {
	hash, err := auth.UnusablePassword()
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// No guessable input validates against it.
	for _, guess := range []string{"", "password", hash} {
		assert.False(t, auth.CheckPassword(guess, hash))
	}

	// Each placeholder is unique.
	other, err := auth.UnusablePassword()
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
