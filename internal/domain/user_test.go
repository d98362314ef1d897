package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeEmail(tt.in))
	}
}

func TestUser_ProviderLinking(t *testing.T) {
	user := &domain.User{}

	assert.Nil(t, user.LinkedProviderID(domain.ProviderGoogle))

	user.LinkProvider(domain.ProviderGoogle, "g-1")
	require.NotNil(t, user.LinkedProviderID(domain.ProviderGoogle))
	assert.Equal(t, "g-1", *user.LinkedProviderID(domain.ProviderGoogle))
	assert.Nil(t, user.LinkedProviderID(domain.ProviderGithub))

	// Unknown providers are never linked.
	user.LinkProvider("myspace", "m-1")
	assert.Nil(t, user.LinkedProviderID("myspace"))

	assert.True(t, domain.KnownProvider(domain.ProviderGoogle))
	assert.True(t, domain.KnownProvider(domain.ProviderGithub))
	assert.False(t, domain.KnownProvider("myspace"))
}

func TestPublicProfile_OmitsCredentials(t *testing.T) {
	user := &domain.User{
		Email:        "p@example.com",
		Username:     "p",
		PasswordHash: "$2a$10$secret",
	}

	encoded, err := json.Marshal(user.PublicProfile())
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "secret")
	assert.NotContains(t, string(encoded), "password")
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	session := &domain.Session{ExpiresAt: now}

	assert.False(t, session.Expired(now), "expiry boundary still counts as live")
	assert.False(t, session.Expired(now.Add(-time.Second)))
	assert.True(t, session.Expired(now.Add(time.Second)))
}
