package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	AuthMethodLocal = "local"

	ProviderGoogle = "google"
	ProviderGithub = "github"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DisplayName  string    `json:"displayName"`
	ProfilePhoto string    `json:"profilePhoto"`

	IsActive bool   `json:"isActive" gorm:"not null;default:true"`
	Role     string `json:"role" gorm:"not null;default:user"`

	// One column per linked provider; unique when set, multiple NULLs allowed.
	GoogleID   *string `json:"-" gorm:"uniqueIndex"`
	GithubID   *string `json:"-" gorm:"uniqueIndex"`
	AuthMethod string  `json:"authMethod" gorm:"not null;default:local"`

	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PublicProfile is the user projection returned to clients. PasswordHash is
// already json:"-", but handlers return this struct so new User fields stay
// private by default.
type PublicProfile struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DisplayName  string     `json:"displayName"`
	ProfilePhoto string     `json:"profilePhoto"`
	IsActive     bool       `json:"isActive"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DisplayName:  u.DisplayName,
		ProfilePhoto: u.ProfilePhoto,
		IsActive:     u.IsActive,
		Role:         u.Role,
		LastLogin:    u.LastLogin,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LinkedProviderID returns the linked external id for the given provider, or
// nil when the provider is unknown or not linked.
func (u *User) LinkedProviderID(provider string) *string {
	switch provider {
	case ProviderGoogle:
		return u.GoogleID
	case ProviderGithub:
		return u.GithubID
	default:
		return nil
	}
}

// LinkProvider attaches an external identity onto the user.
func (u *User) LinkProvider(provider, providerID string) {
	switch provider {
	case ProviderGoogle:
		u.GoogleID = &providerID
	case ProviderGithub:
		u.GithubID = &providerID
	}
}

// KnownProvider reports whether provider is one this system can resolve.
func KnownProvider(provider string) bool {
	return provider == ProviderGoogle || provider == ProviderGithub
}

// NormalizeEmail case-folds and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session binds an opaque client-held token to a user. Only the SHA-256
// digest of the token is stored; the raw token exists only in the cookie.
type Session struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TokenHash  string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	ExpiresAt  time.Time `json:"expiresAt" gorm:"not null"`
	LastSeenAt time.Time `json:"lastSeenAt" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
