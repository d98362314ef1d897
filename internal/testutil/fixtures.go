package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/auth"
	"github.com/mbruno/notekeep-website/internal/domain"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      string
	active    bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:     fmt.Sprintf("testuser_%s@example.com", suffix),
		password:  "testpassword123",
		firstName: "Test",
		lastName:  "User",
		role:      domain.RoleUser,
		active:    true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.role = role
	return b
}

// Inactive marks the account deactivated
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        domain.NormalizeEmail(b.email),
		Username:     domain.NormalizeEmail(b.email),
		PasswordHash: hash,
		FirstName:    b.firstName,
		LastName:     b.lastName,
		IsActive:     b.active,
		Role:         b.role,
		AuthMethod:   domain.AuthMethodLocal,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SignupAndLogin creates a user via the signup API and returns it together
// with the HTTP client carrying its session cookie.
func (b *UserBuilder) SignupAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	client := NewCookieClient(t)

	reqBody := map[string]string{
		"email":     b.email,
		"password":  b.password,
		"firstName": b.firstName,
		"lastName":  b.lastName,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := client.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign up user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	var user domain.User
	if err := ts.DB.DB.First(&user, "email = ?", domain.NormalizeEmail(b.email)).Error; err != nil {
		t.Fatalf("failed to load signed-up user: %v", err)
	}

	return &user, client
}

// NoteBuilder creates test notes with a builder pattern
type NoteBuilder struct {
	title   string
	content string
	owner   uuid.UUID
}

// NewNoteBuilder creates a new NoteBuilder with default values
func NewNoteBuilder() *NoteBuilder {
	return &NoteBuilder{
		title:   "test note",
		content: "test content",
	}
}

// WithTitle sets the title
func (b *NoteBuilder) WithTitle(title string) *NoteBuilder {
	b.title = title
	return b
}

// WithContent sets the content
func (b *NoteBuilder) WithContent(content string) *NoteBuilder {
	b.content = content
	return b
}

// WithOwner sets the owning user
func (b *NoteBuilder) WithOwner(userID uuid.UUID) *NoteBuilder {
	b.owner = userID
	return b
}

// Build creates the note in the database
func (b *NoteBuilder) Build(t *testing.T, db *gorm.DB) *domain.Note {
	t.Helper()

	note := &domain.Note{
		Title:   b.title,
		Content: b.content,
	}
	note.ID = uuid.New()
	note.UserID = b.owner

	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	return note
}
