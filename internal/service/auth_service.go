package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/auth"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
)

// ErrInvalidCredentials is deliberately generic: login failures never reveal
// whether the email exists, whether the account is inactive, or whether the
// password was wrong.
var ErrInvalidCredentials = domain.NewUnauthorizedError("Invalid email or password.")

// AuthService resolves local credentials and external provider identities to
// canonical user records.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a local user. The email doubles as the username, matching
// the original product behavior.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		return nil, domain.NewValidationError("All fields are required.")
	}

	email := domain.NormalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("This email already exists. Try logging in instead.")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, domain.NewInternalError("Failed to hash password.", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
		Role:         domain.RoleUser,
		AuthMethod:   domain.AuthMethodLocal,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The existence check above races with concurrent signups; the unique
		// constraint is the source of truth.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflictError("This email already exists. Try logging in instead.")
		}
		return nil, err
	}

	return user, nil
}

// Login verifies a local credential pair and returns the user on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.touchLastLogin(ctx, user)
	return user, nil
}

// OAuthProfile carries the subset of a provider profile the resolver needs.
type OAuthProfile struct {
	Email       string
	Username    string
	DisplayName string
	FirstName   string
	LastName    string
	Photo       string
}

// ResolveOAuth maps an external identity onto a user record. Resolution
// order: linked provider id, then email (linking the provider onto the
// matched account), then creation. When the provider supplies no email a
// placeholder is synthesized; two providers omitting email around colliding
// id patterns could in principle map to one account, which mirrors the
// upstream product behavior.
func (s *AuthService) ResolveOAuth(ctx context.Context, provider, providerID string, profile OAuthProfile) (*domain.User, error) {
	if !domain.KnownProvider(provider) {
		return nil, domain.NewValidationError("Unknown auth provider: " + provider)
	}
	if providerID == "" {
		return nil, domain.NewValidationError("Provider profile is missing an id.")
	}

	user, err := s.lookupOAuth(ctx, provider, providerID, profile)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.createFromOAuth(ctx, provider, providerID, profile)
	if err == nil {
		return user, nil
	}

	// Two first-logins for the same new identity can race; the loser of the
	// unique-constraint race re-resolves against the winner's row once.
	if errors.Is(err, domain.ErrConflict) {
		user, lookupErr := s.lookupOAuth(ctx, provider, providerID, profile)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, err
}

func (s *AuthService) lookupOAuth(ctx context.Context, provider, providerID string, profile OAuthProfile) (*domain.User, error) {
	user, err := s.userRepo.GetByProviderID(ctx, provider, providerID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.touchLastLogin(ctx, user)
		return user, nil
	}

	user, err = s.userRepo.GetByEmail(ctx, oauthEmail(provider, providerID, profile.Email))
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.LinkProvider(provider, providerID)
		now := s.now()
		user.LastLogin = &now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	return nil, nil
}

func (s *AuthService) createFromOAuth(ctx context.Context, provider, providerID string, profile OAuthProfile) (*domain.User, error) {
	placeholder, err := auth.UnusablePassword()
	if err != nil {
		return nil, domain.NewInternalError("Failed to generate placeholder password.", err)
	}

	firstName, lastName := profileNames(profile)
	username := profile.Username
	if username == "" {
		username = provider + "_" + truncate(providerID, 8)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        oauthEmail(provider, providerID, profile.Email),
		Username:     username,
		PasswordHash: placeholder,
		FirstName:    firstName,
		LastName:     lastName,
		DisplayName:  profile.DisplayName,
		ProfilePhoto: profile.Photo,
		IsActive:     true,
		Role:         domain.RoleUser,
		AuthMethod:   provider,
		LastLogin:    &now,
	}
	user.LinkProvider(provider, providerID)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ProfileUpdate holds the self-service editable fields; email, role and
// provider links are not among them.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	DisplayName  *string
	ProfilePhoto *string
	Username     *string
}

// UpdateProfile applies a partial update to the caller's own profile. The id
// always comes from the session, never from the client.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found.")
	}

	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.ProfilePhoto != nil {
		user.ProfilePhoto = strings.TrimSpace(*patch.ProfilePhoto)
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, domain.NewValidationError("Username cannot be empty.")
		}
		user.Username = username
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the caller's user row and every session bound to it.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFoundError("User not found for deletion.")
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// GetAllUsers is the admin listing; it bypasses ownership scoping and must
// stay behind the admin guard.
func (s *AuthService) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *AuthService) touchLastLogin(ctx context.Context, user *domain.User) {
	now := s.now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("ERROR [service.Auth] failed to update last login for %s: %v", user.ID, err)
	}
}

// oauthEmail falls back to a synthesized address when the provider omits one,
// so the email uniqueness invariant still holds for email-less identities.
func oauthEmail(provider, providerID, email string) string {
	if email != "" {
		return domain.NormalizeEmail(email)
	}
	return provider + "_" + providerID + "@no-email.invalid"
}

func profileNames(profile OAuthProfile) (string, string) {
	first, last := profile.FirstName, profile.LastName
	if first == "" || last == "" {
		parts := strings.Fields(profile.DisplayName)
		if first == "" && len(parts) > 0 {
			first = parts[0]
		}
		if last == "" && len(parts) > 1 {
			last = parts[1]
		}
	}
	return first, last
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
