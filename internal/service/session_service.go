package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
)

// SessionService owns the session lifecycle. Clients hold only the opaque
// token; the store keeps a SHA-256 digest so a leaked table cannot be
// replayed as cookies.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository

	timeout       time.Duration
	touchDebounce time.Duration
	now           func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, timeout, touchDebounce time.Duration) *SessionService {
	return &SessionService{
		sessions:      sessions,
		users:         users,
		timeout:       timeout,
		touchDebounce: touchDebounce,
		now:           time.Now,
	}
}

// Create opens a session for the user and returns the opaque token.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", domain.NewInternalError("Failed to generate session token.", err)
	}
	token := hex.EncodeToString(buf)

	now := s.now()
	session := &domain.Session{
		ID:         uuid.New(),
		TokenHash:  hashToken(token),
		UserID:     userID,
		ExpiresAt:  now.Add(s.timeout),
		LastSeenAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to its user. Missing, expired, or orphaned
// sessions all yield (nil, nil): the caller treats that as unauthenticated.
// Activity beyond the touch debounce extends the expiry; the write is
// best-effort so a transient store failure never logs a valid user out.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := s.now()
	if session.Expired(now) {
		if err := s.sessions.DeleteByTokenHash(ctx, session.TokenHash); err != nil {
			log.Printf("ERROR [service.Session] failed to delete expired session: %v", err)
		}
		return nil, nil
	}

	if now.Sub(session.LastSeenAt) > s.touchDebounce {
		session.LastSeenAt = now
		session.ExpiresAt = now.Add(s.timeout)
		if err := s.sessions.Update(ctx, session); err != nil {
			log.Printf("ERROR [service.Session] failed to touch session: %v", err)
		}
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// Destroy removes the session for a token. Destroying a token that was never
// issued, or one already destroyed, is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(ctx, hashToken(token))
}

// DestroyAllForUser removes every session bound to the user.
func (s *SessionService) DestroyAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.DeleteByUserID(ctx, userID)
}

// PurgeExpired clears sessions past their expiry; run periodically.
func (s *SessionService) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// Timeout is the configured session lifetime; cookie max-age mirrors it.
func (s *SessionService) Timeout() time.Duration {
	return s.timeout
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
