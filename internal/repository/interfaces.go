package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.GlobalSettings, error)
	Save(ctx context.Context, settings *domain.GlobalSettings) error
}

// OwnedEntity constrains PT to a pointer to T implementing domain.Owned, so
// generic repositories can allocate values without a factory.
type OwnedEntity[T any] interface {
	*T
	domain.Owned
}

// OwnedRepository is the generic CRUD contract shared by all owned resources.
// Lookups that match nothing return a nil entity and a nil error; the
// *ForUser variants filter by both id and owning user so a wrong owner is
// indistinguishable from a missing row. The non-scoped variants bypass
// ownership filtering and are reserved for admin paths.
//
// Updates write exactly the struct fields named in fields, so a supplied
// empty string or zero overwrites the stored value like any other value.
type OwnedRepository[T any, PT OwnedEntity[T]] interface {
	Create(ctx context.Context, entity PT) error
	FindAll(ctx context.Context) ([]PT, error)
	FindByID(ctx context.Context, id uuid.UUID) (PT, error)
	Update(ctx context.Context, id uuid.UUID, patch PT, fields []string) (PT, error)
	Delete(ctx context.Context, id uuid.UUID) (PT, error)

	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]PT, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (PT, error)
	UpdateForUser(ctx context.Context, id uuid.UUID, patch PT, fields []string, userID uuid.UUID) (PT, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (PT, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Settings     SettingsRepository
	Note         OwnedRepository[domain.Note, *domain.Note]
	UserSettings OwnedRepository[domain.UserSettings, *domain.UserSettings]
}
