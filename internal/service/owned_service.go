package service

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
)

// OwnedService wraps an ownership-scoped repository with id validation. Ids
// arrive as opaque strings from the HTTP layer; malformed ones are rejected
// with a ValidationError before any query runs, so the repository filter keys
// are always well-formed.
type OwnedService[T any, PT repository.OwnedEntity[T]] struct {
	repo repository.OwnedRepository[T, PT]
}

func NewOwnedService[T any, PT repository.OwnedEntity[T]](repo repository.OwnedRepository[T, PT]) *OwnedService[T, PT] {
	return &OwnedService[T, PT]{repo: repo}
}

// CreateForUser persists entity under the given owner. The owning id is
/// server-assigned: whatever userId the client put in the payload is
// overwritten before the write.
func (s *OwnedService[T, PT]) CreateForUser(ctx context.Context, entity PT, userID uuid.UUID) (PT, error) {
	if entity == nil || isZero[T]((*T)(entity)) {
		return nil, domain.NewValidationError("Resource data cannot be empty.")
	}
	entity.SetUserID(userID)
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *OwnedService[T, PT]) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]PT, error) {
	return s.repo.FindAllByUser(ctx, userID)
}

func (s *OwnedService[T, PT]) FindByIDAndUser(ctx context.Context, id string, userID uuid.UUID) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDAndUser(ctx, resourceID, userID)
}

// UpdateForUser applies the named fields of patch to the row matched by
// (id, userID); a supplied empty value overwrites the stored one. A row
// owned by someone else yields the same nil result as a missing row.
func (s *OwnedService[T, PT]) UpdateForUser(ctx context.Context, id string, patch PT, fields []string, userID uuid.UUID) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	if patch == nil || len(fields) == 0 {
		return nil, domain.NewValidationError("Update data cannot be empty.")
	}
	return s.repo.UpdateForUser(ctx, resourceID, patch, fields, userID)
}

func (s *OwnedService[T, PT]) DeleteForUser(ctx context.Context, id string, userID uuid.UUID) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.DeleteForUser(ctx, resourceID, userID)
}

func (s *OwnedService[T, PT]) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}

// Non-scoped variants below bypass ownership filtering; they exist for admin
// paths only and must never be handed a user-supplied id outside those.

func (s *OwnedService[T, PT]) Create(ctx context.Context, entity PT) (PT, error) {
	if entity == nil || isZero[T]((*T)(entity)) {
		return nil, domain.NewValidationError("Resource data cannot be empty.")
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *OwnedService[T, PT]) FindAll(ctx context.Context) ([]PT, error) {
	return s.repo.FindAll(ctx)
}

func (s *OwnedService[T, PT]) FindByID(ctx context.Context, id string) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, resourceID)
}

func (s *OwnedService[T, PT]) Update(ctx context.Context, id string, patch PT, fields []string) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	if patch == nil || len(fields) == 0 {
		return nil, domain.NewValidationError("Update data cannot be empty.")
	}
	return s.repo.Update(ctx, resourceID, patch, fields)
}

func (s *OwnedService[T, PT]) Delete(ctx context.Context, id string) (PT, error) {
	resourceID, err := parseResourceID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, resourceID)
}

func parseResourceID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("Invalid resource id format.")
	}
	return parsed, nil
}

func isZero[T any](entity *T) bool {
	return reflect.ValueOf(*entity).IsZero()
}
