package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/repository"
	"gorm.io/gorm"
)

// ownedRepository implements repository.OwnedRepository for any entity
// embedding domain.OwnedModel. All *ForUser queries filter by id AND user_id
// so a row owned by someone else looks exactly like a missing row.
type ownedRepository[T any, PT repository.OwnedEntity[T]] struct {
	db *gorm.DB
}

func NewOwnedRepository[T any, PT repository.OwnedEntity[T]](db *gorm.DB) *ownedRepository[T, PT] {
	return &ownedRepository[T, PT]{db: db}
}

func (r *ownedRepository[T, PT]) Create(ctx context.Context, entity PT) error {
	return translateError(r.db.WithContext(ctx).Create(entity).Error)
}

func (r *ownedRepository[T, PT]) FindAll(ctx context.Context) ([]PT, error) {
	var entities []PT
	if err := r.db.WithContext(ctx).Order("created_at").Find(&entities).Error; err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

func (r *ownedRepository[T, PT]) FindByID(ctx context.Context, id uuid.UUID) (PT, error) {
	entity := PT(new(T))
	err := r.db.WithContext(ctx).First(entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return entity, nil
}

func (r *ownedRepository[T, PT]) Update(ctx context.Context, id uuid.UUID, patch PT, fields []string) (PT, error) {
	return r.update(ctx, patch, fields, "id = ?", id)
}

func (r *ownedRepository[T, PT]) Delete(ctx context.Context, id uuid.UUID) (PT, error) {
	entity, err := r.FindByID(ctx, id)
	if err != nil || entity == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return entity, nil
}

func (r *ownedRepository[T, PT]) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]PT, error) {
	var entities []PT
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&entities).Error
	if err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

func (r *ownedRepository[T, PT]) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (PT, error) {
	entity := PT(new(T))
	err := r.db.WithContext(ctx).First(entity, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return entity, nil
}

func (r *ownedRepository[T, PT]) UpdateForUser(ctx context.Context, id uuid.UUID, patch PT, fields []string, userID uuid.UUID) (PT, error) {
	return r.update(ctx, patch, fields, "id = ? AND user_id = ?", id, userID)
}

func (r *ownedRepository[T, PT]) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (PT, error) {
	entity, err := r.FindByIDAndUser(ctx, id, userID)
	if err != nil || entity == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(new(T), "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translateError(err)
	}
	return entity, nil
}

func (r *ownedRepository[T, PT]) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(new(T), "user_id = ?", userID)
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

// update writes the named struct fields of patch to the rows matched by
// cond. Selecting the fields explicitly makes supplied zero values (empty
// strings, false, 0) overwrite like any other value; the id, owning user and
// creation timestamp are never writable regardless of the selection.
func (r *ownedRepository[T, PT]) update(ctx context.Context, patch PT, fields []string, cond string, args ...any) (PT, error) {
	tx := r.db.WithContext(ctx).
		Model(new(T)).
		Where(cond, args...)
	if len(fields) > 0 {
		tx = tx.Select(fields)
	}
	res := tx.Omit("id", "user_id", "created_at").Updates(patch)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	entity := PT(new(T))
	if err := r.db.WithContext(ctx).First(entity, append([]any{cond}, args...)...).Error; err != nil {
		return nil, translateError(err)
	}
	return entity, nil
}
