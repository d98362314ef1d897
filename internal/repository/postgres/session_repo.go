package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "token_hash = ?", tokenHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.Session) error {
	return translateError(r.db.WithContext(ctx).Save(session).Error)
}

func (r *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return translateError(r.db.WithContext(ctx).Delete(&domain.Session{}, "token_hash = ?", tokenHash).Error)
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Delete(&domain.Session{}, "user_id = ?", userID).Error)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return translateError(r.db.WithContext(ctx).Delete(&domain.Session{}, "expires_at < ?", now).Error)
}
