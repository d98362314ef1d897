package postgres

import (
	"context"
	"errors"

	"github.com/mbruno/notekeep-website/internal/domain"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the active settings row, or nil when none has been seeded.
func (r *settingsRepository) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	var settings domain.GlobalSettings
	err := r.db.WithContext(ctx).Order("created_at").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *domain.GlobalSettings) error {
	return translateError(r.db.WithContext(ctx).Save(settings).Error)
}
