package postgres

import (
	"errors"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.GlobalSettings{},
		&domain.Note{},
		&domain.UserSettings{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Settings:     NewSettingsRepository(db),
		Note:         NewOwnedRepository[domain.Note, *domain.Note](db),
		UserSettings: NewOwnedRepository[domain.UserSettings, *domain.UserSettings](db),
	}
}

// translateError maps storage failures onto the application taxonomy so raw
// driver errors never cross the repository boundary.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError("Record with this data already exists.")
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidData):
		return domain.NewValidationError("Invalid record data.")
	default:
		return domain.NewDatabaseError("Database operation failed.", err)
	}
}
