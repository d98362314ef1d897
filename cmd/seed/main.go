// Command seed populates a fresh database with the settings singleton, an
// admin account, and a demo user with example notes. It is idempotent:
// records that already exist are left alone.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/auth"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
	"github.com/mbruno/notekeep-website/internal/repository/postgres"
	"gorm.io/datatypes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	repos := postgres.NewRepositories(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedSettings(ctx, repos); err != nil {
		log.Fatalf("failed to seed settings: %v", err)
	}
	if err := seedUsers(ctx, repos); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}

	log.Println("Seed complete")
}

func seedSettings(ctx context.Context, repos *repository.Repositories) error {
	existing, err := repos.Settings.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	return repos.Settings.Save(ctx, &domain.GlobalSettings{
		ID:   uuid.New(),
		Name: "default",
		FeatureFlags: datatypes.JSONMap{
			"notesEnabled":  true,
			"signupEnabled": true,
		},
		RateLimitWindowMinutes: 15,
		RateLimitMaxRequests:   100,
	})
}

func seedUsers(ctx context.Context, repos *repository.Repositories) error {
	if err := seedUser(ctx, repos, "admin@notekeep.local", "ChangeMe123!", "Admin", "User", domain.RoleAdmin, nil); err != nil {
		return err
	}

	demoNotes := []domain.Note{
		{Title: "Welcome to Notekeep", Content: "This note was created by the seed command."},
		{Title: "Second note", Content: "Notes are private to the user who created them."},
	}
	return seedUser(ctx, repos, "demo@notekeep.local", "Demo1234!", "Demo", "User", domain.RoleUser, demoNotes)
}

func seedUser(ctx context.Context, repos *repository.Repositories, email, password, firstName, lastName, role string, notes []domain.Note) error {
	existing, err := repos.User.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		Role:         role,
		AuthMethod:   domain.AuthMethodLocal,
	}
	if err := repos.User.Create(ctx, user); err != nil {
		return err
	}

	for i := range notes {
		note := notes[i]
		note.ID = uuid.New()
		note.UserID = user.ID
		if err := repos.Note.Create(ctx, &note); err != nil {
			return err
		}
	}

	settings := &domain.UserSettings{
		Theme:                  "dark",
		RateLimitWindowMinutes: 15,
		RateLimitMaxRequests:   100,
	}
	settings.ID = uuid.New()
	settings.UserID = user.ID
	return repos.UserSettings.Create(ctx, settings)
}
