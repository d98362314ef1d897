package service

import (
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/llm"
	"github.com/mbruno/notekeep-website/internal/repository"
)

type Services struct {
	Auth         *AuthService
	Session      *SessionService
	OAuth        *OAuthService
	Settings     *SettingsCache
	Notes        *OwnedService[domain.Note, *domain.Note]
	NoteSummary  *NoteSummaryService
	UserSettings *OwnedService[domain.UserSettings, *domain.UserSettings]
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	authService := NewAuthService(repos.User, repos.Session)
	model := llm.NewClient(llm.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		Token:   cfg.Ollama.Token,
	})

	return &Services{
		Auth:         authService,
		Session:      NewSessionService(repos.Session, repos.User, cfg.SessionTimeout, cfg.SessionTouchDebounce),
		OAuth:        NewOAuthService(authService, cfg),
		Settings:     NewSettingsCache(repos.Settings, SettingsCacheTTL),
		Notes:        NewOwnedService(repos.Note),
		NoteSummary:  NewNoteSummaryService(repos.Note, model),
		UserSettings: NewOwnedService(repos.UserSettings),
	}
}
