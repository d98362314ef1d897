package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// OAuthService drives the authorization-code flow for the configured
// providers and hands the resulting profile to the identity resolver.
type OAuthService struct {
	auth      *AuthService
	cfg       *config.Config
	providers map[string]*oauth2.Config
	now       func() time.Time
}

func NewOAuthService(authService *AuthService, cfg *config.Config) *OAuthService {
	providers := map[string]*oauth2.Config{
		domain.ProviderGoogle: {
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		domain.ProviderGithub: {
			ClientID:     cfg.Github.ClientID,
			ClientSecret: cfg.Github.ClientSecret,
			RedirectURL:  cfg.Github.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}

	return &OAuthService{
		auth:      authService,
		cfg:       cfg,
		providers: providers,
		now:       time.Now,
	}
}

// AuthCodeURL builds the provider consent redirect. The state parameter is a
// short-lived signed token so the callback can reject forged or replayed
// redirects without server-side state.
func (s *OAuthService) AuthCodeURL(provider string) (string, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return "", domain.NewValidationError("Unknown auth provider: " + provider)
	}
	if conf.ClientID == "" || conf.ClientSecret == "" {
		return "", domain.NewInternalError("OAuth provider "+provider+" is not configured.", nil)
	}

	state, err := s.signState(provider)
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(state), nil
}

// HandleCallback verifies state, exchanges the code, fetches the provider
// profile and resolves it to a user.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, state, code string) (*domain.User, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return nil, domain.NewValidationError("Unknown auth provider: " + provider)
	}
	if err := s.verifyState(provider, state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, domain.NewValidationError("Missing authorization code.")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewUnauthorizedError("Authorization code exchange failed.")
	}

	client := conf.Client(ctx, token)
	providerID, profile, err := fetchProfile(ctx, client, provider)
	if err != nil {
		return nil, err
	}

	return s.auth.ResolveOAuth(ctx, provider, providerID, profile)
}

func (s *OAuthService) signState(provider string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"provider": provider,
		"nonce":    uuid.New().String(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.OAuthStateLifetime).Unix(),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", domain.NewInternalError("Failed to sign OAuth state.", err)
	}
	return state, nil
}

func (s *OAuthService) verifyState(provider, state string) error {
	token, err := jwt.Parse(state, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return domain.NewUnauthorizedError("Invalid OAuth state.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["provider"] != provider {
		return domain.NewUnauthorizedError("OAuth state does not match provider.")
	}
	return nil
}

func fetchProfile(ctx context.Context, client *http.Client, provider string) (string, OAuthProfile, error) {
	switch provider {
	case domain.ProviderGoogle:
		return fetchGoogleProfile(ctx, client)
	case domain.ProviderGithub:
		return fetchGithubProfile(ctx, client)
	default:
		return "", OAuthProfile{}, domain.NewValidationError("Unknown auth provider: " + provider)
	}
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (string, OAuthProfile, error) {
	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return "", OAuthProfile{}, err
	}

	email := info.Email
	if !info.VerifiedEmail {
		email = ""
	}
	return info.ID, OAuthProfile{
		Email:       email,
		DisplayName: info.Name,
		FirstName:   info.GivenName,
		LastName:    info.FamilyName,
		Photo:       info.Picture,
	}, nil
}

func fetchGithubProfile(ctx context.Context, client *http.Client) (string, OAuthProfile, error) {
	var info struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, githubUserURL, &info); err != nil {
		return "", OAuthProfile{}, err
	}

	email := info.Email
	if email == "" {
		// Public email is often unset; the emails endpoint carries the
		// verified primary address.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, githubEmailsURL, &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	return strconv.FormatInt(info.ID, 10), OAuthProfile{
		Email:       email,
		Username:    info.Login,
		DisplayName: info.Name,
		Photo:       info.AvatarURL,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewInternalError("Failed to build provider request.", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.NewInternalError("Provider profile request failed.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NewUnauthorizedError(fmt.Sprintf("Provider returned %d: %s", resp.StatusCode, body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
