package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository/postgres"
	"github.com/mbruno/notekeep-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByProviderID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	googleID := "google-sub-1"
	githubID := "12345"

	googleUser, _ := testutil.NewUserBuilder().WithEmail("g@example.com").Build(t, testDB.DB)
	googleUser.GoogleID = &googleID
	require.NoError(t, repos.User.Update(ctx, googleUser))

	githubUser, _ := testutil.NewUserBuilder().WithEmail("gh@example.com").Build(t, testDB.DB)
	githubUser.GithubID = &githubID
	require.NoError(t, repos.User.Update(ctx, githubUser))

	tests := []struct {
		name       string
		provider   string
		providerID string
		want       *domain.User
		wantErr    error
	}{
		{"google id", domain.ProviderGoogle, googleID, googleUser, nil},
		{"github id", domain.ProviderGithub, githubID, githubUser, nil},
		{"google id does not match github column", domain.ProviderGoogle, githubID, nil, nil},
		{"unknown id", domain.ProviderGithub, "nope", nil, nil},
		{"unknown provider", "myspace", "x", nil, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.User.GetByProviderID(ctx, tt.provider, tt.providerID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.ID, got.ID)
		})
	}
}

func TestUserRepository_UniqueConstraintsTranslate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	existing, _ := testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, testDB.DB)

	dup := &domain.User{
		ID:           uuid.New(),
		Email:        existing.Email,
		Username:     "someone-else",
		PasswordHash: "irrelevant",
		IsActive:     true,
		Role:         domain.RoleUser,
		AuthMethod:   domain.AuthMethodLocal,
	}

	err := repos.User.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepository_GetByID_Missing(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)

	got, err := repos.User.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}
