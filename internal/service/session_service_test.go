package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
	"github.com/mbruno/notekeep-website/internal/repository/postgres"
	"github.com/mbruno/notekeep-website/internal/service"
	"github.com/mbruno/notekeep-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSessionService(repos *repository.Repositories) *service.SessionService {
	cfg := testutil.TestConfig()
	return service.NewSessionService(repos.Session, repos.User, cfg.SessionTimeout, cfg.SessionTouchDebounce)
}

func TestSessionService_CreateAndValidate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	token, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The raw token never touches the store.
	var stored domain.Session
	require.NoError(t, testDB.DB.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.NotEqual(t, token, stored.TokenHash)

	resolved, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestSessionService_Validate_Unauthenticated(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "empty token",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "unknown token",
			token: func(t *testing.T) string { return "deadbeefdeadbeefdeadbeefdeadbeef" },
		},
		{
			name: "expired session",
			token: func(t *testing.T) string {
				user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
				token, err := sessions.Create(ctx, user.ID)
				require.NoError(t, err)

				expireSession(t, testDB.DB, user, time.Now().Add(-time.Minute))
				return token
			},
		},
		{
			name: "inactive user",
			token: func(t *testing.T) string {
				user, _ := testutil.NewUserBuilder().
					WithEmail("inactive-session@example.com").
					Inactive().
					Build(t, testDB.DB)
				token, err := sessions.Create(ctx, user.ID)
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "user deleted after session issued",
			token: func(t *testing.T) string {
				user, _ := testutil.NewUserBuilder().
					WithEmail("deleted-session@example.com").
					Build(t, testDB.DB)
				token, err := sessions.Create(ctx, user.ID)
				require.NoError(t, err)

				require.NoError(t, testDB.DB.Delete(&domain.User{}, "id = ?", user.ID).Error)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			user, err := sessions.Validate(ctx, tt.token(t))
			// Unauthenticated is a resolution outcome, never an error.
			require.NoError(t, err)
			assert.Nil(t, user)
		})
	}
}

func TestSessionService_Validate_ExpiredSessionIsDeleted(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	expireSession(t, testDB.DB, user, time.Now().Add(-time.Minute))

	resolved, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSessionService_Validate_TouchExtendsExpiry(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	// Backdate activity past the debounce but leave the session alive.
	staleSeen := time.Now().Add(-10 * time.Minute)
	staleExpiry := time.Now().Add(5 * time.Minute)
	require.NoError(t, testDB.DB.Model(&domain.Session{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]any{"last_seen_at": staleSeen, "expires_at": staleExpiry}).Error)

	resolved, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	var touched domain.Session
	require.NoError(t, testDB.DB.Where("user_id = ?", user.ID).First(&touched).Error)
	assert.True(t, touched.ExpiresAt.After(staleExpiry), "expiry should slide forward on activity")
	assert.True(t, touched.LastSeenAt.After(staleSeen))
}

func TestSessionService_Validate_DebounceSkipsWrite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	var before domain.Session
	require.NoError(t, testDB.DB.Where("user_id = ?", user.ID).First(&before).Error)

	// A validate right after create is inside the debounce window.
	_, err = sessions.Validate(ctx, token)
	require.NoError(t, err)

	var after domain.Session
	require.NoError(t, testDB.DB.Where("user_id = ?", user.ID).First(&after).Error)
	assert.True(t, after.ExpiresAt.Equal(before.ExpiresAt), "recent sessions should not be rewritten")
}

func TestSessionService_Destroy(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(ctx, token))

	resolved, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// Destroying again, or destroying a token that never existed, is a no-op.
	assert.NoError(t, sessions.Destroy(ctx, token))
	assert.NoError(t, sessions.Destroy(ctx, "never-issued"))
	assert.NoError(t, sessions.Destroy(ctx, ""))
}

func TestSessionService_DestroyAllForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().WithEmail("other@example.com").Build(t, testDB.DB)

	tokenA, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)
	tokenB, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)
	tokenOther, err := sessions.Create(ctx, other.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.DestroyAllForUser(ctx, user.ID))

	for _, token := range []string{tokenA, tokenB} {
		resolved, err := sessions.Validate(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, resolved)
	}

	resolved, err := sessions.Validate(ctx, tokenOther)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, other.ID, resolved.ID)
}

func TestSessionService_PurgeExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := newSessionService(repos)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	expiredToken, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	expireSession(t, testDB.DB, user, time.Now().Add(-time.Hour))

	liveToken, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.PurgeExpired(ctx))

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Session{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	resolved, err := sessions.Validate(ctx, liveToken)
	require.NoError(t, err)
	assert.NotNil(t, resolved)

	resolved, err = sessions.Validate(ctx, expiredToken)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func expireSession(t *testing.T, db *gorm.DB, user *domain.User, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&domain.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", at).Error)
}
