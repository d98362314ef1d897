package handlers_test

import (
	"net/http"
	"testing"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileUpdate(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().
		WithEmail("profile@example.com").
		SignupAndLogin(t, ts)

	t.Run("updates supplied fields only", func(t *testing.T) {
		resp := putJSON(t, client, ts.APIURL("/user"), map[string]string{
			"displayName": "The Profile",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "The Profile", body.Data["displayName"])
		assert.Equal(t, "profile@example.com", body.Data["email"])
	})

	t.Run("rejects an empty username", func(t *testing.T) {
		resp := putJSON(t, client, ts.APIURL("/user"), map[string]string{
			"username": "",
		})
		defer resp.Body.Close()
		testutil.AssertErrorEnvelope(t, resp, http.StatusBadRequest, "ValidationError")
	})
}

func TestUserAccountDeletion(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, client := testutil.NewUserBuilder().
		WithEmail("leaving@example.com").
		SignupAndLogin(t, ts)

	resp := doDelete(t, client, ts.APIURL("/user"))
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The session died with the account.
	me, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer me.Body.Close()
	testutil.AssertStatusCode(t, me, http.StatusUnauthorized)

	var count int64
	require.NoError(t, ts.DB.DB.Model(&domain.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
