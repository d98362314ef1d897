package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewCookieClient returns an HTTP client with a cookie jar, so session
// cookies survive across requests the way a browser would keep them.
func NewCookieClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err, "failed to create cookie jar")
	return &http.Client{Jar: jar}
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorEnvelope verifies an error response carries the uniform envelope
func AssertErrorEnvelope(t *testing.T, resp *http.Response, expectedStatus int, expectedName string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Name       string `json:"name"`
			StatusCode int    `json:"statusCode"`
		} `json:"error"`
	}
	AssertJSONResponse(t, resp, &envelope)

	assert.False(t, envelope.Success, "expected success=false")
	if expectedName != "" {
		require.NotNil(t, envelope.Error, "expected error body")
		assert.Equal(t, expectedName, envelope.Error.Name, "error name mismatch")
		assert.Equal(t, expectedStatus, envelope.Error.StatusCode, "error statusCode mismatch")
	}
}
