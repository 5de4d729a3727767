package gcal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/runoshun/timegrid/internal/domain"
)

func writeSecrets(t *testing.T, tokenURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.SecretFileName)
	content := fmt.Sprintf(`{"installed":{
		"client_id":"client-123",
		"client_secret":"s3cret",
		"redirect_uris":["urn:ietf:wg:oauth:2.0:oob"],
		"auth_uri":"https://accounts.example.com/auth",
		"token_uri":%q}}`, tokenURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewAuthenticator_MissingSecrets(t *testing.T) {
	_, err := NewAuthenticator(filepath.Join(t.TempDir(), "nope.json"), "")
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	_, err = NewAuthenticator("", "")
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestAuthenticator_AuthURL(t *testing.T) {
	auth, err := NewAuthenticator(writeSecrets(t, "https://accounts.example.com/token"), "")
	require.NoError(t, err)

	url := auth.AuthURL("state-1")

	assert.Contains(t, url, "https://accounts.example.com/auth?")
	assert.Contains(t, url, "client_id=client-123")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "state=state-1")
	assert.Contains(t, url, "redirect_uri=http%3A%2F%2Flocalhost")
}

func TestAuthenticator_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	defer srv.Close()

	tokenPath := filepath.Join(t.TempDir(), "nested", domain.TokenFileName)
	auth, err := NewAuthenticator(writeSecrets(t, srv.URL), tokenPath)
	require.NoError(t, err)

	require.NoError(t, auth.Exchange(context.Background(), "the-code"))
	assert.Equal(t, tokenPath, auth.TokenPath())

	tok, err := LoadToken(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)

	info, err := os.Stat(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadToken(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadToken(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadToken(bad)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoCredentials)

	good := filepath.Join(dir, "good.json")
	expiry := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, SaveToken(good, &oauth2.Token{AccessToken: "x", Expiry: expiry}))
	tok, err := LoadToken(good)
	require.NoError(t, err)
	assert.True(t, expiry.Equal(tok.Expiry))
}
