package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const secrets = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"secret",
"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",
"redirect_uris":["http://localhost"]}}`

func TestRedirectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:6789/oauth2callback", redirectURL("urn:ietf:wg:oauth:2.0:oob"))
	assert.Equal(t, "http://localhost:6789", redirectURL("http://localhost"))
	assert.Equal(t, "http://127.0.0.1:6789/cb", redirectURL("http://127.0.0.1:9000/cb"))
	assert.Equal(t, "https://example.com/cb", redirectURL("https://example.com/cb"))
}

func TestGetConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(secrets), 0600))

	cfg, err := GetConfig(dir, Scopes)
	require.NoError(t, err)
	assert.Equal(t, "id.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, "http://localhost:6789", cfg.RedirectURL)
	assert.Equal(t, Scopes, cfg.Scopes)
}

func TestGetConfigMissingSecrets(t *testing.T) {
	_, err := GetConfig(t.TempDir(), Scopes)
	assert.ErrorContains(t, err, ClientSecretsFile)
}

func TestTokenRoundTripAndReset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TokenFile)
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, saveToken(path, tok))

	loaded, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.AccessToken)
	assert.Equal(t, "r", loaded.RefreshToken)

	require.NoError(t, Reset(dir))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, Reset(dir))
}
