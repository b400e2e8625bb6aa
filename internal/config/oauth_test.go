package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installedClientJSON = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func validClient() *OAuthClient {
	return &OAuthClient{
		ClientID:     "test-client-id.apps.googleusercontent.com",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "test-secret",
		RedirectURIs: []string{"http://localhost"},
	}
}

func TestValidateOAuthClient_ValidInstalled(t *testing.T) {
	cfg := &OAuthClientConfig{Installed: validClient()}

	err := ValidateOAuthClient(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.ClientID())
}

func TestValidateOAuthClient_ValidWeb(t *testing.T) {
	cfg := &OAuthClientConfig{Web: validClient()}

	err := ValidateOAuthClient(cfg)
	assert.NoError(t, err)
	assert.Same(t, cfg.Web, cfg.Client())
}

func TestValidateOAuthClient_NoSection(t *testing.T) {
	cfg := &OAuthClientConfig{}

	err := ValidateOAuthClient(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_MissingClientID(t *testing.T) {
	client := validClient()
	client.ClientID = ""
	cfg := &OAuthClientConfig{Installed: client}

	err := ValidateOAuthClient(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_InvalidURL(t *testing.T) {
	client := validClient()
	client.AuthURI = "not-a-valid-url"
	cfg := &OAuthClientConfig{Installed: client}

	err := ValidateOAuthClient(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadOAuthClientFromPath_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "oauth-client.json")

	err := os.WriteFile(oauthPath, []byte(installedClientJSON), 0644)
	require.NoError(t, err)

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	require.NoError(t, err)
	require.NotNil(t, cfg.Installed)

	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, "test-project", cfg.Installed.ProjectID)
	assert.Equal(t, oauthPath, cfg.Source)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "oauth-client.json")

	err := os.WriteFile(oauthPath, []byte(`{invalid json`), 0644)
	require.NoError(t, err)

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse oauth client")
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	cfg, err := LoadOAuthClientFromPath("/nonexistent/path/oauth-client.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read oauth client file")
}

func TestLoadOAuthClient_PrefersEnvironment(t *testing.T) {
	t.Setenv(EnvClientInfo, installedClientJSON)

	cfg, err := LoadOAuthClient("/nonexistent/path/oauth-client.json")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, EnvClientInfo, cfg.Source)
}

func TestLoadOAuthClient_NoSourceIsNotAnError(t *testing.T) {
	t.Setenv(EnvClientInfo, "")
	t.Chdir(t.TempDir())

	cfg, err := LoadOAuthClient("")
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadOAuthClient_DefaultFile(t *testing.T) {
	t.Setenv(EnvClientInfo, "")
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	err := os.WriteFile(DefaultOAuthClientFile, []byte(installedClientJSON), 0644)
	require.NoError(t, err)

	cfg, err := LoadOAuthClient("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultOAuthClientFile, cfg.Source)
}

func TestLoadOAuthClient_ExplicitPathMissing(t *testing.T) {
	t.Setenv(EnvClientInfo, "")

	cfg, err := LoadOAuthClient("/nonexistent/path/client.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
