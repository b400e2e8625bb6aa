package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// OAuthClientConfig represents a Google OAuth client file ("Desktop app" or "Web application")
type OAuthClientConfig struct {
	Installed *OAuthClient `json:"installed,omitempty" validate:"required_without=Web"`
	Web       *OAuthClient `json:"web,omitempty" validate:"required_without=Installed"`

	// Source describes where the client identity was read from (file path or env var name)
	Source string `json:"-"`
}

// OAuthClient represents the installed or web section of an OAuth client file
type OAuthClient struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id,omitempty"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris,omitempty" validate:"omitempty,dive,uri"`
}

// Client returns whichever section the file defines, preferring "installed"
func (c *OAuthClientConfig) Client() *OAuthClient {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// ClientID returns the OAuth client id
func (c *OAuthClientConfig) ClientID() string {
	if client := c.Client(); client != nil {
		return client.ClientID
	}
	return ""
}

// LoadOAuthClient resolves the client identity in priority order: the
// GOOGLE_OAUTH_CLIENT_INFO environment variable, the given path, then
// oauth-client.json in the working directory. It returns (nil, nil) when no
// source is present, since a stored token or hosted identity may still work.
func LoadOAuthClient(path string) (*OAuthClientConfig, error) {
	if raw := os.Getenv(EnvClientInfo); raw != "" {
		return ParseOAuthClient([]byte(raw), EnvClientInfo)
	}

	if path != "" {
		return LoadOAuthClientFromPath(path)
	}

	cfg, err := LoadOAuthClientFromPath(DefaultOAuthClientFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return cfg, err
}

// LoadOAuthClientFromPath loads and validates the OAuth client configuration from a specific path
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	return ParseOAuthClient(data, path)
}

// ParseOAuthClient parses and validates client identity JSON
func ParseOAuthClient(data []byte, source string) (*OAuthClientConfig, error) {
	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client from %s: %w", source, err)
	}
	oauthCfg.Source = source

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, err
	}

	return &oauthCfg, nil
}

// ValidateOAuthClient validates the OAuth client configuration
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}

	return nil
}
