package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// FilePerms restricts token files to owner-only read/write.
const FilePerms = 0o600

// DirPerms is used when creating the token directory.
const DirPerms = 0o700

// StoredToken is the on-disk form of an OAuth grant. It carries the client id
// and secret so a refresh can happen without the client identity file.
type StoredToken struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	TokenURI     string    `json:"token_uri,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Scopes       []string  `json:"scopes"`
}

// OAuth2Token converts the stored grant into an oauth2.Token
func (t *StoredToken) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.Token,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// OAuth2Config rebuilds the client configuration needed to refresh this grant
func (t *StoredToken) OAuth2Config() *oauth2.Config {
	endpoint := google.Endpoint
	if t.TokenURI != "" {
		endpoint.TokenURL = t.TokenURI
	}
	return &oauth2.Config{
		ClientID:     t.ClientID,
		ClientSecret: t.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       t.Scopes,
	}
}

// withToken returns a copy of t holding the values of tok
func (t StoredToken) withToken(tok *oauth2.Token) *StoredToken {
	t.Token = tok.AccessToken
	if tok.RefreshToken != "" {
		t.RefreshToken = tok.RefreshToken
	}
	if tok.TokenType != "" {
		t.TokenType = tok.TokenType
	}
	t.Expiry = tok.Expiry
	return &t
}

// TokenStore reads and writes one token file. It does no locking: two
// processes sharing a token path is not supported.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store for <dir>/<stem>.json
func NewTokenStore(dir, stem string) *TokenStore {
	return &TokenStore{path: filepath.Join(dir, stem+".json")}
}

// Path returns the token file location
func (s *TokenStore) Path() string {
	return s.path
}

// Exists reports whether a token file is present
func (s *TokenStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the token file. Returns (nil, nil) if the file does not exist.
func (s *TokenStore) Load() (*StoredToken, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}

	var stored StoredToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", s.path, err)
	}
	if stored.Token == "" && stored.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s holds neither an access nor a refresh token", s.path)
	}

	return &stored, nil
}

// Save writes the token file atomically (temp file + rename) with 0600 permissions
func (s *TokenStore) Save(stored *StoredToken) error {
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, DirPerms); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync token file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to move token file into place: %w", err)
	}

	success = true
	return nil
}

// Delete removes the token file. A missing file is not an error.
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}
