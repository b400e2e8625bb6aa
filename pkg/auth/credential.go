package auth

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Credential is a usable OAuth grant produced by one of the strategies
type Credential struct {
	// Strategy names the strategy that produced the credential
	Strategy string
	// Scopes are the scopes the grant covers
	Scopes []string
	// ClientID identifies the OAuth client, empty for hosted identities
	ClientID string
	// Excluded lists requested surfaces the grant deliberately does not cover
	Excluded []Surface

	source oauth2.TokenSource
}

// NewCredential wraps a token source as a credential
func NewCredential(strategy string, source oauth2.TokenSource, scopes []string) *Credential {
	return &Credential{
		Strategy: strategy,
		Scopes:   slices.Clone(scopes),
		source:   source,
	}
}

// TokenSource returns the token source backing the credential
func (c *Credential) TokenSource() oauth2.TokenSource {
	return c.source
}

// HTTPClient returns an authenticated HTTP client
func (c *Credential) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.source)
}

// Covers reports whether the grant includes every scope of the surface
func (c *Credential) Covers(s Surface) bool {
	if slices.Contains(c.Excluded, s) {
		return false
	}
	return hasAllScopes(c.Scopes, surfaceScopes[s])
}

// persistingSource writes refreshed tokens back to the token file
type persistingSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	store  *TokenStore
	stored StoredToken
	logger *zap.Logger
}

func newPersistingSource(base oauth2.TokenSource, store *TokenStore, stored *StoredToken, logger *zap.Logger) *persistingSource {
	return &persistingSource{
		base:   base,
		store:  store,
		stored: *stored,
		logger: logger,
	}
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	if tok.AccessToken != p.stored.Token {
		updated := p.stored.withToken(tok)
		if err := p.store.Save(updated); err != nil {
			// The in-memory token is still good; only persistence failed.
			p.logger.Warn("Failed to persist refreshed token", zap.String("path", p.store.Path()), zap.Error(err))
		} else {
			p.logger.Debug("Persisted refreshed token", zap.String("path", p.store.Path()))
		}
		p.stored = *updated
	}

	return tok, nil
}
