package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// API holds the current session together with the outcome of the last
// authentication attempt. Operations fail fast without a session.
type API struct {
	opts Options

	mu      sync.RWMutex
	session *Session
	err     error
}

// New creates the API and runs the first authentication. A failure is recorded
// rather than returned; check OK and Err.
func New(ctx context.Context, opts Options) *API {
	a := &API{opts: opts.withDefaults()}
	_ = a.InitAuth(ctx)
	return a
}

// InitAuth runs authentication, replacing the current session on success
func (a *API) InitAuth(ctx context.Context) error {
	session, err := Connect(ctx, a.opts)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.opts.Logger.Warn("Authentication failed", zap.Error(err))
		a.session = nil
		a.err = err
		return err
	}
	a.session = session
	a.err = nil
	return nil
}

// EnsureAuth re-runs authentication only when there is no session
func (a *API) EnsureAuth(ctx context.Context) error {
	if a.OK() {
		return nil
	}
	return a.InitAuth(ctx)
}

// OK reports whether a session is available
func (a *API) OK() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// Err returns the last authentication error
func (a *API) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Session returns the current session, or nil
func (a *API) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// TokenPath is where the token file is read from and written to
func (a *API) TokenPath() string {
	return a.opts.tokenStore().Path()
}

// WatchToken blocks until ctx ends, re-running EnsureAuth whenever the token
// file is created or rewritten while there is no session
func (a *API) WatchToken(ctx context.Context) error {
	return auth.WatchTokenFile(ctx, a.TokenPath(), a.opts.Logger, func() {
		if a.OK() {
			return
		}
		if err := a.EnsureAuth(ctx); err == nil {
			a.opts.Logger.Info("Authenticated from new token file", zap.String("path", a.TokenPath()))
		}
	})
}

// Status summarises the authentication state
func (a *API) Status() envelope.Result {
	meta := map[string]any{"token_path": a.TokenPath()}

	session := a.Session()
	if session == nil {
		return envelope.Failure(a.notAuthenticated(), meta)
	}

	cred := session.Credential()
	meta["strategy"] = cred.Strategy
	meta["scopes"] = cred.Scopes
	meta["excluded_surfaces"] = surfaceStrings(cred.Excluded)
	surfaces := surfaceStrings(session.Surfaces())
	return envelope.Success(
		fmt.Sprintf("Authenticated via %s for %d surface(s)", cred.Strategy, len(surfaces)),
		meta,
		envelope.Records(surfaces...),
	)
}

func (a *API) notAuthenticated() error {
	if err := a.Err(); err != nil {
		return fmt.Errorf("%w: %v", envelope.ErrNotAuthenticated, err)
	}
	return envelope.ErrNotAuthenticated
}

// with runs fn against the current session, failing fast without one
func (a *API) with(fn func(*Session) envelope.Result) envelope.Result {
	session := a.Session()
	if session == nil {
		return envelope.Failure(a.notAuthenticated(), nil)
	}
	return fn(session)
}
