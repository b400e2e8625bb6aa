package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const StrategySilent = "silent"

// SilentStrategy reuses the stored token, refreshing it when expired
type SilentStrategy struct {
	logger *zap.Logger
}

func NewSilentStrategy(logger *zap.Logger) *SilentStrategy {
	return &SilentStrategy{logger: logger}
}

func (s *SilentStrategy) Name() string {
	return StrategySilent
}

func (s *SilentStrategy) Acquire(ctx context.Context, req Request) (*Credential, error) {
	if req.Store == nil {
		return nil, skip(StrategySilent, "no token store configured")
	}

	stored, err := req.Store.Load()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, skip(StrategySilent, "no token file at %s", req.Store.Path())
	}

	// The file is left in place: deleting it is the user's call.
	if !hasAllScopes(stored.Scopes, req.Scopes) {
		s.logger.Warn("Stored token does not cover the requested scopes; delete it to re-consent",
			zap.String("path", req.Store.Path()),
			zap.Int("stored_scopes", len(stored.Scopes)),
			zap.Int("requested_scopes", len(req.Scopes)))
		return nil, skip(StrategySilent, "stored token at %s does not cover the requested scopes", req.Store.Path())
	}

	tok := stored.OAuth2Token()
	if !tok.Valid() && tok.RefreshToken == "" {
		return nil, skip(StrategySilent, "stored token is expired and has no refresh token")
	}

	base := stored.OAuth2Config().TokenSource(ctx, tok)
	if !tok.Valid() {
		s.logger.Debug("Refreshing stored token", zap.String("path", req.Store.Path()))
		refreshed, err := base.Token()
		if err != nil {
			return nil, &Error{Reason: ReasonRefreshFailed, Err: err}
		}
		if err := req.Store.Save(stored.withToken(refreshed)); err != nil {
			return nil, fmt.Errorf("failed to save refreshed token: %w", err)
		}
		stored = stored.withToken(refreshed)
	}

	source := newPersistingSource(base, req.Store, stored, s.logger)
	cred := NewCredential(StrategySilent, source, stored.Scopes)
	cred.ClientID = stored.ClientID
	return cred, nil
}
