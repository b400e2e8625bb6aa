package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/google-api-wrapper/internal/config"
)

const StrategyInteractive = "interactive"

// InteractiveOptions configures the consent flow
type InteractiveOptions struct {
	CallbackPort int
	DeviceFlow   bool
	Prompt       io.Writer
	// Timeout bounds the wait for the user; zero means five minutes
	Timeout time.Duration
}

// InteractiveStrategy runs the installed-app consent flow and saves the new token
type InteractiveStrategy struct {
	opts   InteractiveOptions
	logger *zap.Logger
}

func NewInteractiveStrategy(opts InteractiveOptions, logger *zap.Logger) *InteractiveStrategy {
	if opts.Prompt == nil {
		opts.Prompt = os.Stdout
	}
	if opts.Timeout == 0 {
		opts.Timeout = authTimeout
	}
	return &InteractiveStrategy{opts: opts, logger: logger}
}

func (s *InteractiveStrategy) Name() string {
	return StrategyInteractive
}

func (s *InteractiveStrategy) Acquire(ctx context.Context, req Request) (*Credential, error) {
	if !req.Interactive {
		tokenPath := "the token path"
		if req.Store != nil {
			tokenPath = req.Store.Path()
		}
		return nil, skip(StrategyInteractive, "interactive consent is disabled; place a token at %s or enable interactive mode", tokenPath)
	}
	if req.Client == nil || req.Client.Client() == nil {
		return nil, skip(StrategyInteractive, "no OAuth client identity supplied (set %s or provide %s)", config.EnvClientInfo, config.DefaultOAuthClientFile)
	}

	oauthConfig := OAuthConfig(req.Client.Client(), req.Scopes)

	var (
		tok *oauth2.Token
		err error
	)
	if s.opts.DeviceFlow {
		tok, err = s.deviceFlow(ctx, oauthConfig)
	} else {
		tok, err = s.redirectFlow(ctx, oauthConfig)
	}
	if err != nil {
		return nil, err
	}

	granted := grantedScopes(tok, req.Scopes)
	stored := (&StoredToken{
		TokenURI:     oauthConfig.Endpoint.TokenURL,
		ClientID:     oauthConfig.ClientID,
		ClientSecret: oauthConfig.ClientSecret,
		Scopes:       granted,
	}).withToken(tok)

	if req.Store != nil {
		if err := req.Store.Save(stored); err != nil {
			return nil, fmt.Errorf("failed to save token: %w", err)
		}
		s.logger.Info("Saved new token", zap.String("path", req.Store.Path()), zap.Int("scopes", len(granted)))
	}

	var source oauth2.TokenSource = oauthConfig.TokenSource(ctx, tok)
	if req.Store != nil {
		source = newPersistingSource(source, req.Store, stored, s.logger)
	}

	cred := NewCredential(StrategyInteractive, source, granted)
	cred.ClientID = oauthConfig.ClientID
	return cred, nil
}

// OAuthConfig builds the oauth2 configuration for a client identity
func OAuthConfig(client *config.OAuthClient, scopes []string) *oauth2.Config {
	endpoint := google.Endpoint
	if client.AuthURI != "" {
		endpoint.AuthURL = client.AuthURI
	}
	if client.TokenURI != "" {
		endpoint.TokenURL = client.TokenURI
	}
	return &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

func (s *InteractiveStrategy) redirectFlow(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	state := uuid.NewString()
	server, err := startCallbackServer(s.opts.CallbackPort, state)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := server.Close(); err != nil {
			s.logger.Debug("Failed to shut down callback server", zap.Error(err))
		}
	}()

	oauthConfig.RedirectURL = server.RedirectURL()
	verifier := oauth2.GenerateVerifier()

	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.S256ChallengeOption(verifier))
	fmt.Fprintf(s.opts.Prompt, "\nVisit this URL to authorize the application:\n%s\n\n", authURL)
	s.logger.Debug("Waiting for oauth callback", zap.String("redirect_url", oauthConfig.RedirectURL))

	code, err := server.Wait(ctx, s.opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	tok, err := oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return tok, nil
}

func (s *InteractiveStrategy) deviceFlow(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	if oauthConfig.Endpoint.DeviceAuthURL == "" {
		oauthConfig.Endpoint.DeviceAuthURL = google.Endpoint.DeviceAuthURL
	}

	resp, err := oauthConfig.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start device authorization: %w", err)
	}
	fmt.Fprintf(s.opts.Prompt, "\nVisit %s and enter the code: %s\n\n", resp.VerificationURI, resp.UserCode)

	timeoutCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	tok, err := oauthConfig.DeviceAccessToken(timeoutCtx, resp)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "access_denied" {
			return nil, &Error{Reason: ReasonConsentDenied, Err: err}
		}
		return nil, fmt.Errorf("failed to complete device authorization: %w", err)
	}
	return tok, nil
}

// grantedScopes reads the scope list the token endpoint returned, falling back
// to the requested scopes when the response carries none.
func grantedScopes(tok *oauth2.Token, requested []string) []string {
	raw, _ := tok.Extra("scope").(string)
	if strings.TrimSpace(raw) == "" {
		return requested
	}
	return strings.Fields(raw)
}
