package auth

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/internal/config"
)

// Strategy is one way of acquiring a credential
type Strategy interface {
	Name() string
	// Acquire returns a credential, an error satisfying IsNotApplicable when the
	// strategy's preconditions do not hold, or any other error on failure.
	Acquire(ctx context.Context, req Request) (*Credential, error)
}

// Request carries everything a strategy may need
type Request struct {
	// Surfaces the caller intends to use
	Surfaces []Surface
	// Scopes resolved from Surfaces
	Scopes []string
	// Store is the token file location
	Store *TokenStore
	// Client is the OAuth client identity, nil when none was supplied
	Client *config.OAuthClientConfig
	// Interactive allows strategies that need a human
	Interactive bool
}

// NewRequest builds a request for the given surfaces, resolving their scopes
func NewRequest(store *TokenStore, client *config.OAuthClientConfig, interactive bool, surfaces ...Surface) Request {
	if len(surfaces) == 0 {
		surfaces = AllSurfaces
	}
	return Request{
		Surfaces:    surfaces,
		Scopes:      ResolveScopes(surfaces...),
		Store:       store,
		Client:      client,
		Interactive: interactive,
	}
}

// Options configures the default strategy list
type Options struct {
	// CallbackPort for the local redirect listener; 0 picks a free port
	CallbackPort int
	// DeviceFlow uses the device authorization grant instead of a redirect
	DeviceFlow bool
	// Prompt receives the authorization URL or user code
	Prompt io.Writer
	// Detector reports whether the process runs in a hosted notebook
	Detector HostDetector
	// Finder looks up the host's default credentials
	Finder CredentialFinder
}

// DefaultStrategies returns silent, hosted and interactive, in that order
func DefaultStrategies(opts Options, logger *zap.Logger) []Strategy {
	return []Strategy{
		NewSilentStrategy(logger),
		NewHostedStrategy(opts.Detector, opts.Finder, logger),
		NewInteractiveStrategy(InteractiveOptions{
			CallbackPort: opts.CallbackPort,
			DeviceFlow:   opts.DeviceFlow,
			Prompt:       opts.Prompt,
		}, logger),
	}
}

// Authenticate tries each strategy in order and returns the first credential.
// A strategy that is not applicable or fails hands over to the next one.
func Authenticate(ctx context.Context, req Request, logger *zap.Logger, strategies ...Strategy) (*Credential, error) {
	if len(req.Scopes) == 0 {
		req.Scopes = ResolveScopes(req.Surfaces...)
	}

	logger.Debug("Authenticating",
		zap.Int("strategies", len(strategies)),
		zap.Int("scopes", len(req.Scopes)),
		zap.Bool("interactive", req.Interactive))

	var attempts []error
	for _, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cred, err := strategy.Acquire(ctx, req)
		if err == nil {
			logger.Info("Authenticated",
				zap.String("strategy", strategy.Name()),
				zap.Int("scopes", len(cred.Scopes)))
			return cred, nil
		}

		if IsNotApplicable(err) {
			logger.Debug("Strategy not applicable", zap.String("strategy", strategy.Name()), zap.String("reason", err.Error()))
		} else {
			logger.Warn("Strategy failed", zap.String("strategy", strategy.Name()), zap.Error(err))
		}
		attempts = append(attempts, err)

		// Consent denial is a decision by the user, not a missing path.
		if errors.Is(err, ErrConsentDenied) {
			return nil, err
		}
	}

	if len(attempts) == 0 {
		return nil, &Error{Reason: ReasonNoCredentialPath, Err: fmt.Errorf("no strategies configured")}
	}

	// A single real failure is more useful to the caller than the generic reason.
	var failures []error
	for _, err := range attempts {
		if !IsNotApplicable(err) {
			failures = append(failures, err)
		}
	}
	if len(failures) == 1 {
		var authErr *Error
		if errors.As(failures[0], &authErr) {
			return nil, failures[0]
		}
	}

	return nil, &Error{Reason: ReasonNoCredentialPath, Err: errors.Join(attempts...)}
}
