package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const StrategyHosted = "hosted"

// HostDetector reports whether the process runs inside a hosted notebook
// whose identity broker can mint user credentials.
type HostDetector func(ctx context.Context) bool

// CredentialFinder returns the host's default credentials for scopes
type CredentialFinder func(ctx context.Context, scopes ...string) (*google.Credentials, error)

var colabMarkers = []string{"COLAB_RELEASE_TAG", "COLAB_BACKEND_VERSION", "COLAB_JUPYTER_IP"}

var jupyterMarkers = []string{"JPY_PARENT_PID", "JUPYTERHUB_API_URL", "JPY_SESSION_NAME"}

// DetectNotebookHost looks for Colab's environment, or a Jupyter kernel running
// on a Compute Engine VM (managed notebooks).
func DetectNotebookHost(ctx context.Context) bool {
	if hasAnyEnv(colabMarkers) {
		return true
	}
	if !hasAnyEnv(jupyterMarkers) {
		return false
	}
	return metadata.OnGCEWithContext(ctx)
}

func hasAnyEnv(names []string) bool {
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) != "" {
			return true
		}
	}
	return false
}

// HostedStrategy delegates to the notebook host's identity broker. Calendar,
// Forms and Tasks scopes are never requested on this path.
type HostedStrategy struct {
	detect HostDetector
	find   CredentialFinder
	logger *zap.Logger
}

// NewHostedStrategy builds the strategy; nil arguments use the real host checks
func NewHostedStrategy(detect HostDetector, find CredentialFinder, logger *zap.Logger) *HostedStrategy {
	if detect == nil {
		detect = DetectNotebookHost
	}
	if find == nil {
		find = google.FindDefaultCredentials
	}
	return &HostedStrategy{detect: detect, find: find, logger: logger}
}

func (h *HostedStrategy) Name() string {
	return StrategyHosted
}

func (h *HostedStrategy) Acquire(ctx context.Context, req Request) (*Credential, error) {
	if req.Client != nil {
		return nil, skip(StrategyHosted, "a client identity was supplied")
	}
	if !h.detect(ctx) {
		return nil, skip(StrategyHosted, "not running in a hosted notebook")
	}

	scopes, excluded := HostedScopes(req.Surfaces...)
	if len(scopes) == 0 {
		return nil, skip(StrategyHosted, "none of the requested surfaces are available to the hosted identity")
	}
	if len(excluded) > 0 {
		h.logger.Warn("Hosted identity does not cover some requested surfaces",
			zap.Strings("excluded", surfaceNames(excluded)))
	}

	creds, err := h.find(ctx, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to find hosted credentials: %w", err)
	}

	cred := NewCredential(StrategyHosted, creds.TokenSource, scopes)
	cred.Excluded = excluded
	return cred, nil
}

func surfaceNames(surfaces []Surface) []string {
	names := make([]string, len(surfaces))
	for i, s := range surfaces {
		names[i] = string(s)
	}
	return names
}
