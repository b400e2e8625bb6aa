// Package workspace exposes one method per Google Workspace workflow. Every
// method validates its request, makes the remote call and returns an
// envelope.Result.
package workspace

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jakechorley/google-api-wrapper/internal/config"
	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/db"
)

// Options configures authentication and client construction
type Options struct {
	// Surfaces to authenticate for; empty means all
	Surfaces  []auth.Surface
	TokenDir  string
	TokenStem string
	// Client is the OAuth client identity, nil when none was supplied
	Client       *config.OAuthClientConfig
	Interactive  bool
	CallbackPort int
	DeviceFlow   bool
	// Prompt receives authorization URLs; defaults to io.Discard
	Prompt io.Writer
	// Detector overrides hosted notebook detection
	Detector auth.HostDetector
	// Strategies replaces the default silent, hosted, interactive order
	Strategies []auth.Strategy
	// ClientOptions are appended after the authenticated HTTP client
	ClientOptions []option.ClientOption
	// Datasets persists CSV imports; nil disables persistence
	Datasets        db.DatasetStore
	GmailInterval   time.Duration
	DefaultTimeZone string
	DownloadDir     string
	Logger          *zap.Logger
}

// OptionsFromConfig maps the loaded configuration onto Options
func OptionsFromConfig(cfg *config.Config, client *config.OAuthClientConfig, interactive bool) (Options, error) {
	surfaces, err := auth.ParseSurfaces(cfg.Surfaces)
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse surfaces: %w", err)
	}

	return Options{
		Surfaces:        surfaces,
		TokenDir:        cfg.TokenDir,
		TokenStem:       cfg.TokenStem,
		Client:          client,
		Interactive:     interactive,
		CallbackPort:    cfg.CallbackPort,
		DeviceFlow:      cfg.DeviceFlow,
		GmailInterval:   cfg.SendInterval(),
		DefaultTimeZone: cfg.DefaultTimeZone,
		DownloadDir:     cfg.DownloadDir,
	}, nil
}

func (o Options) withDefaults() Options {
	if len(o.Surfaces) == 0 {
		o.Surfaces = auth.AllSurfaces
	}
	if o.TokenStem == "" {
		o.TokenStem = config.DefaultTokenStem
	}
	if o.TokenDir == "" {
		o.TokenDir = config.DefaultTokenDir
	}
	if o.Prompt == nil {
		o.Prompt = io.Discard
	}
	if o.DefaultTimeZone == "" {
		o.DefaultTimeZone = config.DefaultTimeZone
	}
	if o.DownloadDir == "" {
		o.DownloadDir = "."
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// tokenStore returns the token file location for these options
func (o Options) tokenStore() *auth.TokenStore {
	return auth.NewTokenStore(o.TokenDir, o.TokenStem)
}
