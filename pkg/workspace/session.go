package workspace

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/calendarclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/docsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/driveclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/formsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/gmailclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/sheetsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/tasksclient"
	"github.com/jakechorley/google-api-wrapper/pkg/db"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// Session is an authenticated set of service clients. It is immutable once
// built and safe to share between goroutines.
type Session struct {
	credential *auth.Credential
	logger     *zap.Logger

	datasets    db.DatasetStore
	timeZone    string
	downloadDir string

	drive    *driveclient.Client
	docs     *docsclient.Client
	sheets   *sheetsclient.Client
	calendar *calendarclient.Client
	tasks    *tasksclient.Client
	forms    *formsclient.Client
	gmail    *gmailclient.Client
}

// Connect authenticates and builds a session for the requested surfaces
func Connect(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = auth.DefaultStrategies(auth.Options{
			CallbackPort: opts.CallbackPort,
			DeviceFlow:   opts.DeviceFlow,
			Prompt:       opts.Prompt,
			Detector:     opts.Detector,
		}, opts.Logger)
	}

	req := auth.NewRequest(opts.tokenStore(), opts.Client, opts.Interactive, opts.Surfaces...)
	cred, err := auth.Authenticate(ctx, req, opts.Logger, strategies...)
	if err != nil {
		return nil, err
	}

	return NewSession(ctx, cred, opts)
}

// NewSession builds clients for every requested surface the credential covers.
// Surfaces it does not cover get no client and fail with a scope error.
func NewSession(ctx context.Context, cred *auth.Credential, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	s := &Session{
		credential:  cred,
		logger:      opts.Logger,
		datasets:    opts.Datasets,
		timeZone:    opts.DefaultTimeZone,
		downloadDir: opts.DownloadDir,
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(cred.HTTPClient(ctx))}, opts.ClientOptions...)

	var err error
	for _, surface := range opts.Surfaces {
		if !cred.Covers(surface) {
			s.logger.Warn("Credential does not cover surface, skipping client",
				zap.String("surface", string(surface)),
				zap.String("strategy", cred.Strategy))
			continue
		}

		switch surface {
		case auth.SurfaceDrive:
			s.drive, err = driveclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceDocs:
			s.docs, err = docsclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceSheets:
			s.sheets, err = sheetsclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceCalendar:
			s.calendar, err = calendarclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceTasks:
			s.tasks, err = tasksclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceForms:
			s.forms, err = formsclient.NewClient(ctx, clientOpts...)
		case auth.SurfaceGmail:
			s.gmail, err = gmailclient.NewClient(ctx, opts.GmailInterval, clientOpts...)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to build %s client: %w", surface, err)
		}
	}

	s.logger.Debug("Session ready",
		zap.String("strategy", cred.Strategy),
		zap.Strings("surfaces", surfaceStrings(s.Surfaces())))
	return s, nil
}

// Credential returns the credential backing the session
func (s *Session) Credential() *auth.Credential {
	return s.credential
}

// Surfaces lists the surfaces that have a client
func (s *Session) Surfaces() []auth.Surface {
	var surfaces []auth.Surface
	for _, surface := range auth.AllSurfaces {
		if s.has(surface) {
			surfaces = append(surfaces, surface)
		}
	}
	return surfaces
}

func (s *Session) has(surface auth.Surface) bool {
	switch surface {
	case auth.SurfaceDrive:
		return s.drive != nil
	case auth.SurfaceDocs:
		return s.docs != nil
	case auth.SurfaceSheets:
		return s.sheets != nil
	case auth.SurfaceCalendar:
		return s.calendar != nil
	case auth.SurfaceTasks:
		return s.tasks != nil
	case auth.SurfaceForms:
		return s.forms != nil
	case auth.SurfaceGmail:
		return s.gmail != nil
	}
	return false
}

// require returns a scope error when the session has no client for surface
func (s *Session) require(surface auth.Surface) error {
	if s.has(surface) {
		return nil
	}
	if slices.Contains(s.credential.Excluded, surface) {
		return envelope.Scope("%s is not available with the %s credential", surface, s.credential.Strategy)
	}
	return envelope.Scope("%s is not covered by the current grant; delete the token file and re-authenticate", surface)
}

func surfaceStrings(surfaces []auth.Surface) []string {
	names := make([]string, len(surfaces))
	for i, s := range surfaces {
		names[i] = string(s)
	}
	return names
}
