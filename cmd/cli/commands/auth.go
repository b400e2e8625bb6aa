package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AuthStatusCmd creates the authStatus command
func AuthStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "authStatus",
		Short: "Show how the wrapper is authenticated and which surfaces are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.Status())
		},
	}
}

// EnsureAuthCmd creates the ensureAuth command
func EnsureAuthCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ensureAuth",
		Short: "Retry authentication if there is no session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.API.EnsureAuth(app.Ctx); err != nil {
				app.Logger.Warn("Authentication still unavailable", zap.Error(err))
			}
			return app.Print(app.API.Status())
		},
	}
}
