package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/cmd/cli/commands"
	"github.com/jakechorley/google-api-wrapper/internal/config"
	"github.com/jakechorley/google-api-wrapper/pkg/db"
	"github.com/jakechorley/google-api-wrapper/pkg/postgres"
	"github.com/jakechorley/google-api-wrapper/pkg/utils/logging"
	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

var (
	env        string
	configPath string
	surfaces   []string
	database   *postgres.DB
	app        = &commands.AppContext{Ctx: context.Background()}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gapi",
		Short: "Google Workspace wrapper - Drive, Docs, Sheets, Calendar, Tasks, Forms and Gmail",
		Long: `A CLI over the Google Workspace APIs. Every command prints a JSON result
with a status, a message and the response data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment suffix of the config file (test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file")
	rootCmd.PersistentFlags().StringSliceVar(&surfaces, "surfaces", nil, "Surfaces to authenticate for (defaults to the config, then all)")

	rootCmd.AddCommand(commands.AuthStatusCmd(app))
	rootCmd.AddCommand(commands.EnsureAuthCmd(app))

	rootCmd.AddCommand(commands.ExploreFolderCmd(app))
	rootCmd.AddCommand(commands.CreateFolderCmd(app))
	rootCmd.AddCommand(commands.UploadFileCmd(app))
	rootCmd.AddCommand(commands.CreateDocCmd(app))
	rootCmd.AddCommand(commands.MoveFileCmd(app))
	rootCmd.AddCommand(commands.CopyFileCmd(app))
	rootCmd.AddCommand(commands.CopyFolderCmd(app))
	rootCmd.AddCommand(commands.FetchFileCmd(app))
	rootCmd.AddCommand(commands.DownloadFileCmd(app))
	rootCmd.AddCommand(commands.CSVDataCmd(app))
	rootCmd.AddCommand(commands.GetDatasetCmd(app))

	rootCmd.AddCommand(commands.WriteMarkdownCmd(app))
	rootCmd.AddCommand(commands.ExtractMarkdownCmd(app))
	rootCmd.AddCommand(commands.ParseMarkdownCmd(app))

	rootCmd.AddCommand(commands.ListSheetsCmd(app))
	rootCmd.AddCommand(commands.AddSheetCmd(app))

	rootCmd.AddCommand(commands.CreateEventCmd(app))
	rootCmd.AddCommand(commands.ListEventsCmd(app))
	rootCmd.AddCommand(commands.DeleteEventsCmd(app))

	rootCmd.AddCommand(commands.CreateTaskCmd(app))

	rootCmd.AddCommand(commands.CreateFormCmd(app))
	rootCmd.AddCommand(commands.SetEmailCollectionCmd(app))
	rootCmd.AddCommand(commands.AddQuestionsCmd(app))
	rootCmd.AddCommand(commands.FormResponsesCmd(app))

	rootCmd.AddCommand(commands.SendEmailCmd(app))

	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if app.Failed {
		os.Exit(1)
	}
}

// initApp sets up logger, config, dataset storage and authentication.
// Authentication failure is not fatal: commands report it in their result.
func initApp() error {
	var err error

	// Load configuration
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(surfaces) > 0 {
		cfg.Surfaces = surfaces
	}
	app.Cfg = cfg

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Configuration loaded", zap.String("environment", env), zap.String("token_path", cfg.TokenPath()))

	// Load OAuth client configuration
	oauthCfg, err := config.LoadOAuthClient(cfg.OAuthClientFile)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	if oauthCfg == nil {
		app.Logger.Debug("No OAuth client configured, only stored or hosted credentials can be used")
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if cfg.Interactive != nil {
		interactive = *cfg.Interactive
	}

	opts, err := workspace.OptionsFromConfig(cfg, oauthCfg, interactive)
	if err != nil {
		return err
	}
	opts.Prompt = os.Stderr
	opts.Logger = app.Logger

	// Initialize dataset storage
	if cfg.DatabaseURL != "" {
		app.Logger.Info("Connecting to database")
		database, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		applied, err := database.RunMigrations(app.Ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Logger.Debug("Database ready", zap.Strings("applied_migrations", applied))
		opts.Datasets = database
	} else {
		opts.Datasets = db.NewMemoryStore()
	}

	// Authenticate
	app.API = workspace.New(app.Ctx, opts)
	if err := app.API.Err(); err != nil {
		app.Logger.Warn("Not authenticated, commands will report the failure", zap.Error(err))
	}

	return nil
}
