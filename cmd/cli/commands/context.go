package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/internal/config"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	API    *workspace.API
	Logger *zap.Logger
	Ctx    context.Context
	// Out receives the JSON result of each command
	Out io.Writer
	// Failed is set once any command returns an error result
	Failed bool
}

// Print writes the result as indented JSON and records failures
func (app *AppContext) Print(result envelope.Result) error {
	data, err := result.JSON()
	if err != nil {
		return err
	}

	if result.Status == envelope.StatusError {
		app.Failed = true
		app.Logger.Debug("Command returned an error result",
			zap.String("kind", string(result.Kind)),
			zap.String("message", result.Message))
	}

	out := app.Out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// readJSONFile decodes a JSON file into v; "-" reads stdin
func readJSONFile(path string, v any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
