package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Acquire(ctx context.Context, req auth.Request) (*auth.Credential, error) {
	return nil, errors.New("no credentials here")
}

func unauthenticatedApp(t *testing.T) (*AppContext, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	api := workspace.New(context.Background(), workspace.Options{
		TokenDir:   t.TempDir(),
		Strategies: []auth.Strategy{failingStrategy{}},
	})
	return &AppContext{API: api, Logger: zap.NewNop(), Ctx: context.Background(), Out: out}, out
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) {
	t.Helper()
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
}

func TestPrint_MarksFailure(t *testing.T) {
	app, out := unauthenticatedApp(t)

	require.NoError(t, app.Print(envelope.Success("fine", nil, nil)))
	assert.False(t, app.Failed)

	require.NoError(t, app.Print(envelope.Failure(envelope.Validation("bad"), nil)))
	assert.True(t, app.Failed)

	decoder := json.NewDecoder(out)
	var first, second map[string]any
	require.NoError(t, decoder.Decode(&first))
	require.NoError(t, decoder.Decode(&second))
	assert.Equal(t, "success", first["status"])
	assert.Equal(t, "validation", second["error_kind"])
}

func TestCommands_ReportMissingAuthentication(t *testing.T) {
	app, out := unauthenticatedApp(t)

	execute(t, ListSheetsCmd(app), "sheet-1")

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, "auth", result["error_kind"])
	assert.True(t, app.Failed)
}

func TestParseMarkdownCmd_WorksWithoutAuthentication(t *testing.T) {
	app, out := unauthenticatedApp(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\nbody"), 0o644))

	execute(t, ParseMarkdownCmd(app), path)

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "success", result["status"])
	assert.False(t, app.Failed)
}

func TestAddQuestionsCmd_RejectsBadJSON(t *testing.T) {
	app, _ := unauthenticatedApp(t)
	path := filepath.Join(t.TempDir(), "requests.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cmd := AddQuestionsCmd(app)
	cmd.SetArgs([]string{"form-1", path})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	assert.ErrorContains(t, cmd.Execute(), "failed to parse")
}
