package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/pkg/clients/driveclient"
)

const (
	older = "2024-01-01T10:00:00Z"
	newer = "2024-03-01T10:00:00Z"
)

func TestCopyFileInto_NoConflict(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", older)

	result, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "", "dest")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCopied, result.Outcome)
	require.NotNil(t, result.File)
	assert.Equal(t, "report.pdf", result.File.Name)
	assert.Equal(t, []string{"dest"}, result.File.Parents)
	assert.Empty(t, fake.deleted)
}

func TestCopyFileInto_DestinationNewerIsSkipped(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", older)
	fake.add("existing", "report.pdf", "application/pdf", "dest", newer)

	result, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "", "dest")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Nil(t, result.File)
	assert.Contains(t, result.Message, "Skipping 'report.pdf'")
	assert.Contains(t, fake.files, "existing")
}

func TestCopyFileInto_DestinationOlderIsOverwritten(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", newer)
	fake.add("existing", "report.pdf", "application/pdf", "dest", older)

	result, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "", "dest")
	require.NoError(t, err)

	assert.Equal(t, OutcomeOverwritten, result.Outcome)
	assert.Equal(t, []string{"existing"}, fake.deleted)
	assert.NotContains(t, fake.files, "existing")
}

func TestCopyFileInto_EqualTimestampsOverwrite(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", older)
	fake.add("existing", "report.pdf", "application/pdf", "dest", older)

	result, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "", "dest")
	require.NoError(t, err)

	assert.Equal(t, OutcomeOverwritten, result.Outcome)
}

func TestCopyFileInto_RenameChecksNewName(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", older)
	fake.add("existing", "report.pdf", "application/pdf", "dest", newer)

	result, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "renamed.pdf", "dest")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCopied, result.Outcome)
	assert.Equal(t, "renamed.pdf", result.File.Name)
}

func TestCopyFileInto_BadTimestamp(t *testing.T) {
	fake := newFakeDrive()
	source := fake.add("src", "report.pdf", "application/pdf", "from", "yesterday")
	fake.add("existing", "report.pdf", "application/pdf", "dest", newer)

	_, err := CopyFileInto(context.Background(), fake, zap.NewNop(), source, "", "dest")
	assert.ErrorContains(t, err, "failed to parse modified time")
}

func TestCopyFolder_Recursive(t *testing.T) {
	fake := newFakeDrive()
	fake.add("src", "Project", driveclient.MimeFolder, "root", older)
	fake.add("a-file", "notes.txt", "text/plain", "src", older)
	fake.add("b-sub", "Assets", driveclient.MimeFolder, "src", older)
	fake.add("c-img", "logo.png", "image/png", "b-sub", older)

	result, err := CopyFolder(context.Background(), fake, zap.NewNop(), "src", "backup", "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 2, result.Folders)
	assert.Zero(t, result.Failed)

	copiedRoot := fake.files[result.NewFolderID]
	require.NotNil(t, copiedRoot)
	assert.Equal(t, "Project", copiedRoot.Name)
	assert.Equal(t, []string{"backup"}, copiedRoot.Parents)

	sub, err := fake.FindByName(context.Background(), result.NewFolderID, "Assets", true)
	require.NoError(t, err)
	require.NotNil(t, sub)
	logo, err := fake.FindByName(context.Background(), sub.Id, "logo.png", false)
	require.NoError(t, err)
	assert.NotNil(t, logo)

	log := strings.Join(result.Log, "\n")
	assert.Contains(t, log, "Created new folder 'Project'")
	assert.Contains(t, log, "Recursively copying folder: Assets")
	assert.Contains(t, log, "Copied file 'notes.txt'")
}

func TestCopyFolder_ReusesExistingFolderAndAppliesPolicy(t *testing.T) {
	fake := newFakeDrive()
	fake.add("a-keep", "keep.txt", "text/plain", "src", older)
	fake.add("b-update", "update.txt", "text/plain", "src", newer)
	fake.add("dest", "Copy", driveclient.MimeFolder, "backup", older)
	fake.add("dest-keep", "keep.txt", "text/plain", "dest", newer)
	fake.add("dest-update", "update.txt", "text/plain", "dest", older)

	result, err := CopyFolder(context.Background(), fake, zap.NewNop(), "src", "backup", "Copy")
	require.NoError(t, err)

	assert.Equal(t, "dest", result.NewFolderID)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Overwritten)
	assert.Zero(t, result.Folders)
	assert.Equal(t, []string{"dest-update"}, fake.deleted)

	assert.Equal(t, []string{
		"Using existing folder 'Copy' with ID: dest",
		"Skipping 'keep.txt', destination is newer.",
		"Overwrote 'update.txt' in folder ID dest.",
	}, result.Log)
}

func TestCopyFolder_FileFailureIsLoggedAndCounted(t *testing.T) {
	fake := newFakeDrive()
	fake.add("a-bad", "bad.txt", "text/plain", "src", older)
	fake.add("b-good", "good.txt", "text/plain", "src", older)
	fake.copyErr["a-bad"] = errors.New("quota exceeded")

	result, err := CopyFolder(context.Background(), fake, zap.NewNop(), "src", "backup", "Copy")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Copied)
	assert.Contains(t, strings.Join(result.Log, "\n"), "Error copying file 'bad.txt': quota exceeded")
}

func TestCopyFolder_MissingSource(t *testing.T) {
	fake := newFakeDrive()

	_, err := CopyFolder(context.Background(), fake, zap.NewNop(), "missing", "backup", "")
	assert.ErrorContains(t, err, "failed to read source folder")
}
