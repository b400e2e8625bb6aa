package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"

	"github.com/jakechorley/google-api-wrapper/pkg/clients/driveclient"
)

// FolderCopier defines the Drive operations needed to copy files and folders
type FolderCopier interface {
	GetFile(ctx context.Context, fileID string) (*drive.File, error)
	FindByName(ctx context.Context, parentID, name string, foldersOnly bool) (*drive.File, error)
	CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error)
	ListChildren(ctx context.Context, folderID string) ([]*drive.File, error)
	Copy(ctx context.Context, fileID, name, parentID string) (*drive.File, error)
	Delete(ctx context.Context, fileID string) error
}

// CopyOutcome is what happened to a single file
type CopyOutcome string

const (
	OutcomeCopied      CopyOutcome = "copied"
	OutcomeOverwritten CopyOutcome = "overwritten"
	OutcomeSkipped     CopyOutcome = "skipped"
)

// CopyFileResult describes a single file copy
type CopyFileResult struct {
	Outcome CopyOutcome
	Name    string
	// File is the new copy, nil when skipped
	File    *drive.File
	Message string
}

// CopyFolderResult summarises a recursive folder copy
type CopyFolderResult struct {
	NewFolderID string
	Log         []string
	Copied      int
	Overwritten int
	Skipped     int
	Folders     int
	Failed      int
}

// CopyFileInto copies source into folderID under name (source's name when
// empty). When folderID already holds a file with that name, the copy is
// skipped if the existing file was modified strictly after source; otherwise
// the existing file is deleted and replaced.
func CopyFileInto(ctx context.Context, driveClient FolderCopier, logger *zap.Logger, source *drive.File, name, folderID string) (*CopyFileResult, error) {
	if name == "" {
		name = source.Name
	}
	result := &CopyFileResult{Name: name, Outcome: OutcomeCopied}

	existing, err := driveClient.FindByName(ctx, folderID, name, false)
	if err != nil {
		return nil, fmt.Errorf("failed to check destination for %q: %w", name, err)
	}

	if existing != nil {
		newer, err := modifiedAfter(existing, source)
		if err != nil {
			return nil, err
		}
		if newer {
			logger.Debug("Destination is newer, skipping",
				zap.String("name", name),
				zap.String("source_modified", source.ModifiedTime),
				zap.String("destination_modified", existing.ModifiedTime))
			result.Outcome = OutcomeSkipped
			result.Message = fmt.Sprintf("Skipping '%s', destination is newer.", name)
			return result, nil
		}

		logger.Debug("Replacing older destination file", zap.String("name", name), zap.String("file_id", existing.Id))
		if err := driveClient.Delete(ctx, existing.Id); err != nil {
			return nil, fmt.Errorf("failed to replace %q: %w", name, err)
		}
		result.Outcome = OutcomeOverwritten
	}

	copied, err := driveClient.Copy(ctx, source.Id, name, folderID)
	if err != nil {
		return nil, err
	}
	result.File = copied

	if result.Outcome == OutcomeOverwritten {
		result.Message = fmt.Sprintf("Overwrote '%s' in folder ID %s.", name, folderID)
	} else {
		result.Message = fmt.Sprintf("Copied file '%s' to folder ID %s.", name, folderID)
	}
	return result, nil
}

// CopyFolder copies sourceID depth-first into a folder named name under
// destParentID, reusing a same-named folder when one already exists. Files
// follow the CopyFileInto conflict policy. Per-item failures are logged and
// counted; only failing to resolve the top-level folders returns an error.
func CopyFolder(ctx context.Context, driveClient FolderCopier, logger *zap.Logger, sourceID, destParentID, name string) (*CopyFolderResult, error) {
	logger.Debug("Starting folder copy",
		zap.String("source_folder_id", sourceID),
		zap.String("destination_parent_id", destParentID))

	if name == "" {
		source, err := driveClient.GetFile(ctx, sourceID)
		if err != nil {
			return nil, fmt.Errorf("failed to read source folder: %w", err)
		}
		name = source.Name
	}

	result := &CopyFolderResult{}
	folderID, err := ensureFolder(ctx, driveClient, result, name, destParentID)
	if err != nil {
		return result, err
	}
	result.NewFolderID = folderID

	if err := copyChildren(ctx, driveClient, logger, result, sourceID, folderID); err != nil {
		return result, err
	}

	logger.Debug("Folder copy finished",
		zap.String("new_folder_id", result.NewFolderID),
		zap.Int("copied", result.Copied),
		zap.Int("overwritten", result.Overwritten),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func copyChildren(ctx context.Context, driveClient FolderCopier, logger *zap.Logger, result *CopyFolderResult, sourceID, destID string) error {
	children, err := driveClient.ListChildren(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to list folder %s: %w", sourceID, err)
	}

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		if child.MimeType == driveclient.MimeFolder {
			result.Log = append(result.Log, fmt.Sprintf("Recursively copying folder: %s", child.Name))
			subID, err := ensureFolder(ctx, driveClient, result, child.Name, destID)
			if err != nil {
				result.Failed++
				result.Log = append(result.Log, fmt.Sprintf("Error copying folder '%s': %v", child.Name, err))
				continue
			}
			if err := copyChildren(ctx, driveClient, logger, result, child.Id, subID); err != nil {
				result.Failed++
				result.Log = append(result.Log, fmt.Sprintf("Error copying folder '%s': %v", child.Name, err))
			}
			continue
		}

		copied, err := CopyFileInto(ctx, driveClient, logger, child, "", destID)
		if err != nil {
			result.Failed++
			result.Log = append(result.Log, fmt.Sprintf("Error copying file '%s': %v", child.Name, err))
			continue
		}

		switch copied.Outcome {
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeOverwritten:
			result.Overwritten++
		default:
			result.Copied++
		}
		result.Log = append(result.Log, copied.Message)
	}

	return nil
}

// ensureFolder returns the id of the folder called name under parentID, creating it if needed
func ensureFolder(ctx context.Context, driveClient FolderCopier, result *CopyFolderResult, name, parentID string) (string, error) {
	existing, err := driveClient.FindByName(ctx, parentID, name, true)
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if existing != nil {
		result.Log = append(result.Log, fmt.Sprintf("Using existing folder '%s' with ID: %s", name, existing.Id))
		return existing.Id, nil
	}

	created, err := driveClient.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", err
	}
	result.Folders++
	result.Log = append(result.Log, fmt.Sprintf("Created new folder '%s' with ID: %s", name, created.Id))
	return created.Id, nil
}

// modifiedAfter reports whether a was modified strictly after b
func modifiedAfter(a, b *drive.File) (bool, error) {
	at, err := time.Parse(time.RFC3339, a.ModifiedTime)
	if err != nil {
		return false, fmt.Errorf("failed to parse modified time of %q: %w", a.Name, err)
	}
	bt, err := time.Parse(time.RFC3339, b.ModifiedTime)
	if err != nil {
		return false, fmt.Errorf("failed to parse modified time of %q: %w", b.Name, err)
	}
	return at.After(bt), nil
}
