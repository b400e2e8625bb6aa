package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// ExploreFolderCmd creates the exploreFolder command
func ExploreFolderCmd(app *AppContext) *cobra.Command {
	var req workspace.ExploreFolderRequest
	cmd := &cobra.Command{
		Use:   "exploreFolder [folder_id]",
		Short: "List the items in a folder, or search all of Drive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FolderID = ""
			if len(args) > 0 {
				req.FolderID = args[0]
			}
			return app.Print(app.API.ExploreFolder(app.Ctx, req))
		},
	}

	cmd.Flags().StringVarP(&req.Query, "query", "q", "", "Only items whose name contains this text")
	cmd.Flags().StringSliceVar(&req.MimeTypes, "mime-type", nil, "Only items of these MIME types")
	cmd.Flags().BoolVar(&req.OnlyFolders, "only-folders", false, "Only folders")
	cmd.Flags().StringVar(&req.SharedDriveID, "shared-drive", "", "Search this shared drive")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 10, "Items requested per page (max 1000)")

	return cmd
}

// CreateFolderCmd creates the createFolder command
func CreateFolderCmd(app *AppContext) *cobra.Command {
	var req workspace.CreateFolderRequest
	cmd := &cobra.Command{
		Use:   "createFolder <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return app.Print(app.API.CreateFolder(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.ParentID, "parent", "", "Parent folder ID (defaults to My Drive)")

	return cmd
}

// UploadFileCmd creates the uploadFile command
func UploadFileCmd(app *AppContext) *cobra.Command {
	var req workspace.UploadFileRequest
	cmd := &cobra.Command{
		Use:   "uploadFile <path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			return app.Print(app.API.UploadFile(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Name in Drive (defaults to the file name)")
	cmd.Flags().StringVar(&req.ParentID, "parent", "", "Parent folder ID")
	cmd.Flags().StringVar(&req.MimeType, "mime-type", "", "MIME type (guessed from the extension by default)")

	return cmd
}

// CreateDocCmd creates the createDoc command
func CreateDocCmd(app *AppContext) *cobra.Command {
	var req workspace.CreateDocRequest
	cmd := &cobra.Command{
		Use:   "createDoc <title>",
		Short: "Create an empty Google Doc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = args[0]
			return app.Print(app.API.CreateDoc(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.ParentID, "parent", "", "Parent folder ID")

	return cmd
}

// MoveFileCmd creates the moveFile command
func MoveFileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "moveFile <file_id> <folder_id>",
		Short: "Move a file into a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.MoveFile(app.Ctx, workspace.MoveFileRequest{FileID: args[0], FolderID: args[1]}))
		},
	}
}

// CopyFileCmd creates the copyFile command
func CopyFileCmd(app *AppContext) *cobra.Command {
	var newName string
	cmd := &cobra.Command{
		Use:   "copyFile <file_id> <folder_id>",
		Short: "Copy a file into a folder, keeping a newer destination file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.CopyFile(app.Ctx, workspace.CopyFileRequest{
				FileID:   args[0],
				FolderID: args[1],
				NewName:  newName,
			}))
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "Name of the copy")

	return cmd
}

// CopyFolderCmd creates the copyFolder command
func CopyFolderCmd(app *AppContext) *cobra.Command {
	var newName string
	cmd := &cobra.Command{
		Use:   "copyFolder <source_folder_id> <destination_parent_id>",
		Short: "Copy a folder tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.CopyFolder(app.Ctx, workspace.CopyFolderRequest{
				SourceFolderID:      args[0],
				DestinationParentID: args[1],
				NewFolderName:       newName,
			}))
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "Name of the new folder (defaults to the source name)")

	return cmd
}

// FetchFileCmd creates the fetchFile command
func FetchFileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetchFile <file_id>",
		Short: "Read a binary file into the result (content is base64)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.FetchFile(app.Ctx, workspace.FetchFileRequest{FileID: args[0]}))
		},
	}
}

// DownloadFileCmd creates the downloadFile command
func DownloadFileCmd(app *AppContext) *cobra.Command {
	var req workspace.DownloadFileRequest
	cmd := &cobra.Command{
		Use:   "downloadFile <file_id>",
		Short: "Save a file locally, exporting Google-native formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FileID = args[0]
			return app.Print(app.API.DownloadFile(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Local file name")
	cmd.Flags().StringVar(&req.Dir, "dir", "", "Directory to save into")
	cmd.Flags().StringVar(&req.ExportMime, "export-mime", "", "Export format for Google-native files")

	return cmd
}

// CSVDataCmd creates the csvData command
func CSVDataCmd(app *AppContext) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "csvData <file_id>",
		Short: "Read a CSV file into records and save them as a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.CSVData(app.Ctx, workspace.CSVDataRequest{FileID: args[0], Description: description}))
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Dataset description")

	return cmd
}

// GetDatasetCmd creates the getDataset command
func GetDatasetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "getDataset <data_id>",
		Short: "Show a dataset saved by csvData",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.GetDataset(app.Ctx, workspace.GetDatasetRequest{DataID: args[0]}))
		},
	}
}
