package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/driveclient"
	"github.com/jakechorley/google-api-wrapper/pkg/core/services"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

const (
	defaultMimeType    = "application/octet-stream"
	googleNativePrefix = "application/vnd.google-apps."
)

// exportFormat is the default export target for a Google-native type
type exportFormat struct {
	mimeType  string
	extension string
}

var defaultExports = map[string]exportFormat{
	"application/vnd.google-apps.document":     {"application/pdf", ".pdf"},
	"application/vnd.google-apps.spreadsheet":  {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	"application/vnd.google-apps.presentation": {"application/pdf", ".pdf"},
	"application/vnd.google-apps.drawing":      {"image/png", ".png"},
	"application/vnd.google-apps.script":       {"application/vnd.google-apps.script+json", ".json"},
	"application/vnd.google-apps.jam":          {"application/pdf", ".pdf"},
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// ExploreFolderRequest searches a folder, or all of Drive from "root"
type ExploreFolderRequest struct {
	FolderID      string   `json:"folder_id"`
	Query         string   `json:"query"`
	MimeTypes     []string `json:"mime_types"`
	OnlyFolders   bool     `json:"only_folders"`
	SharedDriveID string   `json:"shared_drive_id"`
	PageSize      int      `json:"page_size" validate:"min=0,max=1000"`
}

// ExploreFolder lists the items matching the request, following every page
func (s *Session) ExploreFolder(ctx context.Context, req ExploreFolderRequest) envelope.Result {
	if req.FolderID == "" {
		req.FolderID = "root"
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := driveclient.Query{
		Contains:      req.Query,
		MimeTypes:     req.MimeTypes,
		OnlyFolders:   req.OnlyFolders,
		SharedDriveID: req.SharedDriveID,
		PageSize:      req.PageSize,
	}
	// "root" searches everything the user can see
	if req.FolderID != "root" {
		query.FolderID = req.FolderID
	}

	meta := map[string]any{
		"folder_id":       req.FolderID,
		"search":          req.Query,
		"only_folders":    req.OnlyFolders,
		"shared_drive_id": req.SharedDriveID,
		"q":               query.String(),
	}
	if !req.OnlyFolders {
		meta["mime_types"] = req.MimeTypes
	}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	files, err := s.drive.ListFiles(ctx, query, 0)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	records := make([]map[string]any, len(files))
	for i, f := range files {
		records[i] = fileRecord(f)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Found %d item(s)", len(files))
	if req.Query != "" {
		fmt.Fprintf(&msg, " matching %q", req.Query)
	}
	if req.OnlyFolders {
		msg.WriteString(" (folders only)")
	} else if len(req.MimeTypes) > 0 {
		msg.WriteString(" (mime_types filter applied)")
	}
	if len(files) > 0 {
		msg.WriteString(":")
		for _, f := range files {
			icon := "📄"
			if f.MimeType == driveclient.MimeFolder {
				icon = "📁"
			}
			fmt.Fprintf(&msg, "\n- %s %s (id: %s, mime_type: %s)", f.Name, icon, f.Id, f.MimeType)
		}
	}

	return envelope.Success(msg.String(), meta, envelope.Records(records...))
}

// CreateFolderRequest names a new folder
type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parent_id"`
}

// CreateFolder creates a folder, at the top of My Drive when ParentID is empty
func (s *Session) CreateFolder(ctx context.Context, req CreateFolderRequest) envelope.Result {
	meta := map[string]any{"name": req.Name, "parent_id": req.ParentID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	folder, err := s.drive.CreateFolder(ctx, req.Name, req.ParentID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["folder_id"] = folder.Id
	return envelope.Success(
		fmt.Sprintf("Folder %q created with ID: %s", req.Name, folder.Id),
		meta,
		envelope.Records(fileRecord(folder)),
	)
}

// UploadFileRequest uploads a local file
type UploadFileRequest struct {
	Path     string `json:"path" validate:"required"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	MimeType string `json:"mime_type"`
}

// UploadFile uploads a local file. The MIME type is guessed from the extension
// when not given.
func (s *Session) UploadFile(ctx context.Context, req UploadFileRequest) envelope.Result {
	if req.Name == "" {
		req.Name = filepath.Base(req.Path)
	}
	if req.MimeType == "" {
		req.MimeType = mimeTypeFor(req.Path)
	}
	meta := map[string]any{"path": req.Path, "name": req.Name, "parent_id": req.ParentID, "mime_type": req.MimeType}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return envelope.Failure(envelope.Validation("failed to open %s: %v", req.Path, err), meta)
	}
	defer f.Close()

	uploaded, err := s.drive.Upload(ctx, req.Name, req.MimeType, req.ParentID, f)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["file_id"] = uploaded.Id
	return envelope.Success(
		fmt.Sprintf("File %q uploaded with ID: %s", req.Name, uploaded.Id),
		meta,
		envelope.Records(fileRecord(uploaded)),
	)
}

// CreateDocRequest names a new Google Doc
type CreateDocRequest struct {
	Title    string `json:"title" validate:"required"`
	ParentID string `json:"parent_id"`
}

// CreateDoc creates an empty Google Doc through Drive so it can be placed in a folder
func (s *Session) CreateDoc(ctx context.Context, req CreateDocRequest) envelope.Result {
	meta := map[string]any{"title": req.Title, "parent_id": req.ParentID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	doc, err := s.drive.CreateFile(ctx, req.Title, driveclient.MimeDocument, req.ParentID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["doc_id"] = doc.Id
	return envelope.Success(
		fmt.Sprintf("Document %q created with ID: %s", req.Title, doc.Id),
		meta,
		envelope.Records(fileRecord(doc)),
	)
}

// MoveFileRequest moves a file into a folder
type MoveFileRequest struct {
	FileID   string `json:"file_id" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
}

// MoveFile replaces the file's parents with FolderID
func (s *Session) MoveFile(ctx context.Context, req MoveFileRequest) envelope.Result {
	meta := map[string]any{"file_id": req.FileID, "folder_id": req.FolderID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	moved, err := s.drive.Move(ctx, req.FileID, req.FolderID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	return envelope.Success(
		fmt.Sprintf("File %s successfully moved to folder %s.", req.FileID, req.FolderID),
		meta,
		envelope.Records(fileRecord(moved)),
	)
}

// CopyFileRequest copies one file into a folder
type CopyFileRequest struct {
	FileID   string `json:"file_id" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
	NewName  string `json:"new_name"`
}

// CopyFile copies a file into FolderID. An existing destination file with the
// same name is kept when it is newer than the source and replaced otherwise.
func (s *Session) CopyFile(ctx context.Context, req CopyFileRequest) envelope.Result {
	meta := map[string]any{"file_id": req.FileID, "folder_id": req.FolderID, "new_name": req.NewName}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	source, err := s.drive.GetFile(ctx, req.FileID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	result, err := services.CopyFileInto(ctx, s.drive, s.logger, source, req.NewName, req.FolderID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["outcome"] = string(result.Outcome)
	if result.Outcome == services.OutcomeSkipped {
		return envelope.Skipped(result.Message, meta, envelope.Records(meta))
	}

	meta["new_file_id"] = result.File.Id
	return envelope.Success(result.Message, meta, envelope.Records(fileRecord(result.File)))
}

// CopyFolderRequest copies a folder tree
type CopyFolderRequest struct {
	SourceFolderID      string `json:"source_folder_id" validate:"required"`
	DestinationParentID string `json:"destination_parent_id" validate:"required"`
	NewFolderName       string `json:"new_folder_name"`
}

// CopyFolder copies a folder and everything below it, one item at a time.
// The message holds one line per action.
func (s *Session) CopyFolder(ctx context.Context, req CopyFolderRequest) envelope.Result {
	meta := map[string]any{"source_folder_id": req.SourceFolderID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	result, err := services.CopyFolder(ctx, s.drive, s.logger, req.SourceFolderID, req.DestinationParentID, req.NewFolderName)
	if result != nil {
		meta["new_folder_id"] = result.NewFolderID
		meta["copied"] = result.Copied
		meta["overwritten"] = result.Overwritten
		meta["skipped"] = result.Skipped
		meta["folders_created"] = result.Folders
		meta["failed"] = result.Failed
	}
	if err != nil {
		log := ""
		if result != nil {
			log = strings.Join(append(result.Log, fmt.Sprintf("Error: %v", err)), "\n")
		}
		return envelope.FailureWithData(err, log, meta, envelope.Records(meta))
	}

	message := strings.Join(result.Log, "\n")
	if result.Failed > 0 {
		return envelope.Partial(message, meta, envelope.Records(meta))
	}
	return envelope.Success(message, meta, envelope.Records(meta))
}

// FetchFileRequest identifies a file to read into memory
type FetchFileRequest struct {
	FileID string `json:"file_id" validate:"required"`
}

// FetchedFile is a file's content held in memory
type FetchedFile struct {
	FileID   string `json:"file_id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}

// FetchFile downloads a binary file into memory
func (s *Session) FetchFile(ctx context.Context, req FetchFileRequest) envelope.Result {
	meta := map[string]any{"file_id": req.FileID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	file, content, err := s.readFile(ctx, req.FileID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["name"] = file.Name
	meta["mime_type"] = file.MimeType
	meta["size"] = len(content)
	return envelope.Success("File fetched successfully", meta, FetchedFile{
		FileID:   req.FileID,
		Name:     file.Name,
		MimeType: file.MimeType,
		Content:  content,
	})
}

// DownloadFileRequest saves a Drive file locally
type DownloadFileRequest struct {
	FileID string `json:"file_id" validate:"required"`
	// Name overrides the local file name (its extension is replaced)
	Name string `json:"name"`
	// Dir defaults to the configured download directory
	Dir string `json:"dir"`
	// ExportMime forces the export format of Google-native files
	ExportMime string `json:"export_mime"`
}

// DownloadFile writes a file into Dir. Google-native files are exported,
// everything else is downloaded as-is.
func (s *Session) DownloadFile(ctx context.Context, req DownloadFileRequest) envelope.Result {
	if req.Dir == "" {
		req.Dir = s.downloadDir
	}
	meta := map[string]any{"file_id": req.FileID, "exported": false}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	file, err := s.drive.GetFile(ctx, req.FileID)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["source_name"] = file.Name
	meta["source_mime_type"] = file.MimeType

	exported := strings.HasPrefix(file.MimeType, googleNativePrefix)
	var extension string
	var body io.ReadCloser
	if exported {
		format := exportFor(file.MimeType, req.ExportMime)
		meta["exported"] = true
		meta["export_mime"] = format.mimeType
		extension = format.extension
		body, err = s.drive.Export(ctx, req.FileID, format.mimeType)
	} else {
		extension = filepath.Ext(file.Name)
		if extension == "" {
			extension = extensionFor(file.MimeType)
		}
		body, err = s.drive.Download(ctx, req.FileID)
	}
	if err != nil {
		return envelope.Failure(err, meta)
	}
	defer body.Close()

	base := req.Name
	if base == "" {
		base = file.Name
	}
	filename := SafeFilename(strings.TrimSuffix(base, filepath.Ext(base))) + extension

	outPath, err := writeLocal(req.Dir, filename, body)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["filepath"] = outPath

	mode := "downloaded"
	if exported {
		mode = "exported"
	}
	s.logger.Debug("File saved", zap.String("file_id", req.FileID), zap.String("path", outPath), zap.String("mode", mode))
	return envelope.Success(fmt.Sprintf("File %s successfully: %s", mode, outPath), meta, envelope.Records(meta))
}

// CSVDataRequest identifies a CSV file in Drive
type CSVDataRequest struct {
	FileID      string `json:"file_id" validate:"required"`
	Description string `json:"description"`
}

// CSVData reads a CSV file into records. When a dataset store is configured the
// records are also saved under a new data_id.
func (s *Session) CSVData(ctx context.Context, req CSVDataRequest) envelope.Result {
	meta := map[string]any{"file_id": req.FileID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDrive); err != nil {
		return envelope.Failure(err, meta)
	}

	file, content, err := s.readFile(ctx, req.FileID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	columns, records, err := services.ParseCSVRecords(bytes.NewReader(content))
	if err != nil {
		return envelope.Failure(envelope.Validation("file %s is not valid CSV: %v", file.Name, err), meta)
	}
	if len(records) == 0 {
		return envelope.Success(fmt.Sprintf("No data in File name:%s, file_id:%s", file.Name, req.FileID), meta, envelope.Records[map[string]string]())
	}

	meta["columns"] = strings.Join(columns, ", ")
	if s.datasets != nil {
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("File name:%s, file_id:%s", file.Name, req.FileID)
		}
		dataset, err := services.SaveDataset(ctx, s.datasets, s.logger, req.FileID, description, columns, records)
		if err != nil {
			return envelope.Failure(err, meta)
		}
		meta["data_id"] = dataset.ID
	}

	return envelope.Success(fmt.Sprintf("Data for file_id=%s generated", req.FileID), meta, envelope.Records(records...))
}

// GetDatasetRequest identifies a saved dataset
type GetDatasetRequest struct {
	DataID string `json:"data_id" validate:"required,uuid"`
}

// GetDataset returns a dataset saved by CSVData. It needs no Google surface.
func (s *Session) GetDataset(ctx context.Context, req GetDatasetRequest) envelope.Result {
	meta := map[string]any{"data_id": req.DataID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if s.datasets == nil {
		return envelope.Failure(envelope.Validation("no dataset store is configured"), meta)
	}

	dataset, err := s.datasets.GetDataset(ctx, req.DataID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["file_id"] = dataset.FileID
	meta["description"] = dataset.Description
	meta["columns"] = dataset.Columns
	meta["created_at"] = dataset.CreatedAt
	return envelope.Success(
		fmt.Sprintf("Dataset %s has %d record(s)", dataset.ID, len(dataset.Records)),
		meta,
		envelope.Records(dataset.Records...),
	)
}

// readFile fetches metadata and the full content of a binary file
func (s *Session) readFile(ctx context.Context, fileID string) (*drive.File, []byte, error) {
	file, err := s.drive.GetFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.drive.Download(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", fileID, err)
	}
	return file, content, nil
}

// SafeFilename replaces characters that are invalid in file names on common
// platforms and trims surrounding spaces and dots
func SafeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return "download"
	}
	return name
}

func exportFor(nativeMime, override string) exportFormat {
	if override != "" {
		return exportFormat{mimeType: override, extension: extensionFor(override)}
	}
	if format, ok := defaultExports[nativeMime]; ok {
		return format
	}
	return exportFormat{"application/pdf", ".pdf"}
}

func mimeTypeFor(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		// Drive stores the bare type
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return defaultMimeType
}

func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

func writeLocal(dir, filename string, content io.Reader) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", absDir, err)
	}

	outPath := filepath.Join(absDir, filename)
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	return outPath, nil
}

func fileRecord(f *drive.File) map[string]any {
	return map[string]any{
		"id":           f.Id,
		"name":         f.Name,
		"mimeType":     f.MimeType,
		"modifiedTime": f.ModifiedTime,
		"webViewLink":  f.WebViewLink,
		"iconLink":     f.IconLink,
	}
}
