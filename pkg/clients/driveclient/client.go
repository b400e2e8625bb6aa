package driveclient

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	MimeFolder   = "application/vnd.google-apps.folder"
	MimeDocument = "application/vnd.google-apps.document"

	fileFields = "id,name,mimeType,parents,modifiedTime,webViewLink,iconLink"
)

// Client wraps the Google Drive API client
type Client struct {
	service *drive.Service
}

// NewClient creates a Drive client. Callers pass the authenticated HTTP client
// (option.WithHTTPClient) and, in tests, an endpoint override.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// Service returns the underlying drive service for direct API access
func (c *Client) Service() *drive.Service {
	return c.service
}

// ListFiles runs a files.list query and follows pages until limit items are
// collected. A limit of zero or less collects every page.
func (c *Client) ListFiles(ctx context.Context, q Query, limit int) ([]*drive.File, error) {
	var files []*drive.File
	pageToken := ""

	for {
		call := c.service.Files.List().
			Context(ctx).
			Q(q.String()).
			Fields(googleapi.Field("nextPageToken, files(" + fileFields + ")")).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			OrderBy("recency desc")
		if q.PageSize > 0 {
			call = call.PageSize(int64(q.PageSize))
		}
		if q.SharedDriveID != "" {
			call = call.Corpora("drive").DriveId(q.SharedDriveID)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		files = append(files, resp.Files...)
		if limit > 0 && len(files) >= limit {
			return files[:limit], nil
		}
		if resp.NextPageToken == "" {
			return files, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ListChildren returns every non-trashed item directly inside folderID
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]*drive.File, error) {
	return c.ListFiles(ctx, Query{FolderID: folderID, PageSize: 1000}, 0)
}

// FindByName returns the most recently modified child of parentID with the exact
// name, or nil when there is none.
func (c *Client) FindByName(ctx context.Context, parentID, name string, foldersOnly bool) (*drive.File, error) {
	files, err := c.ListFiles(ctx, Query{FolderID: parentID, ExactName: name, OnlyFolders: foldersOnly, PageSize: 10}, 1)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}

// GetFile fetches file metadata
func (c *Client) GetFile(ctx context.Context, fileID string) (*drive.File, error) {
	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(googleapi.Field(fileFields)).
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	return file, nil
}

// CreateFolder creates a folder, optionally under parentID
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error) {
	return c.CreateFile(ctx, name, MimeFolder, parentID)
}

// CreateFile creates an empty file of the given MIME type (folders, Google Docs)
func (c *Client) CreateFile(ctx context.Context, name, mimeType, parentID string) (*drive.File, error) {
	file := &drive.File{Name: name, MimeType: mimeType}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(googleapi.Field(fileFields)).
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return created, nil
}

// Upload creates a file with content
func (c *Client) Upload(ctx context.Context, name, mimeType, parentID string, content io.Reader) (*drive.File, error) {
	file := &drive.File{Name: name, MimeType: mimeType}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(mimeType)).
		Fields(googleapi.Field(fileFields)).
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return created, nil
}

// Move replaces every current parent of fileID with folderID
func (c *Client) Move(ctx context.Context, fileID, folderID string) (*drive.File, error) {
	current, err := c.service.Files.Get(fileID).Context(ctx).Fields("parents").SupportsAllDrives(true).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read parents of %s: %w", fileID, err)
	}

	call := c.service.Files.Update(fileID, &drive.File{}).
		Context(ctx).
		AddParents(folderID).
		Fields(googleapi.Field(fileFields)).
		SupportsAllDrives(true)
	if len(current.Parents) > 0 {
		call = call.RemoveParents(strings.Join(current.Parents, ","))
	}

	moved, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", fileID, err)
	}
	return moved, nil
}

// Copy copies fileID into parentID under name
func (c *Client) Copy(ctx context.Context, fileID, name, parentID string) (*drive.File, error) {
	file := &drive.File{Name: name}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	copied, err := c.service.Files.Copy(fileID, file).
		Context(ctx).
		Fields(googleapi.Field(fileFields)).
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s: %w", fileID, err)
	}
	return copied, nil
}

// Delete permanently removes a file
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if err := c.service.Files.Delete(fileID).Context(ctx).SupportsAllDrives(true).Do(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", fileID, err)
	}
	return nil
}

// Download streams the content of a binary file. The caller closes the body.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).SupportsAllDrives(true).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	return resp.Body, nil
}

// Export streams a Google-native file converted to mimeType. The caller closes the body.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	resp, err := c.service.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as %s: %w", fileID, mimeType, err)
	}
	return resp.Body, nil
}
