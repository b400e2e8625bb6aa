package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"google.golang.org/api/drive/v3"

	"github.com/jakechorley/google-api-wrapper/pkg/clients/driveclient"
)

// fakeDrive is an in-memory FolderCopier
type fakeDrive struct {
	files   map[string]*drive.File
	nextID  int
	deleted []string
	copyErr map[string]error
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{files: map[string]*drive.File{}, copyErr: map[string]error{}}
}

func (f *fakeDrive) add(id, name, mimeType, parent, modified string) *drive.File {
	file := &drive.File{Id: id, Name: name, MimeType: mimeType, Parents: []string{parent}, ModifiedTime: modified}
	f.files[id] = file
	return file
}

// childrenOf returns parentID's children ordered by id
func (f *fakeDrive) childrenOf(parentID string) []*drive.File {
	var children []*drive.File
	for _, file := range f.files {
		if file.Parents[0] == parentID {
			children = append(children, file)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Id < children[j].Id })
	return children
}

func (f *fakeDrive) GetFile(ctx context.Context, fileID string) (*drive.File, error) {
	file, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s not found", fileID)
	}
	return file, nil
}

func (f *fakeDrive) FindByName(ctx context.Context, parentID, name string, foldersOnly bool) (*drive.File, error) {
	for _, file := range f.childrenOf(parentID) {
		if file.Name != name {
			continue
		}
		if foldersOnly && file.MimeType != driveclient.MimeFolder {
			continue
		}
		return file, nil
	}
	return nil, nil
}

func (f *fakeDrive) CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error) {
	f.nextID++
	return f.add(fmt.Sprintf("new-%d", f.nextID), name, driveclient.MimeFolder, parentID, "2024-06-01T00:00:00Z"), nil
}

func (f *fakeDrive) ListChildren(ctx context.Context, folderID string) ([]*drive.File, error) {
	return f.childrenOf(folderID), nil
}

func (f *fakeDrive) Copy(ctx context.Context, fileID, name, parentID string) (*drive.File, error) {
	if err := f.copyErr[fileID]; err != nil {
		return nil, err
	}
	source, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("source not found")
	}
	f.nextID++
	return f.add(fmt.Sprintf("new-%d", f.nextID), name, source.MimeType, parentID, "2024-06-01T00:00:00Z"), nil
}

func (f *fakeDrive) Delete(ctx context.Context, fileID string) error {
	delete(f.files, fileID)
	f.deleted = append(f.deleted, fileID)
	return nil
}
