package workspace

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/google-api-wrapper/pkg/db"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

func TestExploreFolder_Message(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handle(http.MethodGet, "/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "'folder-1' in parents")
		assert.Contains(t, r.URL.Query().Get("q"), "name contains 'report'")
		writeJSON(w, http.StatusOK, `{"files":[
			{"id":"f1","name":"Reports","mimeType":"application/vnd.google-apps.folder"},
			{"id":"f2","name":"report.pdf","mimeType":"application/pdf"}
		]}`)
	})
	session := fake.session(t, Options{})

	result := session.ExploreFolder(context.Background(), ExploreFolderRequest{FolderID: "folder-1", Query: "report"})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Found 2 item(s) matching \"report\":\n"+
		"- Reports 📁 (id: f1, mime_type: application/vnd.google-apps.folder)\n"+
		"- report.pdf 📄 (id: f2, mime_type: application/pdf)", result.Message)
	assert.Len(t, result.Response.Data.(map[string]any)["records"], 2)
}

func TestExploreFolder_RejectsOversizedPage(t *testing.T) {
	fake := newFakeGoogle(t)
	session := fake.session(t, Options{})

	result := session.ExploreFolder(context.Background(), ExploreFolderRequest{PageSize: 5000})

	assert.Equal(t, envelope.KindValidation, result.Kind)
	assert.Zero(t, fake.hitCount())
}

func TestCopyFile_SkipsWhenDestinationIsNewer(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handleJSON(http.MethodGet, "/files/src",
		`{"id":"src","name":"notes.txt","mimeType":"text/plain","modifiedTime":"2025-01-01T10:00:00.000Z"}`)
	fake.handleJSON(http.MethodGet, "/files",
		`{"files":[{"id":"dst","name":"notes.txt","mimeType":"text/plain","modifiedTime":"2025-02-01T10:00:00.000Z"}]}`)
	session := fake.session(t, Options{})

	result := session.CopyFile(context.Background(), CopyFileRequest{FileID: "src", FolderID: "folder"})

	assert.Equal(t, envelope.StatusSkipped, result.Status)
	assert.Equal(t, "Skipping 'notes.txt', destination is newer.", result.Message)
	assert.Equal(t, "skipped", result.Response.MetaData["outcome"])
}

func TestCopyFile_CopiesWhenDestinationMissing(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handleJSON(http.MethodGet, "/files/src",
		`{"id":"src","name":"notes.txt","mimeType":"text/plain","modifiedTime":"2025-01-01T10:00:00.000Z"}`)
	fake.handleJSON(http.MethodGet, "/files", `{"files":[]}`)
	fake.handle(http.MethodPost, "/files/src/copy", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		decodeBody(t, r, &body)
		assert.Equal(t, "renamed.txt", body["name"])
		assert.Equal(t, []any{"folder"}, body["parents"])
		writeJSON(w, http.StatusOK, `{"id":"copy-1","name":"renamed.txt","mimeType":"text/plain"}`)
	})
	session := fake.session(t, Options{})

	result := session.CopyFile(context.Background(), CopyFileRequest{FileID: "src", FolderID: "folder", NewName: "renamed.txt"})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Copied file 'renamed.txt' to folder ID folder.", result.Message)
	assert.Equal(t, "copy-1", result.Response.MetaData["new_file_id"])
}

func TestDownloadFile_ExportsNativeDocument(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handleJSON(http.MethodGet, "/files/doc-1",
		`{"id":"doc-1","name":"Report: Q1","mimeType":"application/vnd.google-apps.document"}`)
	fake.handle(http.MethodGet, "/files/doc-1/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.URL.Query().Get("mimeType"))
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	dir := t.TempDir()
	session := fake.session(t, Options{DownloadDir: dir})

	result := session.DownloadFile(context.Background(), DownloadFileRequest{FileID: "doc-1"})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	path := filepath.Join(dir, "Report_ Q1.pdf")
	assert.Equal(t, path, result.Response.MetaData["filepath"])
	assert.Equal(t, true, result.Response.MetaData["exported"])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))
}

func TestCSVData_SavesDataset(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handle(http.MethodGet, "/files/csv-1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			_, _ = w.Write([]byte("name,age\nada,36\ngrace,45\n"))
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"csv-1","name":"people.csv","mimeType":"text/csv"}`)
	})
	store := db.NewMemoryStore()
	session := fake.session(t, Options{Datasets: store})
	ctx := context.Background()

	result := session.CSVData(ctx, CSVDataRequest{FileID: "csv-1"})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Data for file_id=csv-1 generated", result.Message)
	assert.Equal(t, "name, age", result.Response.MetaData["columns"])

	dataID, ok := result.Response.MetaData["data_id"].(string)
	require.True(t, ok)

	saved := session.GetDataset(ctx, GetDatasetRequest{DataID: dataID})
	require.Equal(t, envelope.StatusSuccess, saved.Status, saved.Message)
	assert.Equal(t, []map[string]string{
		{"name": "ada", "age": "36"},
		{"name": "grace", "age": "45"},
	}, saved.Response.Data.(map[string]any)["records"])
	assert.Equal(t, "File name:people.csv, file_id:csv-1", saved.Response.MetaData["description"])
}

func TestCSVData_EmptyFile(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handle(http.MethodGet, "/files/csv-1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			_, _ = w.Write([]byte("name,age\n"))
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"csv-1","name":"empty.csv","mimeType":"text/csv"}`)
	})
	session := fake.session(t, Options{})

	result := session.CSVData(context.Background(), CSVDataRequest{FileID: "csv-1"})

	assert.Equal(t, envelope.StatusSuccess, result.Status)
	assert.Equal(t, "No data in File name:empty.csv, file_id:csv-1", result.Message)
}

func TestGetDataset_RequiresUUID(t *testing.T) {
	fake := newFakeGoogle(t)
	session := fake.session(t, Options{Datasets: db.NewMemoryStore()})

	result := session.GetDataset(context.Background(), GetDatasetRequest{DataID: "nope"})

	assert.Equal(t, envelope.KindValidation, result.Kind)
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Report: Q1", "Report_ Q1"},
		{"a/b\\c", "a_b_c"},
		{"  .hidden. ", "hidden"},
		{"???", "_"},
		{"", "download"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFilename(tt.in), tt.in)
	}
}
