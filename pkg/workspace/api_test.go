package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

func TestAPI_OperationsFailFastWithoutSession(t *testing.T) {
	fake := newFakeGoogle(t)
	strategy := &stubStrategy{err: errors.New("no token file")}

	api := New(context.Background(), Options{
		TokenDir:      t.TempDir(),
		Strategies:    []auth.Strategy{strategy},
		ClientOptions: []option.ClientOption{option.WithEndpoint(fake.srv.URL + "/")},
	})
	require.False(t, api.OK())
	require.Error(t, api.Err())

	ctx := context.Background()
	operations := map[string]func() envelope.Result{
		"SendEmail":     func() envelope.Result { return api.SendEmail(ctx, SendEmailRequest{To: []string{"a@example.com"}}) },
		"ExploreFolder": func() envelope.Result { return api.ExploreFolder(ctx, ExploreFolderRequest{}) },
		"CreateFolder":  func() envelope.Result { return api.CreateFolder(ctx, CreateFolderRequest{Name: "x"}) },
		"UploadFile":    func() envelope.Result { return api.UploadFile(ctx, UploadFileRequest{Path: "x"}) },
		"CreateDoc":     func() envelope.Result { return api.CreateDoc(ctx, CreateDocRequest{Title: "x"}) },
		"MoveFile":      func() envelope.Result { return api.MoveFile(ctx, MoveFileRequest{FileID: "a", FolderID: "b"}) },
		"CopyFile":      func() envelope.Result { return api.CopyFile(ctx, CopyFileRequest{FileID: "a", FolderID: "b"}) },
		"CopyFolder": func() envelope.Result {
			return api.CopyFolder(ctx, CopyFolderRequest{SourceFolderID: "a", DestinationParentID: "b"})
		},
		"FetchFile":          func() envelope.Result { return api.FetchFile(ctx, FetchFileRequest{FileID: "a"}) },
		"DownloadFile":       func() envelope.Result { return api.DownloadFile(ctx, DownloadFileRequest{FileID: "a"}) },
		"CSVData":            func() envelope.Result { return api.CSVData(ctx, CSVDataRequest{FileID: "a"}) },
		"GetDataset":         func() envelope.Result { return api.GetDataset(ctx, GetDatasetRequest{DataID: "a"}) },
		"WriteMarkdown":      func() envelope.Result { return api.WriteMarkdown(ctx, WriteMarkdownRequest{DocID: "d", Markdown: "x"}) },
		"ExtractMarkdown":    func() envelope.Result { return api.ExtractMarkdown(ctx, ExtractMarkdownRequest{DocID: "d"}) },
		"ListSheets":         func() envelope.Result { return api.ListSheets(ctx, ListSheetsRequest{SpreadsheetID: "s"}) },
		"AddSheet":           func() envelope.Result { return api.AddSheet(ctx, AddSheetRequest{SpreadsheetID: "s", SheetName: "n"}) },
		"CreateEvent":        func() envelope.Result { return api.CreateEvent(ctx, CreateEventRequest{Summary: "x"}) },
		"ListEvents":         func() envelope.Result { return api.ListEvents(ctx, ListEventsRequest{}) },
		"DeleteEvents":       func() envelope.Result { return api.DeleteEvents(ctx, DeleteEventsRequest{EventIDs: []string{"e"}}) },
		"CreateTask":         func() envelope.Result { return api.CreateTask(ctx, CreateTaskRequest{Title: "x"}) },
		"CreateForm":         func() envelope.Result { return api.CreateForm(ctx, CreateFormRequest{}) },
		"SetEmailCollection": func() envelope.Result { return api.SetEmailCollection(ctx, SetEmailCollectionRequest{FormID: "f"}) },
		"AddQuestions":       func() envelope.Result { return api.AddQuestions(ctx, AddQuestionsRequest{FormID: "f"}) },
		"FormResponses":      func() envelope.Result { return api.FormResponses(ctx, FormResponsesRequest{FormID: "f"}) },
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			result := op()
			assert.Equal(t, envelope.StatusError, result.Status)
			assert.Equal(t, envelope.KindAuth, result.Kind)
			assert.Contains(t, result.Message, "Error: not authenticated")
		})
	}

	assert.Zero(t, fake.hitCount())
}

func TestAPI_EnsureAuthRetriesOnlyWithoutSession(t *testing.T) {
	strategy := &stubStrategy{err: errors.New("no token file")}
	api := New(context.Background(), Options{TokenDir: t.TempDir(), Strategies: []auth.Strategy{strategy}})
	require.False(t, api.OK())

	strategy.err = nil
	strategy.cred = auth.NewCredential("stub", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), auth.ResolveScopes())

	require.NoError(t, api.EnsureAuth(context.Background()))
	assert.True(t, api.OK())
	assert.NoError(t, api.Err())
	assert.Equal(t, 2, strategy.calls)

	// Already authenticated: no further attempt
	require.NoError(t, api.EnsureAuth(context.Background()))
	assert.Equal(t, 2, strategy.calls)
}

func TestAPI_Status(t *testing.T) {
	cred := auth.NewCredential("stub", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), auth.ResolveScopes(auth.SurfaceDrive))
	api := New(context.Background(), Options{
		TokenDir:   t.TempDir(),
		Surfaces:   []auth.Surface{auth.SurfaceDrive},
		Strategies: []auth.Strategy{&stubStrategy{cred: cred}},
	})

	result := api.Status()
	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Authenticated via stub for 1 surface(s)", result.Message)
	assert.Equal(t, "stub", result.Response.MetaData["strategy"])
	assert.Equal(t, []string{"drive"}, result.Response.Data.(map[string]any)["records"])
}

func TestSession_ExcludedSurfaceIsAScopeError(t *testing.T) {
	fake := newFakeGoogle(t)
	session := fake.session(t, Options{}, auth.SurfaceCalendar, auth.SurfaceForms, auth.SurfaceTasks)

	assert.Equal(t, []auth.Surface{auth.SurfaceDrive, auth.SurfaceDocs, auth.SurfaceSheets, auth.SurfaceGmail}, session.Surfaces())

	result := session.CreateEvent(context.Background(), CreateEventRequest{
		Summary: "Standup",
		Start:   "2025-06-01T09:00:00",
		End:     "2025-06-01T09:15:00",
	})
	assert.Equal(t, envelope.StatusError, result.Status)
	assert.Equal(t, envelope.KindScope, result.Kind)
	assert.Contains(t, result.Message, "calendar is not available with the test credential")
	assert.Zero(t, fake.hitCount())
}

func TestSession_UncoveredSurfaceHasNoClient(t *testing.T) {
	cred := auth.NewCredential("silent", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), auth.ResolveScopes(auth.SurfaceDrive))

	session, err := NewSession(context.Background(), cred, Options{})
	require.NoError(t, err)

	assert.Equal(t, []auth.Surface{auth.SurfaceDrive}, session.Surfaces())
	result := session.SendEmail(context.Background(), SendEmailRequest{To: []string{"a@example.com"}})
	assert.Equal(t, envelope.KindScope, result.Kind)
}
