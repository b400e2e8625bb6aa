package workspace

import (
	"context"

	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// The methods below run the Session operation of the same name against the
// current session, failing with a "not authenticated" error when there is none.

func (a *API) SendEmail(ctx context.Context, req SendEmailRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.SendEmail(ctx, req) })
}

func (a *API) ExploreFolder(ctx context.Context, req ExploreFolderRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.ExploreFolder(ctx, req) })
}

func (a *API) CreateFolder(ctx context.Context, req CreateFolderRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CreateFolder(ctx, req) })
}

func (a *API) UploadFile(ctx context.Context, req UploadFileRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.UploadFile(ctx, req) })
}

func (a *API) CreateDoc(ctx context.Context, req CreateDocRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CreateDoc(ctx, req) })
}

func (a *API) MoveFile(ctx context.Context, req MoveFileRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.MoveFile(ctx, req) })
}

func (a *API) CopyFile(ctx context.Context, req CopyFileRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CopyFile(ctx, req) })
}

func (a *API) CopyFolder(ctx context.Context, req CopyFolderRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CopyFolder(ctx, req) })
}

func (a *API) FetchFile(ctx context.Context, req FetchFileRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.FetchFile(ctx, req) })
}

func (a *API) DownloadFile(ctx context.Context, req DownloadFileRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.DownloadFile(ctx, req) })
}

func (a *API) CSVData(ctx context.Context, req CSVDataRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CSVData(ctx, req) })
}

func (a *API) GetDataset(ctx context.Context, req GetDatasetRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.GetDataset(ctx, req) })
}

func (a *API) WriteMarkdown(ctx context.Context, req WriteMarkdownRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.WriteMarkdown(ctx, req) })
}

func (a *API) ExtractMarkdown(ctx context.Context, req ExtractMarkdownRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.ExtractMarkdown(ctx, req) })
}

func (a *API) ListSheets(ctx context.Context, req ListSheetsRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.ListSheets(ctx, req) })
}

func (a *API) AddSheet(ctx context.Context, req AddSheetRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.AddSheet(ctx, req) })
}

func (a *API) CreateEvent(ctx context.Context, req CreateEventRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CreateEvent(ctx, req) })
}

func (a *API) ListEvents(ctx context.Context, req ListEventsRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.ListEvents(ctx, req) })
}

func (a *API) DeleteEvents(ctx context.Context, req DeleteEventsRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.DeleteEvents(ctx, req) })
}

func (a *API) CreateTask(ctx context.Context, req CreateTaskRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CreateTask(ctx, req) })
}

func (a *API) CreateForm(ctx context.Context, req CreateFormRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.CreateForm(ctx, req) })
}

func (a *API) SetEmailCollection(ctx context.Context, req SetEmailCollectionRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.SetEmailCollection(ctx, req) })
}

func (a *API) AddQuestions(ctx context.Context, req AddQuestionsRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.AddQuestions(ctx, req) })
}

func (a *API) FormResponses(ctx context.Context, req FormResponsesRequest) envelope.Result {
	return a.with(func(s *Session) envelope.Result { return s.FormResponses(ctx, req) })
}
