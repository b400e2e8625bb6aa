package workspace

import (
	"context"
	"fmt"

	"google.golang.org/api/forms/v1"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/formsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

const defaultFormTitle = "New Form Title"

// CreateFormRequest names a new form and its email collection mode
type CreateFormRequest struct {
	Title           string `json:"title"`
	EmailCollection string `json:"email_collection" validate:"omitempty,oneof=VERIFIED RESPONDER_INPUT DO_NOT_COLLECT"`
}

// CreateForm creates a form and then sets how respondent emails are collected
func (s *Session) CreateForm(ctx context.Context, req CreateFormRequest) envelope.Result {
	if req.Title == "" {
		req.Title = defaultFormTitle
	}
	if req.EmailCollection == "" {
		req.EmailCollection = formsclient.EmailResponderInput
	}
	meta := map[string]any{"title": req.Title, "email_collection": req.EmailCollection}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceForms); err != nil {
		return envelope.Failure(err, meta)
	}

	created, err := s.forms.CreateForm(ctx, req.Title)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["form_id"] = created.FormID
	meta["responder_uri"] = created.ResponderURI
	record := map[string]any{"form_id": created.FormID, "responderUri": created.ResponderURI}

	if err := s.forms.SetEmailCollection(ctx, created.FormID, req.EmailCollection); err != nil {
		message := fmt.Sprintf("Form %s was created but its email collection could not be set: %v", created.FormID, err)
		return envelope.FailureWithData(err, message, meta, envelope.Records(record))
	}

	return envelope.Success(
		fmt.Sprintf("Form: form_id = %s, URL: %s Created", created.FormID, created.ResponderURI),
		meta,
		envelope.Records(record),
	)
}

// SetEmailCollectionRequest changes a form's email collection mode
type SetEmailCollectionRequest struct {
	FormID string `json:"form_id" validate:"required"`
	Mode   string `json:"mode" validate:"required,oneof=VERIFIED RESPONDER_INPUT DO_NOT_COLLECT"`
}

// SetEmailCollection updates the emailCollectionType setting
func (s *Session) SetEmailCollection(ctx context.Context, req SetEmailCollectionRequest) envelope.Result {
	meta := map[string]any{"form_id": req.FormID, "mode": req.Mode}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceForms); err != nil {
		return envelope.Failure(err, meta)
	}

	if err := s.forms.SetEmailCollection(ctx, req.FormID, req.Mode); err != nil {
		return envelope.Failure(err, meta)
	}
	return envelope.Success(
		fmt.Sprintf("Email collection for form %s set to %s", req.FormID, req.Mode),
		meta,
		envelope.Records(meta),
	)
}

// AddQuestionsRequest carries raw Forms batchUpdate requests such as createItem
type AddQuestionsRequest struct {
	FormID   string           `json:"form_id" validate:"required"`
	Requests []*forms.Request `json:"requests" validate:"required,min=1"`
}

// AddQuestions applies the requests to the form in one batch
func (s *Session) AddQuestions(ctx context.Context, req AddQuestionsRequest) envelope.Result {
	meta := map[string]any{"form_id": req.FormID, "requests": len(req.Requests)}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceForms); err != nil {
		return envelope.Failure(err, meta)
	}

	resp, err := s.forms.BatchUpdate(ctx, req.FormID, req.Requests)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	return envelope.Success(fmt.Sprintf("Questions added to form %s", req.FormID), meta, envelope.Records(resp.Replies...))
}

// FormResponsesRequest selects a form's responses
type FormResponsesRequest struct {
	FormID string `json:"form_id" validate:"required"`
	// UseIDs keys answers by question id instead of title
	UseIDs bool `json:"use_ids"`
	// AsLists keeps every answer as a list, even single values
	AsLists bool `json:"as_lists"`
}

// FormResponses returns every response as a record, oldest first
func (s *Session) FormResponses(ctx context.Context, req FormResponsesRequest) envelope.Result {
	meta := map[string]any{"form_id": req.FormID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceForms); err != nil {
		return envelope.Failure(err, meta)
	}

	form, err := s.forms.GetForm(ctx, req.FormID)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	responses, err := s.forms.ListResponses(ctx, req.FormID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	columns, records := formsclient.ResponseTable(form, responses, req.UseIDs, req.AsLists)
	meta["columns"] = columns
	return envelope.Success(fmt.Sprintf("Retrieved %d response(s).", len(records)), meta, envelope.Records(records...))
}
