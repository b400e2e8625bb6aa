package formsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// Email collection modes accepted by the Forms settings API
const (
	EmailVerified       = "VERIFIED"
	EmailResponderInput = "RESPONDER_INPUT"
	EmailDoNotCollect   = "DO_NOT_COLLECT"
)

// Client wraps the Google Forms API client
type Client struct {
	service *forms.Service
}

// CreatedForm contains the created form details
type CreatedForm struct {
	FormID       string
	ResponderURI string
}

// NewClient creates a Forms client from the given client options
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := forms.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create forms service: %w", err)
	}

	return &Client{service: service}, nil
}

// Service returns the underlying forms service for direct API access
func (c *Client) Service() *forms.Service {
	return c.service
}

// CreateForm creates an empty form. The API only accepts the title on create;
// everything else goes through BatchUpdate.
func (c *Client) CreateForm(ctx context.Context, title string) (*CreatedForm, error) {
	form := &forms.Form{
		Info: &forms.Info{
			Title:         title,
			DocumentTitle: title,
		},
	}

	created, err := c.service.Forms.Create(form).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	return &CreatedForm{
		FormID:       created.FormId,
		ResponderURI: created.ResponderUri,
	}, nil
}

// GetForm fetches the form structure
func (c *Client) GetForm(ctx context.Context, formID string) (*forms.Form, error) {
	form, err := c.service.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form %s: %w", formID, err)
	}
	return form, nil
}

// BatchUpdate applies requests to a form in one call
func (c *Client) BatchUpdate(ctx context.Context, formID string, requests []*forms.Request) (*forms.BatchUpdateFormResponse, error) {
	resp, err := c.service.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update form %s: %w", formID, err)
	}
	return resp, nil
}

// SetEmailCollection changes how respondent emails are collected
func (c *Client) SetEmailCollection(ctx context.Context, formID, mode string) error {
	_, err := c.BatchUpdate(ctx, formID, []*forms.Request{{
		UpdateSettings: &forms.UpdateSettingsRequest{
			Settings: &forms.FormSettings{
				EmailCollectionType: mode,
			},
			UpdateMask: "emailCollectionType",
		},
	}})
	if err != nil {
		return fmt.Errorf("failed to set email collection: %w", err)
	}
	return nil
}
