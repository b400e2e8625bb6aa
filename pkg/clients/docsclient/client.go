package docsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// Client wraps the Google Docs API client
type Client struct {
	service *docs.Service
}

// NewClient creates a Docs client from the given client options
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}

	return &Client{service: service}, nil
}

// Service returns the underlying docs service for direct API access
func (c *Client) Service() *docs.Service {
	return c.service
}

// GetDocument fetches the full structured document
func (c *Client) GetDocument(ctx context.Context, docID string) (*docs.Document, error) {
	doc, err := c.service.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", docID, err)
	}
	return doc, nil
}

// BatchUpdate applies requests to a document in one call
func (c *Client) BatchUpdate(ctx context.Context, docID string, requests []*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	if len(requests) == 0 {
		return &docs.BatchUpdateDocumentResponse{DocumentId: docID}, nil
	}

	resp, err := c.service.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", docID, err)
	}
	return resp, nil
}
