package workspace

import (
	"context"
	"fmt"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/docmarkdown"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// WriteMarkdownRequest inserts Markdown at the start of a document
type WriteMarkdownRequest struct {
	DocID    string `json:"doc_id" validate:"required"`
	Markdown string `json:"markdown" validate:"required"`
}

// WriteMarkdown converts Markdown into Docs requests and applies them in one batch
func (s *Session) WriteMarkdown(ctx context.Context, req WriteMarkdownRequest) envelope.Result {
	meta := map[string]any{"doc_id": req.DocID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDocs); err != nil {
		return envelope.Failure(err, meta)
	}

	requests := docmarkdown.Requests(docmarkdown.Parse(req.Markdown), 1)
	meta["requests"] = len(requests)

	if _, err := s.docs.BatchUpdate(ctx, req.DocID, requests); err != nil {
		return envelope.Failure(err, meta)
	}

	message := fmt.Sprintf("Markdown content written into Doc ID: %s", req.DocID)
	return envelope.Success(message, meta, envelope.Records(meta))
}

// ExtractMarkdownRequest identifies a document to read
type ExtractMarkdownRequest struct {
	DocID string `json:"doc_id" validate:"required"`
}

// ExtractMarkdown renders a document's paragraphs as Markdown. The data is the
// Markdown string.
func (s *Session) ExtractMarkdown(ctx context.Context, req ExtractMarkdownRequest) envelope.Result {
	meta := map[string]any{"doc_id": req.DocID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceDocs); err != nil {
		return envelope.Failure(err, meta)
	}

	doc, err := s.docs.GetDocument(ctx, req.DocID)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["title"] = doc.Title

	return envelope.Success(
		fmt.Sprintf("Document with id %s markdown returned.", req.DocID),
		meta,
		docmarkdown.FromDocument(doc),
	)
}

// ParseMarkdown returns the Docs batchUpdate requests for markdown without
// calling the API
func ParseMarkdown(markdown string) envelope.Result {
	blocks := docmarkdown.Parse(markdown)
	requests := docmarkdown.Requests(blocks, 1)
	meta := map[string]any{"paragraphs": len(blocks), "requests": len(requests)}
	return envelope.Success(
		fmt.Sprintf("Parsed %d paragraph(s) into %d request(s)", len(blocks), len(requests)),
		meta,
		envelope.Records(requests...),
	)
}
