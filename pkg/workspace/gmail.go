package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/gmailclient"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// SendEmailRequest is a plain-text email
type SendEmailRequest struct {
	Sender  string   `json:"sender" validate:"omitempty,email"`
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// SendEmail sends a plain-text email from the authenticated account
func (s *Session) SendEmail(ctx context.Context, req SendEmailRequest) envelope.Result {
	meta := map[string]any{"sender": req.Sender, "to": req.To, "subject": req.Subject}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceGmail); err != nil {
		return envelope.Failure(err, meta)
	}

	id, err := s.gmail.SendEmail(ctx, gmailclient.Email{
		From:    req.Sender,
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return envelope.Failure(err, meta)
	}

	s.logger.Info("Email sent", zap.String("message_id", id), zap.Int("recipients", len(req.To)))
	meta["message_id"] = id
	return envelope.Success(
		fmt.Sprintf("Email sent to %d recipient(s) with ID: %s", len(req.To), id),
		meta,
		envelope.Records(map[string]any{"id": id}),
	)
}
