package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// Email is a plain-text message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// SendEmail sends a plain-text email and returns the Gmail message id.
// Throttles requests to respect Gmail API rate limits.
func (c *Client) SendEmail(ctx context.Context, email Email) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for send slot: %w", err)
	}

	// Encode the message in base64
	encodedMessage := base64.URLEncoding.EncodeToString(BuildMessage(email))

	// Create the Gmail message
	gmailMessage := &gmail.Message{
		Raw: encodedMessage,
	}

	// Send the message
	sent, err := c.service.Users.Messages.Send("me", gmailMessage).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// BuildMessage renders an RFC 2822 message with a UTF-8 plain-text body
func BuildMessage(email Email) []byte {
	var b strings.Builder
	if email.From != "" {
		fmt.Fprintf(&b, "From: %s\r\n", email.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.Body)
	return []byte(b.String())
}
