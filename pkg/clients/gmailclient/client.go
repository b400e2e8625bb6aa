package gmailclient

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DefaultSendInterval spaces consecutive sends to stay under Gmail's per-user limits
const DefaultSendInterval = 3 * time.Second

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	limiter *rate.Limiter
}

// NewClient creates a Gmail client. Sends are paced at one per interval; zero
// uses DefaultSendInterval and a negative interval disables pacing.
func NewClient(ctx context.Context, interval time.Duration, opts ...option.ClientOption) (*Client, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	if interval == 0 {
		interval = DefaultSendInterval
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Service returns the underlying gmail service for direct API access
func (c *Client) Service() *gmail.Service {
	return c.service
}
