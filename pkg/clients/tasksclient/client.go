package tasksclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// DefaultTaskList is the alias for the user's default list
const DefaultTaskList = "@default"

// Client wraps the Google Tasks API client
type Client struct {
	service *tasks.Service
}

// NewClient creates a Tasks client from the given client options
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{service: service}, nil
}

// Service returns the underlying tasks service for direct API access
func (c *Client) Service() *tasks.Service {
	return c.service
}

// InsertTask adds a task to a list
func (c *Client) InsertTask(ctx context.Context, taskListID string, task *tasks.Task) (*tasks.Task, error) {
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	created, err := c.service.Tasks.Insert(taskListID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}
