package calendarclient

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API client
type Client struct {
	service *calendar.Service
}

// NewClient creates a Calendar client from the given client options
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{service: service}, nil
}

// Service returns the underlying calendar service for direct API access
func (c *Client) Service() *calendar.Service {
	return c.service
}

// InsertEvent creates an event. conferenceVersion must be 1 when the event
// carries a conference create request.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event, sendUpdates string, conferenceVersion int64) (*calendar.Event, error) {
	call := c.service.Events.Insert(calendarID, event).Context(ctx)
	if sendUpdates != "" {
		call = call.SendUpdates(sendUpdates)
	}
	if conferenceVersion > 0 {
		call = call.ConferenceDataVersion(conferenceVersion)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// ListEvents returns single (expanded) events between start and end ordered by
// start time, following pages until limit events are collected.
func (c *Client) ListEvents(ctx context.Context, calendarID string, start, end time.Time, timeZone string, limit int) ([]*calendar.Event, error) {
	var events []*calendar.Event
	pageToken := ""

	for {
		remaining := limit - len(events)
		call := c.service.Events.List(calendarID).
			Context(ctx).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(int64(min(remaining, 2500)))
		if timeZone != "" {
			call = call.TimeZone(timeZone)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		events = append(events, resp.Items...)
		if len(events) >= limit {
			return events[:limit], nil
		}
		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

// DeleteEvent removes one event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.service.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
