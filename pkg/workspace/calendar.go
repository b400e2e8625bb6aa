package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

const (
	defaultCalendarID     = "primary"
	defaultEventListLimit = 100
)

// CreateEventRequest describes a calendar event. Start and End are ISO 8601;
// values without an offset are read in TimeZone.
type CreateEventRequest struct {
	Summary        string   `json:"summary" validate:"required"`
	Start          string   `json:"start" validate:"required,iso8601"`
	End            string   `json:"end" validate:"required,iso8601"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	TimeZone       string   `json:"time_zone" validate:"omitempty,timezone"`
	CalendarID     string   `json:"calendar_id"`
	Attendees      []string `json:"attendees" validate:"dive,email"`
	UseGoogleMeet  bool     `json:"use_google_meet"`
	CustomJoinLink string   `json:"custom_join_link" validate:"omitempty,url"`
	// Recurrence holds RRULE, EXRULE, RDATE or EXDATE lines
	Recurrence  []string `json:"recurrence" validate:"dive,rrule"`
	SendUpdates string   `json:"send_updates" validate:"omitempty,oneof=all externalOnly none"`
}

// CreateEvent inserts an event, optionally with a generated Google Meet
// conference whose link is returned in the message
func (s *Session) CreateEvent(ctx context.Context, req CreateEventRequest) envelope.Result {
	if req.TimeZone == "" {
		req.TimeZone = s.timeZone
	}
	if req.CalendarID == "" {
		req.CalendarID = defaultCalendarID
	}
	if req.SendUpdates == "" {
		req.SendUpdates = "all"
	}
	meta := map[string]any{"event_summary": req.Summary, "start_time": req.Start, "end_time": req.End, "calendar_id": req.CalendarID}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	start, end, err := parseRange(req.Start, req.End, req.TimeZone)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceCalendar); err != nil {
		return envelope.Failure(err, meta)
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: req.TimeZone},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: req.TimeZone},
		Reminders:   &calendar.EventReminders{UseDefault: true},
		Recurrence:  req.Recurrence,
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}
	if req.CustomJoinLink != "" {
		event.Description = strings.TrimLeft(event.Description+"\n\nJoin via: "+req.CustomJoinLink, "\n")
		event.Location = req.CustomJoinLink
	}

	var conferenceVersion int64
	if req.UseGoogleMeet {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             "meet-" + strings.ReplaceAll(uuid.New().String(), "-", ""),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		conferenceVersion = 1
	}

	created, err := s.calendar.InsertEvent(ctx, req.CalendarID, event, req.SendUpdates, conferenceVersion)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	s.logger.Info("Event created", zap.String("event_id", created.Id), zap.Bool("meet", req.UseGoogleMeet))
	meta["event_id"] = created.Id

	message := fmt.Sprintf("Event created: %s", created.HtmlLink)
	if req.UseGoogleMeet {
		link := meetLink(created)
		meta["meet_link"] = link
		if status := conferenceStatus(created); status != "" {
			meta["conference_status"] = status
		}
		if link == "" {
			message += "\nGoogle Meet Link: not yet available, the conference is still being created"
		} else {
			message += "\nGoogle Meet Link: " + link
		}
	}

	return envelope.Success(message, meta, envelope.Records(created))
}

// ListEventsRequest selects events between Start and End
type ListEventsRequest struct {
	Start      string `json:"start" validate:"required,iso8601"`
	End        string `json:"end" validate:"required,iso8601"`
	CalendarID string `json:"calendar_id"`
	TimeZone   string `json:"time_zone" validate:"omitempty,timezone"`
	MaxResults int    `json:"max_results" validate:"min=0"`
}

// ListEvents returns single events (recurring ones expanded) ordered by start time
func (s *Session) ListEvents(ctx context.Context, req ListEventsRequest) envelope.Result {
	if req.CalendarID == "" {
		req.CalendarID = defaultCalendarID
	}
	if req.TimeZone == "" {
		req.TimeZone = s.timeZone
	}
	if req.MaxResults == 0 {
		req.MaxResults = defaultEventListLimit
	}
	meta := map[string]any{"start_time": req.Start, "end_time": req.End, "calendar_id": req.CalendarID}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	start, end, err := parseRange(req.Start, req.End, req.TimeZone)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["start_time"] = start.Format(time.RFC3339)
	meta["end_time"] = end.Format(time.RFC3339)

	if err := s.require(auth.SurfaceCalendar); err != nil {
		return envelope.Failure(err, meta)
	}

	events, err := s.calendar.ListEvents(ctx, req.CalendarID, start, end, req.TimeZone, req.MaxResults)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	records := make([]map[string]any, len(events))
	for i, e := range events {
		records[i] = map[string]any{
			"id":          e.Id,
			"summary":     e.Summary,
			"start":       e.Start,
			"end":         e.End,
			"location":    e.Location,
			"description": e.Description,
			"htmlLink":    e.HtmlLink,
		}
	}

	return envelope.Success(fmt.Sprintf("Retrieved %d event(s).", len(records)), meta, envelope.Records(records...))
}

// DeleteEventsRequest lists events to delete
type DeleteEventsRequest struct {
	EventIDs   []string `json:"event_ids" validate:"required,min=1,dive,required"`
	CalendarID string   `json:"calendar_id"`
}

// FailedDeletion records an event that could not be deleted
type FailedDeletion struct {
	EventID string `json:"event_id"`
	Error   string `json:"error"`
}

// DeleteEvents deletes each event in turn. The status is success when all were
// deleted, error when none were and partial otherwise.
func (s *Session) DeleteEvents(ctx context.Context, req DeleteEventsRequest) envelope.Result {
	if req.CalendarID == "" {
		req.CalendarID = defaultCalendarID
	}
	meta := map[string]any{"calendar_id": req.CalendarID, "attempted": len(req.EventIDs)}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceCalendar); err != nil {
		return envelope.Failure(err, meta)
	}

	deleted := []string{}
	failed := []FailedDeletion{}
	var lastErr error
	for _, id := range req.EventIDs {
		if err := s.calendar.DeleteEvent(ctx, req.CalendarID, id); err != nil {
			s.logger.Warn("Failed to delete event", zap.String("event_id", id), zap.Error(err))
			failed = append(failed, FailedDeletion{EventID: id, Error: err.Error()})
			lastErr = err
			continue
		}
		deleted = append(deleted, id)
	}

	meta["deleted"] = len(deleted)
	meta["failed"] = len(failed)
	message := fmt.Sprintf("Deleted %d event(s), failed %d.", len(deleted), len(failed))
	data := map[string]any{"deleted_event_ids": deleted, "failed_deletions": failed}

	switch {
	case len(failed) == 0:
		return envelope.Success(message, meta, data)
	case len(deleted) == 0:
		return envelope.FailureWithData(lastErr, message, meta, data)
	default:
		return envelope.Partial(message, meta, data)
	}
}

// parseRange parses start and end in timeZone and checks end is after start
func parseRange(startValue, endValue, timeZone string) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.Time{}, time.Time{}, envelope.Validation("unknown time zone %q", timeZone)
	}
	start, err := parseISO8601(startValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, envelope.Validation("invalid start: %v", err)
	}
	end, err := parseISO8601(endValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, envelope.Validation("invalid end: %v", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, envelope.Validation("end_time must be after start_time")
	}
	return start, end, nil
}

// meetLink returns the video entry point of the event's conference
// conferenceStatus is the create request status code ("pending", "success" or
// "failure"), or empty when the response carries none
func conferenceStatus(event *calendar.Event) string {
	cd := event.ConferenceData
	if cd == nil || cd.CreateRequest == nil || cd.CreateRequest.Status == nil {
		return ""
	}
	return cd.CreateRequest.Status.StatusCode
}

func meetLink(event *calendar.Event) string {
	if event.ConferenceData == nil {
		return ""
	}
	for _, ep := range event.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return event.HangoutLink
}
