package workspace

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/tasks/v1"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/tasksclient"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// taskDueLayout is the RFC 3339 form the Tasks API expects for due dates
const taskDueLayout = "2006-01-02T15:04:05.000Z"

// CreateTaskRequest describes a task
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
	Notes string `json:"notes"`
	// Due is ISO 8601; values without an offset use the default time zone
	Due        string `json:"due" validate:"omitempty,iso8601"`
	TaskListID string `json:"tasklist_id"`
}

// CreateTask adds a task to a list, the default list when none is given
func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) envelope.Result {
	if req.TaskListID == "" {
		req.TaskListID = tasksclient.DefaultTaskList
	}
	meta := map[string]any{"title": req.Title, "due": req.Due, "tasklist_id": req.TaskListID}

	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}

	task := &tasks.Task{Title: req.Title, Notes: req.Notes}
	if req.Due != "" {
		due, err := s.parseLocal(req.Due)
		if err != nil {
			return envelope.Failure(err, meta)
		}
		task.Due = due.UTC().Format(taskDueLayout)
	}

	if err := s.require(auth.SurfaceTasks); err != nil {
		return envelope.Failure(err, meta)
	}

	created, err := s.tasks.InsertTask(ctx, req.TaskListID, task)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	meta["task_id"] = created.Id
	return envelope.Success(fmt.Sprintf("Task created: %s", created.Title), meta, envelope.Records(created))
}

// parseLocal parses an ISO 8601 value in the session's default time zone
func (s *Session) parseLocal(value string) (time.Time, error) {
	loc, err := time.LoadLocation(s.timeZone)
	if err != nil {
		return time.Time{}, envelope.Validation("unknown time zone %q", s.timeZone)
	}
	t, err := parseISO8601(value, loc)
	if err != nil {
		return time.Time{}, envelope.Validation("%v", err)
	}
	return t, nil
}
