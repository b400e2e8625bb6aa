// Package envelope defines the uniform result returned by every workspace operation.
package envelope

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of an operation
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Response carries the operation payload
type Response struct {
	MetaData map[string]any `json:"meta_data"`
	Data     any            `json:"data"`
}

// Result is returned by every operation. Kind is only set on the error arm.
type Result struct {
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Kind     Kind     `json:"error_kind,omitempty"`
	Response Response `json:"response"`
}

// Success builds a successful result
func Success(message string, meta map[string]any, data any) Result {
	return newResult(StatusSuccess, message, meta, data)
}

// Skipped builds a result for an operation that deliberately did nothing
func Skipped(message string, meta map[string]any, data any) Result {
	return newResult(StatusSkipped, message, meta, data)
}

// Partial builds a result for a batch where some items failed
func Partial(message string, meta map[string]any, data any) Result {
	return newResult(StatusPartial, message, meta, data)
}

// Failure builds the error arm from err, classifying it into a Kind
func Failure(err error, meta map[string]any) Result {
	r := newResult(StatusError, fmt.Sprintf("Error: %v", err), meta, Records[any]())
	r.Kind = Classify(err)
	return r
}

// FailureWithData is Failure for operations that still report what they did
func FailureWithData(err error, message string, meta map[string]any, data any) Result {
	r := newResult(StatusError, message, meta, data)
	r.Kind = Classify(err)
	return r
}

// OK reports whether the operation succeeded or was skipped
func (r Result) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusSkipped
}

// JSON renders the result for printing
func (r Result) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

// Records wraps items in the {"records": [...]} shape used for list payloads
func Records[T any](items ...T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"records": items}
}

func newResult(status Status, message string, meta map[string]any, data any) Result {
	if meta == nil {
		meta = map[string]any{}
	}
	return Result{
		Status:  status,
		Message: message,
		Response: Response{
			MetaData: meta,
			Data:     data,
		},
	}
}
