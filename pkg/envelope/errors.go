package envelope

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Kind classifies a failure
type Kind string

const (
	KindAuth       Kind = "auth"
	KindScope      Kind = "scope"
	KindRequest    Kind = "request"
	KindValidation Kind = "validation"
)

// ErrNotAuthenticated is returned by operations invoked without a session
var ErrNotAuthenticated = errors.New("not authenticated")

// Error is a classified failure
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (%d): %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation error detected before any network call
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

// Scope returns a scope error for a surface the current grant cannot reach
func Scope(format string, args ...any) error {
	return &Error{Kind: KindScope, Err: fmt.Errorf(format, args...)}
}

// Kinded is implemented by errors from other packages that know their Kind
type Kinded interface {
	ErrorKind() Kind
}

// Classify maps err onto the error taxonomy
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}

	if errors.Is(err, ErrNotAuthenticated) {
		return KindAuth
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return KindAuth
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized:
			return KindAuth
		case gerr.Code == http.StatusForbidden && isScopeRejection(gerr):
			return KindScope
		}
	}

	return KindRequest
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// isScopeRejection reports whether a 403 was caused by the token's scopes rather
// than by sharing permissions on the target resource.
func isScopeRejection(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if item.Reason == "insufficientPermissions" || item.Reason == "ACCESS_TOKEN_SCOPE_INSUFFICIENT" {
			return true
		}
	}
	msg := strings.ToLower(gerr.Message)
	return strings.Contains(msg, "insufficient authentication scopes") || strings.Contains(msg, "access_token_scope_insufficient")
}
