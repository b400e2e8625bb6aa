package auth

import (
	"errors"
	"fmt"

	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// Reason identifies why authentication failed
type Reason string

const (
	ReasonNoCredentialPath Reason = "no_credential_path"
	ReasonConsentDenied    Reason = "consent_denied"
	ReasonRefreshFailed    Reason = "refresh_failed"
)

// Error is an authentication failure. Compare with errors.Is against the
// sentinels below.
type Error struct {
	Reason Reason
	Err    error
}

var (
	ErrNoCredentialPath = &Error{Reason: ReasonNoCredentialPath}
	ErrConsentDenied    = &Error{Reason: ReasonConsentDenied}
	ErrRefreshFailed    = &Error{Reason: ReasonRefreshFailed}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("authentication failed: %s", e.Reason)
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same reason
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// ErrorKind places authentication failures in the envelope taxonomy
func (e *Error) ErrorKind() envelope.Kind {
	return envelope.KindAuth
}

// notApplicable is returned by a strategy whose preconditions do not hold
type notApplicable struct {
	strategy string
	reason   string
}

func (n *notApplicable) Error() string {
	return fmt.Sprintf("%s: %s", n.strategy, n.reason)
}

func skip(strategy, format string, args ...any) error {
	return &notApplicable{strategy: strategy, reason: fmt.Sprintf(format, args...)}
}

// IsNotApplicable reports whether err means a strategy was skipped rather than failed
func IsNotApplicable(err error) bool {
	var n *notApplicable
	return errors.As(err, &n)
}
