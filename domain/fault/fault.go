// Package fault carries domain errors across request-reply services.
//
// Services put a Fault in their response instead of returning an error so
// that callers can recover the sentinel with errors.Is.
package fault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// Wire codes.
const (
	CodeValidation      = "validation"
	CodeNotFound        = "not_found"
	CodeInvalidUsername = "invalid_username"
	CodeUnauthenticated = "unauthenticated"
	CodeInvalidToken    = "invalid_token"
)

var sentinels = []struct {
	code string
	err  error
}{
	{CodeValidation, task.ErrValidation},
	{CodeNotFound, task.ErrNotFound},
	{CodeInvalidUsername, user.ErrInvalidUsername},
	{CodeUnauthenticated, user.ErrUnauthenticated},
	{CodeInvalidToken, user.ErrInvalidToken},
}

// Fault is a domain failure embedded in a service response.
type Fault struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// From converts err into a Fault. ok is false when err is not a domain error,
// in which case it should be returned as a plain service error.
func From(err error) (Fault, bool) {
	if err == nil {
		return Fault{}, false
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return Fault{Code: s.code, Message: err.Error()}, true
		}
	}
	return Fault{}, false
}

// Err returns the error described by f, or nil when f is empty.
func (f Fault) Err() error {
	if f.Code == "" {
		return nil
	}
	for _, s := range sentinels {
		if s.code != f.Code {
			continue
		}
		detail := strings.TrimPrefix(f.Message, s.err.Error())
		detail = strings.TrimPrefix(detail, ": ")
		if detail == "" {
			return s.err
		}
		return fmt.Errorf("%w: %s", s.err, detail)
	}
	return fmt.Errorf("%s: %s", f.Code, f.Message)
}
