package user

import "errors"

var (
	// ErrInvalidUsername is returned when the username is blank.
	ErrInvalidUsername = errors.New("username is required")
	// ErrUnauthenticated is returned when no user is signed in.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrInvalidToken is returned when a session token is malformed,
	// expired, or belongs to a session that has ended.
	ErrInvalidToken = errors.New("invalid session token")
)
