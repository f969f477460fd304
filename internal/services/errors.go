// Package services defines the business logic for accounts, sessions, and
// messages. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmptyCredentials is returned when a registration or login request
	// carries a blank username or password.
	ErrEmptyCredentials = errors.New("username and password must not be empty")

	// ErrUsernameTaken is returned when the requested username is already
	// registered.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrInvalidCredentials is returned when the username is unknown or the
	// password does not verify against the stored hash. The two cases are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Session-related errors.
var (
	// ErrSessionNotFound is returned when revoking a token that does not
	// exist. Handlers surface this as a bad request, not a server fault.
	ErrSessionNotFound = errors.New("session not found")
)

// Message-related errors.
var (
	// ErrEmptyContent is returned when a send request has blank content.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrUnknownRecipient is returned when the recipient id does not
	// reference an existing user.
	ErrUnknownRecipient = errors.New("recipient does not exist")

	// ErrUnknownUser is returned by the fetch path when either queried
	// user id does not reference an existing user.
	ErrUnknownUser = errors.New("user does not exist")
)
