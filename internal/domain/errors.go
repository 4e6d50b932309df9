package domain

import "errors"

// ErrNotFound is returned by repositories when the requested record does
// not exist. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

// Stay validation errors, in the order ValidateStay reports them. These are
// detected locally and never reach a collaborator.
var (
	ErrDatesMissing   = errors.New("please select check-in and check-out dates")
	ErrCheckInPast    = errors.New("check-in date cannot be in the past")
	ErrCheckOutOrder  = errors.New("check-out date must be after check-in date")
	ErrGuestsRequired = errors.New("number of guests must be at least 1")
	ErrRoomsRequired  = errors.New("number of rooms must be at least 1")
)

// Account form errors, detected locally before any provider call.
var (
	ErrFieldsRequired   = errors.New("please fill in all fields")
	ErrInvalidEmailAddr = errors.New("please enter a valid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ErrEmptyComment rejects reviews whose comment is empty or whitespace.
var ErrEmptyComment = errors.New("please write a review comment")

// ErrCancelNotAllowed is returned when a cancel request arrives for a
// booking that is no longer confirmed or whose check-in has arrived.
var ErrCancelNotAllowed = errors.New("booking can no longer be cancelled")

// AuthCode taxonomizes identity-provider failures. The HTTP layer maps
// codes to user-facing messages; this package only names them.
type AuthCode string

const (
	AuthInvalidCredential AuthCode = "invalid_credential"
	AuthTooManyAttempts   AuthCode = "too_many_attempts"
	AuthNetworkFailure    AuthCode = "network_failure"
	AuthEmailInUse        AuthCode = "email_in_use"
	AuthUserNotFound      AuthCode = "user_not_found"
	AuthInvalidEmail      AuthCode = "invalid_email"
	AuthUnknown           AuthCode = "unknown"
)

// AuthError wraps an identity-provider failure with its taxonomy code.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

// AuthCodeOf extracts the taxonomy code from err, or AuthUnknown.
func AuthCodeOf(err error) AuthCode {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return AuthUnknown
}
