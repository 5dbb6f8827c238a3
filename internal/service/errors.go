package service

import "errors"

// Domain errors returned by the services. Callers match them with
// [errors.Is]; the HTTP layer maps each one to a status code.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrDuplicateIdentity is returned when a username or email is taken.
	ErrDuplicateIdentity = errors.New("username or email is already taken")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenInvalid        = errors.New("token is invalid")
	ErrTokenExpired        = errors.New("token is expired")
	ErrTokenCreationFailed = errors.New("token creation failed")

	// Action token redemption outcomes.
	ErrTokenNotFound    = errors.New("token was not found")
	ErrTokenAlreadyUsed = errors.New("token was already used")

	ErrForbidden       = errors.New("operation is forbidden")
	ErrNotFound        = errors.New("resource was not found")
	ErrAlreadyVerified = errors.New("email is already verified")
)
