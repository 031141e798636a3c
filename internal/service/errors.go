package service

import "errors"

var (
	// ErrAuthenticationFailed is the uniform authentication failure. It
	// covers both "account does not exist" and "token mismatch": the two
	// cases must stay indistinguishable to callers so that response
	// differences cannot be used to enumerate accounts. Do not split this
	// into more specific errors.
	ErrAuthenticationFailed = errors.New("could not authenticate account")

	// ErrInvalidDataProvided is returned when a request is missing required
	// fields before any storage interaction takes place.
	ErrInvalidDataProvided = errors.New("invalid data provided")
)
