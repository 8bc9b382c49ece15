package model

import "errors"

// Repository sentinels.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Failure taxonomy shared by all services. Callers test with errors.Is.
var (
	// ErrValidation marks malformed input the user can correct.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited means the caller should retry after a cooldown.
	ErrRateLimited = errors.New("rate limited")
	// ErrCredentialInvalid covers expired, used, unknown and wrong secrets alike.
	ErrCredentialInvalid = errors.New("credential invalid or expired")
	ErrAccessDenied      = errors.New("access denied")
	// ErrDeliveryFailed means the messaging collaborator did not accept the message.
	ErrDeliveryFailed = errors.New("message delivery failed")
	// ErrStorageFailure wraps infrastructure faults surfaced to callers as a generic failure.
	ErrStorageFailure = errors.New("storage failure")
)
