package model

import (
	"time"

	"github.com/google/uuid"
)

// RecognitionHint is a signed, short-lived claim that a device was recognized
// as belonging to a user. It only pre-fills a sign-in request and never authenticates.
type RecognitionHint struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	Fingerprint string
	ExpiresAt   time.Time
}

// HintManager signs and parses recognition hints.
type HintManager interface {
	Issue(hint RecognitionHint) (string, error)
	Parse(token string) (RecognitionHint, error)
}
