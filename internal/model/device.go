package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeviceContext is what the transport knows about the calling device.
type DeviceContext struct {
	Fingerprint string
	UserAgent   string
	IP          string
	DeviceType  string
	Browser     string
	OS          string
}

// TrustedDevice is a device observed for a user.
type TrustedDevice struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Fingerprint   string
	DeviceType    string
	Browser       string
	OS            string
	TrustScore    float64
	IsTrusted     bool
	TrustedAt     *time.Time
	TrustedUntil  *time.Time
	LastSeenAt    time.Time
	LastSuccessAt *time.Time
	LastIP        string
	LastAgent     string
	SuccessCount  int
	IPChanges     int
	AgentChanges  int
}

// DeviceCandidate is a trusted device together with its owner, used for recognition.
type DeviceCandidate struct {
	Device    TrustedDevice
	Email     *string
	FirstName *string
}

// DeviceStore persists device observations.
type DeviceStore interface {
	// Observe upserts the (user, fingerprint) row, counting IP and agent changes.
	Observe(ctx context.Context, userID uuid.UUID, device DeviceContext, successful bool, now time.Time) (TrustedDevice, error)
	Trust(ctx context.Context, userID uuid.UUID, device DeviceContext, minScore float64, until, now time.Time) (TrustedDevice, error)
	// Touch records a recognition hit: the new score, the address and the time it was seen.
	Touch(ctx context.Context, id uuid.UUID, score float64, ip string, now time.Time) error
	// FindTrusted lists trusted, unexpired devices with the fingerprint whose owners are active users of the tenant.
	FindTrusted(ctx context.Context, tenantID uuid.UUID, fingerprint string, now time.Time) ([]DeviceCandidate, error)
}
