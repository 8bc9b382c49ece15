package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialKind enumerates one-time credential types.
type CredentialKind string

const (
	CredentialMagicLink CredentialKind = "magic_link"
	CredentialSMSPin    CredentialKind = "sms_pin"
)

// Purpose describes why a magic link was requested.
type Purpose string

const (
	PurposeLogin        Purpose = "login"
	PurposeSignup       Purpose = "signup"
	PurposeVerifyEmail  Purpose = "verify_email"
	PurposeFamilyInvite Purpose = "family_invite"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeLogin, PurposeSignup, PurposeVerifyEmail, PurposeFamilyInvite:
		return true
	}
	return false
}

// OneTimeCredential is a magic-link token or SMS PIN. Only the secret hash is stored.
type OneTimeCredential struct {
	ID            uuid.UUID
	Kind          CredentialKind
	Subject       string
	TenantID      uuid.UUID
	SecretHash    []byte
	Purpose       Purpose
	CreatedAt     time.Time
	ExpiresAt     time.Time
	UsedAt        *time.Time
	InvalidatedAt *time.Time
	AttemptCount  int
	OriginIP      string
	OriginAgent   string
	Metadata      map[string]any
}

// Pending reports whether the credential can still be verified at now.
func (c OneTimeCredential) Pending(now time.Time, maxAttempts int) bool {
	return c.UsedAt == nil && c.InvalidatedAt == nil && now.Before(c.ExpiresAt) && c.AttemptCount < maxAttempts
}

// ConsumeCredentialParams selects the credential to mark used.
// TenantID == uuid.Nil and Subject == "" match any tenant or subject.
type ConsumeCredentialParams struct {
	Kind        CredentialKind
	SecretHash  []byte
	TenantID    uuid.UUID
	Subject     string
	UsedIP      string
	UsedAgent   string
	Now         time.Time
	MaxAttempts int
}

// CredentialStore persists one-time credentials.
type CredentialStore interface {
	Create(ctx context.Context, credential OneTimeCredential) error
	// Consume marks the newest pending match as used. It succeeds for at most one caller.
	Consume(ctx context.Context, params ConsumeCredentialParams) (OneTimeCredential, error)
	// RecordFailedAttempt increments the attempt counter of the newest pending credential
	// for subject and tenant, invalidating it once maxAttempts is reached.
	RecordFailedAttempt(ctx context.Context, kind CredentialKind, tenantID uuid.UUID, subject string, now time.Time, maxAttempts int) (int, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
