package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginMethod records how a session was established.
type LoginMethod string

const (
	LoginMagicLink    LoginMethod = "magic_link"
	LoginSMSPin       LoginMethod = "sms_pin"
	LoginTenantSwitch LoginMethod = "tenant_switch"
)

// EndReason records why a session stopped being usable.
type EndReason string

const (
	EndExpired   EndReason = "expired"
	EndLoggedOut EndReason = "logged_out"
	EndRevoked   EndReason = "revoked"
	EndSwitched  EndReason = "switched"
)

// Session is a bearer session bound to one user and one tenant.
type Session struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TenantID       uuid.UUID
	TokenHash      []byte
	DeviceID       *uuid.UUID
	IP             string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
	IsActive       bool
	EndedAt        *time.Time
	EndReason      EndReason
	LoginMethod    LoginMethod
}

// Usable reports whether the session authenticates requests at now.
func (s Session) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

// SessionIdentity is a usable session joined with its user and tenant access.
type SessionIdentity struct {
	Session           Session
	Email             *string
	UserRole          Role
	UserPermissions   PermissionSet
	TenantRole        *Role
	TenantPermissions PermissionSet
}

// SwitchParams describes an atomic tenant switch.
type SwitchParams struct {
	UserID       uuid.UUID
	FromTenantID uuid.UUID
	ToTenantID   uuid.UUID
	OldTokenHash []byte
	NewSession   Session
	Now          time.Time
}

// SessionStore persists sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	// GetUsable returns the session with the hash, usable at now, optionally restricted to a tenant.
	GetUsable(ctx context.Context, tokenHash []byte, tenantID uuid.UUID, now time.Time) (SessionIdentity, error)
	Touch(ctx context.Context, id uuid.UUID, now time.Time) error
	// Deactivate ends the active session with the hash. It returns false when nothing changed.
	Deactivate(ctx context.Context, tokenHash []byte, reason EndReason, now time.Time) (Session, bool, error)
	Revoke(ctx context.Context, tenantID, id uuid.UUID, now time.Time) (Session, error)
	// Switch checks access to the target tenant, ends the old session and creates the new one in one transaction.
	// It returns ErrAccessDenied when the user has no access to the target tenant.
	Switch(ctx context.Context, params SwitchParams) error
	ListActive(ctx context.Context, tenantID, userID uuid.UUID, now time.Time) ([]Session, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	SessionID   uuid.UUID
	UserID      uuid.UUID
	TenantID    uuid.UUID
	Email       string
	Role        Role
	Permissions PermissionSet
}
