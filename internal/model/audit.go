package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit event types.
const (
	EventMagicLinkSent       = "magic_link_sent"
	EventSMSPinSent          = "sms_pin_sent"
	EventLoginSuccess        = "login_success"
	EventLoginFailed         = "login_failed"
	EventSMSPinVerified      = "sms_pin_verified"
	EventUserCreated         = "user_created"
	EventDeviceTrusted       = "device_trusted"
	EventLogout              = "logout"
	EventSessionRevoked      = "session_revoked"
	EventTenantSwitched      = "tenant_switched"
	EventTenantAccessGranted = "tenant_access_granted"
	EventFamilyCreated       = "family_account_created"
	EventFamilyMemberAdded   = "family_member_added"
	EventConsentRecorded     = "privacy_consent_recorded"
	EventDirectoryUpdated    = "directory_privacy_updated"
	EventAccountLocked       = "account_locked"
	EventAccountUnlocked     = "account_unlocked"
)

// AuditEvent is an append-only record of a security relevant action.
type AuditEvent struct {
	ID                uuid.UUID      `json:"id"`
	UserID            *uuid.UUID     `json:"user_id,omitempty"`
	TenantID          *uuid.UUID     `json:"tenant_id,omitempty"`
	EventType         string         `json:"event_type"`
	Details           map[string]any `json:"details,omitempty"`
	IP                string         `json:"ip,omitempty"`
	UserAgent         string         `json:"user_agent,omitempty"`
	DeviceFingerprint string         `json:"device_fingerprint,omitempty"`
	RiskScore         *float64       `json:"risk_score,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// AuditFilter narrows audit queries.
type AuditFilter struct {
	UserID    *uuid.UUID
	EventType string
	Limit     int
	Offset    int
}

// AuditStore persists audit events.
type AuditStore interface {
	Insert(ctx context.Context, event AuditEvent) error
	List(ctx context.Context, tenantID uuid.UUID, filter AuditFilter) ([]AuditEvent, error)
	// ListBefore returns up to limit events older than before, oldest first.
	ListBefore(ctx context.Context, before time.Time, limit int) ([]AuditEvent, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// AuditArchive stores batches of audit events outside the database.
type AuditArchive interface {
	Archive(ctx context.Context, name string, events []AuditEvent) error
}
