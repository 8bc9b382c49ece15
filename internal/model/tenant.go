package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is an organization (church) that owns users and data.
type Tenant struct {
	ID             uuid.UUID
	Name           string
	Subdomain      string
	WelcomeMessage *string
	Status         string
}

// Active reports whether the tenant accepts sign-ins.
func (t Tenant) Active() bool {
	return t.Status == "active"
}

// TenantAccess grants a user a role in a tenant.
type TenantAccess struct {
	UserID         uuid.UUID
	TenantID       uuid.UUID
	Role           Role
	Permissions    PermissionSet
	IsPrimary      bool
	InvitedBy      *uuid.UUID
	AcceptedAt     *time.Time
	LastAccessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Membership is a tenant the user can switch to.
type Membership struct {
	TenantID   uuid.UUID
	TenantName string
	Role       Role
	IsPrimary  bool
}

// TenantStore persists tenants.
type TenantStore interface {
	Create(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	// GetBySubdomain returns the active tenant served at subdomain, or ErrNotFound.
	GetBySubdomain(ctx context.Context, subdomain string) (Tenant, error)
}

// TenantAccessStore persists tenant access rows.
type TenantAccessStore interface {
	Upsert(ctx context.Context, access TenantAccess) (TenantAccess, error)
	Get(ctx context.Context, userID, tenantID uuid.UUID) (TenantAccess, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
}
