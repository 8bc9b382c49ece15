package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactKind identifies how a user is reached.
type ContactKind string

const (
	ContactEmail ContactKind = "email"
	ContactPhone ContactKind = "phone"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByContact(ctx context.Context, tenantID uuid.UUID, kind ContactKind, value string) (User, error)
	// CreateOrGet inserts the user together with its primary tenant access row and links
	// the directory person with the same email, if any.
	// When a user with the same contact already exists in the tenant, it is returned with created == false.
	CreateOrGet(ctx context.Context, user User) (saved User, created bool, err error)
	SetLockedUntil(ctx context.Context, tenantID, id uuid.UUID, until *time.Time) error
}

// User is a tenant-scoped account. The same email in two tenants is two users.
type User struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	Email               *string
	Phone               *string
	FirstName           *string
	Active              bool
	LockedUntil         *time.Time
	Role                Role
	Permissions         PermissionSet
	PersonID            *uuid.UUID
	PreferredAuthMethod LoginMethod
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is locked at now.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Contact returns the user's contact of the given kind or "".
func (u User) Contact(kind ContactKind) string {
	switch kind {
	case ContactEmail:
		if u.Email != nil {
			return *u.Email
		}
	case ContactPhone:
		if u.Phone != nil {
			return *u.Phone
		}
	}
	return ""
}
