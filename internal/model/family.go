package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Relationship describes a member's place in a family account.
type Relationship string

const (
	RelationshipParent   Relationship = "parent"
	RelationshipChild    Relationship = "child"
	RelationshipSpouse   Relationship = "spouse"
	RelationshipGuardian Relationship = "guardian"
	RelationshipOther    Relationship = "other"
)

// ParseRelationship validates s as a relationship.
func ParseRelationship(s string) (Relationship, error) {
	switch r := Relationship(s); r {
	case RelationshipParent, RelationshipChild, RelationshipSpouse, RelationshipGuardian, RelationshipOther:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown relationship %q", ErrValidation, s)
}

// FamilyAccount groups users of one household under a shareable code.
type FamilyAccount struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	PrimaryUserID uuid.UUID
	Name          string
	Code          string
	HouseholdID   *uuid.UUID
	CreatedAt     time.Time
}

// FamilyMember links a user to a family account.
type FamilyMember struct {
	FamilyAccountID  uuid.UUID
	UserID           uuid.UUID
	Relationship     Relationship
	CanManageFamily  bool
	RequiresApproval bool
	CreatedAt        time.Time
}

// FamilyStore persists family accounts.
type FamilyStore interface {
	// Create inserts the account and its primary member in one transaction.
	// It returns ErrConflict when the code is already taken.
	Create(ctx context.Context, account FamilyAccount, primary FamilyMember) error
	GetByCode(ctx context.Context, code string) (FamilyAccount, error)
	GetMember(ctx context.Context, familyID, userID uuid.UUID) (FamilyMember, error)
	// AddMember returns ErrConflict when the user is already a member.
	AddMember(ctx context.Context, member FamilyMember) error
}
