package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
)

// maxFamilyCodeAttempts bounds retries on family code collisions.
const maxFamilyCodeAttempts = 32

// ErrFamilyCodeExhausted is returned when no free family code was found.
var ErrFamilyCodeExhausted = errors.New("could not allocate a unique family code")

// Families links household members under a shareable family code.
type Families struct {
	store     model.FamilyStore
	generator secret.Generator
	audit     *Audit
	logger    *logger.Logger
	now       func() time.Time
}

func NewFamilies(store model.FamilyStore, generator secret.Generator, audit *Audit, logger *logger.Logger) *Families {
	return &Families{
		store:     store,
		generator: generator,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// Create opens a family account with the creator as managing parent and returns its code.
func (f *Families) Create(ctx context.Context, tenantID, primaryUserID uuid.UUID, name string, householdID *uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: family name is required", model.ErrValidation)
	}

	for attempt := 1; attempt <= maxFamilyCodeAttempts; attempt++ {
		code, err := f.generator.FamilyCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate family code: %w", err)
		}

		now := f.now()
		account := model.FamilyAccount{
			ID:            uuid.New(),
			TenantID:      tenantID,
			PrimaryUserID: primaryUserID,
			Name:          name,
			Code:          code,
			HouseholdID:   householdID,
			CreatedAt:     now,
		}
		primary := model.FamilyMember{
			FamilyAccountID: account.ID,
			UserID:          primaryUserID,
			Relationship:    model.RelationshipParent,
			CanManageFamily: true,
			CreatedAt:       now,
		}

		err = f.store.Create(ctx, account, primary)
		if errors.Is(err, model.ErrConflict) {
			f.logger.Debug("Family service: family code taken, retrying",
				"attempt", attempt)
			continue
		}
		if err != nil {
			f.logger.Error("Family service: failed to create family",
				"tenant_id", tenantID,
				"error", err.Error())
			return "", storageErr("failed to create family", err)
		}

		f.audit.Record(ctx, event(model.EventFamilyCreated, primaryUserID, tenantID, model.DeviceContext{}, map[string]any{
			"family_code": code,
		}))
		f.logger.Info("Family service: family created",
			"tenant_id", tenantID,
			"family_id", account.ID)

		return code, nil
	}

	f.logger.Error("Family service: family codes exhausted",
		"tenant_id", tenantID)
	return "", ErrFamilyCodeExhausted
}

// AddMember adds userID to the family identified by code. The requester must be
// a managing member of that family within the same tenant.
func (f *Families) AddMember(ctx context.Context, tenantID uuid.UUID, code string, userID uuid.UUID, relationship model.Relationship, requestedBy uuid.UUID) error {
	if _, err := model.ParseRelationship(string(relationship)); err != nil {
		return err
	}

	account, err := f.store.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, model.ErrNotFound) || (err == nil && account.TenantID != tenantID) {
		return model.ErrNotFound
	}
	if err != nil {
		return storageErr("failed to get family", err)
	}

	requester, err := f.store.GetMember(ctx, account.ID, requestedBy)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !requester.CanManageFamily) {
		return model.ErrAccessDenied
	}
	if err != nil {
		return storageErr("failed to get family member", err)
	}

	err = f.store.AddMember(ctx, model.FamilyMember{
		FamilyAccountID:  account.ID,
		UserID:           userID,
		Relationship:     relationship,
		RequiresApproval: relationship == model.RelationshipChild,
		CreatedAt:        f.now(),
	})
	if errors.Is(err, model.ErrConflict) {
		return model.ErrConflict
	}
	if err != nil {
		return storageErr("failed to add family member", err)
	}

	f.audit.Record(ctx, event(model.EventFamilyMemberAdded, userID, tenantID, model.DeviceContext{}, map[string]any{
		"family_id":    account.ID.String(),
		"added_by":     requestedBy.String(),
		"relationship": string(relationship),
	}))

	return nil
}
