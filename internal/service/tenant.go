package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// GrantParams describes a tenant access grant.
type GrantParams struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	Role        model.Role
	Permissions model.PermissionSet
	InvitedBy   *uuid.UUID
}

// TenantAccess manages which tenants a user may act in.
type TenantAccess struct {
	store  model.TenantAccessStore
	audit  *Audit
	logger *logger.Logger
	now    func() time.Time
}

func NewTenantAccess(store model.TenantAccessStore, audit *Audit, logger *logger.Logger) *TenantAccess {
	return &TenantAccess{
		store:  store,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// Grant creates or overwrites the user's access to the tenant.
func (t *TenantAccess) Grant(ctx context.Context, p GrantParams) (model.TenantAccess, error) {
	if _, err := model.ParseRole(string(p.Role)); err != nil {
		return model.TenantAccess{}, err
	}

	access, err := t.store.Upsert(ctx, model.TenantAccess{
		UserID:      p.UserID,
		TenantID:    p.TenantID,
		Role:        p.Role,
		Permissions: p.Permissions,
		InvitedBy:   p.InvitedBy,
		UpdatedAt:   t.now(),
	})
	if err != nil {
		t.logger.Error("Tenant service: failed to grant access",
			"user_id", p.UserID,
			"tenant_id", p.TenantID,
			"error", err.Error())
		return model.TenantAccess{}, storageErr("failed to grant tenant access", err)
	}

	details := map[string]any{"role": string(p.Role)}
	if p.InvitedBy != nil {
		details["invited_by"] = p.InvitedBy.String()
	}
	t.audit.Record(ctx, event(model.EventTenantAccessGranted, p.UserID, p.TenantID, model.DeviceContext{}, details))

	t.logger.Info("Tenant service: access granted",
		"user_id", p.UserID,
		"tenant_id", p.TenantID,
		"role", p.Role)

	return access, nil
}

// HasAccess reports the user's role in the tenant.
func (t *TenantAccess) HasAccess(ctx context.Context, userID, tenantID uuid.UUID) (model.Role, bool, error) {
	access, err := t.store.Get(ctx, userID, tenantID)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("failed to get tenant access", err)
	}
	return access.Role, true, nil
}

// Memberships lists the active tenants the user can switch to.
func (t *TenantAccess) Memberships(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	memberships, err := t.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to list memberships", err)
	}
	return memberships, nil
}
