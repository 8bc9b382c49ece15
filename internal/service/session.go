package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
)

// Sessions issues and validates bearer sessions bound to one tenant.
type Sessions struct {
	store     model.SessionStore
	devices   *Devices
	hasher    *secret.Hasher
	generator secret.Generator
	audit     *Audit
	logger    *logger.Logger
	ttl       time.Duration
	now       func() time.Time
}

func NewSessions(
	store model.SessionStore,
	devices *Devices,
	hasher *secret.Hasher,
	generator secret.Generator,
	audit *Audit,
	logger *logger.Logger,
	ttl time.Duration,
) *Sessions {
	return &Sessions{
		store:     store,
		devices:   devices,
		hasher:    hasher,
		generator: generator,
		audit:     audit,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *Sessions) newSession(ctx context.Context, userID, tenantID uuid.UUID, method model.LoginMethod, dc model.DeviceContext) (model.Session, string, error) {
	var device *model.TrustedDevice
	if method != model.LoginTenantSwitch {
		var err error
		// The credential is already spent; sign in without a device instead.
		device, err = s.devices.Observe(ctx, userID, dc, true)
		if err != nil {
			s.logger.Warn("Session service: continuing without device",
				"user_id", userID,
				"error", err.Error())
			device = nil
		}
	}

	token, err := s.generator.Token()
	if err != nil {
		return model.Session{}, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		TenantID:       tenantID,
		TokenHash:      s.hasher.Hash(token),
		IP:             dc.IP,
		UserAgent:      dc.UserAgent,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.ttl),
		IsActive:       true,
		LoginMethod:    method,
	}
	if device != nil {
		session.DeviceID = &device.ID
	}

	return session, token, nil
}

// Create starts a session and returns its bearer token. Only the token hash is stored.
// The device is recorded as a successful sign-in.
func (s *Sessions) Create(ctx context.Context, userID, tenantID uuid.UUID, method model.LoginMethod, dc model.DeviceContext) (string, error) {
	session, token, err := s.newSession(ctx, userID, tenantID, method, dc)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, session); err != nil {
		s.logger.Error("Session service: failed to create session",
			"user_id", userID,
			"tenant_id", tenantID,
			"error", err.Error())
		return "", storageErr("failed to create session", err)
	}

	s.logger.Info("Session service: session created",
		"session_id", session.ID,
		"user_id", userID,
		"tenant_id", tenantID,
		"method", method)

	return token, nil
}

// Validate returns the principal for a usable token, or nil when the token is
// unknown, expired, ended or bound to another tenant. tenantID == uuid.Nil matches any tenant.
func (s *Sessions) Validate(ctx context.Context, token string, tenantID uuid.UUID) (*model.Principal, error) {
	if token == "" {
		return nil, nil
	}

	now := s.now()
	identity, err := s.store.GetUsable(ctx, s.hasher.Hash(token), tenantID, now)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Session service: failed to validate session",
			"error", err.Error())
		return nil, storageErr("failed to validate session", err)
	}

	if err := s.store.Touch(ctx, identity.Session.ID, now); err != nil {
		s.logger.Warn("Session service: failed to touch session",
			"session_id", identity.Session.ID,
			"error", err.Error())
	}

	role := identity.UserRole
	if identity.TenantRole != nil {
		role = *identity.TenantRole
	}

	principal := &model.Principal{
		SessionID:   identity.Session.ID,
		UserID:      identity.Session.UserID,
		TenantID:    identity.Session.TenantID,
		Role:        role,
		Permissions: model.MergePermissions(role, identity.UserPermissions, identity.TenantPermissions),
	}
	if identity.Email != nil {
		principal.Email = *identity.Email
	}

	return principal, nil
}

// Invalidate ends the session. It reports false when the session was already ended or unknown.
func (s *Sessions) Invalidate(ctx context.Context, token string, dc model.DeviceContext) (bool, error) {
	if token == "" {
		return false, nil
	}

	session, changed, err := s.store.Deactivate(ctx, s.hasher.Hash(token), model.EndLoggedOut, s.now())
	if err != nil {
		s.logger.Error("Session service: failed to invalidate session",
			"error", err.Error())
		return false, storageErr("failed to invalidate session", err)
	}
	if !changed {
		return false, nil
	}

	s.audit.Record(ctx, event(model.EventLogout, session.UserID, session.TenantID, dc, nil))
	s.logger.Info("Session service: session ended",
		"session_id", session.ID,
		"reason", model.EndLoggedOut)

	return true, nil
}

// SwitchTenant atomically replaces the session for fromTenant with a new one for toTenant.
// It reports false, with no state change, when the user lacks access to toTenant
// or the old session is not usable.
func (s *Sessions) SwitchTenant(ctx context.Context, userID, fromTenant, toTenant uuid.UUID, oldToken string, dc model.DeviceContext) (string, bool, error) {
	next, token, err := s.newSession(ctx, userID, toTenant, model.LoginTenantSwitch, dc)
	if err != nil {
		return "", false, err
	}

	err = s.store.Switch(ctx, model.SwitchParams{
		UserID:       userID,
		FromTenantID: fromTenant,
		ToTenantID:   toTenant,
		OldTokenHash: s.hasher.Hash(oldToken),
		NewSession:   next,
		Now:          s.now(),
	})
	switch {
	case errors.Is(err, model.ErrAccessDenied), errors.Is(err, model.ErrNotFound):
		s.logger.Info("Session service: tenant switch refused",
			"user_id", userID,
			"to_tenant_id", toTenant,
			"reason", err.Error())
		return "", false, nil
	case err != nil:
		s.logger.Error("Session service: failed to switch tenant",
			"user_id", userID,
			"error", err.Error())
		return "", false, storageErr("failed to switch tenant", err)
	}

	s.audit.Record(ctx, event(model.EventTenantSwitched, userID, toTenant, dc, map[string]any{
		"from_tenant_id": fromTenant.String(),
	}))

	return token, true, nil
}

// ListActive returns the usable sessions of a user in the tenant.
func (s *Sessions) ListActive(ctx context.Context, tenantID, userID uuid.UUID) ([]model.Session, error) {
	sessions, err := s.store.ListActive(ctx, tenantID, userID, s.now())
	if err != nil {
		return nil, storageErr("failed to list sessions", err)
	}
	return sessions, nil
}

// Revoke ends a session of the tenant on behalf of an administrator.
func (s *Sessions) Revoke(ctx context.Context, tenantID, sessionID, revokedBy uuid.UUID) error {
	session, err := s.store.Revoke(ctx, tenantID, sessionID, s.now())
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return storageErr("failed to revoke session", err)
	}

	s.audit.Record(ctx, event(model.EventSessionRevoked, session.UserID, tenantID, model.DeviceContext{}, map[string]any{
		"session_id": sessionID.String(),
		"revoked_by": revokedBy.String(),
	}))

	return nil
}
