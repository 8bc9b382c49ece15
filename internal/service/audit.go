package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Audit appends security events. Recording never fails the calling operation.
type Audit struct {
	store  model.AuditStore
	logger *logger.Logger
	now    func() time.Time
}

func NewAudit(store model.AuditStore, logger *logger.Logger) *Audit {
	return &Audit{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Record stores the event. Failures are logged and swallowed.
func (a *Audit) Record(ctx context.Context, event model.AuditEvent) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = a.now()
	}

	if err := a.store.Insert(ctx, event); err != nil {
		a.logger.Error("Audit service: failed to record event",
			"event_type", event.EventType,
			"error", err.Error())
	}
}

// List returns events of a tenant, newest first.
func (a *Audit) List(ctx context.Context, tenantID uuid.UUID, filter model.AuditFilter) ([]model.AuditEvent, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLimit
	}
	filter.Limit = min(filter.Limit, maxAuditLimit)
	filter.Offset = max(filter.Offset, 0)

	events, err := a.store.List(ctx, tenantID, filter)
	if err != nil {
		a.logger.Error("Audit service: failed to list events",
			"tenant_id", tenantID,
			"error", err.Error())
		return nil, storageErr("failed to list audit events", err)
	}

	return events, nil
}

// event builds an audit event carrying the device context.
func event(eventType string, userID, tenantID uuid.UUID, dc model.DeviceContext, details map[string]any) model.AuditEvent {
	e := model.AuditEvent{
		EventType:         eventType,
		Details:           details,
		IP:                dc.IP,
		UserAgent:         dc.UserAgent,
		DeviceFingerprint: dc.Fingerprint,
	}
	if userID != uuid.Nil {
		e.UserID = &userID
	}
	if tenantID != uuid.Nil {
		e.TenantID = &tenantID
	}
	return e
}
