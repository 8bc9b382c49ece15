package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

const auditColumns = `id, user_id, tenant_id, event_type, details, COALESCE(ip, ''), COALESCE(user_agent, ''),
	COALESCE(device_fingerprint, ''), risk_score, created_at`

type AuditRepository struct {
	db *Connection
}

func NewAuditRepository(db *Connection) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func scanAuditEvent(row pgx.CollectableRow) (model.AuditEvent, error) {
	var e model.AuditEvent
	err := row.Scan(
		&e.ID, &e.UserID, &e.TenantID, &e.EventType, &e.Details, &e.IP, &e.UserAgent,
		&e.DeviceFingerprint, &e.RiskScore, &e.CreatedAt,
	)
	return e, err
}

func (r *AuditRepository) Insert(ctx context.Context, e model.AuditEvent) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}

	query := `INSERT INTO auth_audit_log
			  (id, user_id, tenant_id, event_type, details, ip, user_agent, device_fingerprint, risk_score, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.UserID, e.TenantID, e.EventType, details,
		nullString(e.IP), nullString(e.UserAgent), nullString(e.DeviceFingerprint), e.RiskScore, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}

func (r *AuditRepository) List(ctx context.Context, tenantID uuid.UUID, f model.AuditFilter) ([]model.AuditEvent, error) {
	query := `SELECT ` + auditColumns + `
			  FROM auth_audit_log
			  WHERE tenant_id = $1
			    AND ($2::uuid IS NULL OR user_id = $2)
			    AND ($3::text = '' OR event_type = $3)
			  ORDER BY created_at DESC
			  LIMIT $4 OFFSET $5`

	rows, err := r.db.Query(ctx, query, tenantID, f.UserID, f.EventType, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	events, err := pgx.CollectRows(rows, scanAuditEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit events: %w", err)
	}

	return events, nil
}

func (r *AuditRepository) ListBefore(ctx context.Context, before time.Time, limit int) ([]model.AuditEvent, error) {
	query := `SELECT ` + auditColumns + `
			  FROM auth_audit_log
			  WHERE created_at < $1
			  ORDER BY created_at
			  LIMIT $2`

	rows, err := r.db.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list old audit events: %w", err)
	}

	events, err := pgx.CollectRows(rows, scanAuditEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit events: %w", err)
	}

	return events, nil
}

func (r *AuditRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM auth_audit_log WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}

	return tag.RowsAffected(), nil
}
