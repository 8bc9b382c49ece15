package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.DeviceStore = (*DeviceRepository)(nil)

const deviceColumns = `d.id, d.user_id, d.fingerprint, COALESCE(d.device_type, ''), COALESCE(d.browser, ''), COALESCE(d.os, ''),
	d.trust_score, d.is_trusted, d.trusted_at, d.trusted_until, d.last_seen_at, d.last_success_at,
	COALESCE(d.last_ip, ''), COALESCE(d.last_agent, ''), d.success_count, d.ip_changes, d.agent_changes`

type DeviceRepository struct {
	db *Connection
}

func NewDeviceRepository(db *Connection) *DeviceRepository {
	return &DeviceRepository{
		db: db,
	}
}

func deviceDest(d *model.TrustedDevice) []any {
	return []any{
		&d.ID, &d.UserID, &d.Fingerprint, &d.DeviceType, &d.Browser, &d.OS,
		&d.TrustScore, &d.IsTrusted, &d.TrustedAt, &d.TrustedUntil, &d.LastSeenAt, &d.LastSuccessAt,
		&d.LastIP, &d.LastAgent, &d.SuccessCount, &d.IPChanges, &d.AgentChanges,
	}
}

// Observe records a sighting. IP and agent changes count transitions from a
// previously known value, not the first value seen.
func (r *DeviceRepository) Observe(ctx context.Context, userID uuid.UUID, dc model.DeviceContext, successful bool, now time.Time) (model.TrustedDevice, error) {
	query := `INSERT INTO trusted_devices AS d
			  (id, user_id, fingerprint, device_type, browser, os, last_seen_at, last_success_at, last_ip, last_agent, success_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $8::boolean THEN $7::timestamptz END, $9, $10,
			          CASE WHEN $8::boolean THEN 1 ELSE 0 END)
			  ON CONFLICT (user_id, fingerprint) DO UPDATE SET
			      device_type = COALESCE(EXCLUDED.device_type, d.device_type),
			      browser = COALESCE(EXCLUDED.browser, d.browser),
			      os = COALESCE(EXCLUDED.os, d.os),
			      last_seen_at = EXCLUDED.last_seen_at,
			      last_success_at = COALESCE(EXCLUDED.last_success_at, d.last_success_at),
			      success_count = d.success_count + EXCLUDED.success_count,
			      ip_changes = d.ip_changes + CASE
			          WHEN d.last_ip IS NOT NULL AND EXCLUDED.last_ip IS NOT NULL AND d.last_ip <> EXCLUDED.last_ip THEN 1 ELSE 0 END,
			      agent_changes = d.agent_changes + CASE
			          WHEN d.last_agent IS NOT NULL AND EXCLUDED.last_agent IS NOT NULL AND d.last_agent <> EXCLUDED.last_agent THEN 1 ELSE 0 END,
			      last_ip = COALESCE(EXCLUDED.last_ip, d.last_ip),
			      last_agent = COALESCE(EXCLUDED.last_agent, d.last_agent)
			  RETURNING ` + deviceColumns

	var d model.TrustedDevice
	err := r.db.QueryRow(ctx, query,
		uuid.New(), userID, dc.Fingerprint, nullString(dc.DeviceType), nullString(dc.Browser), nullString(dc.OS),
		now, successful, nullString(dc.IP), nullString(dc.UserAgent),
	).Scan(deviceDest(&d)...)
	if err != nil {
		return model.TrustedDevice{}, fmt.Errorf("failed to observe device: %w", err)
	}

	return d, nil
}

func (r *DeviceRepository) Trust(ctx context.Context, userID uuid.UUID, dc model.DeviceContext, minScore float64, until, now time.Time) (model.TrustedDevice, error) {
	query := `INSERT INTO trusted_devices AS d
			  (id, user_id, fingerprint, device_type, browser, os, trust_score, is_trusted, trusted_at, trusted_until,
			   last_seen_at, last_ip, last_agent)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9, $8, $10, $11)
			  ON CONFLICT (user_id, fingerprint) DO UPDATE SET
			      is_trusted = TRUE,
			      trusted_at = EXCLUDED.trusted_at,
			      trusted_until = EXCLUDED.trusted_until,
			      trust_score = GREATEST(d.trust_score, EXCLUDED.trust_score),
			      last_seen_at = EXCLUDED.last_seen_at
			  RETURNING ` + deviceColumns

	var d model.TrustedDevice
	err := r.db.QueryRow(ctx, query,
		uuid.New(), userID, dc.Fingerprint, nullString(dc.DeviceType), nullString(dc.Browser), nullString(dc.OS),
		minScore, now, until, nullString(dc.IP), nullString(dc.UserAgent),
	).Scan(deviceDest(&d)...)
	if err != nil {
		return model.TrustedDevice{}, fmt.Errorf("failed to trust device: %w", err)
	}

	return d, nil
}

func (r *DeviceRepository) Touch(ctx context.Context, id uuid.UUID, score float64, ip string, now time.Time) error {
	query := `UPDATE trusted_devices
			  SET trust_score = $2, last_seen_at = $4, last_ip = COALESCE($3, last_ip)
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, score, nullString(ip), now)
	if err != nil {
		return fmt.Errorf("failed to touch device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *DeviceRepository) FindTrusted(ctx context.Context, tenantID uuid.UUID, fingerprint string, now time.Time) ([]model.DeviceCandidate, error) {
	query := `SELECT ` + deviceColumns + `, u.email, u.first_name
			  FROM trusted_devices d
			  JOIN users u ON u.id = d.user_id
			  WHERE d.fingerprint = $1 AND d.is_trusted AND d.trusted_until > $3
			    AND u.tenant_id = $2 AND u.is_active
			  ORDER BY d.trust_score DESC, d.last_success_at DESC NULLS LAST`

	rows, err := r.db.Query(ctx, query, fingerprint, tenantID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find trusted devices: %w", err)
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DeviceCandidate, error) {
		var c model.DeviceCandidate
		err := row.Scan(append(deviceDest(&c.Device), &c.Email, &c.FirstName)...)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan trusted devices: %w", err)
	}

	return candidates, nil
}
