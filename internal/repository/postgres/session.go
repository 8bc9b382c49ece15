package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

const sessionColumns = `s.id, s.user_id, s.tenant_id, s.token_hash, s.device_id, COALESCE(s.ip, ''), COALESCE(s.user_agent, ''),
	s.created_at, s.last_activity_at, s.expires_at, s.is_active, s.ended_at, COALESCE(s.end_reason, ''), s.login_method`

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func sessionDest(s *model.Session) []any {
	return []any{
		&s.ID, &s.UserID, &s.TenantID, &s.TokenHash, &s.DeviceID, &s.IP, &s.UserAgent,
		&s.CreatedAt, &s.LastActivityAt, &s.ExpiresAt, &s.IsActive, &s.EndedAt, &s.EndReason, &s.LoginMethod,
	}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertSession(ctx context.Context, db execer, s model.Session) error {
	query := `INSERT INTO user_sessions
			  (id, user_id, tenant_id, token_hash, device_id, ip, user_agent, created_at, last_activity_at, expires_at, is_active, login_method)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9, TRUE, $10)`

	_, err := db.Exec(ctx, query,
		s.ID, s.UserID, s.TenantID, s.TokenHash, s.DeviceID, nullString(s.IP), nullString(s.UserAgent),
		s.CreatedAt, s.ExpiresAt, string(s.LoginMethod),
	)
	return err
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	if err := insertSession(ctx, r.db, s); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetUsable(ctx context.Context, tokenHash []byte, tenantID uuid.UUID, now time.Time) (model.SessionIdentity, error) {
	query := `SELECT ` + sessionColumns + `, u.email, u.role, u.permissions, ta.role, ta.permissions
			  FROM user_sessions s
			  JOIN users u ON u.id = s.user_id
			  LEFT JOIN tenant_access ta ON ta.user_id = s.user_id AND ta.tenant_id = s.tenant_id
			  WHERE s.token_hash = $1 AND s.is_active AND s.expires_at > $2 AND u.is_active
			    AND ($3::uuid IS NULL OR s.tenant_id = $3)`

	var (
		id        model.SessionIdentity
		tenantRaw model.PermissionSet
	)
	dest := append(sessionDest(&id.Session), &id.Email, &id.UserRole, &id.UserPermissions, &id.TenantRole, &tenantRaw)
	err := r.db.QueryRow(ctx, query, tokenHash, now, nullUUID(tenantID)).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionIdentity{}, model.ErrNotFound
		}
		return model.SessionIdentity{}, fmt.Errorf("failed to get session: %w", err)
	}
	id.TenantPermissions = tenantRaw

	return id, nil
}

func (r *SessionRepository) Touch(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `UPDATE user_sessions SET last_activity_at = $2 WHERE id = $1 AND is_active`

	if _, err := r.db.Exec(ctx, query, id, now); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Deactivate(ctx context.Context, tokenHash []byte, reason model.EndReason, now time.Time) (model.Session, bool, error) {
	query := `UPDATE user_sessions s
			  SET is_active = FALSE, ended_at = $3, end_reason = $2
			  WHERE s.token_hash = $1 AND s.is_active
			  RETURNING ` + sessionColumns

	var s model.Session
	err := r.db.QueryRow(ctx, query, tokenHash, string(reason), now).Scan(sessionDest(&s)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, false, nil
		}
		return model.Session{}, false, fmt.Errorf("failed to deactivate session: %w", err)
	}

	return s, true, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, tenantID, id uuid.UUID, now time.Time) (model.Session, error) {
	query := `UPDATE user_sessions s
			  SET is_active = FALSE, ended_at = $3, end_reason = 'revoked'
			  WHERE s.tenant_id = $1 AND s.id = $2 AND s.is_active
			  RETURNING ` + sessionColumns

	var s model.Session
	err := r.db.QueryRow(ctx, query, tenantID, id, now).Scan(sessionDest(&s)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to revoke session: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) Switch(ctx context.Context, p model.SwitchParams) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var one int
		access := `SELECT 1 FROM tenant_access WHERE user_id = $1 AND tenant_id = $2 FOR UPDATE`
		if err := tx.QueryRow(ctx, access, p.UserID, p.ToTenantID).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrAccessDenied
			}
			return fmt.Errorf("failed to check tenant access: %w", err)
		}

		end := `UPDATE user_sessions
				SET is_active = FALSE, ended_at = $4, end_reason = 'switched'
				WHERE token_hash = $1 AND user_id = $2 AND tenant_id = $3 AND is_active AND expires_at > $4`
		tag, err := tx.Exec(ctx, end, p.OldTokenHash, p.UserID, p.FromTenantID, p.Now)
		if err != nil {
			return fmt.Errorf("failed to end old session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotFound
		}

		if err := insertSession(ctx, tx, p.NewSession); err != nil {
			return fmt.Errorf("failed to create new session: %w", err)
		}

		touch := `UPDATE tenant_access SET last_accessed_at = $3 WHERE user_id = $1 AND tenant_id = $2`
		if _, err := tx.Exec(ctx, touch, p.UserID, p.ToTenantID, p.Now); err != nil {
			return fmt.Errorf("failed to update last access: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrAccessDenied) || errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to switch tenant: %w", err)
	}

	return nil
}

func (r *SessionRepository) ListActive(ctx context.Context, tenantID, userID uuid.UUID, now time.Time) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + `
			  FROM user_sessions s
			  WHERE s.tenant_id = $1 AND s.user_id = $2 AND s.is_active AND s.expires_at > $3
			  ORDER BY s.last_activity_at DESC`

	rows, err := r.db.Query(ctx, query, tenantID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(sessionDest(&s)...); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE user_sessions
			  SET is_active = FALSE, ended_at = expires_at, end_reason = 'expired'
			  WHERE is_active AND expires_at <= $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
