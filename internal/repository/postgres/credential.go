package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

const credentialColumns = `id, kind, subject, tenant_id, secret_hash, purpose, created_at, expires_at,
	used_at, invalidated_at, attempt_count, COALESCE(origin_ip, ''), COALESCE(origin_agent, ''), metadata`

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{
		db: db,
	}
}

func scanCredential(row pgx.Row) (model.OneTimeCredential, error) {
	var c model.OneTimeCredential
	err := row.Scan(
		&c.ID, &c.Kind, &c.Subject, &c.TenantID, &c.SecretHash, &c.Purpose, &c.CreatedAt, &c.ExpiresAt,
		&c.UsedAt, &c.InvalidatedAt, &c.AttemptCount, &c.OriginIP, &c.OriginAgent, &c.Metadata,
	)
	return c, err
}

func (r *CredentialRepository) Create(ctx context.Context, c model.OneTimeCredential) error {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query := `INSERT INTO one_time_credentials
			  (id, kind, subject, tenant_id, secret_hash, purpose, created_at, expires_at, origin_ip, origin_agent, metadata)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		c.ID, string(c.Kind), c.Subject, c.TenantID, c.SecretHash, string(c.Purpose), c.CreatedAt, c.ExpiresAt,
		nullString(c.OriginIP), nullString(c.OriginAgent), metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return nil
}

// Consume marks the newest pending credential matching the hash as used.
// Concurrent callers race on the used_at IS NULL recheck; only one row update wins.
func (r *CredentialRepository) Consume(ctx context.Context, p model.ConsumeCredentialParams) (model.OneTimeCredential, error) {
	query := `UPDATE one_time_credentials
			  SET used_at = $1, used_ip = $2, used_agent = $3
			  WHERE id = (
				  SELECT id FROM one_time_credentials
				  WHERE kind = $4 AND secret_hash = $5
				    AND ($6::uuid IS NULL OR tenant_id = $6)
				    AND ($7::text = '' OR subject = $7)
				    AND used_at IS NULL AND invalidated_at IS NULL
				    AND expires_at > $1 AND attempt_count < $8
				  ORDER BY created_at DESC
				  LIMIT 1
			  ) AND used_at IS NULL AND invalidated_at IS NULL
			  RETURNING ` + credentialColumns

	c, err := scanCredential(r.db.QueryRow(ctx, query,
		p.Now, nullString(p.UsedIP), nullString(p.UsedAgent),
		string(p.Kind), p.SecretHash, nullUUID(p.TenantID), p.Subject, p.MaxAttempts,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OneTimeCredential{}, model.ErrNotFound
		}
		return model.OneTimeCredential{}, fmt.Errorf("failed to consume credential: %w", err)
	}

	return c, nil
}

func (r *CredentialRepository) RecordFailedAttempt(ctx context.Context, kind model.CredentialKind, tenantID uuid.UUID, subject string, now time.Time, maxAttempts int) (int, error) {
	query := `UPDATE one_time_credentials
			  SET attempt_count = attempt_count + 1,
			      invalidated_at = CASE WHEN attempt_count + 1 >= $5 THEN $4 ELSE invalidated_at END
			  WHERE id = (
				  SELECT id FROM one_time_credentials
				  WHERE kind = $1 AND tenant_id = $2 AND subject = $3
				    AND used_at IS NULL AND invalidated_at IS NULL AND expires_at > $4
				  ORDER BY created_at DESC
				  LIMIT 1
			  ) AND invalidated_at IS NULL
			  RETURNING attempt_count`

	var attempts int
	err := r.db.QueryRow(ctx, query, string(kind), tenantID, subject, now, maxAttempts).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to record failed attempt: %w", err)
	}

	return attempts, nil
}

func (r *CredentialRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM one_time_credentials WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired credentials: %w", err)
	}

	return tag.RowsAffected(), nil
}
