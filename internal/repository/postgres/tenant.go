package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var (
	_ model.TenantStore       = (*TenantRepository)(nil)
	_ model.TenantAccessStore = (*TenantAccessRepository)(nil)
)

type TenantRepository struct {
	db *Connection
}

func NewTenantRepository(db *Connection) *TenantRepository {
	return &TenantRepository{
		db: db,
	}
}

func (r *TenantRepository) Create(ctx context.Context, t model.Tenant) error {
	status := t.Status
	if status == "" {
		status = "active"
	}

	query := `INSERT INTO tenants (id, name, subdomain, welcome_message, status) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, t.ID, t.Name, nullString(t.Subdomain), t.WelcomeMessage, status); err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return nil
}

const tenantColumns = `id, name, COALESCE(subdomain, ''), welcome_message, status`

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	var t model.Tenant
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Subdomain, &t.WelcomeMessage, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Tenant{}, model.ErrNotFound
		}
		return model.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	return t, nil
}

func (r *TenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (model.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = $1 AND status = 'active'`

	var t model.Tenant
	err := r.db.QueryRow(ctx, query, subdomain).Scan(&t.ID, &t.Name, &t.Subdomain, &t.WelcomeMessage, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Tenant{}, model.ErrNotFound
		}
		return model.Tenant{}, fmt.Errorf("failed to get tenant by subdomain: %w", err)
	}

	return t, nil
}

const accessColumns = `user_id, tenant_id, role, permissions, is_primary, invited_by, accepted_at, last_accessed_at, created_at, updated_at`

type TenantAccessRepository struct {
	db *Connection
}

func NewTenantAccessRepository(db *Connection) *TenantAccessRepository {
	return &TenantAccessRepository{
		db: db,
	}
}

func accessDest(a *model.TenantAccess) []any {
	return []any{
		&a.UserID, &a.TenantID, &a.Role, &a.Permissions, &a.IsPrimary, &a.InvitedBy,
		&a.AcceptedAt, &a.LastAccessedAt, &a.CreatedAt, &a.UpdatedAt,
	}
}

// Upsert grants access. Repeated grants overwrite role and permissions.
func (r *TenantAccessRepository) Upsert(ctx context.Context, a model.TenantAccess) (model.TenantAccess, error) {
	permissions := a.Permissions
	if permissions == nil {
		permissions = model.PermissionSet{}
	}

	query := `INSERT INTO tenant_access AS ta
			  (user_id, tenant_id, role, permissions, invited_by, invited_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, CASE WHEN $5::uuid IS NULL THEN NULL ELSE $6::timestamptz END, $6, $6)
			  ON CONFLICT (user_id, tenant_id) DO UPDATE SET
			      role = EXCLUDED.role,
			      permissions = EXCLUDED.permissions,
			      invited_by = COALESCE(EXCLUDED.invited_by, ta.invited_by),
			      updated_at = EXCLUDED.updated_at
			  RETURNING ` + accessColumns

	var saved model.TenantAccess
	err := r.db.QueryRow(ctx, query,
		a.UserID, a.TenantID, string(a.Role), permissions, a.InvitedBy, a.UpdatedAt,
	).Scan(accessDest(&saved)...)
	if err != nil {
		return model.TenantAccess{}, fmt.Errorf("failed to upsert tenant access: %w", err)
	}

	return saved, nil
}

func (r *TenantAccessRepository) Get(ctx context.Context, userID, tenantID uuid.UUID) (model.TenantAccess, error) {
	query := `SELECT ` + accessColumns + ` FROM tenant_access WHERE user_id = $1 AND tenant_id = $2`

	var a model.TenantAccess
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(accessDest(&a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TenantAccess{}, model.ErrNotFound
		}
		return model.TenantAccess{}, fmt.Errorf("failed to get tenant access: %w", err)
	}

	return a, nil
}

func (r *TenantAccessRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	query := `SELECT t.id, t.name, ta.role, ta.is_primary
			  FROM tenant_access ta
			  JOIN tenants t ON t.id = ta.tenant_id
			  WHERE ta.user_id = $1 AND t.status = 'active'
			  ORDER BY ta.is_primary DESC, t.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.TenantID, &m.TenantName, &m.Role, &m.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return memberships, nil
}
