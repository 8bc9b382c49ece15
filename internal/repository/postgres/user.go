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

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, tenant_id, email, phone, first_name, is_active, locked_until, role, permissions,
	person_id, preferred_auth_method, onboarding_completed, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Email, &u.Phone, &u.FirstName, &u.Active, &u.LockedUntil, &u.Role, &u.Permissions,
		&u.PersonID, &u.PreferredAuthMethod, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByContact(ctx context.Context, tenantID uuid.UUID, kind model.ContactKind, value string) (model.User, error) {
	user, err := getByContact(ctx, r.db, tenantID, kind, value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", kind, err)
	}

	return user, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getByContact(ctx context.Context, q querier, tenantID uuid.UUID, kind model.ContactKind, value string) (model.User, error) {
	var query string
	switch kind {
	case model.ContactEmail:
		query = `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND email = $2`
	case model.ContactPhone:
		query = `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND phone = $2`
	default:
		return model.User{}, fmt.Errorf("unknown contact kind %q", kind)
	}
	return scanUser(q.QueryRow(ctx, query, tenantID, value))
}

func (r *UserRepository) CreateOrGet(ctx context.Context, user model.User) (model.User, bool, error) {
	permissions := user.Permissions
	if permissions == nil {
		permissions = model.PermissionSet{}
	}

	var (
		saved   model.User
		created bool
	)
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		insert := `INSERT INTO users
				   (id, tenant_id, email, phone, first_name, is_active, role, permissions, preferred_auth_method, created_at, updated_at)
				   VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8, $9, $9)
				   ON CONFLICT DO NOTHING
				   RETURNING ` + userColumns

		var err error
		saved, err = scanUser(tx.QueryRow(ctx, insert,
			user.ID, user.TenantID, user.Email, user.Phone, user.FirstName,
			string(user.Role), permissions, string(user.PreferredAuthMethod), user.CreatedAt,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			kind, value := model.ContactEmail, user.Contact(model.ContactEmail)
			if value == "" {
				kind, value = model.ContactPhone, user.Contact(model.ContactPhone)
			}
			saved, err = getByContact(ctx, tx, user.TenantID, kind, value)
			if err != nil {
				return fmt.Errorf("failed to load existing user: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		created = true

		access := `INSERT INTO tenant_access (user_id, tenant_id, role, is_primary, accepted_at, created_at, updated_at)
				   VALUES ($1, $2, $3, TRUE, $4, $4, $4)`
		if _, err := tx.Exec(ctx, access, saved.ID, saved.TenantID, string(saved.Role), user.CreatedAt); err != nil {
			return fmt.Errorf("failed to create primary tenant access: %w", err)
		}

		if saved.Email == nil {
			return nil
		}
		link := `UPDATE users SET person_id = p.id
				 FROM (SELECT id FROM people WHERE tenant_id = $1 AND lower(email) = lower($2) LIMIT 1) p
				 WHERE users.id = $3
				 RETURNING users.person_id`
		err = tx.QueryRow(ctx, link, saved.TenantID, *saved.Email, saved.ID).Scan(&saved.PersonID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to link person: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, created, nil
}

func (r *UserRepository) SetLockedUntil(ctx context.Context, tenantID, id uuid.UUID, until *time.Time) error {
	query := `UPDATE users SET locked_until = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`

	tag, err := r.db.Exec(ctx, query, tenantID, id, until)
	if err != nil {
		return fmt.Errorf("failed to set user lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
