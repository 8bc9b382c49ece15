package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.FamilyStore = (*FamilyRepository)(nil)

type FamilyRepository struct {
	db *Connection
}

func NewFamilyRepository(db *Connection) *FamilyRepository {
	return &FamilyRepository{
		db: db,
	}
}

// Create relies on the unique code constraint; a taken code yields ErrConflict and nothing is written.
func (r *FamilyRepository) Create(ctx context.Context, account model.FamilyAccount, primary model.FamilyMember) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		insert := `INSERT INTO family_accounts (id, tenant_id, primary_user_id, name, code, household_id, created_at)
				   VALUES ($1, $2, $3, $4, $5, $6, $7)
				   ON CONFLICT (code) DO NOTHING
				   RETURNING id`

		var id uuid.UUID
		err := tx.QueryRow(ctx, insert,
			account.ID, account.TenantID, account.PrimaryUserID, account.Name, account.Code, account.HouseholdID, account.CreatedAt,
		).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrConflict
			}
			return fmt.Errorf("failed to insert family account: %w", err)
		}

		primary.FamilyAccountID = id
		if err := insertMember(ctx, tx, primary); err != nil {
			return fmt.Errorf("failed to insert primary member: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to create family account: %w", err)
	}

	return nil
}

func insertMember(ctx context.Context, db execer, m model.FamilyMember) error {
	query := `INSERT INTO family_members
			  (family_account_id, user_id, relationship, can_manage_family, requires_approval, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(ctx, query,
		m.FamilyAccountID, m.UserID, string(m.Relationship), m.CanManageFamily, m.RequiresApproval, m.CreatedAt,
	)
	return err
}

func (r *FamilyRepository) GetByCode(ctx context.Context, code string) (model.FamilyAccount, error) {
	query := `SELECT id, tenant_id, primary_user_id, name, code, household_id, created_at
			  FROM family_accounts WHERE code = $1`

	var f model.FamilyAccount
	err := r.db.QueryRow(ctx, query, code).Scan(
		&f.ID, &f.TenantID, &f.PrimaryUserID, &f.Name, &f.Code, &f.HouseholdID, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FamilyAccount{}, model.ErrNotFound
		}
		return model.FamilyAccount{}, fmt.Errorf("failed to get family account: %w", err)
	}

	return f, nil
}

func (r *FamilyRepository) GetMember(ctx context.Context, familyID, userID uuid.UUID) (model.FamilyMember, error) {
	query := `SELECT family_account_id, user_id, relationship, can_manage_family, requires_approval, created_at
			  FROM family_members WHERE family_account_id = $1 AND user_id = $2`

	var m model.FamilyMember
	err := r.db.QueryRow(ctx, query, familyID, userID).Scan(
		&m.FamilyAccountID, &m.UserID, &m.Relationship, &m.CanManageFamily, &m.RequiresApproval, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FamilyMember{}, model.ErrNotFound
		}
		return model.FamilyMember{}, fmt.Errorf("failed to get family member: %w", err)
	}

	return m, nil
}

func (r *FamilyRepository) AddMember(ctx context.Context, m model.FamilyMember) error {
	if err := insertMember(ctx, r.db, m); err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to add family member: %w", err)
	}

	return nil
}
