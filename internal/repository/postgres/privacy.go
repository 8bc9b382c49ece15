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

var _ model.PrivacyStore = (*PrivacyRepository)(nil)

type PrivacyRepository struct {
	db *Connection
}

func NewPrivacyRepository(db *Connection) *PrivacyRepository {
	return &PrivacyRepository{
		db: db,
	}
}

func (r *PrivacyRepository) UpsertConsent(ctx context.Context, c model.PrivacyConsent) error {
	query := `INSERT INTO privacy_consents (user_id, tenant_id, consent_type, consented, ip, user_agent, recorded_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_id, tenant_id, consent_type) DO UPDATE SET
			      consented = EXCLUDED.consented,
			      ip = EXCLUDED.ip,
			      user_agent = EXCLUDED.user_agent,
			      recorded_at = EXCLUDED.recorded_at`

	_, err := r.db.Exec(ctx, query,
		c.UserID, c.TenantID, string(c.ConsentType), c.Consented, nullString(c.IP), nullString(c.UserAgent), c.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert consent: %w", err)
	}

	return nil
}

// UpsertDirectory skips the update, updated_at included, when nothing changed.
func (r *PrivacyRepository) UpsertDirectory(ctx context.Context, s model.DirectoryPrivacySettings, now time.Time) (bool, error) {
	query := `INSERT INTO directory_privacy AS dp
			  (person_id, tenant_id, is_listed, show_email, show_phone, show_address, show_birthday,
			   show_family_members, show_groups, visible_to_roles, custom_rules, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  ON CONFLICT (person_id, tenant_id) DO UPDATE SET
			      is_listed = EXCLUDED.is_listed,
			      show_email = EXCLUDED.show_email,
			      show_phone = EXCLUDED.show_phone,
			      show_address = EXCLUDED.show_address,
			      show_birthday = EXCLUDED.show_birthday,
			      show_family_members = EXCLUDED.show_family_members,
			      show_groups = EXCLUDED.show_groups,
			      visible_to_roles = EXCLUDED.visible_to_roles,
			      custom_rules = EXCLUDED.custom_rules,
			      updated_at = EXCLUDED.updated_at
			  WHERE (dp.is_listed, dp.show_email, dp.show_phone, dp.show_address, dp.show_birthday,
			         dp.show_family_members, dp.show_groups, dp.visible_to_roles, dp.custom_rules)
			      IS DISTINCT FROM
			        (EXCLUDED.is_listed, EXCLUDED.show_email, EXCLUDED.show_phone, EXCLUDED.show_address, EXCLUDED.show_birthday,
			         EXCLUDED.show_family_members, EXCLUDED.show_groups, EXCLUDED.visible_to_roles, EXCLUDED.custom_rules)`

	rules := s.CustomRules
	if rules == nil {
		rules = map[string]any{}
	}

	tag, err := r.db.Exec(ctx, query,
		s.PersonID, s.TenantID, s.IsListed, s.ShowEmail, s.ShowPhone, s.ShowAddress, s.ShowBirthday,
		s.ShowFamilyMembers, s.ShowGroups, rolesToStrings(s.VisibleToRoles), rules, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert directory privacy: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PrivacyRepository) GetDirectory(ctx context.Context, personID, tenantID uuid.UUID) (model.DirectoryPrivacySettings, error) {
	query := `SELECT person_id, tenant_id, is_listed, show_email, show_phone, show_address, show_birthday,
			         show_family_members, show_groups, visible_to_roles, custom_rules, updated_at
			  FROM directory_privacy WHERE person_id = $1 AND tenant_id = $2`

	var (
		s     model.DirectoryPrivacySettings
		roles []string
	)
	err := r.db.QueryRow(ctx, query, personID, tenantID).Scan(
		&s.PersonID, &s.TenantID, &s.IsListed, &s.ShowEmail, &s.ShowPhone, &s.ShowAddress, &s.ShowBirthday,
		&s.ShowFamilyMembers, &s.ShowGroups, &roles, &s.CustomRules, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DirectoryPrivacySettings{}, model.ErrNotFound
		}
		return model.DirectoryPrivacySettings{}, fmt.Errorf("failed to get directory privacy: %w", err)
	}

	s.VisibleToRoles = make([]model.Role, 0, len(roles))
	for _, role := range roles {
		s.VisibleToRoles = append(s.VisibleToRoles, model.Role(role))
	}

	return s, nil
}

func rolesToStrings(roles []model.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
