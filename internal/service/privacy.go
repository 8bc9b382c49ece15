package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// customRulesSchema limits directory custom rules to known switches.
const customRulesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "hide_from_visitors": {"type": "boolean"},
    "hide_photo": {"type": "boolean"},
    "show_only_to_groups": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "uniqueItems": true
    },
    "hidden_fields": {
      "type": "array",
      "items": {"enum": ["email", "phone", "address", "birthday", "family_members", "groups"]},
      "uniqueItems": true
    },
    "note": {"type": "string", "maxLength": 500}
  }
}`

// Privacy records consent decisions and member directory visibility.
type Privacy struct {
	store  model.PrivacyStore
	schema *gojsonschema.Schema
	audit  *Audit
	logger *logger.Logger
	now    func() time.Time
}

func NewPrivacy(store model.PrivacyStore, audit *Audit, logger *logger.Logger) (*Privacy, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(customRulesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile custom rules schema: %w", err)
	}

	return &Privacy{
		store:  store,
		schema: schema,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}, nil
}

// RecordConsent stores the latest decision for the consent type.
func (p *Privacy) RecordConsent(ctx context.Context, consent model.PrivacyConsent) error {
	if _, err := model.ParseConsentType(string(consent.ConsentType)); err != nil {
		return err
	}
	consent.RecordedAt = p.now()

	if err := p.store.UpsertConsent(ctx, consent); err != nil {
		p.logger.Error("Privacy service: failed to record consent",
			"user_id", consent.UserID,
			"consent_type", consent.ConsentType,
			"error", err.Error())
		return storageErr("failed to record consent", err)
	}

	p.audit.Record(ctx, event(model.EventConsentRecorded, consent.UserID, consent.TenantID,
		model.DeviceContext{IP: consent.IP, UserAgent: consent.UserAgent},
		map[string]any{"consent_type": string(consent.ConsentType), "consented": consent.Consented}))

	return nil
}

// ValidateCustomRules checks rules against the custom rules schema.
func (p *Privacy) ValidateCustomRules(rules map[string]any) error {
	if len(rules) == 0 {
		return nil
	}

	result, err := p.schema.Validate(gojsonschema.NewGoLoader(rules))
	if err != nil {
		return fmt.Errorf("%w: custom rules: %v", model.ErrValidation, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: custom rules: %s", model.ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}

// UpdateDirectory stores the settings. Writing identical settings is a no-op
// and reports false.
func (p *Privacy) UpdateDirectory(ctx context.Context, settings model.DirectoryPrivacySettings) (bool, error) {
	if err := p.ValidateCustomRules(settings.CustomRules); err != nil {
		return false, err
	}
	roles, err := normalizeRoles(settings.VisibleToRoles)
	if err != nil {
		return false, err
	}
	settings.VisibleToRoles = roles

	changed, err := p.store.UpsertDirectory(ctx, settings, p.now())
	if err != nil {
		p.logger.Error("Privacy service: failed to update directory privacy",
			"person_id", settings.PersonID,
			"error", err.Error())
		return false, storageErr("failed to update directory privacy", err)
	}

	if changed {
		p.audit.Record(ctx, event(model.EventDirectoryUpdated, uuid.Nil, settings.TenantID, model.DeviceContext{},
			map[string]any{"person_id": settings.PersonID.String()}))
	}

	return changed, nil
}

// Directory returns stored settings, or the defaults when none are stored.
func (p *Privacy) Directory(ctx context.Context, personID, tenantID uuid.UUID) (model.DirectoryPrivacySettings, error) {
	settings, err := p.store.GetDirectory(ctx, personID, tenantID)
	if errors.Is(err, model.ErrNotFound) {
		return model.DefaultDirectoryPrivacy(personID, tenantID), nil
	}
	if err != nil {
		return model.DirectoryPrivacySettings{}, storageErr("failed to get directory privacy", err)
	}
	return settings, nil
}

// normalizeRoles validates, de-duplicates and orders roles by privilege so
// equal sets compare equal in storage.
func normalizeRoles(roles []model.Role) ([]model.Role, error) {
	seen := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		if _, err := model.ParseRole(string(r)); err != nil {
			return nil, err
		}
		seen[r] = true
	}

	out := make([]model.Role, 0, len(seen))
	for _, r := range model.AllRoles {
		if seen[r] {
			out = append(out, r)
		}
	}
	return slices.Clip(out), nil
}
