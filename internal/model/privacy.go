package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConsentType is a closed set of consent subjects.
type ConsentType string

const (
	ConsentTermsOfService   ConsentType = "terms_of_service"
	ConsentPrivacyPolicy    ConsentType = "privacy_policy"
	ConsentEmailMarketing   ConsentType = "email_marketing"
	ConsentSMSMarketing     ConsentType = "sms_marketing"
	ConsentDirectoryListing ConsentType = "directory_listing"
	ConsentPhotoUsage       ConsentType = "photo_usage"
	ConsentDataSharing      ConsentType = "data_sharing"
	ConsentAnalytics        ConsentType = "analytics"
)

var consentTypes = []ConsentType{
	ConsentTermsOfService,
	ConsentPrivacyPolicy,
	ConsentEmailMarketing,
	ConsentSMSMarketing,
	ConsentDirectoryListing,
	ConsentPhotoUsage,
	ConsentDataSharing,
	ConsentAnalytics,
}

// ParseConsentType validates s as a consent type.
func ParseConsentType(s string) (ConsentType, error) {
	for _, c := range consentTypes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown consent type %q", ErrValidation, s)
}

// PrivacyConsent is the latest consent decision of a user in a tenant.
type PrivacyConsent struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	ConsentType ConsentType
	Consented   bool
	IP          string
	UserAgent   string
	RecordedAt  time.Time
}

// DirectoryPrivacySettings controls what a person shows in the member directory.
type DirectoryPrivacySettings struct {
	PersonID          uuid.UUID
	TenantID          uuid.UUID
	IsListed          bool
	ShowEmail         bool
	ShowPhone         bool
	ShowAddress       bool
	ShowBirthday      bool
	ShowFamilyMembers bool
	ShowGroups        bool
	VisibleToRoles    []Role
	CustomRules       map[string]any
	UpdatedAt         time.Time
}

// DefaultDirectoryPrivacy returns the settings used when a person has none stored.
func DefaultDirectoryPrivacy(personID, tenantID uuid.UUID) DirectoryPrivacySettings {
	return DirectoryPrivacySettings{
		PersonID:          personID,
		TenantID:          tenantID,
		IsListed:          true,
		ShowEmail:         true,
		ShowFamilyMembers: true,
		ShowGroups:        true,
		VisibleToRoles:    []Role{RoleMember, RoleStaff, RoleAdmin},
		CustomRules:       map[string]any{},
	}
}

// PrivacyStore persists consents and directory settings.
type PrivacyStore interface {
	UpsertConsent(ctx context.Context, consent PrivacyConsent) error
	// UpsertDirectory writes settings. It reports false when the stored row already matched.
	UpsertDirectory(ctx context.Context, settings DirectoryPrivacySettings, now time.Time) (bool, error)
	GetDirectory(ctx context.Context, personID, tenantID uuid.UUID) (DirectoryPrivacySettings, error)
}
