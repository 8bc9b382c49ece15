package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

// AccountServiceName is the authenticated account service.
const AccountServiceName = "membership.auth.v1.Account"

// SessionAuth covers session level operations of the sign-in facade.
type SessionAuth interface {
	SwitchTenant(ctx context.Context, principal model.Principal, toTenant uuid.UUID, oldToken string, dc model.DeviceContext) (service.AuthResult, error)
	Logout(ctx context.Context, token string, dc model.DeviceContext) (bool, error)
	LockUser(ctx context.Context, tenantID, userID, lockedBy uuid.UUID) (time.Time, error)
	UnlockUser(ctx context.Context, tenantID, userID, unlockedBy uuid.UUID) error
}

// SessionAdmin lists and revokes sessions.
type SessionAdmin interface {
	ListActive(ctx context.Context, tenantID, userID uuid.UUID) ([]model.Session, error)
	Revoke(ctx context.Context, tenantID, sessionID, revokedBy uuid.UUID) error
}

// TenantService grants and lists tenant access.
type TenantService interface {
	Grant(ctx context.Context, p service.GrantParams) (model.TenantAccess, error)
	Memberships(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
}

// DeviceService trusts devices.
type DeviceService interface {
	Trust(ctx context.Context, userID, tenantID uuid.UUID, dc model.DeviceContext, days int) (model.TrustedDevice, error)
}

// FamilyService manages family accounts.
type FamilyService interface {
	Create(ctx context.Context, tenantID, primaryUserID uuid.UUID, name string, householdID *uuid.UUID) (string, error)
	AddMember(ctx context.Context, tenantID uuid.UUID, code string, userID uuid.UUID, relationship model.Relationship, requestedBy uuid.UUID) error
}

// PrivacyService records consent and directory visibility.
type PrivacyService interface {
	RecordConsent(ctx context.Context, consent model.PrivacyConsent) error
	UpdateDirectory(ctx context.Context, settings model.DirectoryPrivacySettings) (bool, error)
	Directory(ctx context.Context, personID, tenantID uuid.UUID) (model.DirectoryPrivacySettings, error)
}

// AuditService queries the audit log.
type AuditService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter model.AuditFilter) ([]model.AuditEvent, error)
}

// AccountDeps groups the services behind the account endpoints.
type AccountDeps struct {
	Sessions SessionAuth
	Admin    SessionAdmin
	Tenants  TenantService
	Devices  DeviceService
	Families FamilyService
	Privacy  PrivacyService
	Audit    AuditService
}

// AccountServer is the server API of the authenticated account service.
type AccountServer interface {
	Me(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SwitchTenant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Logout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	TrustDevice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListSessions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RevokeSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GrantTenantAccess(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	LockUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UnlockUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	CreateFamily(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AddFamilyMember(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RecordConsent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateDirectoryPrivacy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetDirectoryPrivacy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListAuditEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var _ AccountServer = (*Account)(nil)

// AccountServiceDesc describes the authenticated account service.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(AccountServiceName, "Me", AccountServer.Me),
		methodDesc(AccountServiceName, "SwitchTenant", AccountServer.SwitchTenant),
		methodDesc(AccountServiceName, "Logout", AccountServer.Logout),
		methodDesc(AccountServiceName, "TrustDevice", AccountServer.TrustDevice),
		methodDesc(AccountServiceName, "ListSessions", AccountServer.ListSessions),
		methodDesc(AccountServiceName, "RevokeSession", AccountServer.RevokeSession),
		methodDesc(AccountServiceName, "GrantTenantAccess", AccountServer.GrantTenantAccess),
		methodDesc(AccountServiceName, "LockUser", AccountServer.LockUser),
		methodDesc(AccountServiceName, "UnlockUser", AccountServer.UnlockUser),
		methodDesc(AccountServiceName, "CreateFamily", AccountServer.CreateFamily),
		methodDesc(AccountServiceName, "AddFamilyMember", AccountServer.AddFamilyMember),
		methodDesc(AccountServiceName, "RecordConsent", AccountServer.RecordConsent),
		methodDesc(AccountServiceName, "UpdateDirectoryPrivacy", AccountServer.UpdateDirectoryPrivacy),
		methodDesc(AccountServiceName, "GetDirectoryPrivacy", AccountServer.GetDirectoryPrivacy),
		methodDesc(AccountServiceName, "ListAuditEvents", AccountServer.ListAuditEvents),
	},
	Metadata: "membership/auth/v1/account.proto",
}

type empty struct{}

type switchTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
}

type trustDeviceRequest struct {
	Days int `json:"days" validate:"min=0,max=365"`
}

type listSessionsRequest struct {
	UserID *uuid.UUID `json:"user_id"`
}

type revokeSessionRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
}

type grantRequest struct {
	UserID      uuid.UUID       `json:"user_id" validate:"required"`
	Role        string          `json:"role" validate:"required"`
	Permissions map[string]bool `json:"permissions"`
}

type userRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type createFamilyRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	HouseholdID *uuid.UUID `json:"household_id"`
}

type addFamilyMemberRequest struct {
	Code         string    `json:"code" validate:"required,max=32"`
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	Relationship string    `json:"relationship" validate:"required"`
}

type consentRequest struct {
	ConsentType string `json:"consent_type" validate:"required"`
	Consented   bool   `json:"consented"`
}

type directoryPrivacy struct {
	PersonID          uuid.UUID      `json:"person_id" validate:"required"`
	IsListed          bool           `json:"is_listed"`
	ShowEmail         bool           `json:"show_email"`
	ShowPhone         bool           `json:"show_phone"`
	ShowAddress       bool           `json:"show_address"`
	ShowBirthday      bool           `json:"show_birthday"`
	ShowFamilyMembers bool           `json:"show_family_members"`
	ShowGroups        bool           `json:"show_groups"`
	VisibleToRoles    []string       `json:"visible_to_roles" validate:"max=6"`
	CustomRules       map[string]any `json:"custom_rules"`
}

type personRequest struct {
	PersonID uuid.UUID `json:"person_id" validate:"required"`
}

type auditRequest struct {
	UserID    *uuid.UUID `json:"user_id"`
	EventType string     `json:"event_type" validate:"max=64"`
	Limit     int        `json:"limit" validate:"min=0,max=500"`
	Offset    int        `json:"offset" validate:"min=0"`
}

type meResponse struct {
	UserID      uuid.UUID            `json:"user_id"`
	TenantID    uuid.UUID            `json:"tenant_id"`
	Email       string               `json:"email,omitempty"`
	Role        string               `json:"role"`
	Permissions map[string]bool      `json:"permissions"`
	Memberships []membershipResponse `json:"memberships,omitempty"`
}

type sessionResponse struct {
	ID             uuid.UUID  `json:"id"`
	DeviceID       *uuid.UUID `json:"device_id,omitempty"`
	IP             string     `json:"ip,omitempty"`
	UserAgent      string     `json:"user_agent,omitempty"`
	LoginMethod    string     `json:"login_method"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	Current        bool       `json:"current"`
}

// Account handles gRPC endpoints that require a session.
type Account struct {
	deps           AccountDeps
	contextManager model.ContextManager
	validate       *validator.Validate
	logger         *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(deps AccountDeps, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		deps:           deps,
		contextManager: contextManager,
		validate:       newValidator(),
		logger:         logger,
	}
}

// principal returns the caller, optionally requiring a permission in the session's tenant.
func (h *Account) principal(ctx context.Context, required ...model.Permission) (*model.Principal, error) {
	p, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "session required")
	}
	for _, perm := range required {
		if !p.Permissions.Has(perm) {
			h.logger.Info("Account handler: permission denied",
				"user_id", p.UserID,
				"tenant_id", p.TenantID,
				"permission", perm)
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}
	}
	return p, nil
}

func (h *Account) fail(op string, p *model.Principal, err error) error {
	h.logger.Error("Account handler: "+op+" failed",
		"user_id", p.UserID,
		"tenant_id", p.TenantID,
		"error", err.Error())
	return handleError(err)
}

func toMemberships(list []model.Membership) []membershipResponse {
	out := make([]membershipResponse, 0, len(list))
	for _, m := range list {
		out = append(out, membershipResponse{TenantID: m.TenantID, TenantName: m.TenantName, Role: string(m.Role), IsPrimary: m.IsPrimary})
	}
	return out
}

// Me returns the caller's identity, effective permissions and tenants.
func (h *Account) Me(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := h.deps.Tenants.Memberships(ctx, p.UserID)
	if err != nil {
		return nil, h.fail("list memberships", p, err)
	}

	perms := make(map[string]bool, len(p.Permissions))
	for k, v := range p.Permissions {
		perms[string(k)] = v
	}

	return encode(meResponse{
		UserID:      p.UserID,
		TenantID:    p.TenantID,
		Email:       p.Email,
		Role:        string(p.Role),
		Permissions: perms,
		Memberships: toMemberships(memberships),
	})
}

// SwitchTenant replaces the caller's session with one in another tenant.
func (h *Account) SwitchTenant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[switchTenantRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	token, _ := h.contextManager.GetSessionTokenFromContext(ctx)
	result, err := h.deps.Sessions.SwitchTenant(ctx, *p, req.TenantID, token, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		return nil, h.fail("switch tenant", p, err)
	}

	h.logger.Info("Account handler: tenant switch processed",
		"user_id", p.UserID,
		"to_tenant_id", req.TenantID,
		"success", result.Success)

	return encode(toAuthResponse(result))
}

// Logout ends the caller's session.
func (h *Account) Logout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}

	token, _ := h.contextManager.GetSessionTokenFromContext(ctx)
	ended, err := h.deps.Sessions.Logout(ctx, token, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		return nil, h.fail("logout", p, err)
	}

	return encode(struct {
		Ended bool `json:"ended"`
	}{ended})
}

// TrustDevice marks the calling device trusted for the caller.
func (h *Account) TrustDevice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[trustDeviceRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	device, err := h.deps.Devices.Trust(ctx, p.UserID, p.TenantID, h.contextManager.GetDeviceFromContext(ctx), req.Days)
	if err != nil {
		return nil, h.fail("trust device", p, err)
	}

	return encode(struct {
		DeviceID     uuid.UUID  `json:"device_id"`
		TrustedUntil *time.Time `json:"trusted_until,omitempty"`
	}{device.ID, device.TrustedUntil})
}

// ListSessions lists active sessions of the caller, or of another user with manage_sessions.
func (h *Account) ListSessions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[listSessionsRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	userID := p.UserID
	if req.UserID != nil && *req.UserID != p.UserID {
		if p, err = h.principal(ctx, model.PermManageSessions); err != nil {
			return nil, err
		}
		userID = *req.UserID
	}

	sessions, err := h.deps.Admin.ListActive(ctx, p.TenantID, userID)
	if err != nil {
		return nil, h.fail("list sessions", p, err)
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:             s.ID,
			DeviceID:       s.DeviceID,
			IP:             s.IP,
			UserAgent:      s.UserAgent,
			LoginMethod:    string(s.LoginMethod),
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			ExpiresAt:      s.ExpiresAt,
			Current:        s.ID == p.SessionID,
		})
	}

	return encode(struct {
		Sessions []sessionResponse `json:"sessions"`
	}{out})
}

// RevokeSession ends a session in the caller's tenant.
func (h *Account) RevokeSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermManageSessions)
	if err != nil {
		return nil, err
	}
	req, err := decode[revokeSessionRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	if err := h.deps.Admin.Revoke(ctx, p.TenantID, req.SessionID, p.UserID); err != nil {
		return nil, h.fail("revoke session", p, err)
	}

	return encode(empty{})
}

// GrantTenantAccess gives a user a role in the caller's tenant.
func (h *Account) GrantTenantAccess(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermManageTenantAccess)
	if err != nil {
		return nil, err
	}
	req, err := decode[grantRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if role == model.RoleSuperAdmin && p.Role != model.RoleSuperAdmin {
		return nil, status.Error(codes.PermissionDenied, "access denied")
	}
	perms, err := model.ParsePermissionSet(req.Permissions)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	invitedBy := p.UserID
	access, err := h.deps.Tenants.Grant(ctx, service.GrantParams{
		UserID:      req.UserID,
		TenantID:    p.TenantID,
		Role:        role,
		Permissions: perms,
		InvitedBy:   &invitedBy,
	})
	if err != nil {
		return nil, h.fail("grant tenant access", p, err)
	}

	return encode(struct {
		UserID   uuid.UUID `json:"user_id"`
		TenantID uuid.UUID `json:"tenant_id"`
		Role     string    `json:"role"`
	}{access.UserID, access.TenantID, string(access.Role)})
}

// LockUser blocks sign-in for a user of the caller's tenant.
func (h *Account) LockUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermManageUsers)
	if err != nil {
		return nil, err
	}
	req, err := decode[userRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	until, err := h.deps.Sessions.LockUser(ctx, p.TenantID, req.UserID, p.UserID)
	if err != nil {
		return nil, h.fail("lock user", p, err)
	}

	return encode(struct {
		LockedUntil time.Time `json:"locked_until"`
	}{until})
}

// UnlockUser lifts a lock on a user of the caller's tenant.
func (h *Account) UnlockUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermManageUsers)
	if err != nil {
		return nil, err
	}
	req, err := decode[userRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	if err := h.deps.Sessions.UnlockUser(ctx, p.TenantID, req.UserID, p.UserID); err != nil {
		return nil, h.fail("unlock user", p, err)
	}

	return encode(empty{})
}

// CreateFamily opens a family account managed by the caller.
func (h *Account) CreateFamily(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[createFamilyRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	code, err := h.deps.Families.Create(ctx, p.TenantID, p.UserID, req.Name, req.HouseholdID)
	if err != nil {
		return nil, h.fail("create family", p, err)
	}

	return encode(struct {
		Code string `json:"code"`
	}{code})
}

// AddFamilyMember adds a user to a family the caller manages.
func (h *Account) AddFamilyMember(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[addFamilyMemberRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	err = h.deps.Families.AddMember(ctx, p.TenantID, req.Code, req.UserID, model.Relationship(req.Relationship), p.UserID)
	if err != nil {
		return nil, h.fail("add family member", p, err)
	}

	return encode(empty{})
}

// RecordConsent stores the caller's consent decision.
func (h *Account) RecordConsent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[consentRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	dc := h.contextManager.GetDeviceFromContext(ctx)
	err = h.deps.Privacy.RecordConsent(ctx, model.PrivacyConsent{
		UserID:      p.UserID,
		TenantID:    p.TenantID,
		ConsentType: model.ConsentType(req.ConsentType),
		Consented:   req.Consented,
		IP:          dc.IP,
		UserAgent:   dc.UserAgent,
	})
	if err != nil {
		return nil, h.fail("record consent", p, err)
	}

	return encode(empty{})
}

// UpdateDirectoryPrivacy replaces a person's directory settings.
func (h *Account) UpdateDirectoryPrivacy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermManageDirectory)
	if err != nil {
		return nil, err
	}
	req, err := decode[directoryPrivacy](h.validate, in)
	if err != nil {
		return nil, err
	}

	roles := make([]model.Role, 0, len(req.VisibleToRoles))
	for _, r := range req.VisibleToRoles {
		roles = append(roles, model.Role(r))
	}

	changed, err := h.deps.Privacy.UpdateDirectory(ctx, model.DirectoryPrivacySettings{
		PersonID:          req.PersonID,
		TenantID:          p.TenantID,
		IsListed:          req.IsListed,
		ShowEmail:         req.ShowEmail,
		ShowPhone:         req.ShowPhone,
		ShowAddress:       req.ShowAddress,
		ShowBirthday:      req.ShowBirthday,
		ShowFamilyMembers: req.ShowFamilyMembers,
		ShowGroups:        req.ShowGroups,
		VisibleToRoles:    roles,
		CustomRules:       req.CustomRules,
	})
	if err != nil {
		return nil, h.fail("update directory privacy", p, err)
	}

	return encode(struct {
		Changed bool `json:"changed"`
	}{changed})
}

// GetDirectoryPrivacy returns a person's directory settings.
func (h *Account) GetDirectoryPrivacy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermViewDirectory)
	if err != nil {
		return nil, err
	}
	req, err := decode[personRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	s, err := h.deps.Privacy.Directory(ctx, req.PersonID, p.TenantID)
	if err != nil {
		return nil, h.fail("get directory privacy", p, err)
	}

	roles := make([]string, 0, len(s.VisibleToRoles))
	for _, r := range s.VisibleToRoles {
		roles = append(roles, string(r))
	}

	return encode(directoryPrivacy{
		PersonID:          s.PersonID,
		IsListed:          s.IsListed,
		ShowEmail:         s.ShowEmail,
		ShowPhone:         s.ShowPhone,
		ShowAddress:       s.ShowAddress,
		ShowBirthday:      s.ShowBirthday,
		ShowFamilyMembers: s.ShowFamilyMembers,
		ShowGroups:        s.ShowGroups,
		VisibleToRoles:    roles,
		CustomRules:       s.CustomRules,
	})
}

// ListAuditEvents queries the audit log of the caller's tenant.
func (h *Account) ListAuditEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.principal(ctx, model.PermViewAuditLog)
	if err != nil {
		return nil, err
	}
	req, err := decode[auditRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	events, err := h.deps.Audit.List(ctx, p.TenantID, model.AuditFilter{
		UserID:    req.UserID,
		EventType: req.EventType,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return nil, h.fail("list audit events", p, err)
	}
	if events == nil {
		events = []model.AuditEvent{}
	}

	return encode(struct {
		Events []model.AuditEvent `json:"events"`
	}{events})
}
