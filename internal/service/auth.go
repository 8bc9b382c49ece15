package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// User-facing messages. Security sensitive failures share one wording so
// callers cannot tell whether an account exists.
const (
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgInvalidPhone    = "Please enter a valid phone number"
	MsgRateLimited     = "Too many attempts. Please try again in a few minutes."
	MsgMagicLinkSent   = "Check your email! We sent you a secure sign-in link."
	MsgLinkInvalid     = "This sign-in link has expired or already been used. Please request a new one."
	MsgPINInvalid      = "Incorrect code. Please try again."
	MsgSignInFailed    = "Unable to complete sign-in. Please contact your church administrator."
	MsgAccountInactive = "Your account is not active. Please contact your church administrator."
	MsgAccountLocked   = "Your account is temporarily locked. Please try again later."
	MsgSignedIn        = "Welcome! You're now signed in."
	MsgDeliveryFailed  = "We couldn't send your sign-in message right now. Please try again in a moment."
	MsgSwitchDenied    = "You don't have access to that church."
	MsgSwitched        = "You're now signed in to a different church."
	MsgSomethingWrong  = "Something went wrong. Please try again."
	msgPINSentFormat   = "We sent a %d-digit code to your phone"
)

const defaultLockDuration = 30 * time.Minute

// IssueResult answers a credential request.
type IssueResult struct {
	Success bool
	Message string
}

// AuthResult answers a verification or tenant switch.
type AuthResult struct {
	Success            bool
	UserID             *uuid.UUID
	SessionToken       string
	Message            string
	RequiresOnboarding bool
	Memberships        []model.Membership
}

// MagicLinkRequest asks for a magic link. Hint may replace Email when the
// device was recognized.
type MagicLinkRequest struct {
	TenantID  uuid.UUID
	Email     string
	Hint      string
	Purpose   model.Purpose
	FirstName string
	Device    model.DeviceContext
}

// AuthConfig holds facade level policy.
type AuthConfig struct {
	// ElderlyMode trusts the signing-in device after every successful verification.
	ElderlyMode  bool
	LockDuration time.Duration
}

// Auth composes the credential, session, device and tenant services into the
// sign-in flows. Expected failures come back as unsuccessful results with a
// reassuring message; only infrastructure faults are returned as errors.
type Auth struct {
	credentials *Credentials
	sessions    *Sessions
	devices     *Devices
	tenants     *TenantAccess
	users       model.UserStore
	audit       *Audit
	logger      *logger.Logger
	cfg         AuthConfig
	now         func() time.Time
}

func NewAuth(
	credentials *Credentials,
	sessions *Sessions,
	devices *Devices,
	tenants *TenantAccess,
	users model.UserStore,
	audit *Audit,
	logger *logger.Logger,
	cfg AuthConfig,
) *Auth {
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = defaultLockDuration
	}
	return &Auth{
		credentials: credentials,
		sessions:    sessions,
		devices:     devices,
		tenants:     tenants,
		users:       users,
		audit:       audit,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// RequestMagicLink issues a magic link to the email, or to the user a valid
// recognition hint points at.
func (a *Auth) RequestMagicLink(ctx context.Context, req MagicLinkRequest) (IssueResult, error) {
	email := req.Email
	if email == "" && req.Hint != "" {
		resolved, err := a.emailFromHint(ctx, req)
		if err != nil {
			return IssueResult{}, err
		}
		email = resolved
	}

	var metadata map[string]any
	if req.FirstName != "" {
		metadata = map[string]any{"first_name": req.FirstName}
	}

	err := a.credentials.Issue(ctx, IssueParams{
		Kind:     model.CredentialMagicLink,
		Subject:  email,
		TenantID: req.TenantID,
		Purpose:  req.Purpose,
		Device:   req.Device,
		Metadata: metadata,
	})
	if err != nil {
		return a.issueFailure(err, MsgInvalidEmail)
	}

	return IssueResult{Success: true, Message: MsgMagicLinkSent}, nil
}

// emailFromHint returns "" when the hint is unusable, which the credential
// service then rejects as an invalid email.
func (a *Auth) emailFromHint(ctx context.Context, req MagicLinkRequest) (string, error) {
	userID, err := a.devices.ResolveHint(req.Hint, req.TenantID, req.Device)
	if err != nil {
		a.logger.Info("Auth service: recognition hint rejected",
			"tenant_id", req.TenantID,
			"error", err.Error())
		return "", nil
	}

	user, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("failed to get user", err)
	}
	if user.TenantID != req.TenantID {
		return "", nil
	}
	return user.Contact(model.ContactEmail), nil
}

// VerifyMagicLink consumes the link token and starts a session.
func (a *Auth) VerifyMagicLink(ctx context.Context, token string, dc model.DeviceContext) (AuthResult, error) {
	identity, err := a.credentials.Verify(ctx, VerifyParams{
		Kind:   model.CredentialMagicLink,
		Secret: token,
		Device: dc,
	})
	if err != nil {
		return a.verifyFailure(err, MsgLinkInvalid)
	}

	return a.complete(ctx, identity, model.LoginMagicLink, dc)
}

// RequestSMSPin sends a PIN to the phone number.
func (a *Auth) RequestSMSPin(ctx context.Context, phone string, tenantID uuid.UUID, dc model.DeviceContext) (IssueResult, error) {
	err := a.credentials.Issue(ctx, IssueParams{
		Kind:     model.CredentialSMSPin,
		Subject:  phone,
		TenantID: tenantID,
		Device:   dc,
	})
	if err != nil {
		return a.issueFailure(err, MsgInvalidPhone)
	}

	return IssueResult{Success: true, Message: fmt.Sprintf(msgPINSentFormat, a.credentials.cfg.PINLength)}, nil
}

// VerifySMSPin checks the PIN for the phone number and starts a session.
func (a *Auth) VerifySMSPin(ctx context.Context, phone, pin string, tenantID uuid.UUID, dc model.DeviceContext) (AuthResult, error) {
	identity, err := a.credentials.Verify(ctx, VerifyParams{
		Kind:     model.CredentialSMSPin,
		Secret:   pin,
		Subject:  phone,
		TenantID: tenantID,
		Device:   dc,
	})
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return AuthResult{Message: MsgInvalidPhone}, nil
		}
		return a.verifyFailure(err, MsgPINInvalid)
	}

	a.audit.Record(ctx, event(model.EventSMSPinVerified, uuid.Nil, identity.Credential.TenantID, dc, map[string]any{
		"phone": lastDigits(identity.Credential.Subject),
	}))

	return a.complete(ctx, identity, model.LoginSMSPin, dc)
}

// RecognizeDevice suggests who is signing in on a known device.
func (a *Auth) RecognizeDevice(ctx context.Context, tenantID uuid.UUID, dc model.DeviceContext) (RecognitionResult, error) {
	return a.devices.Recognize(ctx, tenantID, dc)
}

// SwitchTenant moves the caller's session to another tenant they belong to.
func (a *Auth) SwitchTenant(ctx context.Context, principal model.Principal, toTenant uuid.UUID, oldToken string, dc model.DeviceContext) (AuthResult, error) {
	token, ok, err := a.sessions.SwitchTenant(ctx, principal.UserID, principal.TenantID, toTenant, oldToken, dc)
	if err != nil {
		return AuthResult{Message: MsgSomethingWrong}, err
	}
	if !ok {
		return AuthResult{Message: MsgSwitchDenied}, nil
	}

	userID := principal.UserID
	return AuthResult{
		Success:      true,
		UserID:       &userID,
		SessionToken: token,
		Message:      MsgSwitched,
		Memberships:  a.memberships(ctx, userID),
	}, nil
}

// Logout ends the session behind token.
func (a *Auth) Logout(ctx context.Context, token string, dc model.DeviceContext) (bool, error) {
	return a.sessions.Invalidate(ctx, token, dc)
}

// LockUser blocks sign-in for the configured lock duration.
func (a *Auth) LockUser(ctx context.Context, tenantID, userID, lockedBy uuid.UUID) (time.Time, error) {
	until := a.now().Add(a.cfg.LockDuration)
	if err := a.setLock(ctx, tenantID, userID, &until); err != nil {
		return time.Time{}, err
	}

	a.audit.Record(ctx, event(model.EventAccountLocked, userID, tenantID, model.DeviceContext{}, map[string]any{
		"locked_by":    lockedBy.String(),
		"locked_until": until.UTC().Format(time.RFC3339),
	}))
	a.logger.Info("Auth service: account locked",
		"user_id", userID,
		"tenant_id", tenantID)

	return until, nil
}

// UnlockUser lifts an account lock.
func (a *Auth) UnlockUser(ctx context.Context, tenantID, userID, unlockedBy uuid.UUID) error {
	if err := a.setLock(ctx, tenantID, userID, nil); err != nil {
		return err
	}

	a.audit.Record(ctx, event(model.EventAccountUnlocked, userID, tenantID, model.DeviceContext{}, map[string]any{
		"unlocked_by": unlockedBy.String(),
	}))
	a.logger.Info("Auth service: account unlocked",
		"user_id", userID,
		"tenant_id", tenantID)

	return nil
}

func (a *Auth) setLock(ctx context.Context, tenantID, userID uuid.UUID, until *time.Time) error {
	err := a.users.SetLockedUntil(ctx, tenantID, userID, until)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return storageErr("failed to update account lock", err)
	}
	return nil
}

func (a *Auth) complete(ctx context.Context, identity VerifiedIdentity, method model.LoginMethod, dc model.DeviceContext) (AuthResult, error) {
	user := identity.User
	if user == nil {
		a.audit.Record(ctx, event(model.EventLoginFailed, uuid.Nil, identity.Credential.TenantID, dc, map[string]any{
			"method": string(method),
			"reason": "account_not_found",
		}))
		return AuthResult{Message: MsgSignInFailed}, nil
	}

	if reason, msg := a.blocked(*user); reason != "" {
		a.audit.Record(ctx, event(model.EventLoginFailed, user.ID, user.TenantID, dc, map[string]any{
			"method": string(method),
			"reason": reason,
		}))
		return AuthResult{Message: msg}, nil
	}

	if a.cfg.ElderlyMode && dc.Fingerprint != "" {
		if _, err := a.devices.Trust(ctx, user.ID, user.TenantID, dc, 0); err != nil {
			a.logger.Warn("Auth service: failed to trust device",
				"user_id", user.ID,
				"error", err.Error())
		}
	}

	token, err := a.sessions.Create(ctx, user.ID, user.TenantID, method, dc)
	if err != nil {
		return AuthResult{Message: MsgSomethingWrong}, err
	}

	a.audit.Record(ctx, event(model.EventLoginSuccess, user.ID, user.TenantID, dc, map[string]any{
		"method":      string(method),
		"is_new_user": identity.IsNewUser,
	}))
	a.logger.Info("Auth service: user signed in",
		"user_id", user.ID,
		"tenant_id", user.TenantID,
		"method", method)

	userID := user.ID
	return AuthResult{
		Success:            true,
		UserID:             &userID,
		SessionToken:       token,
		Message:            MsgSignedIn,
		RequiresOnboarding: !user.OnboardingCompleted,
		Memberships:        a.memberships(ctx, userID),
	}, nil
}

// blocked returns the audit reason and user message for accounts that may not sign in.
func (a *Auth) blocked(user model.User) (string, string) {
	switch {
	case !user.Active:
		return "account_inactive", MsgAccountInactive
	case user.Locked(a.now()):
		return "account_locked", MsgAccountLocked
	}
	return "", ""
}

// memberships is informational; a failure leaves the list empty.
func (a *Auth) memberships(ctx context.Context, userID uuid.UUID) []model.Membership {
	list, err := a.tenants.Memberships(ctx, userID)
	if err != nil {
		a.logger.Warn("Auth service: failed to list memberships",
			"user_id", userID,
			"error", err.Error())
		return nil
	}
	return list
}

func (a *Auth) issueFailure(err error, invalidMsg string) (IssueResult, error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return IssueResult{Message: invalidMsg}, nil
	case errors.Is(err, model.ErrRateLimited):
		return IssueResult{Message: MsgRateLimited}, nil
	case errors.Is(err, model.ErrDeliveryFailed):
		return IssueResult{Message: MsgDeliveryFailed}, err
	default:
		return IssueResult{Message: MsgSomethingWrong}, err
	}
}

func (a *Auth) verifyFailure(err error, invalidMsg string) (AuthResult, error) {
	switch {
	case errors.Is(err, model.ErrCredentialInvalid), errors.Is(err, model.ErrValidation):
		return AuthResult{Message: invalidMsg}, nil
	default:
		return AuthResult{Message: MsgSomethingWrong}, err
	}
}
