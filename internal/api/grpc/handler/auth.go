package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

// AuthServiceName is the public sign-in service. Its methods need no session.
const AuthServiceName = "membership.auth.v1.Auth"

// AuthService defines the passwordless sign-in flows.
type AuthService interface {
	RequestMagicLink(ctx context.Context, req service.MagicLinkRequest) (service.IssueResult, error)
	VerifyMagicLink(ctx context.Context, token string, dc model.DeviceContext) (service.AuthResult, error)
	RequestSMSPin(ctx context.Context, phone string, tenantID uuid.UUID, dc model.DeviceContext) (service.IssueResult, error)
	VerifySMSPin(ctx context.Context, phone, pin string, tenantID uuid.UUID, dc model.DeviceContext) (service.AuthResult, error)
	RecognizeDevice(ctx context.Context, tenantID uuid.UUID, dc model.DeviceContext) (service.RecognitionResult, error)
}

// TenantResolver finds the tenant served at a subdomain.
type TenantResolver interface {
	Resolve(ctx context.Context, subdomain string) (model.Tenant, error)
}

// AuthServer is the server API of the public sign-in service.
type AuthServer interface {
	RequestMagicLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	VerifyMagicLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RequestSMSPin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	VerifySMSPin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RecognizeDevice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ResolveTenant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var _ AuthServer = (*Auth)(nil)

// AuthServiceDesc describes the public sign-in service.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(AuthServiceName, "RequestMagicLink", AuthServer.RequestMagicLink),
		methodDesc(AuthServiceName, "VerifyMagicLink", AuthServer.VerifyMagicLink),
		methodDesc(AuthServiceName, "RequestSMSPin", AuthServer.RequestSMSPin),
		methodDesc(AuthServiceName, "VerifySMSPin", AuthServer.VerifySMSPin),
		methodDesc(AuthServiceName, "RecognizeDevice", AuthServer.RecognizeDevice),
		methodDesc(AuthServiceName, "ResolveTenant", AuthServer.ResolveTenant),
	},
	Metadata: "membership/auth/v1/auth.proto",
}

type magicLinkRequest struct {
	TenantID  uuid.UUID `json:"tenant_id" validate:"required"`
	Email     string    `json:"email" validate:"max=254"`
	Hint      string    `json:"hint" validate:"max=2048"`
	Purpose   string    `json:"purpose" validate:"omitempty,oneof=login signup verify_email family_invite"`
	FirstName string    `json:"first_name" validate:"max=100"`
}

type verifyMagicLinkRequest struct {
	Token string `json:"token" validate:"required,max=256"`
}

type smsPinRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Phone    string    `json:"phone" validate:"max=32"`
}

type verifySMSPinRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Phone    string    `json:"phone" validate:"max=32"`
	PIN      string    `json:"pin" validate:"required,numeric,max=10"`
}

type recognizeRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
}

type resolveTenantRequest struct {
	Subdomain string `json:"subdomain" validate:"required,max=63"`
}

type tenantResponse struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
}

type issueResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type membershipResponse struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Role       string    `json:"role"`
	IsPrimary  bool      `json:"is_primary"`
}

type authResponse struct {
	Success            bool                 `json:"success"`
	UserID             *uuid.UUID           `json:"user_id,omitempty"`
	SessionToken       string               `json:"session_token,omitempty"`
	Message            string               `json:"message"`
	RequiresOnboarding bool                 `json:"requires_onboarding"`
	Memberships        []membershipResponse `json:"memberships,omitempty"`
}

type recognitionResponse struct {
	SuggestedUserID *uuid.UUID `json:"suggested_user_id,omitempty"`
	SuggestedEmail  *string    `json:"suggested_email,omitempty"`
	Confidence      float64    `json:"confidence"`
	AutoFill        bool       `json:"auto_fill"`
	Message         string     `json:"message,omitempty"`
	Hint            string     `json:"hint,omitempty"`
}

func toAuthResponse(r service.AuthResult) authResponse {
	resp := authResponse{
		Success:            r.Success,
		UserID:             r.UserID,
		SessionToken:       r.SessionToken,
		Message:            r.Message,
		RequiresOnboarding: r.RequiresOnboarding,
	}
	for _, m := range r.Memberships {
		resp.Memberships = append(resp.Memberships, membershipResponse{
			TenantID:   m.TenantID,
			TenantName: m.TenantName,
			Role:       string(m.Role),
			IsPrimary:  m.IsPrimary,
		})
	}
	return resp
}

// Auth handles gRPC endpoints for passwordless sign-in.
type Auth struct {
	authService    AuthService
	tenants        TenantResolver
	contextManager model.ContextManager
	validate       *validator.Validate
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tenants TenantResolver, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tenants:        tenants,
		contextManager: contextManager,
		validate:       newValidator(),
		logger:         logger,
	}
}

// RequestMagicLink emails a single-use sign-in link.
func (h *Auth) RequestMagicLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[magicLinkRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Auth handler: processing magic link request",
		"tenant_id", req.TenantID,
		"email", logger.MaskEmail(req.Email),
		"with_hint", req.Hint != "")

	result, err := h.authService.RequestMagicLink(ctx, service.MagicLinkRequest{
		TenantID:  req.TenantID,
		Email:     req.Email,
		Hint:      req.Hint,
		Purpose:   model.Purpose(req.Purpose),
		FirstName: req.FirstName,
		Device:    h.contextManager.GetDeviceFromContext(ctx),
	})
	if err != nil {
		h.logger.Error("Auth handler: magic link request failed",
			"tenant_id", req.TenantID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return encode(issueResponse{Success: result.Success, Message: result.Message})
}

// VerifyMagicLink exchanges a link token for a session.
func (h *Auth) VerifyMagicLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[verifyMagicLinkRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	result, err := h.authService.VerifyMagicLink(ctx, req.Token, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		h.logger.Error("Auth handler: magic link verification failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: magic link verified",
		"success", result.Success)

	return encode(toAuthResponse(result))
}

// RequestSMSPin texts a sign-in code.
func (h *Auth) RequestSMSPin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[smsPinRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Auth handler: processing sms pin request",
		"tenant_id", req.TenantID,
		"phone", logger.MaskPhone(req.Phone))

	result, err := h.authService.RequestSMSPin(ctx, req.Phone, req.TenantID, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		h.logger.Error("Auth handler: sms pin request failed",
			"tenant_id", req.TenantID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return encode(issueResponse{Success: result.Success, Message: result.Message})
}

// VerifySMSPin exchanges a phone number and code for a session.
func (h *Auth) VerifySMSPin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[verifySMSPinRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	result, err := h.authService.VerifySMSPin(ctx, req.Phone, req.PIN, req.TenantID, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		h.logger.Error("Auth handler: sms pin verification failed",
			"tenant_id", req.TenantID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: sms pin verified",
		"tenant_id", req.TenantID,
		"success", result.Success)

	return encode(toAuthResponse(result))
}

// RecognizeDevice suggests the account a known device belongs to.
func (h *Auth) RecognizeDevice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[recognizeRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	result, err := h.authService.RecognizeDevice(ctx, req.TenantID, h.contextManager.GetDeviceFromContext(ctx))
	if err != nil {
		h.logger.Error("Auth handler: device recognition failed",
			"tenant_id", req.TenantID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return encode(recognitionResponse{
		SuggestedUserID: result.SuggestedUserID,
		SuggestedEmail:  result.SuggestedEmail,
		Confidence:      result.Confidence,
		AutoFill:        result.AutoFill,
		Message:         result.Message,
		Hint:            result.Hint,
	})
}

// ResolveTenant returns the tenant a client needs to address the sign-in flows.
func (h *Auth) ResolveTenant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[resolveTenantRequest](h.validate, in)
	if err != nil {
		return nil, err
	}

	tenant, err := h.tenants.Resolve(ctx, req.Subdomain)
	if err != nil {
		h.logger.Debug("Auth handler: tenant not resolved",
			"subdomain", req.Subdomain,
			"error", err.Error())
		return nil, handleError(err)
	}

	return encode(tenantResponse{TenantID: tenant.ID, Name: tenant.Name, Subdomain: tenant.Subdomain})
}
