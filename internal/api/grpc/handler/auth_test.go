package handler

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/handler/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

func newTestAuth(t *testing.T) (*Auth, *mocks.AuthService) {
	t.Helper()
	svc := mocks.NewAuthService(t)
	return NewAuth(svc, mocks.NewTenantResolver(t), grpcctx.NewManager(), testutil.MakeNoopLogger()), svc
}

func TestAuth_RequestMagicLink(t *testing.T) {
	t.Parallel()
	tenantID := uuid.New()

	h, svc := newTestAuth(t)
	svc.On("RequestMagicLink", mock.Anything, service.MagicLinkRequest{
		TenantID:  tenantID,
		Email:     "mary@example.org",
		Purpose:   model.PurposeSignup,
		FirstName: "Mary",
		Device:    testDevice,
	}).Return(service.IssueResult{Success: true, Message: service.MsgMagicLinkSent}, nil)

	out, err := h.RequestMagicLink(deviceContext(), mustStruct(t, map[string]any{
		"tenant_id":  tenantID.String(),
		"email":      "mary@example.org",
		"purpose":    "signup",
		"first_name": "Mary",
	}))
	require.NoError(t, err)
	assert.True(t, out.Fields["success"].GetBoolValue())
	assert.Equal(t, service.MsgMagicLinkSent, out.Fields["message"].GetStringValue())
}

func TestAuth_RequestMagicLink_InvalidRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing tenant", fields: map[string]any{"email": "mary@example.org"}},
		{name: "malformed tenant", fields: map[string]any{"tenant_id": "church-1"}},
		{name: "unknown purpose", fields: map[string]any{"tenant_id": uuid.NewString(), "purpose": "party"}},
		{name: "wrong type", fields: map[string]any{"tenant_id": uuid.NewString(), "email": 42.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestAuth(t)
			_, err := h.RequestMagicLink(context.Background(), mustStruct(t, tt.fields))
			requireCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestAuth_RequestMagicLink_ServiceError(t *testing.T) {
	t.Parallel()

	h, svc := newTestAuth(t)
	svc.On("RequestMagicLink", mock.Anything, mock.Anything).
		Return(service.IssueResult{Message: service.MsgDeliveryFailed}, model.ErrDeliveryFailed)

	out, err := h.RequestMagicLink(context.Background(), mustStruct(t, map[string]any{"tenant_id": uuid.NewString(), "email": "a@b.org"}))
	assert.Nil(t, out)
	requireCode(t, err, codes.Unavailable)
}

func TestAuth_VerifyMagicLink(t *testing.T) {
	t.Parallel()
	userID, tenantID := uuid.New(), uuid.New()

	h, svc := newTestAuth(t)
	svc.On("VerifyMagicLink", mock.Anything, "link-token", testDevice).Return(service.AuthResult{
		Success:      true,
		UserID:       &userID,
		SessionToken: "session-token",
		Message:      service.MsgSignedIn,
		Memberships:  []model.Membership{{TenantID: tenantID, TenantName: "Grace Chapel", Role: model.RoleMember, IsPrimary: true}},
	}, nil).Once()
	svc.On("VerifyMagicLink", mock.Anything, "used-token", testDevice).Return(service.AuthResult{Message: service.MsgLinkInvalid}, nil).Once()

	out, err := h.VerifyMagicLink(deviceContext(), mustStruct(t, map[string]any{"token": "link-token"}))
	require.NoError(t, err)
	assert.True(t, out.Fields["success"].GetBoolValue())
	assert.Equal(t, userID.String(), out.Fields["user_id"].GetStringValue())
	assert.Equal(t, "session-token", out.Fields["session_token"].GetStringValue())
	assert.False(t, out.Fields["requires_onboarding"].GetBoolValue())
	memberships := out.Fields["memberships"].GetListValue().GetValues()
	require.Len(t, memberships, 1)
	assert.Equal(t, "Grace Chapel", memberships[0].GetStructValue().Fields["tenant_name"].GetStringValue())

	out, err = h.VerifyMagicLink(deviceContext(), mustStruct(t, map[string]any{"token": "used-token"}))
	require.NoError(t, err)
	assert.False(t, out.Fields["success"].GetBoolValue())
	assert.Equal(t, service.MsgLinkInvalid, out.Fields["message"].GetStringValue())
	assert.NotContains(t, out.Fields, "session_token")

	_, err = h.VerifyMagicLink(context.Background(), mustStruct(t, map[string]any{}))
	requireCode(t, err, codes.InvalidArgument)
}

func TestAuth_SMSPin(t *testing.T) {
	t.Parallel()
	tenantID, userID := uuid.New(), uuid.New()

	h, svc := newTestAuth(t)
	svc.On("RequestSMSPin", mock.Anything, "+15551234567", tenantID, testDevice).
		Return(service.IssueResult{Success: true, Message: "We sent a 6-digit code to your phone"}, nil)
	svc.On("VerifySMSPin", mock.Anything, "+15551234567", "123456", tenantID, testDevice).
		Return(service.AuthResult{Success: true, UserID: &userID, SessionToken: "s", RequiresOnboarding: true}, nil)

	out, err := h.RequestSMSPin(deviceContext(), mustStruct(t, map[string]any{"tenant_id": tenantID.String(), "phone": "+15551234567"}))
	require.NoError(t, err)
	assert.Equal(t, "We sent a 6-digit code to your phone", out.Fields["message"].GetStringValue())

	out, err = h.VerifySMSPin(deviceContext(), mustStruct(t, map[string]any{"tenant_id": tenantID.String(), "phone": "+15551234567", "pin": "123456"}))
	require.NoError(t, err)
	assert.True(t, out.Fields["success"].GetBoolValue())
	assert.True(t, out.Fields["requires_onboarding"].GetBoolValue())

	_, err = h.VerifySMSPin(deviceContext(), mustStruct(t, map[string]any{"tenant_id": tenantID.String(), "phone": "+15551234567", "pin": "12ab"}))
	requireCode(t, err, codes.InvalidArgument)
}

func TestAuth_RecognizeDevice(t *testing.T) {
	t.Parallel()
	tenantID, userID := uuid.New(), uuid.New()
	email := "mary@example.org"

	h, svc := newTestAuth(t)
	svc.On("RecognizeDevice", mock.Anything, tenantID, testDevice).Return(service.RecognitionResult{
		SuggestedUserID: &userID,
		SuggestedEmail:  &email,
		Confidence:      0.99,
		AutoFill:        true,
		Message:         "Welcome back Mary!",
		Hint:            "hint-token",
	}, nil)

	out, err := h.RecognizeDevice(deviceContext(), mustStruct(t, map[string]any{"tenant_id": tenantID.String()}))
	require.NoError(t, err)
	assert.Equal(t, email, out.Fields["suggested_email"].GetStringValue())
	assert.InDelta(t, 0.99, out.Fields["confidence"].GetNumberValue(), 1e-9)
	assert.True(t, out.Fields["auto_fill"].GetBoolValue())
	assert.Equal(t, "hint-token", out.Fields["hint"].GetStringValue())
}

func TestAuth_ResolveTenant(t *testing.T) {
	t.Parallel()
	grace := model.Tenant{ID: uuid.New(), Name: "Grace Chapel", Subdomain: "grace", Status: "active"}

	tests := []struct {
		name     string
		fields   map[string]any
		resolved model.Tenant
		err      error
		wantCode codes.Code
	}{
		{name: "found", fields: map[string]any{"subdomain": "Grace"}, resolved: grace, wantCode: codes.OK},
		{name: "unknown or inactive", fields: map[string]any{"subdomain": "hope"}, err: model.ErrNotFound, wantCode: codes.NotFound},
		{name: "malformed", fields: map[string]any{"subdomain": "grace.evil"}, err: fmt.Errorf("%w: malformed subdomain", model.ErrValidation), wantCode: codes.InvalidArgument},
		{name: "storage failure", fields: map[string]any{"subdomain": "grace"}, err: fmt.Errorf("%w: boom", model.ErrStorageFailure), wantCode: codes.Internal},
		{name: "missing subdomain", fields: map[string]any{}, wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tenants := mocks.NewTenantResolver(t)
			h := NewAuth(mocks.NewAuthService(t), tenants, grpcctx.NewManager(), testutil.MakeNoopLogger())
			if sub, ok := tt.fields["subdomain"].(string); ok {
				tenants.On("Resolve", mock.Anything, sub).Return(tt.resolved, tt.err)
			}

			out, err := h.ResolveTenant(context.Background(), mustStruct(t, tt.fields))
			if tt.wantCode != codes.OK {
				requireCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, grace.ID.String(), out.Fields["tenant_id"].GetStringValue())
			assert.Equal(t, "Grace Chapel", out.Fields["name"].GetStringValue())
			assert.Equal(t, "grace", out.Fields["subdomain"].GetStringValue())
		})
	}
}
