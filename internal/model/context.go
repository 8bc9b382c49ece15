package model

import (
	"context"
)

// ContextManager carries request-scoped identity and device data.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal *Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (*Principal, bool)
	SetSessionTokenToContext(ctx context.Context, token string) context.Context
	GetSessionTokenFromContext(ctx context.Context) (string, bool)
	GetDeviceFromContext(ctx context.Context) DeviceContext
}
