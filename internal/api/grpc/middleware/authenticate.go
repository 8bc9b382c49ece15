package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

// SessionValidator resolves a session token into the caller's principal.
type SessionValidator interface {
	Validate(ctx context.Context, token string, tenantID uuid.UUID) (*model.Principal, error)
}

// RateLimiter records an attempt and reports whether it is within the limit.
type RateLimiter interface {
	Check(ctx context.Context, identifier, kind, action string) (bool, error)
}

// Authenticate validates session tokens and injects the principal into context.
type Authenticate struct {
	sessions       SessionValidator
	limiter        RateLimiter
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionValidator, limiter RateLimiter, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, limiter: limiter, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the Authorization header and the optional tenant header,
// validates the session and returns a context carrying the principal.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var token, tenantHeader string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			token = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		}
		if tenants := md.Get(grpcctx.TenantKey); len(tenants) > 0 {
			tenantHeader = tenants[0]
		}
	}

	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}

	tenantID := uuid.Nil
	if tenantHeader != "" {
		parsed, err := uuid.Parse(tenantHeader)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "malformed tenant id")
		}
		tenantID = parsed
	}

	principal, err := m.sessions.Validate(ctx, token, tenantID)
	if err != nil {
		m.logger.Error("Authenticate middleware: failed to validate session", "error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}
	if principal == nil {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired session")
	}

	allowed, err := m.limiter.Check(ctx, principal.UserID.String(), "user", service.ActionAPIHour)
	if err != nil {
		m.logger.Error("Authenticate middleware: failed to check rate limit",
			"user_id", principal.UserID,
			"error", err.Error())
		return nil, status.Error(codes.Unavailable, "try again later")
	}
	if !allowed {
		return nil, status.Error(codes.ResourceExhausted, service.MsgRateLimited)
	}

	ctx = m.contextManager.SetPrincipalToContext(ctx, principal)
	return m.contextManager.SetSessionTokenToContext(ctx, token), nil
}
