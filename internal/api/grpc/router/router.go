package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/ratelimit"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/handler"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/middleware"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// Deps holds everything the router wires into handlers and interceptors.
type Deps struct {
	Auth           handler.AuthService
	Tenants        handler.TenantResolver
	Account        handler.AccountDeps
	Sessions       middleware.SessionValidator
	Limiter        middleware.RateLimiter
	ContextManager model.ContextManager
	Logger         *logger.Logger
}

// Router registers the membership auth services and their middleware.
type Router struct {
	deps   Deps
	health *health.Server
}

// New creates new gRPC Router instance.
func New(deps Deps) *Router {
	return &Router{deps: deps, health: health.NewServer()}
}

// Health exposes the health server so callers can flip serving status on shutdown.
func (r *Router) Health() *health.Server {
	return r.health
}

var publicPrefixes = []string{
	"/" + handler.AuthServiceName + "/",
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// requiresSession reports whether a call must carry a session token.
func requiresSession(_ context.Context, c interceptors.CallMeta) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(c.FullMethod(), prefix) {
			return false
		}
	}
	return true
}

// Register builds the gRPC server with recovery, logging, per-address rate
// limiting and session authentication, in that order.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.deps.Logger)
	rec := middleware.NewRecovery(r.deps.Logger)
	ipLimit := middleware.NewIPRateLimit(r.deps.Limiter, r.deps.ContextManager, r.deps.Logger)
	authenticate := middleware.NewAuthenticate(r.deps.Sessions, r.deps.Limiter, r.deps.ContextManager, r.deps.Logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(rec.Handle)),
			logging.HandleGRPC,
			ratelimit.UnaryServerInterceptor(ipLimit),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresSession),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(rec.Handle)),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresSession),
			),
		),
	)

	r.registerAuthRoutes(s)
	r.registerAccountRoutes(s)
	grpc_health_v1.RegisterHealthServer(s, r.health)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.deps.Auth, r.deps.Tenants, r.deps.ContextManager, r.deps.Logger)
	server.RegisterService(&handler.AuthServiceDesc, authHandler)
	r.health.SetServingStatus(handler.AuthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

func (r *Router) registerAccountRoutes(server *grpc.Server) {
	accountHandler := handler.NewAccount(r.deps.Account, r.deps.ContextManager, r.deps.Logger)
	server.RegisterService(&handler.AccountServiceDesc, accountHandler)
	r.health.SetServingStatus(handler.AccountServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}
