package router

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/handler"
	handlerMocks "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/handler/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

type routerFixture struct {
	conn     *grpc.ClientConn
	auth     *handlerMocks.AuthService
	resolver *handlerMocks.TenantResolver
	tenants  *handlerMocks.TenantService
	sessions *mocks.SessionValidator
	limiter  *mocks.RateLimiter
}

func newRouterFixture(t *testing.T, ipAllowed bool) *routerFixture {
	t.Helper()

	f := &routerFixture{
		auth:     handlerMocks.NewAuthService(t),
		resolver: handlerMocks.NewTenantResolver(t),
		tenants:  handlerMocks.NewTenantService(t),
		sessions: mocks.NewSessionValidator(t),
		limiter:  mocks.NewRateLimiter(t),
	}
	f.limiter.On("Check", mock.Anything, mock.Anything, "ip", service.ActionAPIMinute).Return(ipAllowed, nil).Maybe()

	r := New(Deps{
		Auth:           f.auth,
		Tenants:        f.resolver,
		Account:        handler.AccountDeps{Tenants: f.tenants},
		Sessions:       f.sessions,
		Limiter:        f.limiter,
		ContextManager: grpcctx.NewManager(),
		Logger:         testutil.MakeNoopLogger(),
	})
	s := r.Register()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	f.conn = conn

	return f
}

func (f *routerFixture) invoke(ctx context.Context, method string) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	err := f.conn.Invoke(ctx, method, &structpb.Struct{}, out)
	return out, err
}

func TestRouter_HealthIsPublic(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, true)

	resp, err := grpc_health_v1.NewHealthClient(f.conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: handler.AccountServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRouter_AuthServiceIsPublic(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, true)
	tenantID := uuid.New()

	f.auth.On("RecognizeDevice", mock.Anything, tenantID, mock.Anything).Return(service.RecognitionResult{}, nil)

	out := &structpb.Struct{}
	in, err := structpb.NewStruct(map[string]any{"tenant_id": tenantID.String()})
	require.NoError(t, err)
	err = f.conn.Invoke(context.Background(), "/"+handler.AuthServiceName+"/RecognizeDevice", in, out)
	require.NoError(t, err)
	assert.False(t, out.Fields["auto_fill"].GetBoolValue())
}

func TestRouter_ResolveTenantIsPublic(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, true)
	tenant := model.Tenant{ID: uuid.New(), Name: "Grace Chapel", Subdomain: "grace", Status: "active"}

	f.resolver.On("Resolve", mock.Anything, "grace").Return(tenant, nil)

	out := &structpb.Struct{}
	in, err := structpb.NewStruct(map[string]any{"subdomain": "grace"})
	require.NoError(t, err)
	err = f.conn.Invoke(context.Background(), "/"+handler.AuthServiceName+"/ResolveTenant", in, out)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID.String(), out.Fields["tenant_id"].GetStringValue())
	assert.Equal(t, "Grace Chapel", out.Fields["name"].GetStringValue())
}

func TestRouter_AccountRequiresSession(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, true)

	_, err := f.invoke(context.Background(), "/"+handler.AccountServiceName+"/Me")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_AccountWithSession(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, true)
	principal := &model.Principal{
		UserID:      uuid.New(),
		TenantID:    uuid.New(),
		Role:        model.RoleMember,
		Permissions: model.RolePermissions(model.RoleMember),
	}

	f.sessions.On("Validate", mock.Anything, "session-token", uuid.Nil).Return(principal, nil)
	f.limiter.On("Check", mock.Anything, principal.UserID.String(), "user", service.ActionAPIHour).Return(true, nil)
	f.tenants.On("Memberships", mock.Anything, principal.UserID).Return(nil, nil)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer session-token")
	out, err := f.invoke(ctx, "/"+handler.AccountServiceName+"/Me")
	require.NoError(t, err)
	assert.Equal(t, principal.UserID.String(), out.Fields["user_id"].GetStringValue())
}

func TestRouter_AddressRateLimit(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, false)

	_, err := f.invoke(context.Background(), "/"+handler.AuthServiceName+"/RecognizeDevice")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestRequiresSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   bool
	}{
		{method: "/membership.auth.v1.Auth/RequestMagicLink", want: false},
		{method: "/grpc.health.v1.Health/Check", want: false},
		{method: "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo", want: false},
		{method: "/membership.auth.v1.Account/Me", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			meta := interceptors.NewServerCallMeta(tt.method, nil, nil)
			assert.Equal(t, tt.want, requiresSession(context.Background(), meta))
		})
	}
}
