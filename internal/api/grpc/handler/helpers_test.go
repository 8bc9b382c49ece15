package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func deviceContext() context.Context {
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("203.0.113.7"), Port: 50123}})
	return metadata.NewIncomingContext(ctx, metadata.New(map[string]string{
		grpcctx.FingerprintKey: "fp-1",
		grpcctx.UserAgentKey:   "Safari/17",
	}))
}

var testDevice = model.DeviceContext{Fingerprint: "fp-1", UserAgent: "Safari/17", IP: "203.0.113.7"}

func withPrincipal(ctx context.Context, p *model.Principal, token string) context.Context {
	m := grpcctx.NewManager()
	return m.SetSessionTokenToContext(m.SetPrincipalToContext(ctx, p), token)
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, code, st.Code(), st.Message())
}
