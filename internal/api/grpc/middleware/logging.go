package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger, now: time.Now}
}

// HandleGRPC logs method, peer, duration and status for each unary request.
// Client faults are logged at info level, server faults at error level.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := l.now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{
		"method", info.FullMethod,
		"peer", grpcctx.PeerIP(ctx),
		"duration_ms", l.now().Sub(start).Milliseconds(),
		"status", code.String(),
	}

	if serverFault(code) {
		l.logger.Error("gRPC request failed", append(args, "error", err.Error())...)
		return resp, err
	}

	l.logger.Info("gRPC request completed", args...)
	return resp, err
}

func serverFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable, codes.Unimplemented:
		return true
	default:
		return false
	}
}
