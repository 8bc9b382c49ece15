package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
)

// Recovery turns handler panics into Internal errors.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// Handle is a recovery.RecoveryHandlerFuncContext.
func (r *Recovery) Handle(ctx context.Context, p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", fmt.Sprint(p),
		"stack", string(debug.Stack()))
	return status.Error(codes.Internal, "internal server error")
}
