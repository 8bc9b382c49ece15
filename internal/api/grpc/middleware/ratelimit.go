package middleware

import (
	"context"
	"errors"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

var errIPRateLimited = errors.New("too many requests from this address")

// IPRateLimit caps requests per client address. It satisfies the
// go-grpc-middleware ratelimit.Limiter interface.
type IPRateLimit struct {
	limiter        RateLimiter
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewIPRateLimit creates a new IPRateLimit middleware.
func NewIPRateLimit(limiter RateLimiter, contextManager model.ContextManager, logger *logger.Logger) *IPRateLimit {
	return &IPRateLimit{limiter: limiter, contextManager: contextManager, logger: logger}
}

// Limit rejects the call when its address exceeded the per-minute limit.
// A failing limiter rejects as well.
func (l *IPRateLimit) Limit(ctx context.Context) error {
	ip := l.contextManager.GetDeviceFromContext(ctx).IP
	if ip == "" {
		return nil
	}

	allowed, err := l.limiter.Check(ctx, ip, "ip", service.ActionAPIMinute)
	if err != nil {
		l.logger.Error("IP rate limit middleware: failed to check limit", "error", err.Error())
		return err
	}
	if !allowed {
		return errIPRateLimited
	}
	return nil
}
