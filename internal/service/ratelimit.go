package service

import (
	"context"
	"fmt"
	"time"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
)

// Rate limited actions.
const (
	ActionMagicLink = "magic_link"
	ActionSMSPin    = "sms_pin"
	ActionAPIMinute = "api_minute"
	ActionAPIHour   = "api_hour"
)

// RateLimitConfig holds the configurable limits.
type RateLimitConfig struct {
	CredentialMax    int
	CredentialWindow time.Duration
	APIPerMinute     int
	APIPerHour       int
}

// Rules expands the config into per-action rules.
func (c RateLimitConfig) Rules() []model.RateLimitRule {
	return []model.RateLimitRule{
		{Action: ActionMagicLink, MaxAttempts: c.CredentialMax, Window: c.CredentialWindow},
		{Action: ActionSMSPin, MaxAttempts: c.CredentialMax, Window: c.CredentialWindow},
		{Action: ActionAPIMinute, MaxAttempts: c.APIPerMinute, Window: time.Minute},
		{Action: ActionAPIHour, MaxAttempts: c.APIPerHour, Window: time.Hour},
	}
}

// RateLimiter enforces sliding-window limits keyed by a hashed identifier.
type RateLimiter struct {
	store  model.RateLimitStore
	hasher *secret.Hasher
	rules  map[string]model.RateLimitRule
	logger *logger.Logger
	now    func() time.Time
}

func NewRateLimiter(store model.RateLimitStore, hasher *secret.Hasher, rules []model.RateLimitRule, logger *logger.Logger) *RateLimiter {
	byAction := make(map[string]model.RateLimitRule, len(rules))
	for _, r := range rules {
		byAction[r.Action] = r
	}
	return &RateLimiter{
		store:  store,
		hasher: hasher,
		rules:  byAction,
		logger: logger,
		now:    time.Now,
	}
}

// Check records an attempt and reports whether it is within the limit.
// kind names the identifier type, e.g. "email", "phone", "ip" or "user".
func (r *RateLimiter) Check(ctx context.Context, identifier, kind, action string) (bool, error) {
	rule, ok := r.rules[action]
	if !ok {
		return false, fmt.Errorf("%w: unknown rate limit action %q", model.ErrValidation, action)
	}

	bucket := r.hasher.HashParts(kind, identifier)
	allowed, err := r.store.Hit(ctx, bucket, action, rule.MaxAttempts, rule.Window, r.now())
	if err != nil {
		r.logger.Error("Rate limiter: failed to check limit",
			"action", action,
			"kind", kind,
			"error", err.Error())
		return false, storageErr("failed to check rate limit", err)
	}

	if !allowed {
		r.logger.Info("Rate limiter: limit reached",
			"action", action,
			"kind", kind)
	}

	return allowed, nil
}
