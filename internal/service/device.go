package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// Trust score policy.
const (
	recencyTau         = 90 * 24 * time.Hour
	historyScale       = 3.0
	ipChangePenalty    = 0.25
	agentChangePenalty = 0.15
)

// DevicesConfig holds recognition thresholds.
type DevicesConfig struct {
	AutoThreshold    float64
	SuggestThreshold float64
	TrustDays        int
	MinTrustScore    float64
	HintTTL          time.Duration
}

// RecognitionResult describes who a device probably belongs to.
// It never authenticates; a credential is still required.
type RecognitionResult struct {
	SuggestedUserID *uuid.UUID
	SuggestedEmail  *string
	Confidence      float64
	AutoFill        bool
	Message         string
	Hint            string
}

// Devices tracks device history and recognizes returning devices.
type Devices struct {
	store  model.DeviceStore
	hints  model.HintManager
	audit  *Audit
	logger *logger.Logger
	cfg    DevicesConfig
	now    func() time.Time
}

func NewDevices(store model.DeviceStore, hints model.HintManager, audit *Audit, logger *logger.Logger, cfg DevicesConfig) *Devices {
	return &Devices{
		store:  store,
		hints:  hints,
		audit:  audit,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// TrustScore combines recency, history and consistency into [0, 1].
// It grows with successful logins and recent use and shrinks with IP and agent churn.
func TrustScore(d model.TrustedDevice, now time.Time) float64 {
	var recency float64
	if d.LastSuccessAt != nil {
		age := max(now.Sub(*d.LastSuccessAt), 0)
		recency = math.Exp(-float64(age) / float64(recencyTau))
	}
	history := 0.6 + 0.4*(1-math.Exp(-float64(d.SuccessCount)/historyScale))
	consistency := 1 / (1 + ipChangePenalty*float64(d.IPChanges) + agentChangePenalty*float64(d.AgentChanges))

	score := recency * history * consistency
	return math.Min(math.Max(score, 0), 1)
}

// Observe records a device sighting for the user. It returns nil when the
// request carries no fingerprint.
func (d *Devices) Observe(ctx context.Context, userID uuid.UUID, dc model.DeviceContext, successful bool) (*model.TrustedDevice, error) {
	if dc.Fingerprint == "" {
		return nil, nil
	}

	device, err := d.store.Observe(ctx, userID, dc, successful, d.now())
	if err != nil {
		d.logger.Error("Device service: failed to observe device",
			"user_id", userID,
			"error", err.Error())
		return nil, storageErr("failed to observe device", err)
	}

	return &device, nil
}

// Trust marks the device trusted for days (the configured default when days <= 0).
func (d *Devices) Trust(ctx context.Context, userID, tenantID uuid.UUID, dc model.DeviceContext, days int) (model.TrustedDevice, error) {
	if dc.Fingerprint == "" {
		return model.TrustedDevice{}, fmt.Errorf("%w: device fingerprint is required", model.ErrValidation)
	}
	if days <= 0 {
		days = d.cfg.TrustDays
	}

	now := d.now()
	device, err := d.store.Trust(ctx, userID, dc, d.cfg.MinTrustScore, now.AddDate(0, 0, days), now)
	if err != nil {
		d.logger.Error("Device service: failed to trust device",
			"user_id", userID,
			"error", err.Error())
		return model.TrustedDevice{}, storageErr("failed to trust device", err)
	}

	d.audit.Record(ctx, event(model.EventDeviceTrusted, userID, tenantID, dc, map[string]any{"days": days}))

	return device, nil
}

// Recognize scores trusted devices matching the fingerprint in the tenant
// and suggests the best owner above the suggestion threshold.
func (d *Devices) Recognize(ctx context.Context, tenantID uuid.UUID, dc model.DeviceContext) (RecognitionResult, error) {
	if dc.Fingerprint == "" {
		return RecognitionResult{}, nil
	}

	now := d.now()
	candidates, err := d.store.FindTrusted(ctx, tenantID, dc.Fingerprint, now)
	if err != nil {
		d.logger.Error("Device service: failed to find trusted devices",
			"tenant_id", tenantID,
			"error", err.Error())
		return RecognitionResult{}, storageErr("failed to find trusted devices", err)
	}
	if len(candidates) == 0 {
		return RecognitionResult{}, nil
	}

	best, bestScore := candidates[0], -1.0
	for _, c := range candidates {
		if s := TrustScore(c.Device, now); s > bestScore {
			best, bestScore = c, s
		}
	}

	if err := d.store.Touch(ctx, best.Device.ID, bestScore, dc.IP, now); err != nil {
		d.logger.Warn("Device service: failed to touch device",
			"device_id", best.Device.ID,
			"error", err.Error())
	}

	result := RecognitionResult{Confidence: bestScore}
	if bestScore < d.cfg.SuggestThreshold {
		return result, nil
	}

	userID := best.Device.UserID
	result.SuggestedUserID = &userID
	result.SuggestedEmail = best.Email
	result.Message = "Is this you?"
	if bestScore >= d.cfg.AutoThreshold {
		result.AutoFill = true
		result.Message = "Welcome back!"
		if best.FirstName != nil && *best.FirstName != "" {
			result.Message = fmt.Sprintf("Welcome back %s!", *best.FirstName)
		}
	}

	hint, err := d.hints.Issue(model.RecognitionHint{
		UserID:      userID,
		TenantID:    tenantID,
		Fingerprint: dc.Fingerprint,
		ExpiresAt:   now.Add(d.cfg.HintTTL),
	})
	if err != nil {
		d.logger.Warn("Device service: failed to issue recognition hint",
			"error", err.Error())
	} else {
		result.Hint = hint
	}

	d.logger.Debug("Device service: device recognized",
		"tenant_id", tenantID,
		"user_id", userID,
		"confidence", bestScore)

	return result, nil
}

// ResolveHint returns the user a recognition hint points at, provided it was
// issued for the same tenant and device.
func (d *Devices) ResolveHint(token string, tenantID uuid.UUID, dc model.DeviceContext) (uuid.UUID, error) {
	hint, err := d.hints.Parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	if hint.TenantID != tenantID || hint.Fingerprint == "" || hint.Fingerprint != dc.Fingerprint {
		return uuid.Nil, model.ErrHintMismatch
	}
	return hint.UserID, nil
}
