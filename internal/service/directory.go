package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// subdomainPattern is a single DNS label.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Directory finds the tenant a client was loaded from, so it can address the
// sign-in flows before anyone is signed in.
type Directory struct {
	store  model.TenantStore
	logger *logger.Logger
}

func NewDirectory(store model.TenantStore, logger *logger.Logger) *Directory {
	return &Directory{
		store:  store,
		logger: logger,
	}
}

// Resolve returns the active tenant served at subdomain. Matching ignores case.
// Unknown and inactive tenants are both ErrNotFound.
func (d *Directory) Resolve(ctx context.Context, subdomain string) (model.Tenant, error) {
	sub := strings.ToLower(strings.TrimSpace(subdomain))
	if !subdomainPattern.MatchString(sub) {
		return model.Tenant{}, fmt.Errorf("%w: malformed subdomain", model.ErrValidation)
	}

	tenant, err := d.store.GetBySubdomain(ctx, sub)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Tenant{}, model.ErrNotFound
		}
		d.logger.Error("Directory service: failed to resolve tenant",
			"subdomain", sub,
			"error", err.Error())
		return model.Tenant{}, storageErr("failed to resolve tenant", err)
	}
	if !tenant.Active() {
		return model.Tenant{}, model.ErrNotFound
	}

	return tenant, nil
}
