package membership

import (
	"log/slog"

	"github.com/tuannda/membership-payments/internal"
)

// Plan is one purchasable membership plan: a tier plus how long one purchase
// of it lasts.
type Plan struct {
	ID           string
	Tier         string
	DurationDays int
}

// Catalog resolves plan ids to plans. Backed by configuration; an unknown id
// routes the order to review rather than failing the webhook.
type Catalog struct {
	plans map[string]Plan
}

func NewCatalog(cfg map[string]internal.PlanConfig, logger *slog.Logger) *Catalog {
	plans := make(map[string]Plan, len(cfg))
	for id, plan := range cfg {
		plans[id] = Plan{
			ID:           id,
			Tier:         plan.Tier,
			DurationDays: plan.DurationDays,
		}
	}
	logger.Info("plan catalog loaded", "plans", len(plans))
	return &Catalog{plans: plans}
}

func (c *Catalog) Get(planID string) (Plan, bool) {
	plan, ok := c.plans[planID]
	return plan, ok
}
