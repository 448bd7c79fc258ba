// README: Pricing service computes the fixed-tier fare for a distance.
package pricing

import (
	"guincho/internal/config"
	"guincho/internal/types"
)

// Service is the pure pricing policy. It takes a required distance; callers
// that have no computed distance yet are responsible for substituting their
// documented fallback before calling in.
type Service struct {
	thresholdKm float64
	near        types.Money
	far         types.Money
}

func NewService(cfg config.PricingConfig) *Service {
	return &Service{
		thresholdKm: cfg.TierThresholdKm,
		near:        types.Money{Amount: cfg.NearTierCents, Currency: cfg.Currency},
		far:         types.Money{Amount: cfg.FarTierCents, Currency: cfg.Currency},
	}
}

// ForDistance returns the fare for the given distance. Exactly the threshold
// is still the near tier.
func (s *Service) ForDistance(distanceKm float64) types.Money {
	if distanceKm <= s.thresholdKm {
		return s.near
	}
	return s.far
}

// TierFor reports which band the distance falls in.
func (s *Service) TierFor(distanceKm float64) Tier {
	if distanceKm <= s.thresholdKm {
		return TierNear
	}
	return TierFar
}
