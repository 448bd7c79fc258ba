// README: Tier boundary tests for the pricing policy.
package pricing

import (
	"testing"

	"guincho/internal/config"
)

func testService() *Service {
	return NewService(config.PricingConfig{
		TierThresholdKm: 40,
		NearTierCents:   15000,
		FarTierCents:    18000,
		Currency:        "BRL",
	})
}

func TestForDistanceTiers(t *testing.T) {
	s := testService()

	cases := []struct {
		name       string
		distanceKm float64
		wantCents  int64
		wantTier   Tier
	}{
		{"short trip", 2.5, 15000, TierNear},
		{"mid range", 25, 15000, TierNear},
		{"fallback distance", 35, 15000, TierNear},
		{"exactly on threshold stays near", 40, 15000, TierNear},
		{"just past threshold", 40.1, 18000, TierFar},
		{"well past threshold", 45, 18000, TierFar},
		{"long haul", 100, 18000, TierFar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.ForDistance(tc.distanceKm)
			if got.Amount != tc.wantCents {
				t.Errorf("ForDistance(%v) = %d cents, want %d", tc.distanceKm, got.Amount, tc.wantCents)
			}
			if got.Currency != "BRL" {
				t.Errorf("ForDistance(%v) currency = %q, want BRL", tc.distanceKm, got.Currency)
			}
			if tier := s.TierFor(tc.distanceKm); tier != tc.wantTier {
				t.Errorf("TierFor(%v) = %q, want %q", tc.distanceKm, tier, tc.wantTier)
			}
		})
	}
}
