// README: Tier definitions for fixed-band tow pricing.
package pricing

// Tier is one of the two fixed price bands keyed by the distance threshold.
type Tier string

const (
	// TierNear covers distances up to and including the threshold.
	TierNear Tier = "near"
	// TierFar covers everything beyond it.
	TierFar Tier = "far"
)
