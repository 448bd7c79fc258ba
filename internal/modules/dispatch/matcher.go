// README: Nearest-provider dispatch matching.
package dispatch

import (
	"errors"

	"guincho/internal/modules/fleet"
)

// ErrNoProviderAvailable signals that the directory snapshot had no available
// provider to assign. Callers surface it as a recoverable failure, never a
// crash.
var ErrNoProviderAvailable = errors.New("no provider available")

// Match selects the available provider with the smallest distance to the
// requester. Ties keep the earliest directory entry, so the selection is
// deterministic for a given snapshot.
func Match(providers []fleet.Provider) (fleet.Provider, error) {
	found := false
	var best fleet.Provider
	for _, p := range providers {
		if !p.Available {
			continue
		}
		if !found || p.DistanceKm < best.DistanceKm {
			best = p
			found = true
		}
	}
	if !found {
		return fleet.Provider{}, ErrNoProviderAvailable
	}
	return best, nil
}
