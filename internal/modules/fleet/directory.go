// README: Provider directory; static roster standing in for the live fleet service.
package fleet

import (
	"context"

	"guincho/internal/types"
)

// Directory supplies candidate providers and their live availability. In
// production this is an external collaborator polled on demand; the engine
// never mutates what it returns.
type Directory interface {
	ListAvailable(ctx context.Context) []Provider
}

// StaticDirectory serves a fixed roster. Query order is the roster order,
// which downstream matching relies on for stable tie-breaking.
type StaticDirectory struct {
	providers []Provider
}

func NewStaticDirectory(providers []Provider) *StaticDirectory {
	roster := make([]Provider, len(providers))
	copy(roster, providers)
	return &StaticDirectory{providers: roster}
}

// ListAvailable returns a fresh snapshot of every available provider.
func (d *StaticDirectory) ListAvailable(_ context.Context) []Provider {
	out := make([]Provider, 0, len(d.providers))
	for _, p := range d.providers {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

// DefaultRoster is the fixture fleet used when no roster source is wired.
func DefaultRoster() []Provider {
	return []Provider{
		{
			ID:         "1",
			Name:       "Leandro Silva",
			Plate:      "ABC-1234",
			Rating:     4.8,
			DistanceKm: 2.3,
			ETAMinutes: 8,
			Position:   types.Point{Lat: -23.5485, Lng: -46.6313},
			Available:  true,
		},
		{
			ID:         "3",
			Name:       "Daniel Motorista",
			Plate:      "GHI-9012",
			Rating:     4.7,
			DistanceKm: 3.1,
			ETAMinutes: 12,
			Position:   types.Point{Lat: -23.5465, Lng: -46.6293},
			Available:  true,
		},
	}
}
