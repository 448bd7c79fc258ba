// README: Tow provider snapshot as reported by the roster.
package fleet

import "guincho/internal/types"

// Provider is an immutable snapshot of a tow truck unit per directory query.
// The engine only reads these; the directory owns them.
type Provider struct {
	ID         types.ID    `json:"id"`
	Name       string      `json:"name"`
	Plate      string      `json:"plate"`
	Rating     float64     `json:"rating"` // 0..5
	DistanceKm float64     `json:"distance_km"`
	ETAMinutes int         `json:"eta_minutes"`
	Position   types.Point `json:"position"`
	Available  bool        `json:"available"`
}
