// README: Ride request aggregate, status progression, and session snapshot types.
package ride

import (
	"time"

	"guincho/internal/modules/fleet"
	"guincho/internal/modules/pricing"
	"guincho/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusRequesting Status = "requesting"
	StatusAccepted   Status = "accepted"
	StatusEnRoute    Status = "en_route"
	StatusArrived    Status = "arrived"
	StatusFinished   Status = "finished"
)

// statusOrder fixes the forward-only progression of a request.
var statusOrder = map[Status]int{
	StatusNone:       0,
	StatusRequesting: 1,
	StatusAccepted:   2,
	StatusEnRoute:    3,
	StatusArrived:    4,
	StatusFinished:   5,
}

// CanAdvance reports whether moving from → to strictly advances the
// progression. Timed transitions are scheduled independently, so anything
// that does not advance is rejected; a late firing can never regress or
// re-apply a status.
func CanAdvance(from, to Status) bool {
	f, okFrom := statusOrder[from]
	t, okTo := statusOrder[to]
	return okFrom && okTo && t > f
}

func (s Status) String() string { return string(s) }

// Request is a single dispatch transaction. Distance and price are frozen at
// quote time; the provider is assigned at creation and never reassigned.
type Request struct {
	ID          types.ID       `json:"id"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	DistanceKm  float64        `json:"distance_km"`
	Price       types.Money    `json:"price"`
	Status      Status         `json:"status"`
	Provider    fleet.Provider `json:"provider"`
	ETAMinutes  int            `json:"eta_minutes"`
	CreatedAt   time.Time      `json:"created_at"`
}

// QuoteDraft is the pre-request state: the address text being edited and the
// most recent estimate, nil until the first recalculation lands.
type QuoteDraft struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DistanceKm  *float64 `json:"distance_km"`
}

// Quote is a priced distance for a prospective request, not yet confirmed.
type Quote struct {
	DistanceKm float64      `json:"distance_km"`
	Price      types.Money  `json:"price"`
	Tier       pricing.Tier `json:"tier"`
}

// Stage mirrors the presentation screens driven by the session.
type Stage string

const (
	StageHome        Stage = "home"
	StageQuote       Stage = "quote"
	StageDispatching Stage = "dispatching"
	StageTracking    Stage = "tracking"
	StagePayment     Stage = "payment"
)

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

// Receipt records a completed trip at payment time.
type Receipt struct {
	RequestID  types.ID      `json:"request_id"`
	Provider   string        `json:"provider"`
	DistanceKm float64       `json:"distance_km"`
	Amount     types.Money   `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Rating     int           `json:"rating"` // 1..5
	PaidAt     time.Time     `json:"paid_at"`
}

// Snapshot is the immutable read model handed to the presentation layer
// after every mutation.
type Snapshot struct {
	Stage       Stage      `json:"stage"`
	Draft       QuoteDraft `json:"draft"`
	Computing   bool       `json:"computing"`
	Quoting     bool       `json:"quoting"`
	Quote       *Quote     `json:"quote,omitempty"`
	Request     *Request   `json:"request,omitempty"`
	BaseAddress string     `json:"base_address"`
	LastReceipt *Receipt   `json:"last_receipt,omitempty"`
}
