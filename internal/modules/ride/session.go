// README: Session engine owning the quote draft and the single active request.
package ride

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guincho/internal/clock"
	"guincho/internal/config"
	"guincho/internal/modules/dispatch"
	"guincho/internal/modules/estimate"
	"guincho/internal/modules/fleet"
	"guincho/internal/modules/pricing"
	"guincho/internal/types"
)

var (
	// ErrEmptyAddress rejects a quote request with a blank origin or
	// destination.
	ErrEmptyAddress = estimate.ErrEmptyAddress
	// ErrNoQuote rejects a confirmation before any quote was produced.
	ErrNoQuote = errors.New("no quote to confirm")
	// ErrActiveRequest enforces the single-active-request invariant.
	ErrActiveRequest = errors.New("session already has an active request")
	// ErrInvalidTransition rejects finalize/pay outside their required
	// statuses.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrBadRequest rejects malformed command input.
	ErrBadRequest = errors.New("bad request")
)

// Deps are the session's collaborators. A nil Logger falls back to a no-op.
type Deps struct {
	Clock     clock.Clock
	Logger    *zap.Logger
	Recalc    *estimate.Recalculator
	Pricing   *pricing.Service
	Directory fleet.Directory
}

// Session is the request lifecycle engine: one logical writer mutating one
// shared draft plus at most one active request. Timed callbacks re-enter
// through the same mutex and are validated against the current request
// identity and status order before applying, so a stale timer is a no-op.
type Session struct {
	clock       clock.Clock
	log         *zap.Logger
	recalc      *estimate.Recalculator
	pricing     *pricing.Service
	directory   fleet.Directory
	cfg         config.EngineConfig
	fallbackKm  float64
	baseAddress string

	mu          sync.Mutex
	draft       QuoteDraft
	quote       *Quote
	quoting     bool
	quoteGen    uint64
	quoteTimer  clock.Timer
	active      *Request
	transitions []clock.Timer
	receipt     *Receipt
	stage       Stage
}

func NewSession(deps Deps, cfg config.EngineConfig, fallbackKm float64, baseAddress string) *Session {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		clock:       deps.Clock,
		log:         log,
		recalc:      deps.Recalc,
		pricing:     deps.Pricing,
		directory:   deps.Directory,
		cfg:         cfg,
		fallbackKm:  fallbackKm,
		baseAddress: baseAddress,
		stage:       StageHome,
	}
}

// EditOrigin replaces the draft origin text and restarts the debounced
// recalculation.
func (s *Session) EditOrigin(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Origin = text
	s.afterEditLocked()
}

// EditDestination replaces the draft destination text and restarts the
// debounced recalculation.
func (s *Session) EditDestination(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Destination = text
	s.afterEditLocked()
}

// afterEditLocked invalidates any pending quote and reschedules the distance
// recalculation with the latest draft text. Caller holds s.mu.
func (s *Session) afterEditLocked() {
	s.quoteGen++
	if s.quoteTimer != nil {
		s.quoteTimer.Stop()
		s.quoteTimer = nil
	}
	s.quoting = false
	s.quote = nil
	if s.active == nil {
		s.stage = StageHome
	}
	s.recalc.AddressChanged(s.draft.Origin, s.draft.Destination, s.applyDistance)
}

// applyDistance stores a finished recalculation on the draft. Invoked by the
// recalculator after its debounce and latency elapse.
func (s *Session) applyDistance(km float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.DistanceKm = &km
	s.log.Debug("distance recalculated", zap.Float64("km", km))
}

// RequestQuote prices the current draft after the simulated quote latency.
// The policy needs a distance, so when no recalculation has landed yet the
// session substitutes the configured fallback.
func (s *Session) RequestQuote() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(s.draft.Origin) == "" || strings.TrimSpace(s.draft.Destination) == "" {
		return ErrEmptyAddress
	}
	if s.quoting {
		return nil
	}
	s.quoting = true
	gen := s.quoteGen
	s.quoteTimer = s.clock.AfterFunc(s.cfg.QuoteLatency, func() {
		s.finishQuote(gen)
	})
	return nil
}

func (s *Session) finishQuote(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.quoteGen {
		return
	}
	km := s.fallbackKm
	if s.draft.DistanceKm != nil {
		km = *s.draft.DistanceKm
	}
	s.quote = &Quote{
		DistanceKm: km,
		Price:      s.pricing.ForDistance(km),
		Tier:       s.pricing.TierFor(km),
	}
	s.quoting = false
	s.quoteTimer = nil
	if s.active == nil {
		s.stage = StageQuote
	}
	s.log.Info("quote produced",
		zap.Float64("km", km),
		zap.Int64("amount_cents", s.quote.Price.Amount),
		zap.String("tier", string(s.quote.Tier)))
}

// Confirm turns the current quote into an active request: it matches the
// nearest available provider, freezes distance and price, and schedules the
// timed status progression. Fails with dispatch.ErrNoProviderAvailable when
// the directory has no available provider.
func (s *Session) Confirm(ctx context.Context) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return Request{}, ErrActiveRequest
	}
	if s.quote == nil {
		return Request{}, ErrNoQuote
	}

	provider, err := dispatch.Match(s.directory.ListAvailable(ctx))
	if err != nil {
		return Request{}, err
	}

	req := &Request{
		ID:          types.ID(uuid.NewString()),
		Origin:      s.draft.Origin,
		Destination: s.draft.Destination,
		DistanceKm:  s.quote.DistanceKm,
		Price:       s.quote.Price,
		Status:      StatusRequesting,
		Provider:    provider,
		ETAMinutes:  provider.ETAMinutes,
		CreatedAt:   s.clock.Now(),
	}
	s.active = req
	s.stage = StageDispatching
	s.scheduleTransitionLocked(req.ID, StatusAccepted, s.cfg.AcceptAfter)
	s.scheduleTransitionLocked(req.ID, StatusEnRoute, s.cfg.EnRouteAfter)
	s.scheduleTransitionLocked(req.ID, StatusArrived, s.cfg.ArriveAfter)

	s.log.Info("request confirmed",
		zap.String("request_id", string(req.ID)),
		zap.String("provider", provider.Name),
		zap.Float64("provider_km", provider.DistanceKm))
	return *req, nil
}

// scheduleTransitionLocked registers an independent timed transition keyed by
// request identity. Caller holds s.mu.
func (s *Session) scheduleTransitionLocked(id types.ID, target Status, after time.Duration) {
	timer := s.clock.AfterFunc(after, func() {
		s.applyTimedTransition(id, target)
	})
	s.transitions = append(s.transitions, timer)
}

// applyTimedTransition applies a scheduled status change if, and only if, the
// request it was scheduled for is still active and the change strictly
// advances the status.
func (s *Session) applyTimedTransition(id types.ID, target Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.ID != id {
		return
	}
	if !CanAdvance(s.active.Status, target) {
		s.log.Debug("stale transition ignored",
			zap.String("request_id", string(id)),
			zap.String("from", string(s.active.Status)),
			zap.String("to", string(target)))
		return
	}
	s.active.Status = target
	if target == StatusAccepted {
		s.stage = StageTracking
	}
	s.log.Info("request status advanced",
		zap.String("request_id", string(id)),
		zap.String("status", string(target)))
}

// Finalize completes an arrived request. Any other status is an invalid
// transition.
func (s *Session) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.Status != StatusArrived {
		return ErrInvalidTransition
	}
	s.active.Status = StatusFinished
	s.stage = StagePayment
	s.log.Info("request finished", zap.String("request_id", string(s.active.ID)))
	return nil
}

// Pay records the payment method and rating for a finished request, then
// returns the session to its initial state. No charge is performed.
func (s *Session) Pay(method PaymentMethod, rating int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.Status != StatusFinished {
		return Receipt{}, ErrInvalidTransition
	}
	if !method.Valid() || rating < 1 || rating > 5 {
		return Receipt{}, ErrBadRequest
	}

	rc := Receipt{
		RequestID:  s.active.ID,
		Provider:   s.active.Provider.Name,
		DistanceKm: s.active.DistanceKm,
		Amount:     s.active.Price,
		Method:     method,
		Rating:     rating,
		PaidAt:     s.clock.Now(),
	}
	s.log.Info("trip paid",
		zap.String("request_id", string(rc.RequestID)),
		zap.String("method", string(method)),
		zap.Int("rating", rating))
	s.resetLocked()
	s.receipt = &rc
	return rc, nil
}

// Reset clears the session unconditionally: pending recalculations and
// scheduled transitions are cancelled, and any that already fired find no
// matching request and do nothing.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.log.Info("session reset")
}

// resetLocked clears everything except the last receipt. Caller holds s.mu.
func (s *Session) resetLocked() {
	s.recalc.Cancel()
	s.quoteGen++
	if s.quoteTimer != nil {
		s.quoteTimer.Stop()
		s.quoteTimer = nil
	}
	for _, t := range s.transitions {
		t.Stop()
	}
	s.transitions = nil
	s.active = nil
	s.quote = nil
	s.quoting = false
	s.draft = QuoteDraft{}
	s.stage = StageHome
}

// Snapshot returns an immutable copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Stage:       s.stage,
		Draft:       s.draft,
		Computing:   s.recalc.IsComputing(),
		Quoting:     s.quoting,
		BaseAddress: s.baseAddress,
	}
	if s.draft.DistanceKm != nil {
		km := *s.draft.DistanceKm
		snap.Draft.DistanceKm = &km
	}
	if s.quote != nil {
		q := *s.quote
		snap.Quote = &q
	}
	if s.active != nil {
		r := *s.active
		snap.Request = &r
	}
	if s.receipt != nil {
		rc := *s.receipt
		snap.LastReceipt = &rc
	}
	return snap
}
