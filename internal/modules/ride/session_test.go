// README: Session engine tests (quote flow, lifecycle, reset) on a manual clock.
package ride

import (
	"context"
	"errors"
	"testing"
	"time"

	"guincho/internal/clock"
	"guincho/internal/config"
	"guincho/internal/modules/dispatch"
	"guincho/internal/modules/estimate"
	"guincho/internal/modules/fleet"
	"guincho/internal/modules/pricing"
)

var testEngineCfg = config.EngineConfig{
	DebounceWindow:  500 * time.Millisecond,
	EstimateLatency: 1500 * time.Millisecond,
	QuoteLatency:    2 * time.Second,
	AcceptAfter:     3 * time.Second,
	EnRouteAfter:    5 * time.Second,
	ArriveAfter:     15 * time.Second,
}

// testFleet matches directory order [3.1, 2.3] so the matcher has to pick the
// second entry.
func testFleet() []fleet.Provider {
	return []fleet.Provider{
		{ID: "d-far", Name: "Daniel Motorista", Plate: "GHI-9012", DistanceKm: 3.1, ETAMinutes: 12, Available: true},
		{ID: "d-near", Name: "Leandro Silva", Plate: "ABC-1234", DistanceKm: 2.3, ETAMinutes: 8, Available: true},
	}
}

func newTestSession(t *testing.T, providers []fleet.Provider) (*Session, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	est := estimate.NewEstimatorWithRand(25, func() float64 { return 0.5 }) // jitter pinned to 1.0
	recalc := estimate.NewRecalculator(c, est, testEngineCfg.DebounceWindow, testEngineCfg.EstimateLatency)
	priceSvc := pricing.NewService(config.PricingConfig{
		TierThresholdKm: 40,
		NearTierCents:   15000,
		FarTierCents:    18000,
		Currency:        "BRL",
	})
	s := NewSession(Deps{
		Clock:     c,
		Recalc:    recalc,
		Pricing:   priceSvc,
		Directory: fleet.NewStaticDirectory(providers),
	}, testEngineCfg, 35, "Base, Campo Grande - MS")
	return s, c
}

func confirmedRequest(t *testing.T, s *Session, c *clock.Manual) Request {
	t.Helper()
	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")
	c.Advance(testEngineCfg.DebounceWindow + testEngineCfg.EstimateLatency)
	if err := s.RequestQuote(); err != nil {
		t.Fatalf("RequestQuote: %v", err)
	}
	c.Advance(testEngineCfg.QuoteLatency)
	req, err := s.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	return req
}

func TestCanAdvance(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNone, StatusRequesting, true},
		{StatusRequesting, StatusAccepted, true},
		{StatusAccepted, StatusEnRoute, true},
		{StatusEnRoute, StatusArrived, true},
		{StatusArrived, StatusFinished, true},
		// skipping forward is still an advance
		{StatusRequesting, StatusEnRoute, true},
		{StatusRequesting, StatusArrived, true},
		// never backwards, never in place
		{StatusAccepted, StatusAccepted, false},
		{StatusEnRoute, StatusAccepted, false},
		{StatusArrived, StatusRequesting, false},
		{StatusFinished, StatusArrived, false},
		{StatusFinished, StatusEnRoute, false},
		// unknown statuses are rejected
		{"bogus", StatusAccepted, false},
		{StatusAccepted, "bogus", false},
	}
	for _, tc := range cases {
		if got := CanAdvance(tc.from, tc.to); got != tc.want {
			t.Errorf("CanAdvance(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestEndToEndFlow(t *testing.T) {
	s, c := newTestSession(t, testFleet())

	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")
	c.Advance(testEngineCfg.DebounceWindow + testEngineCfg.EstimateLatency)

	snap := s.Snapshot()
	if snap.Draft.DistanceKm == nil {
		t.Fatal("no distance on draft after recalculation window")
	}
	if km := *snap.Draft.DistanceKm; km < 20.0 || km > 30.0 {
		t.Fatalf("keyword-free estimate = %v, want within [20.0, 30.0]", km)
	}

	if err := s.RequestQuote(); err != nil {
		t.Fatalf("RequestQuote: %v", err)
	}
	if snap = s.Snapshot(); !snap.Quoting {
		t.Error("Quoting = false while quote latency pending")
	}
	c.Advance(testEngineCfg.QuoteLatency)

	snap = s.Snapshot()
	if snap.Quote == nil {
		t.Fatal("no quote after quote latency")
	}
	if snap.Quote.Price.Amount != 15000 {
		t.Errorf("quote = %d cents, want 15000", snap.Quote.Price.Amount)
	}
	if snap.Stage != StageQuote {
		t.Errorf("stage = %s, want %s", snap.Stage, StageQuote)
	}

	req, err := s.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if req.Provider.DistanceKm != 2.3 {
		t.Errorf("matched provider at %v km, want nearest 2.3", req.Provider.DistanceKm)
	}
	if req.Status != StatusRequesting {
		t.Errorf("created status = %s, want %s", req.Status, StatusRequesting)
	}
	if req.ETAMinutes != 8 {
		t.Errorf("eta = %d min, want 8 from assigned provider", req.ETAMinutes)
	}

	// Timed progression: +3 s accepted, +5 s en route, +15 s arrived.
	steps := []struct {
		advance time.Duration
		want    Status
		stage   Stage
	}{
		{3 * time.Second, StatusAccepted, StageTracking},
		{2 * time.Second, StatusEnRoute, StageTracking},
		{10 * time.Second, StatusArrived, StageTracking},
	}
	for _, step := range steps {
		c.Advance(step.advance)
		snap = s.Snapshot()
		if snap.Request == nil {
			t.Fatalf("request vanished before %s", step.want)
		}
		if snap.Request.Status != step.want {
			t.Fatalf("status = %s, want %s", snap.Request.Status, step.want)
		}
		if snap.Stage != step.stage {
			t.Errorf("stage = %s, want %s at %s", snap.Stage, step.stage, step.want)
		}
	}

	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	snap = s.Snapshot()
	if snap.Request.Status != StatusFinished {
		t.Errorf("status after finalize = %s, want %s", snap.Request.Status, StatusFinished)
	}
	if snap.Stage != StagePayment {
		t.Errorf("stage after finalize = %s, want %s", snap.Stage, StagePayment)
	}

	rc, err := s.Pay(PaymentPix, 5)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if rc.Amount.Amount != 15000 || rc.Provider != "Leandro Silva" {
		t.Errorf("receipt = %+v", rc)
	}
	snap = s.Snapshot()
	if snap.Request != nil || snap.Stage != StageHome {
		t.Errorf("session not back home after payment: stage=%s request=%v", snap.Stage, snap.Request)
	}
	if snap.LastReceipt == nil || snap.LastReceipt.Rating != 5 {
		t.Errorf("last receipt not recorded: %+v", snap.LastReceipt)
	}
}

func TestRequestQuoteRejectsBlankAddresses(t *testing.T) {
	s, _ := newTestSession(t, testFleet())

	if err := s.RequestQuote(); !errors.Is(err, ErrEmptyAddress) {
		t.Errorf("empty draft: err = %v, want ErrEmptyAddress", err)
	}
	s.EditOrigin("Rua A, 123")
	if err := s.RequestQuote(); !errors.Is(err, ErrEmptyAddress) {
		t.Errorf("blank destination: err = %v, want ErrEmptyAddress", err)
	}
}

func TestQuoteFallsBackWhenNoEstimateLanded(t *testing.T) {
	s, c := newTestSession(t, testFleet())

	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")
	if err := s.RequestQuote(); err != nil {
		t.Fatalf("RequestQuote: %v", err)
	}
	// The quote latency (2 s) elapses before the in-flight estimate
	// (0.5 s debounce + 1.5 s compute, scheduled after the quote) lands,
	// so the session must substitute the 35 km fallback.
	c.Advance(testEngineCfg.QuoteLatency)

	snap := s.Snapshot()
	if snap.Quote == nil {
		t.Fatal("no quote produced")
	}
	if snap.Quote.DistanceKm != 35 {
		t.Errorf("quoted distance = %v, want fallback 35", snap.Quote.DistanceKm)
	}
	if snap.Quote.Price.Amount != 15000 {
		t.Errorf("fallback price = %d cents, want 15000", snap.Quote.Price.Amount)
	}
}

func TestConfirmWithoutQuote(t *testing.T) {
	s, _ := newTestSession(t, testFleet())
	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")

	if _, err := s.Confirm(context.Background()); !errors.Is(err, ErrNoQuote) {
		t.Errorf("Confirm err = %v, want ErrNoQuote", err)
	}
}

func TestConfirmNoProviderAvailable(t *testing.T) {
	s, c := newTestSession(t, []fleet.Provider{
		{ID: "busy", DistanceKm: 1.0, Available: false},
	})

	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")
	c.Advance(testEngineCfg.DebounceWindow + testEngineCfg.EstimateLatency)
	if err := s.RequestQuote(); err != nil {
		t.Fatalf("RequestQuote: %v", err)
	}
	c.Advance(testEngineCfg.QuoteLatency)

	_, err := s.Confirm(context.Background())
	if !errors.Is(err, dispatch.ErrNoProviderAvailable) {
		t.Fatalf("Confirm err = %v, want ErrNoProviderAvailable", err)
	}
	// The failure is recoverable: quote survives, no request was created.
	snap := s.Snapshot()
	if snap.Request != nil {
		t.Error("request created despite matching failure")
	}
	if snap.Quote == nil {
		t.Error("quote lost on matching failure")
	}
}

func TestConfirmWhileRequestActive(t *testing.T) {
	s, c := newTestSession(t, testFleet())
	confirmedRequest(t, s, c)

	if _, err := s.Confirm(context.Background()); !errors.Is(err, ErrActiveRequest) {
		t.Errorf("second Confirm err = %v, want ErrActiveRequest", err)
	}
}

func TestStaleTransitionDoesNotRegress(t *testing.T) {
	s, c := newTestSession(t, testFleet())
	req := confirmedRequest(t, s, c)

	// Jump straight to en_route as if the +5 s event fired early.
	s.applyTimedTransition(req.ID, StatusEnRoute)
	if got := s.Snapshot().Request.Status; got != StatusEnRoute {
		t.Fatalf("status = %s, want %s", got, StatusEnRoute)
	}

	// The +3 s accepted event now fires late; it must not regress.
	s.applyTimedTransition(req.ID, StatusAccepted)
	if got := s.Snapshot().Request.Status; got != StatusEnRoute {
		t.Errorf("late transition regressed status to %s", got)
	}

	// Re-applying the current status is equally a no-op.
	s.applyTimedTransition(req.ID, StatusEnRoute)
	if got := s.Snapshot().Request.Status; got != StatusEnRoute {
		t.Errorf("duplicate transition changed status to %s", got)
	}
}

func TestTransitionForSupersededRequestIsNoOp(t *testing.T) {
	s, c := newTestSession(t, testFleet())
	old := confirmedRequest(t, s, c)
	s.Reset()
	current := confirmedRequest(t, s, c)

	s.applyTimedTransition(old.ID, StatusArrived)

	snap := s.Snapshot()
	if snap.Request == nil || snap.Request.ID != current.ID {
		t.Fatal("active request lost")
	}
	if snap.Request.Status != StatusRequesting {
		t.Errorf("stale-identity transition applied: status = %s", snap.Request.Status)
	}
}

func TestResetCancelsScheduledTransitions(t *testing.T) {
	s, c := newTestSession(t, testFleet())
	confirmedRequest(t, s, c)

	c.Advance(time.Second) // before the +3 s accepted event
	s.Reset()
	c.Advance(20 * time.Second) // well past the +15 s arrived event

	snap := s.Snapshot()
	if snap.Request != nil {
		t.Errorf("request resurrected after reset: %+v", snap.Request)
	}
	if snap.Stage != StageHome {
		t.Errorf("stage = %s, want %s", snap.Stage, StageHome)
	}
	if snap.Draft.Origin != "" || snap.Draft.DistanceKm != nil {
		t.Errorf("draft not cleared: %+v", snap.Draft)
	}
}

func TestFinalizeOutsideArrived(t *testing.T) {
	s, c := newTestSession(t, testFleet())

	if err := s.Finalize(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finalize with no request: err = %v, want ErrInvalidTransition", err)
	}

	confirmedRequest(t, s, c)
	for _, advance := range []time.Duration{0, 3 * time.Second, 2 * time.Second} {
		c.Advance(advance)
		if err := s.Finalize(); !errors.Is(err, ErrInvalidTransition) {
			status := s.Snapshot().Request.Status
			t.Errorf("Finalize at %s: err = %v, want ErrInvalidTransition", status, err)
		}
	}

	c.Advance(10 * time.Second) // reach arrived
	if err := s.Finalize(); err != nil {
		t.Errorf("Finalize at arrived: %v", err)
	}
}

func TestPayValidation(t *testing.T) {
	s, c := newTestSession(t, testFleet())

	if _, err := s.Pay(PaymentPix, 5); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pay with no request: err = %v, want ErrInvalidTransition", err)
	}

	confirmedRequest(t, s, c)
	c.Advance(15 * time.Second)
	if _, err := s.Pay(PaymentPix, 5); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pay before finalize: err = %v, want ErrInvalidTransition", err)
	}

	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if _, err := s.Pay("bitcoin", 5); !errors.Is(err, ErrBadRequest) {
		t.Errorf("unknown method: err = %v, want ErrBadRequest", err)
	}
	if _, err := s.Pay(PaymentCash, 0); !errors.Is(err, ErrBadRequest) {
		t.Errorf("rating 0: err = %v, want ErrBadRequest", err)
	}
	if _, err := s.Pay(PaymentCash, 6); !errors.Is(err, ErrBadRequest) {
		t.Errorf("rating 6: err = %v, want ErrBadRequest", err)
	}
	if _, err := s.Pay(PaymentCard, 4); err != nil {
		t.Errorf("valid Pay: %v", err)
	}
}

func TestEditInvalidatesQuote(t *testing.T) {
	s, c := newTestSession(t, testFleet())

	s.EditOrigin("Rua A, 123")
	s.EditDestination("Rua B, 456")
	c.Advance(testEngineCfg.DebounceWindow + testEngineCfg.EstimateLatency)
	if err := s.RequestQuote(); err != nil {
		t.Fatalf("RequestQuote: %v", err)
	}
	c.Advance(testEngineCfg.QuoteLatency)
	if s.Snapshot().Quote == nil {
		t.Fatal("no quote produced")
	}

	s.EditDestination("Aeroporto")

	snap := s.Snapshot()
	if snap.Quote != nil {
		t.Error("quote survived an address edit")
	}
	if snap.Stage != StageHome {
		t.Errorf("stage = %s, want %s", snap.Stage, StageHome)
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	s, c := newTestSession(t, testFleet())
	confirmedRequest(t, s, c)

	snap := s.Snapshot()
	snap.Request.Status = StatusFinished
	*snap.Draft.DistanceKm = 999

	fresh := s.Snapshot()
	if fresh.Request.Status != StatusRequesting {
		t.Error("mutating a snapshot leaked into the session request")
	}
	if *fresh.Draft.DistanceKm == 999 {
		t.Error("mutating a snapshot leaked into the session draft")
	}
}
