// README: Heuristic distance estimator driven by address keyword hints.
package estimate

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"
)

var ErrEmptyAddress = errors.New("origin and destination are required")

// keywordFactors adjust the base distance when either address hints at a known
// region. Each keyword applies at most once across origin+destination;
// distinct keywords compound.
var keywordFactors = []struct {
	keyword string
	factor  float64
}{
	{"centro", 0.8},
	{"aeroporto", 1.5},
	{"shopping", 1.2},
}

// Estimator maps two address strings to an estimated driving distance. The
// jitter source is injectable so results are reproducible in tests.
type Estimator struct {
	baseKm float64
	rng    func() float64 // uniform [0, 1)
}

func NewEstimator(baseKm float64) *Estimator {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Estimator{baseKm: baseKm, rng: r.Float64}
}

// NewEstimatorWithRand pins the jitter source.
func NewEstimatorWithRand(baseKm float64, rng func() float64) *Estimator {
	return &Estimator{baseKm: baseKm, rng: rng}
}

// Estimate returns the distance in km, rounded to one decimal and always
// positive. The result is base × keyword factors × uniform jitter in
// [0.8, 1.2).
func (e *Estimator) Estimate(origin, destination string) (float64, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return 0, ErrEmptyAddress
	}

	o := strings.ToLower(origin)
	d := strings.ToLower(destination)
	multiplier := 1.0
	for _, kf := range keywordFactors {
		if strings.Contains(o, kf.keyword) || strings.Contains(d, kf.keyword) {
			multiplier *= kf.factor
		}
	}

	jitter := 0.8 + e.rng()*0.4
	km := math.Round(e.baseKm*multiplier*jitter*10) / 10
	if km < 0.1 {
		km = 0.1
	}
	return km, nil
}
