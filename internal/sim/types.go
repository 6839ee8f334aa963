// internal/sim/types.go
package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a simulation configuration fails
// validation. No trials are generated for an invalid configuration.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrUndefinedRate is returned when a confusion matrix cannot produce a rate
// because the corresponding denominator is zero (e.g. no positive trials at
// all). Callers must treat the rate as missing, not as zero.
var ErrUndefinedRate = errors.New("undefined rate")

// PayoffTable assigns a payoff to each of the four trial outcomes.
type PayoffTable struct {
	TP float64 `mapstructure:"tp" json:"tp"`
	FP float64 `mapstructure:"fp" json:"fp"`
	FN float64 `mapstructure:"fn" json:"fn"`
	TN float64 `mapstructure:"tn" json:"tn"`
}

// DefaultPayoffs rewards correct decisions and penalizes mistakes
// symmetrically.
func DefaultPayoffs() PayoffTable {
	return PayoffTable{TP: 1, FP: -1, FN: -1, TN: 1}
}

// For returns the payoff for one (actual, predicted) pair.
func (p PayoffTable) For(actual, predicted bool) float64 {
	switch {
	case actual && predicted:
		return p.TP
	case !actual && predicted:
		return p.FP
	case actual && !predicted:
		return p.FN
	default:
		return p.TN
	}
}

// Configuration is the immutable input to a single simulation run. It fixes
// the phosphosite count N, the activation threshold K (sites that must be
// phosphorylated before the protein counts as active), the per-site noise
// probability PNP, the signal prior Alpha, and the trial count.
//
// Response maps PNP to the proper phosphorylation probability PPP. It must
// dominate the identity (f(x) >= x); validation samples the function across
// [0,1] and rejects configurations that violate the constraint.
type Configuration struct {
	N         int
	K         int
	PNP       float64
	Alpha     float64
	TimeUnits int
	Payoffs   PayoffTable
	Response  ResponseFunc
}

// Validate checks the configuration bounds. All violations are reported as
// ErrInvalidConfiguration; the simulator never clamps silently.
func (c Configuration) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: n must be >= 1, got %d", ErrInvalidConfiguration, c.N)
	}
	if c.K < 1 || c.K > c.N {
		return fmt.Errorf("%w: k must satisfy 1 <= k <= n, got k=%d n=%d", ErrInvalidConfiguration, c.K, c.N)
	}
	if c.PNP < 0 || c.PNP > 1 {
		return fmt.Errorf("%w: pnp must lie in [0,1], got %g", ErrInvalidConfiguration, c.PNP)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must lie in [0,1], got %g", ErrInvalidConfiguration, c.Alpha)
	}
	if c.TimeUnits < 1 {
		return fmt.Errorf("%w: time units must be >= 1, got %d", ErrInvalidConfiguration, c.TimeUnits)
	}
	if c.Response == nil {
		return fmt.Errorf("%w: response function is required", ErrInvalidConfiguration)
	}
	if err := checkReliability(c.Response); err != nil {
		return err
	}
	return nil
}

// PPP evaluates the configured response function at the configured noise
// probability.
func (c Configuration) PPP() float64 {
	return c.Response(c.PNP)
}

// Trial is one simulated decision instance.
type Trial struct {
	Actual    bool    `json:"actual"`
	Predicted bool    `json:"predicted"`
	Payoff    float64 `json:"payoff"`
}

// ConfusionMatrix tallies trial outcomes for one run. The four counts always
// sum to the run's trial count.
type ConfusionMatrix struct {
	TP int `json:"tp"`
	FN int `json:"fn"`
	FP int `json:"fp"`
	TN int `json:"tn"`
}

// Add tallies a single trial.
func (m *ConfusionMatrix) Add(t Trial) {
	switch {
	case t.Actual && t.Predicted:
		m.TP++
	case t.Actual && !t.Predicted:
		m.FN++
	case !t.Actual && t.Predicted:
		m.FP++
	default:
		m.TN++
	}
}

// Total returns the number of trials tallied so far.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.FN + m.FP + m.TN
}

// TPR returns TP/(TP+FN). The rate is undefined when no positive trials were
// observed.
func (m ConfusionMatrix) TPR() (float64, error) {
	pos := m.TP + m.FN
	if pos == 0 {
		return 0, fmt.Errorf("%w: no positive trials (TP+FN = 0)", ErrUndefinedRate)
	}
	return float64(m.TP) / float64(pos), nil
}

// FPR returns FP/(FP+TN). The rate is undefined when no negative trials were
// observed.
func (m ConfusionMatrix) FPR() (float64, error) {
	neg := m.FP + m.TN
	if neg == 0 {
		return 0, fmt.Errorf("%w: no negative trials (FP+TN = 0)", ErrUndefinedRate)
	}
	return float64(m.FP) / float64(neg), nil
}

// Reduce folds a trial sequence into a confusion matrix. The reduction is
// order-independent.
func Reduce(trials []Trial) ConfusionMatrix {
	var m ConfusionMatrix
	for _, t := range trials {
		m.Add(t)
	}
	return m
}
