// internal/sim/response.go
package sim

import (
	"fmt"
	"sort"
)

// ResponseFunc maps the per-site noise probability PNP to the proper
// phosphorylation probability PPP. A usable response must stay inside [0,1]
// and dominate the identity: phosphorylation in response to a real signal is
// never less likely than spurious phosphorylation.
type ResponseFunc func(pnp float64) float64

// Amplified is the default response, f(x) = 1 - (1-x)/(1+x) = 2x/(1+x).
// It amplifies weak signals the most: f(0)=0, f(1)=1, f'(0)=2.
func Amplified(x float64) float64 {
	return 2 * x / (1 + x)
}

// Identity is the no-amplification response f(x) = x. A classifier built on
// it performs exactly at chance level, which makes it the reference case for
// AUC regression checks.
func Identity(x float64) float64 {
	return x
}

// LinearGain returns a response that closes a fraction g of the gap between
// the noise probability and certainty: f(x) = x + g*(1-x), g in [0,1].
func LinearGain(g float64) ResponseFunc {
	return func(x float64) float64 {
		return x + g*(1-x)
	}
}

// responseRegistry maps configuration names to response constructors.
var responseRegistry = map[string]ResponseFunc{
	"amplified": Amplified,
	"identity":  Identity,
}

// ResponseByName resolves a configured response function name.
func ResponseByName(name string) (ResponseFunc, error) {
	f, ok := responseRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown response function %q (known: %v)",
			ErrInvalidConfiguration, name, ResponseNames())
	}
	return f, nil
}

// ResponseNames lists the registered response function names, sorted.
func ResponseNames() []string {
	names := make([]string, 0, len(responseRegistry))
	for name := range responseRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reliabilityProbes is the sampling resolution used to vet a response
// function against the f(x) >= x constraint.
const reliabilityProbes = 101

// checkReliability samples f over [0,1] and rejects functions that escape the
// unit interval or fall below the identity anywhere on the grid.
func checkReliability(f ResponseFunc) error {
	for i := 0; i < reliabilityProbes; i++ {
		x := float64(i) / float64(reliabilityProbes-1)
		y := f(x)
		if y < 0 || y > 1 {
			return fmt.Errorf("%w: response function leaves [0,1] at f(%g)=%g",
				ErrInvalidConfiguration, x, y)
		}
		if y < x {
			return fmt.Errorf("%w: response function violates reliability f(x)>=x at f(%g)=%g",
				ErrInvalidConfiguration, x, y)
		}
	}
	return nil
}
