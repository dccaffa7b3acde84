package sim

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("invalid probability; must be 0..1")

// chance is the engine's trial. It always consumes one draw so that a game's
// sequence of draws does not depend on where probabilities land.
func chance(p float64, rng RandomSource) bool {
	return rng.Float64() < p
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}
