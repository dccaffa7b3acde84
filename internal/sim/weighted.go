package sim

import "math"

// weightedChoice draws one item with probability proportional to its weight.
// Negative or non-finite weights count as zero; when nothing has weight the
// draw is uniform. ok is false only for an empty slice.
func weightedChoice[T any](rng RandomSource, items []T, weight func(T) float64) (choice T, ok bool) {
	if len(items) == 0 {
		return choice, false
	}
	ws := make([]float64, len(items))
	var total float64
	for i, it := range items {
		w := weight(it)
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		ws[i] = w
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) {
		return items[intn(rng, len(items))], true
	}

	r := rng.Float64() * total
	for i, w := range ws {
		if r < w {
			return items[i], true
		}
		r -= w
	}
	// rounding left r at the top edge; take the last weighted item
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i] > 0 {
			return items[i], true
		}
	}
	return items[len(items)-1], true
}
