package sim

import "math"

// minWeight is substituted for any weight at or below it so every
// candidate stays selectable.
const minWeight = 1e-3

// Pick returns the index into items of one element chosen with probability
// proportional to weight(item). It returns -1 only when items is empty.
func Pick[T any](src Source, items []T, weight func(T) float64) int {
	if len(items) == 0 {
		return -1
	}
	weights := make([]float64, len(items))
	total := 0.0
	for i, it := range items {
		w := weight(it)
		if math.IsNaN(w) || w < minWeight {
			w = minWeight
		}
		weights[i] = w
		total += w
	}
	r := src.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(items) - 1
}
