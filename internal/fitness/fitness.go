// Package fitness computes the scalar distance between an existing pixel's
// color and a candidate color used to pick the best-fit frontier anchor,
// per spec.md §4.D.
package fitness

import "github.com/Fepozopo/imagegen/internal/state"

// Func scores how well candidate fits next to existing; lower is better. The
// generator core depends on this interface, not a bare function value, matching
// the teacher's preference for small named types over ad-hoc closures (e.g.
// stdimg.CommandSpec, cli.ValidationRule).
type Func interface {
	Score(existing, candidate state.Color) float64
}

// SquaredEuclidean is the default fitness: squared-Euclidean distance across
// the first three color lanes (lane 3 is padding and never scored).
type SquaredEuclidean struct{}

func (SquaredEuclidean) Score(existing, candidate state.Color) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := existing[i] - candidate[i]
		sum += d * d
	}
	return sum
}

// Best tracks the minimum-fitness candidate seen so far, honoring an optional
// cap: a candidate strictly above maxFitness never replaces a "no best yet"
// state (spec.md §4.D).
type Best struct {
	Pixel  state.Pixel
	Score  float64
	Found  bool
	hasCap bool
	maxFit float64
}

// NewBest returns an empty Best tracker. If maxFitness is non-nil, candidates
// with Score() > *maxFitness are rejected outright.
func NewBest(maxFitness *float64) Best {
	b := Best{}
	if maxFitness != nil {
		b.hasCap = true
		b.maxFit = *maxFitness
	}
	return b
}

// Consider updates b if candidate's score at pixel is strictly less than the
// current best (spec.md's tie-breaking rule: equal fitness does not replace).
func (b *Best) Consider(pixel state.Pixel, score float64) {
	if b.hasCap && score > b.maxFit {
		return
	}
	if !b.Found || score < b.Score {
		b.Pixel = pixel
		b.Score = score
		b.Found = true
	}
}

// Merge folds other into b as if every candidate other ever Considered had
// been Considered by b directly, preserving the "strictly less replaces" rule.
// Used by the worker-pool supervisor to reduce per-worker local bests into one
// global best per candidate color (spec.md §4.F).
func (b *Best) Merge(other Best) {
	if !other.Found {
		return
	}
	if !b.Found || other.Score < b.Score {
		*b = other
	}
}
