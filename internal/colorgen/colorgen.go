// Package colorgen samples colors from configured vector-set distributions, per
// spec.md §4.C. A VectorSet samples a color by starting at a base color and
// adding each configured vector scaled by a per-vector multiplier drawn
// according to the set's Kind; a VectorSetGroup picks a set by a weighted draw
// and then samples from it.
//
// RNG is math/rand per thread, the same choice the teacher makes in
// pkg/stdimg/noise.go (rand.New(rand.NewSource(seed))) — no third-party PRNG
// appears anywhere in the retrieved example pack.
package colorgen

import (
	"errors"
	"math/rand"

	"github.com/Fepozopo/imagegen/internal/state"
)

// ErrUnimplementedKind is returned for VectorSet kinds the spec defines but the
// source leaves unimplemented (Triangular, SumOne), per spec.md §9 Open
// Question (i). It is also returned for any unrecognized Kind value.
var ErrUnimplementedKind = errors.New("colorgen: unimplemented vector-set kind")

// ErrEmptyGroup is returned when constructing a VectorSetGroup with no sets;
// spec.md requires this be prevented at construction, not discovered at sample
// time.
var ErrEmptyGroup = errors.New("colorgen: vector-set group must not be empty")

// Kind selects how a VectorSet draws its per-vector multipliers.
type Kind int

const (
	// Full draws each multiplier independently, Uniform[0,1].
	Full Kind = iota
	// Triangular draws multipliers with m_i >= 0, sum(m_i) <= 1 (uniform over
	// the simplex and its interior). Defined by spec.md but not implemented —
	// see ErrUnimplementedKind.
	Triangular
	// SumOne draws multipliers with m_i >= 0, sum(m_i) == 1 (uniform on the
	// simplex boundary). Defined by spec.md but not implemented — see
	// ErrUnimplementedKind.
	SumOne
)

// VectorSet samples a color as start + sum(vectors[i] * m_i), where m_i is
// drawn according to Kind.
type VectorSet struct {
	Start   state.Color
	Vectors []state.Color
	Chance  uint // relative weight within a VectorSetGroup; must be >= 1
	Kind    Kind
}

// Sample draws one color from the set using rng.
func (v VectorSet) Sample(rng *rand.Rand) (state.Color, error) {
	switch v.Kind {
	case Full:
		out := v.Start
		for _, vec := range v.Vectors {
			m := rng.Float64()
			for i := range out {
				out[i] += vec[i] * m
			}
		}
		return out, nil
	case Triangular, SumOne:
		return state.Color{}, ErrUnimplementedKind
	default:
		return state.Color{}, ErrUnimplementedKind
	}
}

// Group is a non-empty list of VectorSets with a precomputed total chance, per
// spec.md's VectorSetGroup.
type Group struct {
	sets        []VectorSet
	totalChance uint
}

// NewGroup validates sets (non-empty, each Chance >= 1) and precomputes the
// total chance, so an empty or malformed group is a construction-time
// apperr.Configuration error for the caller, never a sampling-time surprise.
func NewGroup(sets []VectorSet) (*Group, error) {
	if len(sets) == 0 {
		return nil, ErrEmptyGroup
	}
	var total uint
	for _, s := range sets {
		if s.Chance == 0 {
			return nil, errors.New("colorgen: vector-set chance must be >= 1")
		}
		total += s.Chance
	}
	return &Group{sets: append([]VectorSet(nil), sets...), totalChance: total}, nil
}

// Sample draws k uniformly in [0, totalChance), finds the first set whose
// cumulative chance exceeds k, and samples from it.
func (g *Group) Sample(rng *rand.Rand) (state.Color, error) {
	k := rng.Uint64() % uint64(g.totalChance)
	var cumulative uint64
	for _, s := range g.sets {
		cumulative += uint64(s.Chance)
		if k < cumulative {
			return s.Sample(rng)
		}
	}
	// Unreachable given totalChance is the exact sum, kept defensive rather
	// than panicking on a float/rounding edge case that can't occur here.
	return g.sets[len(g.sets)-1].Sample(rng)
}

// Sampler is the interface the generator core depends on: anything that can
// produce color_count fresh candidate colors per step. Both VectorSet and
// *Group satisfy it directly, so the core need not distinguish a lone
// set from a group (spec.md's Design Notes: "model as tagged variants or small
// interfaces with a fixed set of implementations").
type Sampler interface {
	Sample(rng *rand.Rand) (state.Color, error)
}
