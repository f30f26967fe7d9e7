package cliconfig

import (
	"github.com/Fepozopo/imagegen/internal/colorgen"
	"github.com/Fepozopo/imagegen/internal/state"
)

// colorModelState accumulates the `-N`/`--hues`/`-n`/`-v`/`-b`/`-t` flags
// (spec.md §6) into a sequence of colorgen.VectorSet values. `-n` closes the
// set currently being built (if it has any content) and opens a new one;
// `-v`/`-b`/`-t` mutate whichever set is open. `-N`/`--hues` each replace the
// whole accumulated state with a single preset set, matching a user picking
// one canned model rather than composing flags.
type colorModelState struct {
	sets    []colorgen.VectorSet
	current colorgen.VectorSet
	dirty   bool // current has been touched by -v/-b/-t since the last newSet/flush
}

func (c *colorModelState) newSet() {
	c.flush()
	c.current = colorgen.VectorSet{Chance: 1, Kind: colorgen.Full}
	c.dirty = false
}

func (c *colorModelState) flush() {
	if c.dirty {
		if c.current.Chance == 0 {
			c.current.Chance = 1
		}
		c.sets = append(c.sets, c.current)
	}
	c.current = colorgen.VectorSet{}
	c.dirty = false
}

func (c *colorModelState) setBase(rgb [3]float64) {
	c.current.Start = state.Color{rgb[0], rgb[1], rgb[2], 0}
	c.dirty = true
}

func (c *colorModelState) addVector(rgb [3]float64) {
	c.current.Vectors = append(c.current.Vectors, state.Color{rgb[0], rgb[1], rgb[2], 0})
	c.dirty = true
}

func (c *colorModelState) setKind(kind colorgen.Kind) {
	c.current.Kind = kind
	c.dirty = true
}

// applyNormal replaces the whole accumulated model with the canonical RGB
// identity-vector set: black plus the three axis vectors, so color_count
// candidates are drawn uniformly from the full RGB cube.
func (c *colorModelState) applyNormal() {
	c.sets = []colorgen.VectorSet{{
		Start: state.Color{0, 0, 0, 0},
		Vectors: []state.Color{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
		},
		Chance: 1,
		Kind:   colorgen.Full,
	}}
	c.current = colorgen.VectorSet{}
	c.dirty = false
}

// applyHues replaces the whole accumulated model with a mid-gray base and
// three opponent-channel axes (red-cyan, green-magenta, blue-yellow), giving
// a hue-biased rather than cube-uniform spread.
func (c *colorModelState) applyHues() {
	c.sets = []colorgen.VectorSet{{
		Start: state.Color{0.5, 0.5, 0.5, 0},
		Vectors: []state.Color{
			{0.5, -0.25, -0.25, 0},
			{-0.25, 0.5, -0.25, 0},
			{-0.25, -0.25, 0.5, 0},
		},
		Chance: 1,
		Kind:   colorgen.Full,
	}}
	c.current = colorgen.VectorSet{}
	c.dirty = false
}

// Build finalizes the accumulated sets into a colorgen.Sampler. With nothing
// configured it falls back to applyNormal's preset, so color_count candidates
// are always drawable even if the caller passed no `-N`/`-n`/`-v`/... flags.
func (c *colorModelState) Build() (colorgen.Sampler, error) {
	c.flush()
	sets := c.sets
	if len(sets) == 0 {
		c.applyNormal()
		sets = c.sets
	}
	if len(sets) == 1 {
		return sets[0], nil
	}
	return colorgen.NewGroup(sets)
}
