// Package geometry maps logical, possibly negative or out-of-bounds pixel
// coordinates to canonical in-bounds coordinates, per spec.md §4.B. Geometry is
// immutable after setup and is consulted on every neighbor visit by the
// generator core.
package geometry

import (
	"errors"

	"github.com/Fepozopo/imagegen/internal/state"
)

// ErrUnsupportedGeometry is returned by geometry variants the spec reserves but
// does not require for a first cut (diagonal NE/SW and NW/SE wrapping).
var ErrUnsupportedGeometry = errors.New("geometry: unsupported variant")

// Geometry canonicalizes a logical (possibly negative or out-of-bounds) pixel
// into a canonical, in-bounds pixel, or reports that no such pixel exists.
type Geometry interface {
	Canonicalize(x, y int) (p state.Pixel, ok bool)
}

// Point is a signed logical pixel coordinate, before canonicalization.
type Point struct {
	X, Y int
}

// Bounded is the default geometry: a logical pixel canonicalizes only if it
// already lies within [0, width) x [0, height).
type Bounded struct {
	Width, Height int
}

// NewBounded returns a Bounded geometry for the given dimensions.
func NewBounded(width, height int) *Bounded {
	return &Bounded{Width: width, Height: height}
}

func (b *Bounded) Canonicalize(x, y int) (state.Pixel, bool) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return state.Pixel{}, false
	}
	return state.Pixel{X: x, Y: y}, true
}

// Wrapping wraps y (north-south) and/or x (east-west) independently, modulo
// their extent, using floor-mod semantics (so a coordinate one step west of
// column 0 wraps to the last column, not to a negative index).
type Wrapping struct {
	Width, Height int
	WrapNS        bool // wrap y
	WrapEW        bool // wrap x
}

// NewWrapping returns a Wrapping geometry for the given dimensions and axes.
func NewWrapping(width, height int, wrapNS, wrapEW bool) *Wrapping {
	return &Wrapping{Width: width, Height: height, WrapNS: wrapNS, WrapEW: wrapEW}
}

func (w *Wrapping) Canonicalize(x, y int) (state.Pixel, bool) {
	if w.WrapEW {
		x = floorMod(x, w.Width)
	} else if x < 0 || x >= w.Width {
		return state.Pixel{}, false
	}
	if w.WrapNS {
		y = floorMod(y, w.Height)
	} else if y < 0 || y >= w.Height {
		return state.Pixel{}, false
	}
	return state.Pixel{X: x, Y: y}, true
}

// floorMod returns the non-negative remainder of a/b (b > 0), i.e. floor-mod,
// unlike Go's % which is truncated-division remainder and can be negative.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// DiagonalWrapping is the reserved NE/SW, NW/SE diagonal wrap hook from
// spec.md §4.B. It is not required for a first cut and is not implemented;
// constructing one always fails with ErrUnsupportedGeometry so a caller cannot
// silently get Bounded semantics instead.
type DiagonalWrapping struct{}

// NewDiagonalWrapping reports ErrUnsupportedGeometry: see spec.md §9 and
// DESIGN.md for why this hook is left unimplemented rather than guessed at.
func NewDiagonalWrapping() (*DiagonalWrapping, error) {
	return nil, ErrUnsupportedGeometry
}

func (*DiagonalWrapping) Canonicalize(x, y int) (state.Pixel, bool) {
	return state.Pixel{}, false
}
