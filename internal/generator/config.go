// Package generator implements the generation core from spec.md §4.E/§4.F: the
// seed phase, the main best-fit placement loop, and the optional worker pool
// that partitions the frontier for concurrent best-fit scans.
package generator

import (
	"fmt"

	"github.com/Fepozopo/imagegen/internal/apperr"
	"github.com/Fepozopo/imagegen/internal/colorgen"
	"github.com/Fepozopo/imagegen/internal/fitness"
	"github.com/Fepozopo/imagegen/internal/geometry"
)

// Offset is a single (dx, dy) frontier-growth direction.
type Offset struct {
	DX, DY int
}

// Preset offset sets, named after the CLI tokens in spec.md §6 (n|o|d|k).
var (
	OffsetsNormal = []Offset{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	OffsetsOrthogonalFour = []Offset{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	OffsetsDiagonalFour   = []Offset{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	OffsetsKnightEight    = []Offset{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

// Config is the construction-time configuration for a Generator, validated
// once (per the teacher's Config.Validate convention) before any goroutine
// starts.
type Config struct {
	Width, Height int
	Seeds         int
	Offsets       []Offset
	Workers       int
	ColorCount    int
	MaxFitness    *float64
	Seed          int64

	Sampler colorgen.Sampler
	Fitness fitness.Func
	Geo     geometry.Geometry
}

// Validate checks every field invariant from spec.md §4.E and returns a
// apperr.Configuration error describing the first violation found.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return apperr.NewConfiguration("dimensions", fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Seeds < 1 {
		return apperr.NewConfiguration("seeds", fmt.Errorf("seeds must be >= 1, got %d", c.Seeds))
	}
	if len(c.Offsets) == 0 {
		return apperr.NewConfiguration("offsets", fmt.Errorf("offsets must be non-empty"))
	}
	if c.Workers < 1 {
		return apperr.NewConfiguration("workers", fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.ColorCount < 1 {
		return apperr.NewConfiguration("color_count", fmt.Errorf("color_count must be >= 1, got %d", c.ColorCount))
	}
	if c.MaxFitness != nil && *c.MaxFitness < 0 {
		return apperr.NewConfiguration("max_fitness", fmt.Errorf("max_fitness must be non-negative, got %v", *c.MaxFitness))
	}
	if c.Sampler == nil {
		return apperr.NewConfiguration("sampler", fmt.Errorf("sampler must be set"))
	}
	if c.Fitness == nil {
		return apperr.NewConfiguration("fitness", fmt.Errorf("fitness function must be set"))
	}
	if c.Geo == nil {
		return apperr.NewConfiguration("geometry", fmt.Errorf("geometry must be set"))
	}
	return nil
}

// Size returns width*height, the total pixel count used by the "finished"
// termination check (pixels_placed == size).
func (c *Config) Size() int {
	return c.Width * c.Height
}
