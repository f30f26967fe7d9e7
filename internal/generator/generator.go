package generator

import (
	"math/rand"

	"github.com/Fepozopo/imagegen/internal/applog"
	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/fitness"
	"github.com/Fepozopo/imagegen/internal/state"
)

// Generator drives the seed phase and main placement loop of spec.md §4.E on
// its own goroutine (the "generator thread" of spec.md §5).
type Generator struct {
	cfg    Config
	shared *state.Shared
	rng    *rand.Rand
	logger *applog.Logger

	outerA *barrier.Barrier
	outerB *barrier.Barrier

	pool *pool // nil when cfg.Workers == 1
}

// New validates cfg and builds a Generator over shared, rendezvousing with
// the progressor supervisor on outerA/outerB.
func New(cfg Config, shared *state.Shared, outerA, outerB *barrier.Barrier, logger *applog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		cfg:    cfg,
		shared: shared,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
		outerA: outerA,
		outerB: outerB,
	}
	if cfg.Workers > 1 {
		g.pool = newPool(cfg.Workers)
	}
	return g, nil
}

// Run executes the seed phase followed by the main loop until Shared.Finished
// is set, either by pixels_placed reaching size or by a progressor requesting
// early termination. It is meant to be called on its own goroutine; if a
// worker pool is active Run starts and joins its workers before returning.
func (g *Generator) Run() {
	if g.pool != nil {
		g.pool.start(g)
		defer g.pool.stop()
	}

	g.seedPhase(g.cfg.Seeds)

	// maxSteps bounds worst-case placement attempts at 10*size (spec.md §8
	// scenario 5): a --maxfitness cap so strict no candidate ever qualifies
	// would otherwise spin the frontier forever without placing or shrinking
	// it. Hitting the cap is a forced, logged termination, not a success.
	maxSteps := uint64(10 * g.cfg.Size())
	var step uint64

	for {
		if g.frontierEmpty() {
			g.seedPhase(1)
		}

		g.outerA.Wait()
		if g.shared.Finished.Load() {
			g.outerB.Wait()
			return
		}

		candidates := g.sampleCandidates()
		best := g.bestFit(candidates)

		g.outerB.Wait()

		g.place(candidates, best)
		step++

		if g.shared.PixelsPlaced.Load() == uint64(g.cfg.Size()) {
			g.shared.Finished.Store(true)
		} else if maxSteps > 0 && step >= maxSteps {
			g.logger.Warnf("generator stalled after %d steps with %d/%d pixels placed, stopping", step, g.shared.PixelsPlaced.Load(), g.cfg.Size())
			g.shared.Finished.Store(true)
		} else {
			g.revalidateFrontier()
		}
	}
}

// sampleCandidates draws cfg.ColorCount new candidate colors and increments
// pixels_generated accordingly (spec.md §4.E step c).
func (g *Generator) sampleCandidates() []state.Color {
	candidates := make([]state.Color, 0, g.cfg.ColorCount)
	for i := 0; i < g.cfg.ColorCount; i++ {
		c, err := g.cfg.Sampler.Sample(g.rng)
		if err != nil {
			g.logger.Errorf("color sample failed, reusing zero color: %v", err)
			c = state.Color{}
		}
		candidates = append(candidates, c)
	}
	g.shared.PixelsGenerated.Add(uint64(len(candidates)))
	return candidates
}

// bestFit runs the best-fit scan (spec.md §4.E step d), either directly or by
// delegating to the worker pool when one is active.
func (g *Generator) bestFit(candidates []state.Color) []fitness.Best {
	if g.pool != nil {
		return g.pool.bestFit(g, candidates)
	}
	g.shared.RLock()
	defer g.shared.RUnlock()
	locked := g.shared.LockedState()
	return scanRange(g.cfg.Fitness, g.cfg.MaxFitness, candidates, locked.Frontier, locked.Image, g.shared.Width, 0, locked.Frontier.Len())
}

// scanRange computes, for each candidate color, the best-fit frontier pixel
// within frontier indices [lo, hi). Shared by the single-threaded path and
// every worker in the pool.
func scanRange(fn fitness.Func, maxFitness *float64, candidates []state.Color, frontier *state.Frontier, image []state.Color, width, lo, hi int) []fitness.Best {
	bests := make([]fitness.Best, len(candidates))
	for j := range candidates {
		bests[j] = fitness.NewBest(maxFitness)
	}
	for i := lo; i < hi; i++ {
		pixel := frontier.At(i)
		existing := image[pixel.Y*width+pixel.X]
		for j, cand := range candidates {
			score := fn.Score(existing, cand)
			bests[j].Consider(pixel, score)
		}
	}
	return bests
}

// place attempts to place each candidate that found a frontier pixel, at the
// first unplaced neighbor in a freshly shuffled offset order (spec.md §4.E
// step f). Misses are tolerated per the failure semantics in §4.E.
func (g *Generator) place(candidates []state.Color, best []fitness.Best) {
	g.shared.Lock()
	defer g.shared.Unlock()
	locked := g.shared.LockedState()

	offsets := make([]Offset, len(g.cfg.Offsets))
	copy(offsets, g.cfg.Offsets)
	g.rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })

	placedThisStep := 0
	for j, b := range best {
		if !b.Found {
			continue
		}
		target, ok := g.firstUnplacedNeighbor(locked, b.Pixel, offsets)
		if !ok {
			g.logger.Warnf("no unplaced neighbor available for frontier pixel %v, skipping candidate %d", b.Pixel, j)
			continue
		}
		idx := g.shared.Index(target.Y, target.X)
		locked.Image[idx] = candidates[j]
		locked.Mask.Set(target.Y, target.X, true)
		locked.Frontier.Push(target)
		placedThisStep++
	}
	g.shared.PixelsPlaced.Add(uint64(placedThisStep))
}

// firstUnplacedNeighbor returns the first neighbor of pixel (in offset order)
// that canonicalizes in-bounds and is not yet placed.
func (g *Generator) firstUnplacedNeighbor(locked *state.Locked, pixel state.Pixel, offsets []Offset) (state.Pixel, bool) {
	for _, o := range offsets {
		canon, ok := g.cfg.Geo.Canonicalize(pixel.X+o.DX, pixel.Y+o.DY)
		if !ok {
			continue
		}
		if !locked.Mask.Get(canon.Y, canon.X) {
			return canon, true
		}
	}
	return state.Pixel{}, false
}

// revalidateFrontier drops entries that are no longer marked placed (should
// never happen by construction) or that have no unplaced in-bounds neighbor
// left under the configured offsets (spec.md §4.E step g).
func (g *Generator) revalidateFrontier() {
	g.shared.Lock()
	defer g.shared.Unlock()
	locked := g.shared.LockedState()

	locked.Frontier.Retain(func(p state.Pixel) bool {
		if !locked.Mask.Get(p.Y, p.X) {
			return false
		}
		_, ok := g.firstUnplacedNeighbor(locked, p, g.cfg.Offsets)
		return ok
	})
}

// frontierEmpty reports whether the frontier currently has no entries, under
// a shared read lock (spec.md §4.E step a).
func (g *Generator) frontierEmpty() bool {
	g.shared.RLock()
	defer g.shared.RUnlock()
	return g.shared.LockedState().Frontier.Len() == 0
}

// frontierLen reports the current frontier length under a shared read lock,
// used by the worker pool to partition index ranges before a best-fit scan.
func (g *Generator) frontierLen() int {
	g.shared.RLock()
	defer g.shared.RUnlock()
	return g.shared.LockedState().Frontier.Len()
}

// seedPhase places up to count random unplaced pixels with freshly sampled
// colors under an exclusive lock (spec.md §4.E step 1). Each seed tries up to
// 4 random (x, y) draws; four consecutive misses for any single seed abandon
// the random strategy in favor of uniform sampling over the enumerated
// unplaced set for every remaining seed in this call. Every seed placed
// becomes a frontier entry.
func (g *Generator) seedPhase(count int) {
	g.shared.Lock()
	defer g.shared.Unlock()
	locked := g.shared.LockedState()

	const randomTriesPerSeed = 4
	useRandom := true
	var enumerated []state.Pixel

	placed, generated := 0, 0
	for s := 0; s < count; s++ {
		target, ok := state.Pixel{}, false

		if useRandom {
			for try := 0; try < randomTriesPerSeed; try++ {
				x := g.rng.Intn(g.cfg.Width)
				y := g.rng.Intn(g.cfg.Height)
				if !locked.Mask.Get(y, x) {
					target, ok = state.Pixel{X: x, Y: y}, true
					break
				}
			}
			if !ok {
				useRandom = false
			}
		}

		if !ok && !useRandom {
			if enumerated == nil {
				enumerated = enumerateUnplaced(locked)
			}
			if len(enumerated) == 0 {
				break
			}
			i := g.rng.Intn(len(enumerated))
			target, ok = enumerated[i], true
			enumerated[i] = enumerated[len(enumerated)-1]
			enumerated = enumerated[:len(enumerated)-1]
		}

		if !ok {
			continue
		}

		color, err := g.cfg.Sampler.Sample(g.rng)
		if err != nil {
			g.logger.Errorf("seed color sample failed, using zero color: %v", err)
			color = state.Color{}
		}
		generated++

		idx := g.shared.Index(target.Y, target.X)
		locked.Image[idx] = color
		locked.Mask.Set(target.Y, target.X, true)
		locked.Frontier.Push(target)
		placed++
	}

	g.shared.PixelsGenerated.Add(uint64(generated))
	g.shared.PixelsPlaced.Add(uint64(placed))
}

// enumerateUnplaced collects every currently-unplaced pixel, used by the
// seed-phase fallback strategy once random sampling stops finding misses
// quickly (spec.md §4.E step 1).
func enumerateUnplaced(locked *state.Locked) []state.Pixel {
	var result []state.Pixel
	locked.Mask.ForEachFalse(func(row, col int) {
		result = append(result, state.Pixel{X: col, Y: row})
	})
	return result
}

