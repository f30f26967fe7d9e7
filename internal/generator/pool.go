package generator

import (
	"sync"

	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/fitness"
	"github.com/Fepozopo/imagegen/internal/state"
)

// pool is the worker pool from spec.md §4.F, active only when cfg.Workers > 1.
//
// spec.md names three channels: colors_tx (broadcast, capacity 1), a per-worker
// edges_tx, and a best_tx mpsc reduction channel. A plain Go channel can only
// broadcast a value to multiple receivers by being closed, and closing is a
// one-shot operation — exactly the "can't re-arm for a second round" problem
// internal/barrier was already built to solve (see its doc comment). So
// colors_tx+edges_tx here are collapsed into one reusable rendezvous: the
// supervisor publishes the candidate list and per-worker index ranges to
// p.job, then calls start_.Wait(); every worker reads p.job only after its own
// start_.Wait() returns, which establishes the needed happens-before edge via
// the barrier's internal mutex. best_tx stays a literal channel, since it
// genuinely carries a distinct payload per worker per round.
type pool struct {
	workers int

	start_ *barrier.Barrier // supervisor + workers: publish job, then proceed
	done  *barrier.Barrier // supervisor + workers: every worker has sent to bestTx

	bestTx chan []fitness.Best

	job struct {
		candidates []state.Color
		ranges     [][2]int
	}
	stopping bool

	wg sync.WaitGroup
}

func newPool(workers int) *pool {
	return &pool{
		workers: workers,
		start_:  barrier.New(workers + 1),
		done:    barrier.New(workers + 1),
		bestTx:  make(chan []fitness.Best, workers),
	}
}

// start launches the worker goroutines. Must be called once before the first
// bestFit call.
func (p *pool) start(g *Generator) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.workerLoop(g, i)
	}
}

// stop signals every worker to exit (standing in for "drops colors_tx") and
// joins them, per spec.md §5's "generator joins all workers before returning".
func (p *pool) stop() {
	p.stopping = true
	p.start_.Wait()
	p.wg.Wait()
}

func (p *pool) workerLoop(g *Generator, id int) {
	defer p.wg.Done()
	for {
		p.start_.Wait()
		if p.stopping {
			return
		}

		lo, hi := p.job.ranges[id][0], p.job.ranges[id][1]
		g.shared.RLock()
		locked := g.shared.LockedState()
		local := scanRange(g.cfg.Fitness, g.cfg.MaxFitness, p.job.candidates, locked.Frontier, locked.Image, g.shared.Width, lo, hi)
		g.shared.RUnlock()

		p.bestTx <- local
		p.done.Wait()
	}
}

// bestFit partitions [0, frontier length) into p.workers near-equal chunks
// (the last chunk absorbs the remainder), publishes candidates and ranges,
// gathers every worker's local reduction over bestTx, and elementwise-merges
// by fitness (spec.md §4.F).
func (p *pool) bestFit(g *Generator, candidates []state.Color) []fitness.Best {
	ranges := partitionRange(g.frontierLen(), p.workers)

	p.job.candidates = candidates
	p.job.ranges = ranges
	p.start_.Wait()

	merged := make([]fitness.Best, len(candidates))
	for j := range merged {
		merged[j] = fitness.NewBest(g.cfg.MaxFitness)
	}
	for i := 0; i < p.workers; i++ {
		local := <-p.bestTx
		for j := range merged {
			merged[j].Merge(local[j])
		}
	}

	p.done.Wait()
	return merged
}

// partitionRange splits [0, n) into `workers` half-open chunks of near-equal
// size; the final chunk absorbs whatever remainder doesn't divide evenly.
func partitionRange(n, workers int) [][2]int {
	ranges := make([][2]int, workers)
	base := n / workers
	lo := 0
	for i := 0; i < workers; i++ {
		size := base
		if i == workers-1 {
			size = n - lo
		}
		ranges[i] = [2]int{lo, lo + size}
		lo += size
	}
	return ranges
}
