package progress

import (
	"sync"
	"sync/atomic"

	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/state"
)

// Supervisor runs the progressor side of the two-phase protocol described in
// spec.md §4.H and §5. With exactly one progressor it participates directly on
// the generator's outer barrier pair (no inner stage); with N>1 it bridges the
// outer pair to an inner barrier pair shared with N progressor goroutines.
type Supervisor struct {
	shared *state.Shared
	outerA *barrier.Barrier
	outerB *barrier.Barrier

	progressors     []Progressor
	innerA          *barrier.Barrier
	innerB          *barrier.Barrier
	currentSnapshot atomic.Value // holds Snapshot, published by the supervisor before innerA.Wait()
	stopRequested   atomic.Bool  // set when a progressor returns keepGoing=false; turned into Finished after outer-B
}

// New builds a Supervisor over shared, rendezvousing with the generator on
// outerA/outerB, and fanning out to the given progressors (order is stable,
// not semantically significant).
func New(shared *state.Shared, outerA, outerB *barrier.Barrier, progressors []Progressor) *Supervisor {
	s := &Supervisor{
		shared:      shared,
		outerA:      outerA,
		outerB:      outerB,
		progressors: progressors,
	}
	if len(progressors) > 1 {
		s.innerA = barrier.New(1 + len(progressors))
		s.innerB = barrier.New(1 + len(progressors))
	}
	return s
}

// Run drives the supervisor loop until Shared.Finished is observed, then
// closes every progressor. It is meant to be called on its own goroutine (the
// "progressor supervisor" thread of spec.md §5).
func (s *Supervisor) Run() {
	defer s.closeAll()

	if len(s.progressors) == 0 {
		s.runNoProgressors()
		return
	}
	if len(s.progressors) == 1 {
		s.runSingle(s.progressors[0])
		return
	}
	s.runMany()
}

// runNoProgressors still participates in the outer barrier pair (so the
// generator's rendezvous semantics stay uniform whether or not anything is
// watching) but performs no reads and no rendering.
func (s *Supervisor) runNoProgressors() {
	for {
		s.outerA.Wait()
		finished := s.shared.Finished.Load()
		s.outerB.Wait()
		if finished {
			return
		}
	}
}

// runSingle is the spec.md §4.H fast path: "a single progressor runs directly
// on the outer barrier with no inner stage."
func (s *Supervisor) runSingle(p Progressor) {
	var step uint64
	for {
		s.outerA.Wait()
		finished := s.shared.Finished.Load()
		// Always read and deliver a snapshot, even on the round where finished
		// is first observed, so the progressor sees the completed image
		// exactly once instead of never (spec.md §8 scenario 6).
		snap := s.readSnapshot(step)
		if !p.Observe(snap) {
			s.stopRequested.Store(true)
		}
		step++
		s.outerB.Wait()
		if finished {
			return
		}
		// A stop request becomes Finished only after outer-B, so the generator
		// and the supervisor both see it at the same next A-phase.
		if s.stopRequested.Load() {
			s.shared.Finished.Store(true)
		}
	}
}

// runMany implements the outer/inner bridge: "waits outer-A -> inner-A ->
// (checks finished) -> inner-B -> outer-B" (spec.md §4.H).
func (s *Supervisor) runMany() {
	var wg sync.WaitGroup
	wg.Add(len(s.progressors))
	for _, p := range s.progressors {
		go s.runProgressorWorker(p, &wg)
	}

	var step uint64
	for {
		s.outerA.Wait()
		finished := s.shared.Finished.Load()
		// As in runSingle, read a real snapshot on every round, including the
		// one where finished is first observed, so every progressor worker
		// gets the completed image exactly once (spec.md §8 scenario 6).
		snap := s.readSnapshot(step)
		step++
		s.currentSnapshot.Store(snap)
		s.innerA.Wait()
		s.innerB.Wait()
		s.outerB.Wait()
		if finished {
			wg.Wait()
			return
		}
		if s.stopRequested.Load() {
			s.shared.Finished.Store(true)
		}
	}
}

func (s *Supervisor) runProgressorWorker(p Progressor, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		s.innerA.Wait()
		snap := s.currentSnapshot.Load().(Snapshot)
		if !p.Observe(snap) {
			s.stopRequested.Store(true)
		}
		finished := snap.Finished
		s.innerB.Wait()
		if finished {
			return
		}
	}
}

func (s *Supervisor) closeAll() {
	for _, p := range s.progressors {
		_ = p.Close()
	}
}

// readSnapshot copies the shared state under a read lock into a Snapshot,
// per spec.md §5's rule that observers only ever read between A and B.
func (s *Supervisor) readSnapshot(step uint64) Snapshot {
	s.shared.RLock()
	defer s.shared.RUnlock()
	locked := s.shared.LockedState()
	imgCopy := make([]state.Color, len(locked.Image))
	copy(imgCopy, locked.Image)
	maskCopy := state.NewMask(s.shared.Width, s.shared.Height)
	for row := 0; row < s.shared.Height; row++ {
		for col := 0; col < s.shared.Width; col++ {
			if locked.Mask.Get(row, col) {
				maskCopy.Set(row, col, true)
			}
		}
	}
	return Snapshot{
		Width:           s.shared.Width,
		Height:          s.shared.Height,
		Image:           imgCopy,
		Mask:            maskCopy,
		PixelsPlaced:    s.shared.PixelsPlaced.Load(),
		PixelsGenerated: s.shared.PixelsGenerated.Load(),
		Step:            step,
		Finished:        s.shared.Finished.Load(),
	}
}
