package state

import (
	"sync"
	"sync/atomic"
)

// Locked is the single region guarded by one reader-writer lock: the image
// buffer, the placed-pixel mask, and the frontier. Spec.md §9 is explicit that
// correctness relies on this being one atomic-snapshot region, not sharded
// finer — so Locked is a plain struct, not three independently-locked fields.
type Locked struct {
	Image    []Color // row-major, stride == Width
	Mask     *Mask
	Frontier *Frontier
}

// Shared is CommonData from spec.md §3: the single process-global instance
// constructed once at setup, whose Locked interior mutates under the two-phase
// barrier protocol (see internal/barrier) until PixelsPlaced == Size.
type Shared struct {
	mu     sync.RWMutex
	locked Locked

	Width, Height, Size int
	Seed                int64

	Finished        atomic.Bool
	PixelsPlaced    atomic.Uint64
	PixelsGenerated atomic.Uint64
}

// NewShared constructs CommonData for a width x height image. Both dimensions
// must be > 0 (validated by the caller before construction, per spec.md §7).
func NewShared(width, height int, seed int64) *Shared {
	s := &Shared{
		Width:  width,
		Height: height,
		Size:   width * height,
		Seed:   seed,
	}
	s.locked = Locked{
		Image:    make([]Color, width*height),
		Mask:     NewMask(width, height),
		Frontier: NewFrontier(),
	}
	return s
}

// Lock acquires exclusive access to Locked for mutation (generator seeding and
// placement, spec.md §5 "Locking discipline").
func (s *Shared) Lock() { s.mu.Lock() }

// Unlock releases exclusive access acquired by Lock.
func (s *Shared) Unlock() { s.mu.Unlock() }

// RLock acquires shared access to Locked (observers, and the generator during a
// worker-pool best-fit scan).
func (s *Shared) RLock() { s.mu.RLock() }

// RUnlock releases shared access acquired by RLock.
func (s *Shared) RUnlock() { s.mu.RUnlock() }

// LockedState returns the guarded triple. Callers must hold Lock or RLock as
// appropriate before calling this and for the duration of any access to the
// returned value — no suspension point (barrier wait, channel op) may occur
// while holding the lock, per spec.md §5.
func (s *Shared) LockedState() *Locked { return &s.locked }

// Index returns the row-major offset of (row, col) into Locked.Image.
func (s *Shared) Index(row, col int) int { return row*s.Width + col }
