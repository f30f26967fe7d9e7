// Package progress implements the progressor supervisor from spec.md §4.H: a
// two-barrier bridge that fans one generator-side barrier out to N progressor
// tasks on a second barrier, and the Progressor interface those tasks
// implement.
package progress

import (
	"github.com/Fepozopo/imagegen/internal/state"
)

// Snapshot is the read-only view of generator state handed to a progressor
// during phase A: a copy of the pixel buffer and mask, plus the counters a
// progressor typically wants for status output. Copying (rather than handing
// out a pointer into Shared.Locked) means a progressor cannot violate the
// read-only discipline of spec.md §5 even by accident.
type Snapshot struct {
	Width, Height   int
	Image           []state.Color
	Mask            *state.Mask
	PixelsPlaced    uint64
	PixelsGenerated uint64
	Step            uint64
	Finished        bool
}

// Progressor is a passive observer: it reads a Snapshot and may render it, but
// must never mutate the shared image/mask/frontier (enforced here structurally
// — Observe only ever receives a Snapshot, never the live Shared). A
// progressor may request early termination by returning keepGoing=false; the
// supervisor then sets Shared.Finished so the generator notices on the next
// A-phase (spec.md §4.H "Progressors... may signal exit by writing
// finished=true while still between barriers").
type Progressor interface {
	// Observe is called once per step (subject to the progressor's own
	// interval gating) with a consistent snapshot. Returning keepGoing=false
	// requests that generation stop.
	Observe(snap Snapshot) (keepGoing bool)
	// Close releases any resources (open files, terminal handles). Called once
	// after the generator has finished and the last snapshot was observed.
	Close() error
}
