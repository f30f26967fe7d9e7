package state

// Pixel is a canonical pixel: unsigned row/col coordinates within an image's
// width/height bounds, per spec.md's data model. Canonicalization (turning a
// signed, possibly out-of-bounds logical coordinate into one of these) is the
// geometry package's job, not this one's.
type Pixel struct {
	X, Y int
}

// Frontier is the FIFO-ordered sequence of already-placed pixels that still have
// at least one unplaced neighbor under the configured offsets. Spec.md §3
// invariants: every entry is marked placed in the mask; every entry has >= 1
// unplaced neighbor (revalidated after each batch); a pixel appears at most
// once. Implemented as a plain slice plus an index map rather than
// container/list, in keeping with the teacher's preference for small concrete
// slice-backed types over generic containers (e.g. pkg/stdimg/floodfill.go's
// stackSeeds slice). Entries are only ever appended (Push) or bulk-filtered
// (Retain); nothing pops from the front, so there is no head/tail bookkeeping.
type Frontier struct {
	entries []Pixel
	index   map[Pixel]int // pixel -> position in entries, for O(1) membership
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{index: make(map[Pixel]int)}
}

// Len returns the number of live entries.
func (f *Frontier) Len() int { return len(f.entries) }

// Contains reports whether p is currently a frontier entry.
func (f *Frontier) Contains(p Pixel) bool {
	_, ok := f.index[p]
	return ok
}

// Push appends p to the back of the frontier. The caller must ensure p is not
// already present (spec.md: "a pixel may appear at most once").
func (f *Frontier) Push(p Pixel) {
	f.entries = append(f.entries, p)
	f.index[p] = len(f.entries) - 1
}

// At returns the entry at index i, for use by the worker pool when
// partitioning [0, Len()) into per-worker ranges.
func (f *Frontier) At(i int) Pixel {
	return f.entries[i]
}

// Snapshot returns a copy of the live entries, oldest first.
func (f *Frontier) Snapshot() []Pixel {
	out := make([]Pixel, len(f.entries))
	copy(out, f.entries)
	return out
}

// Retain keeps only entries for which keep returns true, preserving order. Used
// during revalidation (spec.md §4.E step g) to drop entries that no longer have
// an unplaced neighbor.
func (f *Frontier) Retain(keep func(Pixel) bool) {
	kept := f.entries[:0]
	for _, p := range f.entries {
		if keep(p) {
			kept = append(kept, p)
		} else {
			delete(f.index, p)
		}
	}
	f.entries = kept
	for i, p := range f.entries {
		f.index[p] = i
	}
}
