package progressor

import "github.com/Fepozopo/imagegen/internal/progress"

// NoOp is the default progressor (spec.md §4.H): it still participates in the
// barrier protocol so `-M N` progressor-count semantics stay uniform whether
// or not anything is actually watching, but performs no I/O.
type NoOp struct{}

// Observe always requests that generation continue.
func (NoOp) Observe(progress.Snapshot) bool { return true }

// Close is a no-op.
func (NoOp) Close() error { return nil }
