package progressor

import (
	"os"

	nativewebp "github.com/HugoSmits86/nativewebp"

	"github.com/Fepozopo/imagegen/internal/applog"
	"github.com/Fepozopo/imagegen/internal/pnm"
	"github.com/Fepozopo/imagegen/internal/progress"
)

// Format selects the on-disk encoding the File progressor writes.
type Format int

const (
	// FormatPNM writes PNM P6, spec.md §6's own output format.
	FormatPNM Format = iota
	// FormatWebP writes lossless WebP via the pure-Go github.com/HugoSmits86/nativewebp
	// encoder (selected when the -P path ends in .webp), avoiding a cgo image codec that would
	// complicate the core's goroutine/channel concurrency model.
	FormatWebP
)

// File periodically snapshots the generated image to disk, honoring
// progress_interval per spec.md §9 Open Question (ii): this is one of the two
// back-ends required to respect the interval (the other is text/ANSI).
type File struct {
	path     string
	interval uint64
	format   Format
	maxval   int
	logger   *applog.Logger

	step uint64
}

// NewFile returns a File progressor writing to path every interval steps (an
// interval of 0 or 1 writes every step). maxval is the PNM max channel value
// from spec.md §6's `--maxval N` flag; it is ignored by FormatWebP.
func NewFile(path string, interval uint64, format Format, maxval int, logger *applog.Logger) *File {
	if logger == nil {
		logger = applog.Default
	}
	return &File{path: path, interval: interval, format: format, maxval: maxval, logger: logger}
}

// Observe writes a fresh snapshot to f.path once every f.interval steps.
func (f *File) Observe(snap progress.Snapshot) bool {
	f.step++
	if f.interval > 1 && f.step%f.interval != 0 {
		return true
	}

	fh, err := os.Create(f.path)
	if err != nil {
		f.logger.Errorf("file progressor: could not create %s: %v", f.path, err)
		return true
	}
	defer fh.Close()

	switch f.format {
	case FormatWebP:
		if err := nativewebp.Encode(fh, snapshotToRGBA(snap), nil); err != nil {
			f.logger.Errorf("file progressor: webp encode failed: %v", err)
		}
	default:
		if err := pnm.EncodeP6(fh, snap.Image, snap.Width, snap.Height, f.maxval); err != nil {
			f.logger.Errorf("file progressor: pnm encode failed: %v", err)
		}
	}
	return true
}

// Close is a no-op; each Observe call opens and closes its own file handle.
func (f *File) Close() error { return nil }
