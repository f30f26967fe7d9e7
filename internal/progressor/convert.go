// Package progressor implements the concrete progress.Progressor back-ends
// named in spec.md §6's CLI table: file, text/ANSI, framebuffer, an SDL-like
// stub, and no-op. Each is a periodic observer wired into the progressor
// supervisor (internal/progress), never a mutator of the generator's state.
package progressor

import (
	"image"
	"image/color"

	"github.com/Fepozopo/imagegen/internal/progress"
)

// snapshotToRGBA converts a progress.Snapshot's row-major float color buffer
// into a standard library image.Image, the common input every back-end in
// this package encodes or renders from.
func snapshotToRGBA(snap progress.Snapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, snap.Width, snap.Height))
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			c := snap.Image[y*snap.Width+x].Clamp01()
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c[0] * 255),
				G: uint8(c[1] * 255),
				B: uint8(c[2] * 255),
				A: 255,
			})
		}
	}
	return img
}
