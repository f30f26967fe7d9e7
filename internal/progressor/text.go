package progressor

import (
	"fmt"
	"image"
	"io"

	"github.com/wbrown/img2ansi"
	"golang.org/x/image/draw"

	"github.com/Fepozopo/imagegen/internal/progress"
)

// Text renders the live snapshot as ANSI block art directly to an io.Writer
// (typically os.Stdout), using github.com/wbrown/img2ansi's block-rune
// renderer. The source image is downsampled to terminal-cell resolution with
// golang.org/x/image/draw.ApproxBiLinear first, the same downsampling
// primitive the rest of the retrieved example pack reaches for when shrinking
// a full-resolution image to a small preview.
type Text struct {
	w          io.Writer
	cols, rows int
	interval   uint64

	step uint64
}

// NewText returns a Text progressor rendering into a cols x rows terminal
// cell grid, honoring progress_interval (spec.md §9 Open Question (ii)).
func NewText(w io.Writer, cols, rows int, interval uint64) *Text {
	return &Text{w: w, cols: cols, rows: rows, interval: interval}
}

// Observe downsamples the snapshot and writes one ANSI frame.
func (t *Text) Observe(snap progress.Snapshot) bool {
	t.step++
	if t.interval > 1 && t.step%t.interval != 0 {
		return true
	}

	src := snapshotToRGBA(snap)
	dst := image.NewRGBA(image.Rect(0, 0, t.cols, t.rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	blocks := make([][]img2ansi.BlockRune, t.rows)
	for y := 0; y < t.rows; y++ {
		blocks[y] = make([]img2ansi.BlockRune, t.cols)
		for x := 0; x < t.cols; x++ {
			r, g, b, _ := dst.At(x, y).RGBA()
			cell := img2ansi.RGB{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8)}
			blocks[y][x] = img2ansi.BlockRune{Rune: ' ', FG: cell, BG: cell}
		}
	}

	fmt.Fprint(t.w, "\x1b[H", img2ansi.RenderToAnsi(blocks))
	return true
}

// Close is a no-op; Text never opens a resource of its own.
func (t *Text) Close() error { return nil }
