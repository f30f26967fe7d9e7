// Package pnm serializes a generated image buffer to the PNM P6 format
// described in spec.md §6: an external serializer, not part of the generation
// core, but required for the CLI to produce any output at all.
package pnm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/Fepozopo/imagegen/internal/state"
)

// ErrUnsupportedPNMFormat is returned for depth != 3 or maxval > 255, both
// reserved by spec.md §6.
var ErrUnsupportedPNMFormat = errors.New("pnm: unsupported format (depth must be 3, maxval must be <= 255)")

// EncodeP6 writes image (row-major, stride == width) as a binary PNM (P6) to
// w: header "P6\n<width> <height>\n<maxval>\n" followed by width*height RGB
// triplets, each channel scaled by maxval, clamped to [0, maxval], and
// truncated to a byte.
func EncodeP6(w io.Writer, image []state.Color, width, height, maxval int) error {
	const depth = 3
	if depth != 3 || maxval > 255 {
		return ErrUnsupportedPNMFormat
	}
	if len(image) != width*height {
		return fmt.Errorf("pnm: image length %d does not match %d x %d", len(image), width, height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n%d\n", width, height, maxval); err != nil {
		return err
	}

	row := make([]byte, width*depth)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := image[y*width+x]
			for ch := 0; ch < depth; ch++ {
				row[x*depth+ch] = scaleClampTruncate(c[ch], maxval)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// scaleClampTruncate maps a [0,1]-ish channel value to a byte in [0, maxval],
// clamping out-of-range inputs rather than wrapping them.
func scaleClampTruncate(v float64, maxval int) byte {
	scaled := v * float64(maxval)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > float64(maxval) {
		scaled = float64(maxval)
	}
	return byte(scaled)
}
