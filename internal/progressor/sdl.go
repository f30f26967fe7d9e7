package progressor

import (
	"fmt"

	"github.com/Fepozopo/imagegen/internal/apperr"
	"github.com/Fepozopo/imagegen/internal/progress"
)

// SDL is a documented stub for the `--SDL` back-end named in spec.md §6's CLI
// table. No SDL binding (cgo or otherwise) appears anywhere in the retrieved
// example pack, so this back-end always reports apperr.BackendUnavailable;
// callers substitute NoOp, exactly as they do for a framebuffer detection
// failure (see DESIGN.md).
type SDL struct{}

// NewSDL always fails with apperr.BackendUnavailable.
func NewSDL() (*SDL, error) {
	return nil, apperr.NewBackendUnavailable("sdl", fmt.Errorf("no SDL binding available in this build"))
}

// Observe is never called: NewSDL always errors before a caller can hold an
// *SDL value. Implemented only to satisfy progress.Progressor.
func (*SDL) Observe(progress.Snapshot) bool { return false }

// Close is never called for the same reason as Observe.
func (*SDL) Close() error { return nil }
