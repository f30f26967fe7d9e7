// Command imagegen grows a 2-D image pixel-by-pixel by iteratively placing
// the best-matching candidate color next to an existing frontier of placed
// pixels, producing organic color-flow images (see SPEC_FULL.md §1-§2).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/imagegen/internal/apperr"
	"github.com/Fepozopo/imagegen/internal/applog"
	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/cliconfig"
	"github.com/Fepozopo/imagegen/internal/generator"
	"github.com/Fepozopo/imagegen/internal/pnm"
	"github.com/Fepozopo/imagegen/internal/progress"
	"github.com/Fepozopo/imagegen/internal/progressor"
	"github.com/Fepozopo/imagegen/internal/state"
	"github.com/Fepozopo/imagegen/internal/update"
)

// Version is stamped at build time via -ldflags "-X main.Version=...";
// "dev" is used for local, unreleased builds, the same fallback the teacher's
// update checker implicitly needed but never defined.
var Version = "dev"

func main() {
	logger := applog.Default

	// Optional .env file loaded into the process environment, exactly as the
	// teacher's pkg/cli/terminal_preview.go init() loads one; an absent file is
	// not an error, mirroring godotenv.Load()'s own contract. No setting below
	// is read from the environment: flags alone configure the run.
	_ = godotenv.Load()

	opt, err := cliconfig.Parse(os.Args[1:])
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(configExitCode(err))
	}

	if opt.CheckUpdate {
		if uerr := update.Check(Version, false, logger); uerr != nil {
			logger.Errorf("update check: %v", uerr)
		}
	}

	cfg, err := opt.BuildGeneratorConfig(time.Now().UnixNano())
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(configExitCode(err))
	}

	progressors, err := buildProgressors(opt, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(configExitCode(err))
	}

	shared := state.NewShared(cfg.Width, cfg.Height, cfg.Seed)

	outerA := barrier.New(2)
	outerB := barrier.New(2)

	gen, err := generator.New(cfg, shared, outerA, outerB, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(configExitCode(err))
	}

	supervisor := progress.New(shared, outerA, outerB, progressors)

	done := make(chan struct{})
	go func() {
		gen.Run()
		close(done)
	}()
	supervisor.Run()
	<-done

	logger.Infof("generation finished: %d/%d pixels placed", shared.PixelsPlaced.Load(), shared.Size)

	// The original's main.rs writes the completed image to stdout after the
	// generator and progressor threads join; do the same here regardless of
	// whether any -P/-T back-end was also configured.
	shared.RLock()
	locked := shared.LockedState()
	werr := pnm.EncodeP6(os.Stdout, locked.Image, cfg.Width, cfg.Height, opt.Maxval)
	shared.RUnlock()
	if werr != nil {
		logger.Errorf("failed to write final image: %v", werr)
		os.Exit(1)
	}
}

// buildProgressors turns every -P/-T/-I/-M/--framebuffer/--SDL selection into
// a concrete progress.Progressor. A backend that cannot initialize
// (apperr.BackendUnavailable) is logged and replaced with progressor.NoOp,
// per spec.md §7's "log error, substitute a no-op progressor, continue".
func buildProgressors(opt *cliconfig.Options, logger *applog.Logger) ([]progress.Progressor, error) {
	if len(opt.Progressors) == 0 {
		// -M N with no explicit back-end still exercises the supervisor's
		// multi-progressor inner barrier (spec.md §4.H) with N inert observers.
		count := opt.ProgressorCount
		if count < 1 {
			count = 1
		}
		out := make([]progress.Progressor, count)
		for i := range out {
			out[i] = progressor.NoOp{}
		}
		return out, nil
	}

	interval := opt.ProgressInterval
	out := make([]progress.Progressor, 0, len(opt.Progressors))
	for _, sel := range opt.Progressors {
		switch sel.Kind {
		case cliconfig.ProgressorFile:
			format := progressor.FormatPNM
			if ext := strings.ToLower(filepath.Ext(sel.Path)); ext == ".webp" {
				format = progressor.FormatWebP
			}
			out = append(out, progressor.NewFile(sel.Path, interval, format, opt.Maxval, logger))

		case cliconfig.ProgressorText:
			cols, rows := 80, 40
			out = append(out, progressor.NewText(os.Stdout, cols, rows, interval))

		case cliconfig.ProgressorFramebuffer:
			fb, ferr := progressor.NewFramebuffer(logger)
			if ferr != nil {
				logger.Errorf("framebuffer progressor unavailable: %v", ferr)
				out = append(out, progressor.NoOp{})
				continue
			}
			out = append(out, fb)

		case cliconfig.ProgressorSDL:
			sdl, serr := progressor.NewSDL()
			if serr != nil {
				logger.Errorf("SDL progressor unavailable: %v", serr)
				out = append(out, progressor.NoOp{})
				continue
			}
			out = append(out, sdl)

		default:
			return nil, apperr.NewConfiguration("progressor", fmt.Errorf("unrecognized progressor kind %d", sel.Kind))
		}
	}
	return out, nil
}

// configExitCode maps an error to the process exit code spec.md §6 requires:
// 0 only on successful completion, non-zero on configuration error.
func configExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
