// Package cliconfig parses the command-line flag table from spec.md §6 using
// hand-rolled os.Args scanning, the same convention pkg/cli/cli.go and
// pkg/cli/meta.go use for their REPL commands — no third-party flags library
// appears in any of the five retrieved example repos' go.mod files, so manual
// parsing is the corpus's own idiom here, not a convenience fallback.
package cliconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/imagegen/internal/apperr"
	"github.com/Fepozopo/imagegen/internal/colorgen"
	"github.com/Fepozopo/imagegen/internal/fitness"
	"github.com/Fepozopo/imagegen/internal/generator"
	"github.com/Fepozopo/imagegen/internal/geometry"
)

// ProgressorKind selects which back-end(s) the supervisor wires up.
type ProgressorKind int

const (
	ProgressorNoOp ProgressorKind = iota
	ProgressorFile
	ProgressorText
	ProgressorFramebuffer
	ProgressorSDL
)

// ProgressorSelection is one `-P`/`-T`/`--framebuffer`/`--SDL` occurrence;
// spec.md §6 allows selecting more than one back-end, each becoming one of
// the supervisor's N progressor tasks (spec.md §4.H).
type ProgressorSelection struct {
	Kind ProgressorKind
	Path string // -P path; --framebuffer=path is accepted but currently unused by the framebuffer back-end
}

// Options holds every parsed flag, validated but not yet turned into the
// generator/colorgen/geometry values that depend on it (see BuildGeneratorConfig).
type Options struct {
	Width, Height int
	Maxval        int

	Seed    int64
	HasSeed bool

	Seeds      int
	Workers    int
	ColorCount int
	MaxFitness *float64

	OffsetTokens []string

	ColorModel colorModelState

	Progressors      []ProgressorSelection
	ProgressInterval uint64
	ProgressorCount  int
	CheckUpdate      bool
}

// defaults mirror spec.md §6's stated defaults (256x256, maxval 255, random
// seed); the remaining fields (seeds/workers/colorcount) have no default
// stated in spec.md's table, so cliconfig picks a single-threaded,
// single-seed run with 8 candidate colors per step.
func defaults() Options {
	return Options{
		Width:            256,
		Height:           256,
		Maxval:           255,
		Seeds:            1,
		Workers:          1,
		ColorCount:       8,
		ProgressInterval: 1,
		ProgressorCount:  1,
	}
}

// Parse scans args (typically os.Args[1:]) into Options. It returns an
// apperr.Configuration error on the first malformed or unrecognized flag,
// per spec.md §7's "surfaces at setup, before any thread starts" policy.
func Parse(args []string) (*Options, error) {
	opt := defaults()

	next := func(i int, flag string) (string, int, error) {
		if i+1 >= len(args) {
			return "", i, apperr.NewConfiguration("cli", fmt.Errorf("%s requires an argument", flag))
		}
		return args[i+1], i + 1, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-x":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("dimensions", fmt.Errorf("-x: %w", perr))
			}
			opt.Width, i = n, j

		case arg == "-y":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("dimensions", fmt.Errorf("-y: %w", perr))
			}
			opt.Height, i = n, j

		case arg == "-s":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			w, h, perr := parseWxH(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("dimensions", perr)
			}
			opt.Width, opt.Height, i = w, h, j

		case arg == "--maxval":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("maxval", fmt.Errorf("--maxval: %w", perr))
			}
			opt.Maxval, i = n, j

		case arg == "-S" || arg == "--seed":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.ParseUint(v, 10, 64)
			if perr != nil {
				return nil, apperr.NewConfiguration("seed", fmt.Errorf("%s: %w", arg, perr))
			}
			opt.Seed, opt.HasSeed, i = int64(n), true, j

		case arg == "-e" || arg == "--seeds":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("seeds", fmt.Errorf("%s: %w", arg, perr))
			}
			opt.Seeds, i = n, j

		case arg == "-O" || arg == "--offsets":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opt.OffsetTokens, i = append(opt.OffsetTokens, v), j

		case arg == "-w" || arg == "--workers":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("workers", fmt.Errorf("%s: %w", arg, perr))
			}
			opt.Workers, i = n, j

		case arg == "-C" || arg == "--colorcount":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("color_count", fmt.Errorf("%s: %w", arg, perr))
			}
			opt.ColorCount, i = n, j

		case arg == "--maxfitness":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				return nil, apperr.NewConfiguration("max_fitness", fmt.Errorf("--maxfitness: %w", perr))
			}
			opt.MaxFitness, i = &f, j

		case arg == "-N" || arg == "--normal":
			opt.ColorModel.applyNormal()

		case arg == "--hues":
			opt.ColorModel.applyHues()

		case arg == "-n":
			opt.ColorModel.newSet()

		case arg == "-v":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			c, perr := parseRGB(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("sampler", fmt.Errorf("-v: %w", perr))
			}
			opt.ColorModel.addVector(c)
			i = j

		case arg == "-b":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			c, perr := parseRGB(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("sampler", fmt.Errorf("-b: %w", perr))
			}
			opt.ColorModel.setBase(c)
			i = j

		case arg == "-t":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			kind, perr := parseKind(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("sampler", perr)
			}
			opt.ColorModel.setKind(kind)
			i = j

		case arg == "-P":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opt.Progressors = append(opt.Progressors, ProgressorSelection{Kind: ProgressorFile, Path: v})
			i = j

		case arg == "-T":
			opt.Progressors = append(opt.Progressors, ProgressorSelection{Kind: ProgressorText})

		case arg == "-I":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.ParseUint(v, 10, 64)
			if perr != nil {
				return nil, apperr.NewConfiguration("progress_interval", fmt.Errorf("-I: %w", perr))
			}
			opt.ProgressInterval, i = n, j

		case arg == "-M":
			v, j, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return nil, apperr.NewConfiguration("progressor_count", fmt.Errorf("-M: %w", perr))
			}
			opt.ProgressorCount, i = n, j

		case arg == "--framebuffer" || strings.HasPrefix(arg, "--framebuffer="):
			path := ""
			if idx := strings.IndexByte(arg, '='); idx >= 0 {
				path = arg[idx+1:]
			}
			opt.Progressors = append(opt.Progressors, ProgressorSelection{Kind: ProgressorFramebuffer, Path: path})

		case arg == "--SDL":
			opt.Progressors = append(opt.Progressors, ProgressorSelection{Kind: ProgressorSDL})

		case arg == "-u" || arg == "--check-update":
			opt.CheckUpdate = true

		default:
			return nil, apperr.NewConfiguration("cli", fmt.Errorf("unrecognized flag: %s", arg))
		}
	}

	return &opt, nil
}

func parseWxH(s string) (int, int, error) {
	sep := "x"
	if !strings.Contains(s, sep) {
		sep = ","
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("-s expects WxH or W,H, got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("-s width: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("-s height: %w", err)
	}
	return w, h, nil
}

func parseRGB(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("expected r,g,b, got %q", s)
	}
	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func parseKind(s string) (colorgen.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return colorgen.Full, nil
	case "sum_one":
		return colorgen.SumOne, nil
	case "triangular":
		return colorgen.Triangular, nil
	default:
		return 0, fmt.Errorf("unrecognized vector-set kind %q (want full, sum_one, or triangular)", s)
	}
}

// ResolveOffsets expands every -O/--offsets token into concrete offsets, per
// spec.md §6's `n|o|d|k|dx,dy` grammar. An empty OffsetTokens list falls back
// to OffsetsNormal, the 8-neighbor default.
func ResolveOffsets(tokens []string) ([]generator.Offset, error) {
	if len(tokens) == 0 {
		return append([]generator.Offset(nil), generator.OffsetsNormal...), nil
	}
	var out []generator.Offset
	for _, tok := range tokens {
		switch tok {
		case "n":
			out = append(out, generator.OffsetsNormal...)
		case "o":
			out = append(out, generator.OffsetsOrthogonalFour...)
		case "d":
			out = append(out, generator.OffsetsDiagonalFour...)
		case "k":
			out = append(out, generator.OffsetsKnightEight...)
		default:
			parts := strings.SplitN(tok, ",", 2)
			if len(parts) != 2 {
				return nil, apperr.NewConfiguration("offsets", fmt.Errorf("unrecognized offset token %q", tok))
			}
			dx, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			dy, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				return nil, apperr.NewConfiguration("offsets", fmt.Errorf("unrecognized offset token %q", tok))
			}
			out = append(out, generator.Offset{DX: dx, DY: dy})
		}
	}
	return out, nil
}

// ResolveGeometry builds the geometry.Geometry the generator core uses.
// spec.md's CLI table does not add wrap flags of its own; imagegen defaults
// to Bounded, the only variant the spec requires for a first cut.
func ResolveGeometry(width, height int) geometry.Geometry {
	return geometry.NewBounded(width, height)
}

// ResolveFitness returns the default fitness function; spec.md §4.D defines
// exactly one (squared-Euclidean) and the CLI table adds no selector for it.
func ResolveFitness() fitness.Func {
	return fitness.SquaredEuclidean{}
}

// BuildGeneratorConfig turns the parsed flags into a validated
// generator.Config. randomSeed supplies the RNG seed when the caller never
// passed -S/--seed ("default random", spec.md §6); cmd/imagegen derives it
// from the current time, not from here, so cliconfig itself stays deterministic
// and easy to unit test.
func (o *Options) BuildGeneratorConfig(randomSeed int64) (generator.Config, error) {
	offsets, err := ResolveOffsets(o.OffsetTokens)
	if err != nil {
		return generator.Config{}, err
	}
	sampler, err := o.ColorModel.Build()
	if err != nil {
		return generator.Config{}, apperr.NewConfiguration("sampler", err)
	}

	seed := o.Seed
	if !o.HasSeed {
		seed = randomSeed
	}

	cfg := generator.Config{
		Width:      o.Width,
		Height:     o.Height,
		Seeds:      o.Seeds,
		Offsets:    offsets,
		Workers:    o.Workers,
		ColorCount: o.ColorCount,
		MaxFitness: o.MaxFitness,
		Seed:       seed,
		Sampler:    sampler,
		Fitness:    ResolveFitness(),
		Geo:        ResolveGeometry(o.Width, o.Height),
	}
	if verr := cfg.Validate(); verr != nil {
		return generator.Config{}, verr
	}
	return cfg, nil
}
