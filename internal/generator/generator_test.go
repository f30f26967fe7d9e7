package generator

import (
	"testing"
	"time"

	"github.com/Fepozopo/imagegen/internal/applog"
	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/colorgen"
	"github.com/Fepozopo/imagegen/internal/fitness"
	"github.com/Fepozopo/imagegen/internal/geometry"
	"github.com/Fepozopo/imagegen/internal/state"
)

func testSampler() colorgen.Sampler {
	return colorgen.VectorSet{
		Start:   state.Color{0, 0, 0, 1},
		Vectors: []state.Color{{1, 1, 1, 0}},
		Chance:  1,
		Kind:    colorgen.Full,
	}
}

func baseConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		Seeds:      1,
		Offsets:    OffsetsNormal,
		Workers:    1,
		ColorCount: 2,
		Seed:       42,
		Sampler:    testSampler(),
		Fitness:    fitness.SquaredEuclidean{},
		Geo:        geometry.NewBounded(width, height),
	}
}

// runToCompletion drives a Generator against an observer-root loop that never
// renders and never requests early stop, returning once Finished is set.
func runToCompletion(t *testing.T, g *Generator, outerA, outerB *barrier.Barrier, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()
	go func() {
		for {
			outerA.Wait()
			outerB.Wait()
		}
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("generator did not finish within timeout")
	}
}

func TestConfigValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero seeds", func(c *Config) { c.Seeds = 0 }},
		{"empty offsets", func(c *Config) { c.Offsets = nil }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero color count", func(c *Config) { c.ColorCount = 0 }},
		{"negative max fitness", func(c *Config) { mf := -1.0; c.MaxFitness = &mf }},
		{"nil sampler", func(c *Config) { c.Sampler = nil }},
		{"nil fitness", func(c *Config) { c.Fitness = nil }},
		{"nil geometry", func(c *Config) { c.Geo = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig(4, 4)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestGeneratorFillsSmallImageSingleThreaded(t *testing.T) {
	cfg := baseConfig(4, 4)
	shared := state.NewShared(cfg.Width, cfg.Height, cfg.Seed)
	outerA := barrier.New(2)
	outerB := barrier.New(2)

	g, err := New(cfg, shared, outerA, outerB, applog.Default)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	runToCompletion(t, g, outerA, outerB, 5*time.Second)

	if got, want := shared.PixelsPlaced.Load(), uint64(cfg.Size()); got != want {
		t.Fatalf("pixels placed = %d, want %d", got, want)
	}
	if got := shared.LockedState().Mask.CountOnes(); got != cfg.Size() {
		t.Fatalf("mask CountOnes = %d, want %d", got, cfg.Size())
	}
	if !shared.Finished.Load() {
		t.Fatal("expected Finished to be set")
	}
}

func TestGeneratorFillsSmallImageWithWorkerPool(t *testing.T) {
	cfg := baseConfig(6, 6)
	cfg.Workers = 3
	shared := state.NewShared(cfg.Width, cfg.Height, cfg.Seed)
	outerA := barrier.New(2)
	outerB := barrier.New(2)

	g, err := New(cfg, shared, outerA, outerB, applog.Default)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	runToCompletion(t, g, outerA, outerB, 10*time.Second)

	if got, want := shared.PixelsPlaced.Load(), uint64(cfg.Size()); got != want {
		t.Fatalf("pixels placed = %d, want %d", got, want)
	}
}

func TestPartitionRangeCoversWholeRangeExactly(t *testing.T) {
	for _, tc := range []struct{ n, workers int }{
		{10, 3}, {0, 4}, {1, 5}, {100, 7},
	} {
		ranges := partitionRange(tc.n, tc.workers)
		if len(ranges) != tc.workers {
			t.Fatalf("n=%d workers=%d: got %d ranges, want %d", tc.n, tc.workers, len(ranges), tc.workers)
		}
		prevHi := 0
		for i, r := range ranges {
			if r[0] != prevHi {
				t.Fatalf("n=%d workers=%d: range %d starts at %d, want %d", tc.n, tc.workers, i, r[0], prevHi)
			}
			if r[1] < r[0] {
				t.Fatalf("n=%d workers=%d: range %d has hi < lo", tc.n, tc.workers, i)
			}
			prevHi = r[1]
		}
		if prevHi != tc.n {
			t.Fatalf("n=%d workers=%d: ranges cover up to %d, want %d", tc.n, tc.workers, prevHi, tc.n)
		}
	}
}
