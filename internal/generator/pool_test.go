package generator

import (
	"testing"

	"github.com/Fepozopo/imagegen/internal/applog"
	"github.com/Fepozopo/imagegen/internal/barrier"
	"github.com/Fepozopo/imagegen/internal/state"
)

// TestWorkerPoolMatchesSingleThreadedBestFit runs the same frontier/candidate
// scan through both the single-threaded path and a worker pool and checks
// that the merged best-fit result agrees, since partitioning the frontier
// into ranges must not change which pixel is chosen.
func TestWorkerPoolMatchesSingleThreadedBestFit(t *testing.T) {
	cfg := baseConfig(8, 8)
	cfg.Seeds = 4
	shared := state.NewShared(cfg.Width, cfg.Height, cfg.Seed)

	singleGen, err := New(cfg, shared, barrier.New(2), barrier.New(2), applog.Default)
	if err != nil {
		t.Fatalf("New (single) error: %v", err)
	}
	singleGen.seedPhase(cfg.Seeds)

	poolCfg := cfg
	poolCfg.Workers = 4
	pooledShared := state.NewShared(cfg.Width, cfg.Height, cfg.Seed)
	pooledGen, err := New(poolCfg, pooledShared, barrier.New(2), barrier.New(2), applog.Default)
	if err != nil {
		t.Fatalf("New (pool) error: %v", err)
	}
	// Mirror the single-threaded generator's placed pixels exactly so both
	// scans run against identical frontier/image state.
	pooledGen.seedPhase(0) // no-op seeding; we copy state below instead
	*pooledShared.LockedState() = *shared.LockedState()

	candidates := []state.Color{{0.1, 0.2, 0.3, 0}, {0.9, 0.8, 0.7, 0}}

	wantBest := singleGen.bestFit(candidates)

	pooledGen.pool.start(pooledGen)
	defer pooledGen.pool.stop()
	gotBest := pooledGen.bestFit(candidates)

	if len(wantBest) != len(gotBest) {
		t.Fatalf("result length mismatch: %d vs %d", len(wantBest), len(gotBest))
	}
	for j := range wantBest {
		if wantBest[j].Found != gotBest[j].Found {
			t.Fatalf("candidate %d: Found mismatch: single=%v pooled=%v", j, wantBest[j].Found, gotBest[j].Found)
		}
		if wantBest[j].Found && wantBest[j].Score != gotBest[j].Score {
			t.Fatalf("candidate %d: score mismatch: single=%v pooled=%v", j, wantBest[j].Score, gotBest[j].Score)
		}
		if wantBest[j].Found && wantBest[j].Pixel != gotBest[j].Pixel {
			t.Fatalf("candidate %d: pixel mismatch: single=%v pooled=%v", j, wantBest[j].Pixel, gotBest[j].Pixel)
		}
	}
}

func TestPartitionRangeHandlesFewerItemsThanWorkers(t *testing.T) {
	ranges := partitionRange(2, 5)
	total := 0
	for _, r := range ranges {
		total += r[1] - r[0]
	}
	if total != 2 {
		t.Fatalf("ranges cover %d items, want 2", total)
	}
}
