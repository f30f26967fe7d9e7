package colorgen

import (
	"math/rand"
	"testing"

	"github.com/Fepozopo/imagegen/internal/state"
)

func TestVectorSetFullSampleWithinRange(t *testing.T) {
	vs := VectorSet{
		Start:   state.Color{0.2, 0.2, 0.2, 0},
		Vectors: []state.Color{{0.5, 0, 0, 0}, {0, 0.5, 0, 0}},
		Chance:  1,
		Kind:    Full,
	}
	rng := rand.New(rand.NewSource(42))
	c, err := vs.Sample(rng)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if c[i] < 0.2 || c[i] > 0.7 {
			t.Errorf("lane %d = %f, want within [0.2, 0.7]", i, c[i])
		}
	}
}

func TestVectorSetUnimplementedKinds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, k := range []Kind{Triangular, SumOne, Kind(99)} {
		vs := VectorSet{Kind: k}
		if _, err := vs.Sample(rng); err != ErrUnimplementedKind {
			t.Errorf("Kind(%d).Sample() error = %v, want ErrUnimplementedKind", k, err)
		}
	}
}

func TestNewGroupRejectsEmpty(t *testing.T) {
	if _, err := NewGroup(nil); err != ErrEmptyGroup {
		t.Fatalf("NewGroup(nil) error = %v, want ErrEmptyGroup", err)
	}
}

func TestNewGroupRejectsZeroChance(t *testing.T) {
	_, err := NewGroup([]VectorSet{{Chance: 0, Kind: Full}})
	if err == nil {
		t.Fatal("expected error for zero chance vector set")
	}
}

func TestGroupSampleDeterministicForFixedSeed(t *testing.T) {
	sets := []VectorSet{
		{Start: state.Color{0, 0, 0, 0}, Vectors: []state.Color{{1, 0, 0, 0}}, Chance: 1, Kind: Full},
		{Start: state.Color{0, 0, 0, 0}, Vectors: []state.Color{{0, 1, 0, 0}}, Chance: 3, Kind: Full},
	}
	g, err := NewGroup(sets)
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	rng1 := rand.New(rand.NewSource(7))
	rng2 := rand.New(rand.NewSource(7))
	c1, err := g.Sample(rng1)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	c2, err := g.Sample(rng2)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if c1 != c2 {
		t.Fatalf("same-seed samples diverged: %v vs %v", c1, c2)
	}
}

func TestNewGroupPrecomputesTotalChance(t *testing.T) {
	sets := []VectorSet{
		{Chance: 1, Kind: Full},
		{Chance: 99, Kind: Full},
	}
	g, err := NewGroup(sets)
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	if g.totalChance != 100 {
		t.Fatalf("totalChance = %d, want 100", g.totalChance)
	}
}
