package rng

import (
	"math"
	"testing"
)

func TestLCG_Sequence(t *testing.T) {
	g := NewDefault()

	// state_{n+1} = state_n*1103515245 + 12345 mod 2^32, from 12345
	expected := []uint32{
		3554416254,
		2802067423,
		3596950572,
		229283573,
		3256818826,
	}

	for i, want := range expected {
		if got := g.Uint32(); got != want {
			t.Fatalf("draw %d: got %d, want %d", i, got, want)
		}
	}
}

func TestLCG_Next(t *testing.T) {
	g := NewDefault()

	got := g.Next()
	want := 3554416254.0 / 4294967296.0
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("Next() = %v, want %v", got, want)
	}
	if g.state != 3554416254 {
		t.Errorf("state = %d, want 3554416254", g.state)
	}
}

func TestLCG_Range(t *testing.T) {
	g := New(0)
	for i := 0; i < 100000; i++ {
		v := g.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestLCG_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("sequences diverged at draw %d", i)
		}
	}
}

func TestLCG_Independent(t *testing.T) {
	a := NewDefault()
	b := NewDefault()

	a.Next()
	a.Next()

	if b.state != DefaultSeed {
		t.Errorf("advancing one generator changed another: %d", b.state)
	}
}

func TestLCG_Wraparound(t *testing.T) {
	g := New(math.MaxUint32)
	// (2^32-1)*1103515245 + 12345 mod 2^32
	var want uint32 = 3191464396
	if got := g.Uint32(); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}
