package irt

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelForVisitsEveryIndex(t *testing.T) {
	const n = 37
	var seen [n]int32
	err := ParallelFor(n, func(i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("ParallelFor: %v", err)
	}
	for i, v := range seen {
		if v != 1 {
			t.Errorf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestParallelForPropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := ParallelFor(8, func(i int) error {
		if i == 5 {
			return want
		}
		return nil
	})
	if !errors.Is(err, want) {
		t.Errorf("ParallelFor error = %v, want %v", err, want)
	}
}

func TestParallelForZeroIsNoop(t *testing.T) {
	if err := ParallelFor(0, func(i int) error {
		t.Fatal("work should not be called for n=0")
		return nil
	}); err != nil {
		t.Errorf("ParallelFor(0, ...) = %v, want nil", err)
	}
}
