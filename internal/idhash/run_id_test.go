package idhash

import (
	"testing"

	"rentvsbuy-lab/internal/domain"
)

func TestComputeRunID_Deterministic(t *testing.T) {
	cfg := domain.SimulationConfig{Months: 360, Paths: 5000, Seed: 42, HomePrice: 500000}

	a, err := ComputeRunID(&cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	b, err := ComputeRunID(&cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if a != b {
		t.Errorf("same config produced different run IDs: %s vs %s", a, b)
	}
	if a == "" {
		t.Error("run ID is empty")
	}
}

func TestComputeRunID_SeedChangesID(t *testing.T) {
	cfg := domain.SimulationConfig{Months: 360, Paths: 5000, Seed: 42}
	a, err := ComputeRunID(&cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	cfg.Seed = 43
	b, err := ComputeRunID(&cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if a == b {
		t.Error("different seeds must produce different run IDs")
	}
}

func TestComputeSnapshotID(t *testing.T) {
	a := ComputeSnapshotID("run-1", 1700000000)
	b := ComputeSnapshotID("run-1", 1700000000)
	c := ComputeSnapshotID("run-1", 1700000001)

	if a != b {
		t.Error("same inputs must produce the same snapshot ID")
	}
	if a == c {
		t.Error("different capture times must produce different snapshot IDs")
	}
}
