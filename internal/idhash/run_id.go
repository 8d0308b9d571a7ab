// Package idhash derives deterministic identifiers so identical inputs
// always map to the same run or snapshot ID across processes.
package idhash

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"rentvsbuy-lab/internal/domain"
)

// ComputeRunID computes a deterministic run identifier from the full
// configuration. Formula: base58(SHA256(canonical-config-JSON)).
// Two runs with the same config (seed included) share an ID, which is
// exactly the reproducibility contract the engine makes.
func ComputeRunID(cfg *domain.SimulationConfig) (string, error) {
	// encoding/json emits struct fields in declaration order, so the
	// encoding is canonical for a fixed struct definition.
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config for run id: %w", err)
	}
	hash := sha256.Sum256(data)
	return base58.Encode(hash[:]), nil
}

// ComputeSnapshotID computes a snapshot identifier from the run it froze
// plus the capture time, so re-snapshotting the same run yields a new ID.
// Formula: base58(SHA256(runID|createdAt)).
func ComputeSnapshotID(runID string, createdAt int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", runID, createdAt)))
	return base58.Encode(hash[:])
}
