package mcmt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/mcmt/density"
)

// Config holds the tunable parameters of a Sampler. It is loaded from
// JSON with LoadConfig or built from DefaultConfig.
type Config struct {
	// Workers is the goroutine count of data parallel loops. Zero uses
	// GOMAXPROCS.
	Workers int `json:"workers"`
	// Seed drives every random draw. Equal seeds and call sequences give
	// equal samples.
	Seed uint64 `json:"seed"`
	// RejectionBatch is the candidate count per rejection sampling batch.
	RejectionBatch int `json:"rejection_batch"`
	// SampleChunk is the number of Voronoi draws sharing one generator.
	SampleChunk int `json:"sample_chunk"`
	// DensityNeighbors is the k of the nearest neighbor density estimate.
	DensityNeighbors int `json:"density_neighbors"`
	// BoundaryEpsilon excludes tetrahedra with a vertex this close to the
	// domain cube from midpoint refinement.
	BoundaryEpsilon float64 `json:"boundary_epsilon"`
	// MinSubVolume rejects midpoints splitting their tetrahedron into a
	// sub-tetrahedron smaller than this.
	MinSubVolume float64 `json:"min_sub_volume"`
}

// DefaultConfig returns the default sampler configuration.
func DefaultConfig() Config {
	return Config{
		Workers:          0,
		Seed:             1,
		RejectionBatch:   4096,
		SampleChunk:      256,
		DensityNeighbors: density.DefaultNeighbors,
		BoundaryEpsilon:  1e-6,
		MinSubVolume:     1e-12,
	}
}

// LoadConfig loads a Config from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadConfig(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return &ErrInvalidConfig{Field: "workers", Value: c.Workers}
	case c.RejectionBatch <= 0:
		return &ErrInvalidConfig{Field: "rejection_batch", Value: c.RejectionBatch}
	case c.SampleChunk <= 0:
		return &ErrInvalidConfig{Field: "sample_chunk", Value: c.SampleChunk}
	case c.DensityNeighbors <= 0:
		return &ErrInvalidConfig{Field: "density_neighbors", Value: c.DensityNeighbors}
	case c.BoundaryEpsilon < 0:
		return &ErrInvalidConfig{Field: "boundary_epsilon", Value: c.BoundaryEpsilon}
	case c.MinSubVolume < 0:
		return &ErrInvalidConfig{Field: "min_sub_volume", Value: c.MinSubVolume}
	}
	return nil
}
