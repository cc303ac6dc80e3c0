package renderer

import (
	"fmt"
	"runtime"
)

// TileSize is the edge length of the square tiles a sample pass is split into
const TileSize = 16

// Params contains configuration fixed for the lifetime of a Raytracer
type Params struct {
	SamplesPerPixel int // Sample passes to accumulate per input
	MaxBounceCount  int // Path segments traced per sample
	NumWorkers      int // Parallel tile workers (0 = use CPU count)
	OutputBuffer    int // Pending outputs kept before the oldest is dropped
}

// DefaultParams returns sensible default values
func DefaultParams() Params {
	return Params{
		SamplesPerPixel: 64,
		MaxBounceCount:  5,
		NumWorkers:      0, // Auto-detect CPU count
		OutputBuffer:    64,
	}
}

// Validate checks that every parameter is usable
func (p Params) Validate() error {
	if p.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidParams, p.SamplesPerPixel)
	}
	if p.MaxBounceCount < 0 {
		return fmt.Errorf("%w: max bounce count must not be negative, got %d", ErrInvalidParams, p.MaxBounceCount)
	}
	if p.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidParams, p.NumWorkers)
	}
	if p.OutputBuffer <= 0 {
		return fmt.Errorf("%w: output buffer must be positive, got %d", ErrInvalidParams, p.OutputBuffer)
	}
	return nil
}

func (p Params) workers() int {
	if p.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return p.NumWorkers
}
