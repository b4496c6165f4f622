package motif

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/coexnet/motif-comparison-service/pkg/config"
	"github.com/coexnet/motif-comparison-service/pkg/network"
)

// ErrInvalidSampleSize is returned when the subsample size exceeds the
// vertex count of the graph. The check runs before any sampling begins.
var ErrInvalidSampleSize = errors.New("subsample size exceeds graph vertex count")

// ProgressCallback reports sampling progress as completed/total iterations
type ProgressCallback func(completed, total int)

// Sampler draws repeated random induced subgraphs of fixed size and counts
// motifs in each. Iterations are independent; iteration i is seeded with i,
// so results are reproducible regardless of worker count.
type Sampler struct {
	SubsampleSize int
	NumSamples    int
	NumWorkers    int
	Progress      ProgressCallback // optional observer, may be nil

	logger zerolog.Logger
}

// NewSampler creates a sampler from configuration
func NewSampler(cfg *config.Config, logger zerolog.Logger) *Sampler {
	return &Sampler{
		SubsampleSize: cfg.SubsampleSize(),
		NumSamples:    cfg.NumSamples(),
		NumWorkers:    cfg.NumWorkers(),
		logger:        logger,
	}
}

// Sample runs all iterations and returns one Counts record per iteration,
// indexed by iteration number. The graph is shared read-only across
// workers; each iteration owns its induced-subgraph buffer.
func (s *Sampler) Sample(ctx context.Context, g *network.Graph) ([]Counts, error) {
	if s.SubsampleSize <= 0 {
		return nil, fmt.Errorf("subsample size must be positive, got %d", s.SubsampleSize)
	}
	if s.SubsampleSize > g.NumNodes {
		return nil, fmt.Errorf("%w: size %d, vertices %d", ErrInvalidSampleSize, s.SubsampleSize, g.NumNodes)
	}
	if s.NumSamples <= 0 {
		return nil, fmt.Errorf("number of samples must be positive, got %d", s.NumSamples)
	}

	workers := s.NumWorkers
	if workers <= 0 {
		workers = 1
	}

	s.logger.Info().
		Int("vertices", g.NumNodes).
		Int("subsample_size", s.SubsampleSize).
		Int("num_samples", s.NumSamples).
		Int("workers", workers).
		Msg("Starting motif sampling")

	results := make([]Counts, s.NumSamples)
	var completed atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := 0; i < s.NumSamples; i++ {
		iteration := i
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			counts, err := s.sampleOnce(g, iteration)
			if err != nil {
				return fmt.Errorf("iteration %d failed: %w", iteration, err)
			}
			results[iteration] = counts

			done := int(completed.Add(1))
			if s.Progress != nil {
				s.Progress(done, s.NumSamples)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("num_samples", s.NumSamples).Msg("Motif sampling completed")
	return results, nil
}

// sampleOnce draws one subsample. The iteration index seeds the generator,
// matching the seeding discipline of the reference analysis.
func (s *Sampler) sampleOnce(g *network.Graph, iteration int) (Counts, error) {
	rng := rand.New(rand.NewSource(int64(iteration)))
	vertices := rng.Perm(g.NumNodes)[:s.SubsampleSize]

	sub, err := g.InducedSubgraph(vertices)
	if err != nil {
		return Counts{}, err
	}
	return Count(sub), nil
}
