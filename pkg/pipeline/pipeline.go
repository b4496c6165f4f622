package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/coexnet/motif-comparison-service/pkg/coexpr"
	"github.com/coexnet/motif-comparison-service/pkg/config"
	"github.com/coexnet/motif-comparison-service/pkg/diffexpr"
	"github.com/coexnet/motif-comparison-service/pkg/expression"
	"github.com/coexnet/motif-comparison-service/pkg/modules"
	"github.com/coexnet/motif-comparison-service/pkg/motif"
	"github.com/coexnet/motif-comparison-service/pkg/network"
)

// Comparison runs the full two-cohort network comparison: binarize each
// cohort's weighted co-expression network, sample motifs, estimate
// normalized frequencies, detect gene modules, and bootstrap-test the
// motif count distributions against each other.
type Comparison struct {
	Config *config.Config
	Logger zerolog.Logger

	// Output options
	OutputDir    string
	OutputPrefix string
	WriteOutputs bool
}

// NewComparison creates a comparison pipeline with default configuration
func NewComparison() *Comparison {
	cfg := config.NewConfig()
	return &Comparison{
		Config:       cfg,
		Logger:       cfg.CreateLogger(),
		OutputDir:    "output",
		OutputPrefix: "motif_comparison",
	}
}

// CohortInput is one cohort's weighted co-expression network
type CohortInput struct {
	Name    string
	Weights mat.Matrix // symmetric weighted adjacency, diagonal ignored
	Labels  []string   // gene identifiers, may be nil
}

// CohortResult holds the per-cohort stage outputs
type CohortResult struct {
	Name       string          `json:"name"`
	NumGenes   int             `json:"num_genes"`
	NumEdges   int             `json:"num_edges"`
	MeanDegree float64         `json:"mean_degree"`
	Counts     []motif.Counts  `json:"-"`
	Estimates  motif.Estimates `json:"estimates"`
	Modules    *modules.Result `json:"modules,omitempty"`
	RuntimeMS  int64           `json:"runtime_ms"`

	graph *network.Graph
}

// Result is the complete comparison output
type Result struct {
	CohortA        *CohortResult          `json:"cohort_a"`
	CohortB        *CohortResult          `json:"cohort_b"`
	Test           motif.TestResult       `json:"test"`
	DiffExpr       []diffexpr.GeneResult  `json:"-"` // only set by RunFromExpression
	TotalRuntimeMS int64                  `json:"total_runtime_ms"`
}

// Run executes the comparison on two prebuilt weighted networks
func (c *Comparison) Run(ctx context.Context, a, b CohortInput) (*Result, error) {
	startTime := time.Now()

	resultA, err := c.runCohort(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("cohort %s failed: %w", a.Name, err)
	}
	resultB, err := c.runCohort(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("cohort %s failed: %w", b.Name, err)
	}

	c.Logger.Info().
		Int("replicates", c.Config.BootstrapReplicates()).
		Msg("Running bootstrap test")

	test, err := motif.BootstrapTest(resultA.Counts, resultB.Counts,
		c.Config.BootstrapReplicates(), c.Config.BootstrapSeed())
	if err != nil {
		return nil, fmt.Errorf("bootstrap test failed: %w", err)
	}

	result := &Result{
		CohortA:        resultA,
		CohortB:        resultB,
		Test:           test,
		TotalRuntimeMS: time.Since(startTime).Milliseconds(),
	}

	c.Logger.Info().
		Float64("p_value", test.PValue).
		Float64("observed", test.Observed).
		Int64("runtime_ms", result.TotalRuntimeMS).
		Msg("Comparison completed")

	if c.WriteOutputs {
		writer := NewFileWriter()
		if err := writer.WriteAll(result, c.OutputDir, c.OutputPrefix); err != nil {
			return nil, fmt.Errorf("output generation failed: %w", err)
		}
	}

	return result, nil
}

// RunFromExpression builds each cohort's weighted network from cleaned
// expression data (correlation, signed soft-threshold adjacency, TOM),
// runs differential expression across cohorts, then runs the comparison.
func (c *Comparison) RunFromExpression(ctx context.Context, nameA string, exprA *expression.Matrix, nameB string, exprB *expression.Matrix) (*Result, error) {
	de, err := diffexpr.Run(exprA, exprB)
	if err != nil {
		return nil, fmt.Errorf("differential expression failed: %w", err)
	}

	inputA, err := c.buildNetwork(nameA, exprA)
	if err != nil {
		return nil, err
	}
	inputB, err := c.buildNetwork(nameB, exprB)
	if err != nil {
		return nil, err
	}

	result, err := c.Run(ctx, inputA, inputB)
	if err != nil {
		return nil, err
	}
	result.DiffExpr = de

	if c.WriteOutputs {
		if err := writeDiffExpr(de, c.OutputDir, c.OutputPrefix); err != nil {
			return nil, fmt.Errorf("failed to write differential expression table: %w", err)
		}
	}
	return result, nil
}

// buildNetwork constructs one cohort's weighted co-expression network
func (c *Comparison) buildNetwork(name string, expr *expression.Matrix) (CohortInput, error) {
	c.Logger.Info().
		Str("cohort", name).
		Int("genes", expr.NumGenes()).
		Int("samples", expr.NumSamples()).
		Msg("Building co-expression network")

	corr, err := coexpr.CorrelationMatrix(expr)
	if err != nil {
		return CohortInput{}, fmt.Errorf("correlation failed for cohort %s: %w", name, err)
	}
	adj := coexpr.SignedAdjacency(corr, c.Config.Beta(), c.Config.Signed())
	tom := coexpr.TOM(adj)

	return CohortInput{Name: name, Weights: tom, Labels: expr.Genes}, nil
}

// runCohort executes the per-cohort stages: binarize, sample, estimate,
// detect modules
func (c *Comparison) runCohort(ctx context.Context, input CohortInput) (*CohortResult, error) {
	startTime := time.Now()

	graph, err := network.Binarize(input.Weights, input.Labels, c.Config.Threshold())
	if err != nil {
		return nil, fmt.Errorf("binarization failed: %w", err)
	}

	c.Logger.Info().
		Str("cohort", input.Name).
		Int("genes", graph.NumNodes).
		Int("edges", graph.NumEdges()).
		Float64("mean_degree", graph.MeanDegree()).
		Msg("Binarized network")

	sampler := motif.NewSampler(c.Config, c.Logger)
	if c.Config.EnableProgress() {
		interval := c.Config.ProgressInterval()
		if interval <= 0 {
			interval = 500
		}
		logger := c.Logger.With().Str("cohort", input.Name).Logger()
		sampler.Progress = func(completed, total int) {
			if completed%interval == 0 || completed == total {
				logger.Debug().Int("completed", completed).Int("total", total).Msg("Sampling progress")
			}
		}
	}

	counts, err := sampler.Sample(ctx, graph)
	if err != nil {
		return nil, fmt.Errorf("motif sampling failed: %w", err)
	}

	estimates, err := motif.EstimateNormalized(counts, graph.NumNodes, c.Config.SubsampleSize())
	if err != nil {
		return nil, fmt.Errorf("estimation failed: %w", err)
	}

	moduleResult, err := modules.Detect(ctx, graph, c.Config, c.Logger.With().Str("cohort", input.Name).Logger())
	if err != nil {
		return nil, fmt.Errorf("module detection failed: %w", err)
	}

	return &CohortResult{
		Name:       input.Name,
		NumGenes:   graph.NumNodes,
		NumEdges:   graph.NumEdges(),
		MeanDegree: graph.MeanDegree(),
		Counts:     counts,
		Estimates:  estimates,
		Modules:    moduleResult,
		RuntimeMS:  time.Since(startTime).Milliseconds(),
		graph:      graph,
	}, nil
}
