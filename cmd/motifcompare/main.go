package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coexnet/motif-comparison-service/pkg/expression"
	"github.com/coexnet/motif-comparison-service/pkg/network"
	"github.com/coexnet/motif-comparison-service/pkg/pipeline"
)

func main() {
	var (
		exprPath    = flag.String("expr", "", "Gene-by-sample expression CSV (optionally gzipped)")
		cohortsPath = flag.String("cohorts", "", "Sample-to-cohort assignment CSV (sample,cohort)")
		adjAPath    = flag.String("adjacency-a", "", "Precomputed weighted adjacency CSV for cohort A")
		adjBPath    = flag.String("adjacency-b", "", "Precomputed weighted adjacency CSV for cohort B")
		nameA       = flag.String("name-a", "UC", "Name of cohort A")
		nameB       = flag.String("name-b", "HC", "Name of cohort B")
		configPath  = flag.String("config", "", "Optional YAML configuration file")
		outputDir   = flag.String("out", "output", "Output directory")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compares gene co-expression network motif structure between two cohorts.\n")
		fmt.Fprintf(os.Stderr, "Either -expr with -cohorts, or -adjacency-a with -adjacency-b, is required.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	comparison := pipeline.NewComparison()
	if *configPath != "" {
		if err := comparison.Config.LoadFromFile(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		comparison.Logger = comparison.Config.CreateLogger()
	}
	comparison.OutputDir = *outputDir
	comparison.WriteOutputs = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *exprPath != "" && *cohortsPath != "":
		err = runFromExpression(ctx, comparison, *exprPath, *cohortsPath, *nameA, *nameB)
	case *adjAPath != "" && *adjBPath != "":
		err = runFromAdjacency(ctx, comparison, *adjAPath, *adjBPath, *nameA, *nameB)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Printf("Output files written to: %s/\n", comparison.OutputDir)
}

func runFromExpression(ctx context.Context, comparison *pipeline.Comparison, exprPath, cohortsPath, nameA, nameB string) error {
	matrix, err := expression.LoadCSV(exprPath)
	if err != nil {
		return fmt.Errorf("failed to load expression matrix: %w", err)
	}
	cohorts, err := expression.LoadCohorts(cohortsPath)
	if err != nil {
		return fmt.Errorf("failed to load cohort assignments: %w", err)
	}

	matrix.Log2Transform()
	matrix = matrix.FilterLowExpression(
		comparison.Config.MinExpressionLevel(),
		comparison.Config.MaxLowFraction(),
	)
	matrix = matrix.FilterLowVariance(comparison.Config.VariancePercentile())

	split := matrix.Split(func(sample string) string { return cohorts[sample] })
	exprA, okA := split[nameA]
	exprB, okB := split[nameB]
	if !okA || !okB {
		return fmt.Errorf("cohorts %s and %s not both present in assignment file", nameA, nameB)
	}

	result, err := comparison.RunFromExpression(ctx, nameA, exprA, nameB, exprB)
	if err != nil {
		return err
	}
	printSummary(result)
	return nil
}

func runFromAdjacency(ctx context.Context, comparison *pipeline.Comparison, adjAPath, adjBPath, nameA, nameB string) error {
	weightsA, labelsA, err := network.LoadWeightedCSV(adjAPath)
	if err != nil {
		return fmt.Errorf("failed to load adjacency for %s: %w", nameA, err)
	}
	weightsB, labelsB, err := network.LoadWeightedCSV(adjBPath)
	if err != nil {
		return fmt.Errorf("failed to load adjacency for %s: %w", nameB, err)
	}

	result, err := comparison.Run(ctx,
		pipeline.CohortInput{Name: nameA, Weights: weightsA, Labels: labelsA},
		pipeline.CohortInput{Name: nameB, Weights: weightsB, Labels: labelsB},
	)
	if err != nil {
		return err
	}
	printSummary(result)
	return nil
}

func printSummary(result *pipeline.Result) {
	fmt.Println("\n=== Comparison Results ===")
	for _, cohort := range []*pipeline.CohortResult{result.CohortA, result.CohortB} {
		fmt.Printf("%s: %d genes, %d edges, mean degree %.2f\n",
			cohort.Name, cohort.NumGenes, cohort.NumEdges, cohort.MeanDegree)
		if cohort.Modules != nil {
			fmt.Printf("  modules: %d (modularity %.4f)\n",
				len(cohort.Modules.Modules), cohort.Modules.Modularity)
		}
	}
	fmt.Printf("Bootstrap p-value: %.6g (observed statistic %.6g, %d replicates)\n",
		result.Test.PValue, result.Test.Observed, result.Test.Replicates)
	fmt.Printf("Total runtime: %d ms\n", result.TotalRuntimeMS)
}
