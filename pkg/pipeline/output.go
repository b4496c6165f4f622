package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/coexnet/motif-comparison-service/pkg/diffexpr"
	"github.com/coexnet/motif-comparison-service/pkg/motif"
)

// OutputWriter generates comparison output files
type OutputWriter interface {
	WriteEdgeLists(result *Result, outputDir, prefix string) error
	WriteEstimates(result *Result, path string) error
	WriteModules(result *Result, outputDir, prefix string) error
	WriteSummary(result *Result, path string) error
	WriteAll(result *Result, outputDir, prefix string) error
}

// FileWriter implements OutputWriter for file-based output
type FileWriter struct{}

// NewFileWriter creates a new file-based output writer
func NewFileWriter() OutputWriter {
	return &FileWriter{}
}

// WriteAll writes all output files
func (fw *FileWriter) WriteAll(result *Result, outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := fw.WriteEdgeLists(result, outputDir, prefix); err != nil {
		return fmt.Errorf("failed to write edge lists: %w", err)
	}

	estimatesPath := filepath.Join(outputDir, prefix+"_normalized.csv")
	if err := fw.WriteEstimates(result, estimatesPath); err != nil {
		return fmt.Errorf("failed to write estimates: %w", err)
	}

	if err := fw.WriteModules(result, outputDir, prefix); err != nil {
		return fmt.Errorf("failed to write modules: %w", err)
	}

	summaryPath := filepath.Join(outputDir, prefix+"_summary.txt")
	if err := fw.WriteSummary(result, summaryPath); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	return nil
}

// WriteEdgeLists writes each cohort's binary graph as a source,target CSV
func (fw *FileWriter) WriteEdgeLists(result *Result, outputDir, prefix string) error {
	for _, cohort := range []*CohortResult{result.CohortA, result.CohortB} {
		if cohort.graph == nil {
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s_edges.csv", prefix, cohort.Name))
		if err := cohort.graph.WriteEdgeListFile(path); err != nil {
			return fmt.Errorf("cohort %s: %w", cohort.Name, err)
		}
	}
	return nil
}

// WriteEstimates writes the normalized estimate table, one row per
// (group, motif) pair
func (fw *FileWriter) WriteEstimates(result *Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"group", "motif", "normalized_estimate"}); err != nil {
		return err
	}
	for _, cohort := range []*CohortResult{result.CohortA, result.CohortB} {
		values := cohort.Estimates.Vector()
		for m, name := range motif.MotifNames {
			record := []string{cohort.Name, name, strconv.FormatFloat(values[m], 'g', -1, 64)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteModules writes each cohort's gene-to-module assignment
func (fw *FileWriter) WriteModules(result *Result, outputDir, prefix string) error {
	for _, cohort := range []*CohortResult{result.CohortA, result.CohortB} {
		if cohort.Modules == nil {
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s_modules.csv", prefix, cohort.Name))
		file, err := os.Create(path)
		if err != nil {
			return err
		}

		cw := csv.NewWriter(file)
		if err := cw.Write([]string{"gene", "module"}); err != nil {
			file.Close()
			return err
		}

		genes := make([]string, 0, len(cohort.Modules.GeneToModule))
		for gene := range cohort.Modules.GeneToModule {
			genes = append(genes, gene)
		}
		sort.Strings(genes)
		for _, gene := range genes {
			record := []string{gene, strconv.Itoa(cohort.Modules.GeneToModule[gene])}
			if err := cw.Write(record); err != nil {
				file.Close()
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary creates a text summary of the comparison
func (fw *FileWriter) WriteSummary(result *Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "=== Co-expression Network Motif Comparison ===\n\n")

	for _, cohort := range []*CohortResult{result.CohortA, result.CohortB} {
		fmt.Fprintf(file, "Cohort %s:\n", cohort.Name)
		fmt.Fprintf(file, "  Genes: %d\n", cohort.NumGenes)
		fmt.Fprintf(file, "  Edges: %d\n", cohort.NumEdges)
		fmt.Fprintf(file, "  Mean degree: %.3f\n", cohort.MeanDegree)
		values := cohort.Estimates.Vector()
		for m, name := range motif.MotifNames {
			fmt.Fprintf(file, "  Normalized %s: %.6g\n", name, values[m])
		}
		if cohort.Modules != nil {
			fmt.Fprintf(file, "  Modules: %d (modularity %.4f)\n",
				len(cohort.Modules.Modules), cohort.Modules.Modularity)
		}
		fmt.Fprintf(file, "  Runtime: %d ms\n\n", cohort.RuntimeMS)
	}

	fmt.Fprintf(file, "Bootstrap test:\n")
	fmt.Fprintf(file, "  Observed statistic: %.6g\n", result.Test.Observed)
	fmt.Fprintf(file, "  Replicates: %d\n", result.Test.Replicates)
	fmt.Fprintf(file, "  p-value: %.6g\n", result.Test.PValue)
	fmt.Fprintf(file, "\nTotal runtime: %d ms\n", result.TotalRuntimeMS)

	return nil
}

// writeDiffExpr writes the differential expression table
func writeDiffExpr(results []diffexpr.GeneResult, outputDir, prefix string) error {
	path := filepath.Join(outputDir, prefix+"_diffexpr.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"gene", "log_fc", "t_stat", "p_value", "q_value"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Gene,
			strconv.FormatFloat(r.LogFC, 'g', -1, 64),
			strconv.FormatFloat(r.TStat, 'g', -1, 64),
			strconv.FormatFloat(r.PValue, 'g', -1, 64),
			strconv.FormatFloat(r.QValue, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
