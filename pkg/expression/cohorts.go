package expression

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCohorts reads a sample-to-cohort assignment CSV with a
// "sample,cohort" header
func LoadCohorts(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cohort file: %w", err)
	}
	defer file.Close()
	return ReadCohorts(file)
}

// ReadCohorts parses a sample-to-cohort assignment from CSV content
func ReadCohorts(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != 2 {
		return nil, fmt.Errorf("expected 2 columns (sample, cohort), got %d", len(header))
	}

	cohorts := make(map[string]string)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++
		sample := strings.TrimSpace(record[0])
		cohort := strings.TrimSpace(record[1])
		if sample == "" || cohort == "" {
			return nil, fmt.Errorf("row %d has empty sample or cohort", line)
		}
		if existing, dup := cohorts[sample]; dup && existing != cohort {
			return nil, fmt.Errorf("sample %s assigned to both %s and %s", sample, existing, cohort)
		}
		cohorts[sample] = cohort
	}
	return cohorts, nil
}
