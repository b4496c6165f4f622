package expression

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a gene-by-sample matrix from a CSV file. The first row is
// a header whose first cell is ignored and whose remaining cells are
// sample names; each following row is a gene name followed by one value
// per sample. Files ending in .gz are decompressed transparently.
func LoadCSV(path string) (*Matrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open expression file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ReadCSV(reader)
}

// ReadCSV parses a gene-by-sample matrix from CSV content
func ReadCSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header needs at least one sample column, got %d fields", len(header))
	}
	samples := append([]string(nil), header[1:]...)

	var genes []string
	var data [][]float64
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
		if len(record) != len(samples)+1 {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", line, len(record), len(samples)+1)
		}

		row := make([]float64, len(samples))
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, sample %s: %w", line, samples[j], err)
			}
			row[j] = v
		}
		genes = append(genes, record[0])
		data = append(data, row)
	}

	m := &Matrix{Genes: genes, Samples: samples, Data: data}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
