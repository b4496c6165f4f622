package network

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadWeightedCSV reads a labeled square weighted adjacency matrix from a
// CSV file: the header holds gene names (first cell ignored), each row a
// gene name followed by one weight per gene.
func LoadWeightedCSV(path string) (*mat.Dense, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open adjacency file: %w", err)
	}
	defer file.Close()
	return ReadWeightedCSV(file)
}

// ReadWeightedCSV parses a labeled square weighted matrix from CSV content
func ReadWeightedCSV(r io.Reader) (*mat.Dense, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("header needs at least one gene column, got %d fields", len(header))
	}
	labels := append([]string(nil), header[1:]...)
	n := len(labels)

	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		record, err := cr.Read()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", i+1, err)
		}
		if len(record) != n+1 {
			return nil, nil, fmt.Errorf("row %d has %d fields, expected %d", i+1, len(record), n+1)
		}
		if record[0] != labels[i] {
			return nil, nil, fmt.Errorf("row %d label %q does not match header label %q", i+1, record[0], labels[i])
		}
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d, column %s: %w", i+1, labels[j], err)
			}
			w.Set(i, j, v)
		}
	}

	if _, err := cr.Read(); err != io.EOF {
		return nil, nil, fmt.Errorf("matrix has more rows than header columns (%d)", n)
	}
	return w, labels, nil
}
