package network

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteEdgeList writes the graph as a CSV of (source, target) pairs, one row
// per undirected edge, with a "source,target" header. Vertices with labels
// are written by label, otherwise by index.
func (g *Graph) WriteEdgeList(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	name := func(i int) string {
		if g.Labels != nil {
			return g.Labels[i]
		}
		return strconv.Itoa(i)
	}

	for i := 0; i < g.NumNodes; i++ {
		for j := i + 1; j < g.NumNodes; j++ {
			if g.HasEdge(i, j) {
				if err := cw.Write([]string{name(i), name(j)}); err != nil {
					return fmt.Errorf("failed to write edge (%d,%d): %w", i, j, err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEdgeListFile writes the edge list CSV to the given path
func (g *Graph) WriteEdgeListFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create edge list file: %w", err)
	}
	defer file.Close()
	return g.WriteEdgeList(file)
}
