package modules

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coexnet/motif-comparison-service/pkg/config"
	"github.com/coexnet/motif-comparison-service/pkg/network"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Set("modules.random_seed", int64(42))
	return cfg
}

// twoCliqueGraph builds two disjoint cliques of the given size
func twoCliqueGraph(t *testing.T, cliqueSize int) *network.Graph {
	t.Helper()
	g := network.NewGraph(2 * cliqueSize)
	labels := make([]string, 2*cliqueSize)
	for i := range labels {
		labels[i] = fmt.Sprintf("GENE%d", i)
	}
	g.Labels = labels

	for offset := 0; offset < 2*cliqueSize; offset += cliqueSize {
		for i := 0; i < cliqueSize; i++ {
			for j := i + 1; j < cliqueSize; j++ {
				require.NoError(t, g.AddEdge(offset+i, offset+j))
			}
		}
	}
	return g
}

func TestDetectTwoCliques(t *testing.T) {
	g := twoCliqueGraph(t, 6)

	result, err := Detect(context.Background(), g, testConfig(), zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, result.Modules, 2, "two disjoint cliques form two modules")
	assert.Greater(t, result.Modularity, 0.4)
	assert.Len(t, result.GeneToModule, 12)

	// Genes of the same clique share a module
	for i := 1; i < 6; i++ {
		assert.Equal(t, result.GeneToModule["GENE0"], result.GeneToModule[fmt.Sprintf("GENE%d", i)])
		assert.Equal(t, result.GeneToModule["GENE6"], result.GeneToModule[fmt.Sprintf("GENE%d", 6+i)])
	}
	assert.NotEqual(t, result.GeneToModule["GENE0"], result.GeneToModule["GENE6"])
}

func TestDetectBridgedCliques(t *testing.T) {
	g := twoCliqueGraph(t, 5)
	require.NoError(t, g.AddEdge(0, 5))

	result, err := Detect(context.Background(), g, testConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, result.Modules, 2, "a single bridge does not merge dense cliques")
}

func TestDetectDeterministic(t *testing.T) {
	g := twoCliqueGraph(t, 4)

	first, err := Detect(context.Background(), g, testConfig(), zerolog.Nop())
	require.NoError(t, err)
	second, err := Detect(context.Background(), g, testConfig(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, first.GeneToModule, second.GeneToModule)
	assert.Equal(t, first.Modularity, second.Modularity)
}

func TestDetectEmptyGraph(t *testing.T) {
	_, err := Detect(context.Background(), network.NewGraph(0), testConfig(), zerolog.Nop())
	require.Error(t, err)
}

func TestDetectNoEdges(t *testing.T) {
	g := network.NewGraph(5)

	result, err := Detect(context.Background(), g, testConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, result.Modules, 5, "isolated genes stay in singleton modules")
	assert.Equal(t, 0.0, result.Modularity)
}

func TestModuleGraphFromNetwork(t *testing.T) {
	g := network.NewGraph(3)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))

	mg := fromNetwork(g)
	require.NoError(t, mg.validate())
	assert.Equal(t, 2.0, mg.totalWeight)
	assert.Equal(t, 2.0, mg.degrees[1])
	assert.Equal(t, 1.0, mg.edgeWeight(0, 1))
	assert.Equal(t, 0.0, mg.edgeWeight(0, 2))
}
