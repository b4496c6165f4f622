package modules

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coexnet/motif-comparison-service/pkg/config"
	"github.com/coexnet/motif-comparison-service/pkg/network"
)

// Result holds the detected gene modules for one cohort network
type Result struct {
	Modules      map[int][]string `json:"modules"`       // module ID -> gene labels
	GeneToModule map[string]int   `json:"gene_to_module"`
	Modularity   float64          `json:"modularity"`
	NumLevels    int              `json:"num_levels"`
	RuntimeMS    int64            `json:"runtime_ms"`
}

// communityState tracks module assignments during one optimization level
type communityState struct {
	nodeToComm   []int
	commNodes    [][]int
	commWeights  []float64
	commInternal []float64
}

func newCommunityState(g *moduleGraph) *communityState {
	n := g.numNodes
	state := &communityState{
		nodeToComm:   make([]int, n),
		commNodes:    make([][]int, n),
		commWeights:  make([]float64, n),
		commInternal: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		state.nodeToComm[i] = i
		state.commNodes[i] = []int{i}
		state.commWeights[i] = g.degrees[i]
		state.commInternal[i] = g.edgeWeight(i, i) * 2
	}
	return state
}

// modularity computes Newman's modularity of the current assignment
func (s *communityState) modularity(g *moduleGraph) float64 {
	if g.totalWeight == 0 {
		return 0
	}
	m2 := 2.0 * g.totalWeight
	q := 0.0
	for c := range s.commNodes {
		if len(s.commNodes[c]) == 0 {
			continue
		}
		q += s.commInternal[c]/m2 - (s.commWeights[c]/m2)*(s.commWeights[c]/m2)
	}
	return q
}

func (s *communityState) weightToComm(g *moduleGraph, node, comm int) float64 {
	w := 0.0
	for i, neighbor := range g.adjacency[node] {
		if s.nodeToComm[neighbor] == comm {
			w += g.weights[node][i]
		}
	}
	return w
}

func (s *communityState) move(g *moduleGraph, node, oldComm, newComm int) {
	if oldComm == newComm {
		return
	}
	degree := g.degrees[node]

	old := s.commNodes[oldComm]
	for i, n := range old {
		if n == node {
			s.commNodes[oldComm] = append(old[:i], old[i+1:]...)
			break
		}
	}
	oldWeight := s.weightToComm(g, node, oldComm)
	s.commWeights[oldComm] -= degree
	s.commInternal[oldComm] -= 2 * oldWeight

	s.commNodes[newComm] = append(s.commNodes[newComm], node)
	s.nodeToComm[node] = newComm

	newWeight := s.weightToComm(g, node, newComm)
	selfLoop := g.edgeWeight(node, node)
	s.commWeights[newComm] += degree
	s.commInternal[newComm] += 2 * (newWeight + selfLoop)
}

// oneLevel performs local modularity optimization until no move improves
func oneLevel(g *moduleGraph, s *communityState, cfg *config.Config, rng *rand.Rand, logger zerolog.Logger) (bool, int) {
	improvement := false
	totalMoves := 0

	nodes := make([]int, g.numNodes)
	for i := range nodes {
		nodes[i] = i
	}

	for iteration := 0; iteration < cfg.MaxIterations(); iteration++ {
		iterationMoves := 0
		rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		for _, node := range nodes {
			oldComm := s.nodeToComm[node]
			bestComm := oldComm
			bestGain := 0.0

			neighborComms := make(map[int]float64)
			for i, neighbor := range g.adjacency[node] {
				neighborComms[s.nodeToComm[neighbor]] += g.weights[node][i]
			}
			if _, ok := neighborComms[oldComm]; !ok {
				neighborComms[oldComm] = 0
			}

			for targetComm, edgeWeight := range neighborComms {
				if len(s.commNodes[targetComm]) == 0 {
					continue
				}
				gain := edgeWeight/g.totalWeight - (g.degrees[node]*s.commWeights[targetComm])/(2.0*g.totalWeight)
				if gain > bestGain {
					bestComm = targetComm
					bestGain = gain
				}
			}

			if bestComm != oldComm && bestGain > cfg.MinModularityGain() {
				s.move(g, node, oldComm, bestComm)
				iterationMoves++
				improvement = true
			}
		}

		totalMoves += iterationMoves
		if iterationMoves == 0 {
			logger.Debug().Int("iteration", iteration+1).Msg("Converged: no moves")
			break
		}
	}

	return improvement, totalMoves
}

// aggregate builds the next-level graph where nodes are modules, and
// returns the mapping from new nodes to the current-level nodes they absorb
func aggregate(g *moduleGraph, s *communityState) (*moduleGraph, [][]int, error) {
	commToSuper := make(map[int]int)
	var mapping [][]int
	for c := range s.commNodes {
		if len(s.commNodes[c]) > 0 {
			commToSuper[c] = len(mapping)
			members := make([]int, len(s.commNodes[c]))
			copy(members, s.commNodes[c])
			mapping = append(mapping, members)
		}
	}
	if len(mapping) == 0 {
		return nil, nil, fmt.Errorf("no non-empty modules to aggregate")
	}

	super := newModuleGraph(len(mapping))
	superEdges := make(map[[2]int]float64)
	for node := 0; node < g.numNodes; node++ {
		superU := commToSuper[s.nodeToComm[node]]
		for i, neighbor := range g.adjacency[node] {
			superV := commToSuper[s.nodeToComm[neighbor]]
			edge := [2]int{superU, superV}
			if superV < superU {
				edge = [2]int{superV, superU}
			}
			superEdges[edge] += g.weights[node][i]
		}
	}
	for edge, weight := range superEdges {
		if weight > 0 {
			super.addEdge(edge[0], edge[1], weight/2)
		}
	}
	return super, mapping, nil
}

// Detect runs Louvain modularity optimization on a binary co-expression
// graph and reports the gene modules of the final level.
func Detect(ctx context.Context, g *network.Graph, cfg *config.Config, logger zerolog.Logger) (*Result, error) {
	startTime := time.Now()

	if g.NumNodes == 0 {
		return nil, fmt.Errorf("cannot detect modules on an empty graph")
	}

	mg := fromNetwork(g)
	if err := mg.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	logger.Info().
		Int("genes", g.NumNodes).
		Int("edges", g.NumEdges()).
		Msg("Starting module detection")

	rng := rand.New(rand.NewSource(cfg.RandomSeed()))

	// geneOf[level-node] = original gene indices absorbed by that node
	geneOf := make([][]int, mg.numNodes)
	for i := range geneOf {
		geneOf[i] = []int{i}
	}

	current := mg
	state := newCommunityState(current)
	levels := 0

	for level := 0; level < cfg.MaxLevels(); level++ {
		improvement, moves := oneLevel(current, state, cfg, rng, logger)
		levels++

		logger.Debug().
			Int("level", level).
			Int("moves", moves).
			Float64("modularity", state.modularity(current)).
			Msg("Level completed")

		if !improvement {
			break
		}

		super, mapping, err := aggregate(current, state)
		if err != nil {
			return nil, fmt.Errorf("aggregation failed at level %d: %w", level, err)
		}
		if super.numNodes >= current.numNodes {
			break
		}

		// Carry gene membership up to the aggregated nodes
		nextGeneOf := make([][]int, super.numNodes)
		for superNode, members := range mapping {
			for _, node := range members {
				nextGeneOf[superNode] = append(nextGeneOf[superNode], geneOf[node]...)
			}
		}
		geneOf = nextGeneOf

		current = super
		state = newCommunityState(current)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	result := &Result{
		Modules:      make(map[int][]string),
		GeneToModule: make(map[string]int),
		Modularity:   state.modularity(current),
		NumLevels:    levels,
		RuntimeMS:    time.Since(startTime).Milliseconds(),
	}

	label := func(i int) string {
		if g.Labels != nil {
			return g.Labels[i]
		}
		return fmt.Sprintf("g%d", i)
	}

	moduleID := 0
	for c := range state.commNodes {
		if len(state.commNodes[c]) == 0 {
			continue
		}
		var genes []string
		for _, node := range state.commNodes[c] {
			for _, geneIdx := range geneOf[node] {
				genes = append(genes, label(geneIdx))
				result.GeneToModule[label(geneIdx)] = moduleID
			}
		}
		result.Modules[moduleID] = genes
		moduleID++
	}

	logger.Info().
		Int("modules", len(result.Modules)).
		Float64("modularity", result.Modularity).
		Int64("runtime_ms", result.RuntimeMS).
		Msg("Module detection completed")

	return result, nil
}
