package motif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapTestIdenticalGroups(t *testing.T) {
	group := []Counts{
		{Triangle: 3, VShape: 1},
		{Triangle: 3, VShape: 1},
		{Triangle: 3, VShape: 1},
	}

	result, err := BootstrapTest(group, group, 500, 42)
	require.NoError(t, err)

	// Constant identical groups: observed statistic is 0 and every
	// replicate reproduces it exactly.
	assert.Equal(t, 0.0, result.Observed)
	assert.Equal(t, 1.0, result.PValue)
}

func TestBootstrapTestPValueRange(t *testing.T) {
	groupA := []Counts{{Triangle: 5}, {Triangle: 7}, {Triangle: 3}, {Triangle: 6}}
	groupB := []Counts{{Triangle: 1}, {Triangle: 0}, {Triangle: 2}, {Triangle: 1}}

	result, err := BootstrapTest(groupA, groupB, 2000, 7)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.PValue, 0.0)
	assert.LessOrEqual(t, result.PValue, 1.0)
	assert.Greater(t, result.Observed, 0.0)
	assert.Equal(t, 2000, result.Replicates)
}

func TestBootstrapTestDeterministic(t *testing.T) {
	groupA := []Counts{{Triangle: 5, Square: 2}, {Triangle: 7, VShape: 4}, {Triangle: 3}}
	groupB := []Counts{{Triangle: 1}, {ThreeStar: 2}, {Triangle: 2, Square: 1}}

	first, err := BootstrapTest(groupA, groupB, 1000, 99)
	require.NoError(t, err)
	second, err := BootstrapTest(groupA, groupB, 1000, 99)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must give identical results")

	third, err := BootstrapTest(groupA, groupB, 1000, 100)
	require.NoError(t, err)
	assert.Equal(t, first.Observed, third.Observed, "observed statistic does not depend on the seed")
}

func TestBootstrapTestErrors(t *testing.T) {
	group := []Counts{{Triangle: 1}}

	_, err := BootstrapTest(nil, group, 100, 1)
	require.Error(t, err)

	_, err = BootstrapTest(group, nil, 100, 1)
	require.Error(t, err)

	_, err = BootstrapTest(group, group, 0, 1)
	require.Error(t, err)
}

func TestMeanDiffStatistic(t *testing.T) {
	groupA := []Counts{{Triangle: 2, VShape: 4}, {Triangle: 4, VShape: 0}}
	groupB := []Counts{{Triangle: 1, VShape: 1}}

	// means A = (3, 2, 0, 0), means B = (1, 1, 0, 0)
	assert.InDelta(t, 4.0+1.0, meanDiffStatistic(groupA, groupB), 1e-12)
}
