package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysamo/BQC-testes/sim"
)

func TestSlicePaths_PenaltySpreadsSlices(t *testing.T) {
	// GIVEN a 4-ring where 0 reaches 2 through 1 or through 3
	n := mustNew(t, KindRing, []int{4}, Config{})

	// WHEN two slices from client 0 are computed
	paths, err := n.SlicePaths([]int{0, 0}, 2)
	require.NoError(t, err)

	// THEN the second slice avoids the links of the first
	require.Len(t, paths, 2)
	assert.Len(t, paths[0], 3)
	assert.Len(t, paths[1], 3)
	assert.NotEqual(t, paths[0][1], paths[1][1])
	assert.ElementsMatch(t, []int{1, 3}, []int{paths[0][1], paths[1][1]})
}

func TestSlicePaths_NoAlternative_ReusesLinks(t *testing.T) {
	n := mustNew(t, KindLine, []int{4}, Config{})

	paths, err := n.SlicePaths([]int{0, 1}, 3)
	require.NoError(t, err)

	assert.Equal(t, []sim.Route{{0, 1, 2, 3}, {1, 2, 3}}, paths)
}

func TestSlicePaths_InvalidEndpoints(t *testing.T) {
	n := mustNew(t, KindLine, []int{4}, Config{})
	_, err := n.SlicePaths([]int{0, 8}, 3)
	assert.True(t, errors.Is(err, sim.ErrSliceConfig))
}

func TestSlicePaths_FeedSliceScheduler(t *testing.T) {
	// GIVEN slices computed on a grid and configured on a SliceScheduler
	n := mustNew(t, KindGrid, []int{3, 3}, Config{})
	clients := []int{0, 2}
	paths, err := n.SlicePaths(clients, 8)
	require.NoError(t, err)
	ss := &sim.SliceScheduler{}
	require.NoError(t, ss.ConfigureSlices(clients, 8, []sim.Protocol{sim.ProtocolACBQC, sim.ProtocolBFKBQC}, paths))

	reqs := []*sim.Request{
		sim.NewRequest(0, 8, 1, sim.ProtocolACBQC, 4),
		sim.NewRequest(2, 8, 1, sim.ProtocolBFKBQC, 4),
		sim.NewRequest(0, 8, 1, sim.ProtocolACBQC, 4),
	}

	// WHEN the requests are allocated and executed
	schedule, err := ss.Schedule(reqs, nil, nil)
	require.NoError(t, err)
	require.NoError(t, sim.ExecuteSchedule(n, schedule))

	// THEN every request ran on its slice path
	assert.Equal(t, sim.SliceReport{SuccessCount: 3}, sim.SummarizeSchedule(schedule))
	assert.Equal(t, paths[1], reqs[1].SlicePath)
	assert.Equal(t, int64(2), n.Timeslot())
}
