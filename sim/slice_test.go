package sim

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredSlices(t *testing.T) *SliceScheduler {
	t.Helper()
	ss := &SliceScheduler{}
	require.NoError(t, ss.ConfigureSlices(
		[]int{0, 1},
		5,
		[]Protocol{ProtocolACBQC, ProtocolBFKBQC},
		[]Route{{0, 4, 5}, {1, 4, 5}},
	))
	return ss
}

func TestConfigureSlices_CreatesOneSlicePerTriple(t *testing.T) {
	ss := configuredSlices(t)

	require.Len(t, ss.Slices, 2)
	assert.Equal(t, Slice{ID: "slice_2", ClientID: 1, ServerID: 5, Path: Route{1, 4, 5}, Protocol: ProtocolBFKBQC}, ss.Slices[1])
	assert.Equal(t, []Protocol{ProtocolACBQC, ProtocolBFKBQC}, ss.Protocols())
	assert.Equal(t, map[Protocol]string{ProtocolACBQC: "slice_1", ProtocolBFKBQC: "slice_2"}, ss.ProtocolMapping())
	assert.Equal(t, twoSlicePaths(), ss.SlicePaths())
}

func TestConfigureSlices_Errors(t *testing.T) {
	ss := &SliceScheduler{}
	err := ss.ConfigureSlices([]int{0, 1}, 5, []Protocol{ProtocolACBQC}, []Route{{0, 5}})
	assert.True(t, errors.Is(err, ErrSliceConfig))

	err = ss.ConfigureSlices([]int{0}, 5, []Protocol{ProtocolACBQC}, []Route{{5}})
	assert.True(t, errors.Is(err, ErrSliceConfig))
	assert.Empty(t, ss.Slices)
}

func TestConfigureSlices_PathEndpointsMustMatch(t *testing.T) {
	tests := []struct {
		name string
		path Route
	}{
		{"starts at another node", Route{1, 4, 5}},
		{"ends before the server", Route{0, 4}},
		{"reversed", Route{5, 4, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ss := &SliceScheduler{}
			err := ss.ConfigureSlices([]int{0}, 5, []Protocol{ProtocolACBQC}, []Route{tc.path})
			assert.True(t, errors.Is(err, ErrSliceConfig))
			assert.Empty(t, ss.Slices)
		})
	}
}

func TestSliceScheduler_Schedule_FallsBackToConfiguredSlices(t *testing.T) {
	ss := configuredSlices(t)
	reqs := []*Request{
		NewRequest(0, 5, 1, ProtocolACBQC, 1),
		NewRequest(1, 5, 1, ProtocolBFKBQC, 1),
		NewRequest(0, 5, 1, ProtocolACBQC, 1),
	}

	schedule, err := ss.Schedule(reqs, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, batchSizes(schedule))
	assert.Equal(t, Route{1, 4, 5}, reqs[1].SlicePath)
}

func TestSliceScheduler_NewAllocationStrategy(t *testing.T) {
	ss := configuredSlices(t)
	assert.IsType(t, &FixedCapacity{}, ss.NewAllocationStrategy(""))
	assert.IsType(t, &RoundRobin{}, ss.NewAllocationStrategy("round-robin"))
	assert.Panics(t, func() { ss.NewAllocationStrategy("random") })
}

func TestExecuteSchedule_RestartsAndAdvancesPerTimeslot(t *testing.T) {
	// GIVEN a schedule over timeslots 1 and 3
	net := newLineNetwork(2)
	ok := newTestRequest(0, 1, 1, 1)
	fails := newTestRequest(0, 1, 1, 1)
	later := newTestRequest(0, 1, 1, 1)
	schedule := SliceSchedule{1: {ok, fails}, 3: {later}}
	var clocks []int64
	net.executeFn = func(r *Request) (bool, error) {
		clocks = append(clocks, net.Timeslot())
		return r != fails, nil
	}

	// WHEN executed
	require.NoError(t, ExecuteSchedule(net, schedule))

	// THEN each timeslot ran on a restarted network at its own clock
	assert.Equal(t, 2, net.restarts)
	assert.Equal(t, []int64{1, 1, 3}, clocks)
	assert.Equal(t, StatusExecuted, ok.Status)
	assert.Equal(t, StatusFailed, fails.Status)
	assert.Equal(t, StatusExecuted, later.Status)
	assert.Equal(t, SliceReport{SuccessCount: 2, FailureCount: 1}, SummarizeSchedule(schedule))
}

func TestExecuteSchedule_ConfigurationError_Stops(t *testing.T) {
	net := newLineNetwork(2)
	bad := NewRequest(0, 1, 1, Protocol("X"), 1)
	after := newTestRequest(0, 1, 1, 1)
	schedule := SliceSchedule{1: {bad, after}}
	net.executeFn = func(r *Request) (bool, error) {
		if r == bad {
			return false, fmt.Errorf("%w: X", ErrUnknownProtocol)
		}
		return true, nil
	}

	err := ExecuteSchedule(net, schedule)

	assert.True(t, errors.Is(err, ErrUnknownProtocol))
	assert.Equal(t, StatusError, bad.Status)
	assert.Equal(t, SliceReport{ErrorCount: 1, PendingCount: 1}, SummarizeSchedule(schedule))
}

func TestPrintSchedule_RendersStatuses(t *testing.T) {
	req := newTestRequest(0, 1, 2, 1)
	req.SlicePath = Route{0, 1}
	req.Status = StatusExecuted
	var buf bytes.Buffer

	r := PrintSchedule(&buf, SliceSchedule{1: {req}})

	assert.Equal(t, 1, r.SuccessCount)
	assert.Contains(t, buf.String(), "[0 1]")
	assert.Contains(t, buf.String(), "Successes: 1  Failures: 0  Errors: 0")
}
