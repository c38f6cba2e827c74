package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_CountsOutcomesWithoutMutatingState(t *testing.T) {
	// GIVEN B executed at timeslot 1, A still planned at 2 and one unroutable request pending
	s, _, reqA, _ := newPlannedScheduler(t)
	require.NoError(t, s.ExecuteScheduled(1))
	s.Enqueue(newTestRequest(0, 9, 1, 1))

	// WHEN a report is built twice
	r := s.Report()
	again := s.Report()

	// THEN counts reflect every table and reporting changed nothing
	assert.Equal(t, r, again)
	assert.Equal(t, 1, r.Success)
	assert.Equal(t, 0, r.Failed)
	assert.Equal(t, 1, r.Scheduled)
	assert.Equal(t, 1, r.Pending)
	assert.Equal(t, s.RunID, r.RunID)
	require.Len(t, r.ScheduledDetails, 1)
	assert.Equal(t, ScheduledDetail{Timeslot: 2, ClientID: 0, ServerID: 3, NumQubits: 5}, r.ScheduledDetails[0])
	assert.Equal(t, StatusScheduled, reqA.Status)
	assert.Equal(t, 1, s.Pending.Len())
}

func TestReport_Print_RendersTablesAndSummary(t *testing.T) {
	s, net, _, _ := newPlannedScheduler(t)
	net.executeFn = func(r *Request) (bool, error) { return r.ClientID == 1, nil }
	require.NoError(t, s.DispatchAll())

	var buf bytes.Buffer
	s.Report().Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Executed requests:")
	assert.Contains(t, out, "Failed requests:")
	assert.NotContains(t, out, "Scheduled requests:")
	assert.Contains(t, out, ReasonExecutionFailed)
	assert.Contains(t, out, "[0 1 2 3]")
	assert.Contains(t, out, "N/A", "unknown circuit depth")
	assert.Contains(t, out, "Success: 1  Failed: 1  Scheduled: 0  Pending: 0")
}

func TestDepthString(t *testing.T) {
	assert.Equal(t, "N/A", depthString(0))
	assert.Equal(t, "12", depthString(12))
}
