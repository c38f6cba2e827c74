package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalPlacements      int
	SharedPlacements     int
	Conflicts            int
	ExecutedCount        int
	FailedCount          int
	UniqueTimeslots      int
	TimeslotDistribution map[int64]int // timeslot → count of requests placed
	FailureReasons       map[string]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TimeslotDistribution: make(map[int64]int),
		FailureReasons:       make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalPlacements = len(st.Placements)
	for _, p := range st.Placements {
		if p.Shared {
			summary.SharedPlacements++
		}
		summary.TimeslotDistribution[p.Timeslot]++
	}
	summary.Conflicts = len(st.Conflicts)

	for _, d := range st.Dispatches {
		if d.Executed {
			summary.ExecutedCount++
		} else {
			summary.FailedCount++
			summary.FailureReasons[d.Reason]++
		}
	}

	summary.UniqueTimeslots = len(summary.TimeslotDistribution)

	return summary
}
