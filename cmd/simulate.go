package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/polysamo/BQC-testes/sim"
	"github.com/polysamo/BQC-testes/sim/trace"
)

// runOptions carries the CLI settings of one run, after flag parsing.
type runOptions struct {
	Policy      *sim.PolicyBundle // nil = defaults
	MaxAttempts int               // > 0 overrides the policy
	DrainRounds int               // Process calls made after the last arrival
	TraceLevel  string
	MetricsOut  string // Prometheus textfile path, empty = none
	Strategy    string // slice allocation strategy, empty = policy or default
}

// runResult is what a run leaves behind for printing and tests.
type runResult struct {
	Report   sim.Report
	Summary  *trace.TraceSummary // nil when tracing is off
	Fidelity float64
}

// simulate runs the online scheduler over a scenario: every request is
// received in order (each arrival triggers a scheduling pass), the queue is
// drained, then every planned timeslot is dispatched.
func simulate(sc *Scenario, opts runOptions, w io.Writer) (*runResult, error) {
	net, err := sc.BuildNetwork()
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	reqs, err := sc.BuildRequests()
	if err != nil {
		return nil, fmt.Errorf("building requests: %w", err)
	}

	var cfg sim.SchedulerConfig
	if opts.Policy != nil {
		opts.Policy.Apply(&cfg)
	}
	if opts.MaxAttempts > 0 {
		cfg.MaxAttempts = opts.MaxAttempts
	}
	s := sim.NewScheduler(net, cfg)

	reg := prometheus.NewRegistry()
	s.Metrics = sim.NewMetrics(reg)
	if trace.TraceLevel(opts.TraceLevel) == trace.TraceLevelDecisions {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions, RunID: s.RunID})
	}

	logrus.Infof("Run %s: %d requests on %s topology %v", s.RunID, len(reqs), sc.Topology.Kind, sc.Topology.Dims)
	for _, req := range reqs {
		s.Receive(req)
	}
	for round := 0; s.Pending.Len() > 0 && round < opts.DrainRounds; round++ {
		s.Process(0)
	}
	if n := s.Pending.Len(); n > 0 {
		logrus.Warnf("%d requests still pending after %d drain rounds", n, opts.DrainRounds)
	}

	if err := s.DispatchAll(); err != nil {
		return nil, err
	}

	res := &runResult{Report: s.Report(), Fidelity: net.AverageFidelity()}
	res.Report.Print(w)
	fmt.Fprintf(w, "Average route fidelity: %.4f\n", res.Fidelity)
	if s.Trace.Enabled() {
		summary := trace.Summarize(s.Trace)
		res.Summary = summary
		fmt.Fprintf(w, "Trace: %d placements (%d shared), %d share conflicts over %d timeslots\n",
			summary.TotalPlacements, summary.SharedPlacements, summary.Conflicts, summary.UniqueTimeslots)
	}

	if opts.MetricsOut != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsOut, reg); err != nil {
			return nil, fmt.Errorf("writing metrics: %w", err)
		}
		logrus.Infof("Metrics written to %s", opts.MetricsOut)
	}
	return res, nil
}

// simulateSlices runs the slice-based flow: configure slices, allocate every
// request with the chosen strategy, then execute the schedule.
func simulateSlices(sc *Scenario, opts runOptions, w io.Writer) (sim.SliceSchedule, sim.SliceReport, error) {
	net, err := sc.BuildNetwork()
	if err != nil {
		return nil, sim.SliceReport{}, fmt.Errorf("building network: %w", err)
	}
	ss := &sim.SliceScheduler{}
	if err := sc.ConfigureSlices(ss, net); err != nil {
		return nil, sim.SliceReport{}, err
	}
	reqs, err := sc.BuildRequests()
	if err != nil {
		return nil, sim.SliceReport{}, fmt.Errorf("building requests: %w", err)
	}

	strategy := opts.Strategy
	if strategy == "" && opts.Policy != nil {
		strategy = opts.Policy.Allocation
	}
	if !sim.ValidAllocationStrategies[strategy] {
		return nil, sim.SliceReport{}, fmt.Errorf("unknown allocation strategy %q", strategy)
	}
	schedule, err := ss.Allocate(ss.NewAllocationStrategy(strategy), reqs)
	if err != nil {
		return nil, sim.SliceReport{}, err
	}
	if err := sim.ExecuteSchedule(net, schedule); err != nil {
		return schedule, sim.SummarizeSchedule(schedule), err
	}
	return schedule, sim.PrintSchedule(w, schedule), nil
}
