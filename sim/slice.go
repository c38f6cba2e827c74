package sim

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Slice is a dedicated logical path bound to one protocol. Slices are
// created once by ConfigureSlices and read-only afterwards.
type Slice struct {
	ID       string
	ClientID int
	ServerID int
	Path     Route
	Protocol Protocol
}

// SliceID returns the id of the i-th configured slice (1-based).
func SliceID(i int) string {
	return fmt.Sprintf("slice_%d", i)
}

// SliceScheduler allocates requests over pre-partitioned slices instead of
// routing them per timeslot.
type SliceScheduler struct {
	Slices []Slice
}

// ConfigureSlices creates one slice per (client, protocol, path) triple,
// all terminating at server. The three lists must have the same length.
func (ss *SliceScheduler) ConfigureSlices(clients []int, server int, protocols []Protocol, paths []Route) error {
	if len(clients) != len(protocols) || len(protocols) != len(paths) {
		return fmt.Errorf("%w: %d clients, %d protocols and %d paths must be equal",
			ErrSliceConfig, len(clients), len(protocols), len(paths))
	}
	slices := make([]Slice, 0, len(clients))
	for i := range clients {
		if len(paths[i]) < 2 {
			return fmt.Errorf("%w: path %v of %s has fewer than two nodes", ErrSliceConfig, paths[i], SliceID(i+1))
		}
		if first, last := paths[i][0], paths[i][len(paths[i])-1]; first != clients[i] || last != server {
			return fmt.Errorf("%w: path %v of %s must run from client %d to server %d",
				ErrSliceConfig, paths[i], SliceID(i+1), clients[i], server)
		}
		s := Slice{
			ID:       SliceID(i + 1),
			ClientID: clients[i],
			ServerID: server,
			Path:     paths[i].Clone(),
			Protocol: protocols[i],
		}
		slices = append(slices, s)
		logrus.Infof("Slice %s configured: client=%d server=%d path=%v protocol=%s",
			s.ID, s.ClientID, s.ServerID, s.Path, s.Protocol)
	}
	ss.Slices = slices
	logrus.Infof("%d slices configured", len(slices))
	return nil
}

// SlicePaths returns the path of every configured slice keyed by slice id.
func (ss *SliceScheduler) SlicePaths() map[string]Route {
	paths := make(map[string]Route, len(ss.Slices))
	for _, s := range ss.Slices {
		paths[s.ID] = s.Path.Clone()
	}
	return paths
}

// Protocols returns the protocol of every configured slice, in slice order.
func (ss *SliceScheduler) Protocols() []Protocol {
	protocols := make([]Protocol, 0, len(ss.Slices))
	for _, s := range ss.Slices {
		protocols = append(protocols, s.Protocol)
	}
	return protocols
}

// ProtocolMapping maps each protocol to the first slice bound to it.
func (ss *SliceScheduler) ProtocolMapping() map[Protocol]string {
	mapping := make(map[Protocol]string, len(ss.Slices))
	for _, s := range ss.Slices {
		if _, ok := mapping[s.Protocol]; !ok {
			mapping[s.Protocol] = s.ID
		}
	}
	return mapping
}

// Schedule allocates requests with the fixed-capacity strategy. Nil
// slicePaths or protocols fall back to the configured slices.
func (ss *SliceScheduler) Schedule(requests []*Request, slicePaths map[string]Route, protocols []Protocol) (SliceSchedule, error) {
	if slicePaths == nil {
		slicePaths = ss.SlicePaths()
	}
	if protocols == nil {
		protocols = ss.Protocols()
	}
	return ss.Allocate(&FixedCapacity{SlicePaths: slicePaths, Protocols: protocols}, requests)
}

// ScheduleRoundRobin interleaves already-grouped slice queues.
func (ss *SliceScheduler) ScheduleRoundRobin(queues []SliceQueue) SliceSchedule {
	schedule := ScheduleRoundRobin(queues)
	logrus.Infof("Requests scheduled round-robin over %d timeslots", len(schedule))
	return schedule
}

// Allocate runs strategy over requests and logs the resulting layout.
func (ss *SliceScheduler) Allocate(strategy AllocationStrategy, requests []*Request) (SliceSchedule, error) {
	schedule, err := strategy.Allocate(requests)
	if err != nil {
		return nil, err
	}
	for _, ts := range schedule.Timeslots() {
		logrus.Debugf("Timeslot %d: %d requests", ts, len(schedule[ts]))
	}
	logrus.Infof("%d requests allocated over %d timeslots", schedule.Len(), len(schedule))
	return schedule, nil
}

// NewAllocationStrategy creates an AllocationStrategy by name over the
// configured slices. Empty string defaults to fixed-capacity.
// Panics on unrecognized names.
func (ss *SliceScheduler) NewAllocationStrategy(name string) AllocationStrategy {
	if !ValidAllocationStrategies[name] {
		panic(fmt.Sprintf("unknown allocation strategy %q", name))
	}
	switch name {
	case "", "fixed-capacity":
		return &FixedCapacity{SlicePaths: ss.SlicePaths(), Protocols: ss.Protocols()}
	case "round-robin":
		return &RoundRobin{Mapping: ss.ProtocolMapping(), SlicePaths: ss.SlicePaths()}
	default:
		panic(fmt.Sprintf("unhandled allocation strategy %q", name))
	}
}

// ExecuteSchedule runs an allocated slice schedule on net. Before each
// timeslot the network is restarted and its clock brought up to the
// timeslot. Every request ends executed or failed; a configuration error
// marks the request with status error and stops the run.
func ExecuteSchedule(net Network, schedule SliceSchedule) error {
	for _, ts := range schedule.Timeslots() {
		logrus.Infof("Restarting network before timeslot %d", ts)
		net.Restart()
		for net.Timeslot() < ts {
			net.AdvanceTimeslot()
		}

		for _, req := range schedule[ts] {
			executed, err := net.Execute(req)
			if err != nil {
				req.Status = StatusError
				return fmt.Errorf("executing slice timeslot %d: %w", ts, err)
			}
			if executed {
				req.Status = StatusExecuted
			} else {
				req.Status = StatusFailed
			}
			logrus.Infof("%v at timeslot %d", req, ts)
		}
	}
	return nil
}

// SliceReport counts request outcomes in a slice schedule.
type SliceReport struct {
	SuccessCount int
	FailureCount int
	ErrorCount   int
	PendingCount int
}

// SummarizeSchedule counts the statuses of every request in schedule.
func SummarizeSchedule(schedule SliceSchedule) SliceReport {
	var r SliceReport
	for _, reqs := range schedule {
		for _, req := range reqs {
			switch req.Status {
			case StatusExecuted:
				r.SuccessCount++
			case StatusFailed:
				r.FailureCount++
			case StatusError:
				r.ErrorCount++
			default:
				r.PendingCount++
			}
		}
	}
	return r
}

// PrintSchedule renders a slice schedule with per-request status and a summary.
func PrintSchedule(w io.Writer, schedule SliceSchedule) SliceReport {
	fmt.Fprintln(w, "=== Slice Schedule Report ===")
	table := newTable(w, []string{"TIMESLOT", "CLIENT", "SERVER", "PROTOCOL", "QUBITS", "DEPTH", "SLICE PATH", "STATUS"})
	for _, ts := range schedule.Timeslots() {
		for _, req := range schedule[ts] {
			path := "unspecified"
			if req.SlicePath != nil {
				path = req.SlicePath.String()
			}
			status := req.Status
			if status == "" {
				status = StatusPending
			}
			table.Append([]string{
				strconv.FormatInt(ts, 10),
				strconv.Itoa(req.ClientID),
				strconv.Itoa(req.ServerID),
				string(req.Protocol),
				strconv.Itoa(req.NumQubits),
				depthString(req.CircuitDepth),
				path,
				string(status),
			})
		}
	}
	table.Render()

	r := SummarizeSchedule(schedule)
	fmt.Fprintf(w, "\nSuccesses: %d  Failures: %d  Errors: %d\n", r.SuccessCount, r.FailureCount, r.ErrorCount)
	return r
}
