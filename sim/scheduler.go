package sim

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/polysamo/BQC-testes/sim/trace"
)

const (
	// DefaultMaxAttempts halts a scheduling pass at the first request that cannot be placed.
	DefaultMaxAttempts = 1
	// DefaultMaxLookahead bounds the forward search for a free timeslot.
	DefaultMaxLookahead int64 = 64
)

// SchedulerConfig groups the tunable scheduler parameters.
// Zero values select the defaults.
type SchedulerConfig struct {
	Priority     string // priority policy name, see ValidPriorityPolicies
	Reservation  string // reservation model name, see ValidReservationModels
	MaxAttempts  int    // contention budget of one Process call
	MaxLookahead int64  // timeslots probed by the next-free search
}

// ExecutedRecord is one entry of the executed history.
type ExecutedRecord struct {
	Request  *Request
	Timeslot int64
}

// FailedRecord is one entry of the failure history. Request is a snapshot
// taken when the failure was recorded.
type FailedRecord struct {
	Request Request
	Reason  string
	Route   string // route text, or "unspecified"
}

// hold remembers what was reserved for a scheduled request so the release
// uses exactly the same route and timeslot.
type hold struct {
	route    Route
	timeslot int64
}

// Scheduler is the admission-control and timeslot scheduler. It is the
// single owner of the pending queue, the reservation table and the
// schedule table of one network.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Scheduler struct {
	Network      Network
	Pending      *PendingQueue
	Reservations ReservationTable
	// Scheduled maps a timeslot to the requests planned for it, in placement order.
	Scheduled map[int64][]*Request
	Executed  []ExecutedRecord
	Failed    []FailedRecord

	Priority     PriorityPolicy
	MaxAttempts  int
	MaxLookahead int64

	// Trace and Metrics are optional; nil disables them.
	Trace   *trace.SimulationTrace
	Metrics *Metrics
	RunID   string

	held map[*Request]hold
}

// NewScheduler creates a Scheduler driving net.
// Panics on unrecognized policy names; validate names with PolicyBundle.Validate first.
func NewScheduler(net Network, cfg SchedulerConfig) *Scheduler {
	if net == nil {
		panic("NewScheduler: network must not be nil")
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	maxLookahead := cfg.MaxLookahead
	if maxLookahead <= 0 {
		maxLookahead = DefaultMaxLookahead
	}
	return &Scheduler{
		Network:      net,
		Pending:      &PendingQueue{},
		Reservations: NewReservationTable(cfg.Reservation),
		Scheduled:    make(map[int64][]*Request),
		Priority:     NewPriorityPolicy(cfg.Priority),
		MaxAttempts:  maxAttempts,
		MaxLookahead: maxLookahead,
		RunID:        uuid.NewString(),
		held:         make(map[*Request]hold),
	}
}

// Enqueue adds a request to the pending queue without running a scheduling pass.
// Requests that are already queued, scheduled or terminal are dropped, so a
// request is placed at most once.
func (s *Scheduler) Enqueue(req *Request) {
	if req.Status.IsTerminal() {
		logrus.Warnf("Dropping %v: terminal requests are never re-queued", req)
		return
	}
	if _, ok := s.held[req]; ok || req.Status == StatusScheduled {
		logrus.Warnf("Dropping %v: request is already scheduled", req)
		return
	}
	if s.Pending.Contains(req) {
		logrus.Warnf("Dropping %v: request is already pending", req)
		return
	}
	req.Status = StatusPending
	s.Pending.Enqueue(req)
	logrus.Infof("Request received: %v", req)
}

// Receive enqueues a request and triggers one scheduling pass.
func (s *Scheduler) Receive(req *Request) {
	s.Enqueue(req)
	s.Process(0)
}

// Process places pending requests in priority order until the queue is
// empty or maxAttempts consecutive placements fail. Every failure advances
// the network clock by one timeslot. A non-positive maxAttempts uses the
// configured default.
func (s *Scheduler) Process(maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = s.MaxAttempts
	}
	s.Pending.Reorder(s.Priority.OrderQueue)

	attempts := 0
	for s.Pending.Len() > 0 && attempts < maxAttempts {
		now := s.Network.Timeslot()
		// Timeslot 0 is never scheduled into.
		if now == 0 {
			s.Network.AdvanceTimeslot()
			now = s.Network.Timeslot()
		}

		req := s.Pending.Peek()
		if s.TrySchedule(req, now) {
			s.Pending.Dequeue()
			attempts = 0
			continue
		}
		logrus.Infof("%v could not be scheduled at timeslot %d, advancing timeslot", req, now)
		s.Network.AdvanceTimeslot()
		s.Metrics.recordContention()
		attempts++
	}
	s.Metrics.observe(s.Reservations.Len(), s.Network.Timeslot())
}

// TrySchedule attempts to place req at timeslot now, either by sharing now
// with the requests already planned there or at the next timeslot where the
// whole route is free. Returns false, without recording anything, when the
// request has no route or no free timeslot within MaxLookahead.
func (s *Scheduler) TrySchedule(req *Request, now int64) bool {
	route, ok := s.Network.ShortestValidRoute(req.ClientID, req.ServerID)
	if !ok || len(route) < 2 {
		logrus.Debugf("No valid route for %v", req)
		return false
	}

	if len(s.Scheduled[now]) > 0 && s.share(req, route, now) {
		s.place(req, route, now, true)
		return true
	}

	ts, ok := FindNextAvailable(slotView{ReservationTable: s.Reservations, s: s}, route, now, s.MaxLookahead)
	if !ok {
		logrus.Warnf("No free timeslot for route %v within %d timeslots of %d", route, s.MaxLookahead, now)
		return false
	}
	s.place(req, route, ts, false)
	return true
}

// share reports whether route can join the requests already planned at
// timeslot. Existing requests are checked newest first; their routes are
// recomputed because link state may have changed since they were placed.
func (s *Scheduler) share(req *Request, route Route, timeslot int64) bool {
	reqs := s.Scheduled[timeslot]
	for i := len(reqs) - 1; i >= 0; i-- {
		existing, ok := s.Network.ShortestValidRoute(reqs[i].ClientID, reqs[i].ServerID)
		overlap := route.Overlap(existing)
		if ok && len(overlap) == 0 {
			continue
		}
		logrus.Debugf("Route %v conflicts with %v at timeslot %d (shared nodes %v)", route, existing, timeslot, overlap)
		s.Metrics.recordShareConflict()
		if s.Trace.Enabled() {
			s.Trace.RecordConflict(trace.ConflictRecord{
				ClientID:      req.ClientID,
				ServerID:      req.ServerID,
				Timeslot:      timeslot,
				Route:         route.Clone(),
				ExistingRoute: existing.Clone(),
				Overlap:       overlap,
			})
		}
		return false
	}
	return true
}

// conflictsAt reports whether route overlaps any request already planned at timeslot.
func (s *Scheduler) conflictsAt(route Route, timeslot int64) bool {
	for _, planned := range s.Scheduled[timeslot] {
		existing, ok := s.Network.ShortestValidRoute(planned.ClientID, planned.ServerID)
		if !ok || route.Overlaps(existing) {
			return true
		}
	}
	return false
}

// slotView narrows link availability by the share rule, so the next-free
// search never lands on a timeslot whose planned requests overlap the route.
type slotView struct {
	ReservationTable
	s *Scheduler
}

func (v slotView) IsAvailable(route Route, timeslot int64) bool {
	return v.ReservationTable.IsAvailable(route, timeslot) && !v.s.conflictsAt(route, timeslot)
}

func (s *Scheduler) place(req *Request, route Route, timeslot int64, shared bool) {
	s.Reservations.Reserve(route, timeslot)
	s.held[req] = hold{route: route.Clone(), timeslot: timeslot}
	s.Scheduled[timeslot] = append(s.Scheduled[timeslot], req)
	req.Status = StatusScheduled

	if shared {
		logrus.Infof("%v scheduled in shared timeslot %d on route %v", req, timeslot, route)
	} else {
		logrus.Infof("%v scheduled at timeslot %d on route %v", req, timeslot, route)
	}
	s.Metrics.recordScheduled(shared)
	if s.Trace.Enabled() {
		s.Trace.RecordPlacement(trace.PlacementRecord{
			ClientID: req.ClientID,
			ServerID: req.ServerID,
			Protocol: string(req.Protocol),
			Clock:    s.Network.Timeslot(),
			Timeslot: timeslot,
			Route:    route.Clone(),
			Shared:   shared,
		})
	}
}

// release drops the reservation held for req, if any.
func (s *Scheduler) release(req *Request) {
	h, ok := s.held[req]
	if !ok {
		return
	}
	s.Reservations.Release(h.route, h.timeslot)
	delete(s.held, req)
}

// ScheduledTimeslots returns the timeslots with planned requests, ascending.
func (s *Scheduler) ScheduledTimeslots() []int64 {
	timeslots := make([]int64, 0, len(s.Scheduled))
	for ts := range s.Scheduled {
		timeslots = append(timeslots, ts)
	}
	sort.Slice(timeslots, func(i, j int) bool { return timeslots[i] < timeslots[j] })
	return timeslots
}

// ReservedRoute returns the route held for a scheduled request.
func (s *Scheduler) ReservedRoute(req *Request) (Route, int64, bool) {
	h, ok := s.held[req]
	if !ok {
		return nil, 0, false
	}
	return h.route.Clone(), h.timeslot, true
}
