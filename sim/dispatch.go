package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/polysamo/BQC-testes/sim/trace"
)

// Failure reasons recorded at dispatch.
const (
	ReasonNoRoute         = "no valid route at dispatch"
	ReasonExecutionFailed = "execution failed"
	ReasonUnknownFailure  = "unknown failure"
	ReasonUnknownProtocol = "unknown protocol"
)

// ExecuteScheduled dispatches every request planned at timeslot, in
// placement order, and then drops the timeslot from the schedule table.
// Each request's reservation is released whatever the outcome.
//
// A configuration error from the network (ErrUnknownProtocol) stops the
// pass: the offending request is recorded with status error and the
// error is returned; requests after it stay scheduled at timeslot.
func (s *Scheduler) ExecuteScheduled(timeslot int64) error {
	reqs, ok := s.Scheduled[timeslot]
	if !ok {
		logrus.Infof("No requests scheduled at timeslot %d", timeslot)
		return nil
	}

	logrus.Infof("Executing requests of timeslot %d", timeslot)
	for i, req := range reqs {
		if err := s.executeOne(req, timeslot); err != nil {
			if rest := reqs[i+1:]; len(rest) > 0 {
				s.Scheduled[timeslot] = rest
			} else {
				delete(s.Scheduled, timeslot)
			}
			return err
		}
	}
	delete(s.Scheduled, timeslot)
	s.Metrics.observe(s.Reservations.Len(), s.Network.Timeslot())
	return nil
}

func (s *Scheduler) executeOne(req *Request, timeslot int64) error {
	defer s.release(req)

	if _, ok := s.Network.ShortestValidRoute(req.ClientID, req.ServerID); !ok {
		logrus.Warnf("No valid route for %v at dispatch", req)
		req.Status = StatusFailed
		s.recordFailed(req, timeslot, ReasonNoRoute, "")
		return nil
	}

	executed, err := s.Network.Execute(req)
	if err != nil {
		req.Status = StatusError
		s.recordFailed(req, timeslot, ReasonUnknownProtocol, err.Error())
		return fmt.Errorf("dispatching %v at timeslot %d: %w", req, timeslot, err)
	}
	if !executed {
		logrus.Warnf("Failed to execute %v", req)
		req.Status = StatusFailed
		s.recordFailed(req, timeslot, ReasonExecutionFailed, "")
		return nil
	}

	logrus.Infof("Request executed: %v", req)
	req.Status = StatusExecuted
	s.Executed = append(s.Executed, ExecutedRecord{Request: req, Timeslot: timeslot})
	s.Metrics.recordExecuted()
	if s.Trace.Enabled() {
		s.Trace.RecordDispatch(trace.DispatchRecord{
			ClientID: req.ClientID,
			ServerID: req.ServerID,
			Protocol: string(req.Protocol),
			Timeslot: timeslot,
			Executed: true,
		})
	}
	return nil
}

// recordFailed appends a FailedRecord. It must run before the request's
// reservation is released so the reserved route can be reported.
// reason is one of the Reason constants and labels metrics and traces;
// detail, when set, replaces it in the FailedRecord.
func (s *Scheduler) recordFailed(req *Request, timeslot int64, reason, detail string) {
	if reason == "" {
		reason = ReasonUnknownFailure
	}
	recorded := reason
	if detail != "" {
		recorded = detail
	}
	route := "unspecified"
	if req.SlicePath != nil {
		route = req.SlicePath.String()
	} else if h, ok := s.held[req]; ok {
		route = h.route.String()
	}
	entry := FailedRecord{Request: *req, Reason: recorded, Route: route}
	s.Failed = append(s.Failed, entry)
	logrus.Infof("Failure recorded: %v, reason: %s, route: %s", req, recorded, route)

	s.Metrics.recordFailed(reason)
	if s.Trace.Enabled() {
		s.Trace.RecordDispatch(trace.DispatchRecord{
			ClientID: req.ClientID,
			ServerID: req.ServerID,
			Protocol: string(req.Protocol),
			Timeslot: timeslot,
			Reason:   reason,
		})
	}
}

// DispatchAll runs every planned timeslot in ascending order. After each
// timeslot the network restarts its aging resource pools, so the next
// timeslot starts from a fresh decoherence baseline.
func (s *Scheduler) DispatchAll() error {
	logrus.Info("Starting execution of scheduled requests")
	for _, ts := range s.ScheduledTimeslots() {
		logrus.Infof("Processing timeslot %d", ts)
		if err := s.ExecuteScheduled(ts); err != nil {
			return err
		}
		logrus.Debugf("Network state before restart: timeslot %d", s.Network.Timeslot())
		s.Network.Restart()
		logrus.Debugf("Network restarted at timeslot %d", s.Network.Timeslot())
	}
	return nil
}
