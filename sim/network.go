package sim

import "errors"

// Network is the collaborator the Scheduler drives. It owns the clock and
// the physical resources; the Scheduler never reaches past this interface.
type Network interface {
	// Timeslot returns the current timeslot.
	Timeslot() int64
	// AdvanceTimeslot moves the clock forward by one and ages resources.
	AdvanceTimeslot()
	// ShortestValidRoute returns the shortest route from client to server
	// over links that can currently serve a request. It MUST NOT advance
	// the clock.
	ShortestValidRoute(client, server int) (Route, bool)
	// Execute runs the request's protocol. A false result is an execution
	// failure; an error is a configuration problem (see ErrUnknownProtocol).
	Execute(req *Request) (bool, error)
	// Restart resets aging resource pools between dispatched timeslots.
	Restart()
}

var (
	// ErrUnknownProtocol is returned when a request names a protocol the network cannot run.
	ErrUnknownProtocol = errors.New("unknown protocol")
	// ErrSliceConfig is returned when slice configuration lists disagree.
	ErrSliceConfig = errors.New("invalid slice configuration")
	// ErrUnmappedProtocol is returned when a request's protocol has no slice.
	ErrUnmappedProtocol = errors.New("protocol not mapped to any slice")
	// ErrNoProtocols is returned when fixed-capacity allocation has no protocol list.
	ErrNoProtocols = errors.New("protocol list not provided")
)
