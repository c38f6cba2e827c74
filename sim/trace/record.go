// Package trace provides decision-trace recording for scheduler analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// PlacementRecord captures a request being placed into a timeslot.
type PlacementRecord struct {
	ClientID int
	ServerID int
	Protocol string
	Clock    int64 // network timeslot when the decision was made
	Timeslot int64 // timeslot the request was placed in
	Route    []int
	Shared   bool // placed next to existing requests of the current timeslot
}

// ConflictRecord captures a failed attempt to share a timeslot.
type ConflictRecord struct {
	ClientID      int
	ServerID      int
	Timeslot      int64
	Route         []int
	ExistingRoute []int // nil when the existing request no longer has a route
	Overlap       []int // shared non-terminal nodes
}

// DispatchRecord captures the outcome of executing one scheduled request.
type DispatchRecord struct {
	ClientID int
	ServerID int
	Protocol string
	Timeslot int64
	Executed bool
	Reason   string // empty on success
}
