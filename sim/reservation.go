package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReservationTable is the authority on link occupancy per timeslot.
// Reserve and Release are always paired by the Scheduler: every route that
// is reserved is released exactly once, with the same timeslot.
type ReservationTable interface {
	// IsAvailable reports whether every link of route is free at timeslot.
	IsAvailable(route Route, timeslot int64) bool
	// Reserve marks every link of route as held at timeslot.
	Reserve(route Route, timeslot int64)
	// Release drops the hold taken by Reserve. Releasing links that hold
	// nothing is a no-op.
	Release(route Route, timeslot int64)
	// Len returns the number of links with at least one outstanding hold.
	Len() int
}

// SingleSlotTable records one timeslot per link. Reserving a link overwrites
// whatever timeslot it held before, so a link only reports a conflict when
// queried for exactly its last recorded timeslot.
type SingleSlotTable struct {
	occupied map[Link]int64
}

// NewSingleSlotTable creates an empty SingleSlotTable.
func NewSingleSlotTable() *SingleSlotTable {
	return &SingleSlotTable{occupied: make(map[Link]int64)}
}

func (t *SingleSlotTable) IsAvailable(route Route, timeslot int64) bool {
	for _, link := range route.Links() {
		if ts, ok := t.occupied[link]; ok && ts == timeslot {
			logrus.Debugf("Conflict: link %v occupied at timeslot %d", link, timeslot)
			return false
		}
	}
	return true
}

func (t *SingleSlotTable) Reserve(route Route, timeslot int64) {
	for _, link := range route.Links() {
		t.occupied[link] = timeslot
	}
	logrus.Debugf("Route %v reserved at timeslot %d", route, timeslot)
}

// Release removes every link entry of route. The timeslot is ignored:
// a link holds at most one reservation in this model.
func (t *SingleSlotTable) Release(route Route, _ int64) {
	for _, link := range route.Links() {
		delete(t.occupied, link)
	}
	logrus.Debugf("Route %v released", route)
}

func (t *SingleSlotTable) Len() int {
	return len(t.occupied)
}

// BusySetTable keeps the set of busy timeslots per link, so a link can be
// held for several future timeslots at once.
type BusySetTable struct {
	busy map[Link]map[int64]struct{}
}

// NewBusySetTable creates an empty BusySetTable.
func NewBusySetTable() *BusySetTable {
	return &BusySetTable{busy: make(map[Link]map[int64]struct{})}
}

func (t *BusySetTable) IsAvailable(route Route, timeslot int64) bool {
	for _, link := range route.Links() {
		if _, ok := t.busy[link][timeslot]; ok {
			logrus.Debugf("Conflict: link %v busy at timeslot %d", link, timeslot)
			return false
		}
	}
	return true
}

func (t *BusySetTable) Reserve(route Route, timeslot int64) {
	for _, link := range route.Links() {
		slots, ok := t.busy[link]
		if !ok {
			slots = make(map[int64]struct{})
			t.busy[link] = slots
		}
		slots[timeslot] = struct{}{}
	}
	logrus.Debugf("Route %v reserved at timeslot %d", route, timeslot)
}

func (t *BusySetTable) Release(route Route, timeslot int64) {
	for _, link := range route.Links() {
		slots, ok := t.busy[link]
		if !ok {
			continue
		}
		delete(slots, timeslot)
		if len(slots) == 0 {
			delete(t.busy, link)
		}
	}
	logrus.Debugf("Route %v released from timeslot %d", route, timeslot)
}

func (t *BusySetTable) Len() int {
	return len(t.busy)
}

// FindNextAvailable scans forward from start for the first timeslot at which
// the whole route is free. At most maxLookahead timeslots are probed; a
// non-positive maxLookahead probes only start. Returns false when the
// window is exhausted.
func FindNextAvailable(table ReservationTable, route Route, start, maxLookahead int64) (int64, bool) {
	if maxLookahead < 1 {
		maxLookahead = 1
	}
	for ts := start; ts < start+maxLookahead; ts++ {
		if table.IsAvailable(route, ts) {
			return ts, true
		}
	}
	return 0, false
}

// ValidReservationModels is the set of recognized reservation model names.
var ValidReservationModels = map[string]bool{"": true, "single-slot": true, "busy-set": true}

// NewReservationTable creates a ReservationTable by model name.
// Empty string defaults to single-slot. Panics on unrecognized names.
func NewReservationTable(model string) ReservationTable {
	if !ValidReservationModels[model] {
		panic(fmt.Sprintf("unknown reservation model %q", model))
	}
	switch model {
	case "", "single-slot":
		return NewSingleSlotTable()
	case "busy-set":
		return NewBusySetTable()
	default:
		panic(fmt.Sprintf("unhandled reservation model %q", model))
	}
}
