package sim

import (
	"fmt"
	"sort"
)

// SliceSchedule maps a timeslot (starting at 1) to the requests allocated to it.
type SliceSchedule map[int64][]*Request

// Timeslots returns the allocated timeslots, ascending.
func (s SliceSchedule) Timeslots() []int64 {
	timeslots := make([]int64, 0, len(s))
	for ts := range s {
		timeslots = append(timeslots, ts)
	}
	sort.Slice(timeslots, func(i, j int) bool { return timeslots[i] < timeslots[j] })
	return timeslots
}

// Len returns the number of requests across all timeslots.
func (s SliceSchedule) Len() int {
	n := 0
	for _, reqs := range s {
		n += len(reqs)
	}
	return n
}

// AllocationStrategy assigns a flat request list to timeslots over
// pre-partitioned slices. Strategies are alternatives; they do not compose.
type AllocationStrategy interface {
	Allocate(requests []*Request) (SliceSchedule, error)
}

// FixedCapacity cuts the request list into consecutive batches of
// len(SlicePaths) requests, one batch per timeslot. Each request is given
// the path of the slice bound to its protocol: the protocol at index i of
// Protocols uses slice "slice_<i+1>".
type FixedCapacity struct {
	SlicePaths map[string]Route
	Protocols  []Protocol
}

func (f *FixedCapacity) Allocate(requests []*Request) (SliceSchedule, error) {
	if len(f.Protocols) == 0 {
		return nil, ErrNoProtocols
	}
	capacity := len(f.SlicePaths)
	if capacity == 0 {
		return nil, fmt.Errorf("%w: no slice paths", ErrSliceConfig)
	}

	// Resolve every path before touching any request.
	paths := make([]Route, len(requests))
	for i, req := range requests {
		idx := protocolIndex(f.Protocols, req.Protocol)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedProtocol, req.Protocol)
		}
		paths[i] = f.SlicePaths[SliceID(idx+1)]
	}

	schedule := make(SliceSchedule)
	ts := int64(1)
	for start := 0; start < len(requests); start += capacity {
		end := min(start+capacity, len(requests))
		schedule[ts] = append([]*Request(nil), requests[start:end]...)
		ts++
	}
	for i, req := range requests {
		if paths[i] != nil {
			req.SlicePath = paths[i].Clone()
		}
	}
	return schedule, nil
}

func protocolIndex(protocols []Protocol, p Protocol) int {
	for i, candidate := range protocols {
		if candidate == p {
			return i
		}
	}
	return -1
}

// SliceQueue is the ordered list of requests designated to one slice.
type SliceQueue struct {
	SliceID  string
	Requests []*Request
}

// MapRequestsToSlices groups requests by the slice their protocol maps to.
// Queues are ordered by the first request that reached them; requests keep
// their relative order inside a queue.
func MapRequestsToSlices(requests []*Request, mapping map[Protocol]string) ([]SliceQueue, error) {
	var queues []SliceQueue
	index := make(map[string]int)
	for _, req := range requests {
		sliceID, ok := mapping[req.Protocol]
		if !ok || sliceID == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedProtocol, req.Protocol)
		}
		i, seen := index[sliceID]
		if !seen {
			i = len(queues)
			index[sliceID] = i
			queues = append(queues, SliceQueue{SliceID: sliceID})
		}
		queues[i].Requests = append(queues[i].Requests, req)
	}
	return queues, nil
}

// ScheduleRoundRobin fills timeslots by taking the head of every non-empty
// queue in order, until all queues are drained. The caller's queues are not
// modified.
func ScheduleRoundRobin(queues []SliceQueue) SliceSchedule {
	heads := make([]int, len(queues))
	schedule := make(SliceSchedule)
	ts := int64(1)
	for {
		var slot []*Request
		for i, q := range queues {
			if heads[i] < len(q.Requests) {
				slot = append(slot, q.Requests[heads[i]])
				heads[i]++
			}
		}
		if len(slot) == 0 {
			return schedule
		}
		schedule[ts] = slot
		ts++
	}
}

// RoundRobin groups requests per protocol into their designated slice
// queue and interleaves the queues one request per slice per timeslot.
// When SlicePaths has an entry for the designated slice, the request is
// given that path.
type RoundRobin struct {
	Mapping    map[Protocol]string
	SlicePaths map[string]Route
}

func (r *RoundRobin) Allocate(requests []*Request) (SliceSchedule, error) {
	queues, err := MapRequestsToSlices(requests, r.Mapping)
	if err != nil {
		return nil, err
	}
	for _, q := range queues {
		path, ok := r.SlicePaths[q.SliceID]
		if !ok {
			continue
		}
		for _, req := range q.Requests {
			req.SlicePath = path.Clone()
		}
	}
	return ScheduleRoundRobin(queues), nil
}
