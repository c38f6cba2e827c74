package sim

import (
	"sort"
)

// fakeNetwork is an in-memory Network over an explicit adjacency list.
// Routes are breadth-first shortest paths with neighbours visited in
// ascending order, so results are deterministic.
type fakeNetwork struct {
	clock     Clock
	adj       map[int][]int
	down      map[Link]bool
	executeFn func(*Request) (bool, error)

	restarts  int
	executed  []*Request
	routeCall int
}

func newFakeNetwork(edges ...[2]int) *fakeNetwork {
	f := &fakeNetwork{adj: make(map[int][]int), down: make(map[Link]bool)}
	for _, e := range edges {
		f.adj[e[0]] = append(f.adj[e[0]], e[1])
		f.adj[e[1]] = append(f.adj[e[1]], e[0])
	}
	for n := range f.adj {
		sort.Ints(f.adj[n])
	}
	return f
}

// newLineNetwork builds 0-1-...-(n-1).
func newLineNetwork(n int) *fakeNetwork {
	edges := make([][2]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return newFakeNetwork(edges...)
}

func (f *fakeNetwork) Timeslot() int64  { return f.clock.Now() }
func (f *fakeNetwork) AdvanceTimeslot() { f.clock.Advance() }
func (f *fakeNetwork) Restart()         { f.restarts++ }

func (f *fakeNetwork) ShortestValidRoute(client, server int) (Route, bool) {
	f.routeCall++
	if _, ok := f.adj[client]; !ok {
		return nil, false
	}
	prev := map[int]int{client: client}
	frontier := []int{client}
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]
		if n == server {
			break
		}
		for _, next := range f.adj[n] {
			if _, seen := prev[next]; seen || f.down[NewLink(n, next)] {
				continue
			}
			prev[next] = n
			frontier = append(frontier, next)
		}
	}
	if _, ok := prev[server]; !ok {
		return nil, false
	}
	var route Route
	for n := server; ; n = prev[n] {
		route = append(Route{n}, route...)
		if n == client {
			break
		}
	}
	return route, true
}

func (f *fakeNetwork) Execute(req *Request) (bool, error) {
	f.executed = append(f.executed, req)
	if f.executeFn != nil {
		return f.executeFn(req)
	}
	return true, nil
}

func newTestRequest(client, server, qubits, instructions int) *Request {
	return NewRequest(client, server, qubits, ProtocolACBQC, instructions)
}

// scheduledEndpoints flattens the schedule table into [timeslot, client, server] triples.
func scheduledEndpoints(s *Scheduler) [][3]int64 {
	var out [][3]int64
	for _, ts := range s.ScheduledTimeslots() {
		for _, r := range s.Scheduled[ts] {
			out = append(out, [3]int64{ts, int64(r.ClientID), int64(r.ServerID)})
		}
	}
	return out
}
