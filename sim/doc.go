// Package sim provides the admission-control and timeslot scheduler for a
// simulated shared-resource quantum network.
//
// # Reading Guide
//
// Start with these files to understand the scheduling core:
//   - request.go: Request lifecycle (pending → scheduled → executed/failed/error)
//   - reservation.go: link reservations per timeslot (single-slot and busy-set models)
//   - scheduler.go: the scheduling pass, timeslot sharing and next-free placement
//   - dispatch.go: executing planned timeslots and releasing reservations
//
// # Architecture
//
// The sim package defines the scheduler and its collaborator interface;
// implementations of the collaborator live in sub-packages:
//   - sim/topology/: reference Network (graphs, routing, entanglement pair pools, protocols)
//   - sim/workload/: request generation
//   - sim/trace/: decision trace recording
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Network: clock, routing oracle, execution and restart of the physical network
//   - ReservationTable: link occupancy per timeslot
//   - PriorityPolicy: order pending requests before each scheduling pass
//   - AllocationStrategy: assign requests to timeslots over pre-partitioned slices
package sim
