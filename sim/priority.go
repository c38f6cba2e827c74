package sim

import (
	"fmt"
	"sort"
)

// PriorityPolicy reorders the pending queue before every scheduling pass.
// The whole remaining pending set is passed each time, so a request's
// position may change relative to requests submitted after it.
// Implementations sort the slice in-place using sort.SliceStable for determinism.
type PriorityPolicy interface {
	OrderQueue(requests []*Request)
}

// QubitDepthPriority orders by qubit count (ascending), then by circuit
// instruction count (descending): small requests first, and among equally
// sized requests the deeper circuit first. Ties keep submission order.
type QubitDepthPriority struct{}

func (q *QubitDepthPriority) OrderQueue(reqs []*Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].NumQubits != reqs[j].NumQubits {
			return reqs[i].NumQubits < reqs[j].NumQubits
		}
		return reqs[i].CircuitInstructions > reqs[j].CircuitInstructions
	})
}

// FCFSPriority preserves submission order (no-op).
type FCFSPriority struct{}

func (f *FCFSPriority) OrderQueue(_ []*Request) {
	// No-op: FIFO order preserved from enqueue order
}

// ValidPriorityPolicies is the set of recognized priority policy names.
var ValidPriorityPolicies = map[string]bool{"": true, "qubits-depth": true, "fcfs": true}

// NewPriorityPolicy creates a PriorityPolicy by name.
// Empty string defaults to QubitDepthPriority (for CLI flag default compatibility).
// Panics on unrecognized names.
func NewPriorityPolicy(name string) PriorityPolicy {
	if !ValidPriorityPolicies[name] {
		panic(fmt.Sprintf("unknown priority policy %q", name))
	}
	switch name {
	case "", "qubits-depth":
		return &QubitDepthPriority{}
	case "fcfs":
		return &FCFSPriority{}
	default:
		panic(fmt.Sprintf("unhandled priority policy %q", name))
	}
}
