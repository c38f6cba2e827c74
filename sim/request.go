// Defines the Request struct that models a single client request crossing the shared network.
// Tracks the endpoints, circuit size used for prioritization, and the lifecycle status.

package sim

import (
	"fmt"
)

// Protocol names the application protocol a request runs once its route is granted.
type Protocol string

const (
	ProtocolQKDE91 Protocol = "QKD_E91"
	ProtocolACBQC  Protocol = "AC_BQC"
	ProtocolBFKBQC Protocol = "BFK_BQC"
)

// validProtocols maps accepted protocol names.
var validProtocols = map[Protocol]bool{
	ProtocolQKDE91: true,
	ProtocolACBQC:  true,
	ProtocolBFKBQC: true,
}

// IsValidProtocol returns true if name is a recognized protocol.
func IsValidProtocol(name string) bool {
	return validProtocols[Protocol(name)]
}

// RequestStatus represents the lifecycle state of a request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusScheduled RequestStatus = "scheduled"
	StatusExecuted  RequestStatus = "executed"
	StatusFailed    RequestStatus = "failed"
	StatusError     RequestStatus = "error"
)

// IsTerminal reports whether a request in this status will never be scheduled again.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusExecuted || s == StatusFailed || s == StatusError
}

// Request models one client->server job. Requests are identified by pointer
// within a run; the Scheduler and dispatch path are the only writers of
// SlicePath and Status.
type Request struct {
	ClientID  int // Node issuing the request (Alice)
	ServerID  int // Node serving the request (Bob)
	NumQubits int
	Protocol  Protocol

	// CircuitInstructions is the instruction count of the request's circuit.
	// It is the only property of the circuit the scheduler looks at.
	CircuitInstructions int
	CircuitDepth        int // 0 = unknown

	SlicePath Route // Set by slice allocation; nil when the request is routed per timeslot
	Scenario  int   // Protocol scenario selector (0 = unset)

	Status RequestStatus
}

// NewRequest creates a pending Request.
func NewRequest(client, server, numQubits int, protocol Protocol, instructions int) *Request {
	return &Request{
		ClientID:            client,
		ServerID:            server,
		NumQubits:           numQubits,
		Protocol:            protocol,
		CircuitInstructions: instructions,
		Status:              StatusPending,
	}
}

// This method returns a human-readable string representation of a Request.
func (req Request) String() string {
	return fmt.Sprintf("Request: (%d -> %d, Protocol: %s, Qubits: %d, Instructions: %d, Status: %s)",
		req.ClientID, req.ServerID, req.Protocol, req.NumQubits, req.CircuitInstructions, req.Status)
}
