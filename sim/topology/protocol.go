package topology

import (
	"github.com/polysamo/BQC-testes/sim"
)

// ProtocolRunner describes what a protocol needs from every link of its route.
type ProtocolRunner interface {
	// PairsPerLink returns how many entangled pairs req consumes on each link.
	PairsPerLink(req *sim.Request) int
}

// qkdE91 spends two pairs per key bit: half of the measurements are
// discarded when Alice's and Bob's bases disagree.
type qkdE91 struct{}

func (qkdE91) PairsPerLink(req *sim.Request) int { return 2 * req.NumQubits }

// andrewsChilds teleports the client's qubits to the server and back.
type andrewsChilds struct{}

func (andrewsChilds) PairsPerLink(req *sim.Request) int { return 2 * req.NumQubits }

// bfk sends the prepared qubits one way; measurement angles travel classically.
type bfk struct{}

func (bfk) PairsPerLink(req *sim.Request) int { return req.NumQubits }

// DefaultRunners returns a runner for every protocol the scheduler knows.
func DefaultRunners() map[sim.Protocol]ProtocolRunner {
	return map[sim.Protocol]ProtocolRunner{
		sim.ProtocolQKDE91: qkdE91{},
		sim.ProtocolACBQC:  andrewsChilds{},
		sim.ProtocolBFKBQC: bfk{},
	}
}
