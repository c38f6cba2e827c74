package workload

import (
	"math/rand"
)

var (
	singleQubitGates = []string{"h", "x", "y", "z", "s", "t"}
	twoQubitGates    = []string{"cx", "cz", "swap"}
)

// Gate is one circuit instruction acting on one or two qubits.
type Gate struct {
	Name   string
	Qubits []int
}

// Circuit is a random gate sequence over NumQubits qubits.
// Only its size and depth reach the scheduler.
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

// RandomCircuit draws numGates gates, each a single-qubit or a two-qubit
// gate with even odds. Circuits over one qubit only get single-qubit gates.
func RandomCircuit(numQubits, numGates int, rng *rand.Rand) Circuit {
	c := Circuit{NumQubits: numQubits, Gates: make([]Gate, 0, numGates)}
	for i := 0; i < numGates; i++ {
		if numQubits < 2 || rng.Intn(2) == 0 {
			c.Gates = append(c.Gates, Gate{
				Name:   singleQubitGates[rng.Intn(len(singleQubitGates))],
				Qubits: []int{rng.Intn(numQubits)},
			})
			continue
		}
		q1 := rng.Intn(numQubits)
		q2 := rng.Intn(numQubits - 1)
		if q2 >= q1 {
			q2++
		}
		c.Gates = append(c.Gates, Gate{
			Name:   twoQubitGates[rng.Intn(len(twoQubitGates))],
			Qubits: []int{q1, q2},
		})
	}
	return c
}

// Depth returns the number of layers when every gate is placed right after
// the latest gate on any of its qubits.
func (c Circuit) Depth() int {
	level := make([]int, c.NumQubits)
	depth := 0
	for _, g := range c.Gates {
		l := 0
		for _, q := range g.Qubits {
			l = max(l, level[q])
		}
		l++
		for _, q := range g.Qubits {
			level[q] = l
		}
		depth = max(depth, l)
	}
	return depth
}
