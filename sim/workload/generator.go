package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/polysamo/BQC-testes/sim"
)

// GenerateRequests creates NumRequests pending requests from a WorkloadSpec.
// Deterministic given the same spec and seed. Each request gets a random
// circuit whose instruction count and depth feed the priority policy.
func GenerateRequests(spec *WorkloadSpec) ([]*sim.Request, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	qubitSampler, err := NewCountSampler(spec.QubitDist)
	if err != nil {
		return nil, fmt.Errorf("qubit distribution: %w", err)
	}
	instrSampler, err := NewCountSampler(spec.InstructionDist)
	if err != nil {
		return nil, fmt.Errorf("instruction distribution: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	workloadRNG := rng.ForSubsystem(sim.SubsystemWorkload)
	circuitRNG := rng.ForSubsystem(sim.SubsystemCircuit)
	protocols := spec.protocols()

	requests := make([]*sim.Request, 0, spec.NumRequests)
	for i := 0; i < spec.NumRequests; i++ {
		client := spec.Clients[workloadRNG.Intn(len(spec.Clients))]
		protocol := protocols[workloadRNG.Intn(len(protocols))]

		numQubits := qubitSampler.Sample(circuitRNG)
		circuit := RandomCircuit(numQubits, instrSampler.Sample(circuitRNG), circuitRNG)

		req := sim.NewRequest(client, spec.Server, numQubits, protocol, len(circuit.Gates))
		req.CircuitDepth = circuit.Depth()
		req.Scenario = spec.Scenario
		requests = append(requests, req)
		logrus.Debugf("Generated %v (depth %d)", req, req.CircuitDepth)
	}
	logrus.Infof("Generated %d requests (seed %d)", len(requests), spec.Seed)
	return requests, nil
}
