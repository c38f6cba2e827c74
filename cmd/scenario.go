package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polysamo/BQC-testes/sim"
	"github.com/polysamo/BQC-testes/sim/topology"
	"github.com/polysamo/BQC-testes/sim/workload"
)

// Scenario is the YAML description of one simulation run: the topology,
// the server every request targets, the requests themselves and, for the
// slices command, the slice layout.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Topology TopologySpec           `yaml:"topology"`
	Server   int                    `yaml:"server"`
	Requests []RequestSpec          `yaml:"requests,omitempty"`
	Workload *workload.WorkloadSpec `yaml:"workload,omitempty"` // server is taken from the scenario
	Slices   []SliceSpec            `yaml:"slices,omitempty"`
}

// TopologySpec selects the graph and the pair pool model.
type TopologySpec struct {
	Kind              string  `yaml:"kind"`
	Dims              []int   `yaml:"dims"`
	PairsPerLink      int     `yaml:"pairs_per_link,omitempty"`
	DecoherenceFactor float64 `yaml:"decoherence_factor,omitempty"`
	FidelityThreshold float64 `yaml:"fidelity_threshold,omitempty"`
}

// RequestSpec is one explicitly listed request.
type RequestSpec struct {
	Client       int    `yaml:"client"`
	Protocol     string `yaml:"protocol"`
	Qubits       int    `yaml:"qubits"`
	Instructions int    `yaml:"instructions"`
	Depth        int    `yaml:"depth,omitempty"`
	Scenario     int    `yaml:"scenario,omitempty"`
}

// SliceSpec binds a client and a protocol to a slice. Path is optional;
// when every slice omits it, paths are computed on the topology.
type SliceSpec struct {
	Client   int    `yaml:"client"`
	Protocol string `yaml:"protocol"`
	Path     []int  `yaml:"path,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file with strict field checking.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks the scenario without building anything.
func (sc *Scenario) Validate() error {
	if !topology.ValidKinds[sc.Topology.Kind] {
		return fmt.Errorf("unknown topology %q; valid: line, ring, grid", sc.Topology.Kind)
	}
	if len(sc.Requests) == 0 && sc.Workload == nil {
		return fmt.Errorf("scenario needs requests or a workload block")
	}
	for i, r := range sc.Requests {
		if !sim.IsValidProtocol(r.Protocol) {
			return fmt.Errorf("requests[%d]: unknown protocol %q", i, r.Protocol)
		}
		if r.Qubits < 1 {
			return fmt.Errorf("requests[%d]: qubits must be at least 1, got %d", i, r.Qubits)
		}
		if r.Instructions < 0 || r.Depth < 0 {
			return fmt.Errorf("requests[%d]: instructions and depth must be non-negative", i)
		}
	}
	withPath := 0
	for i, s := range sc.Slices {
		if !sim.IsValidProtocol(s.Protocol) {
			return fmt.Errorf("slices[%d]: unknown protocol %q", i, s.Protocol)
		}
		if len(s.Path) > 0 {
			withPath++
		}
	}
	if withPath != 0 && withPath != len(sc.Slices) {
		return fmt.Errorf("either every slice lists a path or none does")
	}
	return nil
}

// BuildNetwork creates the topology and checks every endpoint against it.
func (sc *Scenario) BuildNetwork() (*topology.Network, error) {
	net, err := topology.New(sc.Topology.Kind, sc.Topology.Dims, topology.Config{
		PairsPerLink:      sc.Topology.PairsPerLink,
		DecoherenceFactor: sc.Topology.DecoherenceFactor,
		FidelityThreshold: sc.Topology.FidelityThreshold,
	})
	if err != nil {
		return nil, err
	}
	clients := make([]int, 0, len(sc.Requests)+len(sc.Slices))
	for _, r := range sc.Requests {
		clients = append(clients, r.Client)
	}
	for _, s := range sc.Slices {
		clients = append(clients, s.Client)
	}
	if sc.Workload != nil {
		clients = append(clients, sc.Workload.Clients...)
	}
	if err := net.ValidateEndpoints(clients, sc.Server); err != nil {
		return nil, err
	}
	return net, nil
}

// BuildRequests returns the listed requests followed by the generated ones.
func (sc *Scenario) BuildRequests() ([]*sim.Request, error) {
	reqs := make([]*sim.Request, 0, len(sc.Requests))
	for _, r := range sc.Requests {
		req := sim.NewRequest(r.Client, sc.Server, r.Qubits, sim.Protocol(r.Protocol), r.Instructions)
		req.CircuitDepth = r.Depth
		req.Scenario = r.Scenario
		reqs = append(reqs, req)
	}
	if sc.Workload != nil {
		sc.Workload.Server = sc.Server
		generated, err := workload.GenerateRequests(sc.Workload)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, generated...)
	}
	return reqs, nil
}

// ConfigureSlices sets up ss from the scenario's slices, computing paths
// on net when the scenario lists none.
func (sc *Scenario) ConfigureSlices(ss *sim.SliceScheduler, net *topology.Network) error {
	if len(sc.Slices) == 0 {
		return fmt.Errorf("%w: scenario defines no slices", sim.ErrSliceConfig)
	}
	clients := make([]int, len(sc.Slices))
	protocols := make([]sim.Protocol, len(sc.Slices))
	paths := make([]sim.Route, len(sc.Slices))
	for i, s := range sc.Slices {
		clients[i] = s.Client
		protocols[i] = sim.Protocol(s.Protocol)
		paths[i] = sim.Route(s.Path)
	}
	if len(sc.Slices[0].Path) == 0 {
		computed, err := net.SlicePaths(clients, sc.Server)
		if err != nil {
			return err
		}
		paths = computed
	}
	return ss.ConfigureSlices(clients, sc.Server, protocols, paths)
}
