package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polysamo/BQC-testes/sim"
)

// WorkloadSpec describes a batch of randomly generated requests.
// Loaded from YAML via LoadWorkloadSpec(path), or embedded in a scenario file.
type WorkloadSpec struct {
	Seed        int64 `yaml:"seed"`
	NumRequests int   `yaml:"num_requests"`
	Clients     []int `yaml:"clients"`
	Server      int   `yaml:"server"`
	// Protocols to draw from uniformly. Empty draws between AC_BQC and BFK_BQC.
	Protocols       []string `yaml:"protocols,omitempty"`
	QubitDist       DistSpec `yaml:"qubit_distribution"`
	InstructionDist DistSpec `yaml:"instruction_distribution"`
	Scenario        int      `yaml:"scenario,omitempty"`
}

// DistSpec parameterizes a count distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DefaultProtocols are drawn from when a WorkloadSpec names none.
var DefaultProtocols = []sim.Protocol{sim.ProtocolACBQC, sim.ProtocolBFKBQC}

var validDistTypes = map[string]bool{
	"gaussian": true, "exponential": true, "uniform": true, "constant": true,
}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if s.NumRequests < 0 {
		return fmt.Errorf("num_requests must be non-negative, got %d", s.NumRequests)
	}
	if len(s.Clients) == 0 {
		return fmt.Errorf("at least one client required")
	}
	for i, c := range s.Clients {
		if c == s.Server {
			return fmt.Errorf("clients[%d]: client %d is the server", i, c)
		}
	}
	for i, p := range s.Protocols {
		if !sim.IsValidProtocol(p) {
			return fmt.Errorf("protocols[%d]: unknown protocol %q; valid: QKD_E91, AC_BQC, BFK_BQC", i, p)
		}
	}
	if s.Scenario < 0 {
		return fmt.Errorf("scenario must be non-negative, got %d", s.Scenario)
	}
	if err := validateDistSpec("qubit_distribution", &s.QubitDist); err != nil {
		return err
	}
	return validateDistSpec("instruction_distribution", &s.InstructionDist)
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: gaussian, exponential, uniform, constant", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}

func (s *WorkloadSpec) protocols() []sim.Protocol {
	if len(s.Protocols) == 0 {
		return DefaultProtocols
	}
	out := make([]sim.Protocol, len(s.Protocols))
	for i, p := range s.Protocols {
		out[i] = sim.Protocol(p)
	}
	return out
}
