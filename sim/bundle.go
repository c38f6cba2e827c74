package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds unified scheduler policy configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override the defaults.
// String fields use empty string for "not set".
type PolicyBundle struct {
	Priority     string `yaml:"priority"`
	Reservation  string `yaml:"reservation"`
	Allocation   string `yaml:"allocation"`
	MaxAttempts  *int   `yaml:"max_attempts"`
	MaxLookahead *int64 `yaml:"max_lookahead"`
}

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Unknown keys are rejected so typos surface as errors.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// ValidAllocationStrategies is the set of recognized slice allocation strategy names.
var ValidAllocationStrategies = map[string]bool{"": true, "fixed-capacity": true, "round-robin": true}

// Validate checks that all policy names and parameter ranges in the bundle are valid.
func (b *PolicyBundle) Validate() error {
	if !ValidPriorityPolicies[b.Priority] {
		return fmt.Errorf("unknown priority policy %q", b.Priority)
	}
	if !ValidReservationModels[b.Reservation] {
		return fmt.Errorf("unknown reservation model %q", b.Reservation)
	}
	if !ValidAllocationStrategies[b.Allocation] {
		return fmt.Errorf("unknown allocation strategy %q", b.Allocation)
	}
	if b.MaxAttempts != nil && *b.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", *b.MaxAttempts)
	}
	if b.MaxLookahead != nil && *b.MaxLookahead < 1 {
		return fmt.Errorf("max_lookahead must be at least 1, got %d", *b.MaxLookahead)
	}
	return nil
}

// Apply overlays the fields set in the bundle onto cfg.
func (b *PolicyBundle) Apply(cfg *SchedulerConfig) {
	if b.Priority != "" {
		cfg.Priority = b.Priority
	}
	if b.Reservation != "" {
		cfg.Reservation = b.Reservation
	}
	if b.MaxAttempts != nil {
		cfg.MaxAttempts = *b.MaxAttempts
	}
	if b.MaxLookahead != nil {
		cfg.MaxLookahead = *b.MaxLookahead
	}
}
