package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tram-tr/turing-machine/internal/engine"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario (and names its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Machine is the path to the machine definition.
	// Relative paths are resolved against the scenario file's directory.
	Machine string `yaml:"machine"`

	// Policy is the budget policy for every case ("expansions" if empty).
	Policy string `yaml:"policy,omitempty"`

	// Cases are traced in order.
	Cases []Case `yaml:"cases"`
}

// Case is one traced input.
type Case struct {
	Input    string `yaml:"input"`
	MaxSteps int    `yaml:"max_steps"`
	Expect   Expect `yaml:"expect"`
}

// Expect lists what a case must report. Nil fields are not checked.
type Expect struct {
	Outcome     string `yaml:"outcome"`
	Transitions *int   `yaml:"transitions,omitempty"`
	MaxDepth    *int   `yaml:"max_depth,omitempty"`
	Steps       *int   `yaml:"steps,omitempty"`
	PathLen     *int   `yaml:"path_len,omitempty"`
	Final       string `yaml:"final,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the machine path relative to the scenario BEFORE validation
	if scenario.Machine != "" && !filepath.IsAbs(scenario.Machine) {
		scenario.Machine = filepath.Join(filepath.Dir(path), scenario.Machine)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without resolving or validating paths.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Machine == "" {
		return fmt.Errorf("machine is required")
	}
	if _, err := os.Stat(s.Machine); os.IsNotExist(err) {
		return fmt.Errorf("machine file not found: %s", s.Machine)
	}

	if _, err := engine.ParseBudgetPolicy(s.Policy); err != nil {
		return err
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.MaxSteps < 1 {
			return fmt.Errorf("cases[%d]: max_steps must be at least 1", i)
		}
		if c.Expect.Outcome == "" {
			return fmt.Errorf("cases[%d].expect: outcome is required", i)
		}
		if _, err := engine.ParseOutcome(c.Expect.Outcome); err != nil {
			return fmt.Errorf("cases[%d].expect: %w", i, err)
		}
	}

	return nil
}
