package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/farkas/internal/compiler"
)

// DefaultRunID is used when a scenario does not fix its own run ID.
const DefaultRunID = "scenario-run"

// Scenario defines a checker test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Declare gives symbol sorts shared by every step and idiv case.
	// A step's own declare entries take precedence.
	Declare map[string]string `yaml:"declare,omitempty"`

	// Steps are certificate steps, checked in order.
	Steps []StepCase `yaml:"steps,omitempty"`

	// Idiv cases exercise the integer division splitter.
	Idiv []IdivCase `yaml:"idiv,omitempty"`

	// Assertions validate the trace and the check log.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID fixes the run ID. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`
}

// StepCase is a certificate step with its expected outcome.
type StepCase struct {
	compiler.Step `yaml:",inline"`

	// Expect is checked against the logged outcome. If nil, the step only
	// contributes to the trace.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect specifies the expected outcome of a step. Empty fields are
// not checked.
type StepExpect struct {
	Coefficients  []string `yaml:"coefficients,omitempty"`
	LCD           string   `yaml:"lcd,omitempty"`
	Inequality    string   `yaml:"inequality,omitempty"`
	Contradiction *bool    `yaml:"contradiction,omitempty"`

	// Error is the expected error code, e.g. MALFORMED_CERTIFICATE.
	Error string `yaml:"error,omitempty"`
}

// IdivCase splits Term by Divisor. Divisor is a term: a positive integer
// numeral is split, anything else builds a plain div.
type IdivCase struct {
	Term    string `yaml:"term"`
	Divisor string `yaml:"divisor"`
	Expect  string `yaml:"expect,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Assertion validates the trace or the check log.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Step names a step (trace_contains).
	Step string `yaml:"step,omitempty"`

	// Steps is the expected order (trace_order).
	Steps []string `yaml:"steps,omitempty"`

	// Kind is the event type to count, default check (trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected number of events (trace_count).
	Count int `yaml:"count,omitempty"`

	// Table is runs or checks (final_state).
	Table string `yaml:"table,omitempty"`

	// Where filters rows by column equality (final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect is a subset of the matched row's columns (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, or dir itself
// if it is a file.
func FindScenarios(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 && len(s.Idiv) == 0 {
		return fmt.Errorf("steps or idiv must be non-empty")
	}

	seen := make(map[string]bool)
	for i, st := range s.Steps {
		if st.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if seen[st.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, st.Name)
		}
		seen[st.Name] = true
		if st.Rule == "" {
			return fmt.Errorf("steps[%d]: rule is required", i)
		}
	}

	for i, c := range s.Idiv {
		if c.Term == "" || c.Divisor == "" {
			return fmt.Errorf("idiv[%d]: term and divisor are required", i)
		}
		if c.Expect != "" && c.Error != "" {
			return fmt.Errorf("idiv[%d]: expect and error are exclusive", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Step == "" {
			return fmt.Errorf("assertions[%d]: step is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Steps) == 0 {
			return fmt.Errorf("assertions[%d]: steps list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
		if a.Kind != "" && a.Kind != EventCheck && a.Kind != EventIdiv {
			return fmt.Errorf("assertions[%d]: unknown event kind %q", index, a.Kind)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
