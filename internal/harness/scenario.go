package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted collection run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Collection is the collection name. Defaults to Name.
	Collection string `yaml:"collection,omitempty"`

	// Seed is flushed into the collection before recording starts.
	Seed []map[string]any `yaml:"seed,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the run once every step has been applied.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one collection operation.
type Step struct {
	// Op is the operation name (see the Op constants).
	Op string `yaml:"op"`

	// Record is the record for add, update and update_by_id.
	Record map[string]any `yaml:"record,omitempty"`

	// Where is the query for update, remove and incr.
	Where map[string]any `yaml:"where,omitempty"`

	// Key is the selector field for update when Where is not given.
	Key string `yaml:"key,omitempty"`

	// Records replaces the sequence for flush.
	Records []map[string]any `yaml:"records,omitempty"`

	// Field is the field incr increments.
	Field string `yaml:"field,omitempty"`

	// From and To are the move indexes.
	From *int `yaml:"from,omitempty"`
	To   *int `yaml:"to,omitempty"`

	// Raw is the text corrupt writes to storage.
	Raw string `yaml:"raw,omitempty"`

	// Expect optionally checks the step's own outcome.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect checks a single step.
type StepExpect struct {
	// Count is the number of records the operation returned.
	Count *int `yaml:"count,omitempty"`

	// OK is move's result.
	OK *bool `yaml:"ok,omitempty"`

	// Events are the event names the step fired, in order, exactly.
	Events []string `yaml:"events,omitempty"`
}

// Assertion validates the finished run.
type Assertion struct {
	// Type selects the check (see the Assert constants).
	Type string `yaml:"type"`

	// Events is the expected relative order (event_order).
	Events []string `yaml:"events,omitempty"`

	// Event and Count are used by event_count.
	Event string `yaml:"event,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Records is the expected sequence (final_state). A null entry is an empty slot.
	Records []map[string]any `yaml:"records,omitempty"`

	// ID is the looked-up id (index_state, record).
	ID any `yaml:"id,omitempty"`

	// State is the expected index state name (index_state).
	State string `yaml:"state,omitempty"`

	// Expect is a subset of fields the indexed record must carry (record).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Raw is the expected persisted text (stored).
	Raw string `yaml:"raw,omitempty"`
}

// Operation names.
const (
	OpAdd        = "add"
	OpUpdate     = "update"
	OpUpdateByID = "update_by_id"
	OpRemove     = "remove"
	OpMove       = "move"
	OpFlush      = "flush"
	OpIncr       = "incr"
	OpSave       = "save"
	OpLoad       = "load"
	OpRestore    = "restore"
	OpCorrupt    = "corrupt"
)

// Assertion type constants.
const (
	AssertEventOrder = "event_order"
	AssertEventCount = "event_count"
	AssertFinalState = "final_state"
	AssertIndexState = "index_state"
	AssertRecord     = "record"
	AssertStored     = "stored"
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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateStep checks the fields each operation needs.
func validateStep(index int, s *Step) error {
	switch s.Op {
	case OpAdd, OpUpdateByID:
		if s.Record == nil {
			return fmt.Errorf("steps[%d]: record is required for %s", index, s.Op)
		}
	case OpUpdate:
		if s.Record == nil {
			return fmt.Errorf("steps[%d]: record is required for update", index)
		}
		if s.Where != nil && s.Key != "" {
			return fmt.Errorf("steps[%d]: update takes where or key, not both", index)
		}
	case OpRemove:
		if s.Where == nil {
			return fmt.Errorf("steps[%d]: where is required for remove (use {} to match every record)", index)
		}
	case OpMove:
		if s.From == nil || s.To == nil {
			return fmt.Errorf("steps[%d]: from and to are required for move", index)
		}
	case OpIncr:
		if s.Where == nil || s.Field == "" {
			return fmt.Errorf("steps[%d]: where and field are required for incr", index)
		}
	case OpFlush, OpSave, OpLoad, OpRestore, OpCorrupt:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertEventOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for event_order", index)
		}
	case AssertEventCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for event_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertFinalState:
		// An absent records list asserts an empty collection.
	case AssertIndexState:
		if a.ID == nil {
			return fmt.Errorf("assertions[%d]: id is required for index_state", index)
		}
		switch a.State {
		case "live", "absent", "tombstoned":
		default:
			return fmt.Errorf("assertions[%d]: state must be live, absent or tombstoned", index)
		}
	case AssertRecord:
		if a.ID == nil {
			return fmt.Errorf("assertions[%d]: id is required for record", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for record", index)
		}
	case AssertStored:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
