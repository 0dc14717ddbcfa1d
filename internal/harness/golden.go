package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/collectionize/internal/codec"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Final        []string
}

// toCanonicalMap converts a TraceSnapshot to plain maps so that the codec's
// canonical key ordering applies to the whole document.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Trace))
	for i, step := range s.Trace {
		stepMap := map[string]any{
			"seq":    step.Seq,
			"op":     step.Op,
			"events": step.Events,
		}
		if step.Returned != nil {
			stepMap["returned"] = rawRecords(step.Returned)
		}
		if step.OK != nil {
			stepMap["ok"] = *step.OK
		}
		steps[i] = stepMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         steps,
		"final":         rawRecords(s.Final),
	}
}

func rawRecords(encoded []string) []json.RawMessage {
	out := make([]json.RawMessage, len(encoded))
	for i, e := range encoded {
		out[i] = json.RawMessage(e)
	}
	return out
}

// MarshalSnapshot renders a result's trace in canonical JSON.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	final, err := snapshot(result.Records)
	if err != nil {
		return nil, err
	}
	snap := TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Final:        final,
	}
	return codec.EncodeRecord(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
