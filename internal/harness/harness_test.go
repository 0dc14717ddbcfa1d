package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/collectionize/internal/collection"
)

func TestRun_TestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(scenario.Steps))
		})
	}
}

func TestRun_TraceSequence(t *testing.T) {
	scenario := &Scenario{
		Name:        "trace_sequence",
		Description: "Steps are numbered from one",
		Steps: []Step{
			{Op: OpAdd, Record: map[string]any{"id": 1}},
			{Op: OpAdd, Record: map[string]any{"id": 2}},
			{Op: OpSave},
		},
		Assertions: []Assertion{{Type: AssertEventCount, Event: collection.EventAdded, Count: 2}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	for i, step := range result.Trace {
		assert.Equal(t, int64(i+1), step.Seq)
	}
	assert.Equal(t, []string{`{"id":1}`}, result.Trace[0].Returned)
	assert.Nil(t, result.Trace[2].Returned)
	assert.Equal(t, []string{
		collection.EventBeforeAdd, collection.EventAdded,
		collection.EventBeforeAdd, collection.EventAdded,
	}, result.EventNames())
}

func TestRun_DoesNotMutateScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_mutation",
		Description: "Running twice gives the same result",
		Seed:        []map[string]any{{"id": 1, "n": 1}},
		Steps: []Step{
			{Op: OpUpdate, Record: map[string]any{"id": 1, "extra": true}},
			{Op: OpIncr, Where: map[string]any{"id": 1}, Field: "n"},
		},
		Assertions: []Assertion{{Type: AssertRecord, ID: 1, Expect: map[string]any{"n": 2, "extra": true}}},
	}

	for range 2 {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
	}
	assert.Equal(t, map[string]any{"id": 1, "n": 1}, scenario.Seed[0])
	assert.Equal(t, map[string]any{"id": 1, "extra": true}, scenario.Steps[0].Record)
}

func TestRun_StepExpectationFailures(t *testing.T) {
	count := 5
	ok := true
	scenario := &Scenario{
		Name:        "expect_failures",
		Description: "Step expectations that do not hold are reported",
		Seed:        []map[string]any{{"id": 1}},
		Steps: []Step{
			{
				Op:     OpRemove,
				Where:  map[string]any{"id": 1},
				Expect: &StepExpect{Count: &count, Events: []string{collection.EventAdded}},
			},
			{
				Op:     OpMove,
				From:   intPtr(3),
				To:     intPtr(0),
				Expect: &StepExpect{OK: &ok},
			},
		},
		Assertions: []Assertion{{Type: AssertFinalState}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "steps[0] remove: returned 1 records, expected 5")
	assert.Contains(t, result.Errors[1], "steps[0] remove: fired [removed], expected [added]")
	assert.Contains(t, result.Errors[2], "steps[1] move: ok = false, expected true")
}

func TestRun_AssertionFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertion_failure",
		Description: "Failed assertions are collected, not returned",
		Steps:       []Step{{Op: OpAdd, Record: map[string]any{"id": 1}}},
		Assertions: []Assertion{
			{Type: AssertIndexState, ID: 1, State: "tombstoned"},
			{Type: AssertEventCount, Event: collection.EventAdded, Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertions[0]")
	assert.Contains(t, result.Errors[0], "index_state")
}

func TestRun_UnknownOp(t *testing.T) {
	scenario := &Scenario{
		Name:        "unknown_op",
		Description: "Ops that bypassed validation still fail",
		Steps:       []Step{{Op: "upsert"}},
		Assertions:  []Assertion{{Type: AssertFinalState}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `steps[0] upsert: unknown op "upsert"`)
}

func TestRun_CollectionName(t *testing.T) {
	scenario := &Scenario{
		Name:        "scenario_name",
		Description: "An explicit collection name sets the storage key",
		Collection:  "todos",
		Steps: []Step{
			{Op: OpAdd, Record: map[string]any{"id": 1}},
			{Op: OpSave},
		},
		Assertions: []Assertion{{Type: AssertStored, Raw: `[{"id":1}]`}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func intPtr(n int) *int {
	return &n
}
