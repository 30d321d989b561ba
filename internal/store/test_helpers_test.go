package store

import (
	"path/filepath"
	"testing"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/tape"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// acceptedResult is the result of tracing "0" on the zero-then-blank machine.
func acceptedResult() engine.Result {
	return engine.Result{
		Input:       "0",
		Outcome:     engine.Accept,
		MaxSteps:    10,
		Policy:      engine.CountExpansions,
		Steps:       2,
		MaxDepth:    2,
		Transitions: 2,
		Path: []tape.Configuration{
			{State: "q0", Left: "", Head: '0', Right: ""},
			{State: "q1", Left: "0", Head: machine.Blank, Right: ""},
			{State: "qa", Left: "0_", Head: machine.Blank, Right: ""},
		},
		Visited: 3,
	}
}

// rejectedResult is the result of tracing "1" on the zero-then-blank machine.
func rejectedResult() engine.Result {
	return engine.Result{
		Input:    "1",
		Outcome:  engine.Reject,
		MaxSteps: 10,
		Policy:   engine.CountExpansions,
		Visited:  1,
		DeadEnds: 1,
	}
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, machineName string, res engine.Result) Run {
	return Run{
		ID:          id,
		MachineName: machineName,
		MachineHash: "test-hash",
		Result:      res,
	}
}
