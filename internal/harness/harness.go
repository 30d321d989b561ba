package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/logging"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/report"
)

// Harness runs scenarios against the engine.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the engine. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a default Harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load the machine definition
// 2. Trace every case with a fresh search
// 3. Compare each result with the case's expectations
//
// A returned error means the scenario could not run (unreadable machine,
// bad policy, cancelled context). Expectation mismatches are recorded on
// the Result, not returned.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	m, err := machine.Load(scenario.Machine)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}

	policy, err := engine.ParseBudgetPolicy(scenario.Policy)
	if err != nil {
		return nil, err
	}

	eng := engine.New(m, engine.WithBudgetPolicy(policy), engine.WithLogger(h.logger))

	result := NewResult()
	result.Machine = m.Name

	for i, c := range scenario.Cases {
		res, err := eng.Trace(ctx, c.Input, c.MaxSteps)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}

		cr := CaseResult{Input: res.Input, Pass: true, Result: res}
		for _, e := range checkExpect(c.Expect, res) {
			cr.Pass = false
			cr.Errors = append(cr.Errors, e.Error())
			result.AddError(fmt.Sprintf("cases[%d] %q: %v", i, c.Input, e))
		}
		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

// Transcript renders every case of result the way the session output file
// does: a machine header, then one entry per case.
func Transcript(result *Result) []byte {
	var buf bytes.Buffer
	_ = report.WriteMachineHeader(&buf, result.Machine)
	for _, c := range result.Cases {
		_ = report.WriteEntry(&buf, c.Result)
	}
	return buf.Bytes()
}
