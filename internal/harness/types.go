package harness

import (
	"github.com/tram-tr/turing-machine/internal/engine"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Input  string        `json:"input"`
	Pass   bool          `json:"pass"`
	Errors []string      `json:"errors,omitempty"`
	Result engine.Result `json:"result"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Machine is the name declared by the traced definition.
	Machine string `json:"machine"`

	// Pass indicates overall test success.
	// True if every case matched its expectations.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains every case error, prefixed with the case index.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
