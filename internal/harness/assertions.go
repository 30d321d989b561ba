package harness

import (
	"fmt"
	"strings"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/report"
)

// ExpectationError is returned when a case does not report what it expects.
// It includes the full report to help debug the failure.
type ExpectationError struct {
	Field    string // Expectation that failed
	Expected string // Human-readable expected value
	Actual   string // Human-readable actual value
	Report   string // Text report of the traced case
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Report != "" {
		fmt.Fprintf(&buf, "\nReport:\n")
		for _, line := range strings.Split(strings.TrimRight(e.Report, "\n"), "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// checkExpect compares res against want and returns one error per mismatch.
func checkExpect(want Expect, res engine.Result) []error {
	var errs []error
	text := report.String(res)

	mismatch := func(field string, expected, actual any) {
		errs = append(errs, &ExpectationError{
			Field:    field,
			Expected: fmt.Sprint(expected),
			Actual:   fmt.Sprint(actual),
			Report:   text,
		})
	}

	if res.Outcome.String() != want.Outcome {
		mismatch("outcome", want.Outcome, res.Outcome.String())
	}
	if want.Transitions != nil && *want.Transitions != res.Transitions {
		mismatch("transitions", *want.Transitions, res.Transitions)
	}
	if want.MaxDepth != nil && *want.MaxDepth != res.MaxDepth {
		mismatch("max_depth", *want.MaxDepth, res.MaxDepth)
	}
	if want.Steps != nil && *want.Steps != res.Steps {
		mismatch("steps", *want.Steps, res.Steps)
	}
	if want.PathLen != nil && *want.PathLen != len(res.Path) {
		mismatch("path_len", *want.PathLen, len(res.Path))
	}
	if want.Final != "" {
		final := "(no path)"
		if n := len(res.Path); n > 0 {
			final = res.Path[n-1].String()
		}
		if final != want.Final {
			mismatch("final", want.Final, final)
		}
	}

	return errs
}
