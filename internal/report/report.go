// Package report renders search results in the tracer's fixed text format
// and as JSON documents.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tram-tr/turing-machine/internal/engine"
)

// Write renders res as the text report:
//
//	Depth of the tree of configurations: <maxDepth>.
//	Total transitions: <steps>.
//	String <input> accepted in <N> transitions.
//	<left>,<state>,<head>,<right>    (one line per path configuration)
//
// A rejection or budget overrun replaces the accepted block with a single
// verdict line.
func Write(w io.Writer, res engine.Result) error {
	ew := &errWriter{w: w}

	ew.printf("Depth of the tree of configurations: %d.\n", res.MaxDepth)
	ew.printf("Total transitions: %d.\n", res.Steps)
	ew.printf("%s\n", Verdict(res))
	if res.Outcome == engine.Accept {
		for _, c := range res.Path {
			ew.printf("%s\n", c.String())
		}
	}

	return ew.err
}

// String renders res with Write and returns the text.
func String(res engine.Result) string {
	var b strings.Builder
	_ = Write(&b, res)
	return b.String()
}

// Verdict returns the single verdict line for res, without a newline.
func Verdict(res engine.Result) string {
	switch res.Outcome {
	case engine.Accept:
		return fmt.Sprintf("String %s accepted in %d transitions.", res.Input, res.Transitions)
	case engine.Reject:
		return fmt.Sprintf("String %s rejected in %d transitions.", res.Input, res.MaxDepth)
	case engine.BudgetExceeded:
		return fmt.Sprintf("Execution stopped after %d max steps limit.", res.MaxSteps)
	default:
		return fmt.Sprintf("String %s has no verdict.", res.Input)
	}
}

// WriteMachineHeader writes the first line of a session output file.
func WriteMachineHeader(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "Name of the machine: %s.\n\n", name)
	return err
}

// WriteEntry writes one session entry: the input line, the report and a
// separating blank line.
func WriteEntry(w io.Writer, res engine.Result) error {
	if _, err := fmt.Fprintf(w, "Initial input string: %s\n", res.Input); err != nil {
		return err
	}
	if err := Write(w, res); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// OutputFileName returns the session output file name for a machine:
// the name with spaces removed, suffixed with -output.txt.
func OutputFileName(machineName string) string {
	return strings.ReplaceAll(machineName, " ", "") + "-output.txt"
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
