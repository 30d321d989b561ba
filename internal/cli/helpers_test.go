package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tram-tr/turing-machine/internal/testutil"
)

// cliRun holds what one command invocation produced.
type cliRun struct {
	stdout string
	stderr string
	err    error
}

// runCommand executes the root command built around opts with args and
// stdin.
func runCommand(t *testing.T, opts *RootOptions, stdin string, args ...string) cliRun {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// execute runs Execute and returns the exit code with both streams.
func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeMachines writes the shared test machines into dir.
func writeMachines(t *testing.T, dir string) (zero, guess, zeroCUE string) {
	t.Helper()

	zero = testutil.WriteFile(t, dir, "zero.txt", testutil.ZeroThenBlank)
	guess = testutil.WriteFile(t, dir, "guess.txt", testutil.GuessBit)
	zeroCUE = testutil.WriteFile(t, dir, "zero.cue", testutil.ZeroThenBlankCUE)
	return zero, guess, zeroCUE
}
