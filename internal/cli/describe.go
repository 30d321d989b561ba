package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tram-tr/turing-machine/internal/machine"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <machine>",
		Short: "Summarize a machine definition",
		Long: `Print a summary of a machine definition: its states, table size,
nondeterministic rows and states that transitions reach without declaring.

The summary is informational; nothing in it stops a trace from running.

Examples:
  ntm describe machines/zero.txt
  ntm describe machines/zero.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMachine(args[0])
			if err != nil {
				return err
			}
			summary := machine.Describe(m)
			if rootOpts.jsonOutput() {
				return rootOpts.formatter(cmd).Success(summary)
			}
			return writeSummary(cmd.OutOrStdout(), summary)
		},
	}

	return cmd
}

func writeSummary(w io.Writer, s machine.Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Machine: %s\n", s.Name)
	if s.Hash != "" {
		fmt.Fprintf(&b, "Hash: %s\n", s.Hash)
	}
	fmt.Fprintf(&b, "States: %d (start %s, accept %s, reject %s)\n",
		s.States, s.Start, strings.Join(s.Accept, ","), s.Reject)
	fmt.Fprintf(&b, "Transitions: %d in %d rows\n", s.Transitions, s.Rows)

	if s.Deterministic() {
		b.WriteString("Deterministic: yes\n")
	} else {
		fmt.Fprintf(&b, "Deterministic: no (%d branching rows)\n", len(s.Branching))
		for _, br := range s.Branching {
			fmt.Fprintf(&b, "  %s,%s -> %d choices\n", br.State, br.Read, br.FanOut)
		}
	}

	if len(s.Undeclared) > 0 {
		fmt.Fprintf(&b, "Undeclared states: %s\n", strings.Join(s.Undeclared, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
