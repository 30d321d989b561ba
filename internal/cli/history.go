package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tram-tr/turing-machine/internal/report"
	"github.com/tram-tr/turing-machine/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database    string
	Machine     string // optional - filter to one machine name
	MachineHash string // optional - filter to one definition by content hash
	RunID       string // optional - show one run in full
}

// HistoryEntry is one row of the JSON run list.
type HistoryEntry struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Machine     string `json:"machine"`
	MachineHash string `json:"machine_hash"`
	Input       string `json:"input"`
	Outcome     string `json:"outcome"`
	MaxSteps    int    `json:"max_steps"`
	Steps       int    `json:"steps"`
	MaxDepth    int    `json:"max_depth"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with --db by the trace and session commands.

With --run, print the stored report of one run, including its accepting
path. --machine-hash selects the runs of one definition even when it was
traced under different names; describe prints the hash of a definition.

Examples:
  ntm history --db ./ntm.db
  ntm history --db ./ntm.db --machine "zero then blank"
  ntm history --db ./ntm.db --machine-hash 3f2a...
  ntm history --db ./ntm.db --run 0192f0c4-6a1e-7c3b-9d4e-5f6a7b8c9d0e`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Machine, "machine", "", "only list runs of this machine")
	cmd.Flags().StringVar(&opts.MachineHash, "machine-hash", "", "only list runs of the definition with this hash")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run in full")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	// Opening creates the file, so a missing database is checked first
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}

		if opts.jsonOutput() {
			doc := report.NewDocument(run.MachineName, run.Result)
			doc.RunID = run.ID
			return opts.formatter(cmd).Success(doc)
		}
		fmt.Fprintf(w, "Run %s (#%d)\n", run.ID, run.Seq)
		fmt.Fprintf(w, "Name of the machine: %s.\n", run.MachineName)
		return report.WriteEntry(w, run.Result)
	}

	runs, err := st.ListRuns(ctx, store.RunFilter{Machine: opts.Machine, MachineHash: opts.MachineHash})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.jsonOutput() {
		entries := make([]HistoryEntry, len(runs))
		for i, r := range runs {
			entries[i] = historyEntry(r)
		}
		return opts.formatter(cmd).Success(entries)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	return writeRunTable(w, runs)
}

func historyEntry(r store.Run) HistoryEntry {
	return HistoryEntry{
		ID:          r.ID,
		Seq:         r.Seq,
		Machine:     r.MachineName,
		MachineHash: r.MachineHash,
		Input:       r.Result.Input,
		Outcome:     r.Result.Outcome.String(),
		MaxSteps:    r.Result.MaxSteps,
		Steps:       r.Result.Steps,
		MaxDepth:    r.Result.MaxDepth,
	}
}

func writeRunTable(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tMACHINE\tINPUT\tOUTCOME\tSTEPS\tDEPTH")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%q\t%s\t%d/%d\t%d\n",
			r.Seq, r.ID, r.MachineName, r.Result.Input, r.Result.Outcome,
			r.Result.Steps, r.Result.MaxSteps, r.Result.MaxDepth)
	}
	return tw.Flush()
}
