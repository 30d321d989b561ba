package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/report"
	"github.com/tram-tr/turing-machine/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	MaxSteps int
	Policy   string
	Database string // optional - persist the run when set
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <machine> <input>",
		Short: "Trace one input breadth-first",
		Long: `Trace one input string through a machine definition.

The configuration tree is explored breadth-first. The report shows the
depth reached, the steps consumed and the verdict; an accepted input also
lists every configuration on the shortest accepting path as
left,state,head,right.

Definitions ending in .cue are read as CUE; anything else is read as the
comma-delimited text format. Pass "" to trace the empty input.

Examples:
  ntm trace machines/zero.txt 0
  ntm trace machines/zero.txt 0011 --max-steps 50
  ntm trace machines/zero.cue 0 --policy dead-ends --db ./ntm.db
  ntm trace machines/zero.txt 0 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxSteps, "step budget")
	cmd.Flags().StringVar(&opts.Policy, "policy", engine.CountExpansions.String(), "budget policy (expansions|dead-ends)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to record the run in")

	return cmd
}

func runTrace(opts *TraceOptions, machinePath, input string, cmd *cobra.Command) error {
	log := opts.logger()

	m, err := loadMachine(machinePath)
	if err != nil {
		return err
	}
	policy, err := engine.ParseBudgetPolicy(opts.Policy)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid policy", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	eng := engine.New(m, engine.WithBudgetPolicy(policy), engine.WithLogger(log))
	res, err := traceOne(ctx, eng, input, opts.MaxSteps)
	if err != nil {
		return err
	}
	log.Info("trace finished", "machine", m.Name, "outcome", res.Outcome.String(), "steps", res.Steps)

	doc := report.NewDocument(m.Name, res)
	if opts.Database != "" {
		run, err := persistRun(ctx, opts.Database, opts.runIDs(), m, res)
		if err != nil {
			return err
		}
		doc.RunID = run.ID
		log.Info("run recorded", "id", run.ID, "seq", run.Seq)
	}

	if opts.jsonOutput() {
		return opts.formatter(cmd).Success(doc)
	}
	return report.Write(cmd.OutOrStdout(), res)
}

// traceOne runs a search and maps its errors to exit codes.
func traceOne(ctx context.Context, eng *engine.Engine, input string, maxSteps int) (engine.Result, error) {
	res, err := eng.Trace(ctx, input, maxSteps)
	switch {
	case err == nil:
		return res, nil
	case engine.IsInvalidBudget(err):
		return engine.Result{}, WrapExitError(ExitCommandError, "invalid max steps", err)
	case errors.Is(err, context.Canceled):
		return engine.Result{}, WrapExitError(ExitCommandError, "search interrupted", err)
	default:
		return engine.Result{}, WrapExitError(ExitCommandError, "search failed", err)
	}
}

// loadMachine reads a definition and reports failures as command errors.
func loadMachine(path string) (*machine.Machine, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("machine file not found: %s", path))
	}
	m, err := machine.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load machine", err)
	}
	return m, nil
}

// persistRun records res in the database at dbPath.
func persistRun(ctx context.Context, dbPath string, ids store.RunIDGenerator, m *machine.Machine, res engine.Result) (store.Run, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.Run{}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	return writeRun(ctx, st, ids, m, res)
}

func writeRun(ctx context.Context, st *store.Store, ids store.RunIDGenerator, m *machine.Machine, res engine.Result) (store.Run, error) {
	hash, err := machine.Hash(m)
	if err != nil {
		return store.Run{}, WrapExitError(ExitCommandError, "failed to hash machine", err)
	}
	run, err := st.WriteRun(ctx, store.Run{
		ID:          ids.Generate(),
		MachineName: m.Name,
		MachineHash: hash,
		Result:      res,
	})
	if err != nil {
		return store.Run{}, WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return run, nil
}

// signalContext derives a context from the command that is cancelled on
// SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
